package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/niknshinde/Traditional-Rag/internal/services"
	"github.com/niknshinde/Traditional-Rag/pkg/logger"
)

type QueryHandler struct {
	query *services.QueryService
	log   logger.Logger
}

func NewQueryHandler(query *services.QueryService, log logger.Logger) *QueryHandler {
	return &QueryHandler{query: query, log: log.Named("query")}
}

type queryRequest struct {
	Question string `json:"question"`
}

// Query answers a question against the ingested corpus.
func (h *QueryHandler) Query(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "No question provided")
		return
	}

	question := strings.TrimSpace(req.Question)
	if question == "" {
		writeError(w, http.StatusBadRequest, "Question cannot be empty")
		return
	}

	answer, err := h.query.Answer(r.Context(), question)
	if err != nil {
		h.log.Error("query failed", logger.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"question": question,
		"answer":   answer,
	})
}
