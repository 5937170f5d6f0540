package handlers

import (
	"net/http"

	"github.com/niknshinde/Traditional-Rag/internal/core"
	"github.com/niknshinde/Traditional-Rag/pkg/logger"
)

type StatusHandler struct {
	db  core.DbClient
	log logger.Logger
}

func NewStatusHandler(db core.DbClient, log logger.Logger) *StatusHandler {
	return &StatusHandler{db: db, log: log.Named("status")}
}

// GetStatus reports backend reachability. The UI only looks at the literal
// "connected" value; anything else renders as disconnected.
func (h *StatusHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	if err := h.db.Ping(r.Context()); err != nil {
		h.log.Warn("status check failed", logger.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"status": "error",
			"error":  err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "connected",
		"database": true,
	})
}
