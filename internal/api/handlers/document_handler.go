package handlers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"time"

	"github.com/niknshinde/Traditional-Rag/internal/services"
	"github.com/niknshinde/Traditional-Rag/pkg/logger"
)

const maxUploadBytes = 50 << 20 // 50 MB, matching the picker-side limit

type DocumentHandler struct {
	docs *services.DocumentService
	log  logger.Logger
}

func NewDocumentHandler(docs *services.DocumentService, log logger.Logger) *DocumentHandler {
	return &DocumentHandler{docs: docs, log: log.Named("documents")}
}

// documentEntry is the listing shape the registry consumes.
type documentEntry struct {
	Name   string `json:"name"`
	Size   int64  `json:"size"`
	Chunks int    `json:"chunks"`
}

// UploadDocument handles file upload, storage and synchronous ingestion.
// The response carries the stored filename and the number of chunks produced.
func (h *DocumentHandler) UploadDocument(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file provided")
		return
	}
	defer file.Close()

	filename := filepath.Base(header.Filename)
	if filename == "" || filename == "." {
		writeError(w, http.StatusBadRequest, "No file selected")
		return
	}
	if !services.AllowedExtension(filename) {
		writeError(w, http.StatusBadRequest,
			fmt.Sprintf("File type not allowed. Supported: %s", services.ExtensionList()))
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "could not read upload")
		return
	}

	contentType := header.Header.Get("Content-Type")

	uploadCtx, cancel := context.WithTimeout(r.Context(), 5*time.Minute)
	defer cancel()

	doc, err := h.docs.UploadAndIngest(uploadCtx, filename, contentType, data)
	if err != nil {
		h.log.Error("upload failed", logger.String("file", filename), logger.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.log.Info("upload complete",
		logger.String("file", doc.FileName),
		logger.Int64("size", doc.SizeBytes),
		logger.Int("chunks", doc.ChunkCount))

	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"filename": doc.FileName,
		"chunks":   doc.ChunkCount,
		"message":  fmt.Sprintf("Successfully ingested %d chunks from %s", doc.ChunkCount, doc.FileName),
	})
}

// GetDocuments lists uploaded documents in upload order.
func (h *DocumentHandler) GetDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := h.docs.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	entries := make([]documentEntry, 0, len(docs))
	for _, d := range docs {
		entries = append(entries, documentEntry{Name: d.FileName, Size: d.SizeBytes, Chunks: d.ChunkCount})
	}

	writeJSON(w, http.StatusOK, map[string]any{"documents": entries})
}
