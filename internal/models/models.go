package models

import (
	"time"
)

// Document statuses as stored in the documents table.
const (
	StatusUploaded   = "uploaded"
	StatusProcessing = "processing"
	StatusReady      = "ready"
	StatusFailed     = "failed"
)

// Document represents one uploaded file and its ingestion state.
type Document struct {
	ID          string    `db:"id" json:"id"`
	FileName    string    `db:"file_name" json:"name"`
	SizeBytes   int64     `db:"size_bytes" json:"size"`
	ContentType string    `db:"content_type" json:"-"`
	StorageURL  string    `db:"storage_url" json:"-"` // S3 URL of the original file
	Status      string    `db:"status" json:"status"` // uploaded | processing | ready | failed
	ChunkCount  int       `db:"chunk_count" json:"chunks"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// DocumentChunk represents one text chunk from a document.
type DocumentChunk struct {
	ID         string    `db:"id" json:"id"`
	DocumentID string    `db:"document_id" json:"document_id"`
	Position   int       `db:"position" json:"position"`
	Text       string    `db:"text" json:"text"`
	Embedding  []float32 `db:"embedding" json:"-"` // pgvector column
	TokenCount int       `db:"token_count" json:"token_count"`
	Source     string    `db:"source" json:"source"` // originating file name, used for prompt citations
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
