package core

import (
	"context"
	"io"

	"golang.org/x/sync/errgroup"

	"github.com/niknshinde/Traditional-Rag/internal/models"
)

// DbClient defines all persistence operations the services need.
// It abstracts Postgres/pgvector so higher layers never depend on a specific DB.
type DbClient interface {
	Ping(ctx context.Context) error

	CreateDocument(ctx context.Context, doc *models.Document) error
	ListDocuments(ctx context.Context) ([]models.Document, error)
	UpdateDocumentStatus(ctx context.Context, id string, status string) error
	SetDocumentChunkCount(ctx context.Context, id string, chunks int) error

	InsertDocumentChunks(ctx context.Context, chunks []models.DocumentChunk) error
	SearchChunks(ctx context.Context, queryVec []float32, limit int) ([]models.DocumentChunk, error)

	Close() error
}

// ObjectClient defines interactions with S3 or any object storage.
// Reads are streamed; originals can be large.
type ObjectClient interface {
	UploadFile(ctx context.Context, bucket, key string, data []byte, contentType string) (url string, err error)
	DeleteFile(ctx context.Context, bucket, key string) error
	GetObjectReader(ctx context.Context, bucket, key string) (io.ReadCloser, error)
}

// EmbeddingProvider turns text into vectors.
type EmbeddingProvider interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// LLMProvider generates an answer from a system and user prompt.
type LLMProvider interface {
	Generate(ctx context.Context, systemPrompt string, userPrompt string) (string, error)
}

// DocumentExtractor extracts plain-text fragments from a document stream.
// The contentType hint helps the extractor choose the right parsing strategy.
// Extraction runs on the supplied errgroup so failures cancel the whole pipeline.
type DocumentExtractor interface {
	ExtractText(ctx context.Context, g *errgroup.Group, r io.Reader, contentType string) <-chan string
}
