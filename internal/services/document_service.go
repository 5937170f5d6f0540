package services

import (
	"context"
	"fmt"
	"path"
	"strings"

	"code.sajari.com/docconv"
	"github.com/google/uuid"

	"github.com/niknshinde/Traditional-Rag/internal/core"
	ingestor "github.com/niknshinde/Traditional-Rag/internal/core/ingestion_engine"
	"github.com/niknshinde/Traditional-Rag/internal/models"
)

// allowedExtensions are the document types the backend accepts for ingestion.
var allowedExtensions = map[string]bool{
	".pdf":  true,
	".docx": true,
	".txt":  true,
}

// AllowedExtension reports whether filename ends in a supported extension
// (case-insensitive match on the final extension).
func AllowedExtension(filename string) bool {
	return allowedExtensions[strings.ToLower(path.Ext(filename))]
}

// ExtensionList returns the supported extensions without dots, for error messages.
func ExtensionList() string {
	return "pdf, docx, txt"
}

type DocumentService struct {
	db       core.DbClient
	storage  core.ObjectClient
	ingestor ingestor.Ingestor
	bucket   string
}

func NewDocumentService(db core.DbClient, storage core.ObjectClient, ing ingestor.Ingestor, bucket string) *DocumentService {
	return &DocumentService{db: db, storage: storage, ingestor: ing, bucket: bucket}
}

// UploadAndIngest stores the original file, records the document and runs the
// ingestion pipeline. It returns the created document with its chunk count set.
// When ingestion fails the stored original is deleted again, so the bucket only
// holds objects with a live document row behind them.
func (s *DocumentService) UploadAndIngest(ctx context.Context, filename, contentType string, data []byte) (*models.Document, error) {
	docID := uuid.NewString()
	key := s.objectKey(docID, filename)

	contentType = resolveContentType(filename, contentType)

	url, err := s.storage.UploadFile(ctx, s.bucket, key, data, contentType)
	if err != nil {
		return nil, fmt.Errorf("store original: %w", err)
	}

	doc := &models.Document{
		ID:          docID,
		FileName:    filename,
		SizeBytes:   int64(len(data)),
		ContentType: contentType,
		StorageURL:  url,
		Status:      models.StatusUploaded,
	}
	if err := s.db.CreateDocument(ctx, doc); err != nil {
		_ = s.storage.DeleteFile(ctx, s.bucket, key)
		return nil, fmt.Errorf("store document metadata: %w", err)
	}

	chunks, err := s.ingestor.Ingest(ctx, doc)
	if err != nil {
		_ = s.storage.DeleteFile(ctx, s.bucket, key)
		return nil, err
	}
	doc.ChunkCount = chunks
	doc.Status = models.StatusReady
	return doc, nil
}

// resolveContentType picks the MIME type the extractor will be handed. Multipart
// clients routinely send application/octet-stream for the file part, which
// docconv cannot convert, so a missing or generic type is re-derived from the
// already-validated extension.
func resolveContentType(filename, contentType string) string {
	if contentType == "" || contentType == "application/octet-stream" {
		return docconv.MimeTypeByExtension(filename)
	}
	return contentType
}

// List returns all documents in upload order.
func (s *DocumentService) List(ctx context.Context) ([]models.Document, error) {
	return s.db.ListDocuments(ctx)
}

// objectKey builds the storage key. Base-name the filename to strip any
// path components a client might smuggle in.
func (s *DocumentService) objectKey(docID, filename string) string {
	return fmt.Sprintf("%s/%s", docID, path.Base(filename))
}
