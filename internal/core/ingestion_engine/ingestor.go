package ingestion_engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/niknshinde/Traditional-Rag/internal/core"
	"github.com/niknshinde/Traditional-Rag/internal/models"
	"github.com/niknshinde/Traditional-Rag/pkg/logger"
)

// IngestConfig tunes the streaming pipeline.
//
// TargetTokens:  approximate tokens per chunk.
// OverlapTokens: token overlap between consecutive chunks for context bleed.
// BatchSize:     how many chunks to embed/write in one batch.
type IngestConfig struct {
	TargetTokens  int
	OverlapTokens int
	BatchSize     int
}

// Ingestor drives one document through extract -> chunk -> embed -> persist.
type Ingestor interface {
	Ingest(ctx context.Context, doc *models.Document) (chunks int, err error)
}

// DocumentIngestor orchestrates the ingestion pipeline:
//
// db:        persistence for document and chunks.
// obj:       object storage holding the original file.
// embedder:  embedding provider.
// extractor: text extraction for the stored content type.
// cfg:       runtime tuning knobs for the pipeline.
type DocumentIngestor struct {
	db        core.DbClient
	obj       core.ObjectClient
	embedder  core.EmbeddingProvider
	extractor core.DocumentExtractor
	cfg       *IngestConfig
	log       logger.Logger
}

var _ Ingestor = (*DocumentIngestor)(nil)

func NewDocumentIngestor(db core.DbClient, obj core.ObjectClient, emb core.EmbeddingProvider, ext core.DocumentExtractor, cfg *IngestConfig, log logger.Logger) *DocumentIngestor {
	return &DocumentIngestor{db: db, obj: obj, embedder: emb, extractor: ext, cfg: cfg, log: log.Named("ingestor")}
}

// Ingest runs the full pipeline for a single document and returns the number
// of chunks written. The document's status ends up ready or failed.
func (i *DocumentIngestor) Ingest(ctx context.Context, doc *models.Document) (int, error) {
	procCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	started := time.Now()
	_ = i.db.UpdateDocumentStatus(procCtx, doc.ID, models.StatusProcessing)

	bucket, key := parseS3URL(doc.StorageURL)

	rc, err := i.obj.GetObjectReader(procCtx, bucket, key)
	if err != nil {
		_ = i.db.UpdateDocumentStatus(procCtx, doc.ID, models.StatusFailed)
		return 0, fmt.Errorf("get object: %w", err)
	}
	defer rc.Close()

	// Tie the pipeline stages together; any stage error cancels the rest.
	g, gctx := errgroup.WithContext(procCtx)

	fragCh := i.extractor.ExtractText(gctx, g, rc, doc.ContentType)
	chunkCh := i.streamChunk(gctx, g, fragCh, i.cfg.TargetTokens, i.cfg.OverlapTokens)

	var written int
	g.Go(func() error {
		n, err := i.embedAndPersist(gctx, doc, chunkCh, i.cfg.BatchSize)
		written = n
		return err
	})

	if err := g.Wait(); err != nil {
		_ = i.db.UpdateDocumentStatus(procCtx, doc.ID, models.StatusFailed)
		return 0, err
	}
	if written == 0 {
		_ = i.db.UpdateDocumentStatus(procCtx, doc.ID, models.StatusFailed)
		return 0, fmt.Errorf("document %s produced no chunks", doc.FileName)
	}

	if err := i.db.SetDocumentChunkCount(procCtx, doc.ID, written); err != nil {
		return written, err
	}
	if err := i.db.UpdateDocumentStatus(procCtx, doc.ID, models.StatusReady); err != nil {
		return written, err
	}

	i.log.Info("document ingested",
		logger.String("document_id", doc.ID),
		logger.String("file", doc.FileName),
		logger.Int("chunks", written),
		logger.Duration("took", time.Since(started)))
	return written, nil
}

// embedAndPersist batches chunks, embeds each batch and writes it to the DB.
// Returns the number of chunks persisted.
func (i *DocumentIngestor) embedAndPersist(ctx context.Context, doc *models.Document, chunks <-chan chunk, batchSize int) (int, error) {
	if batchSize <= 0 {
		batchSize = 16
	}

	var (
		batch []chunk
		total int
	)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		texts := make([]string, len(batch))
		for j, ch := range batch {
			texts[j] = ch.Text
		}

		vecs, err := i.embedder.EmbedTexts(ctx, texts)
		if err != nil {
			return fmt.Errorf("embed batch: %w", err)
		}
		if len(vecs) != len(batch) {
			return fmt.Errorf("embedder returned %d vectors for %d chunks", len(vecs), len(batch))
		}

		rows := make([]models.DocumentChunk, len(batch))
		for j, ch := range batch {
			rows[j] = models.DocumentChunk{
				ID:         uuid.NewString(),
				DocumentID: doc.ID,
				Position:   ch.Pos,
				Text:       ch.Text,
				Embedding:  vecs[j],
				TokenCount: ch.TokenCnt,
				Source:     doc.FileName,
			}
		}
		if err := i.db.InsertDocumentChunks(ctx, rows); err != nil {
			return fmt.Errorf("insert chunks: %w", err)
		}
		total += len(batch)
		batch = batch[:0]
		return nil
	}

	for ch := range chunks {
		batch = append(batch, ch)
		if len(batch) >= batchSize {
			if err := flush(); err != nil {
				return total, err
			}
		}
	}
	if err := flush(); err != nil {
		return total, err
	}
	return total, nil
}

// parseS3URL extracts the bucket and key from a virtual-hosted-style S3 URL.
// Example: https://my-bucket.s3.us-east-2.amazonaws.com/path/to/file.pdf
func parseS3URL(u string) (bucket, key string) {
	hostPath := strings.SplitN(strings.TrimPrefix(u, "https://"), "/", 2)
	host := hostPath[0]
	if len(hostPath) == 2 {
		key = hostPath[1]
	}
	if idx := strings.Index(host, "."); idx > 0 {
		bucket = host[:idx]
	}
	return bucket, key
}
