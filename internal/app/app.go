package app

import (
	"context"
	"fmt"
	"time"

	"github.com/niknshinde/Traditional-Rag/internal/config"
	db "github.com/niknshinde/Traditional-Rag/internal/core/database"
	ingestor "github.com/niknshinde/Traditional-Rag/internal/core/ingestion_engine"
	"github.com/niknshinde/Traditional-Rag/internal/core/llm"
	objectclient "github.com/niknshinde/Traditional-Rag/internal/core/object-client"
	"github.com/niknshinde/Traditional-Rag/internal/services"
	"github.com/niknshinde/Traditional-Rag/pkg/logger"
)

type App struct {
	DBClient     *db.DatabaseClient
	ObjectClient *objectclient.S3Client
	Embedder     *llm.GeminiEmbedder
	LLM          *llm.GeminiLLM
	Server       *Server
	Log          logger.Logger
}

func NewApp(ctx context.Context, cfg *config.Config, log logger.Logger) (*App, error) {
	appCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	dbClient, err := db.NewDatabaseClient(appCtx, cfg)
	if err != nil {
		return nil, err
	}
	log.Info("database initialized and ready")

	objClient, err := objectclient.NewS3Client(appCtx, cfg)
	if err != nil {
		return nil, err
	}
	log.Info("object storage client ready")

	embedder, err := llm.NewGeminiEmbedder(appCtx, cfg.AIAPIKey, cfg.EmbedModel)
	if err != nil {
		return nil, fmt.Errorf("initialize embedder: %w", err)
	}

	llmProvider, err := llm.NewGeminiLLM(appCtx, cfg.AIAPIKey, cfg.GenModel)
	if err != nil {
		return nil, fmt.Errorf("initialize llm: %w", err)
	}

	extractor := ingestor.NewDocconvExtractor(false)

	ingCfg := &ingestor.IngestConfig{
		TargetTokens:  cfg.TargetTokens,
		OverlapTokens: cfg.OverlapTokens,
		BatchSize:     cfg.BatchSize,
	}
	docIngestor := ingestor.NewDocumentIngestor(dbClient, objClient, embedder, extractor, ingCfg, log)

	docService := services.NewDocumentService(dbClient, objClient, docIngestor, cfg.BucketName)
	queryService := services.NewQueryService(dbClient, embedder, llmProvider)

	server := NewServer(cfg, dbClient, docService, queryService, log)

	return &App{
		DBClient:     dbClient,
		ObjectClient: objClient,
		Embedder:     embedder,
		LLM:          llmProvider,
		Server:       server,
		Log:          log,
	}, nil
}

func (a *App) Close() {
	if a.Embedder != nil {
		_ = a.Embedder.Close()
	}
	if a.LLM != nil {
		_ = a.LLM.Close()
	}
	if a.DBClient != nil {
		_ = a.DBClient.Close()
	}
}
