package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/niknshinde/Traditional-Rag/internal/app"
	"github.com/niknshinde/Traditional-Rag/internal/config"
	"github.com/niknshinde/Traditional-Rag/pkg/logger"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle SIGINT/SIGTERM for graceful shutdown
	go func() {
		c := make(chan os.Signal, 1)
		signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
		<-c
		cancel()
	}()

	cfg := config.LoadConfig()

	lg, err := logger.New(logger.Config{Level: cfg.LogLevel, FilePath: "logs/api.log"})
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}
	defer lg.Sync()

	application, err := app.NewApp(ctx, cfg, lg)
	if err != nil {
		lg.Fatal("startup failed", logger.Error(err))
	}
	defer application.Close()

	go application.Server.Start()
	lg.Info("Traditional-RAG is running; DB connected and bootstrapped")

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := application.Server.Shutdown(shutdownCtx); err != nil {
		lg.Error("shutdown error", logger.Error(err))
	}
}
