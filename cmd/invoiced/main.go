package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/aienergy/invoice-analyzer/internal/common"
	"github.com/aienergy/invoice-analyzer/internal/export"
	"github.com/aienergy/invoice-analyzer/internal/llm"
	"github.com/aienergy/invoice-analyzer/internal/llm/groq"
	"github.com/aienergy/invoice-analyzer/internal/ocr"
	"github.com/aienergy/invoice-analyzer/internal/pipeline"
	"github.com/aienergy/invoice-analyzer/internal/server"
	"github.com/aienergy/invoice-analyzer/internal/store"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("config.invalid", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := groq.NewClient(groq.Config{
		APIKey:  cfg.LLM.APIKey,
		BaseURL: cfg.LLM.BaseURL,
		Model:   cfg.LLM.Model,
		Timeout: cfg.LLM.Timeout,
	}, logger)
	if err != nil {
		logger.Error("llm.client_init_failed", "error", err)
		os.Exit(1)
	}
	gen := llm.NewStageGenerator(client, logger)

	extractor := ocr.NewExtractor(ocr.Config{
		BaseURL:     cfg.OCR.WhispererBaseURL,
		APIKey:      cfg.OCR.WhispererAPIKey,
		WaitTimeout: cfg.OCR.WaitTimeout,
		TempDir:     cfg.OCR.TempDir,
		Brightness:  cfg.OCR.Brightness,
		Contrast:    cfg.OCR.Contrast,
		Sharpness:   cfg.OCR.Sharpness,
	}, logger)

	st, err := store.NewFSStore(cfg.Store.DataDir, logger)
	if err != nil {
		logger.Error("store.init_failed", "error", err)
		os.Exit(1)
	}

	proc := pipeline.NewProcessor(extractor, gen, st, logger)
	exp := export.NewService(proc, logger)

	srv := server.NewServer(cfg.Server, proc, exp, logger).HTTPServer()

	go func() {
		logger.Info("server.listen", "addr", cfg.Server.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server.failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("server.shutting_down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server.shutdown_failed", "error", err)
	}
	logger.Info("server.stopped")
}
