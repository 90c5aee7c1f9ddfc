// Command analyze runs the pipeline once over a single document and prints
// the combined result as JSON. Useful for smoke-testing credentials and
// prompts without standing up the HTTP server.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/aienergy/invoice-analyzer/internal/common"
	"github.com/aienergy/invoice-analyzer/internal/llm"
	"github.com/aienergy/invoice-analyzer/internal/llm/groq"
	"github.com/aienergy/invoice-analyzer/internal/ocr"
	"github.com/aienergy/invoice-analyzer/internal/pipeline"
	"github.com/aienergy/invoice-analyzer/internal/store"
)

func main() {
	var (
		file    = flag.String("file", "", "invoice document to process (pdf, jpg, jpeg or png)")
		dataDir = flag.String("data", "", "persist artifacts under this directory (default: in-memory only)")
		verbose = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	if *file == "" {
		fmt.Fprintln(os.Stderr, "usage: analyze -file <invoice.pdf> [-data <dir>] [-v]")
		os.Exit(2)
	}

	_ = godotenv.Load()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("config.invalid", "error", err)
		os.Exit(1)
	}

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

	extractor := ocr.NewExtractor(ocr.Config{
		BaseURL:     cfg.OCR.WhispererBaseURL,
		APIKey:      cfg.OCR.WhispererAPIKey,
		WaitTimeout: cfg.OCR.WaitTimeout,
		TempDir:     cfg.OCR.TempDir,
		Brightness:  cfg.OCR.Brightness,
		Contrast:    cfg.OCR.Contrast,
		Sharpness:   cfg.OCR.Sharpness,
	}, logger)

	var st store.ArtifactStore
	if *dataDir != "" {
		fsStore, err := store.NewFSStore(*dataDir, logger)
		if err != nil {
			logger.Error("store.init_failed", "error", err)
			os.Exit(1)
		}
		st = fsStore
	} else {
		st = store.NewMemStore()
	}

	proc := pipeline.NewProcessor(extractor, llm.NewStageGenerator(client, logger), st, logger)

	full, err := proc.Process(context.Background(), *file)
	if err != nil {
		logger.Error("pipeline.failed", "file", *file, "error", err)
		os.Exit(1)
	}

	out, err := json.MarshalIndent(full, "", "  ")
	if err != nil {
		logger.Error("encode result", "error", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}
