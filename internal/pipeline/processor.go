// Package pipeline orchestrates the four-stage run over one uploaded
// document: text extraction, field extraction, anomaly analysis, then
// recommendations. Stages are strictly sequential with no retries; a
// failure at any stage aborts the run before anything is persisted.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/aienergy/invoice-analyzer/internal/entity"
	"github.com/aienergy/invoice-analyzer/internal/llm"
	"github.com/aienergy/invoice-analyzer/internal/store"
)

// TextExtractor is the document-to-text seam; satisfied by ocr.Extractor.
type TextExtractor interface {
	ExtractText(ctx context.Context, path string) (string, error)
}

type Processor struct {
	ocr    TextExtractor
	gen    llm.Generator
	store  store.ArtifactStore
	logger *slog.Logger
}

func NewProcessor(ocr TextExtractor, gen llm.Generator, st store.ArtifactStore, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{ocr: ocr, gen: gen, store: st, logger: logger}
}

// Process runs the full pipeline for one document and persists the four
// artifacts only after every stage has succeeded. Each run gets a fresh
// identifier; reprocessing the same file yields a new set of artifacts.
func (p *Processor) Process(ctx context.Context, path string) (*entity.FullResult, error) {
	start := time.Now()
	p.logger.Info("pipeline.run.start", "path", path)

	text, err := p.ocr.ExtractText(ctx, path)
	if err != nil {
		p.logger.Error("pipeline.stage.ocr_failed", "path", path, "error", err)
		return nil, err
	}

	inv, err := p.gen.ExtractInvoiceFields(ctx, text)
	if err != nil {
		p.logger.Error("pipeline.stage.extract_failed", "path", path, "error", err)
		return nil, err
	}
	inv.ID = uuid.New().String()
	inv.FilePath = path

	an, err := p.gen.AnalyzeInvoice(ctx, inv)
	if err != nil {
		p.logger.Error("pipeline.stage.analyze_failed", "id", inv.ID, "error", err)
		return nil, err
	}

	rec, err := p.gen.GenerateRecommendations(ctx, inv, an)
	if err != nil {
		p.logger.Error("pipeline.stage.recommend_failed", "id", inv.ID, "error", err)
		return nil, err
	}

	full := &entity.FullResult{Invoice: inv, Analysis: an, Recommendations: rec}
	if err := p.persist(ctx, inv.ID, full); err != nil {
		return nil, err
	}

	p.logger.Info("pipeline.run.ok",
		"id", inv.ID,
		"issues", len(an.Issues),
		"recommendations", len(rec.Recommendations),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return full, nil
}

// persist writes the four artifacts in fixed order. Reaching this point
// means all stages succeeded; a write error mid-sequence can still leave a
// partial set behind, which readers tolerate per artifact kind.
func (p *Processor) persist(ctx context.Context, id string, full *entity.FullResult) error {
	writes := []struct {
		kind store.Kind
		v    any
	}{
		{store.KindInvoice, full.Invoice},
		{store.KindAnalysis, full.Analysis},
		{store.KindRecommendations, full.Recommendations},
		{store.KindFull, full},
	}
	for _, w := range writes {
		if err := p.store.Put(ctx, w.kind, id, w.v); err != nil {
			p.logger.Error("pipeline.persist_failed", "id", id, "kind", string(w.kind), "error", err)
			return fmt.Errorf("persist %s: %w", w.kind, err)
		}
	}
	return nil
}
