package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/aienergy/invoice-analyzer/internal/common"
	"github.com/aienergy/invoice-analyzer/internal/entity"
)

// Stage temperatures: extraction wants determinism, recommendations some
// freedom to phrase remediation text.
const (
	extractionTemperature     = 0.2
	analysisTemperature       = 0.3
	recommendationTemperature = 0.6

	analysisMaxTokens = 1000
)

// StageGenerator implements Generator on top of any ChatClient.
type StageGenerator struct {
	client ChatClient
	logger *slog.Logger
}

func NewStageGenerator(client ChatClient, logger *slog.Logger) *StageGenerator {
	if logger == nil {
		logger = slog.Default()
	}
	return &StageGenerator{client: client, logger: logger}
}

// complete runs one stage: pre-flight availability check, completion call,
// JSON recovery, structural shape check, then decode into the stage record.
func (g *StageGenerator) complete(ctx context.Context, stage string, req ChatRequest, schema *jsonschema.Schema, into any) error {
	if g.client == nil {
		return common.WrapError(common.ErrBackendUnavailable, stage)
	}

	start := time.Now()
	text, err := g.client.Complete(ctx, req)
	if err != nil {
		g.logger.Error("llm."+stage+".call_failed", "error", err, "elapsed_ms", time.Since(start).Milliseconds())
		return fmt.Errorf("%s: %w: %w", stage, common.ErrGenerationFailed, err)
	}

	raw, err := ExtractJSONObject(text)
	if err != nil {
		g.logger.Error("llm."+stage+".no_structured_data", "response_len", len(text))
		return fmt.Errorf("%s: %w", stage, err)
	}

	if err := validateShape(schema, raw); err != nil {
		g.logger.Error("llm."+stage+".malformed_output", "error", err)
		return fmt.Errorf("%s: %w: %w", stage, common.ErrGenerationFailed, err)
	}
	if err := json.Unmarshal(raw, into); err != nil {
		g.logger.Error("llm."+stage+".decode_failed", "error", err)
		return fmt.Errorf("%s: %w: decode: %w", stage, common.ErrGenerationFailed, err)
	}

	g.logger.Info("llm."+stage+".ok",
		"response_len", len(text),
		"object_len", len(raw),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// ExtractInvoiceFields turns raw OCR text into an invoice record. The id and
// file path are left empty; identity is assigned by the orchestrator, never
// by the model.
func (g *StageGenerator) ExtractInvoiceFields(ctx context.Context, ocrText string) (*entity.Invoice, error) {
	var inv entity.Invoice
	err := g.complete(ctx, "extract", ChatRequest{
		System:      ExtractionSystemPrompt(),
		User:        BuildExtractionPrompt(ocrText),
		Temperature: extractionTemperature,
	}, extractionSchema, &inv)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// AnalyzeInvoice checks an extracted invoice against the four anomaly
// patterns and returns the findings.
func (g *StageGenerator) AnalyzeInvoice(ctx context.Context, inv *entity.Invoice) (*entity.Analysis, error) {
	invJSON, err := json.Marshal(inv)
	if err != nil {
		return nil, fmt.Errorf("analyze: encode invoice: %w", err)
	}
	var an entity.Analysis
	err = g.complete(ctx, "analyze", ChatRequest{
		System:      AnalysisSystemPrompt(),
		User:        BuildAnalysisPrompt(invJSON),
		Temperature: analysisTemperature,
		MaxTokens:   analysisMaxTokens,
	}, analysisSchema, &an)
	if err != nil {
		return nil, err
	}
	an.InvoiceID = inv.ID
	return &an, nil
}

// GenerateRecommendations maps analysis findings to remediation actions with
// a savings estimate. Savings may legitimately come back null.
func (g *StageGenerator) GenerateRecommendations(ctx context.Context, inv *entity.Invoice, an *entity.Analysis) (*entity.Recommendations, error) {
	invJSON, err := json.Marshal(inv)
	if err != nil {
		return nil, fmt.Errorf("recommend: encode invoice: %w", err)
	}
	anJSON, err := json.Marshal(an)
	if err != nil {
		return nil, fmt.Errorf("recommend: encode analysis: %w", err)
	}
	var rec entity.Recommendations
	err = g.complete(ctx, "recommend", ChatRequest{
		System:      RecommendationSystemPrompt(),
		User:        BuildRecommendationPrompt(invJSON, anJSON),
		Temperature: recommendationTemperature,
	}, recommendationSchema, &rec)
	if err != nil {
		return nil, err
	}
	rec.InvoiceID = inv.ID
	return &rec, nil
}

var _ Generator = (*StageGenerator)(nil)

// IsStageError reports whether err is one of the generation-stage kinds.
func IsStageError(err error) bool {
	return errors.Is(err, common.ErrGenerationFailed) ||
		errors.Is(err, common.ErrNoStructuredData) ||
		errors.Is(err, common.ErrBackendUnavailable)
}
