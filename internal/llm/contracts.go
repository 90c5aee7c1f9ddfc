package llm

import (
	"context"

	"github.com/aienergy/invoice-analyzer/internal/entity"
)

// ChatRequest is one completion call against the generation backend.
type ChatRequest struct {
	System      string
	User        string
	Temperature float32
	MaxTokens   int // 0 = backend default
}

// ChatClient abstracts the text-generation backend: a model identifier and
// credentials live in the implementation; callers supply prompts only.
type ChatClient interface {
	Complete(ctx context.Context, req ChatRequest) (string, error)
}

// Generator is the interface the pipeline depends on: three prompt-templated
// transformations, each returning a parsed structured record.
//
// Three separate calls rather than one: each stage's output is an
// independently persistable artifact, and the recommendation stage must see
// the analysis findings, not just raw invoice data.
type Generator interface {
	ExtractInvoiceFields(ctx context.Context, ocrText string) (*entity.Invoice, error)
	AnalyzeInvoice(ctx context.Context, inv *entity.Invoice) (*entity.Analysis, error)
	GenerateRecommendations(ctx context.Context, inv *entity.Invoice, an *entity.Analysis) (*entity.Recommendations, error)
}
