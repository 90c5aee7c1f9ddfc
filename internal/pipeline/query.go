package pipeline

import (
	"context"
	"encoding/json"

	"github.com/aienergy/invoice-analyzer/internal/entity"
	"github.com/aienergy/invoice-analyzer/internal/store"
)

// Read-side operations over stored artifacts. Misses surface as
// common.ErrNotFound from the store, unchanged.

func (p *Processor) GetInvoice(ctx context.Context, id string) (*entity.Invoice, error) {
	var inv entity.Invoice
	if err := p.store.Get(ctx, store.KindInvoice, id, &inv); err != nil {
		return nil, err
	}
	return &inv, nil
}

func (p *Processor) GetAnalysis(ctx context.Context, id string) (*entity.Analysis, error) {
	var an entity.Analysis
	if err := p.store.Get(ctx, store.KindAnalysis, id, &an); err != nil {
		return nil, err
	}
	return &an, nil
}

func (p *Processor) GetRecommendations(ctx context.Context, id string) (*entity.Recommendations, error) {
	var rec entity.Recommendations
	if err := p.store.Get(ctx, store.KindRecommendations, id, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (p *Processor) GetFullResult(ctx context.Context, id string) (*entity.FullResult, error) {
	var full entity.FullResult
	if err := p.store.Get(ctx, store.KindFull, id, &full); err != nil {
		return nil, err
	}
	return &full, nil
}

// ListInvoices returns the summary projection of every stored invoice.
// Artifacts that decode but don't resemble an invoice record still appear;
// projection is mechanical, not validated.
func (p *Processor) ListInvoices(ctx context.Context) ([]entity.Summary, error) {
	raws, err := p.store.List(ctx, store.KindInvoice)
	if err != nil {
		return nil, err
	}
	summaries := make([]entity.Summary, 0, len(raws))
	for _, raw := range raws {
		var inv entity.Invoice
		if err := json.Unmarshal(raw, &inv); err != nil {
			p.logger.Warn("pipeline.list.undecodable_invoice_skipped", "error", err)
			continue
		}
		summaries = append(summaries, inv.Summarize())
	}
	return summaries, nil
}

// ListFullResults returns every stored combined result.
func (p *Processor) ListFullResults(ctx context.Context) ([]entity.FullResult, error) {
	raws, err := p.store.List(ctx, store.KindFull)
	if err != nil {
		return nil, err
	}
	results := make([]entity.FullResult, 0, len(raws))
	for _, raw := range raws {
		var full entity.FullResult
		if err := json.Unmarshal(raw, &full); err != nil {
			p.logger.Warn("pipeline.list.undecodable_result_skipped", "error", err)
			continue
		}
		results = append(results, full)
	}
	return results, nil
}

// Invoices loads the full invoice records, for report generation.
func (p *Processor) Invoices(ctx context.Context) ([]entity.Invoice, error) {
	raws, err := p.store.List(ctx, store.KindInvoice)
	if err != nil {
		return nil, err
	}
	invoices := make([]entity.Invoice, 0, len(raws))
	for _, raw := range raws {
		var inv entity.Invoice
		if err := json.Unmarshal(raw, &inv); err != nil {
			continue
		}
		invoices = append(invoices, inv)
	}
	return invoices, nil
}
