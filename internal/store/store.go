// Package store persists pipeline artifacts keyed by invoice identifier.
//
// One artifact per (kind, id) pair; each key is written exactly once per
// pipeline run, so last-write-wins without locking is acceptable. Both the
// filesystem and in-memory implementations sit behind ArtifactStore so a
// cache-miss reload is an implementation detail, not application logic.
package store

import (
	"context"
	"encoding/json"
)

// Kind names one of the artifact families stored per invoice id.
type Kind string

const (
	KindInvoice         Kind = "invoice"
	KindAnalysis        Kind = "analysis"
	KindRecommendations Kind = "recommendations"
	KindFull            Kind = "full"
)

// Kinds lists every artifact kind, in pipeline write order.
var Kinds = []Kind{KindInvoice, KindAnalysis, KindRecommendations, KindFull}

// ArtifactStore is the persistence contract for pipeline results.
type ArtifactStore interface {
	// Put writes the artifact for (kind, id), overwriting any previous value.
	Put(ctx context.Context, kind Kind, id string, v any) error

	// Get decodes the artifact for (kind, id) into "into".
	// A miss returns common.ErrNotFound.
	Get(ctx context.Context, kind Kind, id string, into any) error

	// List returns every decodable artifact of a kind. Corrupt artifacts
	// are skipped with a warning, never fatal to the listing.
	List(ctx context.Context, kind Kind) ([]json.RawMessage, error)
}
