package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/aienergy/invoice-analyzer/internal/common"
)

type record struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

func stores(t *testing.T) map[string]ArtifactStore {
	t.Helper()
	fsStore, err := NewFSStore(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("NewFSStore: %v", err)
	}
	return map[string]ArtifactStore{
		"fs":     fsStore,
		"memory": NewMemStore(),
	}
}

func TestStore_PutGetRoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	for name, st := range stores(t) {
		t.Run(name, func(t *testing.T) {
			in := record{Name: "acme", Value: 150.75}
			if err := st.Put(ctx, KindInvoice, "id-1", in); err != nil {
				t.Fatalf("put: %v", err)
			}
			var out record
			if err := st.Get(ctx, KindInvoice, "id-1", &out); err != nil {
				t.Fatalf("get: %v", err)
			}
			if out != in {
				t.Errorf("got %+v, want %+v", out, in)
			}
		})
	}
}

func TestStore_GetMissIsNotFound(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	for name, st := range stores(t) {
		t.Run(name, func(t *testing.T) {
			var out record
			err := st.Get(ctx, KindAnalysis, "nope", &out)
			if !errors.Is(err, common.ErrNotFound) {
				t.Fatalf("err = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestStore_ListFiltersByKind(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	for name, st := range stores(t) {
		t.Run(name, func(t *testing.T) {
			for _, id := range []string{"a", "b"} {
				if err := st.Put(ctx, KindInvoice, id, record{Name: id}); err != nil {
					t.Fatalf("put invoice: %v", err)
				}
			}
			if err := st.Put(ctx, KindAnalysis, "a", record{Name: "an"}); err != nil {
				t.Fatalf("put analysis: %v", err)
			}
			if err := st.Put(ctx, KindFull, "a", record{Name: "full"}); err != nil {
				t.Fatalf("put full: %v", err)
			}

			raws, err := st.List(ctx, KindInvoice)
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if len(raws) != 2 {
				t.Errorf("listed %d invoice artifacts, want 2", len(raws))
			}

			fulls, err := st.List(ctx, KindFull)
			if err != nil {
				t.Fatalf("list full: %v", err)
			}
			if len(fulls) != 1 {
				t.Errorf("listed %d full artifacts, want 1", len(fulls))
			}
		})
	}
}

func TestFSStore_Layout(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	dir := t.TempDir()
	st, err := NewFSStore(dir, nil)
	if err != nil {
		t.Fatalf("NewFSStore: %v", err)
	}
	for _, kind := range Kinds {
		if err := st.Put(ctx, kind, "id-1", record{Name: string(kind)}); err != nil {
			t.Fatalf("put %s: %v", kind, err)
		}
	}

	want := []string{
		"invoice_id-1.json",
		"analysis_id-1.json",
		"recommendations_id-1.json",
		filepath.Join("full_results", "id-1.json"),
	}
	for _, rel := range want {
		if _, err := os.Stat(filepath.Join(dir, rel)); err != nil {
			t.Errorf("expected artifact file %s: %v", rel, err)
		}
	}
}

func TestFSStore_ListSkipsCorruptArtifacts(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	dir := t.TempDir()
	st, err := NewFSStore(dir, nil)
	if err != nil {
		t.Fatalf("NewFSStore: %v", err)
	}
	if err := st.Put(ctx, KindInvoice, "good", record{Name: "ok"}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "invoice_bad.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}

	raws, err := st.List(ctx, KindInvoice)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(raws) != 1 {
		t.Errorf("listed %d artifacts, want 1 (corrupt skipped)", len(raws))
	}
}

func TestFSStore_RejectsTraversalIDs(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	st, err := NewFSStore(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("NewFSStore: %v", err)
	}
	if err := st.Put(ctx, KindInvoice, "../escape", record{}); err == nil {
		t.Fatal("put with traversal id should fail")
	}
	var out record
	if err := st.Get(ctx, KindInvoice, "../escape", &out); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("get with traversal id: err = %v, want ErrNotFound", err)
	}
}
