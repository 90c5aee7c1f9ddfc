package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/aienergy/invoice-analyzer/internal/common"
)

// FSStore keeps one JSON file per (kind, id) under a data directory:
//
//	<dir>/invoice_<id>.json
//	<dir>/analysis_<id>.json
//	<dir>/recommendations_<id>.json
//	<dir>/full_results/<id>.json
type FSStore struct {
	dir    string
	logger *slog.Logger
}

func NewFSStore(dir string, logger *slog.Logger) (*FSStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(filepath.Join(dir, "full_results"), 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &FSStore{dir: dir, logger: logger}, nil
}

func (s *FSStore) path(kind Kind, id string) string {
	if kind == KindFull {
		return filepath.Join(s.dir, "full_results", id+".json")
	}
	return filepath.Join(s.dir, fmt.Sprintf("%s_%s.json", kind, id))
}

func validID(id string) bool {
	return id != "" && !strings.ContainsAny(id, `/\`) && id != "." && id != ".."
}

func (s *FSStore) Put(_ context.Context, kind Kind, id string, v any) error {
	if !validID(id) {
		return common.NewAppError("STORE_ERROR", "invalid artifact id", common.ErrInvalidInput)
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s artifact: %w", kind, err)
	}
	if err := os.WriteFile(s.path(kind, id), b, 0o644); err != nil {
		return fmt.Errorf("write %s artifact: %w", kind, err)
	}
	return nil
}

func (s *FSStore) Get(_ context.Context, kind Kind, id string, into any) error {
	if !validID(id) {
		return common.ErrNotFound
	}
	b, err := os.ReadFile(s.path(kind, id))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return common.ErrNotFound
		}
		return fmt.Errorf("read %s artifact: %w", kind, err)
	}
	if err := json.Unmarshal(b, into); err != nil {
		return fmt.Errorf("decode %s artifact %s: %w", kind, id, err)
	}
	return nil
}

func (s *FSStore) List(_ context.Context, kind Kind) ([]json.RawMessage, error) {
	dir := s.dir
	prefix := string(kind) + "_"
	suffix := ".json"
	if kind == KindFull {
		dir = filepath.Join(s.dir, "full_results")
		prefix = ""
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("list %s artifacts: %w", kind, err)
	}

	var out []json.RawMessage
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, suffix) {
			continue
		}
		b, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			s.logger.Warn("store.list.read_failed", "kind", kind, "file", name, "error", err)
			continue
		}
		if !json.Valid(b) {
			s.logger.Warn("store.list.corrupt_artifact_skipped", "kind", kind, "file", name)
			continue
		}
		out = append(out, json.RawMessage(b))
	}
	return out, nil
}
