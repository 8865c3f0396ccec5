// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package history_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/mdhender/kconfig-lsp/cerrs"
	"github.com/mdhender/kconfig-lsp/internal/history"
)

func TestStore_CreateOpenRecordAndRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	ctx := context.Background()

	if err := history.Create(path, ctx); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := history.Create(path, ctx); !errors.Is(err, cerrs.ErrDatabaseExists) {
		t.Fatalf("Create on existing path: got %v, want ErrDatabaseExists", err)
	}

	s, err := history.Open(path, ctx)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	diags := []history.DiagnosticRecord{
		{Start: 10, End: 15, Line: 2, Col: 1, Severity: "warning", Message: "undefined symbol FOO", Source: "index"},
	}
	id, err := s.RecordBatch("file:///Kconfig", 1, 1700000000, diags)
	if err != nil {
		t.Fatalf("RecordBatch: %v", err)
	}
	if id == 0 {
		t.Fatalf("want a non-zero batch id")
	}

	if _, err := s.RecordBatch("file:///Kconfig", 1, 1700000001, diags); !errors.Is(err, cerrs.ErrDuplicateBatch) {
		t.Fatalf("duplicate RecordBatch: got %v, want ErrDuplicateBatch", err)
	}

	latest, err := s.LatestBatch("file:///Kconfig")
	if err != nil {
		t.Fatalf("LatestBatch: %v", err)
	}
	if latest == nil {
		t.Fatalf("want a latest batch")
	}
	if latest.DiagnosticCount != 1 || len(latest.Diagnostics) != 1 {
		t.Fatalf("latest batch diagnostics mismatch: %+v", latest)
	}
	if latest.Diagnostics[0].Message != "undefined symbol FOO" {
		t.Fatalf("latest batch diagnostic message = %q", latest.Diagnostics[0].Message)
	}

	if _, err := s.RecordBatch("file:///Kconfig", 2, 1700000002, nil); err != nil {
		t.Fatalf("RecordBatch (empty diags): %v", err)
	}
	all, err := s.BatchesForURI("file:///Kconfig")
	if err != nil {
		t.Fatalf("BatchesForURI: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("want 2 batches for the uri, got %d", len(all))
	}
}

func TestStore_OpenMissingPathFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.db")
	if _, err := history.Open(path, context.Background()); !errors.Is(err, cerrs.ErrInvalidPath) {
		t.Fatalf("Open on missing path: got %v, want ErrInvalidPath", err)
	}
}
