// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package history

import (
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	"github.com/mdhender/kconfig-lsp/cerrs"
)

// RecordBatch persists one published diagnostics batch. publishedAt is a
// unix-seconds timestamp supplied by the caller (this package never reads
// the clock itself, keeping it trivially testable). Returns
// cerrs.ErrDuplicateBatch if (uri, version) was already recorded — a
// client never republishes the same version twice, so a duplicate means
// the caller's bookkeeping is wrong.
func (s *Store) RecordBatch(uri string, version int, publishedAt int64, diags []DiagnosticRecord) (int64, error) {
	payload, err := json.Marshal(diags)
	if err != nil {
		return 0, err
	}
	res, err := s.db.ExecContext(s.ctx,
		`INSERT INTO diagnostics_batches (uri, version, published_at, diagnostic_count, payload)
		 VALUES (?, ?, ?, ?, ?)`,
		uri, version, publishedAt, len(diags), string(payload),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed: diagnostics_batches.uri, diagnostics_batches.version") {
			return 0, cerrs.ErrDuplicateBatch
		}
		return 0, err
	}
	return res.LastInsertId()
}

// BatchesForURI returns every recorded batch for uri, oldest first.
func (s *Store) BatchesForURI(uri string) ([]Batch, error) {
	rows, err := s.db.QueryContext(s.ctx,
		`SELECT id, uri, version, published_at, diagnostic_count, payload
		 FROM diagnostics_batches WHERE uri = ? ORDER BY version ASC`, uri)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Batch
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// LatestBatch returns the most recently published batch for uri, or nil if
// none has been recorded.
func (s *Store) LatestBatch(uri string) (*Batch, error) {
	row := s.db.QueryRowContext(s.ctx,
		`SELECT id, uri, version, published_at, diagnostic_count, payload
		 FROM diagnostics_batches WHERE uri = ? ORDER BY version DESC LIMIT 1`, uri)
	b, err := scanBatch(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}

// URIs returns every distinct document URI with at least one recorded
// batch, alphabetically.
func (s *Store) URIs() ([]string, error) {
	rows, err := s.db.QueryContext(s.ctx, `SELECT DISTINCT uri FROM diagnostics_batches ORDER BY uri ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var uri string
		if err := rows.Scan(&uri); err != nil {
			return nil, err
		}
		out = append(out, uri)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBatch(r rowScanner) (Batch, error) {
	var b Batch
	var payload string
	if err := r.Scan(&b.ID, &b.URI, &b.Version, &b.PublishedAt, &b.DiagnosticCount, &payload); err != nil {
		return Batch{}, err
	}
	if err := json.Unmarshal([]byte(payload), &b.Diagnostics); err != nil {
		return Batch{}, err
	}
	return b, nil
}
