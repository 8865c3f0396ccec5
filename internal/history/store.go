// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package history

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"log"

	_ "modernc.org/sqlite"

	"github.com/mdhender/kconfig-lsp/cerrs"
	"github.com/mdhender/kconfig-lsp/internal/stdlib"
)

//go:embed schema.sql
var schemaDDL string

// Store is an open diagnostics-history database.
type Store struct {
	path string
	db   *sql.DB
	ctx  context.Context
}

// Create creates a new, empty history database at path. It is an error if
// the file already exists; the caller must remove it first to start fresh.
func Create(path string, ctx context.Context) error {
	if ok, err := stdlib.IsFileExists(path); err != nil {
		log.Printf("history: create: %q: %s\n", path, err)
		return err
	} else if ok {
		log.Printf("history: create: %q: %s\n", path, "database already exists")
		return cerrs.ErrDatabaseExists
	}

	log.Printf("history: create: path %s\n", path)
	db, err := sql.Open("sqlite", path)
	if err != nil {
		log.Printf("history: create: %v\n", err)
		return err
	}
	defer db.Close()

	if rslt, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		log.Printf("history: create: foreign keys are disabled\n")
		return cerrs.ErrForeignKeysDisabled
	} else if rslt == nil {
		log.Printf("history: create: pragma returned nil\n")
		return cerrs.ErrPragmaReturnedNil
	}

	if _, err := db.Exec(schemaDDL); err != nil {
		log.Printf("history: create: failed to initialize schema: %v\n", err)
		return errors.Join(cerrs.ErrCreateSchema, err)
	}

	log.Printf("history: create: created %s\n", path)
	return nil
}

// Open opens an existing history database. Callers must Close it when done.
func Open(path string, ctx context.Context) (*Store, error) {
	if ok, err := stdlib.IsFileExists(path); err != nil {
		log.Printf("history: open: %q: %v\n", path, err)
		return nil, err
	} else if !ok {
		log.Printf("history: open: %q: %s\n", path, "not a database")
		return nil, cerrs.ErrInvalidPath
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		log.Printf("history: open: %s: %v\n", path, err)
		return nil, err
	}

	if rslt, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		log.Printf("history: open: foreign keys are disabled\n")
		return nil, cerrs.ErrForeignKeysDisabled
	} else if rslt == nil {
		_ = db.Close()
		log.Printf("history: open: pragma returned nil\n")
		return nil, cerrs.ErrPragmaReturnedNil
	}

	return &Store{path: path, db: db, ctx: ctx}, nil
}

// Close releases the underlying database handle. Safe to call on a nil
// Store or one already closed.
func (s *Store) Close() error {
	var err error
	if s != nil && s.db != nil {
		err = s.db.Close()
		s.db = nil
	}
	return err
}
