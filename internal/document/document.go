// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package document

import (
	"log"
	"sync"

	"github.com/mdhender/kconfig-lsp/internal/index"
	"github.com/mdhender/kconfig-lsp/internal/lexer"
	"github.com/mdhender/kconfig-lsp/internal/syntax"
	"github.com/mdhender/kconfig-lsp/internal/token"
)

// Document is one open Kconfig source file plus everything derived from it.
// A Document is safe for concurrent reads against a stable snapshot; callers
// that need a consistent view across Tokens/Tree/Index should hold Snapshot
// rather than reading the fields directly while a rebuild might be racing.
type Document struct {
	mu sync.RWMutex

	uri     string
	version int
	source  []byte

	tokens     []token.Token
	tree       *syntax.File
	parseDiags []syntax.Diagnostic
	index      *index.Index
	posIndex   *lexer.PositionIndex
}

// New builds a Document from its initial content (didOpen).
func New(uri string, source []byte, version int) *Document {
	d := &Document{uri: uri}
	d.Update(source, version)
	return d
}

// Update replaces the document's content (didChange, full-sync) and rebuilds
// the token stream, parse tree, and semantic index from scratch. Per
// spec.md §5, derived state never survives a content change.
func (d *Document) Update(source []byte, version int) {
	tokens := lexer.Tokenize(source)
	tree, parseDiags := syntax.ParseFile(source)
	idx := index.Build(tree)
	posIndex := lexer.NewPositionIndex(source)

	d.mu.Lock()
	defer d.mu.Unlock()
	d.source = source
	d.version = version
	d.tokens = tokens
	d.tree = tree
	d.parseDiags = parseDiags
	d.index = idx
	d.posIndex = posIndex
}

// Snapshot is a consistent view of a Document at one version. Its Tokens,
// Tree and ParseDiags never change; Index is shared with the Document, and
// the Workspace recomputes that index's undefined-symbol diagnostics in
// place whenever a document is opened, changed or closed.
type Snapshot struct {
	URI        string
	Version    int
	Source     []byte
	Tokens     []token.Token
	Tree       *syntax.File
	ParseDiags []syntax.Diagnostic
	Index      *index.Index
	PosIndex   *lexer.PositionIndex
}

// View returns a Snapshot of the document's current state.
func (d *Document) View() Snapshot {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return Snapshot{
		URI:        d.uri,
		Version:    d.version,
		Source:     d.source,
		Tokens:     d.tokens,
		Tree:       d.tree,
		ParseDiags: d.parseDiags,
		Index:      d.index,
		PosIndex:   d.posIndex,
	}
}

// symbolNames returns every name the document's index currently defines.
func (d *Document) symbolNames() map[string]bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make(map[string]bool)
	if d.index == nil {
		return out
	}
	for _, sym := range d.index.Symbols() {
		out[sym.Name] = true
	}
	return out
}

// recheckUndefined updates the document's undefined-symbol diagnostics
// against names defined elsewhere in the workspace.
func (d *Document) recheckUndefined(externallyDefined map[string]bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.index != nil {
		d.index.RecheckUndefined(externallyDefined)
	}
}

func (d *Document) URI() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.uri
}

func (d *Document) Version() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.version
}

// Workspace owns the set of currently open documents, keyed by URI. Mutation
// happens only on didOpen/didChange/didClose (spec.md §5); queries on
// different documents may run without coordinating with each other.
type Workspace struct {
	mu   sync.RWMutex
	docs map[string]*Document
}

// NewWorkspace returns an empty workspace.
func NewWorkspace() *Workspace {
	return &Workspace{docs: make(map[string]*Document)}
}

// Open registers a newly opened document, replacing any prior state for the
// same URI.
func (w *Workspace) Open(uri string, source []byte, version int) *Document {
	doc := New(uri, source, version)
	w.mu.Lock()
	w.docs[uri] = doc
	w.mu.Unlock()
	log.Printf("[document] open %s (version %d, %d bytes)\n", uri, version, len(source))
	w.refreshUndefinedAcrossDocuments()
	return doc
}

// Change applies a full-content update to an already-open document. It
// returns false if the URI isn't open, matching cerrs.ErrDocumentNotOpen
// semantics for callers that want to surface that as a protocol error.
func (w *Workspace) Change(uri string, source []byte, version int) bool {
	w.mu.RLock()
	doc, ok := w.docs[uri]
	w.mu.RUnlock()
	if !ok {
		return false
	}
	doc.Update(source, version)
	w.refreshUndefinedAcrossDocuments()
	return true
}

// Close forgets a document entirely.
func (w *Workspace) Close(uri string) {
	w.mu.Lock()
	delete(w.docs, uri)
	w.mu.Unlock()
	log.Printf("[document] close %s\n", uri)
	w.refreshUndefinedAcrossDocuments()
}

// refreshUndefinedAcrossDocuments recomputes every open document's
// undefined-symbol diagnostics against the names defined by its siblings
// (spec.md §4.3: undefined means "no currently open document defines it",
// not just the document the reference appears in). Opening, changing, or
// closing any document can change what another document's references
// resolve to, so every document is rechecked each time.
func (w *Workspace) refreshUndefinedAcrossDocuments() {
	w.mu.RLock()
	docs := make(map[string]*Document, len(w.docs))
	for uri, doc := range w.docs {
		docs[uri] = doc
	}
	w.mu.RUnlock()

	namesByURI := make(map[string]map[string]bool, len(docs))
	for uri, doc := range docs {
		namesByURI[uri] = doc.symbolNames()
	}

	for uri, doc := range docs {
		external := make(map[string]bool)
		for otherURI, names := range namesByURI {
			if otherURI == uri {
				continue
			}
			for name := range names {
				external[name] = true
			}
		}
		doc.recheckUndefined(external)
	}
}

// Get returns the open document for uri, or nil.
func (w *Workspace) Get(uri string) *Document {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.docs[uri]
}

// URIs returns every currently open document's URI.
func (w *Workspace) URIs() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]string, 0, len(w.docs))
	for uri := range w.docs {
		out = append(out, uri)
	}
	return out
}
