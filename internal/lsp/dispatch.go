// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package lsp

import (
	"encoding/json"
	"log"
	"time"

	"github.com/mdhender/kconfig-lsp/cerrs"
	"github.com/mdhender/kconfig-lsp/internal/history"
	"github.com/mdhender/kconfig-lsp/internal/query"
)

// dispatch routes one JSON-RPC frame to its handler. Requests (ID != nil)
// always receive a response, even an error one; notifications never do.
func (s *Server) dispatch(req requestMessage) {
	isRequest := req.ID != nil

	switch req.Method {
	case "initialize":
		s.handleInitialize(req)
	case "initialized":
		s.initialized = true
	case "shutdown":
		s.shutdown = true
		s.writeResponse(req.ID, nil, nil)
	case "exit":
		s.exited = true
	case "textDocument/didOpen":
		s.handleDidOpen(req)
	case "textDocument/didChange":
		s.handleDidChange(req)
	case "textDocument/didClose":
		s.handleDidClose(req)
	case "textDocument/hover":
		s.handleHover(req)
	case "textDocument/definition":
		s.handleDefinition(req)
	case "textDocument/references":
		s.handleReferences(req)
	case "textDocument/completion":
		s.handleCompletion(req)
	default:
		log.Printf("[lsp] unknown method %q\n", req.Method)
		if isRequest {
			s.writeResponse(req.ID, nil, &responseError{Code: errMethodNotFound, Message: cerrs.ErrUnknownMethod.Error()})
		}
	}
}

func (s *Server) handleInitialize(req requestMessage) {
	var caps serverCapabilities
	caps.TextDocumentSync = 1
	caps.HoverProvider = true
	caps.DefinitionProvider = true
	caps.ReferencesProvider = true
	caps.CompletionProvider.TriggerCharacters = nil
	s.writeResponse(req.ID, initializeResult{Capabilities: caps}, nil)
}

func (s *Server) handleDidOpen(req requestMessage) {
	var p didOpenTextDocumentParams
	if err := json.Unmarshal(req.Params, &p); err != nil {
		log.Printf("[lsp] didOpen: bad params: %v\n", err)
		return
	}
	s.ws.Open(p.TextDocument.URI, []byte(p.TextDocument.Text), p.TextDocument.Version)
	s.publishDiagnostics(p.TextDocument.URI)
}

func (s *Server) handleDidChange(req requestMessage) {
	var p didChangeTextDocumentParams
	if err := json.Unmarshal(req.Params, &p); err != nil {
		log.Printf("[lsp] didChange: bad params: %v\n", err)
		return
	}
	if len(p.ContentChanges) == 0 {
		return
	}
	// full-content sync only (spec.md §6); the last change carries the
	// whole new document text.
	text := p.ContentChanges[len(p.ContentChanges)-1].Text
	if ok := s.ws.Change(p.TextDocument.URI, []byte(text), p.TextDocument.Version); !ok {
		log.Printf("[lsp] didChange: %s: %v\n", p.TextDocument.URI, cerrs.ErrDocumentNotOpen)
		return
	}
	s.publishDiagnostics(p.TextDocument.URI)
}

func (s *Server) handleDidClose(req requestMessage) {
	var p didCloseTextDocumentParams
	if err := json.Unmarshal(req.Params, &p); err != nil {
		log.Printf("[lsp] didClose: bad params: %v\n", err)
		return
	}
	s.ws.Close(p.TextDocument.URI)
}

func (s *Server) handleHover(req requestMessage) {
	var p textDocumentPositionParams
	if err := json.Unmarshal(req.Params, &p); err != nil {
		s.writeResponse(req.ID, nil, &responseError{Code: errInvalidRequest, Message: err.Error()})
		return
	}
	doc := s.ws.Get(p.TextDocument.URI)
	if doc == nil {
		s.writeResponse(req.ID, nil, nil)
		return
	}
	snap := doc.View()
	offset := toOffset(snap.PosIndex, p.Position)
	h, ok := s.qe.Hover(p.TextDocument.URI, offset)
	if !ok {
		s.writeResponse(req.ID, nil, nil)
		return
	}
	s.writeResponse(req.ID, hoverResult{
		Contents: markupContent{Kind: "markdown", Value: h.Contents},
		Range:    toRange(snap.PosIndex, h.Span),
	}, nil)
}

func (s *Server) handleDefinition(req requestMessage) {
	var p textDocumentPositionParams
	if err := json.Unmarshal(req.Params, &p); err != nil {
		s.writeResponse(req.ID, nil, &responseError{Code: errInvalidRequest, Message: err.Error()})
		return
	}
	doc := s.ws.Get(p.TextDocument.URI)
	if doc == nil {
		s.writeResponse(req.ID, []location{}, nil)
		return
	}
	snap := doc.View()
	offset := toOffset(snap.PosIndex, p.Position)
	locs := s.qe.Definition(p.TextDocument.URI, offset)
	s.writeResponse(req.ID, s.toLocations(locs), nil)
}

func (s *Server) handleReferences(req requestMessage) {
	var p referenceParams
	if err := json.Unmarshal(req.Params, &p); err != nil {
		s.writeResponse(req.ID, nil, &responseError{Code: errInvalidRequest, Message: err.Error()})
		return
	}
	doc := s.ws.Get(p.TextDocument.URI)
	if doc == nil {
		s.writeResponse(req.ID, []location{}, nil)
		return
	}
	snap := doc.View()
	offset := toOffset(snap.PosIndex, p.Position)
	locs := s.qe.References(p.TextDocument.URI, offset, p.Context.IncludeDeclaration)
	s.writeResponse(req.ID, s.toLocations(locs), nil)
}

// toLocations converts query.Location results, each of which may belong to
// a different open document with its own PositionIndex.
func (s *Server) toLocations(locs []query.Location) []location {
	out := make([]location, 0, len(locs))
	for _, l := range locs {
		d := s.ws.Get(l.URI)
		if d == nil {
			continue
		}
		out = append(out, toLocation(d.View().PosIndex, l))
	}
	return out
}

func (s *Server) handleCompletion(req requestMessage) {
	var p textDocumentPositionParams
	if err := json.Unmarshal(req.Params, &p); err != nil {
		s.writeResponse(req.ID, nil, &responseError{Code: errInvalidRequest, Message: err.Error()})
		return
	}
	doc := s.ws.Get(p.TextDocument.URI)
	if doc == nil {
		s.writeResponse(req.ID, []completionItem{}, nil)
		return
	}
	snap := doc.View()
	offset := toOffset(snap.PosIndex, p.Position)
	items := s.qe.Completion(p.TextDocument.URI, offset)
	out := make([]completionItem, 0, len(items))
	for _, it := range items {
		out = append(out, toCompletionItem(it))
	}
	s.writeResponse(req.ID, out, nil)
}

// publishDiagnostics runs the diagnostics query for uri and pushes the
// result as a server notification (spec.md §6
// textDocument/publishDiagnostics), recording it to the history store when
// one is configured.
func (s *Server) publishDiagnostics(uri string) {
	doc := s.ws.Get(uri)
	if doc == nil {
		return
	}
	snap := doc.View()
	diags := s.qe.Diagnostics(uri)

	wire := make([]diagnostic, 0, len(diags))
	records := make([]history.DiagnosticRecord, 0, len(diags))
	for _, d := range diags {
		wire = append(wire, toDiagnostic(snap.PosIndex, d))
		startLine, startCol := snap.PosIndex.LineCol(d.Span.Start)
		records = append(records, history.DiagnosticRecord{
			Start: d.Span.Start, End: d.Span.End, Line: startLine, Col: startCol,
			Severity: severityName(d.Severity), Message: d.Message, Source: d.Source,
		})
	}

	s.writeNotification("textDocument/publishDiagnostics", publishDiagnosticsParams{
		URI: uri, Version: snap.Version, Diagnostics: wire,
	})

	if s.hist == nil {
		return
	}
	s.batchSeq++
	if _, err := s.hist.RecordBatch(uri, snap.Version, time.Now().Unix(), records); err != nil {
		log.Printf("[history] record batch for %s@%d: %v\n", uri, snap.Version, err)
	}
}

func severityName(sev query.Severity) string {
	if sev == query.SeverityWarning {
		return "warning"
	}
	return "error"
}
