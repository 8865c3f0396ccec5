// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package lsp

import (
	"github.com/mdhender/kconfig-lsp/internal/lexer"
	"github.com/mdhender/kconfig-lsp/internal/query"
	"github.com/mdhender/kconfig-lsp/internal/token"
)

// toOffset converts an LSP 0-based position to a byte offset using idx.
func toOffset(idx *lexer.PositionIndex, p position) int {
	return idx.Offset(p.Line+1, p.Character+1)
}

// toRange converts a token.Span to an LSP range using idx.
func toRange(idx *lexer.PositionIndex, span token.Span) rng {
	startLine, startCol := idx.LineCol(span.Start)
	endLine, endCol := idx.LineCol(span.End)
	return rng{
		Start: position{Line: startLine - 1, Character: startCol - 1},
		End:   position{Line: endLine - 1, Character: endCol - 1},
	}
}

func toLocation(idx *lexer.PositionIndex, loc query.Location) location {
	return location{URI: loc.URI, Range: toRange(idx, loc.Span)}
}

func toCompletionItem(it query.CompletionItem) completionItem {
	kind := completionItemKindKeyword
	if it.Kind == query.CompletionSymbol {
		kind = completionItemKindVariable
	}
	return completionItem{
		Label:         it.Label,
		Kind:          kind,
		Detail:        it.Detail,
		Documentation: it.Documentation,
	}
}

func toDiagnosticSeverity(s query.Severity) int {
	if s == query.SeverityWarning {
		return diagnosticSeverityWarning
	}
	return diagnosticSeverityError
}

func toDiagnostic(idx *lexer.PositionIndex, d query.Diagnostic) diagnostic {
	return diagnostic{
		Range:    toRange(idx, d.Span),
		Severity: toDiagnosticSeverity(d.Severity),
		Message:  d.Message,
		Source:   d.Source,
	}
}
