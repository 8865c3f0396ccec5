// Copyright (c) 2024 Michael D Henderson. All rights reserved.

//go:build test || !release

// Package syntaxtest provides helpers for CST golden-snapshot tests. Keep
// this lightweight and test-focused; not for production use.
//
// Purpose: turn a *syntax.File (+ source bytes) into a compact, stable JSON
// snapshot. Since syntax.Node is one homogeneous type (spec.md §9), the
// snapshot walks Children generically instead of switching per node kind.
package syntaxtest

import (
	"encoding/json"
	"sort"

	"github.com/mdhender/kconfig-lsp/internal/syntax"
	"github.com/mdhender/kconfig-lsp/internal/token"
)

type span struct {
	Start int `json:"start"`
	End   int `json:"end"`
	Line  int `json:"line"`
	Col   int `json:"col"`
}

type nodeSnap struct {
	Kind      string     `json:"kind"`
	Span      span       `json:"span"`
	Err       bool       `json:"err,omitempty"`
	Name      string     `json:"name,omitempty"`
	IsDef     bool       `json:"isDef,omitempty"`
	TypeName  string     `json:"typeName,omitempty"`
	Op        string     `json:"op,omitempty"`
	Text      string     `json:"text,omitempty"`
	Legacy    bool       `json:"legacy,omitempty"`
	Malformed bool       `json:"malformed,omitempty"`
	MacroName string     `json:"macroName,omitempty"`
	Children  []nodeSnap `json:"children,omitempty"`
}

type diagSnap struct {
	Severity string `json:"severity"`
	Message  string `json:"message"`
	Span     span   `json:"span"`
}

type fileSnap struct {
	Entries     []nodeSnap `json:"entries"`
	Span        span       `json:"span"`
	Diagnostics []diagSnap `json:"diagnostics"`
}

// Snapshot marshals a parsed file plus its diagnostics to pretty JSON for
// golden-file comparison.
func Snapshot(f *syntax.File, diags []syntax.Diagnostic) ([]byte, error) {
	s := fileSnap{Span: toSpan(f.Span())}
	for _, n := range f.Entries {
		s.Entries = append(s.Entries, nodeOf(n))
	}

	sort.Slice(diags, func(i, j int) bool {
		if diags[i].Severity != diags[j].Severity {
			return diags[i].Severity < diags[j].Severity
		}
		if diags[i].Message != diags[j].Message {
			return diags[i].Message < diags[j].Message
		}
		return diags[i].Span.Start < diags[j].Span.Start
	})
	for _, d := range diags {
		s.Diagnostics = append(s.Diagnostics, diagSnap{
			Severity: sevName(d.Severity),
			Message:  d.Message,
			Span:     toSpan(d.Span),
		})
	}

	out, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}

func nodeOf(n *syntax.Node) nodeSnap {
	s := nodeSnap{
		Kind:      n.Kind.String(),
		Span:      toSpan(n.Span()),
		Err:       n.Err,
		Name:      n.Name,
		IsDef:     n.IsDef,
		TypeName:  n.TypeName,
		Text:      n.Text,
		Legacy:    n.Legacy,
		Malformed: n.Malformed,
		MacroName: n.MacroName,
	}
	if n.Kind == syntax.KindCompareExpr {
		s.Op = n.Op.String()
	}
	for _, c := range n.Children {
		s.Children = append(s.Children, nodeOf(c))
	}
	return s
}

func sevName(s syntax.Severity) string {
	switch s {
	case syntax.SeverityError:
		return "error"
	case syntax.SeverityWarning:
		return "warning"
	default:
		return "unknown"
	}
}

func toSpan(s token.Span) span { return span{s.Start, s.End, s.Line, s.Col} }
