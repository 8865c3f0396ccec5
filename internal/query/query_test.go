// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package query_test

import (
	"strings"
	"testing"

	"github.com/mdhender/kconfig-lsp/internal/document"
	"github.com/mdhender/kconfig-lsp/internal/query"
)

func offsetOf(src, substr string) int {
	return strings.Index(src, substr)
}

func TestEngine_HoverOnSymbolShowsPromptAndHelp(t *testing.T) {
	src := "config FOO\n" +
		"    bool \"Enable foo\"\n" +
		"    help\n" +
		"      Does the foo thing.\n"
	ws := document.NewWorkspace()
	ws.Open("file:///Kconfig", []byte(src), 1)
	e := query.NewEngine(ws, 16)

	h, ok := e.Hover("file:///Kconfig", offsetOf(src, "FOO"))
	if !ok {
		t.Fatalf("want hover result for FOO")
	}
	if !strings.Contains(h.Contents, "FOO") {
		t.Fatalf("hover contents missing symbol name: %q", h.Contents)
	}
	if !strings.Contains(h.Contents, "Enable foo") {
		t.Fatalf("hover contents missing prompt: %q", h.Contents)
	}
	if !strings.Contains(h.Contents, "Does the foo thing.") {
		t.Fatalf("hover contents missing help text: %q", h.Contents)
	}
}

func TestEngine_HoverOnKeywordShowsCatalogHelp(t *testing.T) {
	src := "config FOO\n    bool\n"
	ws := document.NewWorkspace()
	ws.Open("file:///Kconfig", []byte(src), 1)
	e := query.NewEngine(ws, 16)

	h, ok := e.Hover("file:///Kconfig", offsetOf(src, "config"))
	if !ok {
		t.Fatalf("want hover result for the config keyword")
	}
	if !strings.Contains(h.Contents, "Declares a configuration symbol") {
		t.Fatalf("hover contents missing catalog help: %q", h.Contents)
	}
}

func TestEngine_HoverMissesOnUnresolvedIdentifier(t *testing.T) {
	src := "config FOO\n    depends on BAR\n"
	ws := document.NewWorkspace()
	ws.Open("file:///Kconfig", []byte(src), 1)
	e := query.NewEngine(ws, 16)

	if _, ok := e.Hover("file:///Kconfig", offsetOf(src, "BAR")); ok {
		t.Fatalf("want no hover for an undefined symbol")
	}
}

func TestEngine_DefinitionResolvesToDeclaringEntry(t *testing.T) {
	src := "config FOO\n    bool\nconfig BAR\n    depends on FOO\n"
	ws := document.NewWorkspace()
	ws.Open("file:///Kconfig", []byte(src), 1)
	e := query.NewEngine(ws, 16)

	locs := e.Definition("file:///Kconfig", offsetOf(src, "depends on FOO")+len("depends on "))
	if len(locs) != 1 {
		t.Fatalf("want one definition location, got %d", len(locs))
	}
	if locs[0].Span.Start != offsetOf(src, "config FOO") {
		t.Fatalf("definition span start = %d, want the config FOO entry's start", locs[0].Span.Start)
	}
}

func TestEngine_ReferencesFindsAllUsesAcrossOpenDocuments(t *testing.T) {
	srcA := "config FOO\n    bool\nconfig BAR\n    depends on FOO\n"
	srcB := "config BAZ\n    select FOO\n"
	ws := document.NewWorkspace()
	ws.Open("file:///A/Kconfig", []byte(srcA), 1)
	ws.Open("file:///B/Kconfig", []byte(srcB), 1)
	e := query.NewEngine(ws, 16)

	refs := e.References("file:///A/Kconfig", offsetOf(srcA, "config FOO")+len("config "), false)
	if len(refs) != 2 {
		t.Fatalf("want 2 references to FOO across both documents, got %d: %+v", len(refs), refs)
	}
}

func TestEngine_ReferencesIncludeDeclarationWhenRequested(t *testing.T) {
	src := "config FOO\n    bool\nconfig BAR\n    depends on FOO\n"
	ws := document.NewWorkspace()
	ws.Open("file:///Kconfig", []byte(src), 1)
	e := query.NewEngine(ws, 16)

	withoutDecl := e.References("file:///Kconfig", offsetOf(src, "config FOO")+len("config "), false)
	withDecl := e.References("file:///Kconfig", offsetOf(src, "config FOO")+len("config "), true)
	if len(withDecl) != len(withoutDecl)+1 {
		t.Fatalf("want includeDeclaration to add exactly one location, got %d vs %d", len(withDecl), len(withoutDecl))
	}
}

func TestEngine_CompletionAfterDependsOnSuggestsSymbols(t *testing.T) {
	src := "config FOO\n    bool\nconfig BAR\n    depends on \n"
	ws := document.NewWorkspace()
	ws.Open("file:///Kconfig", []byte(src), 1)
	e := query.NewEngine(ws, 16)

	items := e.Completion("file:///Kconfig", len(src)-1)
	found := false
	for _, it := range items {
		if it.Label == "FOO" && it.Kind == query.CompletionSymbol {
			found = true
		}
	}
	if !found {
		t.Fatalf("want FOO offered as a completion after 'depends on', got %+v", items)
	}
}

func TestEngine_CompletionAtTopLevelSuggestsEntryKeywords(t *testing.T) {
	src := ""
	ws := document.NewWorkspace()
	ws.Open("file:///Kconfig", []byte(src), 1)
	e := query.NewEngine(ws, 16)

	items := e.Completion("file:///Kconfig", 0)
	found := false
	for _, it := range items {
		if it.Label == "config" && it.Kind == query.CompletionKeyword {
			found = true
		}
	}
	if !found {
		t.Fatalf("want 'config' offered as a top-level completion, got %+v", items)
	}
}

func TestEngine_DiagnosticsUnionsParserAndIndexFindings(t *testing.T) {
	src := "config FOO\n    depends on NOPE\n"
	ws := document.NewWorkspace()
	ws.Open("file:///Kconfig", []byte(src), 1)
	e := query.NewEngine(ws, 16)

	diags := e.Diagnostics("file:///Kconfig")
	found := false
	for _, d := range diags {
		if d.Source == "index" && strings.Contains(d.Message, "NOPE") {
			found = true
		}
	}
	if !found {
		t.Fatalf("want an index diagnostic mentioning NOPE, got %+v", diags)
	}
}

func TestEngine_HoverUsesCacheOnRepeatedCall(t *testing.T) {
	src := "config FOO\n    bool \"Enable foo\"\n"
	ws := document.NewWorkspace()
	ws.Open("file:///Kconfig", []byte(src), 1)
	e := query.NewEngine(ws, 16)

	first, ok := e.Hover("file:///Kconfig", offsetOf(src, "FOO"))
	if !ok {
		t.Fatalf("want hover result")
	}
	second, ok := e.Hover("file:///Kconfig", offsetOf(src, "FOO"))
	if !ok || second.Contents != first.Contents {
		t.Fatalf("want identical cached hover contents on repeated call")
	}
}
