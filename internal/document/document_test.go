// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package document_test

import (
	"testing"

	"github.com/mdhender/kconfig-lsp/internal/document"
)

func TestDocument_UpdateRebuildsEverything(t *testing.T) {
	doc := document.New("file:///Kconfig", []byte("config A\n    bool\n"), 1)
	before := doc.View()
	if len(before.Tree.Entries) != 1 {
		t.Fatalf("want one entry, got %d", len(before.Tree.Entries))
	}
	if sym := before.Index.Symbol("A"); sym == nil {
		t.Fatalf("want symbol A indexed")
	}

	doc.Update([]byte("config A\n    bool\nconfig B\n    bool\n    depends on NOPE\n"), 2)
	after := doc.View()
	if after.Version != 2 {
		t.Fatalf("version = %d, want 2", after.Version)
	}
	if len(after.Tree.Entries) != 2 {
		t.Fatalf("want two entries after update, got %d", len(after.Tree.Entries))
	}
	if len(after.Index.Diagnostics) != 1 {
		t.Fatalf("want one undefined-symbol diagnostic after update, got %+v", after.Index.Diagnostics)
	}
	// the pre-update snapshot must not have mutated underfoot
	if len(before.Tree.Entries) != 1 {
		t.Fatalf("prior snapshot was mutated by Update")
	}
}

func TestWorkspace_OpenChangeClose(t *testing.T) {
	ws := document.NewWorkspace()
	ws.Open("file:///Kconfig", []byte("config A\n    bool\n"), 1)

	if doc := ws.Get("file:///Kconfig"); doc == nil {
		t.Fatalf("want document to be open")
	}

	if ok := ws.Change("file:///Kconfig", []byte("config A\n    bool\n    default y\n"), 2); !ok {
		t.Fatalf("want Change to report the document was open")
	}
	if ws.Get("file:///Kconfig").View().Version != 2 {
		t.Fatalf("want version 2 after Change")
	}

	if ok := ws.Change("file:///missing", nil, 1); ok {
		t.Fatalf("want Change on an unopened URI to report false")
	}

	ws.Close("file:///Kconfig")
	if doc := ws.Get("file:///Kconfig"); doc != nil {
		t.Fatalf("want document to be gone after Close")
	}
}

func TestWorkspace_UndefinedSymbolResolvesAcrossOpenDocuments(t *testing.T) {
	ws := document.NewWorkspace()
	ws.Open("file:///A/Kconfig", []byte("config A\n    bool\n    depends on B\n"), 1)

	// B isn't defined anywhere yet: A's reference to it is undefined.
	diagsA := ws.Get("file:///A/Kconfig").View().Index.Diagnostics
	if len(diagsA) != 1 {
		t.Fatalf("want one undefined-symbol diagnostic before B is opened, got %+v", diagsA)
	}

	// Opening a second document that defines B must clear A's diagnostic.
	ws.Open("file:///B/Kconfig", []byte("config B\n    bool\n"), 1)
	diagsA = ws.Get("file:///A/Kconfig").View().Index.Diagnostics
	if len(diagsA) != 0 {
		t.Fatalf("want no undefined-symbol diagnostics once B is open, got %+v", diagsA)
	}

	// Closing B must bring the diagnostic back.
	ws.Close("file:///B/Kconfig")
	diagsA = ws.Get("file:///A/Kconfig").View().Index.Diagnostics
	if len(diagsA) != 1 {
		t.Fatalf("want the undefined-symbol diagnostic back after B closes, got %+v", diagsA)
	}
}

func TestWorkspace_URIs(t *testing.T) {
	ws := document.NewWorkspace()
	ws.Open("file:///A/Kconfig", []byte("config A\n    bool\n"), 1)
	ws.Open("file:///B/Kconfig", []byte("config B\n    bool\n"), 1)
	uris := ws.URIs()
	if len(uris) != 2 {
		t.Fatalf("want 2 open uris, got %d", len(uris))
	}
}
