// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package catalog_test

import (
	"testing"

	"github.com/mdhender/kconfig-lsp/internal/catalog"
	"github.com/mdhender/kconfig-lsp/internal/token"
)

func TestLookupKeyword_ResolvesEveryBareKeywordTheLexerStamps(t *testing.T) {
	for spelling, kw := range catalog.SingleWordKeywords() {
		if _, ok := catalog.LookupKeyword(kw); !ok {
			t.Errorf("LookupKeyword(%v) for bare spelling %q: not found", kw, spelling)
		}
	}
}

func TestLookupKeyword_Visible(t *testing.T) {
	entry, ok := catalog.LookupKeyword(token.KwVisible)
	if !ok {
		t.Fatalf("want an entry for token.KwVisible")
	}
	if entry.Help == "" {
		t.Fatalf("want non-empty help text for visible")
	}
}
