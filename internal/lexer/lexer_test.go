// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package lexer_test

import (
	"testing"

	"github.com/go-test/deep"

	"github.com/mdhender/kconfig-lsp/internal/lexer"
	"github.com/mdhender/kconfig-lsp/internal/token"
)

type tok struct {
	Kind string
	Text string
}

func significant(input string) []tok {
	var got []tok
	for _, t := range lexer.Tokenize([]byte(input)) {
		if t.Kind.IsTrivia() || t.Kind == token.Newline || t.Kind == token.Eof {
			continue
		}
		got = append(got, tok{Kind: t.Kind.String(), Text: t.Text([]byte(input))})
	}
	return got
}

func TestLexer_SignificantTokenStreams(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  []tok
	}{
		{
			name:  "minimal config",
			input: "config FOO\n    bool \"foo\"\n    default y\n",
			want: []tok{
				{"Keyword", "config"},
				{"Ident", "FOO"},
				{"Keyword", "bool"},
				{"StringLit", "\"foo\""},
				{"Keyword", "default"},
				{"Keyword", "y"},
			},
		},
		{
			name:  "expression operators",
			input: "depends on A || B && !C\n",
			want: []tok{
				{"Keyword", "depends"},
				{"Keyword", "on"},
				{"Ident", "A"},
				{"Punct", "||"},
				{"Ident", "B"},
				{"Punct", "&&"},
				{"Punct", "!"},
				{"Ident", "C"},
			},
		},
		{
			name:  "comparisons do not chain lexically",
			input: "a != b <= c\n",
			want: []tok{
				{"Ident", "a"},
				{"Punct", "!="},
				{"Ident", "b"},
				{"Punct", "<="},
				{"Ident", "c"},
			},
		},
		{
			name:  "hex and signed numbers",
			input: "range 0x10 -5\n",
			want: []tok{
				{"Keyword", "range"},
				{"Number", "0x10"},
				{"Number", "-5"},
			},
		},
		{
			name:  "macro invocation",
			input: "default $(FOO, 1)\n",
			want: []tok{
				{"Keyword", "default"},
				{"MacroOpen", "$("},
				{"Ident", "FOO"},
				{"Punct", ","},
				{"Number", "1"},
				{"MacroClose", ")"},
			},
		},
		{
			name:  "nested macro",
			input: "default $(call,$(inner))\n",
			want: []tok{
				{"Keyword", "default"},
				{"MacroOpen", "$("},
				{"Ident", "call"},
				{"Punct", ","},
				{"MacroOpen", "$("},
				{"Ident", "inner"},
				{"MacroClose", ")"},
				{"MacroClose", ")"},
			},
		},
		{
			name:  "legacy help spelling",
			input: "---help---\n",
			want: []tok{
				{"Keyword", "---help---"},
			},
		},
		{
			name:  "comment to end of line excludes newline",
			input: "config X # trailing\n",
			want: []tok{
				{"Keyword", "config"},
				{"Ident", "X"},
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := significant(tc.input)
			if diff := deep.Equal(got, tc.want); diff != nil {
				t.Errorf("tokens mismatch: %v\n got=%#v", diff, got)
			}
		})
	}
}

func TestLexer_SpansTileInputExactly(t *testing.T) {
	inputs := []string{
		"config FOO\n\tbool \"foo\"\n\tdefault y\n",
		"# just a comment\n",
		"a = \"unterminated\n",
		"\\\nconfig X\n",
		"\\",
		"",
	}
	for _, input := range inputs {
		toks := lexer.Tokenize([]byte(input))
		if len(toks) == 0 {
			t.Fatalf("Tokenize(%q) produced no tokens", input)
		}
		pos := 0
		for i, tk := range toks {
			if tk.Span.Start != pos {
				t.Fatalf("input %q: token[%d] starts at %d, want %d (gap or overlap)", input, i, tk.Span.Start, pos)
			}
			if tk.Span.End < tk.Span.Start {
				t.Fatalf("input %q: token[%d] has End < Start", input, i)
			}
			pos = tk.Span.End
		}
		if pos != len(input) {
			t.Fatalf("input %q: tokens cover up to %d, want %d", input, pos, len(input))
		}
		if last := toks[len(toks)-1]; last.Kind != token.Eof {
			t.Fatalf("input %q: last token is %s, want Eof", input, last.Kind)
		}
	}
}

func TestLexer_UnterminatedString(t *testing.T) {
	toks := lexer.Tokenize([]byte("string \"oops\n"))
	var found bool
	for _, tk := range toks {
		if tk.Kind == token.StringLit {
			found = true
			if !tk.Err {
				t.Errorf("expected unterminated string to have Err set")
			}
		}
	}
	if !found {
		t.Fatalf("expected a StringLit token")
	}
}

func TestLexer_StrayBackslashIsError(t *testing.T) {
	toks := lexer.Tokenize([]byte("a \\ b\n"))
	var sawError bool
	for _, tk := range toks {
		if tk.Kind == token.Error && tk.ErrKind == token.ErrStrayBackslash {
			sawError = true
		}
	}
	if !sawError {
		t.Fatalf("expected a stray-backslash Error token")
	}
}

func TestLexer_LineContinuationDoesNotEmitNewline(t *testing.T) {
	toks := lexer.Tokenize([]byte("a \\\nb\n"))
	for _, tk := range toks {
		if tk.Kind == token.LineContinuation {
			return
		}
	}
	t.Fatalf("expected a LineContinuation token")
}

func TestPositionIndex_RoundTrips(t *testing.T) {
	src := []byte("config FOO\n\tbool \"foo\"\n\tdefault y\n")
	idx := lexer.NewPositionIndex(src)
	for offset := 0; offset <= len(src); offset++ {
		line, col := idx.LineCol(offset)
		back := idx.Offset(line, col)
		if back != offset {
			t.Errorf("offset %d -> (%d,%d) -> %d, want round trip", offset, line, col, back)
		}
	}
}
