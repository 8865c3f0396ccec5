// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/mdhender/kconfig-lsp/internal/index"
	"github.com/mdhender/kconfig-lsp/internal/lexer"
	"github.com/mdhender/kconfig-lsp/internal/syntax"
	"github.com/mdhender/kconfig-lsp/internal/token"
)

var argsParse struct {
	json bool
}

var cmdParse = &cobra.Command{
	Use:   "parse <file>",
	Short: "lex, parse, and index a Kconfig file outside the editor",
	Long:  `Debug command: lexes, parses, and indexes a single Kconfig file and prints its size and token count, the symbol table, and diagnostics without an editor client.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		src, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		tokens := lexer.Tokenize(src)
		tree, parseDiags := syntax.ParseFile(src)
		ix := index.Build(tree)

		if argsParse.json {
			return printParseJSON(cmd.OutOrStdout(), path, src, tokens, parseDiags, ix)
		}
		color := isatty.IsTerminal(os.Stdout.Fd())
		printParseText(cmd.OutOrStdout(), path, src, tokens, parseDiags, ix, color)
		return nil
	},
}

type parseResult struct {
	Path        string         `json:"path"`
	Size        int            `json:"sizeBytes"`
	TokenCount  int            `json:"tokenCount"`
	Symbols     []symbolResult `json:"symbols"`
	Diagnostics []diagResult   `json:"diagnostics"`
}

type symbolResult struct {
	Name          string   `json:"name"`
	Kind          string   `json:"kind"`
	DeclaredTypes []string `json:"declaredTypes,omitempty"`
	Definitions   int      `json:"definitionCount"`
	References    int      `json:"referenceCount"`
}

type diagResult struct {
	Source  string `json:"source"` // "parser" or "index"
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

func printParseJSON(w io.Writer, path string, src []byte, tokens []token.Token, parseDiags []syntax.Diagnostic, ix *index.Index) error {
	result := parseResult{Path: path, Size: len(src), TokenCount: len(tokens)}

	for _, sym := range ix.Symbols() {
		result.Symbols = append(result.Symbols, symbolResult{
			Name:          sym.Name,
			Kind:          sym.Kind.String(),
			DeclaredTypes: sym.DeclaredTypes,
			Definitions:   len(sym.Definitions),
			References:    len(ix.ReferencesTo(sym.Name)),
		})
	}
	for _, d := range parseDiags {
		result.Diagnostics = append(result.Diagnostics, diagResult{Source: "parser", Line: d.Span.Line, Col: d.Span.Col, Message: d.Message})
	}
	for _, d := range ix.Diagnostics {
		result.Diagnostics = append(result.Diagnostics, diagResult{Source: "index", Line: d.Span.Line, Col: d.Span.Col, Message: d.Message})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

const (
	ansiReset  = "\x1b[0m"
	ansiBold   = "\x1b[1m"
	ansiRed    = "\x1b[31m"
	ansiYellow = "\x1b[33m"
	ansiCyan   = "\x1b[36m"
	ansiGreen  = "\x1b[32m"
)

func paint(color bool, code, s string) string {
	if !color {
		return s
	}
	return code + s + ansiReset
}

func printParseText(w io.Writer, path string, src []byte, tokens []token.Token, parseDiags []syntax.Diagnostic, ix *index.Index, color bool) {
	fmt.Fprintf(w, "%s (%s, %d tokens)\n", paint(color, ansiBold, path), humanize.Bytes(uint64(len(src))), len(tokens))

	fmt.Fprintln(w, paint(color, ansiBold, "\nsymbols:"))
	for _, sym := range ix.Symbols() {
		refs := len(ix.ReferencesTo(sym.Name))
		fmt.Fprintf(w, "  %s %s  defs=%d refs=%d", paint(color, ansiCyan, sym.Name), sym.Kind.String(), len(sym.Definitions), refs)
		if len(sym.DeclaredTypes) > 0 {
			fmt.Fprintf(w, "  types=%v", sym.DeclaredTypes)
		}
		fmt.Fprintln(w)
	}

	if len(parseDiags) == 0 && len(ix.Diagnostics) == 0 {
		fmt.Fprintln(w, paint(color, ansiGreen, "\nno diagnostics"))
		return
	}
	fmt.Fprintln(w, paint(color, ansiBold, "\ndiagnostics:"))
	for _, d := range parseDiags {
		sev := paint(color, severityColor(d.Severity == syntax.SeverityError), severityLabel(d.Severity == syntax.SeverityError))
		fmt.Fprintf(w, "  %s:%d:%d: %s: %s\n", path, d.Span.Line, d.Span.Col, sev, d.Message)
	}
	for _, d := range ix.Diagnostics {
		sev := paint(color, severityColor(d.Severity == index.SeverityError), severityLabel(d.Severity == index.SeverityError))
		fmt.Fprintf(w, "  %s:%d:%d: %s: %s\n", path, d.Span.Line, d.Span.Col, sev, d.Message)
	}
}

func severityLabel(isError bool) string {
	if isError {
		return "error"
	}
	return "warning"
}

func severityColor(isError bool) string {
	if isError {
		return ansiRed
	}
	return ansiYellow
}
