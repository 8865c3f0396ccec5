// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package query

import (
	"fmt"
	"sort"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/mdhender/kconfig-lsp/internal/catalog"
	"github.com/mdhender/kconfig-lsp/internal/document"
	"github.com/mdhender/kconfig-lsp/internal/index"
	"github.com/mdhender/kconfig-lsp/internal/syntax"
	"github.com/mdhender/kconfig-lsp/internal/token"
)

// Location names a position in one document.
type Location struct {
	URI  string
	Span token.Span
}

// Hover is the rendered result of a hover request.
type Hover struct {
	Contents string // Markdown
	Span     token.Span
}

// Severity mirrors syntax.Severity/index.Severity so callers of this
// package don't need to import either just to read a Diagnostic.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

// Diagnostic is one finding surfaced to the client, tagged with which layer
// produced it (spec.md §4.4: "union of" parser and index findings).
type Diagnostic struct {
	Span     token.Span
	Severity Severity
	Message  string
	Source   string // "parser" | "index"
}

// CompletionItemKind distinguishes a keyword suggestion from a symbol-name
// suggestion.
type CompletionItemKind int

const (
	CompletionKeyword CompletionItemKind = iota
	CompletionSymbol
)

// CompletionItem is one proposed completion.
type CompletionItem struct {
	Label         string
	Kind          CompletionItemKind
	Detail        string
	Documentation string
}

type hoverCacheKey struct {
	uri     string
	id      index.ID
	version int
}

// Engine answers queries against a workspace's open documents. It holds a
// small bounded cache of rendered hover Markdown, since re-walking a
// symbol's definitions to re-render prompt+type+help on every keystroke's
// hover is wasted work for large files.
type Engine struct {
	ws    *document.Workspace
	hover *lru.Cache[hoverCacheKey, string]
}

// NewEngine wraps ws with a query engine caching up to hoverCacheSize
// rendered hover strings.
func NewEngine(ws *document.Workspace, hoverCacheSize int) *Engine {
	if hoverCacheSize <= 0 {
		hoverCacheSize = 256
	}
	c, _ := lru.New[hoverCacheKey, string](hoverCacheSize)
	return &Engine{ws: ws, hover: c}
}

// Hover implements spec.md §4.4 Hover: locate the token at offset; a
// keyword token returns its catalog help text; an identifier that resolves
// to a symbol returns its prompt, declared type, and help text.
func (e *Engine) Hover(uri string, offset int) (*Hover, bool) {
	doc := e.ws.Get(uri)
	if doc == nil {
		return nil, false
	}
	snap := doc.View()
	tok := tokenAt(snap.Tokens, offset)
	if tok == nil {
		return nil, false
	}

	if tok.Kind == token.Keyword {
		if entry, ok := catalog.LookupKeyword(tok.KwKind); ok {
			return &Hover{Contents: entry.Help, Span: tok.Span}, true
		}
		return nil, false
	}

	if tok.Kind != token.Ident {
		return nil, false
	}
	name := tok.Text(snap.Source)
	sym := snap.Index.Symbol(name)
	if sym == nil {
		return nil, false
	}

	key := hoverCacheKey{uri: uri, id: sym.ID, version: snap.Version}
	if cached, ok := e.hover.Get(key); ok {
		return &Hover{Contents: cached, Span: tok.Span}, true
	}
	rendered := renderHover(sym, snap.Tree)
	e.hover.Add(key, rendered)
	return &Hover{Contents: rendered, Span: tok.Span}, true
}

func renderHover(sym *index.Symbol, tree *syntax.File) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**%s** (%s", sym.Name, sym.Kind)
	if len(sym.DeclaredTypes) > 0 {
		fmt.Fprintf(&b, ", %s", strings.Join(sym.DeclaredTypes, "/"))
	}
	b.WriteString(")\n\n")

	if prompt := firstPrompt(tree, sym); prompt != "" {
		fmt.Fprintf(&b, "%s\n\n", prompt)
	}
	for _, help := range allHelp(tree, sym) {
		b.WriteString(help)
		b.WriteString("\n\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// firstPrompt returns the first prompt string found across sym's defining
// entries, in file order.
func firstPrompt(tree *syntax.File, sym *index.Symbol) string {
	for _, e := range tree.Entries {
		if !definesSymbol(e, sym) {
			continue
		}
		for _, c := range e.Children {
			if c.Kind == syntax.KindPromptAttr {
				if s := stringChild(c); s != nil {
					return s.Text
				}
			}
			if c.Kind == syntax.KindTypeAttr {
				if s := stringChild(c); s != nil {
					return s.Text
				}
			}
		}
	}
	return ""
}

// allHelp returns every help block found across sym's defining entries, in
// file order (repeated `config X` blocks each contribute their own help).
func allHelp(tree *syntax.File, sym *index.Symbol) []string {
	var out []string
	for _, e := range tree.Entries {
		if !definesSymbol(e, sym) {
			continue
		}
		for _, c := range e.Children {
			if c.Kind == syntax.KindHelpAttr {
				for _, hc := range c.Children {
					if hc.Kind == syntax.KindHelpBlock && hc.Text != "" {
						out = append(out, hc.Text)
					}
				}
			}
		}
	}
	return out
}

func definesSymbol(e *syntax.Node, sym *index.Symbol) bool {
	for _, s := range sym.Definitions {
		if e.Span() == s {
			return true
		}
	}
	return false
}

func stringChild(n *syntax.Node) *syntax.Node {
	for _, c := range n.Children {
		if c.Kind == syntax.KindStringValue {
			return c
		}
	}
	return nil
}

// Definition implements spec.md §4.4 Definition.
func (e *Engine) Definition(uri string, offset int) []Location {
	doc := e.ws.Get(uri)
	if doc == nil {
		return nil
	}
	snap := doc.View()
	sym := symbolAt(snap, offset)
	if sym == nil {
		return nil
	}
	out := make([]Location, 0, len(sym.Definitions))
	for _, span := range sym.Definitions {
		out = append(out, Location{URI: uri, Span: span})
	}
	return out
}

// References implements spec.md §4.4 References, searching every currently
// open document (spec.md §1: "reference search is within the currently
// open document set").
func (e *Engine) References(uri string, offset int, includeDeclaration bool) []Location {
	doc := e.ws.Get(uri)
	if doc == nil {
		return nil
	}
	snap := doc.View()
	sym := symbolAt(snap, offset)
	if sym == nil {
		return nil
	}

	var out []Location
	for _, u := range e.ws.URIs() {
		d := e.ws.Get(u)
		if d == nil {
			continue
		}
		s := d.View()
		for _, ref := range s.Index.ReferencesTo(sym.Name) {
			out = append(out, Location{URI: u, Span: ref.Span})
		}
		if includeDeclaration && u == uri {
			for _, span := range sym.Definitions {
				out = append(out, Location{URI: u, Span: span})
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].URI != out[j].URI {
			return out[i].URI < out[j].URI
		}
		return out[i].Span.Start < out[j].Span.Start
	})
	return out
}

func symbolAt(snap document.Snapshot, offset int) *index.Symbol {
	n := snap.Index.NodeAt(offset)
	if n == nil || n.Kind != syntax.KindName {
		return nil
	}
	return snap.Index.Symbol(n.Name)
}

func tokenAt(toks []token.Token, offset int) *token.Token {
	for i := range toks {
		t := &toks[i]
		if offset >= t.Span.Start && offset < t.Span.End {
			return t
		}
	}
	return nil
}

// Completion implements spec.md §4.4 Completion.
func (e *Engine) Completion(uri string, offset int) []CompletionItem {
	doc := e.ws.Get(uri)
	if doc == nil {
		return nil
	}
	snap := doc.View()

	ctx := completionContext(snap, offset)
	var out []CompletionItem
	switch ctx {
	case ctxExpression:
		out = append(out, symbolItems(snap.Index)...)
	case ctxEntryBody:
		out = append(out, catalogItems(catalog.ContextBody)...)
		out = append(out, catalogItems(catalog.ContextType)...)
		out = append(out, catalogItems(catalog.ContextNoArg)...)
	case ctxTopLevel:
		out = append(out, catalogItems(catalog.ContextEntry)...)
	default:
		out = append(out, catalogItems(catalog.ContextEntry)...)
		out = append(out, catalogItems(catalog.ContextBody)...)
		out = append(out, catalogItems(catalog.ContextType)...)
		out = append(out, catalogItems(catalog.ContextNoArg)...)
		out = append(out, symbolItems(snap.Index)...)
	}
	return out
}

type completionCtx int

const (
	ctxUnknown completionCtx = iota
	ctxExpression
	ctxEntryBody
	ctxTopLevel
)

// completionContext classifies the cursor position from the surrounding
// tokens, per spec.md §4.4 Completion's four cases.
func completionContext(snap document.Snapshot, offset int) completionCtx {
	prevSignificant, prevAny := precedingTokens(snap.Tokens, offset)

	if prevSignificant != nil {
		switch {
		case prevSignificant.Kind == token.Keyword && isExpressionIntroducer(prevSignificant.KwKind):
			return ctxExpression
		case prevSignificant.Kind == token.Punct && (prevSignificant.Op == token.OpOr || prevSignificant.Op == token.OpAnd || prevSignificant.Op == token.OpNot):
			return ctxExpression
		}
	}

	// Start of file, or immediately after a block terminator, with only
	// whitespace/newlines since: top-level entry position.
	if prevSignificant == nil {
		return ctxTopLevel
	}
	if prevSignificant.Kind == token.Keyword && isBlockTerminator(prevSignificant.KwKind) {
		return ctxTopLevel
	}

	// Leading whitespace on a fresh line with no token yet on this line:
	// entry-body attribute position.
	if startsFreshLine(prevAny) {
		return ctxEntryBody
	}

	return ctxUnknown
}

func isExpressionIntroducer(k token.Keyword) bool {
	switch k {
	case token.KwDependsOn, token.KwOn, token.KwSelect, token.KwImply:
		return true
	}
	return false
}

func isBlockTerminator(k token.Keyword) bool {
	switch k {
	case token.KwEndchoice, token.KwEndmenu, token.KwEndif:
		return true
	}
	return false
}

// precedingTokens returns the last non-trivia token strictly before offset
// (or nil at start of file), and the very last token of any kind (including
// trivia) strictly before offset.
func precedingTokens(toks []token.Token, offset int) (significant, any *token.Token) {
	for i := len(toks) - 1; i >= 0; i-- {
		t := &toks[i]
		if t.Kind == token.Eof || t.Span.End > offset {
			continue
		}
		if any == nil {
			any = t
		}
		if !t.Kind.IsTrivia() && t.Kind != token.Newline {
			significant = t
			return significant, any
		}
	}
	return nil, any
}

// startsFreshLine reports whether the token immediately preceding the
// cursor is a Newline, or Whitespace that starts in column 1, i.e. nothing
// but indentation separates the cursor from the start of its line.
func startsFreshLine(prevAny *token.Token) bool {
	return prevAny != nil && (prevAny.Kind == token.Newline || (prevAny.Kind == token.Whitespace && prevAny.Span.Col == 1))
}

func catalogItems(ctx catalog.Context) []CompletionItem {
	var out []CompletionItem
	for _, entry := range catalog.EntriesForContext(ctx) {
		out = append(out, CompletionItem{
			Label:         entry.Spelling,
			Kind:          CompletionKeyword,
			Detail:        entry.Kind.String(),
			Documentation: entry.Help,
		})
	}
	return out
}

func symbolItems(ix *index.Index) []CompletionItem {
	var out []CompletionItem
	for _, sym := range ix.Symbols() {
		detail := sym.Kind.String()
		if len(sym.DeclaredTypes) > 0 {
			detail += " " + strings.Join(sym.DeclaredTypes, "/")
		}
		out = append(out, CompletionItem{
			Label:  sym.Name,
			Kind:   CompletionSymbol,
			Detail: detail,
		})
	}
	return out
}

// Diagnostics implements spec.md §4.4 Diagnostics: the union of parser
// diagnostics (lexical/syntactic errors) and index diagnostics (undefined
// symbols, conflicting declared types).
func (e *Engine) Diagnostics(uri string) []Diagnostic {
	doc := e.ws.Get(uri)
	if doc == nil {
		return nil
	}
	snap := doc.View()

	out := make([]Diagnostic, 0, len(snap.ParseDiags)+len(snap.Index.Diagnostics))
	for _, d := range snap.ParseDiags {
		out = append(out, Diagnostic{Span: d.Span, Severity: fromSyntaxSeverity(d.Severity), Message: d.Message, Source: "parser"})
	}
	for _, d := range snap.Index.Diagnostics {
		out = append(out, Diagnostic{Span: d.Span, Severity: fromIndexSeverity(d.Severity), Message: d.Message, Source: "index"})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Span.Start < out[j].Span.Start })
	return out
}

func fromSyntaxSeverity(s syntax.Severity) Severity {
	if s == syntax.SeverityWarning {
		return SeverityWarning
	}
	return SeverityError
}

func fromIndexSeverity(s index.Severity) Severity {
	if s == index.SeverityWarning {
		return SeverityWarning
	}
	return SeverityError
}
