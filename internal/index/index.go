// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package index

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mdhender/kconfig-lsp/internal/syntax"
	"github.com/mdhender/kconfig-lsp/internal/token"
)

// Kind classifies what kind of construct defined a Symbol.
type Kind int

const (
	SymbolConfig Kind = iota
	SymbolMenuconfig
	SymbolChoice
)

func (k Kind) String() string {
	switch k {
	case SymbolConfig:
		return "config"
	case SymbolMenuconfig:
		return "menuconfig"
	case SymbolChoice:
		return "choice"
	default:
		return "symbol"
	}
}

// ID is a stable, document-local symbol identifier. References carry an ID,
// not a pointer, so the table can be rebuilt or serialized independently of
// any one Node's lifetime.
type ID int

// Symbol is one name's definition record. A name may be (re-)defined more
// than once in a file (e.g. the same CONFIG guarded by different `if`
// blocks); every defining entry's span is kept rather than only the first.
type Symbol struct {
	ID            ID
	Name          string
	Kind          Kind
	DeclaredTypes []string // distinct "bool"/"tristate"/"string"/"hex"/"int" spellings seen
	Definitions   []token.Span
}

// ReferenceKind classifies the syntactic position a symbol name was found
// in, mirroring the attribute it was read from.
type ReferenceKind int

const (
	RefDepends ReferenceKind = iota
	RefSelect
	RefImply
	RefDefaultExpr
	RefVisibleIf
	RefRangeBound
	RefIfCondition
)

func (k ReferenceKind) String() string {
	switch k {
	case RefDepends:
		return "depends"
	case RefSelect:
		return "select"
	case RefImply:
		return "imply"
	case RefDefaultExpr:
		return "default"
	case RefVisibleIf:
		return "visible-if"
	case RefRangeBound:
		return "range-bound"
	case RefIfCondition:
		return "if-condition"
	default:
		return "reference"
	}
}

// Reference is one occurrence of a symbol name inside an expression.
// SymbolID is zero (the invalid ID) when the name never resolved to a
// definition, including the always-defined pseudo-symbols y/n/m.
type Reference struct {
	Span     token.Span
	Name     string
	Kind     ReferenceKind
	SymbolID ID
}

// Severity mirrors syntax.Severity so callers don't need to import syntax
// just to read a diagnostic produced by this package.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

// Diagnostic is one finding produced while building the index, independent
// of any diagnostics the parser already reported.
type Diagnostic struct {
	Severity Severity
	Span     token.Span
	Message  string
}

// Scope records what encloses a given entry node: the stack of open menu
// titles (outermost first), the name of the innermost enclosing choice (if
// any), and the stack of active `if` condition expressions.
type Scope struct {
	EnclosingMenus  []string
	EnclosingChoice string
	IfConditions    []*syntax.Node
}

type spanEntry struct {
	span token.Span
	node *syntax.Node
}

// Index is the semantic index for a single parsed file: symbol definitions,
// references, a by-span lookup table, and per-entry scope information
// (spec.md §4.3). Building it never mutates the tree.
type Index struct {
	symbols    map[string]*Symbol
	bySymbolID map[ID]*Symbol
	order      []string // insertion order of symbol names, for deterministic iteration

	References []*Reference
	refsByName map[string][]*Reference

	bySpan []spanEntry

	Scopes map[*syntax.Node]Scope

	Diagnostics []Diagnostic

	nextID ID
}

func isPseudoSymbolName(name string) bool {
	return name == "y" || name == "n" || name == "m"
}

// Build populates every table in one traversal of f.Entries (spec.md §4.3:
// "One traversal suffices").
func Build(f *syntax.File) *Index {
	ix := &Index{
		symbols:    make(map[string]*Symbol),
		bySymbolID: make(map[ID]*Symbol),
		refsByName: make(map[string][]*Reference),
		Scopes:     make(map[*syntax.Node]Scope),
	}

	var menuStack []string
	var ifStack []*syntax.Node
	var choiceStack []string

	snapshot := func() Scope {
		s := Scope{
			EnclosingMenus: append([]string(nil), menuStack...),
			IfConditions:   append([]*syntax.Node(nil), ifStack...),
		}
		if n := len(choiceStack); n > 0 {
			s.EnclosingChoice = choiceStack[n-1]
		}
		return s
	}

	for _, e := range f.Entries {
		ix.indexBySpan(e)

		switch e.Kind {
		case syntax.KindMenuEntry:
			ix.Scopes[e] = snapshot()
			menuStack = append(menuStack, menuTitle(e))
			ix.indexAttrs(nil, e)
		case syntax.KindEndmenuEntry:
			ix.Scopes[e] = snapshot()
			if n := len(menuStack); n > 0 {
				menuStack = menuStack[:n-1]
			}
		case syntax.KindIfEntry:
			ix.Scopes[e] = snapshot()
			if cond := firstChildOfKind(e, isExprKind); cond != nil {
				ix.collectRefs(cond, RefIfCondition)
				ifStack = append(ifStack, cond)
			} else {
				ifStack = append(ifStack, nil)
			}
			ix.indexAttrs(nil, e)
		case syntax.KindEndifEntry:
			ix.Scopes[e] = snapshot()
			if n := len(ifStack); n > 0 {
				ifStack = ifStack[:n-1]
			}
		case syntax.KindChoiceEntry:
			ix.Scopes[e] = snapshot()
			name := ix.defineChoice(e)
			choiceStack = append(choiceStack, name)
			ix.indexAttrs(ix.symbols[name], e)
		case syntax.KindEndchoiceEntry:
			ix.Scopes[e] = snapshot()
			if n := len(choiceStack); n > 0 {
				choiceStack = choiceStack[:n-1]
			}
		case syntax.KindConfigEntry, syntax.KindMenuconfigEntry:
			ix.Scopes[e] = snapshot()
			ix.defineConfigLike(e)
		case syntax.KindCommentEntry:
			ix.Scopes[e] = snapshot()
			ix.indexAttrs(nil, e)
		default:
			ix.Scopes[e] = snapshot()
		}
	}

	// Stable so that, among nodes sharing the same start offset, the
	// pre-order DFS's parent-before-child insertion order survives the
	// sort: NodeAt's backward scan then meets a child before its parent.
	sort.SliceStable(ix.bySpan, func(i, j int) bool { return ix.bySpan[i].span.Start < ix.bySpan[j].span.Start })

	ix.resolveReferences()
	ix.checkUndefined()
	ix.checkTypeConflicts()
	return ix
}

func menuTitle(e *syntax.Node) string {
	if s := firstChildOfKind(e, func(k syntax.Kind) bool { return k == syntax.KindStringValue }); s != nil {
		return s.Text
	}
	return ""
}

func nameChild(e *syntax.Node) *syntax.Node {
	return firstChildOfKind(e, func(k syntax.Kind) bool { return k == syntax.KindName })
}

func firstChildOfKind(n *syntax.Node, pred func(syntax.Kind) bool) *syntax.Node {
	for _, c := range n.Children {
		if pred(c.Kind) {
			return c
		}
	}
	return nil
}

func isExprKind(k syntax.Kind) bool {
	switch k {
	case syntax.KindOrExpr, syntax.KindAndExpr, syntax.KindNotExpr, syntax.KindCompareExpr,
		syntax.KindParenExpr, syntax.KindSymbolRefExpr, syntax.KindLiteralExpr,
		syntax.KindMacroCallExpr, syntax.KindErrorExpr:
		return true
	}
	return false
}

func exprChildren(n *syntax.Node) []*syntax.Node {
	var out []*syntax.Node
	for _, c := range n.Children {
		if isExprKind(c.Kind) {
			out = append(out, c)
		}
	}
	return out
}

// --- definitions ---------------------------------------------------------

func (ix *Index) getOrCreateSymbol(name string, kind Kind) *Symbol {
	if s, ok := ix.symbols[name]; ok {
		return s
	}
	ix.nextID++
	s := &Symbol{ID: ix.nextID, Name: name, Kind: kind}
	ix.symbols[name] = s
	ix.bySymbolID[s.ID] = s
	ix.order = append(ix.order, name)
	return s
}

func appendUniqueType(types []string, t string) []string {
	if t == "" {
		return types
	}
	for _, s := range types {
		if s == t {
			return types
		}
	}
	return append(types, t)
}

func (ix *Index) defineConfigLike(e *syntax.Node) {
	kind := SymbolConfig
	if e.Kind == syntax.KindMenuconfigEntry {
		kind = SymbolMenuconfig
	}
	name := nameChild(e)
	if name == nil {
		ix.indexAttrs(nil, e)
		return
	}
	sym := ix.getOrCreateSymbol(name.Name, kind)
	sym.Definitions = append(sym.Definitions, e.Span())
	ix.indexAttrs(sym, e)
}

func (ix *Index) defineChoice(e *syntax.Node) string {
	name := nameChild(e)
	symName := ""
	if name != nil {
		symName = name.Name
	} else {
		symName = fmt.Sprintf("<anonymous choice @%d>", e.Span().Start)
	}
	sym := ix.getOrCreateSymbol(symName, SymbolChoice)
	sym.Definitions = append(sym.Definitions, e.Span())
	return symName
}

// --- attributes / references ----------------------------------------------

// indexAttrs walks one entry's attribute children, recording declared types
// on sym (which may be nil for entries that aren't a symbol definition,
// e.g. comment/menu/if) and references for every expression attribute.
func (ix *Index) indexAttrs(sym *Symbol, e *syntax.Node) {
	for _, c := range e.Children {
		switch c.Kind {
		case syntax.KindTypeAttr:
			if sym != nil {
				sym.DeclaredTypes = appendUniqueType(sym.DeclaredTypes, c.TypeName)
			}
			ix.collectTrailingIf(c)
		case syntax.KindPromptAttr:
			ix.collectTrailingIf(c)
		case syntax.KindDefaultAttr:
			ix.collectPrimaryPlusIf(c, RefDefaultExpr)
		case syntax.KindDefBoolAttr:
			if sym != nil {
				sym.DeclaredTypes = appendUniqueType(sym.DeclaredTypes, "bool")
			}
			ix.collectPrimaryPlusIf(c, RefDefaultExpr)
		case syntax.KindDefTristateAttr:
			if sym != nil {
				sym.DeclaredTypes = appendUniqueType(sym.DeclaredTypes, "tristate")
			}
			ix.collectPrimaryPlusIf(c, RefDefaultExpr)
		case syntax.KindDependsOnAttr:
			ix.collectPrimaryPlusIf(c, RefDepends)
		case syntax.KindSelectAttr:
			ix.collectPrimaryPlusIf(c, RefSelect)
		case syntax.KindImplyAttr:
			ix.collectPrimaryPlusIf(c, RefImply)
		case syntax.KindVisibleIfAttr:
			ix.collectPrimaryPlusIf(c, RefVisibleIf)
		case syntax.KindRangeAttr:
			ix.indexRangeAttr(c)
		}
	}
}

// collectTrailingIf handles attributes whose only possible expression child
// is a trailing `if EXPR` suffix (type, prompt).
func (ix *Index) collectTrailingIf(attr *syntax.Node) {
	kids := exprChildren(attr)
	if len(kids) >= 1 {
		ix.collectRefs(kids[0], RefIfCondition)
	}
}

// collectPrimaryPlusIf handles attributes with a mandatory primary
// expression (or select/imply target) optionally followed by a trailing
// `if EXPR` suffix.
func (ix *Index) collectPrimaryPlusIf(attr *syntax.Node, primary ReferenceKind) {
	kids := exprChildren(attr)
	if len(kids) >= 1 {
		ix.collectRefs(kids[0], primary)
	}
	if len(kids) >= 2 {
		ix.collectRefs(kids[1], RefIfCondition)
	}
}

// indexRangeAttr is range-specific: its first (up to) two value children are
// the bounds (a NumberValue or a SymbolRef, each classified independently),
// anything after that is the trailing `if EXPR` condition.
func (ix *Index) indexRangeAttr(attr *syntax.Node) {
	bounds := 0
	var rest []*syntax.Node
	for _, c := range attr.Children {
		if bounds < 2 && (c.Kind == syntax.KindNumberValue || c.Kind == syntax.KindSymbolRefExpr) {
			if c.Kind == syntax.KindSymbolRefExpr {
				ix.collectRefs(c, RefRangeBound)
			}
			bounds++
			continue
		}
		rest = append(rest, c)
	}
	for _, c := range rest {
		ix.collectRefs(c, RefIfCondition)
	}
}

// collectRefs walks an expression subtree recording a Reference for every
// SymbolRef it finds. Macro names and macro arguments that happen to be
// bare identifiers are plain Name leaves, not SymbolRef nodes, so they are
// never mistaken for symbol references.
func (ix *Index) collectRefs(n *syntax.Node, kind ReferenceKind) {
	if n == nil {
		return
	}
	if n.Kind == syntax.KindSymbolRefExpr {
		if name := nameChild(n); name != nil {
			ix.addReference(name.Span(), name.Name, kind)
		}
	}
	for _, c := range n.Children {
		ix.collectRefs(c, kind)
	}
}

func (ix *Index) addReference(span token.Span, name string, kind ReferenceKind) {
	ref := &Reference{Span: span, Name: name, Kind: kind}
	ix.References = append(ix.References, ref)
	ix.refsByName[name] = append(ix.refsByName[name], ref)
}

func (ix *Index) resolveReferences() {
	// Forward references are legal Kconfig (a symbol may be used before its
	// defining entry appears later in the file), so resolution happens only
	// after every definition in the file has been seen.
	for _, ref := range ix.References {
		if sym, ok := ix.symbols[ref.Name]; ok {
			ref.SymbolID = sym.ID
		}
	}
}

// undefinedSymbolPrefix tags a Diagnostic.Message as produced by
// checkUndefined/RecheckUndefined, so RecheckUndefined can find and replace
// its own prior output without disturbing checkTypeConflicts' diagnostics.
const undefinedSymbolPrefix = "undefined symbol "

func (ix *Index) checkUndefined() {
	ix.Diagnostics = append(ix.Diagnostics, ix.undefinedDiagnostics(nil)...)
	sort.Slice(ix.Diagnostics, func(i, j int) bool { return ix.Diagnostics[i].Span.Start < ix.Diagnostics[j].Span.Start })
}

// RecheckUndefined recomputes undefined-symbol diagnostics now that
// externallyDefined names the symbols defined by other currently open
// documents in the workspace (spec.md §4.3: a reference is undefined only
// if no currently open document defines it, not just this one). Callers
// that never compose multiple documents (e.g. the parse debug CLI) can
// leave checkUndefined's single-document result as-is.
func (ix *Index) RecheckUndefined(externallyDefined map[string]bool) {
	kept := ix.Diagnostics[:0]
	for _, d := range ix.Diagnostics {
		if !strings.HasPrefix(d.Message, undefinedSymbolPrefix) {
			kept = append(kept, d)
		}
	}
	ix.Diagnostics = append(kept, ix.undefinedDiagnostics(externallyDefined)...)
	sort.Slice(ix.Diagnostics, func(i, j int) bool { return ix.Diagnostics[i].Span.Start < ix.Diagnostics[j].Span.Start })
}

func (ix *Index) undefinedDiagnostics(externallyDefined map[string]bool) []Diagnostic {
	var out []Diagnostic
	seen := make(map[string]bool)
	for _, ref := range ix.References {
		if isPseudoSymbolName(ref.Name) {
			continue
		}
		if _, ok := ix.symbols[ref.Name]; ok {
			continue
		}
		if externallyDefined[ref.Name] {
			continue
		}
		key := fmt.Sprintf("%d:%s", ref.Span.Start, ref.Name)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, Diagnostic{
			Severity: SeverityWarning,
			Span:     ref.Span,
			Message:  undefinedSymbolPrefix + ref.Name,
		})
	}
	return out
}

func (ix *Index) checkTypeConflicts() {
	for _, name := range ix.order {
		sym := ix.symbols[name]
		if len(sym.DeclaredTypes) <= 1 {
			continue
		}
		span := token.Span{}
		if len(sym.Definitions) > 0 {
			span = sym.Definitions[0]
		}
		ix.Diagnostics = append(ix.Diagnostics, Diagnostic{
			Severity: SeverityWarning,
			Span:     span,
			Message:  fmt.Sprintf("symbol %s declared with conflicting types: %v", sym.Name, sym.DeclaredTypes),
		})
	}
}

// --- by-span lookup --------------------------------------------------------

func (ix *Index) indexBySpan(n *syntax.Node) {
	ix.bySpan = append(ix.bySpan, spanEntry{span: n.Span(), node: n})
	for _, c := range n.Children {
		ix.indexBySpan(c)
	}
}

// NodeAt returns the most specific (smallest-span) node whose span contains
// offset, or nil if none does. Implemented as a sorted array with a bounded
// backward scan from the insertion point rather than a true interval tree;
// fast enough for single-document Kconfig files.
func (ix *Index) NodeAt(offset int) *syntax.Node {
	hi := sort.Search(len(ix.bySpan), func(i int) bool { return ix.bySpan[i].span.Start > offset })
	var best *syntax.Node
	var bestWidth int
	for i := hi - 1; i >= 0; i-- {
		e := ix.bySpan[i]
		if offset < e.span.Start || offset > e.span.End {
			continue
		}
		w := e.span.End - e.span.Start
		if best == nil || w < bestWidth {
			best = e.node
			bestWidth = w
		}
	}
	return best
}

// --- symbol / reference accessors ------------------------------------------

// Symbol returns the definition record for name, or nil if it was never
// defined in this file.
func (ix *Index) Symbol(name string) *Symbol {
	return ix.symbols[name]
}

// SymbolByID returns the symbol with the given ID, or nil.
func (ix *Index) SymbolByID(id ID) *Symbol {
	return ix.bySymbolID[id]
}

// Symbols returns every defined symbol, in first-definition order.
func (ix *Index) Symbols() []*Symbol {
	out := make([]*Symbol, 0, len(ix.order))
	for _, name := range ix.order {
		out = append(out, ix.symbols[name])
	}
	return out
}

// ReferencesTo returns every reference to name, in file order.
func (ix *Index) ReferencesTo(name string) []*Reference {
	return ix.refsByName[name]
}
