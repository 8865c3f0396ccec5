// Copyright (c) 2024 Michael D Henderson. All rights reserved.

// Package catalog is the static, read-only keyword catalog: a data-driven
// mapping from keyword spelling to (kind, help text, allowed contexts),
// used by the lexer (recognition, via SingleWordKeywords) and the query
// layer (hover/completion) — spec.md §4.1/§4.4/§9. The parser does not read
// the catalog: it dispatches on token.Keyword values with its own entry and
// attribute keyword sets.
package catalog

import "github.com/mdhender/kconfig-lsp/internal/token"

// Context names a syntactic position a keyword is legal in, used by the
// completion query (spec.md §4.4) to filter the catalog down to what makes
// sense at the cursor.
type Context int

const (
	ContextEntry Context = iota // legal as a new top-level/nested entry opener
	ContextBody                 // legal as an attribute inside a config/menuconfig body
	ContextType                 // one of bool/tristate/string/hex/int
	ContextNoArg                // modules/transitional/optional
)

// Entry is one row of the keyword catalog.
type Entry struct {
	Spelling string
	Kind     token.Keyword
	Help     string
	Contexts []Context
	Legacy   bool // true for deprecated spellings such as ---help---
}

// In reports whether the entry is legal in the given context.
func (e Entry) In(c Context) bool {
	for _, ctx := range e.Contexts {
		if ctx == c {
			return true
		}
	}
	return false
}

// Catalog is the frozen keyword table, built once at package init and never
// mutated afterward (spec.md §5: "The keyword catalog is immutable and
// read-only shared").
var Catalog = []Entry{
	{Spelling: "config", Kind: token.KwConfig, Contexts: []Context{ContextEntry},
		Help: "Declares a configuration symbol. Introduces a definition; attribute lines follow until the next entry."},
	{Spelling: "menuconfig", Kind: token.KwMenuconfig, Contexts: []Context{ContextEntry},
		Help: "Like config, but the editor should group the symbol's dependents under it in a menu."},
	{Spelling: "choice", Kind: token.KwChoice, Contexts: []Context{ContextEntry},
		Help: "Opens a choice block: a set of mutually exclusive config entries. May be named or anonymous."},
	{Spelling: "endchoice", Kind: token.KwEndchoice, Contexts: []Context{ContextEntry},
		Help: "Closes the nearest open choice block."},
	{Spelling: "menu", Kind: token.KwMenu, Contexts: []Context{ContextEntry},
		Help: "Opens a menu block grouping the entries that follow until the matching endmenu."},
	{Spelling: "endmenu", Kind: token.KwEndmenu, Contexts: []Context{ContextEntry},
		Help: "Closes the nearest open menu block."},
	{Spelling: "if", Kind: token.KwIf, Contexts: []Context{ContextEntry},
		Help: "Opens a conditional block: entries inside are implicitly dependent on the condition."},
	{Spelling: "endif", Kind: token.KwEndif, Contexts: []Context{ContextEntry},
		Help: "Closes the nearest open if block."},
	{Spelling: "comment", Kind: token.KwComment, Contexts: []Context{ContextEntry},
		Help: "Declares a comment entry: text shown to the user, not a source-code comment."},
	{Spelling: "source", Kind: token.KwSource, Contexts: []Context{ContextEntry},
		Help: "Includes another Kconfig file. Not followed by this server (spec §1 non-goal)."},
	{Spelling: "mainmenu", Kind: token.KwMainmenu, Contexts: []Context{ContextEntry},
		Help: "Sets the title of the top-level menu."},

	{Spelling: "bool", Kind: token.KwBool, Contexts: []Context{ContextBody, ContextType},
		Help: "Declares the symbol's type as boolean (y/n), optionally with an inline prompt."},
	{Spelling: "tristate", Kind: token.KwTristate, Contexts: []Context{ContextBody, ContextType},
		Help: "Declares the symbol's type as tristate (y/m/n), optionally with an inline prompt."},
	{Spelling: "string", Kind: token.KwString, Contexts: []Context{ContextBody, ContextType},
		Help: "Declares the symbol's type as string, optionally with an inline prompt."},
	{Spelling: "hex", Kind: token.KwHex, Contexts: []Context{ContextBody, ContextType},
		Help: "Declares the symbol's type as hexadecimal, optionally with an inline prompt."},
	{Spelling: "int", Kind: token.KwInt, Contexts: []Context{ContextBody, ContextType},
		Help: "Declares the symbol's type as integer, optionally with an inline prompt."},
	{Spelling: "prompt", Kind: token.KwPrompt, Contexts: []Context{ContextBody},
		Help: "Sets the user-visible prompt string for the entry, optionally gated by an if condition."},
	{Spelling: "default", Kind: token.KwDefault, Contexts: []Context{ContextBody},
		Help: "Adds a default-value expression, optionally gated by an if condition. Repeatable."},
	{Spelling: "def_bool", Kind: token.KwDefBool, Contexts: []Context{ContextBody},
		Help: "Shorthand for `bool` plus `default`: declares the type as bool and sets a default in one line."},
	{Spelling: "def_tristate", Kind: token.KwDefTristate, Contexts: []Context{ContextBody},
		Help: "Shorthand for `tristate` plus `default`."},
	{Spelling: "depends on", Kind: token.KwDependsOn, Contexts: []Context{ContextBody},
		Help: "Adds a dependency expression. The entry (and everything nested under it) is invisible unless it holds."},
	{Spelling: "select", Kind: token.KwSelect, Contexts: []Context{ContextBody},
		Help: "Forces another symbol on when this one is enabled, optionally gated by an if condition."},
	{Spelling: "imply", Kind: token.KwImply, Contexts: []Context{ContextBody},
		Help: "Like select, but the forced value can be overridden by the user."},
	{Spelling: "visible if", Kind: token.KwVisibleIf, Contexts: []Context{ContextBody},
		Help: "Restricts prompt visibility (but not the symbol's value) to when the expression holds."},
	{Spelling: "visible", Kind: token.KwVisible, Contexts: []Context{ContextBody},
		Help: "Restricts prompt visibility (but not the symbol's value) to when the expression holds."},
	{Spelling: "range", Kind: token.KwRange, Contexts: []Context{ContextBody},
		Help: "Bounds an int/hex symbol's value between two numbers or symbol references, optionally gated by if."},
	{Spelling: "help", Kind: token.KwHelp, Contexts: []Context{ContextBody},
		Help: "Begins an indented help-text block that runs until the indentation drops below the block's first line."},
	{Spelling: "---help---", Kind: token.KwLegacyHelp, Contexts: []Context{ContextBody}, Legacy: true,
		Help: "Legacy spelling of help. Accepted, but flagged with a diagnostic suggesting the modern form."},
	{Spelling: "modules", Kind: token.KwModules, Contexts: []Context{ContextNoArg},
		Help: "Legacy marker with no arguments; rarely used outside the historical module-support entry."},
	{Spelling: "transitional", Kind: token.KwTransitional, Contexts: []Context{ContextNoArg},
		Help: "Marks a symbol as a transitional alias with no arguments."},
	{Spelling: "optional", Kind: token.KwOptional, Contexts: []Context{ContextNoArg},
		Help: "Marks a choice as optional: none of its entries need to be selected."},
	{Spelling: "on", Kind: token.KwOn,
		Help: "Marker word after depends; the dependency expression follows it."},
	{Spelling: "y", Kind: token.KwY,
		Help: "Pseudo-symbol for the value yes. Always defined."},
	{Spelling: "n", Kind: token.KwN,
		Help: "Pseudo-symbol for the value no. Always defined."},
	{Spelling: "m", Kind: token.KwM,
		Help: "Pseudo-symbol for the value module. Always defined."},
}

var (
	bySpelling = make(map[string]Entry, len(Catalog))
	byKeyword  = make(map[token.Keyword]Entry, len(Catalog))
)

func init() {
	for _, e := range Catalog {
		bySpelling[e.Spelling] = e
		byKeyword[e.Kind] = e
	}
}

// Lookup returns the catalog entry for an exact spelling, and whether it
// was found. "depends on" and "visible if" are two-word spellings; the lexer
// maps a single identifier through SingleWordKeywords, and LookupKeyword
// resolves the entry for the resulting Keyword.
func Lookup(spelling string) (Entry, bool) {
	e, ok := bySpelling[spelling]
	return e, ok
}

// LookupKeyword returns the catalog entry for a resolved Keyword value.
func LookupKeyword(k token.Keyword) (Entry, bool) {
	e, ok := byKeyword[k]
	return e, ok
}

// SingleWordKeywords returns the spelling->Keyword map the lexer consults
// for a bare identifier, excluding the two-word forms ("depends on",
// "visible if") which the parser recognizes as a sequence of two tokens
// (spec.md §4.2: "the literal token `on` is required and parsed as a
// marker, not a reference").
func SingleWordKeywords() map[string]token.Keyword {
	out := make(map[string]token.Keyword)
	for _, e := range Catalog {
		if e.Spelling == "depends on" || e.Spelling == "visible if" || e.Spelling == "---help---" {
			continue
		}
		out[e.Spelling] = e.Kind
	}
	out["depends"] = token.KwDependsOn
	out["on"] = token.KwOn
	return out
}

// EntriesForContext returns every catalog entry legal in the given context,
// used by the completion query (spec.md §4.4).
func EntriesForContext(c Context) []Entry {
	var out []Entry
	for _, e := range Catalog {
		if e.In(c) {
			out = append(out, e)
		}
	}
	return out
}
