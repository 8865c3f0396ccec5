// Copyright (c) 2024 Michael D Henderson. All rights reserved.

// Package token defines the lexical token types shared by the lexer, parser,
// and query layer: half-open source spans and the full Kconfig token kind
// set (spec.md §3, §4.1). Tokens form a flat, total sequence: Whitespace,
// Newline, and Comment are ordinary kinds in that sequence, not trivia
// attached to neighboring tokens, so that token spans tile [0, len) of the
// source buffer exactly (spec.md §3 invariants, §8 property 1).
package token

import "fmt"

// Span is a half-open byte range [Start, End) into a document's source
// buffer, plus the 1-based line/column of Start.
type Span struct {
	Start int // byte offset (inclusive)
	End   int // byte offset (exclusive)
	Line  int // 1-based
	Col   int // 1-based, in UTF-8 code points
}

// Text returns the span's slice of src.
func (s Span) Text(src []byte) string {
	return string(src[s.Start:s.End])
}

// Cover returns the smallest span containing both s and other.
func (s Span) Cover(other Span) Span {
	out := s
	if other.Start < out.Start {
		out.Start = other.Start
		out.Line, out.Col = other.Line, other.Col
	}
	if other.End > out.End {
		out.End = other.End
	}
	return out
}

// Kind enumerates every token kind the lexer can produce (spec.md §3).
type Kind int

const (
	Whitespace Kind = iota
	Newline
	Comment
	LineContinuation
	Ident
	Number
	StringLit
	MacroOpen
	MacroClose
	Punct
	Keyword
	Eof
	Error
)

func (k Kind) String() string {
	switch k {
	case Whitespace:
		return "Whitespace"
	case Newline:
		return "Newline"
	case Comment:
		return "Comment"
	case LineContinuation:
		return "LineContinuation"
	case Ident:
		return "Ident"
	case Number:
		return "Number"
	case StringLit:
		return "StringLit"
	case MacroOpen:
		return "MacroOpen"
	case MacroClose:
		return "MacroClose"
	case Punct:
		return "Punct"
	case Keyword:
		return "Keyword"
	case Eof:
		return "Eof"
	case Error:
		return "Error"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// IsTrivia reports whether k is Whitespace or Comment. Newline and
// LineContinuation are not included; the parser's cursor skips all four
// kinds, and help-block extraction reads line structure from the source
// bytes rather than from Newline tokens.
func (k Kind) IsTrivia() bool {
	return k == Whitespace || k == Comment
}

// Op enumerates the punctuation/operator spellings a Punct token can carry.
type Op int

const (
	OpNone Op = iota
	OpOr       // ||
	OpAnd      // &&
	OpNot      // !
	OpEq       // =
	OpNeq      // !=
	OpLt       // <
	OpLe       // <=
	OpGt       // >
	OpGe       // >=
	OpLParen   // (
	OpRParen   // )
	OpComma    // ,
	OpColon    // :
)

func (o Op) String() string {
	switch o {
	case OpOr:
		return "||"
	case OpAnd:
		return "&&"
	case OpNot:
		return "!"
	case OpEq:
		return "="
	case OpNeq:
		return "!="
	case OpLt:
		return "<"
	case OpLe:
		return "<="
	case OpGt:
		return ">"
	case OpGe:
		return ">="
	case OpLParen:
		return "("
	case OpRParen:
		return ")"
	case OpComma:
		return ","
	case OpColon:
		return ":"
	default:
		return "?"
	}
}

// Keyword enumerates recognized Kconfig keyword spellings. catalog.Catalog
// is the single source of truth for the spelling<->Keyword mapping; this
// type only names the set so the lexer and parser can switch on it without
// importing the catalog's data tables (avoiding an import cycle: catalog
// imports token for this very type).
type Keyword int

const (
	KwNone Keyword = iota
	KwConfig
	KwMenuconfig
	KwChoice
	KwEndchoice
	KwMenu
	KwEndmenu
	KwIf
	KwEndif
	KwComment
	KwSource
	KwMainmenu
	KwBool
	KwTristate
	KwString
	KwHex
	KwInt
	KwPrompt
	KwDefault
	KwDefBool
	KwDefTristate
	KwDependsOn
	KwOn
	KwSelect
	KwImply
	KwVisible
	KwVisibleIf
	KwRange
	KwHelp
	KwLegacyHelp // ---help---
	KwModules
	KwTransitional
	KwOptional
	KwY
	KwN
	KwM
)

func (k Keyword) String() string {
	if s, ok := keywordNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Keyword(%d)", int(k))
}

var keywordNames = map[Keyword]string{
	KwNone:         "",
	KwConfig:       "config",
	KwMenuconfig:   "menuconfig",
	KwChoice:       "choice",
	KwEndchoice:    "endchoice",
	KwMenu:         "menu",
	KwEndmenu:      "endmenu",
	KwIf:           "if",
	KwEndif:        "endif",
	KwComment:      "comment",
	KwSource:       "source",
	KwMainmenu:     "mainmenu",
	KwBool:         "bool",
	KwTristate:     "tristate",
	KwString:       "string",
	KwHex:          "hex",
	KwInt:          "int",
	KwPrompt:       "prompt",
	KwDefault:      "default",
	KwDefBool:      "def_bool",
	KwDefTristate:  "def_tristate",
	KwDependsOn:    "depends",
	KwOn:           "on",
	KwSelect:       "select",
	KwImply:        "imply",
	KwVisible:      "visible",
	KwVisibleIf:    "visible if",
	KwRange:        "range",
	KwHelp:         "help",
	KwLegacyHelp:   "---help---",
	KwModules:      "modules",
	KwTransitional: "transitional",
	KwOptional:     "optional",
	KwY:            "y",
	KwN:            "n",
	KwM:            "m",
}

// QuoteStyle records which quote character a string literal used.
type QuoteStyle int

const (
	QuoteNone QuoteStyle = iota
	DoubleQuote
	SingleQuote
)

func (q QuoteStyle) Rune() rune {
	if q == SingleQuote {
		return '\''
	}
	return '"'
}

// ErrorReason names why an Error token was emitted.
type ErrorReason int

const (
	ErrNone ErrorReason = iota
	ErrStrayBackslash
	ErrUnterminatedString
	ErrInvalidNumber
)

func (r ErrorReason) String() string {
	switch r {
	case ErrStrayBackslash:
		return "stray backslash"
	case ErrUnterminatedString:
		return "unterminated string"
	case ErrInvalidNumber:
		return "invalid number"
	default:
		return "none"
	}
}

// Token is an immutable lexical token: a kind tag plus a half-open span and
// kind-specific payload fields. Only the fields relevant to Kind are
// meaningful; the zero value of the others is ignored.
type Token struct {
	Kind Kind
	Span Span

	Op      Op          // valid when Kind == Punct
	KwKind  Keyword     // valid when Kind == Keyword
	Quote   QuoteStyle  // valid when Kind == StringLit
	ErrKind ErrorReason // valid when Kind == Error
	Err     bool        // set on StringLit for an unterminated literal (spec.md §4.1)
}

// Text returns the token's span text.
func (t Token) Text(src []byte) string {
	return t.Span.Text(src)
}
