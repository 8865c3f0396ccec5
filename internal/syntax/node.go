// Copyright (c) 2024 Michael D Henderson. All rights reserved.

// Package syntax implements the Kconfig parser: it consumes a token stream
// from internal/lexer and produces a concrete syntax tree of typed nodes,
// each carrying a precise source span, recovering from most grammar
// violations so that a full File is always returned (spec.md §4.2).
//
// Following the "single homogeneous node type with a kind tag and a flat
// child vector" design note (spec.md §9), Node is one struct for every node
// kind; only the fields relevant to a given Kind are meaningful.
package syntax

import "github.com/mdhender/kconfig-lsp/internal/token"

// Kind tags a Node. The full set mirrors spec.md §3's File/Entries/
// Attributes/Expressions/Leaves partition.
type Kind int

const (
	KindFile Kind = iota

	// Entries
	KindConfigEntry
	KindMenuconfigEntry
	KindChoiceEntry
	KindEndchoiceEntry
	KindMenuEntry
	KindEndmenuEntry
	KindIfEntry
	KindEndifEntry
	KindCommentEntry
	KindSourceEntry
	KindMainmenuEntry
	KindBadEntry

	// Attributes
	KindTypeAttr
	KindPromptAttr
	KindDefaultAttr
	KindDefBoolAttr
	KindDefTristateAttr
	KindDependsOnAttr
	KindSelectAttr
	KindImplyAttr
	KindVisibleIfAttr
	KindRangeAttr
	KindHelpAttr
	KindModulesAttr
	KindTransitionalAttr
	KindOptionalAttr
	KindBadAttr

	// Expressions
	KindOrExpr
	KindAndExpr
	KindNotExpr
	KindCompareExpr
	KindParenExpr
	KindSymbolRefExpr
	KindLiteralExpr
	KindMacroCallExpr
	KindErrorExpr

	// Leaves
	KindName
	KindStringValue
	KindNumberValue
	KindHelpBlock
)

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "Kind(?)"
}

var kindNames = map[Kind]string{
	KindFile:            "File",
	KindConfigEntry:      "Config",
	KindMenuconfigEntry:  "Menuconfig",
	KindChoiceEntry:      "Choice",
	KindEndchoiceEntry:   "Endchoice",
	KindMenuEntry:        "Menu",
	KindEndmenuEntry:     "Endmenu",
	KindIfEntry:          "If",
	KindEndifEntry:       "Endif",
	KindCommentEntry:     "Comment",
	KindSourceEntry:      "Source",
	KindMainmenuEntry:    "Mainmenu",
	KindBadEntry:         "BadEntry",
	KindTypeAttr:         "Type",
	KindPromptAttr:       "Prompt",
	KindDefaultAttr:      "Default",
	KindDefBoolAttr:      "DefBool",
	KindDefTristateAttr:  "DefTristate",
	KindDependsOnAttr:    "DependsOn",
	KindSelectAttr:       "Select",
	KindImplyAttr:        "Imply",
	KindVisibleIfAttr:    "VisibleIf",
	KindRangeAttr:        "Range",
	KindHelpAttr:         "Help",
	KindModulesAttr:      "Modules",
	KindTransitionalAttr: "Transitional",
	KindOptionalAttr:     "Optional",
	KindBadAttr:          "BadAttr",
	KindOrExpr:           "Or",
	KindAndExpr:          "And",
	KindNotExpr:          "Not",
	KindCompareExpr:      "Compare",
	KindParenExpr:        "Paren",
	KindSymbolRefExpr:    "SymbolRef",
	KindLiteralExpr:      "Literal",
	KindMacroCallExpr:    "MacroCall",
	KindErrorExpr:        "Error",
	KindName:             "Name",
	KindStringValue:      "StringValue",
	KindNumberValue:      "NumberValue",
	KindHelpBlock:        "HelpBlock",
}

// Node is the one syntax-tree node type used for every Kind.
type Node struct {
	Kind     Kind
	Children []*Node
	Err      bool // set when this node was synthesized or is otherwise malformed

	span token.Span

	// Leaf/payload fields. Meaningful subset depends on Kind; see the
	// comment on each parse function in parser.go for which fields it
	// populates.
	Tok      *token.Token // backing token for Name/StringValue/NumberValue leaves
	Name     string       // KindName: resolved identifier text
	IsDef    bool         // KindName: true when this occurrence is a definition, not a reference
	TypeName string       // KindTypeAttr: "bool" | "tristate" | "string" | "hex" | "int"
	Op       token.Op     // KindCompareExpr: the comparison operator
	Text     string       // KindStringValue/KindNumberValue/KindHelpBlock: extracted text
	Legacy   bool         // KindHelpAttr: true if opened via the ---help--- spelling
	Malformed bool        // KindHelpAttr: true if the first line was blank but later lines existed
	MacroName string      // KindMacroCallExpr: the macro's name, if present
}

// Span returns the node's source span: the union of its children's spans
// (spec.md §3 invariants).
func (n *Node) Span() token.Span { return n.span }

// File is the parse tree's root. Entries is a flat, textual-order sequence;
// block nesting (menu/choice/if) is recorded by the semantic index's scope
// table, not by CST shape, consistent with the "prefer a flat child vector"
// design note.
type File struct {
	Entries []*Node
	span    token.Span
}

func (f *File) Span() token.Span { return f.span }
