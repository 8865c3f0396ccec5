// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package syntax_test

import (
	"strings"
	"testing"

	"github.com/mdhender/kconfig-lsp/internal/syntax"
)

func findChild(n *syntax.Node, k syntax.Kind) *syntax.Node {
	for _, c := range n.Children {
		if c.Kind == k {
			return c
		}
	}
	return nil
}

func TestParseFile_MinimalConfig(t *testing.T) {
	src := "config FOO\n    bool \"foo\"\n    default y\n"
	f, diags := syntax.ParseFile([]byte(src))
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %+v", diags)
	}
	if len(f.Entries) != 1 {
		t.Fatalf("want 1 entry, got %d", len(f.Entries))
	}
	cfg := f.Entries[0]
	if cfg.Kind != syntax.KindConfigEntry {
		t.Fatalf("want Config, got %s", cfg.Kind)
	}
	name := findChild(cfg, syntax.KindName)
	if name == nil || name.Name != "FOO" || !name.IsDef {
		t.Fatalf("want definition name FOO, got %+v", name)
	}
	typ := findChild(cfg, syntax.KindTypeAttr)
	if typ == nil || typ.TypeName != "bool" {
		t.Fatalf("want bool type attribute, got %+v", typ)
	}
	def := findChild(cfg, syntax.KindDefaultAttr)
	if def == nil {
		t.Fatalf("want a default attribute")
	}
	lit := findChild(def, syntax.KindSymbolRefExpr)
	if lit == nil {
		t.Fatalf("want default value parsed as a symbol reference to y")
	}
	ref := findChild(lit, syntax.KindName)
	if ref == nil || ref.Name != "y" {
		t.Fatalf("want default referencing y, got %+v", ref)
	}
}

func TestParseFile_HelpBlockIndentation(t *testing.T) {
	src := "config BAR\n    bool\n    help\n      line one\n        line two\n      line three\n"
	f, diags := syntax.ParseFile([]byte(src))
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %+v", diags)
	}
	help := findChild(f.Entries[0], syntax.KindHelpAttr)
	if help == nil {
		t.Fatalf("want a help attribute")
	}
	body := findChild(help, syntax.KindHelpBlock)
	if body == nil {
		t.Fatalf("want a help block leaf")
	}
	want := "line one\n  line two\nline three"
	if body.Text != want {
		t.Fatalf("help text = %q, want %q", body.Text, want)
	}
}

func TestParseFile_ExpressionPrecedence(t *testing.T) {
	// depends on A || B && !C  =>  Or(SymbolRef A, And(SymbolRef B, Not(SymbolRef C)))
	src := "config X\n    bool\n    depends on A || B && !C\n"
	f, _ := syntax.ParseFile([]byte(src))
	dep := findChild(f.Entries[0], syntax.KindDependsOnAttr)
	if dep == nil || len(dep.Children) != 1 {
		t.Fatalf("want one depends-on expression child")
	}
	or := dep.Children[0]
	if or.Kind != syntax.KindOrExpr || len(or.Children) != 2 {
		t.Fatalf("want Or at the top, got %s", or.Kind)
	}
	left := or.Children[0]
	if left.Kind != syntax.KindSymbolRefExpr || findChild(left, syntax.KindName).Name != "A" {
		t.Fatalf("want left operand SymbolRef(A), got %+v", left)
	}
	and := or.Children[1]
	if and.Kind != syntax.KindAndExpr || len(and.Children) != 2 {
		t.Fatalf("want And as the right operand, got %s", and.Kind)
	}
	if b := and.Children[0]; b.Kind != syntax.KindSymbolRefExpr || findChild(b, syntax.KindName).Name != "B" {
		t.Fatalf("want And's left operand SymbolRef(B), got %+v", b)
	}
	not := and.Children[1]
	if not.Kind != syntax.KindNotExpr || len(not.Children) != 1 {
		t.Fatalf("want Not as And's right operand, got %s", not.Kind)
	}
	if c := not.Children[0]; c.Kind != syntax.KindSymbolRefExpr || findChild(c, syntax.KindName).Name != "C" {
		t.Fatalf("want Not's operand SymbolRef(C), got %+v", c)
	}
}

func TestParseFile_UnterminatedStringRecovers(t *testing.T) {
	src := "config X\n    string \"oops\nconfig Y\n    bool\n"
	f, diags := syntax.ParseFile([]byte(src))
	if len(f.Entries) != 2 {
		t.Fatalf("want both X and Y to parse as entries, got %d", len(f.Entries))
	}
	if findChild(f.Entries[0], syntax.KindName).Name != "X" {
		t.Fatalf("want first entry named X")
	}
	if findChild(f.Entries[1], syntax.KindName).Name != "Y" {
		t.Fatalf("want second entry named Y")
	}
	var gotUnterminated bool
	for _, d := range diags {
		if strings.Contains(d.Message, "unterminated string") {
			gotUnterminated = true
		}
	}
	if !gotUnterminated {
		t.Fatalf("want a diagnostic for the unterminated string, got %+v", diags)
	}
}

func TestParseFile_ComparisonsDoNotChain(t *testing.T) {
	src := "config X\n    bool\n    depends on a != b <= c\n"
	f, diags := syntax.ParseFile([]byte(src))
	dep := findChild(f.Entries[0], syntax.KindDependsOnAttr)
	cmp := dep.Children[0]
	if cmp.Kind != syntax.KindCompareExpr || !cmp.Err {
		t.Fatalf("want an Err compare node for chained comparisons, got %+v", cmp)
	}
	if len(diags) == 0 {
		t.Fatalf("want a diagnostic for the chained comparison")
	}
}

func TestParseFile_BlockNestingAndTermination(t *testing.T) {
	src := "menu \"M\"\nconfig A\n    bool\nendmenu\n"
	f, diags := syntax.ParseFile([]byte(src))
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %+v", diags)
	}
	if len(f.Entries) != 3 {
		t.Fatalf("want menu, config, endmenu as flat entries, got %d", len(f.Entries))
	}
	if f.Entries[0].Kind != syntax.KindMenuEntry || f.Entries[1].Kind != syntax.KindConfigEntry || f.Entries[2].Kind != syntax.KindEndmenuEntry {
		t.Fatalf("unexpected entry kinds: %s %s %s", f.Entries[0].Kind, f.Entries[1].Kind, f.Entries[2].Kind)
	}
}

func TestParseFile_UnmatchedTerminatorIsDiagnosed(t *testing.T) {
	src := "endif\n"
	_, diags := syntax.ParseFile([]byte(src))
	if len(diags) == 0 {
		t.Fatalf("want a diagnostic for an unmatched endif")
	}
}

func TestParseFile_MissingTerminatorIsDiagnosed(t *testing.T) {
	src := "if A\nconfig X\n    bool\n"
	_, diags := syntax.ParseFile([]byte(src))
	if len(diags) == 0 {
		t.Fatalf("want a diagnostic for a missing endif")
	}
}

func TestParseFile_LegacyHelpSpellingWarns(t *testing.T) {
	src := "config X\n    bool\n    ---help---\n      text\n"
	_, diags := syntax.ParseFile([]byte(src))
	var sawLegacy bool
	for _, d := range diags {
		if d.Severity == syntax.SeverityWarning {
			sawLegacy = true
		}
	}
	if !sawLegacy {
		t.Fatalf("want a warning diagnostic for the legacy ---help--- spelling")
	}
}

func TestParseFile_MacroCallRoundTrips(t *testing.T) {
	src := "config X\n    bool\n    default $(call,$(inner))\n"
	f, diags := syntax.ParseFile([]byte(src))
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %+v", diags)
	}
	def := findChild(f.Entries[0], syntax.KindDefaultAttr)
	macro := findChild(def, syntax.KindMacroCallExpr)
	if macro == nil || macro.MacroName != "call" {
		t.Fatalf("want a macro call named 'call', got %+v", macro)
	}
	inner := findChild(macro, syntax.KindMacroCallExpr)
	if inner == nil || inner.MacroName != "inner" {
		t.Fatalf("want a nested macro call named 'inner', got %+v", inner)
	}
}

func TestParseFile_ChoiceWithoutNameIsAllowed(t *testing.T) {
	src := "choice\n    prompt \"pick one\"\nendchoice\n"
	f, diags := syntax.ParseFile([]byte(src))
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %+v", diags)
	}
	if f.Entries[0].Kind != syntax.KindChoiceEntry {
		t.Fatalf("want a Choice entry")
	}
	if findChild(f.Entries[0], syntax.KindName) != nil {
		t.Fatalf("anonymous choice should have no Name child")
	}
}
