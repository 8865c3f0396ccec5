// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package syntax

import (
	"fmt"

	"github.com/mdhender/kconfig-lsp/internal/lexer"
	"github.com/mdhender/kconfig-lsp/internal/token"
)

// Severity classifies a Diagnostic.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

// Diagnostic is one parse-time finding, positioned by source span.
type Diagnostic struct {
	Severity Severity
	Span     token.Span
	Message  string
}

// Parser turns a flat token sequence into a File. It never fails outright:
// every malformed construct becomes an Err node plus a Diagnostic, and
// parsing resumes at the next recognizable entry or block terminator
// (spec.md §4.2).
type Parser struct {
	src  []byte
	toks []token.Token // includes trivia and the trailing Eof
	pos  int           // always indexes a significant token (or Eof)

	diags []Diagnostic
	open  []frame
}

type frame struct {
	kind Kind
	open token.Span
}

// ParseFile lexes and parses src in one call.
func ParseFile(src []byte) (*File, []Diagnostic) {
	p := &Parser{src: src, toks: lexer.Tokenize(src)}
	p.reportLexErrors()
	p.align()

	f := &File{}
	for !p.atEOF() {
		if e := p.parseEntry(); e != nil {
			f.Entries = append(f.Entries, e)
		}
	}
	for _, fr := range p.open {
		p.errorAt(fr.open, fmt.Sprintf("missing end%s for this block", entryNameFor(fr.kind)))
	}
	f.span = cover(f.Entries)
	return f, p.diags
}

// reportLexErrors turns every Error-kind token and every unterminated
// string literal the lexer produced into a Diagnostic (spec.md §7:
// "Lexical errors… Emitted as Error tokens; surfaced as diagnostics").
func (p *Parser) reportLexErrors() {
	for _, t := range p.toks {
		switch {
		case t.Kind == token.Error:
			p.errorAt(t.Span, lexErrorMessage(t.ErrKind))
		case t.Kind == token.StringLit && t.Err:
			p.errorAt(t.Span, "unterminated string literal")
		}
	}
}

func lexErrorMessage(reason token.ErrorReason) string {
	switch reason {
	case token.ErrStrayBackslash:
		return "stray backslash"
	case token.ErrUnterminatedString:
		return "unterminated string literal"
	case token.ErrInvalidNumber:
		return "invalid number"
	default:
		return "lexical error"
	}
}

func entryNameFor(k Kind) string {
	switch k {
	case KindChoiceEntry:
		return "choice"
	case KindMenuEntry:
		return "menu"
	case KindIfEntry:
		return "if"
	}
	return ""
}

// --- cursor -----------------------------------------------------------

func (p *Parser) cur() token.Token { return p.toks[p.pos] }

func (p *Parser) align() {
	for {
		k := p.toks[p.pos].Kind
		if k != token.Whitespace && k != token.Comment && k != token.Newline && k != token.LineContinuation {
			return
		}
		if p.pos >= len(p.toks)-1 {
			return
		}
		p.pos++
	}
}

func (p *Parser) bump() token.Token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	p.align()
	return t
}

func (p *Parser) at(k token.Kind) bool { return p.cur().Kind == k }

func (p *Parser) atKeyword(kw token.Keyword) bool {
	t := p.cur()
	return t.Kind == token.Keyword && t.KwKind == kw
}

func (p *Parser) atOp(op token.Op) bool {
	t := p.cur()
	return t.Kind == token.Punct && t.Op == op
}

func (p *Parser) atEOF() bool { return p.cur().Kind == token.Eof }

var entryKeywords = map[token.Keyword]bool{
	token.KwConfig: true, token.KwMenuconfig: true, token.KwChoice: true,
	token.KwEndchoice: true, token.KwMenu: true, token.KwEndmenu: true,
	token.KwIf: true, token.KwEndif: true, token.KwComment: true,
	token.KwSource: true, token.KwMainmenu: true,
}

func (p *Parser) atEntryKeyword() bool {
	t := p.cur()
	return t.Kind == token.Keyword && entryKeywords[t.KwKind]
}

var attributeKeywords = map[token.Keyword]bool{
	token.KwBool: true, token.KwTristate: true, token.KwString: true,
	token.KwHex: true, token.KwInt: true, token.KwPrompt: true,
	token.KwDefault: true, token.KwDefBool: true, token.KwDefTristate: true,
	token.KwDependsOn: true, token.KwSelect: true, token.KwImply: true,
	token.KwVisible: true, token.KwRange: true, token.KwHelp: true,
	token.KwLegacyHelp: true, token.KwModules: true,
	token.KwTransitional: true, token.KwOptional: true,
}

func (p *Parser) atAttributeKeyword() bool {
	t := p.cur()
	return t.Kind == token.Keyword && attributeKeywords[t.KwKind]
}

func (p *Parser) errorAt(span token.Span, msg string) {
	p.diags = append(p.diags, Diagnostic{Severity: SeverityError, Span: span, Message: msg})
}

func (p *Parser) warnAt(span token.Span, msg string) {
	p.diags = append(p.diags, Diagnostic{Severity: SeverityWarning, Span: span, Message: msg})
}

// cover computes the smallest span covering every token.Span/*Node/[]*Node
// argument, skipping nils. Mirrors the "node span is the union of its
// children" invariant (spec.md §3) without forcing every call site to
// hand-build a []*Node.
func cover(parts ...any) token.Span {
	var spans []token.Span
	for _, part := range parts {
		switch v := part.(type) {
		case token.Span:
			spans = append(spans, v)
		case *Node:
			if v != nil {
				spans = append(spans, v.span)
			}
		case []*Node:
			for _, n := range v {
				if n != nil {
					spans = append(spans, n.span)
				}
			}
		}
	}
	if len(spans) == 0 {
		return token.Span{}
	}
	out := spans[0]
	for _, s := range spans[1:] {
		out = out.Cover(s)
	}
	return out
}

func nonNil(nodes ...*Node) []*Node {
	var out []*Node
	for _, n := range nodes {
		if n != nil {
			out = append(out, n)
		}
	}
	return out
}

// --- entries ------------------------------------------------------------

func (p *Parser) parseEntry() *Node {
	t := p.cur()
	if t.Kind == token.Eof {
		return nil
	}
	if t.Kind != token.Keyword {
		return p.parseBadEntry()
	}
	switch t.KwKind {
	case token.KwConfig, token.KwMenuconfig:
		return p.parseConfigLike(t.KwKind)
	case token.KwChoice:
		return p.parseChoiceOpen()
	case token.KwEndchoice:
		return p.parseTerminator(KindEndchoiceEntry, KindChoiceEntry)
	case token.KwMenu:
		return p.parseMenuOpen()
	case token.KwEndmenu:
		return p.parseTerminator(KindEndmenuEntry, KindMenuEntry)
	case token.KwIf:
		return p.parseIfOpen()
	case token.KwEndif:
		return p.parseTerminator(KindEndifEntry, KindIfEntry)
	case token.KwComment:
		return p.parseCommentEntry()
	case token.KwSource:
		return p.parseSourceEntry()
	case token.KwMainmenu:
		return p.parseMainmenuEntry()
	default:
		return p.parseBadEntry()
	}
}

// parseBadEntry synchronizes on the next entry keyword or EOF (spec.md
// §4.2: "Synchronization points are: start of a new entry keyword, ... or
// EOF"), always consuming at least one token so recovery makes progress.
func (p *Parser) parseBadEntry() *Node {
	var toks []token.Token
	for !p.atEOF() && !p.atEntryKeyword() {
		toks = append(toks, p.bump())
	}
	if len(toks) == 0 {
		toks = append(toks, p.bump())
	}
	span := toks[0].Span
	for _, t := range toks[1:] {
		span = span.Cover(t.Span)
	}
	p.errorAt(span, "unrecognized top-level construct; skipping to the next entry")
	return &Node{Kind: KindBadEntry, span: span, Err: true}
}

func (p *Parser) parseConfigLike(kw token.Keyword) *Node {
	kwTok := p.bump()
	kind := KindConfigEntry
	if kw == token.KwMenuconfig {
		kind = KindMenuconfigEntry
	}
	name := p.parseNameDef()
	attrs := p.parseAttributeList()
	n := &Node{Kind: kind, Children: append(nonNil(name), attrs...)}
	n.span = cover(kwTok.Span, name, attrs)
	return n
}

func (p *Parser) parseNameDef() *Node {
	if !p.at(token.Ident) {
		p.errorAt(p.cur().Span, "expected a symbol name")
		return nil
	}
	idTok := p.bump()
	return &Node{Kind: KindName, span: idTok.Span, Tok: &idTok, Name: idTok.Text(p.src), IsDef: true}
}

func (p *Parser) parseChoiceOpen() *Node {
	kwTok := p.bump()
	var name *Node
	if p.at(token.Ident) {
		name = p.parseNameDef()
	}
	p.open = append(p.open, frame{kind: KindChoiceEntry, open: kwTok.Span})
	attrs := p.parseAttributeList()
	n := &Node{Kind: KindChoiceEntry, Children: append(nonNil(name), attrs...)}
	n.span = cover(kwTok.Span, name, attrs)
	return n
}

func (p *Parser) parseMenuOpen() *Node {
	kwTok := p.bump()
	var prompt *Node
	if p.at(token.StringLit) {
		prompt = p.parseStringValue()
	} else {
		p.errorAt(p.cur().Span, "expected a menu title string")
	}
	p.open = append(p.open, frame{kind: KindMenuEntry, open: kwTok.Span})
	attrs := p.parseAttributeList()
	n := &Node{Kind: KindMenuEntry, Children: append(nonNil(prompt), attrs...)}
	n.span = cover(kwTok.Span, prompt, attrs)
	return n
}

func (p *Parser) parseIfOpen() *Node {
	kwTok := p.bump()
	cond := p.parseExpression()
	p.open = append(p.open, frame{kind: KindIfEntry, open: kwTok.Span})
	attrs := p.parseAttributeList()
	n := &Node{Kind: KindIfEntry, Children: append(nonNil(cond), attrs...)}
	n.span = cover(kwTok.Span, cond, attrs)
	return n
}

func (p *Parser) parseTerminator(termKind, openKind Kind) *Node {
	kwTok := p.bump()
	n := &Node{Kind: termKind, span: kwTok.Span}
	if last := len(p.open) - 1; last >= 0 && p.open[last].kind == openKind {
		p.open = p.open[:last]
	} else {
		n.Err = true
		p.errorAt(kwTok.Span, fmt.Sprintf("unmatched %s", entryNameFor(openKind)))
	}
	return n
}

func (p *Parser) parseCommentEntry() *Node {
	kwTok := p.bump()
	var prompt *Node
	if p.at(token.StringLit) {
		prompt = p.parseStringValue()
	} else {
		p.errorAt(p.cur().Span, "expected a comment text string")
	}
	attrs := p.parseAttributeList()
	n := &Node{Kind: KindCommentEntry, Children: append(nonNil(prompt), attrs...)}
	n.span = cover(kwTok.Span, prompt, attrs)
	return n
}

func (p *Parser) parseSourceEntry() *Node {
	kwTok := p.bump()
	var path *Node
	if p.at(token.StringLit) {
		path = p.parseStringValue()
	} else {
		p.errorAt(p.cur().Span, "expected a source path string")
	}
	n := &Node{Kind: KindSourceEntry, Children: nonNil(path)}
	n.span = cover(kwTok.Span, path)
	return n
}

func (p *Parser) parseMainmenuEntry() *Node {
	kwTok := p.bump()
	var title *Node
	if p.at(token.StringLit) {
		title = p.parseStringValue()
	} else {
		p.errorAt(p.cur().Span, "expected a mainmenu title string")
	}
	n := &Node{Kind: KindMainmenuEntry, Children: nonNil(title)}
	n.span = cover(kwTok.Span, title)
	return n
}

// --- attributes -----------------------------------------------------------

func (p *Parser) parseAttributeList() []*Node {
	var attrs []*Node
	for p.atAttributeKeyword() {
		attrs = append(attrs, p.parseAttribute())
	}
	return attrs
}

func (p *Parser) parseAttribute() *Node {
	switch p.cur().KwKind {
	case token.KwBool, token.KwTristate, token.KwString, token.KwHex, token.KwInt:
		return p.parseTypeAttr()
	case token.KwPrompt:
		return p.parsePromptAttr()
	case token.KwDefault:
		return p.parseDefaultLikeAttr(KindDefaultAttr)
	case token.KwDefBool:
		return p.parseDefaultLikeAttr(KindDefBoolAttr)
	case token.KwDefTristate:
		return p.parseDefaultLikeAttr(KindDefTristateAttr)
	case token.KwDependsOn:
		return p.parseDependsOnAttr()
	case token.KwSelect:
		return p.parseSelectLikeAttr(KindSelectAttr)
	case token.KwImply:
		return p.parseSelectLikeAttr(KindImplyAttr)
	case token.KwVisible:
		return p.parseVisibleIfAttr()
	case token.KwRange:
		return p.parseRangeAttr()
	case token.KwHelp, token.KwLegacyHelp:
		return p.parseHelpAttr()
	case token.KwModules:
		return p.parseNoArgAttr(KindModulesAttr)
	case token.KwTransitional:
		return p.parseNoArgAttr(KindTransitionalAttr)
	case token.KwOptional:
		return p.parseNoArgAttr(KindOptionalAttr)
	}
	bad := p.bump()
	p.errorAt(bad.Span, "unknown attribute keyword")
	return &Node{Kind: KindBadAttr, span: bad.Span, Err: true}
}

func (p *Parser) parseTypeAttr() *Node {
	kwTok := p.bump()
	var prompt, cond *Node
	if p.at(token.StringLit) {
		prompt = p.parseStringValue()
	}
	if p.atKeyword(token.KwIf) {
		p.bump()
		cond = p.parseExpression()
	}
	n := &Node{Kind: KindTypeAttr, TypeName: kwTok.KwKind.String(), Children: append(nonNil(prompt), nonNil(cond)...)}
	n.span = cover(kwTok.Span, prompt, cond)
	return n
}

func (p *Parser) parsePromptAttr() *Node {
	kwTok := p.bump()
	var prompt, cond *Node
	if p.at(token.StringLit) {
		prompt = p.parseStringValue()
	} else {
		p.errorAt(p.cur().Span, "expected a prompt string")
	}
	if p.atKeyword(token.KwIf) {
		p.bump()
		cond = p.parseExpression()
	}
	n := &Node{Kind: KindPromptAttr, Children: append(nonNil(prompt), nonNil(cond)...)}
	n.span = cover(kwTok.Span, prompt, cond)
	return n
}

func (p *Parser) parseDefaultLikeAttr(kind Kind) *Node {
	kwTok := p.bump()
	expr := p.parseExpression()
	var cond *Node
	if p.atKeyword(token.KwIf) {
		p.bump()
		cond = p.parseExpression()
	}
	n := &Node{Kind: kind, Children: append(nonNil(expr), nonNil(cond)...)}
	n.span = cover(kwTok.Span, expr, cond)
	return n
}

func (p *Parser) parseDependsOnAttr() *Node {
	dependsTok := p.bump() // "depends"
	if p.atKeyword(token.KwOn) {
		p.bump()
	} else {
		p.errorAt(p.cur().Span, "expected 'on' after depends")
	}
	expr := p.parseExpression()
	n := &Node{Kind: KindDependsOnAttr, Children: nonNil(expr)}
	n.span = cover(dependsTok.Span, expr)
	return n
}

func (p *Parser) parseSelectLikeAttr(kind Kind) *Node {
	kwTok := p.bump()
	var name, cond *Node
	if p.at(token.Ident) {
		name = p.parseSymbolRef()
	} else {
		p.errorAt(p.cur().Span, "expected a symbol name")
	}
	if p.atKeyword(token.KwIf) {
		p.bump()
		cond = p.parseExpression()
	}
	n := &Node{Kind: kind, Children: append(nonNil(name), nonNil(cond)...)}
	n.span = cover(kwTok.Span, name, cond)
	return n
}

func (p *Parser) parseVisibleIfAttr() *Node {
	visTok := p.bump() // "visible"
	if p.atKeyword(token.KwIf) {
		p.bump()
	} else {
		p.errorAt(p.cur().Span, "expected 'if' after visible")
	}
	expr := p.parseExpression()
	n := &Node{Kind: KindVisibleIfAttr, Children: nonNil(expr)}
	n.span = cover(visTok.Span, expr)
	return n
}

func (p *Parser) parseRangeAttr() *Node {
	kwTok := p.bump()
	lo := p.parseRangeValue()
	var hi, cond *Node
	if lo != nil {
		hi = p.parseRangeValue()
	}
	if p.atKeyword(token.KwIf) {
		p.bump()
		cond = p.parseExpression()
	}
	n := &Node{Kind: KindRangeAttr, Children: append(append(nonNil(lo), nonNil(hi)...), nonNil(cond)...)}
	n.span = cover(kwTok.Span, lo, hi, cond)
	return n
}

func (p *Parser) parseRangeValue() *Node {
	if p.at(token.Number) {
		return p.parseNumberValue()
	}
	if p.at(token.Ident) {
		return p.parseSymbolRef()
	}
	p.errorAt(p.cur().Span, "expected a number or symbol in range")
	return nil
}

func (p *Parser) parseHelpAttr() *Node {
	kwTok := p.bump()
	legacy := kwTok.KwKind == token.KwLegacyHelp
	text, blockSpan, malformed := scanHelpBlock(p.src, kwTok.Span.End)
	body := &Node{Kind: KindHelpBlock, span: blockSpan, Text: text}
	n := &Node{
		Kind:      KindHelpAttr,
		Legacy:    legacy,
		Malformed: malformed,
		Children:  []*Node{body},
		span:      cover(kwTok.Span, body),
	}
	if legacy {
		p.warnAt(kwTok.Span, "legacy '---help---' spelling; prefer 'help'")
	}
	if malformed {
		p.warnAt(blockSpan, "malformed help indentation: first line blank but later lines present")
	}
	p.seekPastOffset(blockSpan.End)
	return n
}

// seekPastOffset resynchronizes the token cursor after raw-byte scanning
// (the help block) moved the logical read position without advancing p.pos.
func (p *Parser) seekPastOffset(offset int) {
	for p.pos < len(p.toks)-1 && p.toks[p.pos].Span.Start < offset {
		p.pos++
	}
	p.align()
}

func (p *Parser) parseNoArgAttr(kind Kind) *Node {
	kwTok := p.bump()
	return &Node{Kind: kind, span: kwTok.Span}
}

// --- expressions ------------------------------------------------------

func (p *Parser) parseExpression() *Node {
	left := p.parseAnd()
	for p.atOp(token.OpOr) {
		opTok := p.bump()
		right := p.parseAnd()
		left = &Node{Kind: KindOrExpr, Children: nonNil(left, right), span: cover(left, opTok.Span, right)}
	}
	return left
}

func (p *Parser) parseAnd() *Node {
	left := p.parseCompare()
	for p.atOp(token.OpAnd) {
		opTok := p.bump()
		right := p.parseCompare()
		left = &Node{Kind: KindAndExpr, Children: nonNil(left, right), span: cover(left, opTok.Span, right)}
	}
	return left
}

func (p *Parser) compareOp() (token.Op, bool) {
	t := p.cur()
	if t.Kind != token.Punct {
		return token.OpNone, false
	}
	switch t.Op {
	case token.OpEq, token.OpNeq, token.OpLt, token.OpLe, token.OpGt, token.OpGe:
		return t.Op, true
	}
	return token.OpNone, false
}

// parseCompare implements non-chaining comparisons: a second comparison
// operator immediately following the first is a parse error, not a left- or
// right-associative chain (spec.md §3: "comparisons do not chain").
func (p *Parser) parseCompare() *Node {
	left := p.parseUnary()
	op, ok := p.compareOp()
	if !ok {
		return left
	}
	opTok := p.bump()
	right := p.parseUnary()
	n := &Node{Kind: KindCompareExpr, Op: op, Children: nonNil(left, right), span: cover(left, opTok.Span, right)}
	if _, chained := p.compareOp(); chained {
		badTok := p.bump()
		p.errorAt(badTok.Span, "comparison operators do not chain")
		extra := p.parseUnary()
		if extra != nil {
			n.span = cover(n, extra)
		}
		n.Err = true
	}
	return n
}

func (p *Parser) parseUnary() *Node {
	if p.atOp(token.OpNot) {
		opTok := p.bump()
		operand := p.parseUnary()
		return &Node{Kind: KindNotExpr, Children: nonNil(operand), span: cover(opTok.Span, operand)}
	}
	return p.parseAtom()
}

func isPseudoSymbol(k token.Keyword) bool {
	return k == token.KwY || k == token.KwN || k == token.KwM
}

func (p *Parser) parseAtom() *Node {
	t := p.cur()
	switch {
	case t.Kind == token.Ident, t.Kind == token.Keyword && isPseudoSymbol(t.KwKind):
		return p.parseSymbolRef()
	case t.Kind == token.StringLit:
		sv := p.parseStringValue()
		return &Node{Kind: KindLiteralExpr, Children: []*Node{sv}, span: sv.span}
	case t.Kind == token.Number:
		nv := p.parseNumberValue()
		return &Node{Kind: KindLiteralExpr, Children: []*Node{nv}, span: nv.span}
	case t.Kind == token.MacroOpen:
		return p.parseMacroCall()
	case t.Kind == token.Punct && t.Op == token.OpLParen:
		return p.parseParen()
	default:
		bad := p.bump()
		p.errorAt(bad.Span, "expected an expression")
		return &Node{Kind: KindErrorExpr, span: bad.Span, Err: true}
	}
}

func symbolText(t token.Token, src []byte) string {
	if t.Kind == token.Keyword {
		return t.KwKind.String()
	}
	return t.Text(src)
}

// parseSymbolRef wraps a bare identifier (or a y/n/m pseudo-symbol) as a
// SymbolRef expression node around a reference Name leaf. Used both as an
// expression atom and directly for select/imply targets and range bounds.
func (p *Parser) parseSymbolRef() *Node {
	t := p.cur()
	if t.Kind != token.Ident && !(t.Kind == token.Keyword && isPseudoSymbol(t.KwKind)) {
		return nil
	}
	idTok := p.bump()
	name := &Node{Kind: KindName, span: idTok.Span, Tok: &idTok, Name: symbolText(idTok, p.src)}
	return &Node{Kind: KindSymbolRefExpr, span: idTok.Span, Children: []*Node{name}}
}

func (p *Parser) parseStringValue() *Node {
	strTok := p.bump()
	return &Node{Kind: KindStringValue, span: strTok.Span, Tok: &strTok, Text: unescapeStringLiteral(strTok, p.src)}
}

func (p *Parser) parseNumberValue() *Node {
	numTok := p.bump()
	return &Node{Kind: KindNumberValue, span: numTok.Span, Tok: &numTok, Text: numTok.Text(p.src)}
}

// unescapeStringLiteral strips the surrounding quotes without interpreting
// backslash escapes: "Backslash escapes the next byte verbatim (no
// interpretation)" (spec.md §4.1) describes tokenization, not the stored
// value, so the backslash stays in the extracted text.
func unescapeStringLiteral(t token.Token, src []byte) string {
	full := t.Text(src)
	if len(full) == 0 {
		return ""
	}
	inner := full[1:]
	if !t.Err && len(inner) > 0 && rune(inner[len(inner)-1]) == t.Quote.Rune() {
		inner = inner[:len(inner)-1]
	}
	return inner
}

func (p *Parser) parseParen() *Node {
	openTok := p.bump()
	inner := p.parseExpression()
	n := &Node{Kind: KindParenExpr, Children: nonNil(inner)}
	if p.atOp(token.OpRParen) {
		closeTok := p.bump()
		n.span = cover(openTok.Span, inner, closeTok.Span)
	} else {
		p.errorAt(p.cur().Span, "expected ')'")
		n.span = cover(openTok.Span, inner)
		n.Err = true
	}
	return n
}

func (p *Parser) parseMacroCall() *Node {
	openTok := p.bump()
	n := &Node{Kind: KindMacroCallExpr}
	if p.at(token.Ident) {
		idTok := p.bump()
		name := &Node{Kind: KindName, span: idTok.Span, Tok: &idTok, Name: idTok.Text(p.src)}
		n.Children = append(n.Children, name)
		n.MacroName = name.Name
	}
	for p.atOp(token.OpComma) {
		p.bump()
		if arg := p.parseMacroArg(); arg != nil {
			n.Children = append(n.Children, arg)
		}
	}
	if p.at(token.MacroClose) {
		closeTok := p.bump()
		n.span = cover(openTok.Span, n.Children, closeTok.Span)
	} else {
		p.errorAt(p.cur().Span, "expected ')' to close macro invocation")
		n.span = cover(openTok.Span, n.Children)
		n.Err = true
	}
	return n
}

func (p *Parser) parseMacroArg() *Node {
	switch {
	case p.at(token.StringLit):
		return p.parseStringValue()
	case p.at(token.Number):
		return p.parseNumberValue()
	case p.at(token.Ident):
		idTok := p.bump()
		return &Node{Kind: KindName, span: idTok.Span, Tok: &idTok, Name: idTok.Text(p.src)}
	case p.at(token.MacroOpen):
		return p.parseMacroCall()
	default:
		bad := p.bump()
		p.errorAt(bad.Span, "expected a macro argument")
		return nil
	}
}
