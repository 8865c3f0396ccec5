// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package syntax

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"github.com/mdhender/kconfig-lsp/internal/lexer"
	"github.com/mdhender/kconfig-lsp/internal/token"
)

// scanHelpBlock extracts a help attribute's body directly from source bytes,
// starting just after the help/---help--- keyword's span. The token stream
// is not used here: help text is free-form prose, not Kconfig syntax
// (spec.md §4.2):
//
//  1. Skip the rest of the keyword's own line, then consume blank lines
//     until the first non-empty line; record its leading-whitespace width W.
//  2. Collect that line and every following line whose width is >= W, or
//     that is blank.
//  3. Stop at the first non-blank line with width < W, or at EOF.
//  4. Each collected non-blank line has its first W columns of leading
//     whitespace stripped; blank lines become empty, and blank lines at the
//     end of the block are left out of the text.
//
// malformed reports the case where the line immediately after the keyword
// was blank but further content followed (spec.md §4.4 diagnostics).
func scanHelpBlock(src []byte, afterKeyword int) (text string, span token.Span, malformed bool) {
	idx := lexer.NewPositionIndex(src)
	pos := lineEnd(src, afterKeyword)
	if pos < len(src) && src[pos] == '\n' {
		pos++
	}
	blockStart := pos

	firstLineBlank := true
	firstIter := true
	firstStart, firstWidth := -1, 0

	scan := pos
	for scan <= len(src) {
		le := lineEnd(src, scan)
		width, blank := widthAndBlank(src[scan:le])
		if firstIter {
			firstLineBlank = blank
			firstIter = false
		}
		if !blank {
			firstStart, firstWidth = scan, width
			break
		}
		if le >= len(src) {
			break
		}
		scan = le + 1
	}

	if firstStart < 0 {
		return "", spanAt(idx, blockStart, blockStart), false
	}

	w := firstWidth
	malformed = firstLineBlank && firstStart > blockStart

	var lines []string
	cur := firstStart
	lastEnd := blockStart
	for cur <= len(src) {
		le := lineEnd(src, cur)
		width, blank := widthAndBlank(src[cur:le])
		if !blank && width < w {
			break
		}
		if blank {
			lines = append(lines, "")
		} else {
			lines = append(lines, string(stripColumns(src[cur:le], w)))
		}
		lastEnd = le
		if le >= len(src) {
			break
		}
		cur = le + 1
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n"), spanAt(idx, blockStart, lastEnd), malformed
}

func spanAt(idx *lexer.PositionIndex, start, end int) token.Span {
	line, col := idx.LineCol(start)
	return token.Span{Start: start, End: end, Line: line, Col: col}
}

func lineEnd(src []byte, pos int) int {
	i := bytes.IndexByte(src[pos:], '\n')
	if i < 0 {
		return len(src)
	}
	return pos + i
}

func widthAndBlank(line []byte) (width int, blank bool) {
	i := 0
	for i < len(line) {
		r, w := utf8.DecodeRune(line[i:])
		if r != ' ' && r != '\t' {
			break
		}
		width++
		i += w
	}
	return width, i >= len(line)
}

func stripColumns(line []byte, w int) []byte {
	i, col := 0, 0
	for i < len(line) && col < w {
		r, width := utf8.DecodeRune(line[i:])
		if r != ' ' && r != '\t' {
			break
		}
		i += width
		col++
	}
	return line[i:]
}
