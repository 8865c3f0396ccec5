// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package lexer

import (
	"sort"
	"unicode/utf8"
)

// PositionIndex maps between (line, column) and byte offset for one source
// buffer. Line starts are indexed lazily on first use (spec.md §4.1).
type PositionIndex struct {
	src        []byte
	lineStarts []int // byte offset of the first byte of each 1-based line
	built      bool
}

// NewPositionIndex returns an index over src. Building the line-start table
// is deferred until the first Offset/LineCol call.
func NewPositionIndex(src []byte) *PositionIndex {
	return &PositionIndex{src: src}
}

func (p *PositionIndex) ensureBuilt() {
	if p.built {
		return
	}
	p.lineStarts = []int{0}
	for i, b := range p.src {
		if b == '\n' {
			p.lineStarts = append(p.lineStarts, i+1)
		}
	}
	p.built = true
}

// Offset converts a 1-based (line, col) to a byte offset. col is in UTF-8
// code points from the start of the line. Out-of-range lines clamp to the
// nearest valid line; out-of-range columns clamp to the line's length.
func (p *PositionIndex) Offset(line, col int) int {
	p.ensureBuilt()
	if line < 1 {
		line = 1
	}
	if line > len(p.lineStarts) {
		return len(p.src)
	}
	lineStart := p.lineStarts[line-1]
	lineEnd := len(p.src)
	if line < len(p.lineStarts) {
		lineEnd = p.lineStarts[line] - 1 // exclude the newline itself
		if lineEnd < lineStart {
			lineEnd = lineStart
		}
	}
	offset := lineStart
	remaining := col - 1
	for remaining > 0 && offset < lineEnd {
		_, w := utf8.DecodeRune(p.src[offset:])
		offset += w
		remaining--
	}
	if offset > lineEnd {
		offset = lineEnd
	}
	return offset
}

// LineCol converts a byte offset back to a 1-based (line, col).
func (p *PositionIndex) LineCol(offset int) (line, col int) {
	p.ensureBuilt()
	if offset < 0 {
		offset = 0
	}
	if offset > len(p.src) {
		offset = len(p.src)
	}
	idx := sort.Search(len(p.lineStarts), func(i int) bool { return p.lineStarts[i] > offset }) - 1
	if idx < 0 {
		idx = 0
	}
	lineStart := p.lineStarts[idx]
	col = 1
	pos := lineStart
	for pos < offset {
		_, w := utf8.DecodeRune(p.src[pos:])
		pos += w
		col++
	}
	return idx + 1, col
}
