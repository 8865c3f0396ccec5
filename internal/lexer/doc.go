// Copyright (c) 2024 Michael D Henderson. All rights reserved.

// Package lexer implements the Kconfig lexer. See lexer.go for the scanning
// rules (spec.md §4.1) and position.go for the (line,col)<->offset mapping
// the query layer uses to translate LSP positions into byte offsets.
package lexer
