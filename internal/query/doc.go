// Copyright (c) 2024 Michael D Henderson. All rights reserved.

// Package query answers the five LSP requests spec.md §4.4 names (hover,
// definition, references, completion, diagnostics) by combining a
// document's cached token stream, parse tree, and semantic index. It owns
// no transport or lifecycle concerns — those belong to internal/lsp.
package query
