// Copyright (c) 2024 Michael D Henderson. All rights reserved.

// Package index builds the per-document semantic index from a parsed
// syntax.File: symbol definitions, references, a by-span lookup table, and
// enclosing-scope information, without modifying the tree (spec.md §4.3).
// Build performs exactly one traversal of the file.
package index
