// Copyright (c) 2024 Michael D Henderson. All rights reserved.

// Package syntax turns a token sequence into a File: a lossy-but-faithful
// concrete syntax tree that covers every entry, attribute, and expression
// form in the Kconfig grammar, plus the help-block indentation algorithm
// (spec.md §4.2). Errors never abort parsing: ParseFile always returns a
// File, alongside whatever diagnostics recovery produced.
//
// See node.go for the node/Kind definitions, parser.go for the recursive-
// descent grammar and error recovery, and helpblock.go for the indentation-
// sensitive help-text extraction that runs outside the token stream.
package syntax
