// Copyright (c) 2024 Michael D Henderson. All rights reserved.

// Package document owns per-URI Kconfig document state: the current source
// buffer plus its cached tokens, parse tree, and semantic index. Every edit
// invalidates and regenerates all four together; nothing is cached across
// versions (spec.md §3 Document, §5 "no implicit caching across document
// versions").
package document
