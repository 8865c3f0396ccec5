// Copyright (c) 2025 Michael D Henderson. All rights reserved.

// Package lsp is the thin protocol adapter spec.md §1 and §6 describe: a
// Content-Length-framed JSON-RPC 2.0 transport over stdin/stdout, the
// initialize/initialized/shutdown/exit lifecycle, and a dispatch table that
// turns textDocument/* requests into internal/query calls and
// didOpen/didChange/didClose into internal/document.Workspace mutations. It
// owns no Kconfig analysis logic of its own.
package lsp
