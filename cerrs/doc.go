// Copyright (c) 2024 Michael D Henderson. All rights reserved.

// Package cerrs defines constant error types using a custom Error string type.
// It centralizes the operational error messages used throughout the server —
// config loading, transport framing, history-store access. Analysis errors
// (lexical, syntactic, semantic) are never represented here; they live as
// Error tokens/nodes and diagnostics. The Error type supports comparison via
// errors.Is().
package cerrs
