// Copyright (c) 2025 Michael D Henderson. All rights reserved.

// Package history is an optional, disk-backed audit trail of diagnostics
// batches published to the client: one row per (uri, version) publish,
// holding when it happened and the serialized diagnostic set. It exists for
// debugging ("what did we tell the editor, and when") and is never
// consulted to answer a query (spec.md §4.4's five requests are answered
// entirely from in-memory state) — enabling it is controlled by
// internal/config's History_t and has no effect on query correctness.
package history
