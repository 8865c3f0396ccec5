// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package history

// DiagnosticRecord is the serializable shape one query.Diagnostic is
// flattened to before it's written to a batch. The package deliberately
// doesn't import internal/query to avoid coupling the optional audit store
// to the query layer's types; callers translate at the call site.
type DiagnosticRecord struct {
	Start    int    `json:"start"`
	End      int    `json:"end"`
	Line     int    `json:"line"`
	Col      int    `json:"col"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
	Source   string `json:"source"`
}

// Batch is one published diagnostics set, as read back from the store.
type Batch struct {
	ID              int64
	URI             string
	Version         int
	PublishedAt     int64 // unix seconds
	DiagnosticCount int
	Diagnostics     []DiagnosticRecord
}
