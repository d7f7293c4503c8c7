// Package diag defines the diagnostic model shared by every stage of the
// formatting pipeline.
//
// # Purpose
//
//   - Provide deterministic data structures for findings produced by the
//     parser (degraded records), the serializer (delimiter conflicts) and the
//     ordering stages (duplicate citation keys).
//   - Offer light-weight utilities (Reporter, Bag) that let stages emit
//     diagnostics without coupling to storage or rendering.
//
// # Scope
//
// Package diag does not format or print anything. Rendering lives in
// internal/diagfmt; collection per file lives in internal/driver.
//
// # Severity
//
// Nothing the engine reports on input text is fatal. Degraded records are
// warnings (the span is passed through unchanged), delimiter conflicts and
// duplicate keys are informational. SevError is reserved for I/O and
// configuration problems reported by the driver.
package diag
