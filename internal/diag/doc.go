// Package diag defines the diagnostic model shared by the compile pipeline.
//
// Diagnostic is the central record: Severity, a numeric Code with a stable
// string ID (SYN2001, IO4001, ...), a short Message and the Primary span.
// Phases never print; they either return a *SyntaxError, which the driver
// converts with (*SyntaxError).Diagnostic, or report through a Reporter.
// Bag collects diagnostics with a limit and offers sorting and
// deduplication. Rendering lives in internal/diagfmt.
package diag
