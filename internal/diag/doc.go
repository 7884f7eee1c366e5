// Package diag defines the diagnostic model shared by the lexer, the parser
// and the driver.
//
// A Diagnostic carries a Severity, a Code with a stable string form
// (LEX1xxx, NAM2xxx, GRM3xxx, TRN4xxx, SEM5xxx, IO6xxx, OBS7xxx), a message,
// the primary source.Span and optional notes and fix suggestions.
//
// Producers emit through a Reporter so that storage stays pluggable:
// BagReporter appends into a Bag, which supports limits, sorting and
// deduplication. A Pending diagnostic (ReportError, ReportWarning) lets a producer
// attach notes and fixes before Emit.
//
// Rendering lives in internal/diagfmt and in internal/render, which turns
// diagnostics into compile_error! invocations of the generated file. The one
// exception is FormatShortDiagnostics, a single-line-per-entry format used by
// the CLI and by golden tests.
package diag
