// Package tasks runs long bulk operations against the SolveX API with real-time progress reporting.
//
// # Bulk export
//
// [Exporter.Export] writes problem aggregates to disk:
//
//  1. A producer fetches each aggregate (GET /problems/{id}/full) under a
//     token-bucket rate limiter.
//  2. A fixed pool of workers writes each aggregate in the requested format
//     (json, markdown or txt).
//  3. Once every job is done an export_manifest.json is written listing the
//     outcome of every problem.
//
// A fetch failure is recorded against that problem and the run continues.
//
// # Progress Reporting
//
// All operations use non-blocking channels for progress updates
//
// The [ProgressUpdate] struct contains phase, step counters and a message.
// Updates use select with default so a slow reader never stalls an export.
//
// # History
//
// The optional [RunRecorder] (repositories.ExportRunRepository) stores one
// row per run. Recording errors are logged and never fail the export.
package tasks
