// Package tasks runs long catalogue operations with progress reporting.
//
// # Catalogue Export
//
// [Exporter.Export] lists every album and, when asked, fetches each album's detail with a bounded
// number of concurrent workers sharing one rate limiter. Album order in the result always matches
// the order the server listed them in, regardless of which detail request finishes first.
//
// A failed detail fetch does not abort the export: the album is kept summary-only and the failure is
// reported in [ExportResult.Failures]. Cancelling the context stops the export and returns its error.
//
// # Progress Reporting
//
// Operations take an optional channel of [ProgressUpdate]. Sends never block; when the channel is
// full the update is dropped.
package tasks
