// Package core ties schedule extraction to session storage.
//
// [Service] is the entry point used by both the HTTP server and the CLI:
//
//   - [Service.Ingest] parses uploaded workbooks and appends their records to
//     the caller's collection, creating a new one when the session is unknown
//     or expired.
//   - [Service.Records], [Service.DeleteRows] and [Service.Discard] read and
//     edit a collection by session id.
//   - [Service.ExportXLSX] and [Service.ExportTSV] render a collection; the
//     output is built in memory so a failed export never yields a partial file.
//   - [Service.SweepExpired] and [Service.MaybeSweep] drop collections older
//     than the configured max age, and [Service.StartSweepScheduler] runs the
//     sweep on a cron schedule.
//
// Concurrent requests on one session are not serialized. Each write replaces
// the whole collection and the last write wins.
//
// Technical errors are mapped to user-facing messages with [MapError].
package core
