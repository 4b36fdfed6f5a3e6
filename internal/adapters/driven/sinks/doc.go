// Package sinks groups the driven.RecordSink adapters.
//
//   - ndjson: buffered NDJSON file with size-based rotation
//   - stdout: NDJSON on standard output
//   - nats: one NATS message per record, subject per hour partition
//   - multi: fan-out over several sinks
//
// The SQLite sink lives with the rest of the database code in
// storage/sqlite.
package sinks
