// Package sqlite stores enriched records and batch history in a local
// SQLite database.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO. One Store exposes several port interfaces over a single
// connection:
//
//   - RecordSink / RecordStore: enriched records, one row each
//   - RunStore: batch runs with their stats and pool health
//
// # Schema
//
// The schema is managed through versioned migrations embedded from the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql
// files; applied versions are tracked in schema_migrations.
//
// # Data Location
//
// By default, the database is stored at ~/.f5lake/data/f5lake.db
//
// # Thread Safety
//
// All operations are thread-safe. The store relies on SQLite locking in WAL
// mode.
package sqlite
