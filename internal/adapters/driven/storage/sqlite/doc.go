// Package sqlite provides a SQLite-based implementation of the driven
// storage ports.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO. A single database holds:
//
//   - SnapshotStore: serialised index snapshots keyed by content hash
//   - SchedulerStore: scheduled task state and run history
//
// # Schema
//
// The schema is managed through versioned migrations embedded from the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql
// files; applied versions are recorded in schema_migrations.
//
// # Data Location
//
// By default, the database is stored at ~/.skillroute/data/skillroute.db
package sqlite
