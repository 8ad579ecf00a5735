// Package store keeps the list of rules created through the service.
//
// Records are kept in insertion order. Two backends implement Store:
//
//   - MemoryStore: a mutex-guarded slice, the default for a single process
//   - SQLiteStore: a database/sql backend using either the pure Go
//     modernc.org/sqlite driver ("sqlite") or mattn/go-sqlite3 ("sqlite3")
//
// Both are safe for concurrent use by HTTP handlers.
//
// Snapshots move records between stores as zstd-compressed JSON lines:
//
//	n, err := store.WriteSnapshot(ctx, f, s)
//	n, skipped, err := store.ReadSnapshot(ctx, f, s)
package store
