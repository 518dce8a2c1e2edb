// Package store provides SQLite-backed durable storage for attendee records.
//
// The store owns a single table, inscriptos, created on first open:
//
//	id                 INTEGER PRIMARY KEY AUTOINCREMENT
//	nombre, apellido   TEXT NOT NULL
//	dni                TEXT UNIQUE NOT NULL
//	email              TEXT NOT NULL
//	telefono           TEXT
//	fecha_inscripcion  DATE (YYYY-MM-DD text)
//	institucion        TEXT
//
// Records are append-only. There is no update or delete path.
//
// # Ordering
//
// Every query ends with id ASC, so listings without an explicit sort come back
// in insertion order and sorted listings break ties by insertion order.
// Sort columns come from a closed map keyed by attendee.SortField and are
// never built from caller input.
//
// # Drivers
//
//   - "sqlite3": github.com/mattn/go-sqlite3 (default, cgo)
//   - "sqlite":  modernc.org/sqlite (pure Go)
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - One open connection, plus a writer mutex around Insert
//
// All failures are returned as *attendee.Error: DuplicateKey for a repeated
// national ID, NotFound for a missing lookup, StorageUnavailable otherwise.
package store
