package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"sync"
	"sync/atomic"

	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"

	"github.com/roach88/inscripciones/internal/attendee"
)

//go:embed schema.sql
var schemaSQL string

// Supported database/sql driver names.
const (
	DriverCGO    = "sqlite3"
	DriverPureGo = "sqlite"
)

// Store provides durable storage for attendee records.
type Store struct {
	// db is nil once the store is closed.
	db    atomic.Pointer[sql.DB]
	clock Clock

	// writeMu serializes inserts so the national ID check and the
	// autoincrement id are never raced by a second writer.
	writeMu sync.Mutex
}

type options struct {
	driver string
	clock  Clock
}

// Option configures Open and New.
type Option func(*options)

// WithDriver selects the database/sql driver (DriverCGO or DriverPureGo).
func WithDriver(name string) Option {
	return func(o *options) {
		o.driver = name
	}
}

// WithClock overrides the clock used to stamp registration dates.
func WithClock(c Clock) Option {
	return func(o *options) {
		o.clock = c
	}
}

func buildOptions(opts []Option) options {
	o := options{driver: DriverCGO, clock: SystemClock{}}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Open creates or opens a SQLite database at the given path and makes sure
// the inscriptos table exists.
//
// Any failure is reported as attendee.KindStorageUnavailable.
func Open(path string, opts ...Option) (*Store, error) {
	o := buildOptions(opts)
	if o.driver != DriverCGO && o.driver != DriverPureGo {
		return nil, unavailable(fmt.Errorf("unsupported driver %q", o.driver))
	}

	db, err := sql.Open(o.driver, path)
	if err != nil {
		return nil, unavailable(fmt.Errorf("failed to open database: %w", err))
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, unavailable(fmt.Errorf("failed to connect to database: %w", err))
	}

	// SQLite only supports one writer at a time, so limit connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, unavailable(fmt.Errorf("failed to apply pragmas: %w", err))
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, unavailable(fmt.Errorf("failed to apply schema: %w", err))
	}

	return newStore(db, o.clock), nil
}

// New wraps an already open handle. The caller is responsible for the schema.
func New(db *sql.DB, opts ...Option) *Store {
	o := buildOptions(opts)
	return newStore(db, o.clock)
}

func newStore(db *sql.DB, clock Clock) *Store {
	s := &Store{clock: clock}
	s.db.Store(db)
	return s
}

// Close closes the database connection. Calling it again is a no-op.
func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	db := s.db.Swap(nil)
	if db == nil {
		return nil
	}
	return db.Close()
}

// handle returns the open database or a StorageUnavailable error once closed.
func (s *Store) handle(ctx context.Context) (*sql.DB, error) {
	if err := ctx.Err(); err != nil {
		return nil, unavailable(err)
	}
	if s == nil {
		return nil, unavailable(fmt.Errorf("store is closed"))
	}
	db := s.db.Load()
	if db == nil {
		return nil, unavailable(fmt.Errorf("store is closed"))
	}
	return db, nil
}

// applyPragmas sets required SQLite configuration.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}

// verifyPragma checks that a pragma is set to the expected value.
// Used for testing.
func (s *Store) verifyPragma(name, expected string) error {
	var value string
	query := fmt.Sprintf("PRAGMA %s", name)
	if err := s.db.Load().QueryRow(query).Scan(&value); err != nil {
		return fmt.Errorf("failed to query %s: %w", name, err)
	}
	if value != expected {
		return fmt.Errorf("%s = %q, expected %q", name, value, expected)
	}
	return nil
}

func unavailable(err error) error {
	return attendee.WrapError(attendee.KindStorageUnavailable, err)
}
