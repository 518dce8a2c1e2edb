package store

import "database/sql"

// DB returns the underlying handle for direct queries in tests, or nil once
// the store is closed.
func (s *Store) DB() *sql.DB {
	return s.db.Load()
}
