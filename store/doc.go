// Package store holds goSession.UserProvider implementations.
//
// Subpackages:
//
//   - memory: a process-local map, for tests and demos.
//   - sqlstore: database/sql over SQLite (modernc.org/sqlite) or PostgreSQL (lib/pq).
package store

import "errors"

// ErrDuplicateEmail is returned when creating a user whose email already exists.
var ErrDuplicateEmail = errors.New("email already registered")
