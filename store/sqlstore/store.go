// Package sqlstore is a goSession.UserProvider over database/sql.
//
// Two drivers are supported: "sqlite" (modernc.org/sqlite, pure Go) and
// "postgres" (github.com/lib/pq). Queries are written with '?' placeholders
// and rebound to $N for PostgreSQL.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	goSession "github.com/MrEthical07/goSession"
	"github.com/MrEthical07/goSession/store"
	"github.com/google/uuid"
	"github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Dialect selects placeholder syntax and duplicate-key detection.
type Dialect int

const (
	SQLite Dialect = iota
	Postgres
)

// DialectFor maps a driver name to its Dialect.
func DialectFor(driver string) (Dialect, error) {
	switch strings.ToLower(driver) {
	case "sqlite", "sqlite3":
		return SQLite, nil
	case "postgres", "postgresql", "pgx":
		return Postgres, nil
	default:
		return 0, fmt.Errorf("sqlstore: unsupported driver %q", driver)
	}
}

func (d Dialect) driverName() string {
	if d == Postgres {
		return "postgres"
	}
	return "sqlite"
}

const schema = `CREATE TABLE IF NOT EXISTS users (
	id            TEXT PRIMARY KEY,
	name          TEXT NOT NULL,
	email         TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	created_at    TIMESTAMP NOT NULL
)`

const (
	selectByEmail = `SELECT id, name, email, password_hash FROM users WHERE email = ?`
	selectByID    = `SELECT id, name, email, password_hash FROM users WHERE id = ?`
	insertUser    = `INSERT INTO users (id, name, email, password_hash, created_at) VALUES (?, ?, ?, ?, ?)`
)

// Store reads and writes the users table.
type Store struct {
	db      *sql.DB
	dialect Dialect
	now     func() time.Time
}

// Open connects to dsn, verifies the connection, and applies the schema.
func Open(ctx context.Context, driver, dsn string) (*Store, error) {
	dialect, err := DialectFor(driver)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(dsn) == "" {
		return nil, errors.New("sqlstore: dsn is required")
	}

	db, err := sql.Open(dialect.driverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: open: %w", err)
	}
	if dialect == SQLite {
		// A single connection keeps :memory: databases coherent and
		// serializes writers.
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlstore: ping: %w", err)
	}

	s := New(db, dialect)
	if err := s.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// New wraps an existing handle. The caller owns schema management unless
// Migrate is called.
func New(db *sql.DB, dialect Dialect) *Store {
	return &Store{db: db, dialect: dialect, now: time.Now}
}

// Migrate creates the users table if it does not exist.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("sqlstore: migrate: %w", err)
	}
	return nil
}

// GetUserByEmail matches email exactly.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (goSession.UserRecord, error) {
	return s.queryOne(ctx, selectByEmail, email)
}

func (s *Store) GetUserByID(ctx context.Context, id string) (goSession.UserRecord, error) {
	return s.queryOne(ctx, selectByID, id)
}

func (s *Store) queryOne(ctx context.Context, query, arg string) (goSession.UserRecord, error) {
	var u goSession.UserRecord
	err := s.db.QueryRowContext(ctx, s.rebind(query), arg).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return goSession.UserRecord{}, goSession.ErrUserNotFound
	case err != nil:
		return goSession.UserRecord{}, fmt.Errorf("sqlstore: query user: %w", err)
	}
	return u, nil
}

// CreateUser inserts a user with a generated id.
func (s *Store) CreateUser(ctx context.Context, name, email, passwordHash string) (goSession.UserRecord, error) {
	if email == "" || passwordHash == "" {
		return goSession.UserRecord{}, errors.New("sqlstore: email and password hash are required")
	}
	u := goSession.UserRecord{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
	}
	_, err := s.db.ExecContext(ctx, s.rebind(insertUser), u.ID, u.Name, u.Email, u.PasswordHash, s.now().UTC())
	if err != nil {
		if s.isUniqueViolation(err) {
			return goSession.UserRecord{}, store.ErrDuplicateEmail
		}
		return goSession.UserRecord{}, fmt.Errorf("sqlstore: insert user: %w", err)
	}
	return u, nil
}

// Ping reports database reachability.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close releases the underlying handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) rebind(query string) string {
	if s.dialect != Postgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

func (s *Store) isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
