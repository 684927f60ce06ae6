package goSession

import (
	"context"
	"time"
)

// UserRecord is a stored credential record. PasswordHash never leaves the
// engine; use Public for anything returned to a client.
type UserRecord struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
}

// PublicUser is the client-facing projection of a UserRecord.
type PublicUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Public strips the password hash.
func (u UserRecord) Public() PublicUser {
	return PublicUser{ID: u.ID, Name: u.Name, Email: u.Email}
}

// UserProvider is the user store. Implementations return ErrUserNotFound
// (possibly wrapped) when no record matches; any other error is treated as a
// store failure.
type UserProvider interface {
	GetUserByEmail(ctx context.Context, email string) (UserRecord, error)
	GetUserByID(ctx context.Context, id string) (UserRecord, error)
}

// StorePinger is optionally implemented by a UserProvider to report health.
type StorePinger interface {
	Ping(ctx context.Context) error
}

// IdentityClaim is what a valid session token proves.
type IdentityClaim struct {
	UserID    string
	TokenID   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// LoginResult is returned by a successful Login.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      PublicUser
}

// HealthStatus reports backend reachability. A backend without a ping
// capability is reported available with zero latency.
type HealthStatus struct {
	StoreAvailable      bool
	StoreLatency        time.Duration
	RevocationAvailable bool
	RevocationLatency   time.Duration
}

// Healthy reports whether every backend answered.
func (h HealthStatus) Healthy() bool {
	return h.StoreAvailable && h.RevocationAvailable
}
