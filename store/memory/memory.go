// Package memory is an in-process user store.
package memory

import (
	"context"
	"errors"
	"sync"

	goSession "github.com/MrEthical07/goSession"
	"github.com/MrEthical07/goSession/store"
	"github.com/google/uuid"
)

// Store keeps users in maps keyed by id and email.
type Store struct {
	mu      sync.RWMutex
	byID    map[string]goSession.UserRecord
	byEmail map[string]string
}

func New() *Store {
	return &Store{
		byID:    make(map[string]goSession.UserRecord),
		byEmail: make(map[string]string),
	}
}

// CreateUser stores a user and returns it with its generated id.
func (s *Store) CreateUser(_ context.Context, name, email, passwordHash string) (goSession.UserRecord, error) {
	if email == "" || passwordHash == "" {
		return goSession.UserRecord{}, errors.New("email and password hash are required")
	}
	u := goSession.UserRecord{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byEmail[email]; exists {
		return goSession.UserRecord{}, store.ErrDuplicateEmail
	}
	s.byID[u.ID] = u
	s.byEmail[email] = u.ID
	return u, nil
}

// Delete removes the user with id. Unknown ids are ignored.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.byID[id]; ok {
		delete(s.byEmail, u.Email)
		delete(s.byID, id)
	}
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (goSession.UserRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byEmail[email]
	if !ok {
		return goSession.UserRecord{}, goSession.ErrUserNotFound
	}
	return s.byID[id], nil
}

func (s *Store) GetUserByID(_ context.Context, id string) (goSession.UserRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.byID[id]
	if !ok {
		return goSession.UserRecord{}, goSession.ErrUserNotFound
	}
	return u, nil
}

// Ping always succeeds.
func (s *Store) Ping(context.Context) error { return nil }
