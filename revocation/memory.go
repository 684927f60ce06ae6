package revocation

import (
	"context"
	"sync"
	"time"
)

// Memory is a process-scoped registry guarded by a RWMutex.
//
// Entries live until [Memory.Prune] observes that the token's own expiry,
// plus the configured grace, has passed. Nothing is persisted; a restart forgets every revocation, which is
// acceptable only because every token it held would also have expired within
// one TTL.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]time.Time
	opts    settings
}

// NewMemory returns an empty in-memory registry.
func NewMemory(opts ...Option) *Memory {
	return &Memory{
		entries: make(map[string]time.Time),
		opts:    applyOptions(opts),
	}
}

// Revoke implements [Registry].
func (m *Memory) Revoke(_ context.Context, token string, expiresAt time.Time) error {
	if token == "" {
		return nil
	}
	until := m.opts.retainUntil(expiresAt)
	if !until.IsZero() && !until.After(m.opts.now()) {
		return nil
	}
	key := fingerprint(token)

	m.mu.Lock()
	defer m.mu.Unlock()

	if current, ok := m.entries[key]; ok && (current.IsZero() || (!until.IsZero() && !until.After(current))) {
		return nil
	}
	m.entries[key] = until
	return nil
}

// IsRevoked implements [Registry].
func (m *Memory) IsRevoked(_ context.Context, token string) (bool, error) {
	if token == "" {
		return false, nil
	}
	key := fingerprint(token)

	m.mu.RLock()
	_, ok := m.entries[key]
	m.mu.RUnlock()
	return ok, nil
}

// Prune drops entries whose token expiry plus grace is at or before now and
// returns the number removed. Entries revoked without a known expiry are kept.
func (m *Memory) Prune(_ context.Context, now time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for key, until := range m.entries {
		if !until.IsZero() && !until.After(now) {
			delete(m.entries, key)
			removed++
		}
	}
	return removed, nil
}

// Len returns the number of tracked entries.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
