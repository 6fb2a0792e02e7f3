// Package session owns the cross-view shared state of the panel: one upstream
// bearer token and the resolved user per browser session. The token slot is
// the only durable piece of client state; everything else is refetched.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"procpanel.org/internal/gateway"
	"procpanel.org/internal/ids"
)

// ErrNotFound means the session does not exist (expired, logged out, or
// cleared by a concurrent 401).
var ErrNotFound = errors.New("session: not found")

// Session binds a browser to its upstream credentials.
type Session struct {
	ID        string
	Token     string
	User      gateway.User
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Resolved reports whether the user profile has been fetched for the token.
// An unresolved session renders as the loading state until /auth/me settles.
func (s Session) Resolved() bool {
	return s.User.ID != "" || s.User.Role != ""
}

// Store persists sessions. Writes follow last-write-wins: a 401 handler may
// delete a session concurrently with a login writing it.
type Store interface {
	Get(ctx context.Context, id string) (Session, error)
	Put(ctx context.Context, s Session) error
	Delete(ctx context.Context, id string) error
}

// NewID mints a session identifier.
func NewID() string { return ids.New() }

// MemoryStore keeps sessions in process memory. Suitable for a single panel
// instance; the Postgres store covers restarts and replicas.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
	ttl      time.Duration
	now      func() time.Time
}

// NewMemoryStore builds an empty store. ttl <= 0 disables expiry.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (m *MemoryStore) Get(ctx context.Context, id string) (Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return Session{}, ErrNotFound
	}
	if m.ttl > 0 && m.now().Sub(s.UpdatedAt) > m.ttl {
		m.mu.Lock()
		delete(m.sessions, id)
		m.mu.Unlock()
		return Session{}, ErrNotFound
	}
	return s, nil
}

func (m *MemoryStore) Put(ctx context.Context, s Session) error {
	if s.ID == "" {
		return errors.New("session: id is required")
	}
	now := m.now()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	s.UpdatedAt = now
	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
	return nil
}
