// Package identity holds the session identity: the authenticated user plus
// the opaque backend token, or nothing (anonymous).
package identity

import (
	"sync"

	"github.com/go-faster/errors"
)

// Storage keys mirrored by the manager. The token is stored raw; the user
// record is stored as a serialized JSON object.
const (
	KeyToken = "token"
	KeyUser  = "user"
)

// User is the authenticated account as returned by the backend.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Session pairs a user with the credential the backend issued for them.
type Session struct {
	User  User
	Token string
}

// Store is the subset of the persistent key-value store the manager needs.
type Store interface {
	Get(key string) ([]byte, bool, error)
	Set(key string, value []byte) error
	Delete(key string) error
}

// Manager owns the in-memory session identity and mirrors it to the store.
// The token is never validated client-side; the backend is the trust
// boundary.
type Manager struct {
	store Store

	mu      sync.RWMutex
	session *Session
}

// NewManager returns an anonymous manager backed by store.
func NewManager(store Store) *Manager {
	return &Manager{store: store}
}

// SetAuth records the identity in memory and persists both entries.
func (m *Manager) SetAuth(user User, token string) error {
	data, err := encodeUser(user)
	if err != nil {
		return errors.Wrap(err, "encode user")
	}
	if err := m.store.Set(KeyToken, []byte(token)); err != nil {
		return errors.Wrap(err, "persist token")
	}
	if err := m.store.Set(KeyUser, data); err != nil {
		return errors.Wrap(err, "persist user")
	}

	m.mu.Lock()
	m.session = &Session{User: user, Token: token}
	m.mu.Unlock()
	return nil
}

// ClearAuth removes the identity from memory and the store. Clearing an
// already-anonymous manager is a no-op.
func (m *Manager) ClearAuth() error {
	if err := m.store.Delete(KeyToken); err != nil {
		return errors.Wrap(err, "delete token")
	}
	if err := m.store.Delete(KeyUser); err != nil {
		return errors.Wrap(err, "delete user")
	}

	m.mu.Lock()
	m.session = nil
	m.mu.Unlock()
	return nil
}

// Initialize hydrates the session from the store. It is called exactly once
// at startup. A missing token or user record leaves the manager anonymous. A
// corrupted user record is treated as no session and the entry is discarded;
// corruption never surfaces as an error.
func (m *Manager) Initialize() error {
	token, ok, err := m.store.Get(KeyToken)
	if err != nil {
		return errors.Wrap(err, "read token")
	}
	if !ok || len(token) == 0 {
		return nil
	}

	data, ok, err := m.store.Get(KeyUser)
	if err != nil {
		return errors.Wrap(err, "read user")
	}
	if !ok {
		return nil
	}

	user, err := decodeUser(data)
	if err != nil {
		// Corrupt record: drop it and stay anonymous.
		_ = m.store.Delete(KeyUser)
		return nil
	}

	m.mu.Lock()
	m.session = &Session{User: user, Token: string(token)}
	m.mu.Unlock()
	return nil
}

// Session returns the current session, or nil when anonymous.
func (m *Manager) Session() *Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.session == nil {
		return nil
	}
	s := *m.session
	return &s
}

// Token returns the current credential, or empty when anonymous. It
// satisfies the HTTP transport's token source.
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.session == nil {
		return ""
	}
	return m.session.Token
}

// IsAuthenticated reports whether a session is present.
func (m *Manager) IsAuthenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session != nil
}
