package cart

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"sync"
	"time"
)

// DefaultSessionTTL is how long a shopper session (and its cart) lives
// without activity.
const DefaultSessionTTL = 24 * time.Hour

var ErrSessionNotFound = errors.New("session not found or expired")

type session struct {
	cart      *Cart
	expiresAt time.Time
}

// Manager owns all live shopper sessions. Carts are in-memory only and die
// with their session; nothing is persisted across restarts.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*session
	ttl      time.Duration
	now      func() time.Time
}

func NewManager(ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &Manager{
		sessions: make(map[string]*session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// NewSession creates an empty cart under a fresh opaque token and returns
// the token with its expiry. Expired sessions are swept on each issue.
func (m *Manager) NewSession() (string, time.Time) {
	m.sweep()

	tokenBytes := make([]byte, 16)
	if _, err := rand.Read(tokenBytes); err != nil {
		// crypto/rand failing means the process is in a bad state.
		panic("failed to generate session token: " + err.Error())
	}
	token := "sess_" + hex.EncodeToString(tokenBytes)
	expiresAt := m.now().Add(m.ttl)

	m.mu.Lock()
	m.sessions[token] = &session{cart: New(), expiresAt: expiresAt}
	m.mu.Unlock()

	return token, expiresAt
}

// Get returns the cart for a token and slides its expiry forward, so an
// active shopper never loses their cart mid-browse.
func (m *Manager) Get(token string) (*Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[token]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if s.expiresAt.Before(m.now()) {
		delete(m.sessions, token)
		return nil, ErrSessionNotFound
	}

	s.expiresAt = m.now().Add(m.ttl)
	return s.cart, nil
}

// End drops a session and its cart immediately.
func (m *Manager) End(token string) {
	m.mu.Lock()
	delete(m.sessions, token)
	m.mu.Unlock()
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

func (m *Manager) sweep() {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()
	for token, s := range m.sessions {
		if s.expiresAt.Before(now) {
			delete(m.sessions, token)
		}
	}
}

// StartSweeper runs a periodic sweep until stop is closed.
func (m *Manager) StartSweeper(interval time.Duration, stop <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				m.sweep()
			case <-stop:
				return
			}
		}
	}()
}
