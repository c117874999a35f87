package search

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Manager owns the live search sessions, keyed by an opaque id handed to
// the client on the first page fetch.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	pageSize int
	ttl      time.Duration
}

func NewManager(pageSize int, ttl time.Duration) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		pageSize: pageSize,
		ttl:      ttl,
	}
}

// Get returns the session for id, if it is still alive.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	return s, ok
}

// Create starts a fresh session for the given criteria. A pageSize of 0
// falls back to the configured default; the size is fixed for the life of
// the session so the last-page rule stays consistent across fetches.
func (m *Manager) Create(criteria Criteria, pageSize int) *Session {
	if pageSize < 1 {
		pageSize = m.pageSize
	}
	s := newSession(uuid.NewString(), pageSize, criteria)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID()] = s
	return s
}

// Remove drops a session.
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

// Sweep removes sessions idle longer than the TTL and returns their ids
// so callers can drop associated cache entries too.
func (m *Manager) Sweep(now time.Time) []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	var expired []string
	for id, s := range m.sessions {
		if s.idleSince(now) > m.ttl {
			expired = append(expired, id)
			delete(m.sessions, id)
		}
	}
	return expired
}

// Len reports the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
