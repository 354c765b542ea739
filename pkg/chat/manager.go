package chat

import (
	"time"

	"github.com/patrickmn/go-cache"
)

// Manager keeps sessions keyed by id with an idle expiry, so abandoned
// conversations fall out of memory on their own.
type Manager struct {
	endpoint string
	sessions *cache.Cache
}

func NewManager(endpoint string) *Manager {
	// Default expiration of 1 hour, expired sessions purged every 10 minutes
	return &Manager{
		endpoint: endpoint,
		sessions: cache.New(1*time.Hour, 10*time.Minute),
	}
}

func (m *Manager) Get(sessionID string) (*Session, bool) {
	if x, found := m.sessions.Get(sessionID); found {
		return x.(*Session), true
	}
	return nil, false
}

func (m *Manager) GetOrCreate(sessionID string) *Session {
	if session, found := m.Get(sessionID); found {
		// Refresh the idle expiry on access
		m.sessions.Set(sessionID, session, cache.DefaultExpiration)
		return session
	}
	session := NewSession(m.endpoint)
	m.sessions.Set(sessionID, session, cache.DefaultExpiration)
	return session
}

func (m *Manager) Delete(sessionID string) {
	m.sessions.Delete(sessionID)
}
