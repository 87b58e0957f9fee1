package importer

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Manager holds the live import sessions of the service, keyed by session
// ID. Sessions are scoped to one wizard instance and swept after sitting
// idle for the configured TTL.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
	logger   *logrus.Entry
}

// NewManager creates a session manager. A non-positive TTL disables sweeping.
func NewManager(ttl time.Duration, logger *logrus.Logger) *Manager {
	if logger == nil {
		logger = logrus.New()
	}
	return &Manager{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		logger:   logger.WithField("component", "importer.manager"),
	}
}

// Create registers a new session for the given schema and policy.
func (m *Manager) Create(schema *EntitySchema, policy DuplicatePolicy, onChange ChangeFunc, logger *logrus.Logger) *Session {
	session := NewSession(schema, policy, onChange, logger)
	m.mu.Lock()
	m.sessions[session.ID] = session
	m.mu.Unlock()
	return session
}

// Get returns a session by ID and refreshes its idle timer.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	session, ok := m.sessions[id]
	m.mu.RUnlock()
	if ok {
		session.Touch()
	}
	return session, ok
}

// Delete tears a session down.
func (m *Manager) Delete(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

// Len reports the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// StartSweeper expires idle sessions in the background until ctx is done.
func (m *Manager) StartSweeper(ctx context.Context) {
	if m.ttl <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(m.ttl / 2)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.sweep()
			}
		}
	}()
}

func (m *Manager) sweep() {
	cutoff := time.Now().UTC().Add(-m.ttl)
	m.mu.Lock()
	for id, session := range m.sessions {
		if session.IdleSince().Before(cutoff) {
			delete(m.sessions, id)
			m.logger.WithFields(logrus.Fields{"session": id, "entity": session.Entity}).Info("expired idle import session")
		}
	}
	m.mu.Unlock()
}
