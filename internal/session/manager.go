package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/HerbHall/toolhub/internal/catalog"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrNotFound is returned for unknown or expired session ids.
var ErrNotFound = errors.New("session not found")

// DefaultTTL is the idle time after which a session is swept.
const DefaultTTL = 30 * time.Minute

// Manager owns all live sessions. It is safe for concurrent use.
type Manager struct {
	ttl    time.Duration
	logger *zap.Logger
	now    func() time.Time

	mu       sync.Mutex
	sessions map[string]*State
}

// NewManager creates a Manager. A non-positive ttl selects DefaultTTL.
func NewManager(ttl time.Duration, logger *zap.Logger) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{
		ttl:      ttl,
		logger:   logger,
		now:      time.Now,
		sessions: make(map[string]*State),
	}
}

// Create starts a new session for userID.
func (m *Manager) Create(userID string) Snapshot {
	s := newState(uuid.New().String(), userID, m.now())

	m.mu.Lock()
	m.sessions[s.ID] = s
	n := len(m.sessions)
	m.mu.Unlock()

	activeSessions.Set(float64(n))
	m.logger.Debug("session created", zap.String("session_id", s.ID), zap.String("user_id", userID))
	return s.Snapshot()
}

// Get returns a snapshot of session id.
func (m *Manager) Get(id string) (Snapshot, error) {
	return m.Update(id, func(*State) {})
}

// Update applies fn to session id under the manager lock and returns the
// resulting snapshot. It refreshes the session's idle timer.
func (m *Manager) Update(id string, fn func(*State)) (Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return Snapshot{}, ErrNotFound
	}
	fn(s)
	s.LastSeen = m.now()
	return s.Snapshot(), nil
}

// Query returns the engine query and owner of session id.
func (m *Manager) Query(id string) (userID string, q catalog.Query, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return "", catalog.Query{}, ErrNotFound
	}
	s.LastSeen = m.now()
	return s.UserID, s.Query(), nil
}

// Delete ends session id.
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[id]; !ok {
		return ErrNotFound
	}
	delete(m.sessions, id)
	activeSessions.Set(float64(len(m.sessions)))
	return nil
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Sweep removes sessions idle longer than the TTL as of now and returns how
// many were removed.
func (m *Manager) Sweep(now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, s := range m.sessions {
		if now.Sub(s.LastSeen) > m.ttl {
			delete(m.sessions, id)
			removed++
		}
	}
	activeSessions.Set(float64(len(m.sessions)))
	if removed > 0 {
		expiredSessions.Add(float64(removed))
		m.logger.Debug("expired idle sessions", zap.Int("removed", removed), zap.Int("remaining", len(m.sessions)))
	}
	return removed
}

// Run sweeps expired sessions every interval until ctx is cancelled.
func (m *Manager) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = m.ttl / 2
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			m.Sweep(m.now())
		}
	}
}
