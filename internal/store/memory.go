package store

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jwebster45206/backchannel/pkg/negotiation"
)

// MemoryStore keeps sessions in an in-process map. Session loss is total on
// restart, which is acceptable for the demo. A periodic sweep ends and
// removes sessions that have been inactive longer than the TTL.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*negotiation.State

	ttl      time.Duration
	interval time.Duration
	onExpire func(*negotiation.State)
	logger   *slog.Logger

	done     chan struct{}
	stopOnce sync.Once
}

// Ensure MemoryStore implements Store interface
var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an in-memory session store. The sweep does not run
// until Start is called.
func NewMemoryStore(ttl, interval time.Duration, logger *slog.Logger) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*negotiation.State),
		ttl:      ttl,
		interval: interval,
		logger:   logger,
		done:     make(chan struct{}),
	}
}

// OnExpire registers a hook invoked once per expired session, outside the
// store lock. Used to release avatar resources tied to the session.
func (m *MemoryStore) OnExpire(fn func(*negotiation.State)) {
	m.onExpire = fn
}

func (m *MemoryStore) Ping(ctx context.Context) error {
	return nil
}

func (m *MemoryStore) Close() error {
	m.Stop()
	return nil
}

func (m *MemoryStore) Save(ctx context.Context, s *negotiation.State) error {
	if s == nil || s.ID == "" {
		return fmt.Errorf("session must have an ID")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s.Clone()
	return nil
}

func (m *MemoryStore) Get(ctx context.Context, id string) (*negotiation.State, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s.Clone(), nil
}

func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

// Len reports the number of stored sessions.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Start launches the periodic expiry sweep.
func (m *MemoryStore) Start() {
	go func() {
		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()
		for {
			select {
			case <-m.done:
				return
			case <-ticker.C:
				m.Sweep()
			}
		}
	}()
}

// Stop halts the expiry sweep. Safe to call more than once.
func (m *MemoryStore) Stop() {
	m.stopOnce.Do(func() {
		close(m.done)
	})
}

// Sweep ends and removes all sessions inactive longer than the TTL. Expired
// sessions are collected under the lock and removed in the same pass, so the
// sweep is safe to interleave with concurrent reads and deletes.
func (m *MemoryStore) Sweep() {
	var expired []*negotiation.State

	m.mu.Lock()
	for id, s := range m.sessions {
		if s.Expired(m.ttl) {
			s.End()
			expired = append(expired, s)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, s := range expired {
		m.logger.Info("Session expired", "session_id", s.ID,
			"last_activity", s.LastActivity)
		if m.onExpire != nil {
			m.onExpire(s)
		}
	}
}
