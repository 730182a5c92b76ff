package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/jwebster45206/backchannel/pkg/negotiation"
)

// MockStore is an in-memory Store for tests, with optional error injection.
type MockStore struct {
	mu       sync.Mutex
	sessions map[string]*negotiation.State

	FailSave   bool
	FailGet    bool
	FailDelete bool
	FailPing   bool
}

var _ Store = (*MockStore)(nil)

func NewMockStore() *MockStore {
	return &MockStore{
		sessions: make(map[string]*negotiation.State),
	}
}

func (m *MockStore) Ping(ctx context.Context) error {
	if m.FailPing {
		return fmt.Errorf("mock ping failure")
	}
	return nil
}

func (m *MockStore) Close() error {
	return nil
}

func (m *MockStore) Save(ctx context.Context, s *negotiation.State) error {
	if m.FailSave {
		return fmt.Errorf("mock save failure")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s.Clone()
	return nil
}

func (m *MockStore) Get(ctx context.Context, id string) (*negotiation.State, error) {
	if m.FailGet {
		return nil, fmt.Errorf("mock get failure")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s.Clone(), nil
}

func (m *MockStore) Delete(ctx context.Context, id string) error {
	if m.FailDelete {
		return fmt.Errorf("mock delete failure")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

// Len reports the number of stored sessions.
func (m *MockStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
