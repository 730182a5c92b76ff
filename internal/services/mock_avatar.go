package services

import (
	"context"
	"sync"
)

// MockAvatarService records avatar calls for tests.
type MockAvatarService struct {
	mu sync.Mutex

	CreateErr error
	SpeakErr  error
	EndErr    error

	Created int
	Spoken  []string
	Ended   []string
}

var _ AvatarService = (*MockAvatarService)(nil)

func (m *MockAvatarService) CreateSession(ctx context.Context) (*AvatarSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateErr != nil {
		return nil, m.CreateErr
	}
	m.Created++
	return &AvatarSession{SessionID: "avatar-session-1"}, nil
}

func (m *MockAvatarService) Speak(ctx context.Context, sessionID, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SpeakErr != nil {
		return m.SpeakErr
	}
	m.Spoken = append(m.Spoken, text)
	return nil
}

func (m *MockAvatarService) EndSession(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.EndErr != nil {
		return m.EndErr
	}
	m.Ended = append(m.Ended, sessionID)
	return nil
}

// SpokenTexts returns a copy of everything the avatar was asked to say.
func (m *MockAvatarService) SpokenTexts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.Spoken))
	copy(out, m.Spoken)
	return out
}

// EndedSessions returns a copy of the ended session ids.
func (m *MockAvatarService) EndedSessions() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.Ended))
	copy(out, m.Ended)
	return out
}
