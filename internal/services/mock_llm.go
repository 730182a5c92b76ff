package services

import (
	"context"
	"sync"

	"github.com/jwebster45206/backchannel/pkg/chat"
)

// MockLLMService is a canned LLMService for tests.
type MockLLMService struct {
	mu sync.Mutex

	Reply string
	Err   error

	// LastMessages holds the messages of the most recent call.
	LastMessages []chat.Message
	Calls        int
}

var _ LLMService = (*MockLLMService)(nil)

func (m *MockLLMService) GenerateReply(ctx context.Context, messages []chat.Message) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls++
	m.LastMessages = messages
	if m.Err != nil {
		return "", m.Err
	}
	if m.Reply == "" {
		return "A perfect response, totally perfect.", nil
	}
	return m.Reply, nil
}
