package prompts

import (
	"fmt"

	"github.com/jwebster45206/backchannel/pkg/chat"
	"github.com/jwebster45206/backchannel/pkg/negotiation"
)

// Builder constructs the message array for one generative call using a
// fluent interface. It keeps prompt assembly separate from session state
// management.
type Builder struct {
	state        *negotiation.State
	userMessage  string
	historyLimit int
}

// New creates a prompt builder with default settings.
func New() *Builder {
	return &Builder{
		historyLimit: negotiation.ConversationLimit,
	}
}

// WithState sets the session state interpolated into the system prompt and
// used as conversation history.
func (b *Builder) WithState(s *negotiation.State) *Builder {
	b.state = s
	return b
}

// WithUserMessage sets the utterance being answered.
func (b *Builder) WithUserMessage(message string) *Builder {
	b.userMessage = message
	return b
}

// WithHistoryLimit sets the transcript window size.
func (b *Builder) WithHistoryLimit(limit int) *Builder {
	if limit > 0 {
		b.historyLimit = limit
	}
	return b
}

// Build returns the final message array: system prompt, windowed history,
// then the user message. The current utterance is excluded from the history
// window when the state already contains it.
func (b *Builder) Build() ([]chat.Message, error) {
	if b.state == nil {
		return nil, fmt.Errorf("state is required")
	}
	if b.userMessage == "" {
		return nil, fmt.Errorf("user message is required")
	}

	messages := []chat.Message{{
		Role:    chat.RoleSystem,
		Content: renderSystemPrompt(b.state.Score, b.state.AidReleased, b.state.Concessions),
	}}

	history := b.state.Conversation
	if n := len(history); n > 0 {
		last := history[n-1]
		if last.Speaker == chat.SpeakerUser && last.Text == b.userMessage {
			history = history[:n-1]
		}
	}
	if len(history) > b.historyLimit {
		history = history[len(history)-b.historyLimit:]
	}

	for _, ex := range history {
		role := chat.RoleAgent
		if ex.Speaker == chat.SpeakerUser {
			role = chat.RoleUser
		}
		messages = append(messages, chat.Message{Role: role, Content: ex.Text})
	}

	messages = append(messages, chat.Message{Role: chat.RoleUser, Content: b.userMessage})
	return messages, nil
}
