package prompts

import (
	"strings"
	"testing"

	"github.com/jwebster45206/backchannel/pkg/chat"
	"github.com/jwebster45206/backchannel/pkg/negotiation"
)

func TestBuilder_Build(t *testing.T) {
	s := negotiation.NewState()
	s.Score = 45
	s.AidReleased = 30
	s.Concessions = []string{negotiation.LabelPrimaryConcession}
	s.AppendExchange(chat.SpeakerUser, "hello mr president")
	s.AppendExchange(chat.SpeakerAgent, "a perfect call")

	messages, err := New().
		WithState(s).
		WithUserMessage("we will investigate").
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if len(messages) != 4 {
		t.Fatalf("Expected 4 messages (system, 2 history, user), got %d", len(messages))
	}

	system := messages[0]
	if system.Role != chat.RoleSystem {
		t.Errorf("Expected first message to be system, got %q", system.Role)
	}
	if !strings.Contains(system.Content, "Current aid released: 30%") {
		t.Error("System prompt missing aid interpolation")
	}
	if !strings.Contains(system.Content, "Current negotiation score: 45") {
		t.Error("System prompt missing score interpolation")
	}
	if !strings.Contains(system.Content, negotiation.LabelPrimaryConcession) {
		t.Error("System prompt missing concession interpolation")
	}

	if messages[1].Role != chat.RoleUser || messages[2].Role != chat.RoleAgent {
		t.Errorf("History roles wrong: %q, %q", messages[1].Role, messages[2].Role)
	}

	last := messages[len(messages)-1]
	if last.Role != chat.RoleUser || last.Content != "we will investigate" {
		t.Errorf("Expected trailing user message, got %+v", last)
	}
}

func TestBuilder_NoConcessions(t *testing.T) {
	s := negotiation.NewState()
	messages, err := New().WithState(s).WithUserMessage("hello").Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if !strings.Contains(messages[0].Content, "Concessions made so far: none") {
		t.Error("Expected 'none' placeholder for empty concessions")
	}
}

func TestBuilder_ExcludesCurrentUtteranceFromHistory(t *testing.T) {
	s := negotiation.NewState()
	s.AppendExchange(chat.SpeakerUser, "the current message")

	messages, err := New().WithState(s).WithUserMessage("the current message").Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	// system + user, no duplicated history entry
	if len(messages) != 2 {
		t.Errorf("Expected 2 messages, got %d: %+v", len(messages), messages)
	}
}

func TestBuilder_HistoryWindow(t *testing.T) {
	s := negotiation.NewState()
	for i := 0; i < 10; i++ {
		s.AppendExchange(chat.SpeakerUser, "ping")
		s.AppendExchange(chat.SpeakerAgent, "pong")
	}

	messages, err := New().WithState(s).WithUserMessage("latest").WithHistoryLimit(4).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	// system + 4 windowed + user
	if len(messages) != 6 {
		t.Errorf("Expected 6 messages with window of 4, got %d", len(messages))
	}
}

func TestBuilder_Validation(t *testing.T) {
	if _, err := New().WithUserMessage("hi").Build(); err == nil {
		t.Error("Expected error without state")
	}
	if _, err := New().WithState(negotiation.NewState()).Build(); err == nil {
		t.Error("Expected error without user message")
	}
}

func TestFallbackReply_Deterministic(t *testing.T) {
	if FallbackReply(3) != FallbackReply(3) {
		t.Error("Fallback selection should be deterministic")
	}
	if FallbackReply(0) == "" {
		t.Error("Fallback reply should not be empty")
	}
	// Wraps around the table.
	if FallbackReply(1) != FallbackReply(1+len(fallbackReplies)) {
		t.Error("Fallback selection should wrap modulo the table")
	}
}
