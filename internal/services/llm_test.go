package services

import (
	"log/slog"
	"os"
	"testing"

	"github.com/jwebster45206/backchannel/pkg/chat"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError, // Reduce noise in tests
	}))
}

func TestSplitMessages(t *testing.T) {
	messages := []chat.Message{
		{Role: chat.RoleSystem, Content: "persona"},
		{Role: chat.RoleUser, Content: "hello"},
		{Role: chat.RoleAgent, Content: "tremendous"},
		{Role: chat.RoleSystem, Content: "extra instruction"},
	}

	system, rest := splitMessages(messages)
	if system != "persona\n\nextra instruction" {
		t.Errorf("System prompt mismatch: %q", system)
	}
	if len(rest) != 2 {
		t.Fatalf("Expected 2 conversation messages, got %d", len(rest))
	}
	if rest[0].Role != chat.RoleUser || rest[1].Role != chat.RoleAgent {
		t.Errorf("Conversation roles wrong: %+v", rest)
	}
}

func TestSplitMessages_NoSystem(t *testing.T) {
	system, rest := splitMessages([]chat.Message{{Role: chat.RoleUser, Content: "hi"}})
	if system != "" {
		t.Errorf("Expected empty system prompt, got %q", system)
	}
	if len(rest) != 1 {
		t.Errorf("Expected 1 message, got %d", len(rest))
	}
}
