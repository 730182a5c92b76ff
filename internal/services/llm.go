package services

import (
	"context"

	"github.com/jwebster45206/backchannel/pkg/chat"
)

// LLMService is the narrow interface to the generative-text provider. The
// vendor's response schema never crosses this boundary: callers get text or
// an error.
type LLMService interface {
	// GenerateReply produces the counterpart's next utterance from a
	// system prompt, windowed history and user message.
	GenerateReply(ctx context.Context, messages []chat.Message) (string, error)
}

// splitMessages extracts and combines all system messages into a single
// system prompt and returns the remaining non-system messages.
func splitMessages(messages []chat.Message) (string, []chat.Message) {
	var system string
	var rest []chat.Message
	for _, msg := range messages {
		if msg.Role == chat.RoleSystem {
			if system != "" {
				system += "\n\n"
			}
			system += msg.Content
		} else {
			rest = append(rest, msg)
		}
	}
	return system, rest
}
