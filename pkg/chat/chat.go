package chat

import "fmt"

const (
	RoleUser   = "user"      // the player, speaking as Zelensky
	RoleAgent  = "assistant" // the roleplayed counterpart
	RoleSystem = "system"    // persona and scene instructions
)

// Message is a single prompt message in the shape LLM providers expect.
type Message struct {
	Role    string `json:"role"` // "user", "assistant", "system"
	Content string `json:"content"`
}

const (
	SpeakerUser  = "user"
	SpeakerAgent = "ai"
)

// Exchange is one recorded turn of the negotiation transcript.
type Exchange struct {
	Speaker string `json:"speaker"` // "user" or "ai"
	Text    string `json:"text"`
}

// StateSnapshot is the caller-facing view of session state. It carries
// no internal bookkeeping fields and is safe to return from the API.
type StateSnapshot struct {
	Score       int      `json:"score"`
	AidReleased int      `json:"aidReleased"`
	Concessions []string `json:"concessions"`
	Outcome     string   `json:"outcome,omitempty"`
}

// InteractRequest is the body of POST /api/session/{id}/interact.
type InteractRequest struct {
	Text *string `json:"text"`
}

func (r *InteractRequest) Validate() error {
	if r.Text == nil {
		return fmt.Errorf("text is required")
	}
	return nil
}

// InteractResponse is returned for each processed utterance.
type InteractResponse struct {
	AIResponse  string        `json:"aiResponse"`
	State       StateSnapshot `json:"state"`
	ScoreChange int           `json:"scoreChange"`
}

// StartResponse is returned when a new session is created.
type StartResponse struct {
	SessionID string        `json:"sessionId"`
	Initial   string        `json:"initial"`
	State     StateSnapshot `json:"state"`
}

// ConversationResponse is the transcript view of a session.
type ConversationResponse struct {
	Conversation []Exchange    `json:"conversation"`
	State        StateSnapshot `json:"state"`
}

// EndResponse acknowledges session teardown.
type EndResponse struct {
	Success bool `json:"success"`
}
