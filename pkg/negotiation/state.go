package negotiation

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/jwebster45206/backchannel/pkg/chat"
)

// Status is the session lifecycle position. Created moves to Active on the
// first applied interaction; Ended is terminal.
type Status string

const (
	StatusCreated Status = "created"
	StatusActive  Status = "active"
	StatusEnded   Status = "ended"
)

var (
	// ErrSessionEnded is returned when a delta is applied to an ended session.
	ErrSessionEnded = errors.New("session has ended")

	// ErrInvalidDelta is returned for malformed deltas. The state is left
	// untouched when this is returned.
	ErrInvalidDelta = errors.New("invalid delta")
)

const (
	// ConversationLimit caps the retained transcript. Oldest entries are
	// dropped first once the cap is exceeded.
	ConversationLimit = 20

	// Outcome thresholds, from the referee's scoring rules.
	counterpartWinScore = 30
	counterpartWinAid   = 25
	playerWinScore      = 80
	playerWinAid        = 75

	// Win conditions are not evaluated before this many player turns;
	// every session starts inside the counterpart's winning band.
	minOutcomeTurns = 5
)

const (
	OutcomePlayerWin      = "player"
	OutcomeCounterpartWin = "counterpart"
)

// State is the mutable per-session negotiation state. It is mutated only
// through Apply and AppendExchange.
type State struct {
	ID              string          `json:"id"`
	Score           int             `json:"score"`
	AidReleased     int             `json:"aid_released"`
	Concessions     []string        `json:"concessions"`
	Conversation    []chat.Exchange `json:"conversation"`
	Status          Status          `json:"status"`
	AvatarSessionID string          `json:"avatar_session_id,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	LastActivity    time.Time       `json:"last_activity"`
}

// NewState creates a fresh session with a unique identifier.
func NewState() *State {
	now := time.Now().UTC()
	return &State{
		ID:           uuid.New().String(),
		Concessions:  []string{},
		Conversation: []chat.Exchange{},
		Status:       StatusCreated,
		CreatedAt:    now,
		LastActivity: now,
	}
}

// Apply folds a scoring delta into the state. The update is transactional:
// either score, aid and concessions all commit, or nothing changes and an
// error is returned. Score and aid are clamped to [0,100] after the full
// delta has been added to the running total, so a clamped session resumes
// from the clamped value rather than a hidden accumulator.
func (s *State) Apply(d Delta) error {
	if s.Status == StatusEnded {
		return ErrSessionEnded
	}
	for _, label := range d.Concessions {
		if label == "" {
			return ErrInvalidDelta
		}
	}

	s.Score = clamp(s.Score + d.Score)
	s.AidReleased = clamp(s.AidReleased + d.Aid)

	for _, label := range d.Concessions {
		if !s.HasConcession(label) {
			s.Concessions = append(s.Concessions, label)
		}
	}

	if s.Status == StatusCreated {
		s.Status = StatusActive
	}
	s.LastActivity = time.Now().UTC()
	return nil
}

// AppendExchange records one transcript entry, dropping the oldest entries
// once the retention cap is exceeded.
func (s *State) AppendExchange(speaker, text string) {
	s.Conversation = append(s.Conversation, chat.Exchange{Speaker: speaker, Text: text})
	if len(s.Conversation) > ConversationLimit {
		s.Conversation = s.Conversation[len(s.Conversation)-ConversationLimit:]
	}
	s.LastActivity = time.Now().UTC()
}

// HasConcession reports whether a concession label has been recorded.
func (s *State) HasConcession(label string) bool {
	for _, c := range s.Concessions {
		if c == label {
			return true
		}
	}
	return false
}

// PlayerTurns counts utterances the player has made this session.
func (s *State) PlayerTurns() int {
	n := 0
	for _, ex := range s.Conversation {
		if ex.Speaker == chat.SpeakerUser {
			n++
		}
	}
	return n
}

// Outcome evaluates the referee's win conditions. It returns an empty
// string while the negotiation is still open.
func (s *State) Outcome() string {
	if s.PlayerTurns() < minOutcomeTurns {
		return ""
	}
	if s.Score > playerWinScore && s.AidReleased > playerWinAid {
		return OutcomePlayerWin
	}
	if s.Score < counterpartWinScore && s.AidReleased < counterpartWinAid {
		return OutcomeCounterpartWin
	}
	return ""
}

// End marks the session terminal. Ending an already-ended session is a no-op.
func (s *State) End() {
	s.Status = StatusEnded
}

// Expired reports whether the session has been inactive longer than ttl.
func (s *State) Expired(ttl time.Duration) bool {
	return time.Since(s.LastActivity) > ttl
}

// Snapshot returns the caller-facing view of the state.
func (s *State) Snapshot() chat.StateSnapshot {
	concessions := make([]string, len(s.Concessions))
	copy(concessions, s.Concessions)
	return chat.StateSnapshot{
		Score:       s.Score,
		AidReleased: s.AidReleased,
		Concessions: concessions,
		Outcome:     s.Outcome(),
	}
}

// Clone returns a deep copy. Stores hand out clones so that callers never
// alias the stored value.
func (s *State) Clone() *State {
	c := *s
	c.Concessions = make([]string, len(s.Concessions))
	copy(c.Concessions, s.Concessions)
	c.Conversation = make([]chat.Exchange, len(s.Conversation))
	copy(c.Conversation, s.Conversation)
	return &c
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
