package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/jwebster45206/backchannel/internal/services"
	"github.com/jwebster45206/backchannel/internal/store"
	"github.com/jwebster45206/backchannel/pkg/analysis"
	"github.com/jwebster45206/backchannel/pkg/chat"
	"github.com/jwebster45206/backchannel/pkg/negotiation"
	"github.com/jwebster45206/backchannel/pkg/prompts"
)

// ErrInvalidInput is returned for empty or whitespace-only utterances.
var ErrInvalidInput = errors.New("invalid input")

// InteractResult is the outcome of one processed utterance.
type InteractResult struct {
	Reply       string
	State       chat.StateSnapshot
	ScoreChange int
}

// Engine sequences one interaction: extract signals, score, apply to the
// session, persist, generate the counterpart's reply, and hand the reply to
// the avatar presenter. Generative failures degrade to a canned reply and
// avatar failures are ignored entirely; neither ever surfaces to the caller.
type Engine struct {
	store        store.Store
	llm          services.LLMService
	avatar       services.AvatarService
	presenter    *services.Presenter
	logger       *slog.Logger
	historyLimit int
	llmTimeout   time.Duration

	// Interactions against the same session are serialized. The original
	// design let simultaneous requests race on read-modify-write; keyed
	// locking replaces that documented race.
	locks sync.Map // session id -> *sync.Mutex
}

// Options configures optional engine collaborators.
type Options struct {
	// LLM generates replies. When nil, every reply comes from the
	// deterministic fallback table.
	LLM services.LLMService

	// Avatar manages provider avatar sessions. When nil, sessions run
	// without an avatar.
	Avatar services.AvatarService

	// Presenter delivers replies to the avatar asynchronously.
	Presenter *services.Presenter

	HistoryLimit int
	LLMTimeout   time.Duration
}

// New creates an engine over the given session store.
func New(st store.Store, logger *slog.Logger, opts Options) *Engine {
	if opts.HistoryLimit <= 0 {
		opts.HistoryLimit = negotiation.ConversationLimit
	}
	if opts.LLMTimeout <= 0 {
		opts.LLMTimeout = 10 * time.Second
	}
	return &Engine{
		store:        st,
		llm:          opts.LLM,
		avatar:       opts.Avatar,
		presenter:    opts.Presenter,
		logger:       logger,
		historyLimit: opts.HistoryLimit,
		llmTimeout:   opts.LLMTimeout,
	}
}

// StartSession creates a fresh session, best-effort attaches an avatar
// session, and persists it. The scripted opening line is recorded as the
// counterpart's first utterance.
func (e *Engine) StartSession(ctx context.Context) (*negotiation.State, error) {
	s := negotiation.NewState()

	if e.avatar != nil {
		avatarSession, err := e.avatar.CreateSession(ctx)
		if err != nil {
			// The negotiation continues without a face.
			e.logger.Warn("Avatar session creation failed", "error", err)
		} else {
			s.AvatarSessionID = avatarSession.SessionID
		}
	}

	s.AppendExchange(chat.SpeakerAgent, prompts.OpeningLine)

	if err := e.store.Save(ctx, s); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	e.logger.Info("Session started", "session_id", s.ID,
		"avatar", s.AvatarSessionID != "")
	return s, nil
}

// Interact processes one player utterance and returns the counterpart's
// reply together with the updated state.
func (e *Engine) Interact(ctx context.Context, id, text string) (*InteractResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrInvalidInput
	}

	unlock := e.lock(id)
	defer unlock()

	s, err := e.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	sig := analysis.Analyze(text)
	delta := negotiation.Score(sig)
	priorScore := s.Score

	if err := s.Apply(delta); err != nil {
		if errors.Is(err, negotiation.ErrSessionEnded) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("failed to apply delta: %w", err)
	}
	s.AppendExchange(chat.SpeakerUser, text)

	// Commit the scoring outcome before any outbound call, so a provider
	// failure can never roll back negotiation progress.
	if err := e.store.Save(ctx, s); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	reply := e.generateReply(ctx, s, text)
	s.AppendExchange(chat.SpeakerAgent, reply)

	if err := e.store.Save(ctx, s); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	if e.presenter != nil {
		e.presenter.Speak(s.AvatarSessionID, reply)
	}

	e.logger.Debug("Interaction processed",
		"session_id", s.ID,
		"score", s.Score,
		"aid_released", s.AidReleased,
		"score_change", s.Score-priorScore)

	return &InteractResult{
		Reply:       reply,
		State:       s.Snapshot(),
		ScoreChange: s.Score - priorScore,
	}, nil
}

// Conversation returns the current session state including the transcript.
func (e *Engine) Conversation(ctx context.Context, id string) (*negotiation.State, error) {
	return e.store.Get(ctx, id)
}

// End tears down a session. Ending an unknown or already-ended session
// succeeds: teardown is idempotent.
func (e *Engine) End(ctx context.Context, id string) error {
	unlock := e.lock(id)
	defer unlock()

	s, err := e.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		return err
	}

	e.releaseAvatar(s)

	if err := e.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	e.locks.Delete(id)

	e.logger.Info("Session ended", "session_id", id)
	return nil
}

// HandleExpiry releases provider resources for a session removed by the
// expiry sweep.
func (e *Engine) HandleExpiry(s *negotiation.State) {
	e.releaseAvatar(s)
	e.locks.Delete(s.ID)
}

func (e *Engine) releaseAvatar(s *negotiation.State) {
	if e.avatar == nil || s.AvatarSessionID == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), e.llmTimeout)
	defer cancel()
	if err := e.avatar.EndSession(ctx, s.AvatarSessionID); err != nil {
		e.logger.Warn("Failed to end avatar session",
			"session_id", s.ID,
			"avatar_session_id", s.AvatarSessionID,
			"error", err)
	}
}

// generateReply asks the LLM for the counterpart's next line. Any failure
// degrades to the canned fallback table, selected by turn number so the
// degraded conversation is still deterministic.
func (e *Engine) generateReply(ctx context.Context, s *negotiation.State, text string) string {
	if e.llm == nil {
		return prompts.FallbackReply(s.PlayerTurns())
	}

	messages, err := prompts.New().
		WithState(s).
		WithUserMessage(text).
		WithHistoryLimit(e.historyLimit).
		Build()
	if err != nil {
		e.logger.Error("Failed to build prompt", "session_id", s.ID, "error", err)
		return prompts.FallbackReply(s.PlayerTurns())
	}

	llmCtx, cancel := context.WithTimeout(ctx, e.llmTimeout)
	defer cancel()

	reply, err := e.llm.GenerateReply(llmCtx, messages)
	if err != nil {
		e.logger.Warn("Reply generation failed, using fallback",
			"session_id", s.ID, "error", err)
		return prompts.FallbackReply(s.PlayerTurns())
	}
	return reply
}

func (e *Engine) lock(id string) func() {
	mu, _ := e.locks.LoadOrStore(id, &sync.Mutex{})
	m := mu.(*sync.Mutex)
	m.Lock()
	return m.Unlock
}
