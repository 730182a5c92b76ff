package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/jwebster45206/backchannel/pkg/speech"
)

const presenterQueueSize = 16

type speakTask struct {
	sessionID string
	text      string
}

// Presenter delivers replies to the avatar asynchronously. Speak never
// blocks the caller: tasks are queued and consumed by a single worker
// goroutine, and every failure is logged and dropped. The negotiation result
// has already been returned by the time the avatar moves its lips.
type Presenter struct {
	avatar    AvatarService
	sanitizer *speech.Sanitizer
	timeout   time.Duration
	logger    *slog.Logger

	tasks chan speakTask
	done  chan struct{}
}

// NewPresenter creates a presenter for the given avatar service.
func NewPresenter(avatar AvatarService, timeout time.Duration, logger *slog.Logger) *Presenter {
	return &Presenter{
		avatar:    avatar,
		sanitizer: speech.NewSanitizer(),
		timeout:   timeout,
		logger:    logger,
		tasks:     make(chan speakTask, presenterQueueSize),
		done:      make(chan struct{}),
	}
}

// Start launches the delivery loop.
func (p *Presenter) Start() {
	go p.run()
}

// Stop halts delivery. Queued tasks are abandoned.
func (p *Presenter) Stop() {
	close(p.done)
}

// Speak queues text for avatar delivery. If the queue is full the task is
// dropped with a warning; speech is strictly best-effort.
func (p *Presenter) Speak(sessionID, text string) {
	if sessionID == "" {
		return
	}
	select {
	case p.tasks <- speakTask{sessionID: sessionID, text: text}:
	default:
		p.logger.Warn("Avatar queue full, dropping speech task",
			"avatar_session_id", sessionID)
	}
}

func (p *Presenter) run() {
	for {
		select {
		case <-p.done:
			return
		case task := <-p.tasks:
			p.deliver(task)
		}
	}
}

func (p *Presenter) deliver(task speakTask) {
	text := p.sanitizer.Sanitize(task.text)
	if text == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	if err := p.avatar.Speak(ctx, task.sessionID, text); err != nil {
		p.logger.Warn("Avatar speech failed",
			"avatar_session_id", task.sessionID,
			"error", err)
	}
}
