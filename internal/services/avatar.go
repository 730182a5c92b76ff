package services

import "context"

// AvatarSession holds what a client needs to attach to a live avatar stream.
type AvatarSession struct {
	SessionID   string `json:"session_id"`
	AccessToken string `json:"access_token,omitempty"`
	URL         string `json:"url,omitempty"`
}

// AvatarService is the talking-avatar provider boundary. All operations are
// best-effort from the game's point of view: failures are logged by callers
// and never affect negotiation state or responses.
type AvatarService interface {
	// CreateSession starts a streaming avatar session
	CreateSession(ctx context.Context) (*AvatarSession, error)

	// Speak has the avatar read the given text aloud
	Speak(ctx context.Context, sessionID, text string) error

	// EndSession tears down a streaming session. Unknown sessions are
	// treated as already ended.
	EndSession(ctx context.Context, sessionID string) error
}
