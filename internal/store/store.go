package store

import (
	"context"
	"errors"

	"github.com/jwebster45206/backchannel/pkg/negotiation"
)

// ErrNotFound is returned when a session identifier is unknown. Ended and
// expired sessions are removed from storage, so both report not-found.
var ErrNotFound = errors.New("session not found")

// Store is the session persistence interface. Implementations hand out
// deep copies: callers never share memory with the stored value.
type Store interface {
	// Ping tests the backing connection
	Ping(ctx context.Context) error

	// Close closes the backing connection
	Close() error

	// Save persists a session keyed by its ID
	Save(ctx context.Context, s *negotiation.State) error

	// Get retrieves a session by ID, or ErrNotFound
	Get(ctx context.Context, id string) (*negotiation.State, error)

	// Delete removes a session by ID. Deleting an unknown ID is a no-op.
	Delete(ctx context.Context, id string) error
}
