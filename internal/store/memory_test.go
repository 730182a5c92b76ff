package store

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/jwebster45206/backchannel/pkg/chat"
	"github.com/jwebster45206/backchannel/pkg/negotiation"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError, // Reduce noise in tests
	}))
}

func TestMemoryStore_SaveGetDelete(t *testing.T) {
	m := NewMemoryStore(30*time.Minute, 10*time.Minute, testLogger())
	defer func() {
		if err := m.Close(); err != nil {
			t.Errorf("Close failed: %v", err)
		}
	}()
	ctx := context.Background()

	s := negotiation.NewState()
	s.AppendExchange(chat.SpeakerUser, "hello")

	if err := m.Save(ctx, s); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := m.Get(ctx, s.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if loaded.ID != s.ID || len(loaded.Conversation) != 1 {
		t.Errorf("Loaded session mismatch: %+v", loaded)
	}

	if err := m.Delete(ctx, s.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := m.Get(ctx, s.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound after delete, got %v", err)
	}

	// Deleting again is a no-op.
	if err := m.Delete(ctx, s.ID); err != nil {
		t.Errorf("Second delete should be a no-op, got %v", err)
	}
}

func TestMemoryStore_GetUnknown(t *testing.T) {
	m := NewMemoryStore(30*time.Minute, 10*time.Minute, testLogger())
	defer func() { _ = m.Close() }()

	if _, err := m.Get(context.Background(), "no-such-id"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStore_NoAliasing(t *testing.T) {
	m := NewMemoryStore(30*time.Minute, 10*time.Minute, testLogger())
	defer func() { _ = m.Close() }()
	ctx := context.Background()

	s := negotiation.NewState()
	if err := m.Save(ctx, s); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// Mutating the caller's copy must not affect the stored value.
	s.Score = 99

	loaded, err := m.Get(ctx, s.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if loaded.Score != 0 {
		t.Errorf("Stored session aliased caller memory, score = %d", loaded.Score)
	}

	// And mutating a loaded copy must not affect the store either.
	loaded.AppendExchange(chat.SpeakerUser, "local only")
	again, err := m.Get(ctx, s.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if len(again.Conversation) != 0 {
		t.Errorf("Loaded session aliased store memory: %+v", again.Conversation)
	}
}

func TestMemoryStore_Sweep(t *testing.T) {
	m := NewMemoryStore(time.Minute, time.Hour, testLogger())
	defer func() { _ = m.Close() }()
	ctx := context.Background()

	var expired []*negotiation.State
	m.OnExpire(func(s *negotiation.State) {
		expired = append(expired, s)
	})

	stale := negotiation.NewState()
	stale.LastActivity = time.Now().UTC().Add(-2 * time.Minute)
	fresh := negotiation.NewState()

	if err := m.Save(ctx, stale); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := m.Save(ctx, fresh); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	m.Sweep()

	if _, err := m.Get(ctx, stale.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected stale session removed, got %v", err)
	}
	if _, err := m.Get(ctx, fresh.ID); err != nil {
		t.Errorf("Fresh session should survive sweep: %v", err)
	}

	if len(expired) != 1 || expired[0].ID != stale.ID {
		t.Fatalf("Expected one expiry callback for stale session, got %d", len(expired))
	}
	if expired[0].Status != negotiation.StatusEnded {
		t.Errorf("Expired session should be ended, got %q", expired[0].Status)
	}
}

func TestMemoryStore_StartStop(t *testing.T) {
	m := NewMemoryStore(time.Minute, 10*time.Millisecond, testLogger())
	m.Start()
	time.Sleep(30 * time.Millisecond)
	m.Stop()
	// Stop twice is safe.
	m.Stop()
}
