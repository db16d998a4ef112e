package state

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	store := NewMemoryStore()
	store.now = func() time.Time { return now }

	if err := store.SaveState(ctx, "", time.Minute); err == nil {
		t.Error("SaveState() expected error for empty state")
	}

	if err := store.SaveState(ctx, "a", time.Minute); err != nil {
		t.Fatalf("SaveState() error = %v", err)
	}
	if err := store.SaveState(ctx, "b", time.Minute); err != nil {
		t.Fatalf("SaveState() error = %v", err)
	}

	// Consumed once only
	if err := store.ConsumeState(ctx, "a"); err != nil {
		t.Errorf("ConsumeState(a) error = %v", err)
	}
	if err := store.ConsumeState(ctx, "a"); !errors.Is(err, ErrInvalidState) {
		t.Errorf("ConsumeState(a) again error = %v, want %v", err, ErrInvalidState)
	}

	// Expired after the deadline
	now = now.Add(2 * time.Minute)
	if err := store.ConsumeState(ctx, "b"); !errors.Is(err, ErrStateExpired) {
		t.Errorf("ConsumeState(b) error = %v, want %v", err, ErrStateExpired)
	}

	// Saving prunes expired entries
	if err := store.SaveState(ctx, "c", -time.Second); err != nil {
		t.Fatalf("SaveState() error = %v", err)
	}
	now = now.Add(time.Second)
	if err := store.SaveState(ctx, "d", time.Minute); err != nil {
		t.Fatalf("SaveState() error = %v", err)
	}
	if _, ok := store.states["c"]; ok {
		t.Error("expired state c was not pruned")
	}

	if err := store.CheckHealth(ctx); err != nil {
		t.Errorf("CheckHealth() error = %v", err)
	}
}

func TestMemoryStore_MaxEntries(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	store := NewMemoryStore(WithMaxEntries(2))
	store.now = func() time.Time { return now }

	for _, st := range []string{"a", "b"} {
		if err := store.SaveState(ctx, st, time.Minute); err != nil {
			t.Fatalf("SaveState(%s) error = %v", st, err)
		}
	}

	if err := store.SaveState(ctx, "c", time.Minute); !errors.Is(err, ErrStoreFull) {
		t.Errorf("SaveState(c) error = %v, want %v", err, ErrStoreFull)
	}
	if len(store.states) != 2 {
		t.Errorf("stored states = %d, want 2", len(store.states))
	}

	// Consuming frees a slot
	if err := store.ConsumeState(ctx, "a"); err != nil {
		t.Fatalf("ConsumeState(a) error = %v", err)
	}
	if err := store.SaveState(ctx, "c", time.Minute); err != nil {
		t.Errorf("SaveState(c) after consume error = %v", err)
	}

	// So does expiry
	now = now.Add(2 * time.Minute)
	if err := store.SaveState(ctx, "d", time.Minute); err != nil {
		t.Errorf("SaveState(d) after expiry error = %v", err)
	}
}

func TestNewMemoryStore_DefaultMaxEntries(t *testing.T) {
	if got := NewMemoryStore().maxEntries; got != DefaultMaxEntries {
		t.Errorf("maxEntries = %d, want %d", got, DefaultMaxEntries)
	}
	if got := NewMemoryStore(WithMaxEntries(0)).maxEntries; got != DefaultMaxEntries {
		t.Errorf("maxEntries with WithMaxEntries(0) = %d, want %d", got, DefaultMaxEntries)
	}
}
