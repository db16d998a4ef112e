package state

import (
	"context"
	"errors"
	"sync"
	"time"
)

// DefaultMaxEntries bounds the number of pending states a MemoryStore holds
const DefaultMaxEntries = 10000

// ErrStoreFull indicates the store holds its maximum number of pending states
var ErrStoreFull = errors.New("state store full")

// MemoryStore keeps state values in process memory. It suits single
// instance deployments without Redis.
type MemoryStore struct {
	mu         sync.Mutex
	states     map[string]time.Time
	maxEntries int
	now        func() time.Time
}

// MemoryOption configures a MemoryStore
type MemoryOption func(*MemoryStore)

// WithMaxEntries caps pending states; values below one keep the default
func WithMaxEntries(n int) MemoryOption {
	return func(s *MemoryStore) {
		if n > 0 {
			s.maxEntries = n
		}
	}
}

// NewMemoryStore creates an empty in-memory state store
func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{
		states:     make(map[string]time.Time),
		maxEntries: DefaultMaxEntries,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SaveState stores a state value with expiration
func (s *MemoryStore) SaveState(ctx context.Context, state string, expiresIn time.Duration) error {
	if state == "" {
		return errors.New("empty state")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.pruneLocked(now)
	if _, ok := s.states[state]; !ok && len(s.states) >= s.maxEntries {
		return ErrStoreFull
	}
	s.states[state] = now.Add(expiresIn)
	return nil
}

// ConsumeState removes a state value, reporting whether it was valid
func (s *MemoryStore) ConsumeState(ctx context.Context, state string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	expiry, ok := s.states[state]
	if !ok {
		return ErrInvalidState
	}
	delete(s.states, state)

	if s.now().After(expiry) {
		return ErrStateExpired
	}
	return nil
}

// CheckHealth always succeeds for the in-memory store
func (s *MemoryStore) CheckHealth(ctx context.Context) error {
	return nil
}

// pruneLocked drops expired entries; callers hold s.mu
func (s *MemoryStore) pruneLocked(now time.Time) {
	for state, expiry := range s.states {
		if now.After(expiry) {
			delete(s.states, state)
		}
	}
}
