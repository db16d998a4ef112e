// Package state issues and verifies the OAuth state values that bind an
// authorization callback to the login that started it
package state

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrInvalidState indicates a missing, forged or already used state value
	ErrInvalidState = errors.New("invalid oauth state")

	// ErrStateExpired indicates the state value outlived its expiry
	ErrStateExpired = errors.New("oauth state expired")
)

// Store provides state storage operations
type Store interface {
	// SaveState stores a state value with expiry
	SaveState(ctx context.Context, state string, expiresIn time.Duration) error

	// ConsumeState removes a stored state value, failing if it is absent or expired
	ConsumeState(ctx context.Context, state string) error

	// CheckHealth verifies the store is operational
	CheckHealth(ctx context.Context) error
}

// Manager handles state generation and single-use validation
type Manager struct {
	store     Store
	secret    []byte
	expiresIn time.Duration
}

// NewManager creates a new state manager
func NewManager(store Store, secret []byte, expiresIn time.Duration) *Manager {
	return &Manager{
		store:     store,
		secret:    secret,
		expiresIn: expiresIn,
	}
}

// Generate creates, signs and stores a new state value
func (m *Manager) Generate(ctx context.Context) (string, error) {
	// Generate 32 bytes of random data
	nonce := make([]byte, 32)
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("generating random bytes: %w", err)
	}
	value := base64.RawURLEncoding.EncodeToString(nonce)

	state := value + "." + base64.RawURLEncoding.EncodeToString(m.sign(value))

	if err := m.store.SaveState(ctx, state, m.expiresIn); err != nil {
		return "", fmt.Errorf("saving state: %w", err)
	}

	return state, nil
}

// Consume verifies a state value and removes it so it cannot be replayed
func (m *Manager) Consume(ctx context.Context, state string) error {
	if state == "" {
		return ErrInvalidState
	}

	value, sig, ok := strings.Cut(state, ".")
	if !ok || value == "" {
		return ErrInvalidState
	}

	actualSig, err := base64.RawURLEncoding.DecodeString(sig)
	if err != nil {
		return ErrInvalidState
	}
	if !hmac.Equal(m.sign(value), actualSig) {
		return ErrInvalidState
	}

	// Check and remove from store
	if err := m.store.ConsumeState(ctx, state); err != nil {
		return fmt.Errorf("consuming state: %w", err)
	}

	return nil
}

// CheckHealth verifies the state store is operational
func (m *Manager) CheckHealth(ctx context.Context) error {
	if err := m.store.CheckHealth(ctx); err != nil {
		return fmt.Errorf("state store health check failed: %w", err)
	}
	return nil
}

func (m *Manager) sign(value string) []byte {
	h := hmac.New(sha256.New, m.secret)
	h.Write([]byte(value))
	return h.Sum(nil)
}
