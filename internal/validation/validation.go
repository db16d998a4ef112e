// Package validation provides input validation for OAuth request parameters
package validation

import (
	"fmt"
	"regexp"
	"strings"
)

// Validation settings
const (
	MaxStateLength = 512 // Upper bound for state values carried in redirects
	MaxScopeLength = 1024
)

var (
	// scope-token = 1*( %x21 / %x23-5B / %x5D-7E ) per RFC 6749 section 3.3
	scopeTokenRegex = regexp.MustCompile(`^[\x21\x23-\x5B\x5D-\x7E]+$`)

	// State values travel in query strings, so only unreserved characters
	// plus the '.' separator of signed values are accepted
	stateRegex = regexp.MustCompile(`^[A-Za-z0-9\-._~=]+$`)
)

// ValidationError represents a parameter validation error
type ValidationError struct {
	Value   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid value %q: %s", e.Value, e.Message)
}

// ValidateScope checks a space-delimited scope string
func ValidateScope(scope string) error {
	if scope == "" {
		return &ValidationError{Value: scope, Message: "scope must not be empty"}
	}
	if len(scope) > MaxScopeLength {
		return &ValidationError{
			Value:   scope,
			Message: fmt.Sprintf("scope must be at most %d characters", MaxScopeLength),
		}
	}

	// Tokens are separated by exactly one space
	for _, token := range strings.Split(scope, " ") {
		if token == "" {
			return &ValidationError{Value: scope, Message: "scope tokens must be separated by single spaces"}
		}
		if !scopeTokenRegex.MatchString(token) {
			return &ValidationError{
				Value:   scope,
				Message: fmt.Sprintf("scope token %q contains disallowed characters", token),
			}
		}
	}

	return nil
}

// ValidateState checks a state value received on or sent with a redirect
func ValidateState(state string) error {
	if state == "" {
		return &ValidationError{Value: state, Message: "state must not be empty"}
	}
	if len(state) > MaxStateLength {
		return &ValidationError{
			Value:   state,
			Message: fmt.Sprintf("state must be at most %d characters", MaxStateLength),
		}
	}
	if !stateRegex.MatchString(state) {
		return &ValidationError{Value: state, Message: "state contains disallowed characters"}
	}
	return nil
}

// SplitScope splits a scope string into its tokens, ignoring extra spaces
func SplitScope(scope string) []string {
	return strings.Fields(scope)
}
