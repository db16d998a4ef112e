package linkedin

import (
	"strings"

	"github.com/wrale/linkedin-oauth/internal/validation"
)

// Common LinkedIn permission identifiers
const (
	ScopeOpenID       = "openid"
	ScopeProfile      = "profile"
	ScopeEmail        = "email"
	ScopeMemberSocial = "w_member_social"
	ScopeLiteProfile  = "r_liteprofile"
	ScopeEmailAddress = "r_emailaddress"
)

// ScopeBuilder accumulates permission identifiers into a space-delimited scope
type ScopeBuilder struct {
	scopes []string
	seen   map[string]struct{}
}

// NewScopeBuilder creates a builder seeded with the given scopes
func NewScopeBuilder(scopes ...string) *ScopeBuilder {
	sb := &ScopeBuilder{seen: make(map[string]struct{})}
	return sb.Add(scopes...)
}

// Add appends scopes, skipping empty and already present identifiers
func (sb *ScopeBuilder) Add(scopes ...string) *ScopeBuilder {
	for _, s := range scopes {
		if s == "" {
			continue
		}
		if _, ok := sb.seen[s]; ok {
			continue
		}
		sb.seen[s] = struct{}{}
		sb.scopes = append(sb.scopes, s)
	}
	return sb
}

// Validate checks every accumulated identifier against the scope-token charset
func (sb *ScopeBuilder) Validate() error {
	return validation.ValidateScope(sb.Build())
}

// Build returns the scopes joined by single spaces, in insertion order
func (sb *ScopeBuilder) Build() string {
	return strings.Join(sb.scopes, " ")
}
