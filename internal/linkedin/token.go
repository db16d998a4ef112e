package linkedin

import (
	"encoding/json"
	"fmt"
	"time"

	"golang.org/x/oauth2"
)

// AccessToken is a parsed token endpoint response
type AccessToken struct {
	AccessToken           string `json:"accessToken"`
	ExpiresIn             int    `json:"expiresIn"`
	RefreshToken          string `json:"refreshToken,omitempty"`
	RefreshTokenExpiresIn int    `json:"refreshTokenExpiresIn,omitempty"`
	Scope                 string `json:"scope,omitempty"`
}

// tokenPayload accepts both the documented camelCase names and the
// snake_case names LinkedIn's token endpoint answers with.
type tokenPayload struct {
	AccessToken           *string `json:"accessToken"`
	ExpiresIn             *int    `json:"expiresIn"`
	RefreshToken          *string `json:"refreshToken"`
	RefreshTokenExpiresIn *int    `json:"refreshTokenExpiresIn"`
	Scope                 *string `json:"scope"`

	SnakeAccessToken           *string `json:"access_token"`
	SnakeExpiresIn             *int    `json:"expires_in"`
	SnakeRefreshToken          *string `json:"refresh_token"`
	SnakeRefreshTokenExpiresIn *int    `json:"refresh_token_expires_in"`
}

// ParseAccessToken parses a token endpoint JSON body. Unknown fields are
// ignored; a body that is not JSON or has no access token fails with
// ErrMalformedResponse.
func ParseAccessToken(raw string) (*AccessToken, error) {
	var p tokenPayload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	token := &AccessToken{
		AccessToken:           firstString(p.AccessToken, p.SnakeAccessToken),
		ExpiresIn:             firstInt(p.ExpiresIn, p.SnakeExpiresIn),
		RefreshToken:          firstString(p.RefreshToken, p.SnakeRefreshToken),
		RefreshTokenExpiresIn: firstInt(p.RefreshTokenExpiresIn, p.SnakeRefreshTokenExpiresIn),
		Scope:                 firstString(p.Scope),
	}
	if token.AccessToken == "" {
		return nil, fmt.Errorf("%w: missing accessToken", ErrMalformedResponse)
	}

	return token, nil
}

// OAuth2Token converts the token for use with golang.org/x/oauth2 clients.
// Expiry is computed relative to issuedAt; a zero ExpiresIn means no expiry.
func (t *AccessToken) OAuth2Token(issuedAt time.Time) *oauth2.Token {
	tok := &oauth2.Token{
		AccessToken:  t.AccessToken,
		TokenType:    "Bearer",
		RefreshToken: t.RefreshToken,
	}
	if t.ExpiresIn > 0 {
		tok.Expiry = issuedAt.Add(time.Duration(t.ExpiresIn) * time.Second)
	}
	return tok.WithExtra(map[string]interface{}{
		"scope":                    t.Scope,
		"refresh_token_expires_in": t.RefreshTokenExpiresIn,
	})
}

func firstString(values ...*string) string {
	for _, v := range values {
		if v != nil {
			return *v
		}
	}
	return ""
}

func firstInt(values ...*int) int {
	for _, v := range values {
		if v != nil {
			return *v
		}
	}
	return 0
}
