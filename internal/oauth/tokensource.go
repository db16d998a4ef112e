package oauth

import (
	"context"
	"errors"
	"time"

	"golang.org/x/oauth2"

	"github.com/wrale/linkedin-oauth/internal/linkedin"
)

// TokenSource returns an oauth2.TokenSource that serves tok until it expires
// and then refreshes it through the provider. LinkedIn may rotate the refresh
// token; the newest one is used for the next refresh.
func (p *LinkedInProvider) TokenSource(ctx context.Context, tok *linkedin.AccessToken, issuedAt time.Time) oauth2.TokenSource {
	return oauth2.ReuseTokenSource(tok.OAuth2Token(issuedAt), &refreshingSource{
		ctx:          ctx,
		provider:     p,
		refreshToken: tok.RefreshToken,
	})
}

// refreshingSource is only called by oauth2.ReuseTokenSource, which
// serializes calls to Token.
type refreshingSource struct {
	ctx          context.Context
	provider     Provider
	refreshToken string
}

func (s *refreshingSource) Token() (*oauth2.Token, error) {
	if s.refreshToken == "" {
		return nil, errors.New("token expired and no refresh token is available")
	}

	tok, err := s.provider.RefreshToken(s.ctx, s.refreshToken)
	if err != nil {
		return nil, err
	}
	if tok.RefreshToken != "" {
		s.refreshToken = tok.RefreshToken
	}

	return tok.OAuth2Token(time.Now()), nil
}
