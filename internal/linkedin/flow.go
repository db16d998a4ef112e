package linkedin

import (
	"context"
	"fmt"
)

// Exchanger executes a request descriptor and returns the raw response body
type Exchanger interface {
	Exchange(ctx context.Context, req *Request) (string, error)
}

// ExchangerFunc adapts an ordinary function to the Exchanger interface
type ExchangerFunc func(ctx context.Context, req *Request) (string, error)

// Exchange calls f(ctx, req)
func (f ExchangerFunc) Exchange(ctx context.Context, req *Request) (string, error) {
	return f(ctx, req)
}

// CompleteAuthorization exchanges an authorization code through ex and
// parses the resulting token.
func (a *Assembler) CompleteAuthorization(ctx context.Context, ex Exchanger, code string) (*AccessToken, error) {
	req, err := a.AccessTokenRequest(code)
	if err != nil {
		return nil, err
	}

	body, err := ex.Exchange(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("exchanging authorization code: %w", err)
	}

	return ParseAccessToken(body)
}
