package linkedin

import "errors"

// Errors returned by the request assembly helpers. Call sites wrap them with
// context, so compare with errors.Is.
var (
	// ErrInvalidConfig indicates a required service configuration value is empty
	ErrInvalidConfig = errors.New("invalid oauth service config")

	// ErrInvalidInput indicates a required flow argument (code, refresh token, token) is empty
	ErrInvalidInput = errors.New("invalid oauth input")

	// ErrMalformedResponse indicates a token response that is not JSON or lacks the access token
	ErrMalformedResponse = errors.New("malformed token response")
)
