package linkedin

import "fmt"

// GrantType identifies the OAuth2 flow sent as the grant_type parameter
type GrantType string

// Grant types supported by LinkedIn's token endpoint
const (
	GrantAuthorizationCode GrantType = "authorization_code"
	GrantRefreshToken      GrantType = "refresh_token"
	GrantClientCredentials GrantType = "client_credentials"
)

var grantTypes = map[string]GrantType{
	string(GrantAuthorizationCode): GrantAuthorizationCode,
	string(GrantRefreshToken):      GrantRefreshToken,
	string(GrantClientCredentials): GrantClientCredentials,
}

// String returns the wire value of the grant type
func (g GrantType) String() string {
	return string(g)
}

// ParseGrantType maps a wire value back to its GrantType
func ParseGrantType(s string) (GrantType, error) {
	g, ok := grantTypes[s]
	if !ok {
		return "", fmt.Errorf("%w: unsupported grant type %q", ErrInvalidInput, s)
	}
	return g, nil
}
