package linkedin

// Option configures an Assembler
type Option func(*Assembler)

// WithEndpoints sets the LinkedIn endpoints; unset URLs keep their defaults
func WithEndpoints(e Endpoints) Option {
	return func(a *Assembler) {
		a.endpoints = e.withDefaults()
	}
}

// AuthOption customises a single authorization URL
type AuthOption func(*authParams)

type authParams struct {
	scope string
	extra Form
}

// WithScope overrides the configured default scope
func WithScope(scope string) AuthOption {
	return func(p *authParams) {
		p.scope = scope
	}
}

// WithAuthParam appends an extra query parameter after the standard ones.
// Keys the assembler sets itself are ignored; use WithScope for the scope.
func WithAuthParam(key, value string) AuthOption {
	return func(p *authParams) {
		if reservedAuthParams[key] {
			return
		}
		p.extra = append(p.extra, Param{Key: key, Value: value})
	}
}

var reservedAuthParams = map[string]bool{
	paramResponseType: true,
	paramClientID:     true,
	paramRedirectURI:  true,
	paramState:        true,
	paramScope:        true,
}
