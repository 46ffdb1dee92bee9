package social

import (
	"io"
	"log/slog"
	"net/http"
)

// Option configures a driver at construction time. Drivers are immutable
// afterwards, so a caller that needs both a stateful and a stateless variant
// of the same provider constructs two driver values.
type Option func(*driverOptions)

type driverOptions struct {
	httpClient *http.Client
	states     StateManager
	log        *slog.Logger
	stateOpts  []StateOption
	stateless  bool
	pkce       bool
}

func defaultOptions() *driverOptions {
	return &driverOptions{
		log: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// WithHTTPClient sets a custom HTTP client for all provider requests: token
// exchange and userinfo fetches. The client owns timeouts and retries; use
// it for testing with httptest servers or injecting custom transports.
func WithHTTPClient(client *http.Client) Option {
	return func(o *driverOptions) {
		o.httpClient = client
	}
}

// WithStateManager replaces the default cookie-backed state manager, e.g.
// with a store-backed one for cookie-less clients.
func WithStateManager(states StateManager) Option {
	return func(o *driverOptions) {
		o.states = states
	}
}

// WithStateOptions configures the default cookie-backed state manager.
// Ignored when WithStateManager is also given.
func WithStateOptions(opts ...StateOption) Option {
	return func(o *driverOptions) {
		o.stateOpts = append(o.stateOpts, opts...)
	}
}

// WithStateless disables state generation and validation for the driver's
// lifetime, trading CSRF protection for simplicity (e.g. when cookies are
// unavailable). StateMismatch is then always false and redirect URLs never
// embed a state parameter.
func WithStateless() Option {
	return func(o *driverOptions) {
		o.stateless = true
	}
}

// WithPKCE enables the S256 code challenge on redirects and the matching
// verifier on the code exchange. The state manager must implement
// VerifierStates; both built-in managers do.
func WithPKCE() Option {
	return func(o *driverOptions) {
		o.pkce = true
	}
}

// WithLogger sets the logger. Defaults to a discard logger; log lines carry
// the provider name and flow step, never tokens, secrets, or state values.
func WithLogger(log *slog.Logger) Option {
	return func(o *driverOptions) {
		if log != nil {
			o.log = log
		}
	}
}
