package social

import (
	"sort"

	"golang.org/x/oauth2"
)

// RedirectRequest builds one authorization URL. A fresh value is created per
// Redirect/RedirectURL call; RedirectOption callbacks mutate it before the
// URL is serialized, so callers can customize a single redirect without
// wrapping the driver.
type RedirectRequest struct {
	config   *oauth2.Config
	params   map[string]string
	scopes   []string
	state    string
	authOpts []oauth2.AuthCodeOption
}

// RedirectOption customizes one authorization URL before it is built.
type RedirectOption func(*RedirectRequest)

// WithParam sets an extra query parameter on the authorization URL, e.g.
// GitHub's allow_signup or Google's prompt.
func WithParam(key, value string) RedirectOption {
	return func(rr *RedirectRequest) {
		rr.Param(key, value)
	}
}

// WithRedirectScopes replaces the requested scopes for this redirect only.
func WithRedirectScopes(scopes ...string) RedirectOption {
	return func(rr *RedirectRequest) {
		rr.Scopes(scopes...)
	}
}

func newRedirectRequest(config *oauth2.Config) *RedirectRequest {
	return &RedirectRequest{
		config: config,
		params: make(map[string]string),
		scopes: config.Scopes,
	}
}

// Param sets a query parameter, overriding any previous value for the key.
func (rr *RedirectRequest) Param(key, value string) *RedirectRequest {
	rr.params[key] = value
	return rr
}

// DelParam removes a previously set query parameter.
func (rr *RedirectRequest) DelParam(key string) *RedirectRequest {
	delete(rr.params, key)
	return rr
}

// Scopes replaces the requested scopes.
func (rr *RedirectRequest) Scopes(scopes ...string) *RedirectRequest {
	rr.scopes = scopes
	return rr
}

// AddScopes appends to the requested scopes.
func (rr *RedirectRequest) AddScopes(scopes ...string) *RedirectRequest {
	rr.scopes = append(rr.scopes, scopes...)
	return rr
}

// URL serializes the request into a fully qualified authorization URL. The
// state parameter is embedded only when a state token was issued; x/oauth2
// omits empty state.
func (rr *RedirectRequest) URL() string {
	cfg := *rr.config
	cfg.Scopes = rr.scopes

	opts := make([]oauth2.AuthCodeOption, 0, len(rr.params)+len(rr.authOpts))
	opts = append(opts, rr.authOpts...)

	// Sorted for a deterministic URL.
	keys := make([]string, 0, len(rr.params))
	for k := range rr.params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		opts = append(opts, oauth2.SetAuthURLParam(k, rr.params[k]))
	}

	return cfg.AuthCodeURL(rr.state, opts...)
}

// String implements fmt.Stringer.
func (rr *RedirectRequest) String() string {
	return rr.URL()
}
