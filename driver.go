package social

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"golang.org/x/oauth2"
)

// Callback error codes.
const (
	// ErrorCodeAccessDenied is the OAuth2 error code sent when the user
	// declines the authorization request.
	ErrorCodeAccessDenied = "access_denied"
	// ErrorCodeUnknown is the sentinel reported by CallbackError when the
	// callback carries neither a code nor an explicit error.
	ErrorCodeUnknown = "unknown_error"
)

// maxResponseBytes caps how much of a provider response is read. Userinfo
// payloads are small; anything larger is not worth buffering.
const maxResponseBytes = 1 << 20

// Driver is the uniform per-provider contract shared by both grant families.
// Grant-specific operations live on the OAuth2 and OAuth1 capability
// interfaces; select the capability with a type assertion or the package
// level UserFromToken / UserFromTokenAndSecret helpers.
//
// Driver values are immutable after construction and safe for concurrent use;
// all per-request data rides on the request and response writer arguments.
type Driver interface {
	// Name returns the provider identifier (e.g. "github").
	Name() string

	// Redirect sends the user agent to the provider's authorization page,
	// issuing and embedding a state token unless the driver is stateless.
	Redirect(w http.ResponseWriter, r *http.Request, opts ...RedirectOption) error

	// RedirectURL builds the same authorization URL but returns it instead of
	// redirecting, for rendering links. Each call mints its own state token;
	// call exactly one of Redirect or RedirectURL per logical flow.
	RedirectURL(w http.ResponseWriter, r *http.Request, opts ...RedirectOption) (string, error)

	// HasCode reports whether the callback carries a non-empty code parameter.
	HasCode(r *http.Request) bool

	// CallbackError returns the callback's error parameter verbatim if
	// present; otherwise ErrorCodeUnknown when the code parameter is absent;
	// otherwise the empty string (no error).
	CallbackError(r *http.Request) string

	// HasError reports whether CallbackError is non-empty.
	HasError(r *http.Request) bool

	// AccessDenied reports whether the user declined the authorization
	// request: true iff CallbackError equals ErrorCodeAccessDenied.
	AccessDenied(r *http.Request) bool

	// StateMismatch reports whether the callback state fails CSRF
	// validation. Always false for stateless drivers.
	StateMismatch(r *http.Request) bool
}

// OAuth2 is the capability interface of authorization-code-grant drivers.
type OAuth2 interface {
	Driver

	// AccessToken exchanges the callback's authorization code for a token.
	// Fails with ErrMissingCode when the callback carries any error, and
	// with ErrStateMismatch when CSRF validation fails.
	AccessToken(r *http.Request) (*Token, error)

	// User runs AccessToken, fetches and normalizes the profile, and
	// attaches the token to the returned user.
	User(r *http.Request, opts ...RequestOption) (*User, error)

	// UserFromToken fetches and normalizes the profile for an access token
	// obtained elsewhere. The returned user carries no token.
	UserFromToken(ctx context.Context, token string, opts ...RequestOption) (*User, error)
}

// OAuth1 is the capability interface of OAuth1 (request-token) drivers. No
// built-in provider implements it; it exists so applications with legacy
// OAuth1 providers can plug them into the same Driver contract.
type OAuth1 interface {
	Driver

	// UserFromTokenAndSecret fetches and normalizes the profile for an
	// OAuth1 token/secret pair.
	UserFromTokenAndSecret(ctx context.Context, token, secret string, opts ...RequestOption) (*User, error)
}

// RequestOption customizes an outgoing userinfo request before it is sent.
type RequestOption func(*http.Request)

// WithHeader sets a header on the outgoing userinfo request.
func WithHeader(key, value string) RequestOption {
	return func(r *http.Request) {
		r.Header.Set(key, value)
	}
}

// UserFromToken resolves the OAuth2 capability on a driver and fetches the
// user for an access token. Returns ErrUnsupportedGrant when the driver does
// not implement the authorization-code grant.
func UserFromToken(ctx context.Context, d Driver, token string, opts ...RequestOption) (*User, error) {
	o2, ok := d.(OAuth2)
	if !ok {
		return nil, ErrUnsupportedGrant
	}
	return o2.UserFromToken(ctx, token, opts...)
}

// UserFromTokenAndSecret resolves the OAuth1 capability on a driver and
// fetches the user for a token/secret pair. Returns ErrUnsupportedGrant when
// the driver does not implement OAuth1 — always the case for the OAuth2-only
// drivers shipped by this package.
func UserFromTokenAndSecret(ctx context.Context, d Driver, token, secret string, opts ...RequestOption) (*User, error) {
	o1, ok := d.(OAuth1)
	if !ok {
		return nil, ErrUnsupportedGrant
	}
	return o1.UserFromTokenAndSecret(ctx, token, secret, opts...)
}

// UserFetcher retrieves the provider profile for an access token and
// normalizes it into a User. Each provider supplies its own fetcher;
// applications adding providers via NewOAuth2Driver do the same.
type UserFetcher func(ctx context.Context, d *OAuth2Driver, token string, opts ...RequestOption) (*User, error)

// OAuth2Driver is the shared authorization-code-grant engine behind every
// built-in provider.
type OAuth2Driver struct {
	config     *oauth2.Config
	fetch      UserFetcher
	states     StateManager
	httpClient *http.Client
	log        *slog.Logger
	name       string
	stateless  bool
	pkce       bool
}

var _ OAuth2 = (*OAuth2Driver)(nil)

// NewOAuth2Driver assembles a driver from provider constants and shared
// configuration. The endpoint argument supplies the provider defaults;
// cfg.AuthURL and cfg.TokenURL override them for self-hosted deployments and
// tests. Returns ErrMissingClientID or ErrMissingClientSecret on incomplete
// credentials.
func NewOAuth2Driver(name string, cfg Config, endpoint oauth2.Endpoint, fetch UserFetcher, opts ...Option) (*OAuth2Driver, error) {
	if cfg.ClientID == "" {
		return nil, ErrMissingClientID
	}
	if cfg.ClientSecret == "" {
		return nil, ErrMissingClientSecret
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	if cfg.AuthURL != "" {
		endpoint.AuthURL = cfg.AuthURL
	}
	if cfg.TokenURL != "" {
		endpoint.TokenURL = cfg.TokenURL
	}

	states := o.states
	if states == nil {
		states = NewCookieStates(name, o.stateOpts...)
	}

	return &OAuth2Driver{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       cfg.Scopes,
			Endpoint:     endpoint,
		},
		fetch:      fetch,
		states:     states,
		httpClient: o.httpClient,
		log:        o.log,
		name:       name,
		stateless:  o.stateless,
		pkce:       o.pkce,
	}, nil
}

// Name returns the provider identifier.
func (d *OAuth2Driver) Name() string {
	return d.name
}

// RedirectURL builds the authorization URL for one flow. Unless the driver is
// stateless, a fresh state token is issued and persisted via the state
// manager before being embedded.
func (d *OAuth2Driver) RedirectURL(w http.ResponseWriter, r *http.Request, opts ...RedirectOption) (string, error) {
	req := newRedirectRequest(d.config)

	if !d.stateless {
		state, err := d.states.Issue(w, r)
		if err != nil {
			return "", err
		}
		req.state = state
	}

	if d.pkce {
		vs, ok := d.states.(VerifierStates)
		if !ok {
			return "", ErrVerifierUnavailable
		}
		verifier := oauth2.GenerateVerifier()
		if err := vs.SaveVerifier(w, r, req.state, verifier); err != nil {
			return "", err
		}
		req.authOpts = append(req.authOpts, oauth2.S256ChallengeOption(verifier))
	}

	for _, opt := range opts {
		opt(req)
	}

	d.log.Debug("built authorization url", "provider", d.name, "stateless", d.stateless)
	return req.URL(), nil
}

// Redirect sends the user agent to the provider's authorization page.
func (d *OAuth2Driver) Redirect(w http.ResponseWriter, r *http.Request, opts ...RedirectOption) error {
	u, err := d.RedirectURL(w, r, opts...)
	if err != nil {
		return err
	}
	http.Redirect(w, r, u, http.StatusFound)
	return nil
}

// HasCode reports whether the callback carries a non-empty code parameter.
func (d *OAuth2Driver) HasCode(r *http.Request) bool {
	return r.URL.Query().Get("code") != ""
}

// CallbackError implements the error precedence of the callback contract:
// an explicit error parameter wins, then a missing code is reported as
// ErrorCodeUnknown, then no error.
func (d *OAuth2Driver) CallbackError(r *http.Request) string {
	q := r.URL.Query()
	if e := q.Get("error"); e != "" {
		return e
	}
	if q.Get("code") == "" {
		return ErrorCodeUnknown
	}
	return ""
}

// HasError reports whether the callback carries any error.
func (d *OAuth2Driver) HasError(r *http.Request) bool {
	return d.CallbackError(r) != ""
}

// AccessDenied reports whether the user declined the authorization request.
func (d *OAuth2Driver) AccessDenied(r *http.Request) bool {
	return d.CallbackError(r) == ErrorCodeAccessDenied
}

// StateMismatch reports whether CSRF validation fails for the callback.
// Always false for stateless drivers.
func (d *OAuth2Driver) StateMismatch(r *http.Request) bool {
	if d.stateless {
		return false
	}
	return d.states.Mismatch(r, r.URL.Query().Get("state"))
}

// AccessToken exchanges the callback's authorization code for an access
// token. Guards run in contract order: any callback error fails with
// ErrMissingCode, then a state mismatch fails with ErrStateMismatch, then
// the exchange runs. A used state token is consumed best-effort so it cannot
// be replayed.
func (d *OAuth2Driver) AccessToken(r *http.Request) (*Token, error) {
	if d.HasError(r) {
		return nil, ErrMissingCode
	}
	if d.StateMismatch(r) {
		return nil, ErrStateMismatch
	}

	ctx := d.exchangeContext(r.Context())
	code := r.URL.Query().Get("code")

	var exchOpts []oauth2.AuthCodeOption
	if d.pkce {
		vs, ok := d.states.(VerifierStates)
		if !ok {
			return nil, ErrVerifierUnavailable
		}
		verifier, err := vs.Verifier(r, r.URL.Query().Get("state"))
		if err != nil {
			return nil, err
		}
		exchOpts = append(exchOpts, oauth2.VerifierOption(verifier))
	}

	tok, err := d.config.Exchange(ctx, code, exchOpts...)
	if err != nil {
		return nil, &UpstreamError{
			Provider: d.name,
			Endpoint: d.config.Endpoint.TokenURL,
			Err:      err,
		}
	}

	if c, ok := d.states.(StateConsumer); ok && !d.stateless {
		if err := c.Consume(r.Context(), r.URL.Query().Get("state")); err != nil {
			d.log.Warn("failed to consume state token", "provider", d.name, "error", err)
		}
	}

	d.log.Debug("exchanged authorization code", "provider", d.name)
	return newToken(tok), nil
}

// User completes the callback: code exchange, profile fetch, normalization.
// The access token is attached to the returned user.
func (d *OAuth2Driver) User(r *http.Request, opts ...RequestOption) (*User, error) {
	tok, err := d.AccessToken(r)
	if err != nil {
		return nil, err
	}

	u, err := d.UserFromToken(r.Context(), tok.AccessToken, opts...)
	if err != nil {
		return nil, err
	}

	u.Token = tok
	return u, nil
}

// UserFromToken fetches and normalizes the provider profile for an access
// token obtained elsewhere.
func (d *OAuth2Driver) UserFromToken(ctx context.Context, token string, opts ...RequestOption) (*User, error) {
	u, err := d.fetch(ctx, d, token, opts...)
	if err != nil {
		return nil, err
	}
	d.log.Debug("fetched user profile", "provider", d.name, "user_id", u.ID)
	return u, nil
}

// GetJSON performs an authorized GET against a provider endpoint, decodes
// the JSON response into out, and returns the raw body so fetchers can
// preserve the full payload. The request carries "Authorization: Bearer
// <token>" and "Accept: application/json"; RequestOptions run before send.
// All failure modes surface as *UpstreamError.
func (d *OAuth2Driver) GetJSON(ctx context.Context, endpoint, token string, out any, opts ...RequestOption) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &UpstreamError{Provider: d.name, Endpoint: endpoint, Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	for _, opt := range opts {
		opt(req)
	}

	resp, err := d.client().Do(req)
	if err != nil {
		return nil, &UpstreamError{Provider: d.name, Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &UpstreamError{Provider: d.name, Endpoint: endpoint, Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &UpstreamError{
			Provider: d.name,
			Endpoint: endpoint,
			Status:   resp.StatusCode,
			Body:     truncate(string(body), 512),
		}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return nil, &UpstreamError{
			Provider: d.name,
			Endpoint: endpoint,
			Status:   resp.StatusCode,
			Err:      fmt.Errorf("decode response: %w", err),
		}
	}

	return body, nil
}

func (d *OAuth2Driver) client() *http.Client {
	if d.httpClient != nil {
		return d.httpClient
	}
	return http.DefaultClient
}

// exchangeContext routes the token exchange through the injected HTTP client.
func (d *OAuth2Driver) exchangeContext(ctx context.Context) context.Context {
	if d.httpClient != nil {
		return context.WithValue(ctx, oauth2.HTTPClient, d.httpClient)
	}
	return ctx
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
