package social

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"net/http"
	"time"
)

// Default state configuration. The state only needs to survive one redirect
// round trip, so its lifetime is short.
const (
	defaultStateMaxAge  = 10 * time.Minute
	stateCookieSuffix   = "_oauth_state"
	verifierCookieSuffix = "_oauth_verifier"
)

// StateManager issues and validates the anti-CSRF state token that protects
// the redirect round trip.
type StateManager interface {
	// Issue mints a fresh opaque token, persists it across the round trip,
	// and returns it for embedding in the authorization URL.
	Issue(w http.ResponseWriter, r *http.Request) (string, error)

	// Mismatch compares the persisted token with the state query parameter
	// from the callback. A missing or expired persisted token is a mismatch,
	// never an error.
	Mismatch(r *http.Request, state string) bool
}

// StateConsumer is implemented by state managers that can invalidate a token
// once it has been used, giving single-use semantics. The driver calls it
// best-effort after a successful code exchange.
type StateConsumer interface {
	Consume(ctx context.Context, state string) error
}

// VerifierStates is implemented by state managers that can carry a PKCE code
// verifier alongside the state token. Required for drivers constructed with
// WithPKCE.
type VerifierStates interface {
	SaveVerifier(w http.ResponseWriter, r *http.Request, state, verifier string) error
	Verifier(r *http.Request, state string) (string, error)
}

// newStateToken returns 32 bytes of crypto/rand output, base64 URL encoded.
func newStateToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// CookieStates stores the state token in a named cookie on the user agent.
// This is the default state manager: it needs no server-side storage and the
// cookie's bounded MaxAge caps the token lifetime.
type CookieStates struct {
	name     string
	domain   string
	path     string
	maxAge   int
	sameSite http.SameSite
	secure   bool
	httpOnly bool
}

// StateOption configures CookieStates.
type StateOption func(*CookieStates)

// WithStateDomain sets the state cookie domain.
func WithStateDomain(domain string) StateOption {
	return func(s *CookieStates) {
		s.domain = domain
	}
}

// WithStatePath sets the state cookie path.
func WithStatePath(path string) StateOption {
	return func(s *CookieStates) {
		if path != "" {
			s.path = path
		}
	}
}

// WithStateSecure sets the Secure flag on the state cookie.
func WithStateSecure(secure bool) StateOption {
	return func(s *CookieStates) {
		s.secure = secure
	}
}

// WithStateMaxAge bounds the state cookie lifetime.
func WithStateMaxAge(d time.Duration) StateOption {
	return func(s *CookieStates) {
		if d > 0 {
			s.maxAge = int(d.Seconds())
		}
	}
}

// NewCookieStates creates a cookie-backed state manager for the given
// provider. The cookie is named "<provider>_oauth_state".
func NewCookieStates(provider string, opts ...StateOption) *CookieStates {
	s := &CookieStates{
		name:     provider + stateCookieSuffix,
		path:     "/",
		maxAge:   int(defaultStateMaxAge.Seconds()),
		sameSite: http.SameSiteLaxMode,
		httpOnly: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Issue mints a token and sets the state cookie on the response.
func (s *CookieStates) Issue(w http.ResponseWriter, _ *http.Request) (string, error) {
	token, err := newStateToken()
	if err != nil {
		return "", err
	}
	http.SetCookie(w, s.cookie(s.name, token, s.maxAge))
	return token, nil
}

// Mismatch reports whether the callback state differs from the cookie value.
// Constant-time comparison; an absent cookie or empty state is a mismatch.
func (s *CookieStates) Mismatch(r *http.Request, state string) bool {
	if state == "" {
		return true
	}
	c, err := r.Cookie(s.name)
	if err != nil || c.Value == "" {
		return true
	}
	return subtle.ConstantTimeCompare([]byte(c.Value), []byte(state)) != 1
}

// SaveVerifier stores the PKCE verifier in a sibling cookie so the state
// slot itself stays byte-for-byte the random token.
func (s *CookieStates) SaveVerifier(w http.ResponseWriter, _ *http.Request, _, verifier string) error {
	http.SetCookie(w, s.cookie(s.verifierName(), verifier, s.maxAge))
	return nil
}

// Verifier reads the PKCE verifier back on callback.
func (s *CookieStates) Verifier(r *http.Request, _ string) (string, error) {
	c, err := r.Cookie(s.verifierName())
	if err != nil || c.Value == "" {
		return "", ErrVerifierUnavailable
	}
	return c.Value, nil
}

func (s *CookieStates) verifierName() string {
	provider := s.name[:len(s.name)-len(stateCookieSuffix)]
	return provider + verifierCookieSuffix
}

func (s *CookieStates) cookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Domain:   s.domain,
		Path:     s.path,
		MaxAge:   maxAge,
		Secure:   s.secure,
		HttpOnly: s.httpOnly,
		SameSite: s.sameSite,
	}
}

// StateStore persists state tokens server-side for deployments where cookies
// are unavailable (native apps, multi-origin flows). The value slot carries
// the PKCE verifier when PKCE is enabled, otherwise it is empty.
// Implementations live in the statestore package.
type StateStore interface {
	Save(ctx context.Context, token, value string, ttl time.Duration) error
	// Get returns the stored value for a live token, or an error for an
	// unknown or expired one.
	Get(ctx context.Context, token string) (string, error)
	Delete(ctx context.Context, token string) error
}

// StoreStates adapts a StateStore to the StateManager contract. Because the
// store is keyed by the token itself, validation is a lookup: a state that
// was never issued (or has expired, or was already consumed) simply is not
// there.
type StoreStates struct {
	store StateStore
	ttl   time.Duration
}

// NewStoreStates creates a store-backed state manager. A non-positive ttl
// falls back to the 10 minute default.
func NewStoreStates(store StateStore, ttl time.Duration) *StoreStates {
	if ttl <= 0 {
		ttl = defaultStateMaxAge
	}
	return &StoreStates{store: store, ttl: ttl}
}

// Issue mints a token and saves it with the configured TTL.
func (s *StoreStates) Issue(_ http.ResponseWriter, r *http.Request) (string, error) {
	token, err := newStateToken()
	if err != nil {
		return "", err
	}
	if err := s.store.Save(r.Context(), token, "", s.ttl); err != nil {
		return "", err
	}
	return token, nil
}

// Mismatch reports whether the callback state is absent from the store.
func (s *StoreStates) Mismatch(r *http.Request, state string) bool {
	if state == "" {
		return true
	}
	_, err := s.store.Get(r.Context(), state)
	return err != nil
}

// Consume removes a used state token, making it single-use.
func (s *StoreStates) Consume(ctx context.Context, state string) error {
	return s.store.Delete(ctx, state)
}

// SaveVerifier attaches the PKCE verifier to the stored state entry.
func (s *StoreStates) SaveVerifier(_ http.ResponseWriter, r *http.Request, state, verifier string) error {
	if state == "" {
		return ErrVerifierUnavailable
	}
	return s.store.Save(r.Context(), state, verifier, s.ttl)
}

// Verifier reads the PKCE verifier stored with the state entry.
func (s *StoreStates) Verifier(r *http.Request, state string) (string, error) {
	v, err := s.store.Get(r.Context(), state)
	if err != nil {
		return "", errors.Join(ErrVerifierUnavailable, err)
	}
	if v == "" {
		return "", ErrVerifierUnavailable
	}
	return v, nil
}
