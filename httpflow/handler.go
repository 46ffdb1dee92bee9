package httpflow

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/social"
)

// UserFunc handles a successfully authenticated user. The host owns session
// creation and the final redirect.
type UserFunc func(w http.ResponseWriter, r *http.Request, user *social.User)

// ErrorFunc handles a failed flow. Errors are the sentinels of the social
// package; a declined authorization arrives as social.ErrAccessDenied.
type ErrorFunc func(w http.ResponseWriter, r *http.Request, err error)

// Handler serves the begin and callback routes for every registered driver.
type Handler struct {
	registry *social.Registry
	onUser   UserFunc
	onError  ErrorFunc
	log      *slog.Logger
	router   chi.Router
}

// Option configures the Handler.
type Option func(*Handler)

// OnUser sets the success callback. Required for a useful handler; the
// default writes a bare 204.
func OnUser(fn UserFunc) Option {
	return func(h *Handler) {
		if fn != nil {
			h.onUser = fn
		}
	}
}

// OnError sets the failure callback. The default maps social.ErrAccessDenied
// to 403 and everything else to 502.
func OnError(fn ErrorFunc) Option {
	return func(h *Handler) {
		if fn != nil {
			h.onError = fn
		}
	}
}

// WithLogger sets the logger. Defaults to a discard logger.
func WithLogger(log *slog.Logger) Option {
	return func(h *Handler) {
		if log != nil {
			h.log = log
		}
	}
}

// New creates a handler over the given registry.
func New(registry *social.Registry, opts ...Option) *Handler {
	h := &Handler{
		registry: registry,
		onUser:   defaultOnUser,
		onError:  defaultOnError,
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(h)
	}

	r := chi.NewRouter()
	r.Get("/{provider}", h.begin)
	r.Get("/{provider}/callback", h.callback)
	h.router = r

	return h
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) begin(w http.ResponseWriter, r *http.Request) {
	driver, ok := h.driver(w, r)
	if !ok {
		return
	}

	h.log.Info("starting sign-in flow", "provider", driver.Name())
	if err := driver.Redirect(w, r); err != nil {
		h.log.Error("redirect failed", "provider", driver.Name(), "error", err)
		h.onError(w, r, err)
	}
}

func (h *Handler) callback(w http.ResponseWriter, r *http.Request) {
	driver, ok := h.driver(w, r)
	if !ok {
		return
	}

	o2, ok := driver.(social.OAuth2)
	if !ok {
		h.onError(w, r, social.ErrUnsupportedGrant)
		return
	}

	if driver.AccessDenied(r) {
		h.log.Info("authorization declined", "provider", driver.Name())
		h.onError(w, r, social.ErrAccessDenied)
		return
	}

	user, err := o2.User(r)
	if err != nil {
		h.log.Error("callback failed", "provider", driver.Name(), "error", err)
		h.onError(w, r, err)
		return
	}

	h.log.Info("sign-in complete", "provider", driver.Name(), "user_id", user.ID)
	h.onUser(w, r, user)
}

// driver resolves the provider path parameter; unknown names get a 404.
func (h *Handler) driver(w http.ResponseWriter, r *http.Request) (social.Driver, bool) {
	name := chi.URLParam(r, "provider")
	d, err := h.registry.Get(name)
	if err != nil {
		h.log.Warn("unknown provider requested", "provider", name)
		http.NotFound(w, r)
		return nil, false
	}
	return d, true
}

func defaultOnUser(w http.ResponseWriter, _ *http.Request, _ *social.User) {
	w.WriteHeader(http.StatusNoContent)
}

func defaultOnError(w http.ResponseWriter, _ *http.Request, err error) {
	if err == nil {
		return
	}
	switch {
	case errors.Is(err, social.ErrAccessDenied):
		http.Error(w, "access denied", http.StatusForbidden)
	default:
		http.Error(w, "authentication failed", http.StatusBadGateway)
	}
}
