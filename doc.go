// Package social implements OAuth2 authorization-code sign-in against
// third-party identity providers behind one uniform Driver contract.
//
// A driver builds the provider redirect, protects the round trip with an
// anti-CSRF state token, exchanges the returned authorization code for an
// access token, and normalizes the provider's profile payload into a
// canonical User.
//
// # Features
//
//   - Driver contract with OAuth2 and OAuth1 capability interfaces selected
//     at the type level
//   - Built-in GitHub, Google, Discord, and Spotify drivers on a shared
//     engine (NewOAuth2Driver) that applications can reuse for their own
//     providers
//   - Cookie-backed and store-backed anti-CSRF state managers, plus a
//     stateless mode
//   - Optional PKCE (S256) on top of the state round trip
//   - Per-call customization of redirects (RedirectOption) and userinfo
//     requests (RequestOption)
//   - Configuration from environment variables or YAML
//   - Sentinel errors with "social:" prefix for consistent error handling
//
// # Usage
//
// Construct a driver from configuration:
//
//	github, err := social.NewGitHub(social.Config{
//		ClientID:     os.Getenv("GITHUB_OAUTH_CLIENT_ID"),
//		ClientSecret: os.Getenv("GITHUB_OAUTH_CLIENT_SECRET"),
//		RedirectURL:  "https://example.com/auth/github/callback",
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
// Begin the flow in the login handler:
//
//	func login(w http.ResponseWriter, r *http.Request) {
//		if err := github.Redirect(w, r); err != nil {
//			http.Error(w, "redirect failed", http.StatusInternalServerError)
//		}
//	}
//
// Complete it in the callback handler:
//
//	func callback(w http.ResponseWriter, r *http.Request) {
//		if github.AccessDenied(r) {
//			// user declined; render a message, no retry needed
//			return
//		}
//		user, err := github.User(r)
//		if err != nil {
//			// handle error
//			return
//		}
//		// user.ID, user.Email, user.Token, ...
//	}
//
// The httpflow subpackage provides a mountable chi handler that wires both
// handlers for every driver in a Registry.
//
// # State management
//
// By default each driver keeps its anti-CSRF state in a
// "<provider>_oauth_state" cookie with a 10 minute lifetime. Cookie-less
// deployments swap in a server-side store:
//
//	states := social.NewStoreStates(statestore.NewRedis(client), 0)
//	github, err := social.NewGitHub(cfg, social.WithStateManager(states))
//
// Stateless mode (social.WithStateless) skips state entirely; the redirect
// URL then carries no state parameter and StateMismatch is always false.
//
// # Custom providers
//
// Providers differ only in endpoints and profile normalization; everything
// else lives in the shared engine:
//
//	driver, err := social.NewOAuth2Driver("gitlab", cfg,
//		oauth2.Endpoint{AuthURL: "...", TokenURL: "..."},
//		func(ctx context.Context, d *social.OAuth2Driver, token string, opts ...social.RequestOption) (*social.User, error) {
//			// fetch and normalize
//		},
//	)
//
// # Error Handling
//
// Failures surface as distinct sentinel errors matched with errors.Is:
// ErrAccessDenied, ErrMissingCode, ErrStateMismatch, ErrUnsupportedGrant,
// ErrUpstream. Provider endpoint failures additionally carry endpoint and
// status detail via *UpstreamError and errors.As. Error strings and log
// lines never contain client secrets, access tokens, or state values.
//
// # Security
//
//   - Keep state validation enabled unless cookies are genuinely unavailable
//   - Use HTTPS redirect URIs in production
//   - Store access tokens securely; the driver never persists them
//   - Keep client secrets out of source control (use environment variables)
package social
