package social

import (
	"context"
	"encoding/json"
	"strconv"

	githubOAuth "golang.org/x/oauth2/github"
	"golang.org/x/sync/errgroup"
)

const (
	// GitHubName is the identifier of the GitHub driver.
	GitHubName      = "github"
	githubUserURL   = "https://api.github.com/user"
	githubEmailsURL = "https://api.github.com/user/emails"
)

// GitHubDefaultScopes returns the scopes requested when the config lists none.
func GitHubDefaultScopes() []string {
	return []string{"read:user", "user:email"}
}

// NewGitHub creates the GitHub driver. GitHub splits profile and emails
// across two endpoints; both are fetched and the canonical email is picked
// with SelectEmail, because the /user payload omits the email for users who
// keep it private.
func NewGitHub(cfg Config, opts ...Option) (*OAuth2Driver, error) {
	if len(cfg.Scopes) == 0 {
		cfg.Scopes = GitHubDefaultScopes()
	}

	userURL := cfg.UserURL
	if userURL == "" {
		userURL = githubUserURL
	}
	emailsURL := cfg.EmailsURL
	if emailsURL == "" {
		emailsURL = githubEmailsURL
	}

	return NewOAuth2Driver(GitHubName, cfg, githubOAuth.Endpoint, githubFetcher(userURL, emailsURL), opts...)
}

type githubProfile struct {
	Login     string `json:"login"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url"`
	ID        int64  `json:"id"`
}

func githubFetcher(userURL, emailsURL string) UserFetcher {
	return func(ctx context.Context, d *OAuth2Driver, token string, opts ...RequestOption) (*User, error) {
		var (
			profile githubProfile
			body    []byte
			emails  []Email
		)

		// Independent once the token is known; fetched concurrently.
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			b, err := d.GetJSON(gctx, userURL, token, &profile, opts...)
			body = b
			return err
		})
		g.Go(func() error {
			_, err := d.GetJSON(gctx, emailsURL, token, &emails, opts...)
			return err
		})
		if err := g.Wait(); err != nil {
			return nil, err
		}

		u := &User{
			ID:                strconv.FormatInt(profile.ID, 10),
			Nickname:          profile.Login,
			Name:              profile.Name,
			AvatarURL:         profile.AvatarURL,
			Email:             profile.Email,
			EmailVerification: EmailUnverified,
			Raw:               rawPayload(body),
		}

		if email, ok := SelectEmail(emails); ok {
			u.Email = email.Address
			if email.Verified {
				u.EmailVerification = EmailVerified
			}
		}

		return u, nil
	}
}

// rawPayload re-decodes a userinfo body into a generic map for User.Raw.
// A body that already decoded into the typed profile cannot fail here.
func rawPayload(body []byte) map[string]any {
	var raw map[string]any
	_ = json.Unmarshal(body, &raw)
	return raw
}
