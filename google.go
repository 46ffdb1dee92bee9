package social

import (
	"context"

	googleOAuth "golang.org/x/oauth2/google"
)

const (
	// GoogleName is the identifier of the Google driver.
	GoogleName    = "google"
	googleUserURL = "https://www.googleapis.com/oauth2/v2/userinfo"
)

// GoogleDefaultScopes returns the scopes requested when the config lists none.
func GoogleDefaultScopes() []string {
	return []string{
		"https://www.googleapis.com/auth/userinfo.email",
		"https://www.googleapis.com/auth/userinfo.profile",
	}
}

// NewGoogle creates the Google driver. A single userinfo endpoint carries
// the whole profile including the verified_email flag.
func NewGoogle(cfg Config, opts ...Option) (*OAuth2Driver, error) {
	if len(cfg.Scopes) == 0 {
		cfg.Scopes = GoogleDefaultScopes()
	}

	userURL := cfg.UserURL
	if userURL == "" {
		userURL = googleUserURL
	}

	return NewOAuth2Driver(GoogleName, cfg, googleOAuth.Endpoint, googleFetcher(userURL), opts...)
}

type googleProfile struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	Name          string `json:"name"`
	GivenName     string `json:"given_name"`
	Picture       string `json:"picture"`
	VerifiedEmail bool   `json:"verified_email"`
}

func googleFetcher(userURL string) UserFetcher {
	return func(ctx context.Context, d *OAuth2Driver, token string, opts ...RequestOption) (*User, error) {
		var profile googleProfile
		body, err := d.GetJSON(ctx, userURL, token, &profile, opts...)
		if err != nil {
			return nil, err
		}

		verification := EmailUnverified
		if profile.VerifiedEmail {
			verification = EmailVerified
		}

		return &User{
			ID:                profile.ID,
			Nickname:          profile.GivenName,
			Name:              profile.Name,
			Email:             profile.Email,
			AvatarURL:         profile.Picture,
			EmailVerification: verification,
			Raw:               rawPayload(body),
		}, nil
	}
}
