package social

import (
	"context"

	spotifyOAuth "golang.org/x/oauth2/spotify"
)

const (
	// SpotifyName is the identifier of the Spotify driver.
	SpotifyName    = "spotify"
	spotifyUserURL = "https://api.spotify.com/v1/me"
)

// SpotifyDefaultScopes returns the scopes requested when the config lists none.
func SpotifyDefaultScopes() []string {
	return []string{"user-read-email", "user-read-private"}
}

// NewSpotify creates the Spotify driver. Spotify never reports email
// verification, so the canonical user is always EmailUnverified.
func NewSpotify(cfg Config, opts ...Option) (*OAuth2Driver, error) {
	if len(cfg.Scopes) == 0 {
		cfg.Scopes = SpotifyDefaultScopes()
	}

	userURL := cfg.UserURL
	if userURL == "" {
		userURL = spotifyUserURL
	}

	return NewOAuth2Driver(SpotifyName, cfg, spotifyOAuth.Endpoint, spotifyFetcher(userURL), opts...)
}

type spotifyProfile struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
	Images      []struct {
		URL string `json:"url"`
	} `json:"images"`
}

func spotifyFetcher(userURL string) UserFetcher {
	return func(ctx context.Context, d *OAuth2Driver, token string, opts ...RequestOption) (*User, error) {
		var profile spotifyProfile
		body, err := d.GetJSON(ctx, userURL, token, &profile, opts...)
		if err != nil {
			return nil, err
		}

		var avatarURL string
		if len(profile.Images) > 0 {
			avatarURL = profile.Images[0].URL
		}

		return &User{
			ID:                profile.ID,
			Nickname:          profile.ID,
			Name:              profile.DisplayName,
			Email:             profile.Email,
			AvatarURL:         avatarURL,
			EmailVerification: EmailUnverified,
			Raw:               rawPayload(body),
		}, nil
	}
}
