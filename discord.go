package social

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
)

// Discord endpoints per https://discord.com/developers/docs/topics/oauth2.
const (
	// DiscordName is the identifier of the Discord driver.
	DiscordName     = "discord"
	discordAuthURL  = "https://discord.com/oauth2/authorize"
	discordTokenURL = "https://discord.com/api/oauth2/token"
	discordUserURL  = "https://discord.com/api/users/@me"
	discordCDN      = "https://cdn.discordapp.com"
)

// DiscordDefaultScopes returns the scopes requested when the config lists none.
func DiscordDefaultScopes() []string {
	return []string{"identify", "email"}
}

// NewDiscord creates the Discord driver. x/oauth2 ships no Discord endpoint,
// so the documented constants are used.
func NewDiscord(cfg Config, opts ...Option) (*OAuth2Driver, error) {
	if len(cfg.Scopes) == 0 {
		cfg.Scopes = DiscordDefaultScopes()
	}

	userURL := cfg.UserURL
	if userURL == "" {
		userURL = discordUserURL
	}

	endpoint := oauth2.Endpoint{
		AuthURL:  discordAuthURL,
		TokenURL: discordTokenURL,
	}

	return NewOAuth2Driver(DiscordName, cfg, endpoint, discordFetcher(userURL), opts...)
}

type discordProfile struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	GlobalName string `json:"global_name"`
	Email      string `json:"email"`
	Avatar     string `json:"avatar"`
	Verified   bool   `json:"verified"`
}

func discordFetcher(userURL string) UserFetcher {
	return func(ctx context.Context, d *OAuth2Driver, token string, opts ...RequestOption) (*User, error) {
		var profile discordProfile
		body, err := d.GetJSON(ctx, userURL, token, &profile, opts...)
		if err != nil {
			return nil, err
		}

		verification := EmailUnverified
		if profile.Verified {
			verification = EmailVerified
		}

		// The payload carries only the avatar hash; the URL points at the CDN.
		var avatarURL string
		if profile.Avatar != "" {
			avatarURL = fmt.Sprintf("%s/avatars/%s/%s.png", discordCDN, profile.ID, profile.Avatar)
		}

		name := profile.GlobalName
		if name == "" {
			name = profile.Username
		}

		return &User{
			ID:                profile.ID,
			Nickname:          profile.Username,
			Name:              name,
			Email:             profile.Email,
			AvatarURL:         avatarURL,
			EmailVerification: verification,
			Raw:               rawPayload(body),
		}, nil
	}
}
