package social

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config holds the static credentials and endpoints of one provider. The
// endpoint overrides are for self-hosted deployments (e.g. GitHub
// Enterprise) and tests; leave them empty to use the provider defaults.
type Config struct {
	ClientID     string   `env:"CLIENT_ID" yaml:"client_id"`
	ClientSecret string   `env:"CLIENT_SECRET" yaml:"client_secret"`
	RedirectURL  string   `env:"REDIRECT_URL" yaml:"redirect_url"`
	Scopes       []string `env:"SCOPES" envSeparator:"," yaml:"scopes"`
	AuthURL      string   `env:"AUTH_URL" yaml:"auth_url"`
	TokenURL     string   `env:"TOKEN_URL" yaml:"token_url"`
	UserURL      string   `env:"USER_URL" yaml:"user_url"`
	EmailsURL    string   `env:"EMAILS_URL" yaml:"emails_url"`
}

// Configured reports whether credentials are present; aggregate loaders use
// it to decide which providers to register.
func (c Config) Configured() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

// Providers aggregates the configuration of all built-in providers.
// Environment variables are prefixed per provider, e.g.
// GITHUB_OAUTH_CLIENT_ID, GOOGLE_OAUTH_CLIENT_SECRET.
type Providers struct {
	GitHub  Config `envPrefix:"GITHUB_OAUTH_" yaml:"github"`
	Google  Config `envPrefix:"GOOGLE_OAUTH_" yaml:"google"`
	Discord Config `envPrefix:"DISCORD_OAUTH_" yaml:"discord"`
	Spotify Config `envPrefix:"SPOTIFY_OAUTH_" yaml:"spotify"`
}

// LoadEnv reads provider configuration from environment variables.
func LoadEnv() (Providers, error) {
	var p Providers
	if err := env.Parse(&p); err != nil {
		return Providers{}, fmt.Errorf("social: parse environment: %w", err)
	}
	return p, nil
}

// LoadFile reads provider configuration from a YAML file.
func LoadFile(path string) (Providers, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Providers{}, fmt.Errorf("social: read config file: %w", err)
	}

	var p Providers
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Providers{}, errors.Join(fmt.Errorf("social: parse config file %s", path), err)
	}
	return p, nil
}
