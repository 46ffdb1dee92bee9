package social_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/social"
)

func TestRedirectRequest(t *testing.T) {
	t.Parallel()

	d, err := social.NewGitHub(testConfig("https://provider.example"))
	require.NoError(t, err)

	buildURL := func(t *testing.T, opts ...social.RedirectOption) url.Values {
		t.Helper()
		raw, err := d.RedirectURL(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/login", nil), opts...)
		require.NoError(t, err)
		u, err := url.Parse(raw)
		require.NoError(t, err)
		return u.Query()
	}

	t.Run("chained mutators", func(t *testing.T) {
		t.Parallel()
		q := buildURL(t, func(rr *social.RedirectRequest) {
			rr.Param("prompt", "consent").
				Param("login", "octocat").
				DelParam("prompt").
				AddScopes("gist")
		})

		require.Empty(t, q.Get("prompt"))
		require.Equal(t, "octocat", q.Get("login"))
		require.Equal(t, "read:user user:email gist", q.Get("scope"))
	})

	t.Run("scope replacement", func(t *testing.T) {
		t.Parallel()
		q := buildURL(t, social.WithRedirectScopes("repo", "user"))
		require.Equal(t, "repo user", q.Get("scope"))
	})

	t.Run("later option wins", func(t *testing.T) {
		t.Parallel()
		q := buildURL(t,
			social.WithParam("allow_signup", "true"),
			social.WithParam("allow_signup", "false"),
		)
		require.Equal(t, "false", q.Get("allow_signup"))
	})

	t.Run("default scopes from config", func(t *testing.T) {
		t.Parallel()
		q := buildURL(t)
		require.Equal(t, "read:user user:email", q.Get("scope"))
	})
}
