package social_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/social"
)

func githubServer(t *testing.T, user string, emails string) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/user", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(user))
	})
	mux.HandleFunc("/emails", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(emails))
	})

	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

func TestNewGitHub(t *testing.T) {
	t.Parallel()

	t.Run("default scopes", func(t *testing.T) {
		t.Parallel()
		d, err := social.NewGitHub(social.Config{ClientID: "id", ClientSecret: "s"})
		require.NoError(t, err)
		require.Equal(t, "github", d.Name())

		raw, err := d.RedirectURL(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		require.NoError(t, err)
		require.Contains(t, raw, "https://github.com/login/oauth/authorize")
		require.Contains(t, raw, "read%3Auser")
		require.Contains(t, raw, "user%3Aemail")
	})

	t.Run("custom scopes", func(t *testing.T) {
		t.Parallel()
		d, err := social.NewGitHub(social.Config{ClientID: "id", ClientSecret: "s", Scopes: []string{"repo"}})
		require.NoError(t, err)

		raw, err := d.RedirectURL(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		require.NoError(t, err)
		require.Contains(t, raw, "scope=repo")
		require.NotContains(t, raw, "read%3Auser")
	})
}

func TestGitHubUserFromToken(t *testing.T) {
	t.Parallel()

	t.Run("merges profile and emails", func(t *testing.T) {
		t.Parallel()
		ts := githubServer(t,
			`{"id":7,"login":"octocat","name":"Octo Cat","avatar_url":"https://a/7","email":"public@x"}`,
			`[{"email":"verified@x","primary":false,"verified":true},
			  {"email":"primary@x","primary":true,"verified":false}]`,
		)
		d, err := social.NewGitHub(testConfig(ts.URL))
		require.NoError(t, err)

		u, err := d.UserFromToken(context.Background(), "tok")
		require.NoError(t, err)
		require.Equal(t, "7", u.ID)
		require.Equal(t, "octocat", u.Nickname)
		require.Equal(t, "verified@x", u.Email, "verified wins over primary-but-unverified")
		require.Equal(t, social.EmailVerified, u.EmailVerification)
		require.Equal(t, float64(7), u.Raw["id"], "raw payload preserved")
	})

	t.Run("no verified email falls back unverified", func(t *testing.T) {
		t.Parallel()
		ts := githubServer(t,
			`{"id":7,"login":"octocat"}`,
			`[{"email":"a@x","primary":false,"verified":false},
			  {"email":"b@x","primary":true,"verified":false}]`,
		)
		d, err := social.NewGitHub(testConfig(ts.URL))
		require.NoError(t, err)

		u, err := d.UserFromToken(context.Background(), "tok")
		require.NoError(t, err)
		require.Equal(t, "b@x", u.Email)
		require.Equal(t, social.EmailUnverified, u.EmailVerification)
	})

	t.Run("empty email list keeps profile email", func(t *testing.T) {
		t.Parallel()
		ts := githubServer(t, `{"id":7,"login":"octocat","email":"public@x"}`, `[]`)
		d, err := social.NewGitHub(testConfig(ts.URL))
		require.NoError(t, err)

		u, err := d.UserFromToken(context.Background(), "tok")
		require.NoError(t, err)
		require.Equal(t, "public@x", u.Email)
		require.Equal(t, social.EmailUnverified, u.EmailVerification)
	})

	t.Run("emails endpoint failure is upstream error", func(t *testing.T) {
		t.Parallel()
		mux := http.NewServeMux()
		mux.HandleFunc("/user", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"id":7}`))
		})
		mux.HandleFunc("/emails", func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "insufficient scope", http.StatusForbidden)
		})
		ts := httptest.NewServer(mux)
		t.Cleanup(ts.Close)

		d, err := social.NewGitHub(testConfig(ts.URL))
		require.NoError(t, err)

		u, err := d.UserFromToken(context.Background(), "tok")
		require.ErrorIs(t, err, social.ErrUpstream)
		require.Nil(t, u)

		var upstream *social.UpstreamError
		require.ErrorAs(t, err, &upstream)
		require.Equal(t, "github", upstream.Provider)
		require.Equal(t, http.StatusForbidden, upstream.Status)
	})

	t.Run("malformed profile payload", func(t *testing.T) {
		t.Parallel()
		ts := githubServer(t, `not-json`, `[]`)
		d, err := social.NewGitHub(testConfig(ts.URL))
		require.NoError(t, err)

		u, err := d.UserFromToken(context.Background(), "tok")
		require.ErrorIs(t, err, social.ErrUpstream)
		require.Nil(t, u)
	})

	t.Run("request option reaches the wire", func(t *testing.T) {
		t.Parallel()
		var got string
		mux := http.NewServeMux()
		mux.HandleFunc("/user", func(w http.ResponseWriter, r *http.Request) {
			got = r.Header.Get("X-GitHub-Api-Version")
			_, _ = w.Write([]byte(`{"id":7}`))
		})
		mux.HandleFunc("/emails", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`[]`))
		})
		ts := httptest.NewServer(mux)
		t.Cleanup(ts.Close)

		d, err := social.NewGitHub(testConfig(ts.URL))
		require.NoError(t, err)

		_, err = d.UserFromToken(context.Background(), "tok", social.WithHeader("X-GitHub-Api-Version", "2022-11-28"))
		require.NoError(t, err)
		require.Equal(t, "2022-11-28", got)
	})
}
