package social_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/social"
)

func googleServer(t *testing.T, payload string) *httptest.Server {
	t.Helper()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/user", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(payload))
	}))
	t.Cleanup(ts.Close)
	return ts
}

func TestNewGoogle(t *testing.T) {
	t.Parallel()

	d, err := social.NewGoogle(social.Config{ClientID: "id", ClientSecret: "s"})
	require.NoError(t, err)
	require.Equal(t, "google", d.Name())

	raw, err := d.RedirectURL(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	require.Contains(t, raw, "https://accounts.google.com/o/oauth2/auth")
	require.Contains(t, raw, "userinfo.email")
	require.Contains(t, raw, "userinfo.profile")
}

func TestGoogleUserFromToken(t *testing.T) {
	t.Parallel()

	t.Run("verified email", func(t *testing.T) {
		t.Parallel()
		ts := googleServer(t, `{
			"id": "108",
			"email": "jane@example.com",
			"verified_email": true,
			"name": "Jane Doe",
			"given_name": "Jane",
			"picture": "https://lh3.example.com/a"
		}`)
		d, err := social.NewGoogle(testConfig(ts.URL))
		require.NoError(t, err)

		u, err := d.UserFromToken(context.Background(), "tok")
		require.NoError(t, err)
		require.Equal(t, "108", u.ID)
		require.Equal(t, "Jane", u.Nickname)
		require.Equal(t, "Jane Doe", u.Name)
		require.Equal(t, "jane@example.com", u.Email)
		require.Equal(t, social.EmailVerified, u.EmailVerification)
		require.Equal(t, "https://lh3.example.com/a", u.AvatarURL)
		require.Equal(t, true, u.Raw["verified_email"])
	})

	t.Run("unverified email", func(t *testing.T) {
		t.Parallel()
		ts := googleServer(t, `{"id":"108","email":"jane@example.com","verified_email":false}`)
		d, err := social.NewGoogle(testConfig(ts.URL))
		require.NoError(t, err)

		u, err := d.UserFromToken(context.Background(), "tok")
		require.NoError(t, err)
		require.Equal(t, social.EmailUnverified, u.EmailVerification)
	})

	t.Run("non-OK status", func(t *testing.T) {
		t.Parallel()
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "expired token", http.StatusUnauthorized)
		}))
		t.Cleanup(ts.Close)

		d, err := social.NewGoogle(testConfig(ts.URL))
		require.NoError(t, err)

		u, err := d.UserFromToken(context.Background(), "tok")
		require.ErrorIs(t, err, social.ErrUpstream)
		require.Nil(t, u)
		require.NotContains(t, err.Error(), "tok", "token must not leak into errors")
	})
}
