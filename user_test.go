package social_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/social"
)

func TestSelectEmail(t *testing.T) {
	t.Parallel()

	t.Run("verified beats primary-but-unverified", func(t *testing.T) {
		t.Parallel()
		email, ok := social.SelectEmail([]social.Email{
			{Address: "a@x", Primary: false, Verified: true},
			{Address: "b@x", Primary: true, Verified: false},
		})
		require.True(t, ok)
		require.Equal(t, "a@x", email.Address)
		require.True(t, email.Verified)
	})

	t.Run("primary verified wins over other verified", func(t *testing.T) {
		t.Parallel()
		email, ok := social.SelectEmail([]social.Email{
			{Address: "a@x", Primary: false, Verified: true},
			{Address: "b@x", Primary: true, Verified: true},
		})
		require.True(t, ok)
		require.Equal(t, "b@x", email.Address)
	})

	t.Run("no verified falls back to first after primary-first sort", func(t *testing.T) {
		t.Parallel()
		email, ok := social.SelectEmail([]social.Email{
			{Address: "a@x", Primary: false, Verified: false},
			{Address: "b@x", Primary: true, Verified: false},
		})
		require.True(t, ok)
		require.Equal(t, "b@x", email.Address)
		require.False(t, email.Verified)
	})

	t.Run("no primary keeps original order", func(t *testing.T) {
		t.Parallel()
		email, ok := social.SelectEmail([]social.Email{
			{Address: "a@x"},
			{Address: "b@x"},
		})
		require.True(t, ok)
		require.Equal(t, "a@x", email.Address)
	})

	t.Run("empty list", func(t *testing.T) {
		t.Parallel()
		_, ok := social.SelectEmail(nil)
		require.False(t, ok)
	})

	t.Run("input is not mutated", func(t *testing.T) {
		t.Parallel()
		in := []social.Email{
			{Address: "a@x"},
			{Address: "b@x", Primary: true},
		}
		_, _ = social.SelectEmail(in)
		require.Equal(t, "a@x", in[0].Address)
	})
}
