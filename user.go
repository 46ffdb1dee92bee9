package social

import "sort"

// EmailVerification reports whether the provider vouched for the user's email.
type EmailVerification string

const (
	// EmailVerified means the provider confirmed ownership of the email.
	EmailVerified EmailVerification = "verified"
	// EmailUnverified means the provider did not confirm ownership, or the
	// provider never reports verification at all.
	EmailUnverified EmailVerification = "unverified"
)

// User is the provider-independent representation of an authenticated user.
// Raw preserves the full userinfo payload for callers that need
// provider-specific fields.
type User struct {
	Raw               map[string]any
	Token             *Token
	ID                string
	Nickname          string
	Name              string
	Email             string
	AvatarURL         string
	EmailVerification EmailVerification
}

// Email is one entry of a provider's email list (e.g. GitHub's
// /user/emails endpoint).
type Email struct {
	Address  string `json:"email"`
	Primary  bool   `json:"primary"`
	Verified bool   `json:"verified"`
}

// SelectEmail picks the canonical email from a provider's email list:
// candidates are stably sorted primary-first, then the first verified one
// wins; if none is verified, the first candidate after sorting is used.
// The boolean mirrors the Verified flag of the chosen entry. Returns
// ok=false for an empty list.
func SelectEmail(emails []Email) (email Email, ok bool) {
	if len(emails) == 0 {
		return Email{}, false
	}

	sorted := make([]Email, len(emails))
	copy(sorted, emails)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Primary && !sorted[j].Primary
	})

	for _, e := range sorted {
		if e.Verified {
			return e, true
		}
	}

	return sorted[0], true
}
