package social

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingClientID is returned when a driver is constructed without a client ID.
	ErrMissingClientID = errors.New("social: missing client ID")

	// ErrMissingClientSecret is returned when a driver is constructed without a client secret.
	ErrMissingClientSecret = errors.New("social: missing client secret")

	// ErrAccessDenied is returned when the provider reports that the user
	// declined the authorization request.
	ErrAccessDenied = errors.New("social: access denied by user")

	// ErrMissingCode is returned when the callback carries no usable
	// authorization code, either because the provider reported an error or
	// because the code parameter is absent.
	ErrMissingCode = errors.New("social: missing authorization code")

	// ErrStateMismatch is returned when the anti-CSRF state on the callback
	// does not match the state issued on redirect.
	ErrStateMismatch = errors.New("social: state mismatch")

	// ErrUnsupportedGrant is returned when an operation of one grant family
	// (OAuth1 or OAuth2) is invoked on a driver that only implements the other.
	ErrUnsupportedGrant = errors.New("social: grant not supported by driver")

	// ErrUpstream is returned when a provider endpoint fails: transport error,
	// non-OK status, or a payload that does not decode. Use errors.As with
	// *UpstreamError for details.
	ErrUpstream = errors.New("social: provider request failed")

	// ErrUnknownDriver is returned by Registry.Get for an unregistered name.
	ErrUnknownDriver = errors.New("social: unknown driver")

	// ErrVerifierUnavailable is returned when PKCE is enabled but the
	// configured state manager cannot persist a code verifier across the
	// redirect round trip.
	ErrVerifierUnavailable = errors.New("social: state manager cannot store PKCE verifier")
)

// UpstreamError describes a failed call to a provider endpoint. It never
// contains the access token or client secret; Body is the (truncated)
// response body for non-OK statuses.
type UpstreamError struct {
	Err      error
	Provider string
	Endpoint string
	Body     string
	Status   int
}

func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("social: %s request to %s failed: %v", e.Provider, e.Endpoint, e.Err)
	}
	return fmt.Sprintf("social: %s request to %s failed: status=%d", e.Provider, e.Endpoint, e.Status)
}

// Unwrap makes the error match ErrUpstream via errors.Is while keeping the
// underlying cause inspectable.
func (e *UpstreamError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrUpstream, e.Err}
	}
	return []error{ErrUpstream}
}
