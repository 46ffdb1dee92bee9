package statestore

import "errors"

var (
	// ErrNotFound is returned when a state token is absent or expired.
	ErrNotFound = errors.New("statestore: not found")

	// ErrClosed is returned when saving to a closed in-memory store.
	ErrClosed = errors.New("statestore: store is closed")
)
