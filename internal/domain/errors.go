package domain

import "errors"

// Failure categories surfaced by the relay's network and parsing edges.
var (
	ErrFetch          = errors.New("feed fetch failed")
	ErrPublish        = errors.New("chat publish failed")
	ErrMalformedEntry = errors.New("malformed feed entry")
)
