package gateway

import "errors"

var (
	// ErrUnavailable means authentication or session creation against the
	// provider failed. Checkout treats it as fatal for the attempt.
	ErrUnavailable = errors.New("gateway unavailable")

	// ErrSessionUnsupported is returned by providers that have no embedded
	// session concept.
	ErrSessionUnsupported = errors.New("session verification not supported by this provider")
)
