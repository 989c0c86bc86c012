package domain

import "errors"

var (
	// ErrValidation covers missing or malformed request fields.
	ErrValidation = errors.New("invalid request")

	// ErrProductNotFound aborts a checkout whose cart references a product
	// that no longer exists.
	ErrProductNotFound = errors.New("product not found")

	// ErrInsufficientStock aborts a checkout requesting more units than the
	// catalog currently holds.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrGatewayUnavailable is returned when gateway authentication or
	// session creation fails; the attempt is retryable by the user.
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")

	// ErrOrderNotFound is returned for status queries on an unknown
	// merchant order reference.
	ErrOrderNotFound = errors.New("order not found")

	// ErrUnauthorized rejects webhook calls with a bad credential.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrPaymentNotVerified means a session confirmation could not be backed
	// by the gateway's own record of a completed, paid session.
	ErrPaymentNotVerified = errors.New("payment not verified")
)
