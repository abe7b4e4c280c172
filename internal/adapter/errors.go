package adapter

import "errors"

// Sentinel errors mapped from HTTP statuses of the sync endpoint.
// Callers should match with [errors.Is].
var (
	// ErrUnauthorized is returned when the endpoint rejects the host key.
	ErrUnauthorized = errors.New("sync server rejected host key")

	// ErrServerFailure is returned for any 5xx reply.
	ErrServerFailure = errors.New("sync server failure")

	// ErrUnexpectedStatus is returned for any other non-2xx reply.
	ErrUnexpectedStatus = errors.New("unexpected sync server status")
)
