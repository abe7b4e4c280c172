package http

import "errors"

var (
	// ErrUnauthorized is returned to callers failing bearer-token auth.
	ErrUnauthorized = errors.New("unauthorized")
)
