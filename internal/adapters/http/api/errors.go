package api

import "errors"

// Sentinel kinds for API errors.
var (
	ErrMissingEmail = errors.New("email query parameter is required")
)
