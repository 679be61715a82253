package loadtest

import "errors"

// Error constants.
var (
	ErrInvalidConfig   = errors.New("invalid load test config")
	ErrUnhealthy       = errors.New("service is not healthy")
	ErrUnknownActivity = errors.New("activity not offered by the service")
	ErrVerification    = errors.New("roster verification failed")
)
