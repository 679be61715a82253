package repository

import "errors"

// Sentinel kinds for directory errors.
var (
	ErrNotFound        = errors.New("activity not found")
	ErrAlreadySignedUp = errors.New("participant already signed up")
	ErrNotRegistered   = errors.New("participant not registered")
)
