// Package repository holds the in-memory activity directory.
package repository

import (
	"context"

	"github.com/mergington/activities/internal/domain/types"
)

// Store provides read/write access to the activity directory.
type Store interface {
	// List returns a deep copy of every activity.
	List(ctx context.Context) types.Directory

	// Get returns a copy of one activity, or ErrNotFound.
	Get(ctx context.Context, name string) (types.Activity, error)

	// Names returns the activity names in sorted order.
	Names(ctx context.Context) []string

	// Signup appends email to the roster of name and returns the new roster size.
	// Returns ErrNotFound or ErrAlreadySignedUp.
	Signup(ctx context.Context, name, email string) (int, error)

	// Unregister removes email from the roster of name and returns the new roster size.
	// Returns ErrNotFound or ErrNotRegistered.
	Unregister(ctx context.Context, name, email string) (int, error)

	// Count returns the number of activities.
	Count(ctx context.Context) int
}
