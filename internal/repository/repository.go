// Package repository implements catalog storage for the activity signup
// system: an in-memory store used by default and a PostgreSQL store (pgx
// directly, no ORM) selectable by configuration.
package repository

import (
	"context"
	"errors"

	"github.com/mergington-high/activities/internal/model"
)

// ErrActivityNotFound is returned when no activity with the given name exists.
var ErrActivityNotFound = errors.New("activity not found")

// ErrAlreadyRegistered is returned when the same email signs up twice.
var ErrAlreadyRegistered = errors.New("email already signed up for this activity")

// ErrNotRegistered is returned when unregistering an email that is not on
// the roster.
var ErrNotRegistered = errors.New("email not registered for this activity")

// CatalogStore is the storage contract for the activity catalog.
// Implementations must make each check-then-mutate sequence atomic so
// concurrent requests cannot violate the no-duplicate invariant, and must
// leave state untouched when returning an error.
type CatalogStore interface {
	// List returns the full catalog keyed by activity name, with rosters
	// in signup order.
	List(ctx context.Context) (map[string]model.Activity, error)

	// SignUp appends email to the activity's roster.
	// Returns ErrActivityNotFound or ErrAlreadyRegistered.
	SignUp(ctx context.Context, activity, email string) error

	// Unregister removes email from the activity's roster, preserving the
	// order of the remaining participants.
	// Returns ErrActivityNotFound or ErrNotRegistered.
	Unregister(ctx context.Context, activity, email string) error
}
