package ports

import (
	"context"

	"github.com/finbook/ledger-system/internal/core/domain"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	// Create inserts a new user row and returns it with the store-assigned ID.
	// Returns domain.ErrDuplicateUsername when the username is already taken.
	Create(ctx context.Context, username string) (*domain.User, error)

	// GetByUsernameOrCreate returns the existing user with the given username,
	// creating it first when absent. Implementations must perform this as a
	// single atomic insert-or-fetch so that concurrent first-time callers both
	// observe the same row.
	GetByUsernameOrCreate(ctx context.Context, username string) (*domain.User, error)

	// Delete removes the user row and reports whether a row was deleted.
	// Deleting a user cascades to all of its transactions; the cascade is
	// enforced by the store's referential constraint, not by application code.
	Delete(ctx context.Context, userID int64) (bool, error)
}
