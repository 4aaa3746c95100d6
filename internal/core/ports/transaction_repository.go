package ports

import (
	"context"

	"github.com/finbook/ledger-system/internal/core/domain"
)

// TransactionRepository defines persistence operations for transactions.
//
// Not-found is an absent value, never an error: Get returns (nil, nil) and
// Delete returns (false, nil) when the id does not exist.
type TransactionRepository interface {
	// Create inserts a transaction row referencing userID and returns the new
	// transaction's id. The creation timestamp is assigned by the store.
	// Returns domain.ErrUserNotFound when userID does not exist.
	Create(ctx context.Context, userID, amount int64, income bool) (int64, error)

	// Get retrieves a transaction by id, or (nil, nil) when absent.
	Get(ctx context.Context, id int64) (*domain.Transaction, error)

	// Delete removes a transaction by id and reports whether a row was deleted.
	Delete(ctx context.Context, id int64) (bool, error)

	// ListByUser returns all transactions owned by userID, ordered by id for
	// deterministic results.
	ListByUser(ctx context.Context, userID int64) ([]*domain.Transaction, error)

	// NetBalance returns the signed sum of the user's transaction amounts:
	// income contributes +amount, expense contributes -amount. A user with no
	// transactions has balance 0.
	NetBalance(ctx context.Context, userID int64) (int64, error)
}
