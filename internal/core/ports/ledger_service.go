package ports

import (
	"context"

	"github.com/finbook/ledger-system/internal/core/domain"
)

// LedgerService defines the use-case operations over users and transactions.
type LedgerService interface {
	// GetOrCreateUser returns the user with the given username, creating it on
	// first use. Returns domain.ErrInvalidUsername for an empty username.
	GetOrCreateUser(ctx context.Context, username string) (*domain.User, error)

	// AddIncome records an income entry for the user and returns the stored
	// transaction, including the store-assigned id and timestamp.
	AddIncome(ctx context.Context, userID, amount int64) (*domain.Transaction, error)

	// AddExpense records an expense entry for the user and returns the stored
	// transaction, including the store-assigned id and timestamp.
	AddExpense(ctx context.Context, userID, amount int64) (*domain.Transaction, error)

	// RemoveIncome deletes the transaction only when it exists, is owned by
	// userID and is an income entry; otherwise it reports false with no side
	// effects.
	RemoveIncome(ctx context.Context, userID, transactionID int64) (bool, error)

	// RemoveExpense deletes the transaction only when it exists, is owned by
	// userID and is an expense entry; otherwise it reports false with no side
	// effects.
	RemoveExpense(ctx context.Context, userID, transactionID int64) (bool, error)

	// GetTransaction retrieves a transaction by id.
	// Returns domain.ErrTransactionNotFound when absent.
	GetTransaction(ctx context.Context, transactionID int64) (*domain.Transaction, error)

	// ListTransactions returns all transactions owned by userID.
	ListTransactions(ctx context.Context, userID int64) ([]*domain.Transaction, error)

	// DeleteUser removes the user and, via the store's cascade, all of its
	// transactions. Reports whether the user existed.
	DeleteUser(ctx context.Context, userID int64) (bool, error)
}
