package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/finbook/ledger-system/internal/api/metrics"
	"github.com/finbook/ledger-system/internal/core/domain"
	"github.com/finbook/ledger-system/internal/core/ports"
)

// BalanceInvalidator is notified after every write that changes a user's
// balance, so that a cached balance can be dropped. May be nil.
type BalanceInvalidator interface {
	Invalidate(ctx context.Context, userID int64) error
}

// LedgerService composes the user and transaction repositories and adds the
// domain rules: income/expense tagging and ownership-checked deletion.
type LedgerService struct {
	users        ports.UserRepository
	transactions ports.TransactionRepository
	invalidator  BalanceInvalidator
	log          zerolog.Logger
}

var _ ports.LedgerService = (*LedgerService)(nil)

func NewLedgerService(
	users ports.UserRepository,
	transactions ports.TransactionRepository,
	invalidator BalanceInvalidator,
	log zerolog.Logger,
) *LedgerService {
	return &LedgerService{
		users:        users,
		transactions: transactions,
		invalidator:  invalidator,
		log:          log,
	}
}

// GetOrCreateUser returns the user with the given username, creating it on
// first use. The lookup-or-create is a single atomic upsert in the repository,
// so concurrent first-time callers both observe the same row.
func (s *LedgerService) GetOrCreateUser(ctx context.Context, username string) (*domain.User, error) {
	if username == "" {
		return nil, domain.ErrInvalidUsername
	}

	user, err := s.users.GetByUsernameOrCreate(ctx, username)
	if err != nil {
		s.log.Error().Err(err).Str("username", username).Msg("get-or-create user failed")
		return nil, err
	}

	metrics.UsersResolvedTotal.Inc()
	s.log.Info().Int64("user_id", user.ID).Str("username", user.Username).Msg("user resolved")
	return user, nil
}

// AddIncome records an income entry for the user.
func (s *LedgerService) AddIncome(ctx context.Context, userID, amount int64) (*domain.Transaction, error) {
	return s.createTransaction(ctx, userID, amount, true)
}

// AddExpense records an expense entry for the user.
func (s *LedgerService) AddExpense(ctx context.Context, userID, amount int64) (*domain.Transaction, error) {
	return s.createTransaction(ctx, userID, amount, false)
}

// createTransaction inserts the row and re-fetches it, so the returned
// transaction carries the store-assigned id and creation timestamp.
func (s *LedgerService) createTransaction(ctx context.Context, userID, amount int64, income bool) (*domain.Transaction, error) {
	id, err := s.transactions.Create(ctx, userID, amount, income)
	if err != nil {
		s.log.Error().Err(err).Int64("user_id", userID).Msg("failed to create transaction")
		return nil, err
	}

	tx, err := s.transactions.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetch created transaction %d: %w", id, err)
	}
	if tx == nil {
		// Only reachable if the row vanished between insert and fetch, e.g. a
		// concurrent user deletion cascading over it.
		return nil, fmt.Errorf("fetch created transaction %d: %w", id, domain.ErrTransactionNotFound)
	}

	s.invalidateBalance(ctx, userID)
	metrics.TransactionsCreatedTotal.WithLabelValues(tx.Kind()).Inc()

	s.log.Info().
		Int64("transaction_id", tx.ID).
		Int64("user_id", tx.UserID).
		Int64("amount", tx.Amount).
		Str("kind", tx.Kind()).
		Msg("transaction created")

	return tx, nil
}

// RemoveIncome deletes an income entry. See removeTransaction for the guard.
func (s *LedgerService) RemoveIncome(ctx context.Context, userID, transactionID int64) (bool, error) {
	return s.removeTransaction(ctx, userID, transactionID, true)
}

// RemoveExpense deletes an expense entry. See removeTransaction for the guard.
func (s *LedgerService) RemoveExpense(ctx context.Context, userID, transactionID int64) (bool, error) {
	return s.removeTransaction(ctx, userID, transactionID, false)
}

// removeTransaction deletes the row only when all three conditions hold: the
// transaction exists, it is owned by userID, and its income flag matches the
// expected kind. Any failed condition reports false without side effects,
// preventing cross-user or wrong-kind deletion.
func (s *LedgerService) removeTransaction(ctx context.Context, userID, transactionID int64, income bool) (bool, error) {
	kind := domain.KindLabel(income)

	tx, err := s.transactions.Get(ctx, transactionID)
	if err != nil {
		return false, err
	}
	if tx == nil || tx.UserID != userID || tx.Income != income {
		metrics.TransactionsRemovedTotal.WithLabelValues(kind, "rejected").Inc()
		s.log.Debug().
			Int64("transaction_id", transactionID).
			Int64("user_id", userID).
			Str("kind", kind).
			Msg("remove rejected by ownership guard")
		return false, nil
	}

	deleted, err := s.transactions.Delete(ctx, transactionID)
	if err != nil {
		return false, err
	}
	if deleted {
		s.invalidateBalance(ctx, userID)
		metrics.TransactionsRemovedTotal.WithLabelValues(kind, "removed").Inc()
		s.log.Info().
			Int64("transaction_id", transactionID).
			Int64("user_id", userID).
			Str("kind", kind).
			Msg("transaction removed")
	}
	return deleted, nil
}

// GetTransaction retrieves a transaction by id, converting the repository's
// absent value into domain.ErrTransactionNotFound for the transport layer.
func (s *LedgerService) GetTransaction(ctx context.Context, transactionID int64) (*domain.Transaction, error) {
	tx, err := s.transactions.Get(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if tx == nil {
		return nil, domain.ErrTransactionNotFound
	}
	return tx, nil
}

// ListTransactions returns all of the user's transactions. A deleted or
// unknown user simply has an empty list.
func (s *LedgerService) ListTransactions(ctx context.Context, userID int64) ([]*domain.Transaction, error) {
	return s.transactions.ListByUser(ctx, userID)
}

// DeleteUser removes the user; the store's ON DELETE CASCADE removes all of
// the user's transactions with it.
func (s *LedgerService) DeleteUser(ctx context.Context, userID int64) (bool, error) {
	deleted, err := s.users.Delete(ctx, userID)
	if err != nil {
		s.log.Error().Err(err).Int64("user_id", userID).Msg("failed to delete user")
		return false, err
	}
	if deleted {
		s.invalidateBalance(ctx, userID)
		metrics.UsersDeletedTotal.Inc()
		s.log.Info().Int64("user_id", userID).Msg("user deleted, transactions cascaded")
	}
	return deleted, nil
}

func (s *LedgerService) invalidateBalance(ctx context.Context, userID int64) {
	if s.invalidator == nil {
		return
	}
	if err := s.invalidator.Invalidate(ctx, userID); err != nil {
		s.log.Warn().Err(err).Int64("user_id", userID).Msg("balance cache invalidation failed")
	}
}
