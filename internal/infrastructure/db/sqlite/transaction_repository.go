package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/finbook/ledger-system/internal/core/domain"
	"github.com/finbook/ledger-system/internal/core/ports"
)

// Ensure TransactionRepository implements ports.TransactionRepository
var _ ports.TransactionRepository = (*TransactionRepository)(nil)

// TransactionRepository persists transactions in SQLite.
type TransactionRepository struct {
	db *sql.DB
}

func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// Create inserts a transaction row referencing userID and returns the new id.
// The created_at column is filled by the store's default, never by the caller.
func (r *TransactionRepository) Create(ctx context.Context, userID, amount int64, income bool) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx,
		"INSERT INTO transactions (user_id, amount, income) VALUES (?, ?, ?) RETURNING transaction_id",
		userID, amount, income,
	).Scan(&id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return 0, domain.ErrUserNotFound
		}
		return 0, fmt.Errorf("insert transaction: %w", err)
	}
	return id, nil
}

// Get retrieves a transaction by id, or (nil, nil) when absent.
func (r *TransactionRepository) Get(ctx context.Context, id int64) (*domain.Transaction, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT transaction_id, user_id, amount, income, created_at
		 FROM transactions WHERE transaction_id = ?`,
		id,
	)

	tx, err := scanTransaction(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil // not found is an absent value, not an error
	}
	if err != nil {
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	return tx, nil
}

// Delete removes a transaction by id and reports whether a row was deleted.
func (r *TransactionRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM transactions WHERE transaction_id = ?", id)
	if err != nil {
		return false, fmt.Errorf("delete transaction: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete transaction rows affected: %w", err)
	}
	return n > 0, nil
}

// ListByUser returns the user's transactions ordered by id, so results are
// stable for a given dataset. An unknown user yields an empty list.
func (r *TransactionRepository) ListByUser(ctx context.Context, userID int64) ([]*domain.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT transaction_id, user_id, amount, income, created_at
		 FROM transactions WHERE user_id = ? ORDER BY transaction_id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var transactions []*domain.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		transactions = append(transactions, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}

	return transactions, nil
}

// NetBalance sums the user's amounts signed by kind inside the store, so the
// balance is one aggregate query instead of a row scan.
func (r *TransactionRepository) NetBalance(ctx context.Context, userID int64) (int64, error) {
	var balance int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(CASE WHEN income != 0 THEN amount ELSE -amount END), 0)
		 FROM transactions WHERE user_id = ?`,
		userID,
	).Scan(&balance)
	if err != nil {
		return 0, fmt.Errorf("net balance: %w", err)
	}
	return balance, nil
}

// scanTransaction decodes one row; created_at is stored as unix seconds.
func scanTransaction(scan func(...any) error) (*domain.Transaction, error) {
	tx := &domain.Transaction{}
	var createdAt int64
	if err := scan(&tx.ID, &tx.UserID, &tx.Amount, &tx.Income, &createdAt); err != nil {
		return nil, err
	}
	tx.CreatedAt = time.Unix(createdAt, 0).UTC()
	return tx, nil
}
