package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/finbook/ledger-system/internal/core/domain"
	"github.com/finbook/ledger-system/internal/core/ports"
)

// Ensure UserRepository implements ports.UserRepository
var _ ports.UserRepository = (*UserRepository)(nil)

// UserRepository persists users in SQLite.
type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user row and returns it with the store-assigned id.
func (r *UserRepository) Create(ctx context.Context, username string) (*domain.User, error) {
	user := &domain.User{Username: username}
	err := r.db.QueryRowContext(ctx,
		"INSERT INTO users (username) VALUES (?) RETURNING user_id",
		username,
	).Scan(&user.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrDuplicateUsername
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return user, nil
}

// GetByUsernameOrCreate resolves a username to its user row, creating the row
// on first use. The naive read-then-create sequence has a TOCTOU window under
// concurrent first-time creation; a single upsert closes it. The no-op
// DO UPDATE is what makes RETURNING yield the existing row on conflict.
func (r *UserRepository) GetByUsernameOrCreate(ctx context.Context, username string) (*domain.User, error) {
	user := &domain.User{}
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO users (username) VALUES (?)
		 ON CONFLICT(username) DO UPDATE SET username = excluded.username
		 RETURNING user_id, username`,
		username,
	).Scan(&user.ID, &user.Username)
	if err != nil {
		return nil, fmt.Errorf("upsert user: %w", err)
	}
	return user, nil
}

// Delete removes the user row; the transactions foreign key cascades the
// deletion of all owned transactions inside the store.
func (r *UserRepository) Delete(ctx context.Context, userID int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM users WHERE user_id = ?", userID)
	if err != nil {
		return false, fmt.Errorf("delete user: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete user rows affected: %w", err)
	}
	return n > 0, nil
}
