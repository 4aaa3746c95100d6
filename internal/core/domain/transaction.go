package domain

import (
	"errors"
	"time"
)

var ErrTransactionNotFound = errors.New("transaction not found")

// Transaction is a single income or expense entry owned by exactly one user.
// Amount is expressed in the smallest currency unit; it is non-negative by
// convention but the store does not enforce it. CreatedAt is assigned by the
// store at insert time and is non-decreasing with insertion order.
type Transaction struct {
	ID        int64     `json:"transaction_id"`
	UserID    int64     `json:"user_id"`
	Amount    int64     `json:"amount"`
	Income    bool      `json:"income"`
	CreatedAt time.Time `json:"created_at"`
}

// Kind returns the human-readable transaction kind, used in logs and metrics.
func (t Transaction) Kind() string {
	return KindLabel(t.Income)
}

// KindLabel maps the income flag to its metric/log label.
func KindLabel(income bool) string {
	if income {
		return "income"
	}
	return "expense"
}
