package handler

import (
	"time"

	"github.com/finbook/ledger-system/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request types ---

type resolveUserRequest struct {
	Username string `json:"username" validate:"required"`
}

// amountRequest is the body for both income and expense creation. Amounts are
// in the smallest currency unit; the API rejects negatives even though the
// core leaves them to convention.
type amountRequest struct {
	Amount int64 `json:"amount" validate:"gte=0"`
}

// --- Response types ---
// These are intentionally separate from domain types so the JSON contract is
// not coupled to internal changes.

type userResponse struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
}

type transactionResponse struct {
	TransactionID int64     `json:"transaction_id"`
	UserID        int64     `json:"user_id"`
	Amount        int64     `json:"amount"`
	Kind          string    `json:"kind"`
	Income        bool      `json:"income"`
	CreatedAt     time.Time `json:"created_at"`
}

type listTransactionsResponse struct {
	Data []transactionResponse `json:"data"`
}

type balanceResponse struct {
	UserID  int64 `json:"user_id"`
	Balance int64 `json:"balance"`
}

func toTransactionResponse(tx *domain.Transaction) transactionResponse {
	return transactionResponse{
		TransactionID: tx.ID,
		UserID:        tx.UserID,
		Amount:        tx.Amount,
		Kind:          tx.Kind(),
		Income:        tx.Income,
		CreatedAt:     tx.CreatedAt,
	}
}
