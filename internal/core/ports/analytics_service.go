package ports

import "context"

// AnalyticsService computes aggregate figures over a user's ledger. It is a
// separate concern from LedgerService so that future per-period reporting can
// be added without touching the write path.
type AnalyticsService interface {
	// NetBalance returns the user's net balance: the sum of income amounts
	// minus the sum of expense amounts.
	NetBalance(ctx context.Context, userID int64) (int64, error)
}
