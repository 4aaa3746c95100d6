package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/finbook/ledger-system/internal/api/metrics"
	"github.com/finbook/ledger-system/internal/core/ports"
)

// BalanceCache abstracts the optional cache in front of the balance query
// (Redis in production). Get reports a miss with ok=false.
type BalanceCache interface {
	Get(ctx context.Context, userID int64) (balance int64, ok bool, err error)
	Set(ctx context.Context, userID, balance int64) error
	Invalidate(ctx context.Context, userID int64) error
}

// AnalyticsService computes aggregate figures over a user's ledger.
type AnalyticsService struct {
	transactions ports.TransactionRepository
	cache        BalanceCache // nil when caching is disabled
	log          zerolog.Logger
}

var _ ports.AnalyticsService = (*AnalyticsService)(nil)

func NewAnalyticsService(transactions ports.TransactionRepository, cache BalanceCache, log zerolog.Logger) *AnalyticsService {
	return &AnalyticsService{transactions: transactions, cache: cache, log: log}
}

// NetBalance returns the user's net balance: income amounts count positive,
// expense amounts negative. A user with no transactions has balance 0.
//
// With a cache configured this is a read-through: cache failures are logged
// and ignored, the store stays authoritative.
func (s *AnalyticsService) NetBalance(ctx context.Context, userID int64) (int64, error) {
	if s.cache != nil {
		balance, ok, err := s.cache.Get(ctx, userID)
		if err != nil {
			s.log.Warn().Err(err).Int64("user_id", userID).Msg("balance cache read failed, falling through")
		} else if ok {
			metrics.BalanceQueriesTotal.WithLabelValues("cache").Inc()
			return balance, nil
		}
	}

	balance, err := s.transactions.NetBalance(ctx, userID)
	if err != nil {
		s.log.Error().Err(err).Int64("user_id", userID).Msg("net balance query failed")
		return 0, err
	}
	metrics.BalanceQueriesTotal.WithLabelValues("store").Inc()

	if s.cache != nil {
		if err := s.cache.Set(ctx, userID, balance); err != nil {
			s.log.Warn().Err(err).Int64("user_id", userID).Msg("balance cache write failed")
		}
	}

	return balance, nil
}
