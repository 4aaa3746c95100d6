package service

import (
	"context"
	"errors"
	"testing"
)

type stubBalanceCache struct {
	entries map[int64]int64
	getErr  error
	setErr  error
	gets    int
	sets    int
}

func newStubBalanceCache() *stubBalanceCache {
	return &stubBalanceCache{entries: make(map[int64]int64)}
}

func (c *stubBalanceCache) Get(_ context.Context, userID int64) (int64, bool, error) {
	c.gets++
	if c.getErr != nil {
		return 0, false, c.getErr
	}
	balance, ok := c.entries[userID]
	return balance, ok, nil
}

func (c *stubBalanceCache) Set(_ context.Context, userID, balance int64) error {
	c.sets++
	if c.setErr != nil {
		return c.setErr
	}
	c.entries[userID] = balance
	return nil
}

func (c *stubBalanceCache) Invalidate(_ context.Context, userID int64) error {
	delete(c.entries, userID)
	return nil
}

func seedTransactions(t *testing.T) (*stubTransactionRepo, int64) {
	t.Helper()
	users := newStubUserRepo()
	transactions := newStubTransactionRepo(users)
	ctx := context.Background()

	user, err := users.Create(ctx, "gustav")
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	for _, tx := range []struct {
		amount int64
		income bool
	}{
		{4530, true},
		{1000, false},
		{250, false},
	} {
		if _, err := transactions.Create(ctx, user.ID, tx.amount, tx.income); err != nil {
			t.Fatalf("seed transaction: %v", err)
		}
	}
	return transactions, user.ID
}

func TestAnalyticsService_NetBalance(t *testing.T) {
	transactions, userID := seedTransactions(t)
	svc := NewAnalyticsService(transactions, nil, discardLogger)

	balance, err := svc.NetBalance(context.Background(), userID)
	if err != nil {
		t.Fatalf("NetBalance failed: %v", err)
	}
	if want := int64(4530 - 1000 - 250); balance != want {
		t.Fatalf("expected balance %d, got %d", want, balance)
	}
}

func TestAnalyticsService_NetBalance_NoTransactions(t *testing.T) {
	users := newStubUserRepo()
	svc := NewAnalyticsService(newStubTransactionRepo(users), nil, discardLogger)

	balance, err := svc.NetBalance(context.Background(), 99)
	if err != nil {
		t.Fatalf("NetBalance failed: %v", err)
	}
	if balance != 0 {
		t.Fatalf("expected zero balance, got %d", balance)
	}
}

func TestAnalyticsService_NetBalance_CacheHitSkipsStore(t *testing.T) {
	transactions, userID := seedTransactions(t)
	cache := newStubBalanceCache()
	cache.entries[userID] = 777
	svc := NewAnalyticsService(transactions, cache, discardLogger)

	balance, err := svc.NetBalance(context.Background(), userID)
	if err != nil {
		t.Fatalf("NetBalance failed: %v", err)
	}
	if balance != 777 {
		t.Fatalf("expected cached balance 777, got %d", balance)
	}
	if cache.sets != 0 {
		t.Fatal("cache hit must not trigger a cache write")
	}
}

func TestAnalyticsService_NetBalance_MissPopulatesCache(t *testing.T) {
	transactions, userID := seedTransactions(t)
	cache := newStubBalanceCache()
	svc := NewAnalyticsService(transactions, cache, discardLogger)

	balance, err := svc.NetBalance(context.Background(), userID)
	if err != nil {
		t.Fatalf("NetBalance failed: %v", err)
	}
	if cached, ok := cache.entries[userID]; !ok || cached != balance {
		t.Fatalf("expected cache to hold %d, got %d (present: %v)", balance, cached, ok)
	}
}

func TestAnalyticsService_NetBalance_CacheErrorsIgnored(t *testing.T) {
	transactions, userID := seedTransactions(t)
	cache := newStubBalanceCache()
	cache.getErr = errors.New("redis gone")
	cache.setErr = errors.New("redis still gone")
	svc := NewAnalyticsService(transactions, cache, discardLogger)

	balance, err := svc.NetBalance(context.Background(), userID)
	if err != nil {
		t.Fatalf("cache failure must not fail the query: %v", err)
	}
	if want := int64(4530 - 1000 - 250); balance != want {
		t.Fatalf("expected store balance %d, got %d", want, balance)
	}
}
