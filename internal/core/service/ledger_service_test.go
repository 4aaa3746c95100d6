package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/finbook/ledger-system/internal/core/domain"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	byUsername map[string]*domain.User
	nextID     int64
	upsertErr  error // if set, GetByUsernameOrCreate returns this error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byUsername: make(map[string]*domain.User), nextID: 1}
}

func (r *stubUserRepo) Create(_ context.Context, username string) (*domain.User, error) {
	if _, ok := r.byUsername[username]; ok {
		return nil, domain.ErrDuplicateUsername
	}
	user := &domain.User{ID: r.nextID, Username: username}
	r.nextID++
	r.byUsername[username] = user
	clone := *user
	return &clone, nil
}

func (r *stubUserRepo) GetByUsernameOrCreate(ctx context.Context, username string) (*domain.User, error) {
	if r.upsertErr != nil {
		return nil, r.upsertErr
	}
	if user, ok := r.byUsername[username]; ok {
		clone := *user
		return &clone, nil
	}
	return r.Create(ctx, username)
}

func (r *stubUserRepo) Delete(_ context.Context, userID int64) (bool, error) {
	for username, user := range r.byUsername {
		if user.ID == userID {
			delete(r.byUsername, username)
			return true, nil
		}
	}
	return false, nil
}

type stubTransactionRepo struct {
	byID      map[int64]*domain.Transaction
	nextID    int64
	users     *stubUserRepo // for foreign key checks
	createErr error         // if set, Create returns this error
}

func newStubTransactionRepo(users *stubUserRepo) *stubTransactionRepo {
	return &stubTransactionRepo{byID: make(map[int64]*domain.Transaction), nextID: 1, users: users}
}

func (r *stubTransactionRepo) Create(_ context.Context, userID, amount int64, income bool) (int64, error) {
	if r.createErr != nil {
		return 0, r.createErr
	}
	// Enforce the foreign key (mirrors the real SQLite constraint).
	found := false
	for _, user := range r.users.byUsername {
		if user.ID == userID {
			found = true
			break
		}
	}
	if !found {
		return 0, domain.ErrUserNotFound
	}

	id := r.nextID
	r.nextID++
	r.byID[id] = &domain.Transaction{ID: id, UserID: userID, Amount: amount, Income: income}
	return id, nil
}

func (r *stubTransactionRepo) Get(_ context.Context, id int64) (*domain.Transaction, error) {
	tx, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	clone := *tx
	return &clone, nil
}

func (r *stubTransactionRepo) Delete(_ context.Context, id int64) (bool, error) {
	if _, ok := r.byID[id]; !ok {
		return false, nil
	}
	delete(r.byID, id)
	return true, nil
}

func (r *stubTransactionRepo) ListByUser(_ context.Context, userID int64) ([]*domain.Transaction, error) {
	var out []*domain.Transaction
	for id := int64(1); id < r.nextID; id++ {
		if tx, ok := r.byID[id]; ok && tx.UserID == userID {
			clone := *tx
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *stubTransactionRepo) NetBalance(_ context.Context, userID int64) (int64, error) {
	var balance int64
	for _, tx := range r.byID {
		if tx.UserID != userID {
			continue
		}
		if tx.Income {
			balance += tx.Amount
		} else {
			balance -= tx.Amount
		}
	}
	return balance, nil
}

// cascade removes a user's transactions the way ON DELETE CASCADE would.
func (r *stubTransactionRepo) cascade(userID int64) {
	for id, tx := range r.byID {
		if tx.UserID == userID {
			delete(r.byID, id)
		}
	}
}

// recordingInvalidator tracks which user balances were invalidated.
type recordingInvalidator struct {
	invalidated []int64
}

func (i *recordingInvalidator) Invalidate(_ context.Context, userID int64) error {
	i.invalidated = append(i.invalidated, userID)
	return nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

var discardLogger = zerolog.Nop()

func newTestLedger(t *testing.T) (*LedgerService, *stubUserRepo, *stubTransactionRepo) {
	t.Helper()
	users := newStubUserRepo()
	transactions := newStubTransactionRepo(users)
	return NewLedgerService(users, transactions, nil, discardLogger), users, transactions
}

// ---------------------------------------------------------------------------
// GetOrCreateUser tests
// ---------------------------------------------------------------------------

func TestLedgerService_GetOrCreateUser_Idempotent(t *testing.T) {
	svc, users, _ := newTestLedger(t)
	ctx := context.Background()

	first, err := svc.GetOrCreateUser(ctx, "alice")
	if err != nil {
		t.Fatalf("first call failed: %v", err)
	}
	second, err := svc.GetOrCreateUser(ctx, "alice")
	if err != nil {
		t.Fatalf("second call failed: %v", err)
	}

	if first.ID != second.ID {
		t.Fatalf("expected identical ids, got %d and %d", first.ID, second.ID)
	}
	if len(users.byUsername) != 1 {
		t.Fatalf("expected exactly one stored user, got %d", len(users.byUsername))
	}
}

func TestLedgerService_GetOrCreateUser_EmptyUsername(t *testing.T) {
	svc, users, _ := newTestLedger(t)

	_, err := svc.GetOrCreateUser(context.Background(), "")
	if !errors.Is(err, domain.ErrInvalidUsername) {
		t.Fatalf("expected ErrInvalidUsername, got %v", err)
	}
	if len(users.byUsername) != 0 {
		t.Fatalf("empty username must not reach the store")
	}
}

func TestLedgerService_GetOrCreateUser_RepoError(t *testing.T) {
	users := newStubUserRepo()
	users.upsertErr = errors.New("disk on fire")
	svc := NewLedgerService(users, newStubTransactionRepo(users), nil, discardLogger)

	if _, err := svc.GetOrCreateUser(context.Background(), "alice"); err == nil {
		t.Fatal("expected error to propagate")
	}
}

// ---------------------------------------------------------------------------
// AddIncome / AddExpense tests
// ---------------------------------------------------------------------------

func TestLedgerService_AddIncome_ReturnsStoredTransaction(t *testing.T) {
	svc, _, _ := newTestLedger(t)
	ctx := context.Background()

	user, err := svc.GetOrCreateUser(ctx, "gustav")
	if err != nil {
		t.Fatalf("GetOrCreateUser failed: %v", err)
	}

	tx, err := svc.AddIncome(ctx, user.ID, 4530)
	if err != nil {
		t.Fatalf("AddIncome failed: %v", err)
	}

	if tx.ID == 0 {
		t.Error("expected store-assigned id")
	}
	if tx.UserID != user.ID {
		t.Errorf("expected owner %d, got %d", user.ID, tx.UserID)
	}
	if tx.Amount != 4530 {
		t.Errorf("expected amount 4530, got %d", tx.Amount)
	}
	if !tx.Income {
		t.Error("expected income flag set")
	}
}

func TestLedgerService_AddExpense_TagsAsExpense(t *testing.T) {
	svc, _, _ := newTestLedger(t)
	ctx := context.Background()

	user, _ := svc.GetOrCreateUser(ctx, "gustav")
	tx, err := svc.AddExpense(ctx, user.ID, 1000)
	if err != nil {
		t.Fatalf("AddExpense failed: %v", err)
	}
	if tx.Income {
		t.Error("expected expense, got income")
	}
}

func TestLedgerService_AddIncome_UnknownUser(t *testing.T) {
	svc, _, _ := newTestLedger(t)

	_, err := svc.AddIncome(context.Background(), 42, 100)
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestLedgerService_Writes_InvalidateBalance(t *testing.T) {
	users := newStubUserRepo()
	transactions := newStubTransactionRepo(users)
	inv := &recordingInvalidator{}
	svc := NewLedgerService(users, transactions, inv, discardLogger)
	ctx := context.Background()

	user, _ := svc.GetOrCreateUser(ctx, "alice")
	tx, _ := svc.AddIncome(ctx, user.ID, 100)
	if _, err := svc.RemoveIncome(ctx, user.ID, tx.ID); err != nil {
		t.Fatalf("RemoveIncome failed: %v", err)
	}
	if _, err := svc.DeleteUser(ctx, user.ID); err != nil {
		t.Fatalf("DeleteUser failed: %v", err)
	}

	// add, remove, delete-user: three invalidations for this user
	if len(inv.invalidated) != 3 {
		t.Fatalf("expected 3 invalidations, got %d", len(inv.invalidated))
	}
	for _, id := range inv.invalidated {
		if id != user.ID {
			t.Fatalf("invalidated wrong user: %d", id)
		}
	}
}

// ---------------------------------------------------------------------------
// RemoveIncome / RemoveExpense ownership guard
// ---------------------------------------------------------------------------

func TestLedgerService_Remove_OwnershipGuard(t *testing.T) {
	svc, _, transactions := newTestLedger(t)
	ctx := context.Background()

	alice, _ := svc.GetOrCreateUser(ctx, "alice")
	bob, _ := svc.GetOrCreateUser(ctx, "bob")

	income, err := svc.AddIncome(ctx, alice.ID, 500)
	if err != nil {
		t.Fatalf("AddIncome failed: %v", err)
	}
	expense, err := svc.AddExpense(ctx, alice.ID, 200)
	if err != nil {
		t.Fatalf("AddExpense failed: %v", err)
	}

	tests := []struct {
		name   string
		remove func() (bool, error)
		want   bool
	}{
		{
			name:   "wrong owner is rejected",
			remove: func() (bool, error) { return svc.RemoveIncome(ctx, bob.ID, income.ID) },
			want:   false,
		},
		{
			name:   "wrong kind is rejected",
			remove: func() (bool, error) { return svc.RemoveIncome(ctx, alice.ID, expense.ID) },
			want:   false,
		},
		{
			name:   "absent id is rejected",
			remove: func() (bool, error) { return svc.RemoveIncome(ctx, alice.ID, 9999) },
			want:   false,
		},
		{
			name:   "owner and kind match is removed",
			remove: func() (bool, error) { return svc.RemoveIncome(ctx, alice.ID, income.ID) },
			want:   true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.remove()
			if err != nil {
				t.Fatalf("remove failed: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}

	// The rejected attempts must not have touched the expense row.
	if tx, _ := transactions.Get(ctx, expense.ID); tx == nil {
		t.Fatal("expense was removed by a rejected attempt")
	}
	// The income row is gone after the successful removal.
	if tx, _ := transactions.Get(ctx, income.ID); tx != nil {
		t.Fatal("income should have been removed")
	}
}

func TestLedgerService_RemoveExpense_MatchesExpenseOnly(t *testing.T) {
	svc, _, _ := newTestLedger(t)
	ctx := context.Background()

	user, _ := svc.GetOrCreateUser(ctx, "gustav")
	income, _ := svc.AddIncome(ctx, user.ID, 4530)
	expense, _ := svc.AddExpense(ctx, user.ID, 1000)

	if removed, _ := svc.RemoveExpense(ctx, user.ID, income.ID); removed {
		t.Fatal("RemoveExpense must not delete an income entry")
	}
	removed, err := svc.RemoveExpense(ctx, user.ID, expense.ID)
	if err != nil {
		t.Fatalf("RemoveExpense failed: %v", err)
	}
	if !removed {
		t.Fatal("expected expense to be removed")
	}
}

// ---------------------------------------------------------------------------
// GetTransaction / ListTransactions / DeleteUser
// ---------------------------------------------------------------------------

func TestLedgerService_GetTransaction_NotFound(t *testing.T) {
	svc, _, _ := newTestLedger(t)

	_, err := svc.GetTransaction(context.Background(), 123)
	if !errors.Is(err, domain.ErrTransactionNotFound) {
		t.Fatalf("expected ErrTransactionNotFound, got %v", err)
	}
}

func TestLedgerService_ListTransactions_OwnerScoped(t *testing.T) {
	svc, _, _ := newTestLedger(t)
	ctx := context.Background()

	alice, _ := svc.GetOrCreateUser(ctx, "alice")
	bob, _ := svc.GetOrCreateUser(ctx, "bob")
	if _, err := svc.AddIncome(ctx, alice.ID, 100); err != nil {
		t.Fatalf("AddIncome failed: %v", err)
	}
	if _, err := svc.AddExpense(ctx, alice.ID, 50); err != nil {
		t.Fatalf("AddExpense failed: %v", err)
	}
	if _, err := svc.AddIncome(ctx, bob.ID, 7); err != nil {
		t.Fatalf("AddIncome failed: %v", err)
	}

	list, err := svc.ListTransactions(ctx, alice.ID)
	if err != nil {
		t.Fatalf("ListTransactions failed: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(list))
	}
	for _, tx := range list {
		if tx.UserID != alice.ID {
			t.Fatalf("leaked transaction of user %d", tx.UserID)
		}
	}
}

func TestLedgerService_DeleteUser(t *testing.T) {
	svc, _, transactions := newTestLedger(t)
	ctx := context.Background()

	user, _ := svc.GetOrCreateUser(ctx, "alice")
	if _, err := svc.AddIncome(ctx, user.ID, 100); err != nil {
		t.Fatalf("AddIncome failed: %v", err)
	}

	deleted, err := svc.DeleteUser(ctx, user.ID)
	if err != nil {
		t.Fatalf("DeleteUser failed: %v", err)
	}
	if !deleted {
		t.Fatal("expected user to be deleted")
	}
	transactions.cascade(user.ID) // the real store cascades inside DELETE

	list, err := svc.ListTransactions(ctx, user.ID)
	if err != nil {
		t.Fatalf("ListTransactions failed: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("expected no transactions after cascade, got %d", len(list))
	}

	if deleted, _ := svc.DeleteUser(ctx, user.ID); deleted {
		t.Fatal("deleting an absent user must report false")
	}
}
