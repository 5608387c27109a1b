package store

import (
	"context"
	"errors"
	"runtime"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mintleaf-fin/mintleaf/internal/common"
	"github.com/mintleaf-fin/mintleaf/internal/model"
	"github.com/mintleaf-fin/mintleaf/internal/rules"
	"github.com/mintleaf-fin/mintleaf/internal/tracker"
)

func seedIncome(service *fakeService, transactions ...model.Transaction) {
	service.transactions[model.LedgerIncome] = transactions
}

func mustDate(t *testing.T, s string) model.Date {
	t.Helper()
	d, err := model.ParseDate(s)
	require.NoError(t, err)
	return d
}

func validTransactionInput() rules.TransactionInput {
	return rules.TransactionInput{
		Name:       "Salary",
		CategoryID: "c1",
		Amount:     "1500",
		Date:       "2024-01-01",
		Icon:       "💰",
	}
}

func TestLedgerLoad(t *testing.T) {
	ctx := context.Background()

	t.Run("wholesale replace in server order", func(t *testing.T) {
		service := newFakeService()
		seedIncome(service,
			model.Transaction{ID: "tx2", Name: "Bonus", Amount: decimal.RequireFromString("100"), Date: mustDate(t, "2024-02-01")},
			model.Transaction{ID: "tx1", Name: "Salary", Amount: decimal.RequireFromString("1500"), Date: mustDate(t, "2024-01-01")},
		)
		ledger := NewLedger(model.LedgerIncome, service, nil, nil)

		require.NoError(t, ledger.Load(ctx))
		got := ledger.Transactions()
		require.Len(t, got, 2)
		assert.Equal(t, "tx2", got[0].ID)
		assert.Equal(t, "tx1", got[1].ID)
		assert.Equal(t, tracker.StatusIdle, ledger.Loading().Status())
	})

	t.Run("idempotent without intervening mutation", func(t *testing.T) {
		service := newFakeService()
		seedIncome(service, model.Transaction{ID: "tx1", Name: "Salary", Amount: decimal.RequireFromString("1500"), Date: mustDate(t, "2024-01-01")})
		ledger := NewLedger(model.LedgerIncome, service, nil, nil)

		require.NoError(t, ledger.Load(ctx))
		first := ledger.Transactions()
		require.NoError(t, ledger.Load(ctx))
		second := ledger.Transactions()

		assert.Equal(t, first, second)
		assert.Equal(t, 2, service.callCount("transactions"))
	})

	t.Run("fails closed retaining previous set", func(t *testing.T) {
		service := newFakeService()
		seedIncome(service, model.Transaction{ID: "tx1", Name: "Salary", Amount: decimal.RequireFromString("1500"), Date: mustDate(t, "2024-01-01")})
		notifier := &recordingNotifier{}
		ledger := NewLedger(model.LedgerIncome, service, notifier, nil)

		require.NoError(t, ledger.Load(ctx))
		require.Len(t, ledger.Transactions(), 1)

		service.mu.Lock()
		service.transactionsErr = &common.RemoteError{StatusCode: 500}
		service.mu.Unlock()

		require.Error(t, ledger.Load(ctx))
		assert.Len(t, ledger.Transactions(), 1, "previous set must be retained")
		assert.Equal(t, tracker.StatusError, ledger.Loading().Status())
		assert.Equal(t, "Failed to fetch income details", notifier.lastError())
	})

	t.Run("at most one fetch in flight", func(t *testing.T) {
		service := newFakeService()
		release := make(chan struct{})
		service.blockTransactions = release
		ledger := NewLedger(model.LedgerIncome, service, nil, nil)

		done := make(chan error, 1)
		go func() { done <- ledger.Load(ctx) }()

		// Wait until the first load is inside the service call.
		for service.callCount("transactions") == 0 {
			runtime.Gosched()
		}

		// The second load is suppressed, not queued.
		require.NoError(t, ledger.Load(ctx))
		assert.Equal(t, 1, service.callCount("transactions"))

		close(release)
		require.NoError(t, <-done)
		assert.Equal(t, 1, service.callCount("transactions"))
	})
}

func TestLedgerLoadCategories(t *testing.T) {
	ctx := context.Background()
	service := newFakeService()
	service.categories = []model.Category{
		{ID: "c1", Name: "Salary", Type: model.CategoryTypeIncome},
		{ID: "c2", Name: "Rent", Type: model.CategoryTypeExpense},
	}
	ledger := NewLedger(model.LedgerIncome, service, nil, nil)

	require.NoError(t, ledger.LoadCategories(ctx))
	got := ledger.Categories()
	require.Len(t, got, 1, "server-side filter by kind")
	assert.Equal(t, "c1", got[0].ID)
	assert.Equal(t, tracker.StatusIdle, ledger.LoadingCategories().Status())
}

func TestLedgerAdd(t *testing.T) {
	ctx := context.Background()

	t.Run("valid input submits and reconciles", func(t *testing.T) {
		service := newFakeService()
		notifier := &recordingNotifier{}
		ledger := NewLedger(model.LedgerIncome, service, notifier, nil)

		require.NoError(t, ledger.Add(ctx, validTransactionInput()))

		assert.Equal(t, 1, service.callCount("createTransaction"))
		assert.Equal(t, 1, service.callCount("transactions"), "reconcile fetches the ledger once")
		assert.Equal(t, 1, service.callCount("categoriesByType"))
		assert.Equal(t, tracker.StatusIdle, ledger.Adding().Status())

		got := ledger.Transactions()
		require.Len(t, got, 1)
		assert.Equal(t, "Salary", got[0].Name)
		assert.Equal(t, "1500", got[0].Amount.String())
		assert.Equal(t, []string{"Income added successfully"}, notifier.successes)
	})

	t.Run("validation failures issue zero network calls", func(t *testing.T) {
		tests := []struct {
			name    string
			mutate  func(*rules.TransactionInput)
			wantErr error
		}{
			{name: "empty name", mutate: func(in *rules.TransactionInput) { in.Name = "  " }, wantErr: common.ErrMissingField},
			{name: "missing category", mutate: func(in *rules.TransactionInput) { in.CategoryID = "" }, wantErr: common.ErrMissingField},
			{name: "non-numeric amount", mutate: func(in *rules.TransactionInput) { in.Amount = "abc" }, wantErr: common.ErrInvalidAmount},
			{name: "zero amount", mutate: func(in *rules.TransactionInput) { in.Amount = "0" }, wantErr: common.ErrInvalidAmount},
			{name: "negative amount", mutate: func(in *rules.TransactionInput) { in.Amount = "-5" }, wantErr: common.ErrInvalidAmount},
			{name: "future date", mutate: func(in *rules.TransactionInput) { in.Date = "2999-12-31" }, wantErr: common.ErrFutureDate},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				service := newFakeService()
				notifier := &recordingNotifier{}
				ledger := NewLedger(model.LedgerIncome, service, notifier, nil)

				input := validTransactionInput()
				tt.mutate(&input)

				err := ledger.Add(ctx, input)
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr))
				assert.Equal(t, 0, service.totalCalls(), "validation must fail fast")
				assert.Equal(t, tracker.StatusError, ledger.Adding().Status())
				assert.False(t, ledger.Adding().Busy(), "busy flag released on validation failure")
				assert.NotEmpty(t, notifier.lastError())
			})
		}
	})

	t.Run("server failure surfaces server message", func(t *testing.T) {
		service := newFakeService()
		service.createTransactionErr = &common.RemoteError{StatusCode: 400, Message: "category does not exist"}
		notifier := &recordingNotifier{}
		ledger := NewLedger(model.LedgerIncome, service, notifier, nil)

		require.Error(t, ledger.Add(ctx, validTransactionInput()))
		assert.Equal(t, "category does not exist", notifier.lastError())
		assert.Equal(t, tracker.StatusError, ledger.Adding().Status())
		assert.Equal(t, 0, service.callCount("transactions"), "no reconcile after failure")
	})

	t.Run("unreachable server gets connection phrasing", func(t *testing.T) {
		service := newFakeService()
		service.createTransactionErr = common.ErrUnreachable
		notifier := &recordingNotifier{}
		ledger := NewLedger(model.LedgerExpense, service, notifier, nil)

		require.Error(t, ledger.Add(ctx, validTransactionInput()))
		assert.Equal(t, "Unable to reach the server. Please check your connection.", notifier.lastError())
	})
}

func TestLedgerDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("success clears pending state and reconciles", func(t *testing.T) {
		service := newFakeService()
		seedIncome(service,
			model.Transaction{ID: "tx9", Name: "Salary", Amount: decimal.RequireFromString("1500"), Date: mustDate(t, "2024-01-01")},
			model.Transaction{ID: "tx10", Name: "Bonus", Amount: decimal.RequireFromString("50"), Date: mustDate(t, "2024-01-02")},
		)
		ledger := NewLedger(model.LedgerIncome, service, nil, nil)
		require.NoError(t, ledger.Load(ctx))

		ledger.RequestDelete("tx9")
		assert.True(t, ledger.PendingDelete().Show)

		require.NoError(t, ledger.Delete(ctx, "tx9"))

		assert.Equal(t, PendingDelete{}, ledger.PendingDelete())
		for _, tx := range ledger.Transactions() {
			assert.NotEqual(t, "tx9", tx.ID, "reconciled ledger no longer contains tx9")
		}
		assert.Equal(t, tracker.StatusIdle, ledger.Deleting().Status())
	})

	t.Run("missing id fails without network call", func(t *testing.T) {
		service := newFakeService()
		ledger := NewLedger(model.LedgerIncome, service, nil, nil)

		err := ledger.Delete(ctx, "")
		require.Error(t, err)
		assert.True(t, errors.Is(err, common.ErrMissingID))
		assert.Equal(t, 0, service.totalCalls())
	})

	t.Run("failure leaves ledger untouched", func(t *testing.T) {
		service := newFakeService()
		seedIncome(service, model.Transaction{ID: "tx9", Name: "Salary", Amount: decimal.RequireFromString("1500"), Date: mustDate(t, "2024-01-01")})
		notifier := &recordingNotifier{}
		ledger := NewLedger(model.LedgerIncome, service, notifier, nil)
		require.NoError(t, ledger.Load(ctx))

		service.mu.Lock()
		service.deleteTransactionErr = &common.RemoteError{StatusCode: 500}
		service.mu.Unlock()

		require.Error(t, ledger.Delete(ctx, "tx9"))
		require.Len(t, ledger.Transactions(), 1, "no optimistic removal")
		assert.Equal(t, "Failed to delete income", notifier.lastError())
		assert.Equal(t, tracker.StatusError, ledger.Deleting().Status())
	})
}

func TestLedgerSnapshotsWriteThrough(t *testing.T) {
	ctx := context.Background()

	t.Run("successful load snapshots", func(t *testing.T) {
		service := newFakeService()
		seedIncome(service, model.Transaction{ID: "tx1", Name: "Salary", Amount: decimal.RequireFromString("1500"), Date: mustDate(t, "2024-01-01")})
		snapshots := &recordingSnapshots{}
		ledger := NewLedger(model.LedgerIncome, service, nil, snapshots)

		require.NoError(t, ledger.Load(ctx))
		assert.Equal(t, 1, snapshots.transactionSaves)
	})

	t.Run("failed load does not snapshot", func(t *testing.T) {
		service := newFakeService()
		service.transactionsErr = &common.RemoteError{StatusCode: 500}
		snapshots := &recordingSnapshots{}
		ledger := NewLedger(model.LedgerIncome, service, nil, snapshots)

		require.Error(t, ledger.Load(ctx))
		assert.Equal(t, 0, snapshots.transactionSaves)
	})
}
