package store

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mintleaf-fin/mintleaf/internal/common"
	"github.com/mintleaf-fin/mintleaf/internal/model"
	"github.com/mintleaf-fin/mintleaf/internal/notify"
	"github.com/mintleaf-fin/mintleaf/internal/rules"
	"github.com/mintleaf-fin/mintleaf/internal/tracker"
)

// PendingDelete is the transient delete-confirmation state. It is reset
// once the delete resolves, whatever the outcome.
type PendingDelete struct {
	TargetID string
	Show     bool
}

// Ledger holds the transaction set of one kind (income or expense) and
// orchestrates fetch, create, and delete against the remote service. Each
// operation kind runs under its own tracker; trackers never serialize each
// other.
type Ledger struct {
	kind      model.LedgerKind
	service   Service
	notifier  notify.Notifier
	snapshots Snapshots
	rules     rules.Validator

	mu            sync.Mutex
	transactions  []model.Transaction
	categories    []model.Category
	pendingDelete PendingDelete

	loading           *tracker.Tracker
	loadingCategories *tracker.Tracker
	adding            *tracker.Tracker
	deleting          *tracker.Tracker
}

// NewLedger builds the store for one transaction ledger. snapshots may be
// nil when no offline cache is configured.
func NewLedger(kind model.LedgerKind, service Service, notifier notify.Notifier, snapshots Snapshots) *Ledger {
	if notifier == nil {
		notifier = notify.Discard{}
	}
	return &Ledger{
		kind:              kind,
		service:           service,
		notifier:          notifier,
		snapshots:         snapshots,
		loading:           tracker.New(),
		loadingCategories: tracker.New(),
		adding:            tracker.New(),
		deleting:          tracker.New(),
	}
}

// Kind returns the ledger this store manages.
func (l *Ledger) Kind() model.LedgerKind {
	return l.kind
}

// Load replaces the in-memory ledger with the server's current state. The
// replace is wholesale and fails closed: on error the previous set is
// retained. A call while a previous load is still in flight is a no-op, so
// at most one fetch is ever outstanding per ledger.
func (l *Ledger) Load(ctx context.Context) error {
	ran, err := l.loading.TryRun(func() error {
		transactions, err := l.service.Transactions(ctx, l.kind)
		if err != nil {
			l.notifier.Error(common.UserMessage(err, fmt.Sprintf("Failed to fetch %s details", l.kind)))
			return err
		}

		l.mu.Lock()
		l.transactions = transactions
		l.mu.Unlock()

		l.snapshotTransactions(ctx, transactions)
		return nil
	})
	if !ran {
		slog.Debug("load suppressed, fetch already in flight", "ledger", l.kind)
		return nil
	}
	return err
}

// LoadCategories fetches the categories usable by this ledger, filtered
// server-side by kind. Runs on its own tracker, independent of Load.
func (l *Ledger) LoadCategories(ctx context.Context) error {
	return l.loadingCategories.Run(func() error {
		categories, err := l.service.CategoriesByType(ctx, l.kind.CategoryType())
		if err != nil {
			l.notifier.Error(common.UserMessage(err, fmt.Sprintf("Failed to fetch %s categories", l.kind)))
			return err
		}

		l.mu.Lock()
		l.categories = categories
		l.mu.Unlock()
		return nil
	})
}

// Add validates input and submits a new transaction. Validation failures
// abort before any network call; the busy state is released on every path.
// On success the modal closes at the caller and the ledger reconciles.
func (l *Ledger) Add(ctx context.Context, input rules.TransactionInput) error {
	return l.adding.Run(func() error {
		payload, err := l.rules.Transaction(input)
		if err != nil {
			l.notifier.Error(common.UserMessage(err, fmt.Sprintf("Failed to add %s", l.kind)))
			return err
		}

		if _, err := l.service.CreateTransaction(ctx, l.kind, payload); err != nil {
			l.notifier.Error(common.UserMessage(err, fmt.Sprintf("Failed to add %s", l.kind)))
			return err
		}

		l.notifier.Success(fmt.Sprintf("%s added successfully", titleKind(l.kind)))
		l.reconcile(ctx)
		l.reconcileCategories(ctx)
		return nil
	})
}

// RequestDelete stages a delete pending user confirmation.
func (l *Ledger) RequestDelete(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.pendingDelete = PendingDelete{Show: true, TargetID: id}
}

// CancelDelete clears the pending confirmation.
func (l *Ledger) CancelDelete() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.pendingDelete = PendingDelete{}
}

// PendingDelete returns the current confirmation state.
func (l *Ledger) PendingDelete() PendingDelete {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pendingDelete
}

// Delete removes one transaction by id, then reconciles. There is no
// optimistic removal: on failure the ledger state is untouched. The pending
// confirmation state is reset once the call resolves, either way.
func (l *Ledger) Delete(ctx context.Context, id string) error {
	return l.deleting.Run(func() error {
		defer l.CancelDelete()

		if id == "" {
			err := fmt.Errorf("%w: transaction id", common.ErrMissingID)
			l.notifier.Error(common.UserMessage(err, fmt.Sprintf("Failed to delete %s", l.kind)))
			return err
		}

		if err := l.service.DeleteTransaction(ctx, l.kind, id); err != nil {
			l.notifier.Error(common.UserMessage(err, fmt.Sprintf("Failed to delete %s", l.kind)))
			return err
		}

		l.notifier.Success(fmt.Sprintf("%s deleted successfully", titleKind(l.kind)))
		l.reconcile(ctx)
		return nil
	})
}

// Transactions returns a copy of the current ledger in server order.
func (l *Ledger) Transactions() []model.Transaction {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]model.Transaction, len(l.transactions))
	copy(out, l.transactions)
	return out
}

// Categories returns a copy of the categories fetched for this ledger.
func (l *Ledger) Categories() []model.Category {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]model.Category, len(l.categories))
	copy(out, l.categories)
	return out
}

// Count returns the number of transactions currently held.
func (l *Ledger) Count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.transactions)
}

// Loading returns the tracker for Load.
func (l *Ledger) Loading() *tracker.Tracker { return l.loading }

// LoadingCategories returns the tracker for LoadCategories.
func (l *Ledger) LoadingCategories() *tracker.Tracker { return l.loadingCategories }

// Adding returns the tracker for Add.
func (l *Ledger) Adding() *tracker.Tracker { return l.adding }

// Deleting returns the tracker for Delete.
func (l *Ledger) Deleting() *tracker.Tracker { return l.deleting }

// reconcile re-fetches authoritative state after a successful mutation in
// place of any optimistic local edit. Reconciliation failures surface
// through Load's own notifier path; the mutation itself already succeeded.
func (l *Ledger) reconcile(ctx context.Context) {
	if err := l.Load(ctx); err != nil {
		slog.Warn("reconcile failed", "ledger", l.kind, "error", err)
	}
}

func (l *Ledger) reconcileCategories(ctx context.Context) {
	if err := l.LoadCategories(ctx); err != nil {
		slog.Warn("category reconcile failed", "ledger", l.kind, "error", err)
	}
}

func (l *Ledger) snapshotTransactions(ctx context.Context, transactions []model.Transaction) {
	if l.snapshots == nil {
		return
	}
	if err := l.snapshots.SaveTransactions(ctx, l.kind, transactions); err != nil {
		slog.Warn("failed to snapshot ledger", "ledger", l.kind, "error", err)
	}
}

func titleKind(kind model.LedgerKind) string {
	if kind == model.LedgerIncome {
		return "Income"
	}
	return "Expense"
}
