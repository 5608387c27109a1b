// Package store holds the client-side ledger and category state and
// orchestrates fetch, mutation, and reconciliation against the remote
// service. Mutations are never applied optimistically: each successful one
// triggers a reconciling re-fetch, so displayed state always reflects a
// completed full fetch.
package store

import (
	"context"

	"github.com/mintleaf-fin/mintleaf/internal/model"
)

// Service is the remote contract the stores reconcile against. The api
// package provides the production implementation.
type Service interface {
	// Transaction operations
	Transactions(ctx context.Context, kind model.LedgerKind) ([]model.Transaction, error)
	CreateTransaction(ctx context.Context, kind model.LedgerKind, payload model.NewTransaction) (*model.Transaction, error)
	DeleteTransaction(ctx context.Context, kind model.LedgerKind, id string) error

	// Category operations
	Categories(ctx context.Context) ([]model.Category, error)
	CategoriesByType(ctx context.Context, categoryType model.CategoryType) ([]model.Category, error)
	CreateCategory(ctx context.Context, payload model.NewCategory) (*model.Category, error)
	UpdateCategory(ctx context.Context, id string, payload model.NewCategory) error
}

// Snapshots receives the result of every successful load for offline reads.
// Snapshot failures are logged, never surfaced: the cache is an observer of
// loads, not a participant in them.
type Snapshots interface {
	SaveTransactions(ctx context.Context, kind model.LedgerKind, transactions []model.Transaction) error
	SaveCategories(ctx context.Context, categories []model.Category) error
}
