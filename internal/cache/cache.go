// Package cache persists the most recently fetched ledger and category
// state in a local SQLite database so list commands can run offline. The
// cache is an observer of successful loads, never a source of truth for
// mutations.
package cache

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	// SQLite driver.
	_ "github.com/mattn/go-sqlite3"

	"github.com/shopspring/decimal"

	"github.com/mintleaf-fin/mintleaf/internal/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS transactions (
	ledger TEXT NOT NULL,
	id TEXT NOT NULL,
	name TEXT NOT NULL,
	category_id TEXT NOT NULL,
	amount TEXT NOT NULL,
	date TEXT NOT NULL,
	icon TEXT NOT NULL,
	position INTEGER NOT NULL,
	PRIMARY KEY (ledger, id)
);

CREATE TABLE IF NOT EXISTS categories (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	type TEXT NOT NULL,
	icon TEXT NOT NULL,
	position INTEGER NOT NULL
);
`

// Store is a snapshot database handle. Safe for concurrent use.
type Store struct {
	db *sql.DB
}

// Open opens or creates the snapshot database at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create cache directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize cache schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveTransactions replaces the stored snapshot of one ledger, preserving
// server order.
func (s *Store) SaveTransactions(ctx context.Context, kind model.LedgerKind, transactions []model.Transaction) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM transactions WHERE ledger = ?`, string(kind)); err != nil {
		return fmt.Errorf("failed to clear %s snapshot: %w", kind, err)
	}

	for i, t := range transactions {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO transactions (ledger, id, name, category_id, amount, date, icon, position)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			string(kind), t.ID, t.Name, t.CategoryID, t.Amount.String(), t.Date.String(), t.Icon, i,
		)
		if err != nil {
			return fmt.Errorf("failed to store transaction %s: %w", t.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit snapshot: %w", err)
	}

	slog.Debug("snapshot saved", "ledger", kind, "count", len(transactions))
	return nil
}

// Transactions returns the stored snapshot of one ledger in saved order.
func (s *Store) Transactions(ctx context.Context, kind model.LedgerKind) ([]model.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, category_id, amount, date, icon
		FROM transactions
		WHERE ledger = ?
		ORDER BY position`,
		string(kind),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s snapshot: %w", kind, err)
	}
	defer rows.Close()

	var transactions []model.Transaction
	for rows.Next() {
		var t model.Transaction
		var amount, date string
		if err := rows.Scan(&t.ID, &t.Name, &t.CategoryID, &amount, &date, &t.Icon); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}

		if t.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("corrupt amount for transaction %s: %w", t.ID, err)
		}
		if t.Date, err = model.ParseDate(date); err != nil {
			return nil, fmt.Errorf("corrupt date for transaction %s: %w", t.ID, err)
		}
		transactions = append(transactions, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}
	return transactions, nil
}

// SaveCategories replaces the stored category snapshot.
func (s *Store) SaveCategories(ctx context.Context, categories []model.Category) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM categories`); err != nil {
		return fmt.Errorf("failed to clear category snapshot: %w", err)
	}

	for i, c := range categories {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO categories (id, name, type, icon, position)
			VALUES (?, ?, ?, ?, ?)`,
			c.ID, c.Name, string(c.Type), c.Icon, i,
		)
		if err != nil {
			return fmt.Errorf("failed to store category %s: %w", c.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit snapshot: %w", err)
	}

	slog.Debug("category snapshot saved", "count", len(categories))
	return nil
}

// Categories returns the stored category snapshot in saved order.
func (s *Store) Categories(ctx context.Context) ([]model.Category, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, type, icon
		FROM categories
		ORDER BY position`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query category snapshot: %w", err)
	}
	defer rows.Close()

	var categories []model.Category
	for rows.Next() {
		var c model.Category
		var categoryType string
		if err := rows.Scan(&c.ID, &c.Name, &categoryType, &c.Icon); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		c.Type = model.CategoryType(categoryType)
		categories = append(categories, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}
	return categories, nil
}
