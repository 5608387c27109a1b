// Package model defines the domain types shared across the application.
package model

import (
	"github.com/shopspring/decimal"
)

// LedgerKind identifies one of the two parallel transaction ledgers.
type LedgerKind string

const (
	// LedgerIncome is the income ledger.
	LedgerIncome LedgerKind = "income"
	// LedgerExpense is the expense ledger.
	LedgerExpense LedgerKind = "expense"
)

// Valid reports whether k is a known ledger kind.
func (k LedgerKind) Valid() bool {
	return k == LedgerIncome || k == LedgerExpense
}

// CategoryType returns the category type transactions in this ledger reference.
func (k LedgerKind) CategoryType() CategoryType {
	if k == LedgerIncome {
		return CategoryTypeIncome
	}
	return CategoryTypeExpense
}

// Transaction represents a single entry in one ledger. Identity is the
// server-assigned ID; the category is held as a foreign reference only.
type Transaction struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	CategoryID string          `json:"categoryId"`
	Amount     decimal.Decimal `json:"amount"`
	Date       Date            `json:"date"`
	Icon       string          `json:"icon"`
}

// NewTransaction is a validated transaction payload ready for submission.
type NewTransaction struct {
	Name       string          `json:"name"`
	CategoryID string          `json:"categoryId"`
	Amount     decimal.Decimal `json:"amount"`
	Date       Date            `json:"date"`
	Icon       string          `json:"icon"`
}

// Sum returns the total amount of the given transactions.
func Sum(transactions []Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, tx := range transactions {
		total = total.Add(tx.Amount)
	}
	return total
}
