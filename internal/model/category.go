package model

// CategoryType indicates whether a category applies to income or expense
// transactions.
type CategoryType string

const (
	// CategoryTypeIncome marks categories for the income ledger.
	CategoryTypeIncome CategoryType = "income"
	// CategoryTypeExpense marks categories for the expense ledger.
	CategoryTypeExpense CategoryType = "expense"
)

// Valid reports whether t is a known category type.
func (t CategoryType) Valid() bool {
	return t == CategoryTypeIncome || t == CategoryTypeExpense
}

// Category represents a user-defined transaction category. Within one type,
// names are unique case-insensitively after trimming.
type Category struct {
	ID   string       `json:"id"`
	Name string       `json:"name"`
	Type CategoryType `json:"type"`
	Icon string       `json:"icon"`
}

// NewCategory is a validated category payload ready for submission.
type NewCategory struct {
	Name string       `json:"name"`
	Type CategoryType `json:"type"`
	Icon string       `json:"icon"`
}
