// Package rules validates transaction and category payloads before
// submission. All checks are pure and run in a fixed order: the first
// failing rule is reported and later rules do not run.
package rules

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mintleaf-fin/mintleaf/internal/common"
	"github.com/mintleaf-fin/mintleaf/internal/model"
)

// TransactionInput is the raw, unvalidated form data for a new transaction.
// Amount arrives as a string, exactly as the user typed it.
type TransactionInput struct {
	Name       string
	CategoryID string
	Amount     string
	Date       string
	Icon       string
}

// CategoryInput is the raw form data for a new or updated category.
type CategoryInput struct {
	Name string
	Type model.CategoryType
	Icon string
}

// Validator applies the submission rules. The zero value uses the real
// clock; tests pin Now to a fixed instant.
type Validator struct {
	Now func() time.Time
}

func (v Validator) today() model.Date {
	now := time.Now
	if v.Now != nil {
		now = v.Now
	}
	return model.DateOf(now())
}

// Transaction checks input in submission order and returns the validated
// payload with the amount coerced to a decimal.
func (v Validator) Transaction(input TransactionInput) (model.NewTransaction, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return model.NewTransaction{}, &common.ValidationError{
			Err:     common.ErrMissingField,
			Field:   "name",
			Message: "Please enter a name",
		}
	}

	if input.CategoryID == "" {
		return model.NewTransaction{}, &common.ValidationError{
			Err:     common.ErrMissingField,
			Field:   "categoryId",
			Message: "Please select a category",
		}
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(input.Amount))
	if err != nil || !amount.IsPositive() {
		return model.NewTransaction{}, &common.ValidationError{
			Err:     common.ErrInvalidAmount,
			Field:   "amount",
			Message: "Amount should be a valid number greater than 0",
		}
	}

	if input.Date == "" {
		return model.NewTransaction{}, &common.ValidationError{
			Err:     common.ErrMissingField,
			Field:   "date",
			Message: "Please select a date",
		}
	}

	date, err := model.ParseDate(input.Date)
	if err != nil {
		return model.NewTransaction{}, &common.ValidationError{
			Err:     common.ErrMissingField,
			Field:   "date",
			Message: "Please select a valid date",
		}
	}

	if date.After(v.today()) {
		return model.NewTransaction{}, &common.ValidationError{
			Err:     common.ErrFutureDate,
			Field:   "date",
			Message: "Date cannot be in the future",
		}
	}

	return model.NewTransaction{
		Name:       name,
		CategoryID: input.CategoryID,
		Amount:     amount,
		Date:       date,
		Icon:       input.Icon,
	}, nil
}

// Category checks input and returns the validated payload with the name
// trimmed.
func (v Validator) Category(input CategoryInput) (model.NewCategory, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return model.NewCategory{}, &common.ValidationError{
			Err:     common.ErrMissingField,
			Field:   "name",
			Message: "Category Name is required",
		}
	}

	return model.NewCategory{
		Name: name,
		Type: input.Type,
		Icon: input.Icon,
	}, nil
}
