package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "valid date", input: "2024-01-15"},
		{name: "leap day", input: "2024-02-29"},
		{name: "empty", input: "", wantErr: true},
		{name: "wrong layout", input: "15/01/2024", wantErr: true},
		{name: "datetime", input: "2024-01-15T10:00:00Z", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := ParseDate(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.input, d.String())
		})
	}
}

func TestDateAfter(t *testing.T) {
	earlier, err := ParseDate("2024-01-01")
	require.NoError(t, err)
	later, err := ParseDate("2024-01-02")
	require.NoError(t, err)

	assert.True(t, later.After(earlier))
	assert.False(t, earlier.After(later))
	assert.False(t, earlier.After(earlier))
}

func TestDateOfIgnoresTimeOfDay(t *testing.T) {
	late := time.Date(2024, 6, 1, 23, 59, 59, 0, time.Local)
	early := time.Date(2024, 6, 1, 0, 0, 1, 0, time.Local)

	assert.False(t, DateOf(late).After(DateOf(early)))
	assert.Equal(t, "2024-06-01", DateOf(late).String())
}

func TestDateJSONRoundTrip(t *testing.T) {
	d, err := ParseDate("2023-12-31")
	require.NoError(t, err)

	encoded, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2023-12-31"`, string(encoded))

	var decoded Date
	require.NoError(t, json.Unmarshal(encoded, &decoded))
	assert.Equal(t, d, decoded)

	assert.Error(t, json.Unmarshal([]byte(`"not-a-date"`), &decoded))
}

func TestLedgerKind(t *testing.T) {
	assert.True(t, LedgerIncome.Valid())
	assert.True(t, LedgerExpense.Valid())
	assert.False(t, LedgerKind("savings").Valid())

	assert.Equal(t, CategoryTypeIncome, LedgerIncome.CategoryType())
	assert.Equal(t, CategoryTypeExpense, LedgerExpense.CategoryType())
}

func TestSum(t *testing.T) {
	assert.True(t, Sum(nil).IsZero())

	transactions := []Transaction{
		{Amount: decimal.RequireFromString("1500")},
		{Amount: decimal.RequireFromString("0.50")},
		{Amount: decimal.RequireFromString("24.49")},
	}
	assert.Equal(t, "1524.99", Sum(transactions).String())
}
