package common

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserError(t *testing.T) {
	t.Run("wraps underlying error", func(t *testing.T) {
		err := NewUserError("Category Name already exists", ErrDuplicateCategory)
		assert.True(t, errors.Is(err, ErrDuplicateCategory))
		assert.Contains(t, err.Error(), "Category Name already exists")
	})

	t.Run("message only", func(t *testing.T) {
		err := NewUserError("something went wrong", nil)
		assert.Equal(t, "something went wrong", err.Error())
	})
}

func TestValidationErrorUnwrap(t *testing.T) {
	err := &ValidationError{Err: ErrFutureDate, Field: "date", Message: "Date cannot be in the future"}
	assert.True(t, errors.Is(err, ErrFutureDate))
	assert.False(t, errors.Is(err, ErrMissingField))
	assert.Equal(t, "Date cannot be in the future", err.Error())
}

func TestRemoteError(t *testing.T) {
	tests := []struct {
		name             string
		err              *RemoteError
		wantMessage      string
		wantUnauthorized bool
	}{
		{
			name:        "server message preferred",
			err:         &RemoteError{StatusCode: http.StatusBadRequest, Message: "amount is required"},
			wantMessage: "amount is required",
		},
		{
			name:        "status fallback",
			err:         &RemoteError{StatusCode: http.StatusInternalServerError},
			wantMessage: "server returned status 500",
		},
		{
			name:             "401 unwraps to unauthorized",
			err:              &RemoteError{StatusCode: http.StatusUnauthorized},
			wantMessage:      "server returned status 401",
			wantUnauthorized: true,
		},
		{
			name:             "403 unwraps to unauthorized",
			err:              &RemoteError{StatusCode: http.StatusForbidden},
			wantMessage:      "server returned status 403",
			wantUnauthorized: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantMessage, tt.err.Error())
			assert.Equal(t, tt.wantUnauthorized, errors.Is(tt.err, ErrUnauthorized))
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		fallback string
		want     string
	}{
		{
			name:     "user error message wins",
			err:      NewUserError("Category Name already exists", ErrDuplicateCategory),
			fallback: "Failed to add category.",
			want:     "Category Name already exists",
		},
		{
			name:     "validation message wins",
			err:      &ValidationError{Err: ErrMissingField, Field: "name", Message: "Please enter a name"},
			fallback: "Failed to add income",
			want:     "Please enter a name",
		},
		{
			name:     "server message wins",
			err:      fmt.Errorf("creating transaction: %w", &RemoteError{StatusCode: 400, Message: "category not found"}),
			fallback: "Failed to add income",
			want:     "category not found",
		},
		{
			name:     "remote error without message uses fallback",
			err:      &RemoteError{StatusCode: 500},
			fallback: "Failed to add income",
			want:     "Failed to add income",
		},
		{
			name:     "unreachable gets connection phrasing",
			err:      fmt.Errorf("%w: dial tcp: connection refused", ErrUnreachable),
			fallback: "Failed to fetch income details",
			want:     "Unable to reach the server. Please check your connection.",
		},
		{
			name:     "unknown error uses fallback",
			err:      errors.New("boom"),
			fallback: "Failed to delete expense",
			want:     "Failed to delete expense",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UserMessage(tt.err, tt.fallback))
		})
	}
}
