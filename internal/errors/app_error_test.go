package errors_test

import (
	"database/sql"
	"fmt"
	"net/http"
	"testing"

	appErrors "github.com/aaravmahajanofficial/ecommerce-demo-backend/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name   string
		err    *appErrors.AppError
		code   string
		status int
	}{
		{"validation", appErrors.ValidationError("bad"), appErrors.ErrCodeValidation, http.StatusBadRequest},
		{"bad request", appErrors.BadRequestError("bad"), appErrors.ErrCodeBadRequest, http.StatusBadRequest},
		{"not found", appErrors.NotFoundError("missing"), appErrors.ErrCodeNotFound, http.StatusNotFound},
		{"unauthorized", appErrors.UnauthorizedError("who"), appErrors.ErrCodeUnauthorized, http.StatusUnauthorized},
		{"forbidden", appErrors.ForbiddenError("no"), appErrors.ErrCodeForbidden, http.StatusForbidden},
		{"internal", appErrors.InternalError("boom"), appErrors.ErrCodeInternal, http.StatusInternalServerError},
		{"database", appErrors.DatabaseError("db"), appErrors.ErrCodeDatabaseError, http.StatusInternalServerError},
		{"duplicate", appErrors.DuplicateEntryError("dup"), appErrors.ErrCodeDuplicateEntry, http.StatusConflict},
		{"too many", appErrors.TooManyRequestsError("slow"), appErrors.ErrCodeTooManyRequests, http.StatusTooManyRequests},
		{"cart empty", appErrors.CartEmptyError(), appErrors.ErrCodeCartEmpty, http.StatusBadRequest},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.code, tc.err.Code)
			assert.Equal(t, tc.status, tc.err.StatusCode)
			assert.Equal(t, tc.err.Message, tc.err.Error())
		})
	}
}

func TestCartEmptyMessage(t *testing.T) {
	assert.Equal(t, "Cart is empty", appErrors.CartEmptyError().Message)
}

func TestWithErrorUnwraps(t *testing.T) {
	err := appErrors.NotFoundError("Product not found").WithError(sql.ErrNoRows)

	assert.ErrorIs(t, err, sql.ErrNoRows)

	wrapped := fmt.Errorf("outer: %w", err)
	appErr, ok := appErrors.IsAppError(wrapped)
	require.True(t, ok)
	assert.Equal(t, appErrors.ErrCodeNotFound, appErr.Code)
}

func TestIsAppErrorPlainError(t *testing.T) {
	appErr, ok := appErrors.IsAppError(fmt.Errorf("plain"))

	assert.False(t, ok)
	assert.Nil(t, appErr)
}

func TestWithField(t *testing.T) {
	err := appErrors.ValidationError("Validation failed").
		WithField("username", "This field is required.").
		WithField("password", "This field is required.")

	assert.Len(t, err.Fields, 2)
	assert.Equal(t, "This field is required.", err.Fields["username"])
}

func TestAddValidationError(t *testing.T) {
	err := appErrors.AddValidationError("price", "must be greater than or equal to 0")

	assert.Equal(t, "Invalid field 'price': must be greater than or equal to 0", err.Message)
	assert.Equal(t, "must be greater than or equal to 0", err.Fields["price"])
	assert.Equal(t, "details", err.WithDetail("details").Detail)
}
