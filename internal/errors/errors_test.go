package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"unauthenticated", ErrUnauthenticated, http.StatusUnauthorized},
		{"expired token", ErrTokenExpired, http.StatusUnauthorized},
		{"disabled", ErrAccountDisabled, http.StatusForbidden},
		{"subscription", ErrSubscriptionExpired, http.StatusForbidden},
		{"self action", ErrSelfActionNotAllowed, http.StatusForbidden},
		{"not found", ErrProfileNotFound, http.StatusNotFound},
		{"conflict", ErrAadhaarExists, http.StatusConflict},
		{"invalid otp", ErrInvalidOTP, http.StatusBadRequest},
		{"otp expired", ErrOTPExpired, http.StatusBadRequest},
		{"grant", ErrInvalidOrExpiredGrant, http.StatusBadRequest},
		{"throttle", ErrTooManyRequests, http.StatusTooManyRequests},
		{"wrapped", WrapError(ErrInternal, errors.New("db down")), http.StatusInternalServerError},
		{"plain", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToHTTPStatus(tt.err))
		})
	}
}

func TestWrappedErrorsStillMatch(t *testing.T) {
	wrapped := fmt.Errorf("service: %w", WrapError(ErrEmailExists, errors.New("duplicate key")))

	assert.True(t, errors.Is(wrapped, ErrEmailExists))
	assert.False(t, errors.Is(wrapped, ErrAadhaarExists))
	assert.True(t, HasCode(wrapped, CodeConflict))
	assert.Equal(t, "email already registered", GetErrorMessage(wrapped))
}

func TestGetErrorMessageHidesInternalDetail(t *testing.T) {
	err := errors.New("pq: relation \"accounts\" does not exist")

	assert.Equal(t, ErrInternal.Message, GetErrorMessage(err))
	assert.Equal(t, CodeInternal, GetErrorCode(err))
}
