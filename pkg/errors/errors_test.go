package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromStatus(t *testing.T) {
	tests := []struct {
		status int
		want   ErrorType
	}{
		{http.StatusUnauthorized, ErrorTypeAuth},
		{http.StatusForbidden, ErrorTypeAuth},
		{http.StatusNotFound, ErrorTypeNotFound},
		{http.StatusTooManyRequests, ErrorTypeRateLimit},
		{http.StatusBadGateway, ErrorTypeServerError},
		{http.StatusTeapot, ErrorTypeUnknown},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			err := FromStatus(tt.status)
			if assert.NotNil(t, err) {
				assert.Equal(t, tt.want, err.Type)
				assert.Equal(t, tt.status, err.Code)
			}
		})
	}

	assert.Nil(t, FromStatus(http.StatusOK))
}

func TestDescribe(t *testing.T) {
	typed := fmt.Errorf("fetch post: %w", &Error{Type: ErrorTypeAuth, Message: "login required", Code: 401})
	assert.Equal(t, "auth: login required", Describe(typed))
	assert.Equal(t, ErrorTypeAuth, TypeOf(typed))

	plain := fmt.Errorf("boom")
	assert.Equal(t, "boom", Describe(plain))
	assert.Equal(t, ErrorTypeUnknown, TypeOf(plain))
	assert.Equal(t, "", Describe(nil))
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(ErrorTypeNetwork))
	assert.True(t, IsRetryable(ErrorTypeRateLimit))
	assert.True(t, IsRetryable(ErrorTypeServerError))
	assert.False(t, IsRetryable(ErrorTypeAuth))
	assert.False(t, IsRetryable(ErrorTypeNotFound))
	assert.False(t, IsRetryable(ErrorTypeParsing))
}
