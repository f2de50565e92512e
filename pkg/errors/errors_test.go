package errors

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusCode(t *testing.T) {
	cases := []struct {
		code   ErrorCode
		status int
	}{
		{CodeValidationFailed, http.StatusBadRequest},
		{CodeNoPhotoAttached, http.StatusBadRequest},
		{CodeNotFood, http.StatusBadRequest},
		{CodeUnauthorized, http.StatusUnauthorized},
		{CodeSessionNotFound, http.StatusNotFound},
		{CodeGenerationInFlight, http.StatusConflict},
		{CodeTransformFailed, http.StatusBadGateway},
		{CodePersistenceFailed, http.StatusBadGateway},
		{CodeServiceUnavailable, http.StatusServiceUnavailable},
		{CodeInternal, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		err := NewAppError(tc.code, "msg", "")
		assert.Equal(t, tc.status, err.StatusCode(), string(tc.code))
	}
}

func TestWrap(t *testing.T) {
	t.Run("Nil_ShouldReturnNil", func(t *testing.T) {
		assert.Nil(t, Wrap(nil, "context"))
	})

	t.Run("AppError_ShouldPassThrough", func(t *testing.T) {
		orig := NewValidationError("bad input")
		assert.Same(t, orig, Wrap(orig, "context"))
	})

	t.Run("PlainError_ShouldBecomeInternal", func(t *testing.T) {
		wrapped := Wrap(errors.New("boom"), "something failed")
		assert.Equal(t, CodeInternal, wrapped.Code)
		assert.EqualError(t, wrapped.Unwrap(), "boom")
	})
}

func TestTransformErrorCarriesCause(t *testing.T) {
	cause := errors.New("model timeout")
	err := NewTransformError("remix", cause)

	assert.Equal(t, CodeTransformFailed, err.Code)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "remix")
}

func TestIsAndGetCode(t *testing.T) {
	err := NewSessionNotFoundError("s1")

	assert.True(t, Is(err, CodeSessionNotFound))
	assert.False(t, Is(err, CodeUnauthorized))
	assert.False(t, Is(errors.New("plain"), CodeSessionNotFound))
	assert.Equal(t, CodeSessionNotFound, GetCode(err))
	assert.Equal(t, CodeInternal, GetCode(errors.New("plain")))
}
