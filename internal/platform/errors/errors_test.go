package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/pscheid92/memorytrail/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructors(t *testing.T) {
	cause := fmt.Errorf("controller gone")

	tests := []struct {
		name       string
		err        *Error
		wantType   ErrorType
		wantStatus int
		wantCause  error
	}{
		{"validation", ValidationError("unknown event type"), TypeValidation, http.StatusBadRequest, nil},
		{"not found", NotFoundError("no such route"), TypeNotFound, http.StatusNotFound, nil},
		{"rate limited", RateLimitedError("slow down"), TypeRateLimited, http.StatusTooManyRequests, nil},
		{"unavailable", UnavailableError("shutting down", cause), TypeUnavailable, http.StatusServiceUnavailable, cause},
		{"internal", InternalError("encode failed", cause), TypeInternal, http.StatusInternalServerError, cause},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantType, tt.err.Type)
			assert.Equal(t, tt.wantStatus, tt.err.HTTPStatus())
			assert.Equal(t, tt.wantCause, tt.err.Cause)
			assert.NotNil(t, tt.err.Context)
			assert.Contains(t, tt.err.Error(), string(tt.wantType))
		})
	}
}

func TestError_MessageWithCause(t *testing.T) {
	err := InternalError("encode failed", fmt.Errorf("boom"))

	assert.Equal(t, "internal: encode failed: boom", err.Error())
}

func TestError_MessageWithoutCause(t *testing.T) {
	err := InternalError("something went wrong", nil)

	assert.Equal(t, "internal: something went wrong", err.Error())
	assert.NotContains(t, err.Error(), "<nil>")
}

func TestError_UnknownTypeIs500(t *testing.T) {
	err := &Error{Type: "mystery", Message: "?"}

	assert.Equal(t, http.StatusInternalServerError, err.HTTPStatus())
}

func TestWithContextChaining(t *testing.T) {
	err := ValidationError("invalid event").
		WithContext("type", "dance").
		WithContext("field", "type")

	assert.Len(t, err.Context, 2)
	assert.Equal(t, "dance", err.Context["type"])
}

func TestWithContextNilMap(t *testing.T) {
	err := &Error{Type: TypeValidation, Message: "test"}

	err = err.WithContext("key", "value")

	assert.Equal(t, "value", err.Context["key"])
}

func TestToResponse(t *testing.T) {
	resp := ValidationError("invalid event").WithContext("type", "dance").ToResponse()

	assert.Equal(t, "invalid event", resp.Error)
	assert.Equal(t, TypeValidation, resp.Type)
	assert.Equal(t, "dance", resp.Context["type"])
}

func TestUnwrapAndIs(t *testing.T) {
	root := fmt.Errorf("root")
	wrapped := InternalError("wrapped", root)

	assert.Equal(t, root, errors.Unwrap(wrapped))
	assert.True(t, errors.Is(wrapped, root))
	assert.Nil(t, errors.Unwrap(ValidationError("test")))
}

func TestAsStructuredError(t *testing.T) {
	t.Run("nil", func(t *testing.T) {
		assert.Nil(t, AsStructuredError(nil))
	})

	t.Run("structured passes through", func(t *testing.T) {
		original := ValidationError("original")
		assert.Same(t, original, AsStructuredError(original))
	})

	t.Run("wrapped structured is found", func(t *testing.T) {
		original := NotFoundError("gone")
		result := AsStructuredError(fmt.Errorf("handler: %w", original))
		assert.Same(t, original, result)
	})

	t.Run("stopped controller is unavailable", func(t *testing.T) {
		result := AsStructuredError(fmt.Errorf("dispatch: %w", domain.ErrControllerStopped))
		require.NotNil(t, result)
		assert.Equal(t, TypeUnavailable, result.Type)
		assert.Equal(t, http.StatusServiceUnavailable, result.HTTPStatus())
	})

	t.Run("plain error is internal", func(t *testing.T) {
		original := fmt.Errorf("standard error")
		result := AsStructuredError(original)
		assert.Equal(t, TypeInternal, result.Type)
		assert.Equal(t, "internal error", result.Message)
		assert.Equal(t, original, result.Cause)
	})
}
