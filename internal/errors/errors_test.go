package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrap(t *testing.T) {
	t.Run("wrap preserves the error chain", func(t *testing.T) {
		wrapped := Wrap(ErrInvalidInput, "bad payload")
		assert.True(t, Is(wrapped, ErrInvalidInput))
		assert.Equal(t, "bad payload: invalid input", wrapped.Error())
	})

	t.Run("wrap nil returns nil", func(t *testing.T) {
		assert.Nil(t, Wrap(nil, "context"))
	})

	t.Run("multi-level wrap still matches the sentinel", func(t *testing.T) {
		inner := Wrap(ErrLocked, "account locked")
		outer := fmt.Errorf("login failed: %w", inner)
		assert.True(t, Is(outer, ErrLocked))
	})
}

func TestSentinelsAreDistinct(t *testing.T) {
	sentinels := []error{
		ErrNotFound,
		ErrConflict,
		ErrInvalidInput,
		ErrUnauthorized,
		ErrForbidden,
		ErrLocked,
		ErrTooLarge,
	}
	for i, a := range sentinels {
		for j, b := range sentinels {
			if i == j {
				continue
			}
			assert.False(t, Is(a, b))
		}
	}
}
