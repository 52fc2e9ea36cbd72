package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordService_HashPassword(t *testing.T) {
	passwordService := NewPasswordService()

	t.Run("hash and verify round-trip", func(t *testing.T) {
		hashed, err := passwordService.HashPassword("correct-pw")
		require.NoError(t, err)
		assert.NotEmpty(t, hashed)
		assert.NotEqual(t, "correct-pw", hashed)

		assert.True(t, passwordService.ComparePassword("correct-pw", hashed))
	})

	t.Run("hashing is salted", func(t *testing.T) {
		hash1, err := passwordService.HashPassword("correct-pw")
		require.NoError(t, err)

		hash2, err := passwordService.HashPassword("correct-pw")
		require.NoError(t, err)

		assert.NotEqual(t, hash1, hash2)
	})
}

func TestPasswordService_ComparePassword(t *testing.T) {
	passwordService := NewPasswordService()

	hashed, err := passwordService.HashPassword("correct-pw")
	require.NoError(t, err)

	t.Run("wrong password fails", func(t *testing.T) {
		assert.False(t, passwordService.ComparePassword("wrong-pw", hashed))
	})

	t.Run("empty password fails", func(t *testing.T) {
		assert.False(t, passwordService.ComparePassword("", hashed))
	})

	t.Run("malformed hash fails", func(t *testing.T) {
		assert.False(t, passwordService.ComparePassword("correct-pw", "not a valid hash"))
	})

	t.Run("empty hash fails", func(t *testing.T) {
		assert.False(t, passwordService.ComparePassword("correct-pw", ""))
	})
}
