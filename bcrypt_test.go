package accounts_test

import (
	"testing"

	"github.com/goliatone/go-accounts"
	"github.com/stretchr/testify/assert"
)

func TestHashPassword(t *testing.T) {
	t.Run("generates a hash different from the plaintext", func(t *testing.T) {
		hash, err := accounts.HashPassword("secret-password")

		assert.NoError(t, err)
		assert.NotEmpty(t, hash)
		assert.NotEqual(t, "secret-password", hash)
	})

	t.Run("rejects an empty password", func(t *testing.T) {
		_, err := accounts.HashPassword("")
		assert.ErrorIs(t, err, accounts.ErrNoEmptyString)
	})
}

func TestComparePasswordAndHash(t *testing.T) {
	hash, err := accounts.HashPassword("secret-password")
	assert.NoError(t, err)

	t.Run("accepts the matching password", func(t *testing.T) {
		assert.NoError(t, accounts.ComparePasswordAndHash("secret-password", hash))
	})

	t.Run("rejects a wrong password with the sentinel error", func(t *testing.T) {
		err := accounts.ComparePasswordAndHash("wrong-password", hash)
		assert.ErrorIs(t, err, accounts.ErrMismatchedHashAndPassword)
	})

	t.Run("rejects garbage hashes", func(t *testing.T) {
		err := accounts.ComparePasswordAndHash("secret-password", "not-a-bcrypt-hash")
		assert.Error(t, err)
	})
}

func TestNewPasswordAuthenticator(t *testing.T) {
	hasher := accounts.NewPasswordAuthenticator()

	hash, err := hasher.HashPassword("pw")
	assert.NoError(t, err)
	assert.NoError(t, hasher.ComparePasswordAndHash("pw", hash))
	assert.ErrorIs(t, hasher.ComparePasswordAndHash("nope", hash), accounts.ErrMismatchedHashAndPassword)
}
