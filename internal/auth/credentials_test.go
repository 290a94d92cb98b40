package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_IsSaltedAndVerifiable(t *testing.T) {
	first, err := HashPassword("secret1")
	require.NoError(t, err)
	second, err := HashPassword("secret1")
	require.NoError(t, err)

	assert.NotEqual(t, first, second, "hashes of the same password must differ")
	assert.NotContains(t, first, "secret1")
	assert.True(t, VerifyPassword("secret1", first))
	assert.True(t, VerifyPassword("secret1", second))
}

func TestVerifyPassword_NoPartialCredit(t *testing.T) {
	hash, err := HashPassword("secret1")
	require.NoError(t, err)

	for _, guess := range []string{"", "secret", "secret2", "Secret1", "secret1 ", " secret1", "secret11"} {
		assert.False(t, VerifyPassword(guess, hash), "guess %q should not verify", guess)
	}

	long := strings.Repeat("p", MaxPasswordBytes)
	longHash, err := HashPassword(long)
	require.NoError(t, err)
	assert.True(t, VerifyPassword(long, longHash))
	assert.False(t, VerifyPassword(long+"X", longHash), "bytes past the bcrypt limit must still count")
}

func TestVerifyPassword_MalformedHash(t *testing.T) {
	for _, hash := range []string{"", "plaintext", "$2a$10$short", "$2a$99$" + strings.Repeat("a", 53)} {
		assert.NotPanics(t, func() {
			assert.False(t, VerifyPassword("secret1", hash))
		})
	}
}

func TestHashPassword_TooLong(t *testing.T) {
	_, err := HashPassword(strings.Repeat("x", MaxPasswordBytes+1))
	require.ErrorIs(t, err, ErrPasswordTooLong)

	hash, err := HashPassword(strings.Repeat("x", MaxPasswordBytes))
	require.NoError(t, err)
	assert.True(t, VerifyPassword(strings.Repeat("x", MaxPasswordBytes), hash))
}
