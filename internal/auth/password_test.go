package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHasher_HashAndVerify(t *testing.T) {
	hasher := NewPasswordHasher()

	hash, err := hasher.Hash("password123")
	require.NoError(t, err)

	assert.NotEqual(t, "password123", hash)
	assert.True(t, hasher.Verify("password123", hash))
	assert.False(t, hasher.Verify("wrongpassword", hash))
}

func TestPasswordHasher_SaltsPerCall(t *testing.T) {
	hasher := NewPasswordHasher()

	first, err := hasher.Hash("password123")
	require.NoError(t, err)
	second, err := hasher.Hash("password123")
	require.NoError(t, err)

	// bcrypt embeds a random salt, so equal plaintexts hash differently
	assert.NotEqual(t, first, second)
	assert.True(t, hasher.Verify("password123", first))
	assert.True(t, hasher.Verify("password123", second))
}

func TestPasswordHasher_VerifyGarbageHash(t *testing.T) {
	hasher := NewPasswordHasher()
	assert.False(t, hasher.Verify("password123", "not-a-bcrypt-hash"))
}
