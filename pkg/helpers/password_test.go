package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPasswordSalted(t *testing.T) {
	h1, err := HashPassword("secret123")
	require.NoError(t, err)
	h2, err := HashPassword("secret123")
	require.NoError(t, err)

	assert.NotEqual(t, "secret123", h1)
	assert.NotEqual(t, h1, h2, "same password should produce different hashes")
}

func TestCompareHashAndPassword(t *testing.T) {
	h, err := HashPassword("secret123")
	require.NoError(t, err)

	assert.True(t, CompareHashAndPassword(h, "secret123"))
	assert.False(t, CompareHashAndPassword(h, "secret124"))
	assert.False(t, CompareHashAndPassword(h, ""))
	assert.False(t, CompareHashAndPassword("not-a-bcrypt-hash", "secret123"))
}
