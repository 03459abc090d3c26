package otp

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_RangeAndFormat(t *testing.T) {
	for i := 0; i < 1000; i++ {
		code, err := Generate()
		require.NoError(t, err)
		require.Len(t, code, 6)

		n, err := strconv.Atoi(code)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, MinCode)
		assert.LessOrEqual(t, n, MaxCode)
	}
}

func TestGenerate_NotConstant(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 50; i++ {
		code, err := Generate()
		require.NoError(t, err)
		seen[code] = struct{}{}
	}
	assert.Greater(t, len(seen), 1)
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal("123456", "123456"))
	assert.False(t, Equal("123456", "123457"))
	assert.False(t, Equal("123456", "12345"))
	assert.False(t, Equal("123456", " 123456"))
	assert.False(t, Equal("123456", ""))
}

func TestNewGrant(t *testing.T) {
	token1, hash1, err := NewGrant()
	require.NoError(t, err)
	token2, hash2, err := NewGrant()
	require.NoError(t, err)

	assert.Len(t, token1, 64)
	assert.NotEqual(t, token1, token2)
	assert.NotEqual(t, hash1, hash2)
	assert.Equal(t, hash1, HashGrant(token1))
	assert.NotEqual(t, token1, hash1)
}
