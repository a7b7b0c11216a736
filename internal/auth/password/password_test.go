package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasher_RoundTrip(t *testing.T) {
	h := NewHasher()

	hash, err := h.Hash("s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", hash)

	assert.NoError(t, h.Verify(hash, "s3cret"))
	assert.ErrorIs(t, h.Verify(hash, "wrong"), ErrMismatch)
}

func TestHasher_HashesDiffer(t *testing.T) {
	h := NewHasher()

	a, err := h.Hash("same")
	require.NoError(t, err)
	b, err := h.Hash("same")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.NoError(t, h.Verify(a, "same"))
	assert.NoError(t, h.Verify(b, "same"))
}

func TestHasher_GarbageHash(t *testing.T) {
	h := NewHasher()
	assert.Error(t, h.Verify("not-a-bcrypt-hash", "whatever"))
}
