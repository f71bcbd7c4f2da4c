package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cheap parameters so the tests stay fast
func testHasher() *ArgonHash {
	return &ArgonHash{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}
}

func TestArgonHash_RoundTrip(t *testing.T) {
	h := testHasher()

	encoded, err := h.Hash("NewPass1")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(encoded, "$argon2id$v=19$m=1024,t=1,p=1$"))

	ok, err := h.Verify("NewPass1", encoded)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.Verify("newpass1", encoded)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestArgonHash_SaltsDiffer(t *testing.T) {
	h := testHasher()

	a, err := h.Hash("password123")
	require.NoError(t, err)
	b, err := h.Hash("password123")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestArgonHash_EmptyPassword(t *testing.T) {
	_, err := testHasher().Hash("")
	assert.ErrorIs(t, err, ErrEmptyPassword)
}

func TestArgonHash_InvalidEncoding(t *testing.T) {
	h := testHasher()

	for _, e := range []string{
		"",
		"plaintext",
		"$bcrypt$v=19$m=1,t=1,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=x,t=1,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=1024,t=1,p=1$!!!$aGFzaA",
		"$argon2id$v=19$m=1024,t=1,p=1$c2FsdA$",
	} {
		ok, err := h.Verify("pw", e)
		assert.False(t, ok, e)
		assert.ErrorIs(t, err, ErrInvalidHash, e)
	}
}
