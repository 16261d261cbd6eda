package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBcryptHasherRoundtrip(t *testing.T) {
	hasher := NewBcryptHasher(4)

	hash, err := hasher.Hash("correct horse battery")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery", hash)

	assert.NoError(t, hasher.Compare(hash, "correct horse battery"))
	assert.Error(t, hasher.Compare(hash, "wrong password"))
}

func TestBcryptHasherRejectsShortPassword(t *testing.T) {
	hasher := NewBcryptHasher(4)

	_, err := hasher.Hash("short")
	assert.Error(t, err)
}
