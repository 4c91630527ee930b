package keystore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryRoundTrip(t *testing.T) {
	ks := NewInMemory()

	require.NoError(t, ks.Store(KeyAPIKey, "secret-123"))
	got, err := ks.Retrieve(KeyAPIKey)
	require.NoError(t, err)
	assert.Equal(t, "secret-123", got)
}

func TestInMemoryMissingReturnsEmpty(t *testing.T) {
	ks := NewInMemory()
	got, err := ks.Retrieve(KeyTelegramToken)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestInMemoryDelete(t *testing.T) {
	ks := NewInMemory()
	require.NoError(t, ks.Store(KeyAPIKey, "v"))
	require.NoError(t, ks.Delete(KeyAPIKey))

	got, err := ks.Retrieve(KeyAPIKey)
	require.NoError(t, err)
	assert.Empty(t, got)

	assert.NoError(t, ks.Delete(KeyAPIKey), "deleting a missing secret is not an error")
}
