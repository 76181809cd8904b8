package middleware

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestHashDeterministic(t *testing.T) {
	assert.Equal(t, RequestHash([]byte("payload")), RequestHash([]byte("payload")))
	assert.NotEqual(t, RequestHash([]byte("payload")), RequestHash([]byte("other")))
}

func TestMemoryIdempotencyReplaysAndConflicts(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryIdempotency()
	hash := RequestHash([]byte("file"))

	_, found, err := store.Check(ctx, "u1", "bulk-upload", "k1", hash)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.Save(ctx, "u1", "bulk-upload", "k1", hash, json.RawMessage(`{"created":1}`)))

	stored, found, err := store.Check(ctx, "u1", "bulk-upload", "k1", hash)
	require.NoError(t, err)
	assert.True(t, found)
	assert.JSONEq(t, `{"created":1}`, string(stored))

	_, _, err = store.Check(ctx, "u1", "bulk-upload", "k1", RequestHash([]byte("other")))
	assert.ErrorIs(t, err, ErrIdempotencyConflict)

	_, found, err = store.Check(ctx, "u2", "bulk-upload", "k1", hash)
	require.NoError(t, err)
	assert.False(t, found)
}
