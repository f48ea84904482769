package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_, err := store.Load(ctx)
	assert.ErrorIs(t, err, ErrSnapshotNotFound)

	want := sampleSnapshot()
	require.NoError(t, store.Save(ctx, want))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, *got)
}

func TestMemoryStoreOverwrites(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	first := sampleSnapshot()
	require.NoError(t, store.Save(ctx, first))

	second := sampleSnapshot()
	second.Items = nil
	second.Currency = "EUR"
	require.NoError(t, store.Save(ctx, second))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "EUR", got.Currency)
	assert.Empty(t, got.Items)
}
