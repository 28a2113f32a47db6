package services

import (
	"context"
	"testing"
	"time"

	"github.com/sepehrdad/Hydra-Marketing/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStateStoreTakeIsSingleUse(t *testing.T) {
	store := NewMemoryStateStore()
	ctx := context.Background()

	state := ConnectState{CustomerID: 7, Platform: models.PlatformLinkedIn, CreatedAt: time.Now().UTC()}
	require.NoError(t, store.Put(ctx, "tok-1", state, time.Minute))

	got, ok, err := store.Take(ctx, "tok-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, uint(7), got.CustomerID)
	assert.Equal(t, models.PlatformLinkedIn, got.Platform)

	// Replay with the same token must fail
	_, ok, err = store.Take(ctx, "tok-1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryStateStoreUnknownToken(t *testing.T) {
	store := NewMemoryStateStore()

	_, ok, err := store.Take(context.Background(), "never-issued")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryStateStoreExpiry(t *testing.T) {
	store := NewMemoryStateStore()
	ctx := context.Background()

	state := ConnectState{CustomerID: 3, Platform: models.PlatformTwitter, CreatedAt: time.Now().UTC()}
	require.NoError(t, store.Put(ctx, "tok-2", state, -time.Second))

	_, ok, err := store.Take(ctx, "tok-2")
	require.NoError(t, err)
	assert.False(t, ok, "expired state must not be returned")
}
