package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/linchiawei/twstore-linebot-go/internal/errors"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	t.Parallel()
	store := NewMemoryStore(time.Minute)
	t.Cleanup(func() { _ = store.Close() })
	ctx := context.Background()

	want := &Session{
		Stage:     StageSelectingDistrict,
		City:      "台北市",
		CreatedAt: time.Now().Truncate(time.Second),
	}
	require.NoError(t, store.Set(ctx, "user-1", want))

	got, err := store.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	// The returned session is a copy, not shared state.
	got.City = "高雄市"
	again, err := store.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "台北市", again.City)
}

func TestMemoryStoreMissing(t *testing.T) {
	t.Parallel()
	store := NewMemoryStore(time.Minute)
	t.Cleanup(func() { _ = store.Close() })

	_, err := store.Get(context.Background(), "nobody")
	assert.ErrorIs(t, err, apperrors.ErrSessionNotFound)
}

func TestMemoryStoreExpiry(t *testing.T) {
	t.Parallel()
	store := NewMemoryStore(10 * time.Millisecond)
	t.Cleanup(func() { _ = store.Close() })
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "user-1", &Session{Stage: StageSelectingCity}))
	time.Sleep(30 * time.Millisecond)

	_, err := store.Get(ctx, "user-1")
	assert.ErrorIs(t, err, apperrors.ErrSessionNotFound)
}

func TestMemoryStoreDelete(t *testing.T) {
	t.Parallel()
	store := NewMemoryStore(time.Minute)
	t.Cleanup(func() { _ = store.Close() })
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "user-1", &Session{Stage: StageSelectingCity}))
	require.NoError(t, store.Delete(ctx, "user-1"))

	_, err := store.Get(ctx, "user-1")
	assert.ErrorIs(t, err, apperrors.ErrSessionNotFound)

	// Idempotent.
	require.NoError(t, store.Delete(ctx, "user-1"))
}

func TestMemoryStoreSetOverwrites(t *testing.T) {
	t.Parallel()
	store := NewMemoryStore(time.Minute)
	t.Cleanup(func() { _ = store.Close() })
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "user-1", &Session{Stage: StageSelectingCity}))
	require.NoError(t, store.Set(ctx, "user-1", &Session{
		Stage: StageSelectingCategory, City: "台北市", District: "大安區",
	}))

	got, err := store.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, StageSelectingCategory, got.Stage)
	assert.Equal(t, "大安區", got.District)
}

func TestMemoryStoreReady(t *testing.T) {
	t.Parallel()
	store := NewMemoryStore(time.Minute)
	t.Cleanup(func() { _ = store.Close() })
	assert.NoError(t, store.Ready(context.Background()))
}
