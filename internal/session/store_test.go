package session

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore(time.Hour)

	s := New()
	s.CurrentPath = "/dashboard"
	s.IsAuthenticated = true
	s.UserID = "550e8400-e29b-41d4-a716-446655440000"
	require.NoError(t, st.Save(ctx, s))

	got, err := st.Load(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "/dashboard", got.CurrentPath)
	assert.True(t, got.IsAuthenticated)
	assert.Equal(t, s.UserID, got.UserID)

	// Loaded copies are independent of the stored value.
	got.CurrentPath = "/elsewhere"
	again, err := st.Load(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "/dashboard", again.CurrentPath)
}

func TestMemoryStore_Expiry(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore(time.Minute)
	now := time.Date(2024, 12, 1, 10, 0, 0, 0, time.UTC)
	st.now = func() time.Time { return now }

	s := New()
	require.NoError(t, st.Save(ctx, s))

	now = now.Add(2 * time.Minute)
	_, err := st.Load(ctx, s.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 0, st.Len())
}

func TestMemoryStore_Delete(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore(0)
	s := New()
	require.NoError(t, st.Save(ctx, s))
	require.NoError(t, st.Delete(ctx, s.ID))

	_, err := st.Load(ctx, s.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLoadOrNew(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore(time.Hour)

	stored := New()
	stored.CurrentPath = "/profile"
	require.NoError(t, st.Save(ctx, stored))

	got, err := LoadOrNew(ctx, st, stored.ID)
	require.NoError(t, err)
	assert.Equal(t, "/profile", got.CurrentPath)

	for _, id := range []string{"", "not-a-uuid", New().ID} {
		fresh, err := LoadOrNew(ctx, st, id)
		require.NoError(t, err)
		assert.NotEqual(t, stored.ID, fresh.ID)
		assert.Equal(t, "/", fresh.CurrentPath)
		assert.False(t, fresh.IsAuthenticated)
	}
}

func TestOpen_FallsBackToMemory(t *testing.T) {
	st, rdb := Open("", time.Hour, zerolog.Nop())
	assert.Nil(t, rdb)
	assert.IsType(t, &MemoryStore{}, st)

	st, rdb = Open("::not a url::", time.Hour, zerolog.Nop())
	assert.Nil(t, rdb)
	assert.IsType(t, &MemoryStore{}, st)
}
