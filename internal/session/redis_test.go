package session

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillhive/skillhive-go/internal/model"
)

func newRedisStore(t *testing.T, ttl time.Duration) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRedisStore(rdb, ttl), mr
}

func TestRedisStore_SaveWritesJSONWithTTL(t *testing.T) {
	st, mr := newRedisStore(t, 30*time.Minute)

	s := New()
	s.CurrentPath = "/learning"
	s.IsAuthenticated = true
	s.UserID = "550e8400-e29b-41d4-a716-446655440000"
	require.NoError(t, st.Save(context.Background(), s))

	k := "session:" + s.ID
	require.True(t, mr.Exists(k))
	assert.Equal(t, 30*time.Minute, mr.TTL(k))

	raw, err := mr.Get(k)
	require.NoError(t, err)
	var stored model.Session
	require.NoError(t, json.Unmarshal([]byte(raw), &stored))
	assert.Equal(t, "/learning", stored.CurrentPath)
	assert.Equal(t, s.UserID, stored.UserID)
}

func TestRedisStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	st, _ := newRedisStore(t, time.Hour)

	s := New()
	s.CurrentPath = "/profile"
	s.IsAuthenticated = true
	s.UserID = "550e8400-e29b-41d4-a716-446655440000"
	s.Email = "a@b.io"
	require.NoError(t, st.Save(ctx, s))

	got, err := st.Load(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, s.ID, got.ID)
	assert.Equal(t, "/profile", got.CurrentPath)
	assert.True(t, got.IsAuthenticated)
	assert.Equal(t, "a@b.io", got.Email)
}

func TestRedisStore_SaveSlidesTTL(t *testing.T) {
	ctx := context.Background()
	st, mr := newRedisStore(t, time.Hour)

	s := New()
	require.NoError(t, st.Save(ctx, s))
	mr.FastForward(45 * time.Minute)
	require.NoError(t, st.Save(ctx, s))
	mr.FastForward(45 * time.Minute)

	_, err := st.Load(ctx, s.ID)
	assert.NoError(t, err)
}

func TestRedisStore_Expiry(t *testing.T) {
	ctx := context.Background()
	st, mr := newRedisStore(t, time.Minute)

	s := New()
	require.NoError(t, st.Save(ctx, s))
	mr.FastForward(2 * time.Minute)

	_, err := st.Load(ctx, s.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStore_LoadMissing(t *testing.T) {
	st, _ := newRedisStore(t, time.Hour)
	_, err := st.Load(context.Background(), New().ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStore_LoadCorrupt(t *testing.T) {
	st, mr := newRedisStore(t, time.Hour)
	id := New().ID
	require.NoError(t, mr.Set("session:"+id, "{not json"))

	_, err := st.Load(context.Background(), id)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "decode session")

	// LoadOrNew degrades to a fresh session and surfaces the error.
	fresh, err := LoadOrNew(context.Background(), st, id)
	assert.Error(t, err)
	assert.NotEqual(t, id, fresh.ID)
}

func TestRedisStore_Delete(t *testing.T) {
	ctx := context.Background()
	st, mr := newRedisStore(t, time.Hour)

	s := New()
	require.NoError(t, st.Save(ctx, s))
	require.NoError(t, st.Delete(ctx, s.ID))

	assert.False(t, mr.Exists("session:"+s.ID))
	_, err := st.Load(ctx, s.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStore_ServerDown(t *testing.T) {
	st, mr := newRedisStore(t, time.Hour)
	mr.Close()

	_, err := st.Load(context.Background(), New().ID)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestOpen_ConnectsToRedis(t *testing.T) {
	mr := miniredis.RunT(t)

	st, rdb := Open("redis://"+mr.Addr(), time.Hour, zerolog.Nop())
	require.NotNil(t, rdb)
	t.Cleanup(func() { _ = rdb.Close() })
	assert.IsType(t, &RedisStore{}, st)

	s := New()
	require.NoError(t, st.Save(context.Background(), s))
	assert.True(t, mr.Exists("session:"+s.ID))
}
