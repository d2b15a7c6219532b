package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blueberry/internal/xpkg/logger"
	"blueberry/internal/xpkg/models"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewWithClient(rdb, time.Hour, logger.NewNop()), mr
}

func TestItems_RoundTrip(t *testing.T) {
	s, mr := newTestStore(t)
	ctx := context.Background()
	key := CartKey("user:u1")

	items := []models.LineItem{
		{ID: "p1", Name: "Poulet", Price: 10, Quantity: 2},
		{ID: "menu-1", Name: "Menu: Riz", Price: 14, Quantity: 1, IsMenu: true,
			Items: []models.LineItem{{ID: "riz", OriginalID: "riz", Price: 10, Quantity: 1}}},
	}
	require.NoError(t, s.SaveItems(ctx, key, items))
	assert.True(t, mr.Exists("cartItems:user:u1"))
	assert.Equal(t, time.Hour, mr.TTL(key))

	got, err := s.Items(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, items, got)
}

func TestItems_MissingKeyIsEmpty(t *testing.T) {
	s, _ := newTestStore(t)

	got, err := s.Items(context.Background(), PlateauKey("session:abc"))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestItems_MalformedJSONDeletesKey(t *testing.T) {
	s, mr := newTestStore(t)
	key := PlateauKey("session:abc")
	require.NoError(t, mr.Set(key, "{not json"))

	got, err := s.Items(context.Background(), key)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.False(t, mr.Exists(key))
}

func TestSaveItems_EmptyDeletesKey(t *testing.T) {
	s, mr := newTestStore(t)
	ctx := context.Background()
	key := CartKey("user:u1")

	require.NoError(t, s.SaveItems(ctx, key, []models.LineItem{{ID: "p1", Quantity: 1}}))
	require.NoError(t, s.SaveItems(ctx, key, nil))
	assert.False(t, mr.Exists(key))
}

func TestRevokedTokens(t *testing.T) {
	s, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.RevokeToken(ctx, "jti-1", time.Now().Add(time.Minute)))
	revoked, err := s.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	require.NoError(t, s.RevokeToken(ctx, "jti-old", time.Now().Add(-time.Minute)))
	assert.False(t, mr.Exists(revokedPrefix+"jti-old"))

	mr.FastForward(2 * time.Minute)
	revoked, err = s.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestResetTokens_SingleUse(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.PutResetToken(ctx, "tok", "u1", time.Hour))

	uid, err := s.TakeResetToken(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, "u1", uid)

	_, err = s.TakeResetToken(ctx, "tok")
	assert.ErrorIs(t, err, ErrTokenNotFound)
}
