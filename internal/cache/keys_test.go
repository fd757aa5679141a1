package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { SetClient(nil) })
	return mr
}

type cachedProfile struct {
	UserID uint   `json:"user_id"`
	Bio    string `json:"bio"`
}

func TestAside(t *testing.T) {
	t.Run("miss loads and stores", func(t *testing.T) {
		mr := setupRedis(t)

		loads := 0
		var p cachedProfile
		err := Aside(context.Background(), ProfileKey(1), &p, ProfileTTL, func() error {
			loads++
			p = cachedProfile{UserID: 1, Bio: "hello"}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 1, loads)
		assert.True(t, mr.Exists(ProfileKey(1)))

		// Second call is served from the cache.
		var p2 cachedProfile
		err = Aside(context.Background(), ProfileKey(1), &p2, ProfileTTL, func() error {
			loads++
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 1, loads)
		assert.Equal(t, p, p2)
	})

	t.Run("load error is not cached", func(t *testing.T) {
		mr := setupRedis(t)

		err := Aside(context.Background(), ProfileKey(2), &cachedProfile{}, ProfileTTL, func() error {
			return assert.AnError
		})
		assert.Error(t, err)
		assert.False(t, mr.Exists(ProfileKey(2)))
	})

	t.Run("nil client falls through to load", func(t *testing.T) {
		SetClient(nil)
		loads := 0
		err := Aside(context.Background(), ProfileKey(3), &cachedProfile{}, ProfileTTL, func() error {
			loads++
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 1, loads)
	})
}

func TestInvalidateProfile(t *testing.T) {
	mr := setupRedis(t)
	require.NoError(t, mr.Set(ProfileKey(9), "{}"))

	InvalidateProfile(context.Background(), 9)
	assert.False(t, mr.Exists(ProfileKey(9)))
}

func TestTokenDenylist(t *testing.T) {
	t.Run("denylisted token is reported", func(t *testing.T) {
		setupRedis(t)

		jti := "a-token-id"
		assert.False(t, IsTokenDenylisted(context.Background(), jti))

		require.NoError(t, DenylistToken(context.Background(), jti, time.Minute))
		assert.True(t, IsTokenDenylisted(context.Background(), jti))
	})

	t.Run("entry expires with the token", func(t *testing.T) {
		mr := setupRedis(t)

		require.NoError(t, DenylistToken(context.Background(), "expiring", time.Minute))
		mr.FastForward(2 * time.Minute)
		assert.False(t, IsTokenDenylisted(context.Background(), "expiring"))
	})

	t.Run("fails open without redis", func(t *testing.T) {
		SetClient(nil)
		assert.NoError(t, DenylistToken(context.Background(), "x", time.Minute))
		assert.False(t, IsTokenDenylisted(context.Background(), "x"))
	})
}
