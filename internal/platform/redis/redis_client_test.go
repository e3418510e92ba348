package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shop_backend/internal/config"
)

func TestNewRedisClient(t *testing.T) {
	ctx := context.Background()

	t.Run("disabled", func(t *testing.T) {
		rdb, err := NewRedisClient(ctx, config.RedisConfig{})

		assert.NoError(t, err)
		assert.Nil(t, rdb)
	})

	t.Run("connected", func(t *testing.T) {
		mr := miniredis.RunT(t)

		rdb, err := NewRedisClient(ctx, config.RedisConfig{Addr: mr.Addr()})

		require.NoError(t, err)
		require.NotNil(t, rdb)
		assert.NoError(t, rdb.Close())
	})

	t.Run("wrong password", func(t *testing.T) {
		mr := miniredis.RunT(t)
		mr.RequireAuth("secret")

		rdb, err := NewRedisClient(ctx, config.RedisConfig{Addr: mr.Addr(), Password: "nope"})

		assert.Error(t, err)
		assert.Nil(t, rdb)
	})
}
