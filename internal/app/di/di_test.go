package di

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"shop_backend/internal/config"
	productadapters "shop_backend/internal/feature/product/adapters"
	"shop_backend/internal/platform/cache"
	"shop_backend/internal/platform/imagestore"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func TestNewProductRepository(t *testing.T) {
	db := openTestDB(t)

	t.Run("without redis", func(t *testing.T) {
		repo := NewProductRepository(db, nil, time.Minute)

		assert.IsType(t, productadapters.NewProductGorm(db), repo)
	})

	t.Run("with redis", func(t *testing.T) {
		mr := miniredis.RunT(t)
		rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		t.Cleanup(func() { _ = rdb.Close() })

		repo := NewProductRepository(db, rdb, time.Minute)

		assert.IsType(t, &cache.CachingProductRepository{}, repo)
	})
}

func TestNewImageStore(t *testing.T) {
	ctx := context.Background()

	t.Run("disk", func(t *testing.T) {
		cfg := &config.Config{Image: config.ImageConfig{Driver: config.ImageStoreDisk, Dir: t.TempDir(), MaxBytes: 1 << 20}}

		store, err := NewImageStore(ctx, cfg)

		require.NoError(t, err)
		assert.IsType(t, &imagestore.DiskStore{}, store)
	})

	t.Run("unknown driver", func(t *testing.T) {
		cfg := &config.Config{Image: config.ImageConfig{Driver: "ftp"}}

		_, err := NewImageStore(ctx, cfg)

		assert.Error(t, err)
	})
}
