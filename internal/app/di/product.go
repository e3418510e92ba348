// Package di provides dependency injection factories for creating application components.
package di

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"shop_backend/internal/config"
	productadapters "shop_backend/internal/feature/product/adapters"
	"shop_backend/internal/feature/product/usecase"
	"shop_backend/internal/platform/cache"
	"shop_backend/internal/platform/imagestore"
)

// NewProductRepository returns the gorm repository, wrapped in the Redis cache
// when rdb is non-nil.
func NewProductRepository(db *gorm.DB, rdb *redis.Client, ttl time.Duration) usecase.ProductRepository {
	repo := productadapters.NewProductGorm(db)
	if rdb == nil {
		return repo
	}
	return cache.NewCachingProductRepository(rdb, ttl, repo, "products")
}

// NewImageStore builds the image backend selected by cfg.Image.Driver.
func NewImageStore(ctx context.Context, cfg *config.Config) (usecase.ImageStore, error) {
	switch cfg.Image.Driver {
	case config.ImageStoreDisk:
		return imagestore.NewDiskStore(cfg.Image.Dir, cfg.Image.MaxBytes)
	case config.ImageStoreS3:
		return imagestore.NewS3Store(ctx, cfg.S3, cfg.Image.MaxBytes)
	default:
		return nil, fmt.Errorf("unknown image store %q", cfg.Image.Driver)
	}
}
