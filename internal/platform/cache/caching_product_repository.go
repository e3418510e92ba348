// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"shop_backend/internal/feature/product/domain/entity"
	"shop_backend/internal/feature/product/usecase"
)

// DefaultTTL applies when the caller passes a non-positive ttl.
const DefaultTTL = 5 * time.Minute

// CachingProductRepository decorates a ProductRepository with Redis caching of
// the read paths. Keys carry a namespace generation; any successful write bumps
// it, so an entry loaded before the write and stored after it is never read.
// A nil Redis client turns it into a pass-through.
type CachingProductRepository struct {
	inner     usecase.ProductRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var _ usecase.ProductRepository = (*CachingProductRepository)(nil)

// NewCachingProductRepository wraps inner. An empty namespace means "products".
func NewCachingProductRepository(rdb *redis.Client, ttl time.Duration, inner usecase.ProductRepository, namespace string) *CachingProductRepository {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if namespace == "" {
		namespace = "products"
	}
	return &CachingProductRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

func (c *CachingProductRepository) List(ctx context.Context) ([]entity.Product, error) {
	return cached(ctx, c, "list", func() ([]entity.Product, error) {
		return c.inner.List(ctx)
	})
}

func (c *CachingProductRepository) FindByID(ctx context.Context, id uint) (*entity.Product, error) {
	return cached(ctx, c, path("id", fmt.Sprint(id)), func() (*entity.Product, error) {
		return c.inner.FindByID(ctx, id)
	})
}

func (c *CachingProductRepository) SearchNames(ctx context.Context, query string, limit int) ([]string, error) {
	return cached(ctx, c, path("names", fmt.Sprint(limit), queryKey(query)), func() ([]string, error) {
		return c.inner.SearchNames(ctx, query, limit)
	})
}

func (c *CachingProductRepository) Search(ctx context.Context, query string) ([]entity.Product, error) {
	return cached(ctx, c, path("search", queryKey(query)), func() ([]entity.Product, error) {
		return c.inner.Search(ctx, query)
	})
}

// ReferencedImages guards file deletion and always reads through.
func (c *CachingProductRepository) ReferencedImages(ctx context.Context, names []string) ([]string, error) {
	return c.inner.ReferencedImages(ctx, names)
}

func (c *CachingProductRepository) Create(ctx context.Context, p *entity.Product) error {
	if err := c.inner.Create(ctx, p); err != nil {
		return err
	}
	c.invalidate(ctx)
	return nil
}

func (c *CachingProductRepository) Update(ctx context.Context, p *entity.Product) error {
	if err := c.inner.Update(ctx, p); err != nil {
		return err
	}
	c.invalidate(ctx)
	return nil
}

func (c *CachingProductRepository) Delete(ctx context.Context, id uint) (*entity.Product, error) {
	p, err := c.inner.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	c.invalidate(ctx)
	return p, nil
}

// cached returns the value stored under suffix in the current generation or
// loads and stores it. Errors from load are never cached.
func cached[T any](ctx context.Context, c *CachingProductRepository, suffix string, load func() (T, error)) (T, error) {
	if c.rdb == nil {
		return load()
	}

	gen, err := c.generation(ctx)
	if err != nil {
		return load()
	}
	key := c.key(gen, suffix)

	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out T
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		// Corrupted entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	out, err := load()
	if err != nil {
		return out, err
	}

	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}
	return out, nil
}

// generation returns the current namespace generation, 0 when unset.
func (c *CachingProductRepository) generation(ctx context.Context) (int64, error) {
	gen, err := c.rdb.Get(ctx, c.genKey()).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

// invalidate starts a new generation and sweeps the previous one. Best
// effort: a failed sweep only leaves entries that expire with the ttl.
func (c *CachingProductRepository) invalidate(ctx context.Context) {
	if c.rdb == nil {
		return
	}
	gen, err := c.rdb.Incr(ctx, c.genKey()).Result()
	if err != nil {
		slog.Warn("product cache invalidation failed", "namespace", c.namespace, "error", err)
		return
	}
	if err := c.deleteByPattern(ctx, c.key(gen-1, "*")); err != nil {
		slog.Warn("product cache sweep failed", "namespace", c.namespace, "generation", gen-1, "error", err)
	}
}

func (c *CachingProductRepository) genKey() string {
	return c.namespace + ":gen"
}

func (c *CachingProductRepository) key(gen int64, suffix string) string {
	return path(c.namespace, strconv.FormatInt(gen, 10), suffix)
}

func path(parts ...string) string {
	return strings.Join(parts, ":")
}

// queryKey normalizes a search query into a key segment. Matching ignores
// case, so "Mug" and "mug" share an entry.
func queryKey(q string) string {
	return url.QueryEscape(strings.ToLower(q))
}

// deleteByPattern deletes all cache keys matching a given pattern using SCAN.
func (c *CachingProductRepository) deleteByPattern(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		keys, cur, err := c.rdb.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = cur
		if cursor == 0 {
			break
		}
	}
	return nil
}
