package cache

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const pageTTL = 5 * time.Minute

// PageCache holds rendered public page payloads keyed by username. Every
// profile or section mutation invalidates the owner's entry.
type PageCache struct {
	rdb *redis.Client
}

func NewPageCache(rdb *redis.Client) *PageCache {
	return &PageCache{rdb: rdb}
}

func key(username string) string {
	return "page:" + strings.ToLower(username)
}

func (c *PageCache) Get(ctx context.Context, username string) ([]byte, error) {
	return c.rdb.Get(ctx, key(username)).Bytes()
}

func (c *PageCache) Set(ctx context.Context, username string, payload []byte) error {
	return c.rdb.Set(ctx, key(username), payload, pageTTL).Err()
}

func (c *PageCache) Delete(ctx context.Context, username string) error {
	return c.rdb.Del(ctx, key(username)).Err()
}
