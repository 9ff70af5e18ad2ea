// Package backend owns the process-wide handle to the data, cache and media
// stores. The handle is constructed exactly once, on first Init, and is
// read-only afterwards, so it is safe to share across requests.
package backend

import (
	"context"
	"errors"
	"sync"

	"github.com/arlenko/folio/internal/config"
	"github.com/arlenko/folio/internal/database"
	"github.com/arlenko/folio/internal/storage"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

var ErrNotInitialized = errors.New("backend not initialized")

type Backend struct {
	Pool  *pgxpool.Pool
	Redis *redis.Client
	Media storage.MediaStore
}

var (
	once    sync.Once
	shared  *Backend
	initErr error
)

// Init constructs the shared handle on first call; later calls return the
// memoized result regardless of the config passed. A construction failure is
// sticky and the process should treat it as fatal.
func Init(ctx context.Context, cfg *config.Config) (*Backend, error) {
	once.Do(func() {
		shared, initErr = connect(ctx, cfg)
	})
	return shared, initErr
}

// Get returns the handle constructed by Init.
func Get() (*Backend, error) {
	if initErr != nil {
		return nil, initErr
	}
	if shared == nil {
		return nil, ErrNotInitialized
	}
	return shared, nil
}

func (b *Backend) Close() {
	b.Pool.Close()
	b.Redis.Close()
}

func connect(ctx context.Context, cfg *config.Config) (*Backend, error) {
	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	media, err := storage.NewMinioStore(storage.MinioConfig{
		Endpoint:      cfg.MinioEndpoint,
		AccessKey:     cfg.MinioAccess,
		SecretKey:     cfg.MinioSecret,
		UseSSL:        cfg.MinioUseSSL,
		Bucket:        cfg.MediaBucket,
		PublicBaseURL: cfg.PublicBaseURL,
	})
	if err != nil {
		pool.Close()
		return nil, err
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})

	return &Backend{Pool: pool, Redis: rdb, Media: media}, nil
}
