package config

import (
	"fmt"
	"os"
)

type Config struct {
	ServerPort    string
	DatabaseURL   string
	RedisAddr     string
	JWTSecret     string
	MinioEndpoint string
	MinioAccess   string
	MinioSecret   string
	MinioUseSSL   bool
	MediaBucket   string
	PublicBaseURL string
}

// Load reads configuration from the environment. DATABASE_URL and JWT_SECRET
// have no usable fallback; missing either is a fatal configuration error.
func Load() (*Config, error) {
	cfg := &Config{
		ServerPort:    getEnv("SERVER_PORT", "8080"),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		MinioEndpoint: getEnv("MINIO_ENDPOINT", "localhost:9000"),
		MinioAccess:   getEnv("MINIO_ACCESS_KEY", "minioadmin"),
		MinioSecret:   getEnv("MINIO_SECRET_KEY", "minioadmin"),
		MinioUseSSL:   getEnv("MINIO_USE_SSL", "false") == "true",
		MediaBucket:   getEnv("MEDIA_BUCKET", "folio-media"),
		PublicBaseURL: getEnv("PUBLIC_BASE_URL", "http://localhost:9000"),
	}

	var err error
	if cfg.DatabaseURL, err = mustEnv("DATABASE_URL"); err != nil {
		return nil, err
	}
	if cfg.JWTSecret, err = mustEnv("JWT_SECRET"); err != nil {
		return nil, err
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	val, exists := os.LookupEnv(key)

	if exists {
		return val
	}

	return fallback
}

func mustEnv(key string) (string, error) {
	val, exists := os.LookupEnv(key)
	if !exists || val == "" {
		return "", fmt.Errorf("missing required env: %s", key)
	}
	return val, nil
}
