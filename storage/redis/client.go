package redis

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"SpendWise/config"
)

var (
	client  *redis.Client
	once    sync.Once
	initErr error
)

func Init() error {
	once.Do(func() {
		client = redis.NewClient(options(config.Cfg))

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		initErr = client.Ping(ctx).Err()
	})

	return initErr
}

func options(cfg config.Config) *redis.Options {
	return &redis.Options{
		Addr:         cfg.RedisAddr,
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		MinIdleConns: 5,
		MaxRetries:   3,
	}
}

func Client() *redis.Client {
	if client == nil {
		panic("Redis client not init")
	}
	return client
}

func Close(ctx context.Context) error {
	if client == nil {
		return nil
	}

	return client.Close()
}

// Key 拼接带前缀的缓存键, 空段会被跳过
func Key(parts ...string) string {
	prefix := config.Cfg.RedisPrefix
	if prefix == "" {
		prefix = "sw"
	}

	var sb strings.Builder
	sb.WriteString(prefix)
	for _, part := range parts {
		if part == "" {
			continue
		}
		sb.WriteString(":")
		sb.WriteString(part)
	}

	return sb.String()
}
