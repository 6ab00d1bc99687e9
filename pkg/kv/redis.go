package kv

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/memberhub/memberhub-backend/pkg/config"
)

const keyNamespace = "mh"

const scanBatchSize = 200

type cmdable interface {
	Ping(context.Context) *redis.StatusCmd
	Get(context.Context, string) *redis.StringCmd
	Set(context.Context, string, any, time.Duration) *redis.StatusCmd
	Del(context.Context, ...string) *redis.IntCmd
	Incr(context.Context, string) *redis.IntCmd
	Decr(context.Context, string) *redis.IntCmd
	Scan(context.Context, uint64, string, int64) *redis.ScanCmd
	MGet(context.Context, ...string) *redis.SliceCmd
}

// RedisStore implements Store on a Redis connection. Every key is namespaced
// under "mh:" so a shared Redis instance stays tidy.
type RedisStore struct {
	store cmdable
	raw   *redis.Client
}

// NewRedis bootstraps a Redis-backed store and verifies connectivity.
func NewRedis(ctx context.Context, cfg config.RedisConfig) (*RedisStore, error) {
	opts, err := optionsFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	raw := redis.NewClient(opts)
	if err := raw.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &RedisStore{store: raw, raw: raw}, nil
}

func optionsFromConfig(cfg config.RedisConfig) (*redis.Options, error) {
	if cfg.URL == "" && cfg.Address == "" {
		return nil, errors.New("redis url or address is required")
	}
	var opts *redis.Options
	if cfg.URL != "" {
		parsed, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("parsing redis url: %w", err)
		}
		opts = parsed
	} else {
		opts = &redis.Options{
			Addr:     cfg.Address,
			Password: cfg.Password,
			DB:       cfg.DB,
		}
	}
	if opts.DB == 0 {
		opts.DB = cfg.DB
	}
	if opts.PoolSize == 0 {
		opts.PoolSize = cfg.PoolSize
	}
	if opts.MinIdleConns == 0 {
		opts.MinIdleConns = cfg.MinIdleConns
	}
	if opts.DialTimeout == 0 {
		opts.DialTimeout = cfg.DialTimeout
	}
	if opts.ReadTimeout == 0 {
		opts.ReadTimeout = cfg.ReadTimeout
	}
	if opts.WriteTimeout == 0 {
		opts.WriteTimeout = cfg.WriteTimeout
	}
	return opts, nil
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	if s.store == nil {
		return "", false, errors.New("redis store not initialized")
	}
	value, err := s.store.Get(ctx, buildKey(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	if s.store == nil {
		return errors.New("redis store not initialized")
	}
	return s.store.Set(ctx, buildKey(key), value, 0).Err()
}

func (s *RedisStore) Del(ctx context.Context, key string) error {
	if s.store == nil {
		return errors.New("redis store not initialized")
	}
	return s.store.Del(ctx, buildKey(key)).Err()
}

func (s *RedisStore) GetByPrefix(ctx context.Context, prefix string) ([]string, error) {
	if s.store == nil {
		return nil, errors.New("redis store not initialized")
	}

	var keys []string
	match := buildKey(prefix) + "*"
	var cursor uint64
	for {
		batch, next, err := s.store.Scan(ctx, cursor, match, scanBatchSize).Result()
		if err != nil {
			return nil, fmt.Errorf("scan %q: %w", match, err)
		}
		keys = append(keys, batch...)
		cursor = next
		if cursor == 0 {
			break
		}
	}
	if len(keys) == 0 {
		return nil, nil
	}

	raw, err := s.store.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("mget: %w", err)
	}
	values := make([]string, 0, len(raw))
	for _, item := range raw {
		// A key can expire between SCAN and MGET.
		if str, ok := item.(string); ok {
			values = append(values, str)
		}
	}
	return values, nil
}

func (s *RedisStore) Incr(ctx context.Context, key string) (int64, error) {
	if s.store == nil {
		return 0, errors.New("redis store not initialized")
	}
	return s.store.Incr(ctx, buildKey(key)).Result()
}

// DecrFloor decrements and corrects negative results back to zero. The
// correction is a second command, so two racing decrements on a zero counter
// can both observe -1 briefly; the stored value still settles at 0.
func (s *RedisStore) DecrFloor(ctx context.Context, key string) (int64, error) {
	if s.store == nil {
		return 0, errors.New("redis store not initialized")
	}
	value, err := s.store.Decr(ctx, buildKey(key)).Result()
	if err != nil {
		return 0, err
	}
	if value < 0 {
		if err := s.store.Set(ctx, buildKey(key), "0", 0).Err(); err != nil {
			return 0, err
		}
		return 0, nil
	}
	return value, nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	if s.store == nil {
		return errors.New("redis store not initialized")
	}
	return s.store.Ping(ctx).Err()
}

// Close shuts down the underlying client if available.
func (s *RedisStore) Close() error {
	if s.raw == nil {
		return nil
	}
	return s.raw.Close()
}

func buildKey(key string) string {
	return keyNamespace + ":" + strings.TrimSpace(key)
}
