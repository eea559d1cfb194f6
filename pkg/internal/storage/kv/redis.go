//go:build !no_redis

package kv

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/yeisme/videocatalog/pkg/configs"
)

// scanBatch 每次 SCAN 建议返回的键数.
const scanBatch = 256

// RedisKV 基于 Redis 的读缓存后端，TTL 使用 Redis 原生过期.
type RedisKV struct {
	rdb *redis.Client
}

func init() {
	RegisterKVFactory(KVTypeRedis, NewRedisKV)
}

// NewRedisKV 连接 Redis 并 PING 一次.
func NewRedisKV(ctx context.Context, cfg *configs.KVConfig) (KVStore, error) {
	if cfg == nil {
		return nil, errors.New("redis kv: nil config")
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, errors.Join(fmt.Errorf("redis kv: ping %s: %w", cfg.Redis.Addr, err), rdb.Close())
	}

	return &RedisKV{rdb: rdb}, nil
}

func (r *RedisKV) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := r.rdb.Get(ctx, key).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return nil, notFound(key)
	case err != nil:
		return nil, fmt.Errorf("redis kv: get %s: %w", key, err)
	}

	return b, nil
}

func (r *RedisKV) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := r.rdb.Set(ctx, key, value, max(ttl, 0)).Err(); err != nil {
		return fmt.Errorf("redis kv: set %s: %w", key, err)
	}

	return nil
}

func (r *RedisKV) Delete(ctx context.Context, key string) error {
	return r.DeleteMany(ctx, key)
}

// DeleteMany 用一条 DEL 删除全部键.
func (r *RedisKV) DeleteMany(ctx context.Context, keys ...string) error {
	if err := r.rdb.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis kv: del %d keys: %w", len(keys), err)
	}

	return nil
}

func (r *RedisKV) Exists(ctx context.Context, key string) (bool, error) {
	n, err := r.rdb.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("redis kv: exists %s: %w", key, err)
	}

	return n > 0, nil
}

// Keys 用 SCAN 遍历，不阻塞 Redis.
func (r *RedisKV) Keys(ctx context.Context, pattern string) ([]string, error) {
	if pattern == "" {
		pattern = "*"
	}

	var keys []string

	it := r.rdb.Scan(ctx, 0, pattern, scanBatch).Iterator()
	for it.Next(ctx) {
		keys = append(keys, it.Val())
	}

	if err := it.Err(); err != nil {
		return nil, fmt.Errorf("redis kv: scan %s: %w", pattern, err)
	}

	return keys, nil
}

func (r *RedisKV) Close() error {
	return r.rdb.Close()
}
