// Package cache 提供基于键值存储的泛型读缓存.
//
// 底层使用 sonic 序列化，键统一带前缀，便于按资源批量失效.
//
// 基本用法:
//
//	c := cache.NewCache(kvStore, "vc")
//	key := c.Key("videos", "show", id)
//
//	video, err := cache.GetOrSet(ctx, c, key, func() (Video, error) {
//		return repo.FindOrFail(ctx, id)
//	}, 30*time.Second)
//
// 缓存未命中不视为错误，写入失败也不影响 getter 的返回值.
package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cespare/xxhash/v2"
	"golang.org/x/sync/singleflight"

	"github.com/yeisme/videocatalog/pkg/internal/storage/kv"
)

// Cache 基于KV存储的缓存实现.
type Cache struct {
	kvStore kv.KVStore
	prefix  string
	flight  singleflight.Group
}

// NewCache 创建一个新的缓存实例，prefix 为空时键不带前缀.
func NewCache(kvStore kv.KVStore, prefix string) *Cache {
	return &Cache{
		kvStore: kvStore,
		prefix:  strings.TrimSuffix(prefix, ":"),
	}
}

// Key 由 namespace 与任意片段生成缓存键，片段较长时用 xxhash 压缩.
// 形如 "vc:videos:5f3c...".
func (c *Cache) Key(namespace string, parts ...string) string {
	raw := strings.Join(parts, "\x00")

	suffix := raw
	if len(raw) > 64 || strings.ContainsAny(raw, "\x00 ") {
		suffix = strconv.FormatUint(xxhash.Sum64String(raw), 16)
	}

	return c.Namespace(namespace) + suffix
}

// Namespace 返回某个资源所有键的公共前缀.
func (c *Cache) Namespace(namespace string) string {
	if c.prefix == "" {
		return namespace + ":"
	}

	return c.prefix + ":" + namespace + ":"
}

// Get 泛型获取缓存值.
func Get[T any](ctx context.Context, c *Cache, key string) (T, error) {
	var zero T

	data, err := c.kvStore.Get(ctx, key)
	if err != nil {
		return zero, err
	}

	var value T
	if err := sonic.Unmarshal(data, &value); err != nil {
		return zero, fmt.Errorf("failed to unmarshal cache value: %w", err)
	}

	return value, nil
}

// Set 泛型设置缓存值.
func Set[T any](ctx context.Context, c *Cache, key string, value T, ttl time.Duration) error {
	data, err := sonic.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}

	return c.kvStore.Set(ctx, key, data, ttl)
}

// Delete 删除缓存键.
func (c *Cache) Delete(ctx context.Context, key string) error {
	err := c.kvStore.Delete(ctx, key)
	if errors.Is(err, kv.ErrKeyNotFound) {
		return nil
	}

	return err
}

// DeleteMany 批量删除缓存键.
func (c *Cache) DeleteMany(ctx context.Context, keys ...string) error {
	return kv.DeleteMany(ctx, c.kvStore, keys...)
}

// Exists 检查缓存键是否存在.
func (c *Cache) Exists(ctx context.Context, key string) (bool, error) {
	return c.kvStore.Exists(ctx, key)
}

// GetOrSet 获取缓存值，如果不存在则调用 getter 并回填.
// 同一进程内同一个键的并发未命中只调用一次 getter.
func GetOrSet[T any](ctx context.Context, c *Cache, key string, getter func() (T, error), ttl time.Duration) (T, error) {
	if value, err := Get[T](ctx, c, key); err == nil {
		return value, nil
	}

	v, err, _ := c.flight.Do(key, func() (any, error) {
		value, err := getter()
		if err != nil {
			return nil, err
		}

		// 回填失败只影响下一次命中
		_ = Set(ctx, c, key, value, ttl)

		return value, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}

	out, _ := v.(T)

	return out, nil
}

// Invalidate 删除某个 namespace 下的所有键.
func (c *Cache) Invalidate(ctx context.Context, namespace string) error {
	return c.deleteMatching(ctx, c.Namespace(namespace)+"*")
}

// Clear 清空带前缀的全部缓存.
func (c *Cache) Clear(ctx context.Context) error {
	if c.prefix == "" {
		return c.deleteMatching(ctx, "*")
	}

	return c.deleteMatching(ctx, c.prefix+":*")
}

func (c *Cache) deleteMatching(ctx context.Context, pattern string) error {
	keys, err := c.kvStore.Keys(ctx, pattern)
	if err != nil {
		return err
	}

	return c.DeleteMany(ctx, keys...)
}
