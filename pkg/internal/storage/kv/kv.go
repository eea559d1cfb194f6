// Package kv 提供用于键值存储的接口和实现，作为实体读缓存的后端.
package kv

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/yeisme/videocatalog/pkg/configs"
)

// ErrKeyNotFound 键不存在或已过期.
var ErrKeyNotFound = errors.New("key not found")

// Client 包装具体的 KVStore 实现.
type Client struct {
	KVStore
}

// KVStore 定义键值存储接口.
type KVStore interface {
	// Get 获取键的值，键不存在时返回包装了 ErrKeyNotFound 的错误.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set 设置键的值，ttl<=0 表示不过期.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Delete 删除键.
	Delete(ctx context.Context, key string) error
	// Exists 检查键是否存在.
	Exists(ctx context.Context, key string) (bool, error)
	// Keys 获取匹配前缀的键，pattern 为空时返回全部.
	Keys(ctx context.Context, pattern string) ([]string, error)
	// Close 关闭存储连接.
	Close() error
}

// BatchDeleter 由能一次删除多个键的后端实现.
type BatchDeleter interface {
	DeleteMany(ctx context.Context, keys ...string) error
}

// DeleteMany 删除多个键，后端不支持批量时逐个删除. 不存在的键不算错误.
func DeleteMany(ctx context.Context, store KVStore, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	if bd, ok := store.(BatchDeleter); ok {
		return bd.DeleteMany(ctx, keys...)
	}

	var errs []error

	for _, k := range keys {
		if err := store.Delete(ctx, k); err != nil && !errors.Is(err, ErrKeyNotFound) {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// PeerPath groupcache 实例之间互相拉取条目的路由前缀.
const PeerPath = "/_groupcache/"

// PeerServer 由需要对等节点通信的后端实现.
type PeerServer interface {
	PeerHandler() http.Handler
}

// KVType 键值存储类型.
type KVType string

const (
	KVTypeMemory     KVType = "memory"
	KVTypeRedis      KVType = "redis"
	KVTypeNATS       KVType = "nats"
	KVTypeGroupcache KVType = "groupcache"
)

// KVFactory 定义创建 KVStore 的工厂函数类型.
type KVFactory func(ctx context.Context, cfg *configs.KVConfig) (KVStore, error)

// kvFactories 存储 KV 类型到工厂的映射.
var kvFactories = make(map[KVType]KVFactory)

// RegisterKVFactory 注册 KV 工厂函数.
func RegisterKVFactory(kvType KVType, factory KVFactory) {
	kvFactories[kvType] = factory
}

// GetRegisteredKVTypes 返回已注册的 KV 类型列表（已排序）.
func GetRegisteredKVTypes() []KVType {
	types := make([]KVType, 0, len(kvFactories))
	for kvType := range kvFactories {
		types = append(types, kvType)
	}

	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })

	return types
}

// NewKVStore 根据类型创建 KVStore 实例.
func NewKVStore(ctx context.Context, kvType KVType, cfg *configs.KVConfig) (KVStore, error) {
	factory, exists := kvFactories[kvType]
	if !exists {
		return nil, fmt.Errorf("unsupported KV type: %s", kvType)
	}

	return factory(ctx, cfg)
}

// NewKVClient 根据全局配置创建 KV 客户端.
func NewKVClient(ctx context.Context) (*Client, error) {
	cfg := configs.GetConfig().KV

	store, err := NewKVStore(ctx, KVType(cfg.Type), &cfg)
	if err != nil {
		return nil, err
	}

	return &Client{KVStore: store}, nil
}

// matchPattern 判断 key 是否匹配前缀模式，支持末尾的 "*".
func matchPattern(key, pattern string) bool {
	if pattern == "" || pattern == "*" {
		return true
	}

	if n := len(pattern); pattern[n-1] == '*' {
		prefix := pattern[:n-1]
		return len(key) >= len(prefix) && key[:len(prefix)] == prefix
	}

	return key == pattern
}

func notFound(key string) error {
	return fmt.Errorf("%w: %s", ErrKeyNotFound, key)
}
