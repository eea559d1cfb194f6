package kv

import (
	"context"
	"sync"
	"time"

	"github.com/yeisme/videocatalog/pkg/configs"
)

// MemoryKV 基于 sync.Map 的进程内 KV 实现，值按 TTL 包装后保存.
type MemoryKV struct {
	data sync.Map
}

// NewMemoryKV 创建内存 KV 实例.
func NewMemoryKV(_ context.Context, _ *configs.KVConfig) (KVStore, error) {
	return &MemoryKV{}, nil
}

// Get 获取键的值，过期键惰性删除.
func (m *MemoryKV) Get(_ context.Context, key string) ([]byte, error) {
	value, exists := m.data.Load(key)
	if !exists {
		return nil, notFound(key)
	}

	raw, _ := value.([]byte)

	val, live, err := unseal(raw, time.Now())
	if err != nil {
		return nil, err
	}

	if !live {
		m.data.Delete(key)
		return nil, notFound(key)
	}

	result := make([]byte, len(val))
	copy(result, val)

	return result, nil
}

// Set 设置键的值.
func (m *MemoryKV) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	data := make([]byte, len(value))
	copy(data, value)

	m.data.Store(key, seal(data, ttl, time.Now()))

	return nil
}

// Delete 删除键.
func (m *MemoryKV) Delete(_ context.Context, key string) error {
	m.data.Delete(key)
	return nil
}

// Exists 检查键是否存在.
func (m *MemoryKV) Exists(ctx context.Context, key string) (bool, error) {
	if _, err := m.Get(ctx, key); err != nil {
		return false, nil //nolint:nilerr
	}

	return true, nil
}

// Keys 获取匹配的键.
func (m *MemoryKV) Keys(_ context.Context, pattern string) ([]string, error) {
	keys := make([]string, 0)

	m.data.Range(func(key, _ any) bool {
		if k, ok := key.(string); ok && matchPattern(k, pattern) {
			keys = append(keys, k)
		}

		return true
	})

	return keys, nil
}

// Close 关闭存储（内存实现无需操作）.
func (m *MemoryKV) Close() error {
	return nil
}

func init() {
	RegisterKVFactory(KVTypeMemory, NewMemoryKV)
}
