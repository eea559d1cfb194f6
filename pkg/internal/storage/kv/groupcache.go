package kv

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/golang/groupcache"

	"github.com/yeisme/videocatalog/pkg/configs"
)

// groupSeq 保证同一进程内多次创建时 group 名称唯一，groupcache 不允许重复注册.
var groupSeq atomic.Int64

// GroupcacheKV 基于 Groupcache 的 KV 实现.
// groupcache 中的条目不可变，这里为每个键维护一个版本号，
// Set/Delete 递增版本号使旧条目失效.
type GroupcacheKV struct {
	cache *groupcache.Group
	peers *groupcache.HTTPPool
	data  map[string][]byte
	gens  map[string]uint64
	mu    sync.RWMutex
}

type groupcacheGetter struct {
	kv *GroupcacheKV
}

// Get 从本地数据回源，versioned key 形如 "<gen>|<key>".
func (g *groupcacheGetter) Get(_ context.Context, versioned string, dest groupcache.Sink) error {
	_, key, ok := strings.Cut(versioned, "|")
	if !ok {
		return notFound(versioned)
	}

	g.kv.mu.RLock()
	value, exists := g.kv.data[key]
	g.kv.mu.RUnlock()

	if !exists {
		return notFound(key)
	}

	if err := dest.SetBytes(value); err != nil {
		return fmt.Errorf("failed to set bytes to sink: %w", err)
	}

	return nil
}

// NewGroupcacheKV 创建 Groupcache KV 实例.
func NewGroupcacheKV(_ context.Context, cfg *configs.KVConfig) (KVStore, error) {
	if cfg == nil {
		return nil, fmt.Errorf("invalid Groupcache config")
	}

	gc := cfg.Groupcache
	kv := &GroupcacheKV{
		data: make(map[string][]byte),
		gens: make(map[string]uint64),
	}

	name := fmt.Sprintf("%s-%d", gc.Name, groupSeq.Add(1))
	kv.cache = groupcache.NewGroup(name, gc.CacheBytes, &groupcacheGetter{kv: kv})

	if len(gc.Peers) > 0 {
		kv.peers = groupcache.NewHTTPPoolOpts(gc.Self, &groupcache.HTTPPoolOptions{})
		kv.peers.Set(gc.Peers...)
	}

	return kv, nil
}

// PeerHandler 返回供其他实例拉取条目的 HTTP handler，未配置 peers 时为 nil.
// NewHTTPPoolOpts 不注册到任何 mux，需挂到服务的 PeerPath 下.
func (g *GroupcacheKV) PeerHandler() http.Handler {
	if g.peers == nil {
		return nil
	}

	return g.peers
}

func (g *GroupcacheKV) versioned(key string) string {
	g.mu.RLock()
	gen := g.gens[key]
	g.mu.RUnlock()

	return strconv.FormatUint(gen, 10) + "|" + key
}

// Get 获取键的值.
func (g *GroupcacheKV) Get(ctx context.Context, key string) ([]byte, error) {
	var raw []byte
	if err := g.cache.Get(ctx, g.versioned(key), groupcache.AllocatingByteSliceSink(&raw)); err != nil {
		return nil, fmt.Errorf("failed to get key: %w", err)
	}

	val, live, err := unseal(raw, time.Now())
	if err != nil {
		return nil, err
	}

	if !live {
		_ = g.Delete(ctx, key)
		return nil, notFound(key)
	}

	return val, nil
}

// Set 设置键的值.
func (g *GroupcacheKV) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	encoded := seal(append([]byte(nil), value...), ttl, time.Now())

	g.mu.Lock()
	defer g.mu.Unlock()

	g.data[key] = encoded
	g.gens[key]++

	return nil
}

// Delete 删除键.
func (g *GroupcacheKV) Delete(_ context.Context, key string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	delete(g.data, key)
	g.gens[key]++

	return nil
}

// Exists 检查键是否存在.
func (g *GroupcacheKV) Exists(_ context.Context, key string) (bool, error) {
	g.mu.RLock()
	raw, exists := g.data[key]
	g.mu.RUnlock()

	if !exists {
		return false, nil
	}

	_, live, err := unseal(raw, time.Now())

	return err == nil && live, nil
}

// Keys 获取匹配的键.
func (g *GroupcacheKV) Keys(_ context.Context, pattern string) ([]string, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	keys := make([]string, 0, len(g.data))
	for key := range g.data {
		if matchPattern(key, pattern) {
			keys = append(keys, key)
		}
	}

	return keys, nil
}

// Close 关闭缓存，groupcache 没有显式的关闭方法.
func (g *GroupcacheKV) Close() error {
	return nil
}

func init() {
	RegisterKVFactory(KVTypeGroupcache, NewGroupcacheKV)
}
