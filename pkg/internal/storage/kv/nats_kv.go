package kv

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/yeisme/videocatalog/pkg/configs"
)

// NATSKV 基于 NATS JetStream KeyValue 的实现.
// JetStream KV 没有单键 TTL，过期信息写在值的包装里并惰性删除.
type NATSKV struct {
	kv   nats.KeyValue
	conn *nats.Conn
}

// NewNATSKV 创建 NATS KV 实例，bucket 不存在时自动创建.
func NewNATSKV(_ context.Context, cfg *configs.KVConfig) (KVStore, error) {
	if cfg == nil {
		return nil, fmt.Errorf("invalid NATS config")
	}

	opts := []nats.Option{nats.Name(configs.AppName + "-kv")}
	if cfg.NATS.User != "" {
		opts = append(opts, nats.UserInfo(cfg.NATS.User, cfg.NATS.Password))
	}

	nc, err := nats.Connect(cfg.NATS.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := nc.JetStream()
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	kv, err := js.KeyValue(cfg.NATS.Bucket)
	if errors.Is(err, nats.ErrBucketNotFound) {
		kv, err = js.CreateKeyValue(&nats.KeyValueConfig{Bucket: cfg.NATS.Bucket})
	}

	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to create/get KV bucket: %w", err)
	}

	return &NATSKV{kv: kv, conn: nc}, nil
}

// natsKey NATS KV 的键不允许包含 ":" 等字符，统一替换为 ".".
func natsKey(key string) string {
	return strings.NewReplacer(":", ".", "/", ".", " ", "_").Replace(key)
}

// Get 获取键的值.
func (n *NATSKV) Get(_ context.Context, key string) ([]byte, error) {
	k := natsKey(key)

	entry, err := n.kv.Get(k)
	if errors.Is(err, nats.ErrKeyNotFound) {
		return nil, notFound(key)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get key: %w", err)
	}

	val, live, derr := unseal(entry.Value(), time.Now())
	if derr != nil {
		return nil, derr
	}

	if !live {
		_ = n.kv.Delete(k)
		return nil, notFound(key)
	}

	return val, nil
}

// Set 设置键的值.
func (n *NATSKV) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if _, err := n.kv.Put(natsKey(key), seal(value, ttl, time.Now())); err != nil {
		return fmt.Errorf("failed to set key: %w", err)
	}

	return nil
}

// Delete 删除键.
func (n *NATSKV) Delete(_ context.Context, key string) error {
	if err := n.kv.Delete(natsKey(key)); err != nil && !errors.Is(err, nats.ErrKeyNotFound) {
		return fmt.Errorf("failed to delete key: %w", err)
	}

	return nil
}

// Exists 检查键是否存在.
func (n *NATSKV) Exists(ctx context.Context, key string) (bool, error) {
	_, err := n.Get(ctx, key)
	if errors.Is(err, ErrKeyNotFound) {
		return false, nil
	}

	if err != nil {
		return false, fmt.Errorf("failed to check key existence: %w", err)
	}

	return true, nil
}

// Keys 获取匹配的键.
func (n *NATSKV) Keys(_ context.Context, pattern string) ([]string, error) {
	keys, err := n.kv.Keys()
	if errors.Is(err, nats.ErrNoKeysFound) {
		return []string{}, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get keys: %w", err)
	}

	pattern = natsKey(pattern)
	result := make([]string, 0, len(keys))

	for _, key := range keys {
		if matchPattern(key, pattern) {
			result = append(result, key)
		}
	}

	return result, nil
}

// Close 关闭 NATS 连接.
func (n *NATSKV) Close() error {
	n.conn.Close()
	return nil
}

func init() {
	RegisterKVFactory(KVTypeNATS, NewNATSKV)
}
