package configs

import (
	"time"

	"github.com/spf13/viper"
)

// CacheConfig 单条实体读缓存. 关闭时不创建 KV 客户端.
type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	TTL     time.Duration `mapstructure:"ttl"     rule:"min=0"`
	Prefix  string        `mapstructure:"prefix"`
}

// KVConfig 读缓存的存储后端. memory 与 groupcache 只在本进程内，
// 多实例部署时依赖实体事件做跨实例失效.
type KVConfig struct {
	Type       string             `mapstructure:"type"       rule:"oneof=memory redis nats groupcache"`
	Redis      RedisKVConfig      `mapstructure:"redis"`
	NATS       NATSKVConfig       `mapstructure:"nats"`
	Groupcache GroupcacheKVConfig `mapstructure:"groupcache"`
}

type RedisKVConfig struct {
	Addr     string `mapstructure:"addr"     rule:"hostname_port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"       rule:"min=0,max=15"`
}

// NATSKVConfig JetStream KV，bucket 不存在时自动创建.
type NATSKVConfig struct {
	URL      string `mapstructure:"url"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Bucket   string `mapstructure:"bucket"   rule:"required"`
}

// GroupcacheKVConfig Peers 非空时本实例在 Self 地址的 /_groupcache/ 下提供条目.
type GroupcacheKVConfig struct {
	Name       string   `mapstructure:"name"        rule:"required"`
	CacheBytes int64    `mapstructure:"cache_bytes" rule:"min=1048576"`
	Peers      []string `mapstructure:"peers"       rule:"dive,url"`
	Self       string   `mapstructure:"self"        rule:"required_with=Peers,omitempty,url"`
}

func (c *CacheConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.ttl", 30*time.Second)
	v.SetDefault("cache.prefix", "vc")
}

func (c *KVConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("kv.type", "memory")
	v.SetDefault("kv.redis.addr", "localhost:6379")
	v.SetDefault("kv.nats.url", "nats://localhost:4222")
	v.SetDefault("kv.nats.bucket", AppName+"-cache")
	v.SetDefault("kv.groupcache.name", AppName+"-cache")
	v.SetDefault("kv.groupcache.cache_bytes", 64<<20)
}
