package configs

import (
	"time"

	"github.com/spf13/viper"
)

// MQType 消息队列类型.
type MQType string

const (
	MQTypeNATS   MQType = "nats"
	MQTypeRedis  MQType = "redis"
	MQTypeMemory MQType = "memory" // 进程内 gochannel，适合单实例与测试
)

// MQConfig 实体事件总线配置. 缓存失效事件需要广播到每个实例，
// 因此 NATS 不使用队列组，JetStream 默认关闭.
type MQConfig struct {
	Type   MQType         `mapstructure:"type"   rule:"oneof=nats redis memory"`
	Common MQCommonConfig `mapstructure:"common"`
	NATS   MQNATSConfig   `mapstructure:"nats"`
	Redis  MQRedisConfig  `mapstructure:"redis"`
}

// MQCommonConfig 连接参数.
type MQCommonConfig struct {
	URL           string        `mapstructure:"url"`
	User          string        `mapstructure:"user"`
	Password      string        `mapstructure:"password"`
	ClientID      string        `mapstructure:"client_id"`
	MaxReconnects int           `mapstructure:"max_reconnects" rule:"min=-1,max=1000"`
	ReconnectWait time.Duration `mapstructure:"reconnect_wait" rule:"min=0"`
	PingInterval  time.Duration `mapstructure:"ping_interval"  rule:"min=0"`
	BufferSize    int           `mapstructure:"buffer_size"    rule:"min=1024,max=67108864"`
	EnableMetrics bool          `mapstructure:"enable_metrics"`
}

// MQNATSConfig NATS 专有配置，ClusterURLs 非空时覆盖 Common.URL.
type MQNATSConfig struct {
	ClusterURLs []string          `mapstructure:"cluster_urls"`
	JWT         string            `mapstructure:"jwt"`
	NKey        string            `mapstructure:"nkey"`
	JetStream   MQJetStreamConfig `mapstructure:"jetstream"`
}

// MQJetStreamConfig 开启后事件持久化，实例重启期间的失效事件不会丢失.
type MQJetStreamConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	AutoProvision bool   `mapstructure:"auto_provision"`
	TrackMsgID    bool   `mapstructure:"track_msg_id"`
	AckAsync      bool   `mapstructure:"ack_async"`
	DurablePrefix string `mapstructure:"durable_prefix"` // 每个实例需不同，否则实例间分摊事件
}

// MQRedisConfig Redis Pub/Sub 配置.
type MQRedisConfig struct {
	Addr     string `mapstructure:"addr"     rule:"hostname_port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"       rule:"min=0,max=15"`
}

func (c *MQConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("mq.type", MQTypeMemory)

	v.SetDefault("mq.common.url", "nats://localhost:4222")
	v.SetDefault("mq.common.client_id", AppName)
	v.SetDefault("mq.common.max_reconnects", 5)
	v.SetDefault("mq.common.reconnect_wait", 2*time.Second)
	v.SetDefault("mq.common.ping_interval", 20*time.Second)
	v.SetDefault("mq.common.buffer_size", 8<<20)
	v.SetDefault("mq.common.enable_metrics", true)

	v.SetDefault("mq.nats.jetstream.enabled", false)
	v.SetDefault("mq.nats.jetstream.auto_provision", true)
	v.SetDefault("mq.nats.jetstream.track_msg_id", true)

	v.SetDefault("mq.redis.addr", "localhost:6379")
}
