// Package mq 把 watermill 的 Publisher 与 Subscriber 包装成实体事件总线，
// 后端为 memory（gochannel）、nats 或 redis，按 mq.type 选择.
//
//	client, err := mq.New(ctx)
//	err = queue.PublishEntity(ctx, client, "videos", payload)
package mq

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	watermill "github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/components/metrics"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/yeisme/videocatalog/pkg/configs"
	nlog "github.com/yeisme/videocatalog/pkg/log"
)

// Factory 定义创建 Publisher + Subscriber 的工厂函数.
type Factory func(ctx context.Context, cfg *configs.MQConfig, logger watermill.LoggerAdapter) (message.Publisher, message.Subscriber, error)

var (
	factories = map[configs.MQType]Factory{}
)

// RegisterFactory 注册指定 MQType 的工厂.
func RegisterFactory(t configs.MQType, f Factory) {
	factories[t] = f
}

// GetRegisteredMQTypes 返回已注册的 MQ 类型.
func GetRegisteredMQTypes() []configs.MQType {
	types := make([]configs.MQType, 0, len(factories))
	for t := range factories {
		types = append(types, t)
	}

	slices.Sort(types)

	return types
}

// Client 封装 watermill Publisher 与 Subscriber.
type Client struct {
	publisher  message.Publisher
	subscriber message.Subscriber
	kind       configs.MQType
}

// Type 返回底层 MQ 类型.
func (c *Client) Type() configs.MQType {
	return c.kind
}

// ErrNotInitialized 客户端为 nil 或未完成初始化.
var ErrNotInitialized = errors.New("mq: client not initialized")

// Publish 把 ctx 挂到每条消息上后一次性发布.
func (c *Client) Publish(ctx context.Context, topic string, msgs ...*message.Message) error {
	if c == nil || c.publisher == nil {
		return ErrNotInitialized
	}

	for _, m := range msgs {
		m.SetContext(ctx)
	}

	if err := c.publisher.Publish(topic, msgs...); err != nil {
		return fmt.Errorf("mq: publish %s: %w", topic, err)
	}

	return nil
}

// Subscribe 订阅 topic，ctx 结束时通道关闭.
func (c *Client) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	if c == nil || c.subscriber == nil {
		return nil, ErrNotInitialized
	}

	return c.subscriber.Subscribe(ctx, topic)
}

// Close 依次关闭发布端与订阅端.
func (c *Client) Close() error {
	var errs []error

	for _, cl := range []interface{ Close() error }{c.publisher, c.subscriber} {
		if cl != nil {
			errs = append(errs, cl.Close())
		}
	}

	return errors.Join(errs...)
}

var (
	mqOnce sync.Once
	mqInst *Client
	mqErr  error
)

// New 按全局配置初始化消息队列（单例）.
func New(ctx context.Context) (*Client, error) {
	mqOnce.Do(func() {
		cfg := configs.GetConfig()
		withMetrics := cfg.Metrics.Enabled && cfg.MQ.Common.EnableMetrics
		mqInst, mqErr = Open(ctx, &cfg.MQ, withMetrics)
	})

	return mqInst, mqErr
}

// Open 创建一个新的 MQ 客户端，withMetrics 为 true 时
// Publisher 与 Subscriber 的指标注册到默认 Prometheus registry，由 /metrics 统一暴露.
func Open(ctx context.Context, cfg *configs.MQConfig, withMetrics bool) (*Client, error) {
	factory, ok := factories[cfg.Type]
	if !ok {
		return nil, fmt.Errorf("unsupported mq type: %s", cfg.Type)
	}

	logger := newWatermillLogger()

	pub, sub, err := factory(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("init mq (%s): %w", cfg.Type, err)
	}

	if withMetrics {
		builder := metrics.NewPrometheusMetricsBuilder(prometheus.DefaultRegisterer, configs.AppName, "mq")

		if pub, err = builder.DecoratePublisher(pub); err != nil {
			return nil, fmt.Errorf("decorate publisher with metrics: %w", err)
		}

		if sub, err = builder.DecorateSubscriber(sub); err != nil {
			return nil, fmt.Errorf("decorate subscriber with metrics: %w", err)
		}
	}

	nlog.Logger().Info().Str("type", string(cfg.Type)).Bool("metrics", withMetrics).Msg("mq client initialized")

	return &Client{publisher: pub, subscriber: sub, kind: cfg.Type}, nil
}
