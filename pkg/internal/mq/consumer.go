// Package mq 消费实体变更事件.
//
// 每个实例的读缓存可能不共享（memory、groupcache），其他实例提交的更新与删除
// 通过消息队列广播，本实例收到后删除对应缓存键.
//
// 使用示例：
//
//	inv := mq.NewCacheInvalidator(appCache)
//	err := mq.ConsumeAll(ctx, mqClient, mq.InvalidationTopics(), inv.Handle)
package mq

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/yeisme/videocatalog/pkg/cache"
	"github.com/yeisme/videocatalog/pkg/internal/crud"
	nlog "github.com/yeisme/videocatalog/pkg/log"
	"github.com/yeisme/videocatalog/pkg/queue"
)

// Subscriber 由 storage/mq.Client 实现.
type Subscriber interface {
	Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error)
}

// Handler 处理单条消息，返回错误时消息被 Nack.
type Handler func(ctx context.Context, msg *message.Message) error

// Resources 会发布实体事件的资源.
var Resources = []string{"categories", "genres", "cast_members", "videos"}

// InvalidationTopics 需要触发缓存失效的主题：更新与删除.
func InvalidationTopics() []string {
	topics := make([]string, 0, len(Resources)*2)
	for _, r := range Resources {
		topics = append(topics, queue.Topic(r, queue.ActionUpdated), queue.Topic(r, queue.ActionDeleted))
	}

	return topics
}

// Consume 订阅 topic 并逐条处理，直到 ctx 结束或通道关闭.
func Consume(ctx context.Context, sub Subscriber, topic string, h Handler) error {
	msgs, err := sub.Subscribe(ctx, topic)
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", topic, err)
	}

	l := nlog.Component("mq").With().Str("topic", topic).Logger()
	l.Debug().Msg("consumer started")

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return nil
			}

			if err := h(msg.Context(), msg); err != nil {
				l.Warn().Err(err).Str("uuid", msg.UUID).Msg("message handling failed")
				msg.Nack()

				continue
			}

			msg.Ack()
		}
	}
}

// ConsumeAll 并发消费多个主题，任一订阅失败时全部退出.
func ConsumeAll(ctx context.Context, sub Subscriber, topics []string, h Handler) error {
	g, ctx := errgroup.WithContext(ctx)

	for _, topic := range topics {
		g.Go(func() error { return Consume(ctx, sub, topic, h) })
	}

	return g.Wait()
}

// CacheInvalidator 根据实体事件删除读缓存.
type CacheInvalidator struct {
	cache *cache.Cache
	log   zerolog.Logger
}

// NewCacheInvalidator 创建缓存失效处理器.
func NewCacheInvalidator(c *cache.Cache) *CacheInvalidator {
	return &CacheInvalidator{cache: c, log: nlog.Component("mq")}
}

// Handle 解析实体事件并删除每个标识符对应的缓存键.
func (i *CacheInvalidator) Handle(ctx context.Context, msg *message.Message) error {
	ev, err := queue.ParseEntity(msg)
	if err != nil {
		// 无法解析的消息重投也无法处理
		i.log.Warn().Err(err).Str("uuid", msg.UUID).Msg("drop malformed entity event")
		return nil
	}

	p := ev.Payload

	keys := make([]string, len(p.IDs))
	for n, id := range p.IDs {
		keys[n] = crud.CacheKey(i.cache, p.Resource, id)
	}

	if err := i.cache.DeleteMany(ctx, keys...); err != nil {
		return fmt.Errorf("invalidate %s: %w", p.Resource, err)
	}

	i.log.Debug().Str("resource", p.Resource).Str("action", p.Action).Int("ids", len(p.IDs)).Msg("cache invalidated")

	return nil
}
