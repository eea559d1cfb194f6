package mq

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"

	"github.com/yeisme/videocatalog/pkg/configs"
)

// subscriberBuffer 每个订阅的输出通道容量.
const subscriberBuffer = 100

// redisFrame Redis Pub/Sub 上传输的消息，保留 watermill 的 UUID 与元数据.
type redisFrame struct {
	UUID     string            `json:"uuid"`
	Metadata map[string]string `json:"metadata,omitempty"`
	Payload  []byte            `json:"payload"`
}

// RedisPublisher 通过 PUBLISH 发送事件.
type RedisPublisher struct {
	rdb *redis.Client
}

// RedisSubscriber 每个 topic 持有一个 PubSub 连接. Redis Pub/Sub 不持久化，
// 订阅建立前发布的事件不会收到.
type RedisSubscriber struct {
	rdb    *redis.Client
	logger watermill.LoggerAdapter

	mu     sync.Mutex
	subs   []*redis.PubSub
	closed chan struct{}
	wg     sync.WaitGroup
}

func init() {
	RegisterFactory(configs.MQTypeRedis, redisFactory)
}

// redisFactory 发布与订阅各用一个连接池，订阅的阻塞读不影响发布.
func redisFactory(
	ctx context.Context,
	cfg *configs.MQConfig,
	logger watermill.LoggerAdapter) (
	message.Publisher, message.Subscriber, error) {
	opts := &redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}

	pub := redis.NewClient(opts)
	if err := pub.Ping(ctx).Err(); err != nil {
		return nil, nil, errors.Join(fmt.Errorf("redis mq: ping %s: %w", cfg.Redis.Addr, err), pub.Close())
	}

	return &RedisPublisher{rdb: pub},
		&RedisSubscriber{rdb: redis.NewClient(opts), logger: logger, closed: make(chan struct{})},
		nil
}

func (p *RedisPublisher) Publish(topic string, msgs ...*message.Message) error {
	for _, msg := range msgs {
		b, err := sonic.Marshal(redisFrame{UUID: msg.UUID, Metadata: msg.Metadata, Payload: msg.Payload})
		if err != nil {
			return fmt.Errorf("redis mq: encode %s: %w", msg.UUID, err)
		}

		if err := p.rdb.Publish(msg.Context(), topic, b).Err(); err != nil {
			return fmt.Errorf("redis mq: publish %s: %w", topic, err)
		}
	}

	return nil
}

func (p *RedisPublisher) Close() error {
	return p.rdb.Close()
}

func (s *RedisSubscriber) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	select {
	case <-s.closed:
		return nil, errors.New("redis mq: subscriber closed")
	default:
	}

	ps := s.rdb.Subscribe(ctx, topic)
	if _, err := ps.Receive(ctx); err != nil {
		return nil, errors.Join(fmt.Errorf("redis mq: subscribe %s: %w", topic, err), ps.Close())
	}

	s.subs = append(s.subs, ps)
	out := make(chan *message.Message, subscriberBuffer)

	s.wg.Add(1)

	go func() {
		defer s.wg.Done()
		defer close(out)

		s.forward(ctx, topic, ps, out)
	}()

	return out, nil
}

func (s *RedisSubscriber) forward(ctx context.Context, topic string, ps *redis.PubSub, out chan<- *message.Message) {
	for {
		raw, err := ps.ReceiveMessage(ctx)
		if err != nil {
			select {
			case <-s.closed:
			case <-ctx.Done():
			default:
				s.logger.Error("redis receive failed", err, watermill.LogFields{"topic": topic})
			}

			return
		}

		msg, err := decodeFrame(raw.Payload)
		if err != nil {
			s.logger.Error("drop undecodable frame", err, watermill.LogFields{"topic": topic})
			continue
		}

		select {
		case out <- msg:
		case <-s.closed:
			return
		case <-ctx.Done():
			return
		}
	}
}

func decodeFrame(raw string) (*message.Message, error) {
	var f redisFrame
	if err := sonic.UnmarshalString(raw, &f); err != nil {
		return nil, err
	}

	if f.UUID == "" {
		f.UUID = watermill.NewUUID()
	}

	msg := message.NewMessage(f.UUID, f.Payload)
	for k, v := range f.Metadata {
		msg.Metadata.Set(k, v)
	}

	return msg, nil
}

func (s *RedisSubscriber) Close() error {
	s.mu.Lock()

	select {
	case <-s.closed:
		s.mu.Unlock()
		return nil
	default:
	}

	close(s.closed)

	var errs []error
	for _, ps := range s.subs {
		errs = append(errs, ps.Close())
	}

	s.mu.Unlock()
	s.wg.Wait()

	return errors.Join(append(errs, s.rdb.Close())...)
}
