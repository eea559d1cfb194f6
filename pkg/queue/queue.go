// Package queue 把实体变更封装成事件信封，经 internal/storage/mq 发布.
//
// 信封结构：
//
//	{
//	  "header": {"topic": "videocatalog.videos.created", "trace_id": "...", "producer": "videocatalog",
//	             "occurred_at": "2025-01-02T03:04:05.123456Z", "version": "v1"},
//	  "payload": {"resource": "videos", "action": "created", "ids": ["..."], "data": {...}}
//	}
//
// header 同时写入 watermill 元数据，消费者不解码负载即可路由. 解码忽略未知字段.
package queue

import (
	"context"
	"time"

	watermill "github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/bytedance/sonic"
)

const PayloadVersionV1 = "v1"

// Option 修改事件头.
type Option func(*EventHeader)

// WithTraceID 关联发布时所在的 trace.
func WithTraceID(id string) Option { return func(h *EventHeader) { h.TraceID = id } }

// WithProducer 标记发布者.
func WithProducer(p string) Option { return func(h *EventHeader) { h.Producer = p } }

// Encode 序列化信封.
func Encode[T any](msg Message[T]) ([]byte, error) { return sonic.Marshal(msg) }

// Decode 反序列化信封.
func Decode[T any](b []byte) (Message[T], error) {
	var m Message[T]
	err := sonic.Unmarshal(b, &m)

	return m, err
}

func (h EventHeader) metadata() message.Metadata {
	md := message.Metadata{
		"topic":       h.Topic,
		"occurred_at": h.OccurredAt.Format(time.RFC3339Nano),
		"version":     h.Version,
	}

	for k, v := range map[string]string{"trace_id": h.TraceID, "producer": h.Producer} {
		if v != "" {
			md[k] = v
		}
	}

	return md
}

// publish 封装负载并发布到 topic.
func publish[T any](ctx context.Context, pub Publisher, topic string, payload T, opts []Option) error {
	h := EventHeader{Topic: topic, OccurredAt: time.Now().UTC(), Version: PayloadVersionV1}
	for _, o := range opts {
		o(&h)
	}

	data, err := Encode(Message[T]{Header: h, Payload: payload})
	if err != nil {
		return err
	}

	msg := message.NewMessage(watermill.NewUUID(), data)
	msg.Metadata = h.metadata()

	return pub.Publish(ctx, topic, msg)
}
