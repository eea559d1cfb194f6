package queue

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/message"
)

// Publisher 发布 watermill 消息，由 mq.Client 实现.
type Publisher interface {
	Publish(ctx context.Context, topic string, msgs ...*message.Message) error
}

// PublishEntity 发布实体变更事件，主题由资源名与动作决定.
func PublishEntity(ctx context.Context, pub Publisher, resource string, payload EntityPayload, opts ...Option) error {
	return publish(ctx, pub, Topic(resource, payload.Action), payload, opts)
}

// ParseEntity 将 Watermill 消息解析为实体事件.
func ParseEntity(msg *message.Message) (Message[EntityPayload], error) {
	return Decode[EntityPayload](msg.Payload)
}

// PublishFilesPurged 发布视频文件被清理的事件.
func PublishFilesPurged(ctx context.Context, pub Publisher, payload FilesPayload, opts ...Option) error {
	return publish(ctx, pub, Topic("video_files", ActionPurged), payload, opts)
}
