package mq

import (
	"context"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/yeisme/videocatalog/pkg/configs"
)

// memoryOutputBuffer 订阅者通道缓冲，避免发布方在无人消费时阻塞.
const memoryOutputBuffer = 256

func init() {
	RegisterFactory(configs.MQTypeMemory, memoryFactory)
}

// memoryFactory 进程内 gochannel，同一实例同时作为 Publisher 与 Subscriber.
func memoryFactory(
	_ context.Context,
	_ *configs.MQConfig,
	logger watermill.LoggerAdapter) (
	message.Publisher, message.Subscriber, error) {
	ch := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: memoryOutputBuffer,
	}, logger)

	return ch, ch, nil
}
