package mq

import (
	"context"
	"strings"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	nc "github.com/nats-io/nats.go"

	"github.com/yeisme/videocatalog/pkg/configs"
)

const (
	drainTimeout   = 30 * time.Second
	flusherTimeout = 10 * time.Second
)

func init() {
	RegisterFactory(configs.MQTypeNATS, natsFactory)
}

func natsOptions(cfg *configs.MQConfig) []nc.Option {
	c := cfg.Common
	opts := []nc.Option{
		nc.Name(c.ClientID),
		nc.MaxReconnects(c.MaxReconnects),
		nc.ReconnectWait(c.ReconnectWait),
		nc.PingInterval(c.PingInterval),
		nc.ReconnectBufSize(c.BufferSize),
		nc.DrainTimeout(drainTimeout),
		nc.FlusherTimeout(flusherTimeout),
		nc.RetryOnFailedConnect(true),
	}

	switch {
	case cfg.NATS.JWT != "":
		opts = append(opts, nc.UserJWTAndSeed(cfg.NATS.JWT, cfg.NATS.NKey))
	case cfg.NATS.NKey != "":
		opts = append(opts, nc.Nkey(cfg.NATS.NKey, nil))
	case c.User != "":
		opts = append(opts, nc.UserInfo(c.User, c.Password))
	}

	return opts
}

func jetStreamConfig(js configs.MQJetStreamConfig) nats.JetStreamConfig {
	if !js.Enabled {
		return nats.JetStreamConfig{Disabled: true}
	}

	return nats.JetStreamConfig{
		AutoProvision: js.AutoProvision,
		TrackMsgId:    js.TrackMsgID,
		AckAsync:      js.AckAsync,
		DurablePrefix: js.DurablePrefix,
	}
}

func natsURL(cfg *configs.MQConfig) string {
	if len(cfg.NATS.ClusterURLs) > 0 {
		return strings.Join(cfg.NATS.ClusterURLs, ",")
	}

	return cfg.Common.URL
}

// natsFactory 创建 NATS Publisher 与 Subscriber，两者各持有一条连接.
func natsFactory(
	_ context.Context,
	cfg *configs.MQConfig,
	logger watermill.LoggerAdapter) (
	message.Publisher, message.Subscriber, error) {
	opts := natsOptions(cfg)
	js := jetStreamConfig(cfg.NATS.JetStream)
	marshaler := &nats.JSONMarshaler{}
	url := natsURL(cfg)

	pub, err := nats.NewPublisher(nats.PublisherConfig{
		URL:         url,
		NatsOptions: opts,
		JetStream:   js,
		Marshaler:   marshaler,
	}, logger)
	if err != nil {
		return nil, nil, err
	}

	sub, err := nats.NewSubscriber(nats.SubscriberConfig{
		URL:         url,
		NatsOptions: opts,
		JetStream:   js,
		Unmarshaler: marshaler,
	}, logger)
	if err != nil {
		_ = pub.Close()

		return nil, nil, err
	}

	logger.Info("nats connected", watermill.LogFields{"url": url, "jetstream": cfg.NATS.JetStream.Enabled})

	return pub, sub, nil
}
