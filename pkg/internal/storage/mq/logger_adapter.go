package mq

import (
	watermill "github.com/ThreeDotsLabs/watermill"
	"github.com/rs/zerolog"

	nlog "github.com/yeisme/videocatalog/pkg/log"
)

// watermillLogger 把 watermill 日志写入 mq 组件日志器.
// watermill 的 Info 输出每次订阅与重连，降为 Debug.
type watermillLogger struct {
	l zerolog.Logger
}

func newWatermillLogger() watermill.LoggerAdapter {
	return watermillLogger{l: nlog.Component("mq")}
}

func (w watermillLogger) Error(msg string, err error, fields watermill.LogFields) {
	w.l.Error().Err(err).Fields(map[string]any(fields)).Msg(msg)
}

func (w watermillLogger) Info(msg string, fields watermill.LogFields) {
	w.l.Debug().Fields(map[string]any(fields)).Msg(msg)
}

func (w watermillLogger) Debug(msg string, fields watermill.LogFields) {
	w.l.Trace().Fields(map[string]any(fields)).Msg(msg)
}

func (w watermillLogger) Trace(msg string, fields watermill.LogFields) {
	w.l.Trace().Fields(map[string]any(fields)).Msg(msg)
}

func (w watermillLogger) With(fields watermill.LogFields) watermill.LoggerAdapter {
	return watermillLogger{l: w.l.With().Fields(map[string]any(fields)).Logger()}
}
