// Package log 基于 zerolog 的全局日志器. 控制台或 JSON 输出到 stderr，可选 lumberjack 轮转文件.
package log

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/natefinch/lumberjack"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/yeisme/videocatalog/pkg/configs"
)

var (
	logger   zerolog.Logger
	initOnce sync.Once
)

// Init 按全局配置初始化日志器并同步 gin 运行模式，只生效一次.
func Init() {
	initOnce.Do(func() {
		cfg := configs.GetConfig()

		logger = New(cfg.Log, cfg.Server.Debug, os.Stderr)
		log.Logger = logger

		if cfg.Server.Debug {
			gin.SetMode(gin.DebugMode)
		} else {
			gin.SetMode(gin.ReleaseMode)
		}
	})
}

// New 按配置创建日志器，console 写到 out. debug 模式附带调用位置与错误堆栈.
func New(cfg configs.LogConfig, debug bool, out io.Writer) zerolog.Logger {
	zerolog.SetGlobalLevel(parseLevel(cfg.Level))

	if cfg.Format != "json" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}
	}

	if cfg.EnableFile {
		out = zerolog.MultiLevelWriter(out, &lumberjack.Logger{
			Filename:   cfg.FilePath,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			Compress:   cfg.Compress,
		})
	}

	c := zerolog.New(out).With().Timestamp()
	if debug {
		c = c.Caller().Stack()
	}

	return c.Logger()
}

func parseLevel(s string) zerolog.Level {
	if s == "" {
		return zerolog.InfoLevel
	}

	lvl, err := zerolog.ParseLevel(strings.ToLower(s))
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid log level %q, using info\n", s)
		return zerolog.InfoLevel
	}

	return lvl
}

// Logger 返回全局日志器，未初始化时先 Init.
func Logger() *zerolog.Logger {
	Init()

	return &logger
}

// Component 返回带 component 字段的子日志器.
func Component(name string) zerolog.Logger {
	return Logger().With().Str("component", name).Logger()
}

// GinWriter 把 gin 的文本输出逐行转成指定级别的日志事件.
type GinWriter struct {
	logger *zerolog.Logger
	level  zerolog.Level
}

// NewGinWriter 用于 gin.DefaultWriter 与 gin.DefaultErrorWriter.
func NewGinWriter(logger *zerolog.Logger, level zerolog.Level) *GinWriter {
	return &GinWriter{logger: logger, level: level}
}

func (w *GinWriter) Write(p []byte) (int, error) {
	for _, line := range bytes.Split(p, []byte("\n")) {
		if line = bytes.TrimSpace(line); len(line) > 0 {
			w.logger.WithLevel(w.level).Str("component", "gin").Msg(string(line))
		}
	}

	return len(p), nil
}
