package crud

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/yeisme/videocatalog/pkg/cache"
	"github.com/yeisme/videocatalog/pkg/configs"
	"github.com/yeisme/videocatalog/pkg/queue"
)

// Option 控制器可选项.
type Option func(*options)

type options struct {
	cache    *cache.Cache
	cacheTTL time.Duration

	events   queue.Publisher
	eventCfg configs.EntityEventsConfig

	perPage    int
	maxPerPage int

	logger *zerolog.Logger
}

func defaultOptions() options {
	return options{perPage: 15, maxPerPage: 100}
}

// WithCache 为单个实体的读取启用缓存. 写操作会删除对应键.
func WithCache(c *cache.Cache, ttl time.Duration) Option {
	return func(o *options) {
		o.cache = c
		o.cacheTTL = ttl
	}
}

// WithEvents 在事务提交后发布实体变更事件.
func WithEvents(pub queue.Publisher, cfg configs.EntityEventsConfig) Option {
	return func(o *options) {
		o.events = pub
		o.eventCfg = cfg
	}
}

// WithPaging 设置默认每页条数与上限.
func WithPaging(perPage, maxPerPage int) Option {
	return func(o *options) {
		if perPage > 0 {
			o.perPage = perPage
		}

		if maxPerPage > 0 {
			o.maxPerPage = maxPerPage
		}
	}
}

// WithLogger 设置日志器，默认使用 crud 组件日志器.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) {
		o.logger = &l
	}
}
