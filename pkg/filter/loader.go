package filter

import (
	"context"
	"errors"
	"sync"
)

// ErrCancelledRequest 请求被更新的请求取代或加载器已关闭，不属于失败.
var ErrCancelledRequest = errors.New("filter: request cancelled")

// Fetcher 按筛选状态取数据.
type Fetcher[T any] func(ctx context.Context, s State) (T, error)

// Loader 保证只有最新一次 Load 的结果生效：每次 Load 取消上一次仍在进行的请求.
type Loader[T any] struct {
	mu     sync.Mutex
	fetch  Fetcher[T]
	cancel context.CancelFunc
	seq    uint64
	closed bool

	// OnError 接收除取消以外的错误，筛选状态不受影响.
	OnError func(error)
}

// NewLoader 创建加载器.
func NewLoader[T any](fetch Fetcher[T], onError func(error)) *Loader[T] {
	return &Loader[T]{fetch: fetch, OnError: onError}
}

// Load 取数据. 被后续 Load 取代或加载器关闭时返回 ErrCancelledRequest.
func (l *Loader[T]) Load(ctx context.Context, s State) (T, error) {
	var zero T

	l.mu.Lock()

	if l.closed {
		l.mu.Unlock()
		return zero, ErrCancelledRequest
	}

	if l.cancel != nil {
		l.cancel()
	}

	reqCtx, cancel := context.WithCancel(ctx)
	l.seq++
	seq := l.seq
	l.cancel = cancel
	l.mu.Unlock()

	v, err := l.fetch(reqCtx, s)

	l.mu.Lock()
	stale := seq != l.seq || l.closed

	if seq == l.seq {
		l.cancel = nil
	}
	l.mu.Unlock()

	superseded := reqCtx.Err() != nil && ctx.Err() == nil

	cancel()

	if stale || superseded || (err != nil && errors.Is(err, context.Canceled)) {
		return zero, ErrCancelledRequest
	}

	if err != nil {
		if l.OnError != nil {
			l.OnError(err)
		}

		return zero, err
	}

	return v, nil
}

// Close 取消进行中的请求，之后的 Load 直接返回 ErrCancelledRequest.
func (l *Loader[T]) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.closed = true

	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
}
