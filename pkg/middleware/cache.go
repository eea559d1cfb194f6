package middleware

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/gin-gonic/gin"

	appcache "github.com/yeisme/videocatalog/pkg/cache"
)

const (
	// DefaultMaxBodyBytes 超过该大小的响应不缓存.
	DefaultMaxBodyBytes = 1 << 20
	// BypassHeader 请求带该头时跳过缓存.
	BypassHeader = "X-Cache-Bypass"
)

// responseEntry 缓存的响应.
type responseEntry struct {
	Status      int    `json:"s"`
	ContentType string `json:"c,omitempty"`
	Body        []byte `json:"b,omitempty"`
	ETag        string `json:"e"`
	StoredAt    int64  `json:"t"`
}

// ResponseCache 缓存 GET/HEAD 的 200 响应，用于统计这类只读聚合接口.
// 键由路由模板与规范化后的查询串决定；命中时带 X-Cache: HIT 与 Age，If-None-Match 匹配时返回 304.
func ResponseCache(c *appcache.Cache, ttl time.Duration) gin.HandlerFunc {
	if c == nil || ttl <= 0 {
		return func(ctx *gin.Context) { ctx.Next() }
	}

	return func(ctx *gin.Context) {
		method := ctx.Request.Method
		if (method != http.MethodGet && method != http.MethodHead) || ctx.GetHeader(BypassHeader) != "" {
			ctx.Next()
			return
		}

		key := responseKey(c, ctx)

		if entry, err := appcache.Get[responseEntry](ctx.Request.Context(), c, key); err == nil {
			serveEntry(ctx, entry)
			return
		}

		w := &bodyCaptureWriter{ResponseWriter: ctx.Writer, max: DefaultMaxBodyBytes}
		ctx.Writer = w
		ctx.Next()

		if w.Status() != http.StatusOK || w.truncated {
			return
		}

		body := w.buf.Bytes()
		entry := responseEntry{
			Status:      http.StatusOK,
			ContentType: w.Header().Get("Content-Type"),
			Body:        body,
			ETag:        fmt.Sprintf("%q", strconv.FormatUint(xxhash.Sum64(body), 16)),
			StoredAt:    time.Now().UnixNano(),
		}

		_ = appcache.Set(context.WithoutCancel(ctx.Request.Context()), c, key, entry, ttl)
	}
}

func responseKey(c *appcache.Cache, ctx *gin.Context) string {
	route := ctx.FullPath()
	if route == "" {
		route = ctx.Request.URL.Path
	}

	// Encode 按参数名排序
	return c.Key("http", ctx.Request.Method, route, ctx.Request.URL.Query().Encode())
}

func serveEntry(ctx *gin.Context, entry responseEntry) {
	h := ctx.Writer.Header()
	h.Set("ETag", entry.ETag)
	h.Set("X-Cache", "HIT")
	h.Set("Age", strconv.FormatInt(int64(time.Since(time.Unix(0, entry.StoredAt)).Seconds()), 10))

	if ctx.GetHeader("If-None-Match") == entry.ETag {
		ctx.AbortWithStatus(http.StatusNotModified)
		return
	}

	if entry.ContentType != "" {
		h.Set("Content-Type", entry.ContentType)
	}

	ctx.Status(entry.Status)

	if ctx.Request.Method != http.MethodHead {
		_, _ = ctx.Writer.Write(entry.Body)
	}

	ctx.Abort()
}

// bodyCaptureWriter 在写出响应的同时保留一份副本，超过 max 时放弃缓存.
type bodyCaptureWriter struct {
	gin.ResponseWriter

	buf       bytes.Buffer
	max       int
	truncated bool
}

func (w *bodyCaptureWriter) WriteHeader(code int) {
	if code == http.StatusOK {
		w.Header().Set("X-Cache", "MISS")
	}

	w.ResponseWriter.WriteHeader(code)
}

func (w *bodyCaptureWriter) Write(b []byte) (int, error) {
	if !w.truncated {
		if w.buf.Len()+len(b) > w.max {
			w.truncated = true
			w.buf.Reset()
		} else {
			w.buf.Write(b)
		}
	}

	return w.ResponseWriter.Write(b)
}

func (w *bodyCaptureWriter) WriteString(s string) (int, error) {
	return w.Write([]byte(s))
}
