// Package client 访问目录服务的列表接口，供命令行浏览器与筛选管理器使用.
//
// 使用示例：
//
//	c := client.New("http://localhost:8080")
//	cfg, _ := c.FilterConfig("videos")
//	resp, err := c.List(ctx, "videos", cfg.Initial())
package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"

	"github.com/yeisme/videocatalog/pkg/filter"
	"github.com/yeisme/videocatalog/pkg/internal/service"
	"github.com/yeisme/videocatalog/pkg/internal/types"
)

const (
	apiPrefix      = "/api/v1"
	defaultTimeout = 10 * time.Second
	maxErrorBody   = 4 << 10
)

// TransportError 请求失败或服务端返回非 2xx 状态码. Status 为 0 表示请求未到达服务端.
type TransportError struct {
	Status int
	Body   string
	Err    error
}

func (e *TransportError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("transport: %v", e.Err)
	}

	if e.Err != nil {
		return fmt.Sprintf("transport: status %d: %v", e.Status, e.Err)
	}

	return fmt.Sprintf("transport: status %d: %s", e.Status, e.Body)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Client 目录服务 HTTP 客户端.
type Client struct {
	baseURL string
	http    *http.Client
	configs map[string]filter.Config
}

// Option 客户端选项.
type Option func(*Client)

// WithHTTPClient 替换底层 http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithFilterBase 修改各资源筛选配置共用的分页与防抖参数.
func WithFilterBase(base filter.Config) Option {
	return func(c *Client) { c.configs = service.FilterConfigs(base) }
}

// New 创建客户端，baseURL 不含 /api/v1 前缀.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
		configs: service.FilterConfigs(filter.DefaultConfig()),
	}

	for _, o := range opts {
		o(c)
	}

	return c
}

// FilterConfig 返回资源的筛选配置.
func (c *Client) FilterConfig(resource string) (filter.Config, bool) {
	cfg, ok := c.configs[resource]
	return cfg, ok
}

// List 按筛选状态请求资源列表.
func (c *Client) List(ctx context.Context, resource string, s filter.State) (types.ListResponse, error) {
	var out types.ListResponse

	cfg, ok := c.configs[resource]
	if !ok {
		return out, fmt.Errorf("unknown resource %q", resource)
	}

	u := c.baseURL + apiPrefix + "/" + resource
	if q := cfg.Encode(s); q != "" {
		u += "?" + q
	}

	err := c.get(ctx, u, &out)

	return out, err
}

// Fetcher 把 List 适配为筛选加载器的取数函数.
func (c *Client) Fetcher(resource string) filter.Fetcher[types.ListResponse] {
	return func(ctx context.Context, s filter.State) (types.ListResponse, error) {
		return c.List(ctx, resource, s)
	}
}

func (c *Client) get(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		// 取消原样返回，由加载器识别
		if ctx.Err() != nil {
			return ctx.Err()
		}

		return &TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &TransportError{Status: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	if err := sonic.ConfigDefault.NewDecoder(resp.Body).Decode(out); err != nil {
		return &TransportError{Status: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}

	return nil
}
