// Package filter 管理列表视图的筛选状态：搜索、分页、排序与额外筛选条件.
//
// 状态通过 Reduce 迁移，通过 Encode/Decode 与 URL 查询串互相转换；
// Manager 在此之上提供搜索防抖与历史记录，Loader 保证只有最新一次请求的结果生效.
// 服务端的列表接口使用同一套编解码解析查询参数.
package filter

import (
	"maps"
	"slices"
	"strings"
	"time"
)

// 排序方向.
const (
	DirAsc  = "asc"
	DirDesc = "desc"
)

// Pagination 分页状态，Page 从 1 开始.
type Pagination struct {
	Page    int
	PerPage int
}

// Order 排序状态，Sort 为空表示默认排序.
type Order struct {
	Sort string
	Dir  string
}

// State 列表视图的筛选状态. ExtraFilter 为空时为 nil.
type State struct {
	Search      string
	Pagination  Pagination
	Order       Order
	ExtraFilter map[string]string
}

// Equal 判断两个状态是否相同.
func (s State) Equal(o State) bool {
	return s.Search == o.Search &&
		s.Pagination == o.Pagination &&
		s.Order == o.Order &&
		maps.Equal(s.ExtraFilter, o.ExtraFilter)
}

// ExtraFilter 描述资源特有的筛选字段.
type ExtraFilter struct {
	Keys []string
	// Normalize 返回规范化后的值，ok 为 false 时丢弃该值. 为 nil 时只去除空白.
	Normalize func(key, value string) (string, bool)
}

// Config 筛选配置.
type Config struct {
	RowsPerPage        int
	RowsPerPageOptions []int
	// MaxPerPage 在 RowsPerPageOptions 为空时限制 per_page 的上限.
	MaxPerPage int
	Debounce   time.Duration
	Sortable   []string
	Extra      ExtraFilter
}

// DefaultConfig 返回每页 15 条、可选 15/25/50、300ms 防抖的配置.
func DefaultConfig() Config {
	return Config{
		RowsPerPage:        15,
		RowsPerPageOptions: []int{15, 25, 50},
		Debounce:           300 * time.Millisecond,
	}
}

// Initial 返回初始状态.
func (c Config) Initial() State {
	return State{Pagination: Pagination{Page: 1, PerPage: c.RowsPerPage}}
}

// Normalize 丢弃非法取值，使状态满足编解码往返的前提.
func (c Config) Normalize(s State) State {
	out := State{
		Search:     CleanSearchText(s.Search),
		Pagination: s.Pagination,
		Order:      c.normalizeOrder(s.Order),
	}

	if out.Pagination.Page < 1 {
		out.Pagination.Page = 1
	}

	if !c.validPerPage(out.Pagination.PerPage) {
		out.Pagination.PerPage = c.RowsPerPage
	}

	out.ExtraFilter = c.normalizeExtra(s.ExtraFilter)

	return out
}

func (c Config) validPerPage(n int) bool {
	if n < 1 {
		return false
	}

	if len(c.RowsPerPageOptions) > 0 {
		return slices.Contains(c.RowsPerPageOptions, n)
	}

	return c.MaxPerPage <= 0 || n <= c.MaxPerPage
}

func (c Config) normalizeOrder(o Order) Order {
	o.Sort = strings.TrimSpace(o.Sort)
	if o.Sort == "" || (len(c.Sortable) > 0 && !slices.Contains(c.Sortable, o.Sort)) {
		return Order{}
	}

	o.Dir = strings.ToLower(strings.TrimSpace(o.Dir))
	if o.Dir != DirAsc && o.Dir != DirDesc {
		o.Dir = DirAsc
	}

	return o
}

func (c Config) normalizeExtra(in map[string]string) map[string]string {
	var out map[string]string

	for k, v := range in {
		if !slices.Contains(c.Extra.Keys, k) {
			continue
		}

		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}

		if c.Extra.Normalize != nil {
			var ok bool
			if v, ok = c.Extra.Normalize(k, v); !ok || v == "" {
				continue
			}
		}

		if out == nil {
			out = make(map[string]string)
		}

		out[k] = v
	}

	return out
}

// CleanSearchText 去除首尾空白并把连续空白合并为一个空格.
func CleanSearchText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
