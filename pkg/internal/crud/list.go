package crud

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/yeisme/videocatalog/pkg/filter"
	"github.com/yeisme/videocatalog/pkg/internal/types"
)

// ListParams 列表请求参数.
type ListParams struct {
	State filter.State
	// All 不分页返回全部匹配行.
	All bool
	// WithTrashed 同时返回已软删除的行，OnlyTrashed 只返回已软删除的行.
	WithTrashed bool
	OnlyTrashed bool

	// Path 与 Query 用于生成分页链接，链接保留除 page 以外的原始参数.
	Path  string
	Query url.Values
}

// ParseListParams 从查询参数解析列表请求.
func ParseListParams(cfg filter.Config, path string, q url.Values) ListParams {
	return ListParams{
		State:       cfg.FromValues(q),
		All:         truthy(q.Get("all")),
		WithTrashed: truthy(q.Get("with_trashed")),
		OnlyTrashed: truthy(q.Get("only_trashed")),
		Path:        path,
		Query:       q,
	}
}

func truthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "on", "yes":
		return true
	}

	return false
}

func envelope(p ListParams, data any, total int64, page, perPage int) types.ListResponse {
	lastPage := 1
	if perPage > 0 && total > 0 {
		lastPage = int((total + int64(perPage) - 1) / int64(perPage))
	}

	meta := types.ListMeta{
		CurrentPage: page,
		LastPage:    lastPage,
		Path:        p.Path,
		PerPage:     perPage,
		Total:       total,
	}

	offset := int64((page - 1) * perPage)
	if offset < total {
		from := int(offset) + 1
		to := int(min(offset+int64(perPage), total))
		meta.From = &from
		meta.To = &to
	}

	links := types.Links{
		First: pageURL(p, 1),
		Last:  pageURL(p, lastPage),
	}

	if page > 1 {
		prev := pageURL(p, min(page-1, lastPage))
		links.Prev = &prev
	}

	if page < lastPage {
		next := pageURL(p, page+1)
		links.Next = &next
	}

	return types.ListResponse{Data: data, Links: links, Meta: meta}
}

func pageURL(p ListParams, page int) string {
	q := url.Values{}
	for k, v := range p.Query {
		q[k] = v
	}

	q.Set(filter.ParamPage, strconv.Itoa(page))

	return p.Path + "?" + q.Encode()
}
