package filter

import (
	"net/url"
	"slices"
	"strconv"
)

// 查询参数名.
const (
	ParamSearch  = "search"
	ParamPage    = "page"
	ParamPerPage = "per_page"
	ParamSort    = "sort"
	ParamDir     = "dir"
)

// Encode 把状态编码为查询串，默认值不输出，参数按名称排序.
func (c Config) Encode(s State) string {
	return c.Values(s).Encode()
}

// Values 与 Encode 相同但返回 url.Values，便于追加其他参数.
func (c Config) Values(s State) url.Values {
	s = c.Normalize(s)
	q := url.Values{}

	if s.Search != "" {
		q.Set(ParamSearch, s.Search)
	}

	if s.Pagination.Page != 1 {
		q.Set(ParamPage, strconv.Itoa(s.Pagination.Page))
	}

	if s.Pagination.PerPage != c.RowsPerPage {
		q.Set(ParamPerPage, strconv.Itoa(s.Pagination.PerPage))
	}

	if s.Order.Sort != "" {
		q.Set(ParamSort, s.Order.Sort)
		q.Set(ParamDir, s.Order.Dir)
	}

	for k, v := range s.ExtraFilter {
		q.Set(k, v)
	}

	return q
}

// Decode 解析查询串并规范化，非法参数回退为默认值.
func (c Config) Decode(query string) State {
	q, err := url.ParseQuery(query)
	if err != nil {
		return c.Initial()
	}

	return c.FromValues(q)
}

// FromValues 从已解析的查询参数构造状态.
func (c Config) FromValues(q url.Values) State {
	s := c.Initial()
	s.Search = q.Get(ParamSearch)

	if n, err := strconv.Atoi(q.Get(ParamPage)); err == nil {
		s.Pagination.Page = n
	}

	if n, err := strconv.Atoi(q.Get(ParamPerPage)); err == nil {
		s.Pagination.PerPage = n
	}

	s.Order = Order{Sort: q.Get(ParamSort), Dir: q.Get(ParamDir)}

	for k, vs := range q {
		if !slices.Contains(c.Extra.Keys, k) || len(vs) == 0 {
			continue
		}

		if s.ExtraFilter == nil {
			s.ExtraFilter = make(map[string]string)
		}

		s.ExtraFilter[k] = vs[0]
	}

	return c.Normalize(s)
}
