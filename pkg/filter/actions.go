package filter

import "maps"

// Action 状态迁移.
type Action interface {
	apply(c Config, s State) State
}

// ChangeSearch 修改搜索词，回到第一页.
type ChangeSearch struct{ Search string }

// ChangePage 跳转页码.
type ChangePage struct{ Page int }

// ChangeRowsPerPage 修改每页条数，回到第一页.
type ChangeRowsPerPage struct{ PerPage int }

// ChangeColumnSort 修改排序列与方向.
type ChangeColumnSort struct {
	Sort string
	Dir  string
}

// ChangeExtraFilter 合并额外筛选条件，值为空的键被移除，回到第一页.
type ChangeExtraFilter struct{ Values map[string]string }

// ResetFilter 恢复初始状态.
type ResetFilter struct{}

func (a ChangeSearch) apply(_ Config, s State) State {
	s.Search = a.Search
	s.Pagination.Page = 1

	return s
}

func (a ChangePage) apply(_ Config, s State) State {
	s.Pagination.Page = a.Page
	return s
}

func (a ChangeRowsPerPage) apply(_ Config, s State) State {
	s.Pagination.PerPage = a.PerPage
	s.Pagination.Page = 1

	return s
}

func (a ChangeColumnSort) apply(_ Config, s State) State {
	s.Order = Order{Sort: a.Sort, Dir: a.Dir}
	return s
}

func (a ChangeExtraFilter) apply(_ Config, s State) State {
	merged := maps.Clone(s.ExtraFilter)
	if merged == nil {
		merged = make(map[string]string, len(a.Values))
	}

	for k, v := range a.Values {
		if v == "" {
			delete(merged, k)
		} else {
			merged[k] = v
		}
	}

	s.ExtraFilter = merged
	s.Pagination.Page = 1

	return s
}

func (ResetFilter) apply(c Config, _ State) State {
	return c.Initial()
}

// Reduce 应用一次迁移并规范化结果，不修改输入状态.
func (c Config) Reduce(s State, a Action) State {
	s.ExtraFilter = maps.Clone(s.ExtraFilter)

	return c.Normalize(a.apply(c, s))
}
