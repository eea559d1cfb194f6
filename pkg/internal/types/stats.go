package types

// ResourceCount 单个资源的行数统计.
type ResourceCount struct {
	Resource string `json:"resource"`
	Total    int64  `json:"total"`
	Active   int64  `json:"active"`
	Trashed  int64  `json:"trashed"`
}

// StatsSummary 全部资源的统计与关联表行数.
type StatsSummary struct {
	Resources []ResourceCount  `json:"resources"`
	Links     map[string]int64 `json:"links"`
}
