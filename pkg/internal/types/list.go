// Package types 定义 HTTP 接口的请求与响应结构.
package types

// ListResponse 列表响应信封.
type ListResponse struct {
	Data  any      `json:"data"`
	Links Links    `json:"links"`
	Meta  ListMeta `json:"meta"`
}

// Links 分页链接，不存在的页为 null.
type Links struct {
	First string  `json:"first"`
	Last  string  `json:"last"`
	Prev  *string `json:"prev"`
	Next  *string `json:"next"`
}

// ListMeta 分页元数据. 结果为空时 From/To 为 null.
type ListMeta struct {
	CurrentPage int    `json:"current_page"`
	From        *int   `json:"from"`
	LastPage    int    `json:"last_page"`
	Path        string `json:"path"`
	PerPage     int    `json:"per_page"`
	To          *int   `json:"to"`
	Total       int64  `json:"total"`
}

// DataResponse 单个实体的响应信封.
type DataResponse struct {
	Data any `json:"data"`
}

// BulkDeleteRequest 批量删除请求体.
type BulkDeleteRequest struct {
	IDs []string `json:"ids"`
}
