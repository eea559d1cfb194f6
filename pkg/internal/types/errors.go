package types

// ErrorResponse 通用错误响应.
type ErrorResponse struct {
	Error string `json:"error"`
}

// NotFoundResponse 404 响应，批量操作时列出全部缺失的标识符.
type NotFoundResponse struct {
	Error   string   `json:"error"`
	Missing []string `json:"missing,omitempty"`
}

// ValidationResponse 422 响应.
type ValidationResponse struct {
	Message string                      `json:"message"`
	Errors  map[string][]FieldViolation `json:"errors"`
}

// FieldViolation 单个字段的单条违规.
type FieldViolation struct {
	Kind    string         `json:"kind"`
	Params  map[string]any `json:"params,omitempty"`
	Message string         `json:"message"`
}
