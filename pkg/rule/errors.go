package rule

import (
	"fmt"
	"sort"
	"strings"
)

// Violation 单个字段违反的约束，Kind 为机器可读的类型，Params 用于渲染提示.
type Violation struct {
	Kind    string         `json:"kind"`
	Params  map[string]any `json:"params,omitempty"`
	Message string         `json:"message"`
}

// Error 实现 error，规则通过返回 *Violation 表示约束未满足.
func (v *Violation) Error() string {
	return v.Message
}

// Violate 构造一个违规.
func Violate(kind string, params map[string]any) *Violation {
	return &Violation{Kind: kind, Params: params}
}

// ValidationError 载荷中一个或多个字段未通过校验.
type ValidationError struct {
	Errors map[string][]*Violation `json:"errors"`
}

// Error 实现 error.
func (e *ValidationError) Error() string {
	fields := e.Fields()

	return fmt.Sprintf("validation failed: %s", strings.Join(fields, ", "))
}

// Fields 返回失败字段名（已排序）.
func (e *ValidationError) Fields() []string {
	fields := make([]string, 0, len(e.Errors))
	for f := range e.Errors {
		fields = append(fields, f)
	}

	sort.Strings(fields)

	return fields
}

// Has 判断字段是否存在指定类型的违规.
func (e *ValidationError) Has(field, kind string) bool {
	for _, v := range e.Errors[field] {
		if v.Kind == kind {
			return true
		}
	}

	return false
}

func (e *ValidationError) add(field string, v *Violation) {
	if e.Errors == nil {
		e.Errors = make(map[string][]*Violation)
	}

	if v.Message == "" {
		v.Message = message(field, v)
	}

	e.Errors[field] = append(e.Errors[field], v)
}

var messages = map[string]string{
	"required":              "The %[1]s field is required.",
	"string":                "The %[1]s must be a string.",
	"boolean":               "The %[1]s field must be true or false.",
	"integer":               "The %[1]s must be an integer.",
	"array":                 "The %[1]s must be an array.",
	"in":                    "The selected %[1]s is invalid.",
	"exists":                "The selected %[1]s is invalid.",
	"max.string":            "The %[1]s may not be greater than %[2]v characters.",
	"max.numeric":           "The %[1]s may not be greater than %[2]v.",
	"max.array":             "The %[1]s may not have more than %[2]v items.",
	"max.file":              "The %[1]s may not be greater than %[2]v kilobytes.",
	"min.numeric":           "The %[1]s must be at least %[2]v.",
	"min.string":            "The %[1]s must be at least %[2]v characters.",
	"date_format":           "The %[1]s does not match the format %[2]v.",
	"file":                  "The %[1]s must be a file.",
	"image":                 "The %[1]s must be an image.",
	"mimetypes":             "The %[1]s must be a file of type: %[2]v.",
	"genres_has_categories": "Every selected genre must be related to at least one of the selected categories.",
}

func message(field string, v *Violation) string {
	attr := strings.ReplaceAll(field, "_", " ")

	tpl, ok := messages[v.Kind]
	if !ok {
		return fmt.Sprintf("The %s is invalid.", attr)
	}

	var param any

	for _, k := range []string{"max", "min", "format", "values"} {
		if p, ok := v.Params[k]; ok {
			param = p
			break
		}
	}

	if vals, ok := param.([]string); ok {
		param = strings.Join(vals, ", ")
	}

	if param == nil {
		return fmt.Sprintf(tpl, attr)
	}

	return fmt.Sprintf(tpl, attr, param)
}
