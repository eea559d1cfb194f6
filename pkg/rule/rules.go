package rule

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"sort"
	"strings"

	"gorm.io/gorm"
)

// Payload 原始请求载荷（JSON 解码结果或 multipart 表单）.
type Payload map[string]any

// Rule 对单个字段值做约束检查并可返回转换后的值.
// 约束不满足时返回 *Violation，其他错误（如数据库不可用）会中止整个校验.
type Rule interface {
	Apply(vc *Context, field string, value any) (any, error)
}

// Func 便于用函数实现 Rule.
type Func func(vc *Context, field string, value any) (any, error)

// Apply 实现 Rule.
func (f Func) Apply(vc *Context, field string, value any) (any, error) {
	return f(vc, field, value)
}

// Rules 字段名到有序规则列表的映射，按操作（新增/更新）分别构造.
type Rules map[string][]Rule

// Context 校验上下文，携带完整的同级载荷，跨字段规则通过它读取其他字段.
type Context struct {
	ctx     context.Context
	db      *gorm.DB
	payload Payload
}

// NewContext 创建校验上下文，db 可为 nil（此时依赖数据库的规则会报错）.
func NewContext(ctx context.Context, db *gorm.DB, payload Payload) *Context {
	if payload == nil {
		payload = Payload{}
	}

	return &Context{ctx: ctx, db: db, payload: normalizePayload(payload)}
}

// Context 返回请求上下文.
func (c *Context) Context() context.Context {
	return c.ctx
}

// DB 返回绑定了请求上下文的数据库句柄.
func (c *Context) DB() *gorm.DB {
	if c.db == nil {
		return nil
	}

	return c.db.WithContext(c.ctx)
}

// Payload 返回规范化后的载荷.
func (c *Context) Payload() Payload {
	return c.payload
}

// Raw 返回同级字段的原始值.
func (c *Context) Raw(field string) (any, bool) {
	v, ok := c.payload[field]
	return v, ok
}

// Strings 将同级字段解释为标识符列表，不是数组时返回 nil.
func (c *Context) Strings(field string) []string {
	v, ok := c.payload[field]
	if !ok {
		return nil
	}

	ids, ok := toStrings(v)
	if !ok {
		return nil
	}

	return ids
}

// Validate 按规则集校验载荷，返回只包含已声明字段的净化结果.
// 字段按名称顺序逐一校验，每个字段遇到第一个违规即停止，所有失败字段一并返回.
func Validate(vc *Context, rules Rules) (Values, error) {
	fields := make([]string, 0, len(rules))
	for f := range rules {
		fields = append(fields, f)
	}

	sort.Strings(fields)

	values := make(Values, len(rules))
	verr := &ValidationError{}

	for _, field := range fields {
		chain := rules[field]
		raw, present := vc.payload[field]

		if raw == nil {
			if isRequired(chain) {
				verr.add(field, Violate("required", nil))
			} else if present {
				values[field] = nil
			}

			continue
		}

		value := raw

		for _, r := range chain {
			next, err := r.Apply(vc, field, value)
			if err != nil {
				var v *Violation
				if errors.As(err, &v) {
					verr.add(field, v)
					break
				}

				return nil, fmt.Errorf("validate %s: %w", field, err)
			}

			value = next
		}

		if _, failed := verr.Errors[field]; !failed {
			values[field] = value
		}
	}

	if len(verr.Errors) > 0 {
		return nil, verr
	}

	return values, nil
}

func isRequired(chain []Rule) bool {
	for _, r := range chain {
		if _, ok := r.(requiredRule); ok {
			return true
		}
	}

	return false
}

// normalizePayload 去除字符串两端空白，空字符串视为 null.
func normalizePayload(p Payload) Payload {
	out := make(Payload, len(p))

	for k, v := range p {
		switch t := v.(type) {
		case string:
			s := strings.TrimSpace(t)
			if s == "" {
				out[k] = nil
			} else {
				out[k] = s
			}
		case *multipart.FileHeader:
			if t == nil {
				out[k] = nil
			} else {
				out[k] = t
			}
		default:
			out[k] = v
		}
	}

	return out
}
