package rule

import (
	"mime/multipart"
)

// Values 校验后的净化值，只包含规则集中声明过的字段.
type Values map[string]any

// Has 字段是否出现在净化结果中（包括显式的 null）.
func (v Values) Has(field string) bool {
	_, ok := v[field]
	return ok
}

// String 返回字符串形式，数值按十进制输出，不存在或为 null 时返回空串.
func (v Values) String(field string) string {
	s, _ := scalarString(v[field])
	return s
}

// StringPtr 返回可空字符串.
func (v Values) StringPtr(field string) *string {
	s, ok := v[field].(string)
	if !ok {
		return nil
	}

	return &s
}

// Bool 返回布尔值.
func (v Values) Bool(field string) bool {
	b, _ := v[field].(bool)
	return b
}

// Int 返回整数值.
func (v Values) Int(field string) int {
	n, _ := v[field].(int)
	return n
}

// Strings 返回标识符列表.
func (v Values) Strings(field string) []string {
	ids, _ := v[field].([]string)
	return ids
}

// File 返回上传文件.
func (v Values) File(field string) *multipart.FileHeader {
	fh, _ := v[field].(*multipart.FileHeader)
	return fh
}

// Set 写入字段值.
func (v Values) Set(field string, value any) {
	v[field] = value
}
