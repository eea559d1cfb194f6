package rule

import (
	"encoding/json"
	"fmt"
	"math"
	"mime/multipart"
	"slices"
	"strconv"
	"strings"
)

type requiredRule struct{}

// Required 字段必须存在且非空（null、空字符串、空数组都视为缺失）.
func Required() Rule { return requiredRule{} }

func (requiredRule) Apply(_ *Context, _ string, value any) (any, error) {
	if ids, ok := value.([]any); ok && len(ids) == 0 {
		return nil, Violate("required", nil)
	}

	if ids, ok := value.([]string); ok && len(ids) == 0 {
		return nil, Violate("required", nil)
	}

	return value, nil
}

// Nullable 仅作标记，字段允许显式为 null.
func Nullable() Rule {
	return Func(func(_ *Context, _ string, value any) (any, error) { return value, nil })
}

// String 值必须是字符串.
func String() Rule {
	return Func(func(_ *Context, _ string, value any) (any, error) {
		if _, ok := value.(string); !ok {
			return nil, Violate("string", nil)
		}

		return value, nil
	})
}

// Boolean 接受 true/false、1/0 及其字符串形式，转换为 bool.
func Boolean() Rule {
	return Func(func(_ *Context, _ string, value any) (any, error) {
		switch t := value.(type) {
		case bool:
			return t, nil
		case float64:
			if t == 0 || t == 1 {
				return t == 1, nil
			}
		case int:
			if t == 0 || t == 1 {
				return t == 1, nil
			}
		case string:
			switch strings.ToLower(t) {
			case "1", "true", "on":
				return true, nil
			case "0", "false", "off":
				return false, nil
			}
		}

		return nil, Violate("boolean", nil)
	})
}

// Integer 值必须是整数，转换为 int.
func Integer() Rule {
	return Func(func(_ *Context, _ string, value any) (any, error) {
		if n, ok := toInt(value); ok {
			return n, nil
		}

		return nil, Violate("integer", nil)
	})
}

// Array 值必须是数组，元素转换为字符串标识符.
func Array() Rule {
	return Func(func(_ *Context, _ string, value any) (any, error) {
		ids, ok := toStrings(value)
		if !ok {
			return nil, Violate("array", nil)
		}

		return ids, nil
	})
}

// Max 字符串按字符数、数值按大小、数组按元素个数、文件按 KB 限制上限.
func Max(n int64) Rule {
	return Func(func(_ *Context, _ string, value any) (any, error) {
		params := map[string]any{"max": n}

		switch t := value.(type) {
		case string:
			if ValidateVar(t, fmt.Sprintf("max=%d", n)) != nil {
				return nil, Violate("max.string", params)
			}
		case []string:
			if int64(len(t)) > n {
				return nil, Violate("max.array", params)
			}
		case *multipart.FileHeader:
			if kilobytes(t.Size) > float64(n) {
				return nil, Violate("max.file", params)
			}
		default:
			f, ok := toFloat(value)
			if !ok || f > float64(n) {
				return nil, Violate("max.numeric", params)
			}
		}

		return value, nil
	})
}

// Min 与 Max 对应的下限.
func Min(n int64) Rule {
	return Func(func(_ *Context, _ string, value any) (any, error) {
		params := map[string]any{"min": n}

		switch t := value.(type) {
		case string:
			if ValidateVar(t, fmt.Sprintf("min=%d", n)) != nil {
				return nil, Violate("min.string", params)
			}
		default:
			f, ok := toFloat(value)
			if !ok || f < float64(n) {
				return nil, Violate("min.numeric", params)
			}
		}

		return value, nil
	})
}

// In 值的字符串形式必须属于给定集合.
func In(values ...string) Rule {
	return Func(func(_ *Context, _ string, value any) (any, error) {
		s, ok := scalarString(value)
		if !ok || !slices.Contains(values, s) {
			return nil, Violate("in", map[string]any{"values": values})
		}

		return value, nil
	})
}

// DateFormat 值按 Go 时间布局解析，例如年份使用 "2006".
func DateFormat(layout string) Rule {
	return Func(func(_ *Context, _ string, value any) (any, error) {
		s, ok := scalarString(value)
		if !ok || ValidateVar(s, "datetime="+layout) != nil {
			return nil, Violate("date_format", map[string]any{"format": layout})
		}

		return value, nil
	})
}

// Exists 每个标识符都必须对应目标表中未被软删除的行.
func Exists(table string) Rule {
	return Func(func(vc *Context, _ string, value any) (any, error) {
		ids, ok := toStrings(value)
		if !ok {
			s, isScalar := scalarString(value)
			if !isScalar {
				return nil, Violate("exists", map[string]any{"table": table})
			}

			ids = []string{s}
		}

		missing, err := MissingIDs(vc, table, ids)
		if err != nil {
			return nil, err
		}

		if len(missing) > 0 {
			return nil, Violate("exists", map[string]any{"table": table, "missing": missing})
		}

		return value, nil
	})
}

// MissingIDs 返回 ids 中在 table 内不存在或已软删除的标识符（保持输入顺序、去重）.
func MissingIDs(vc *Context, table string, ids []string) ([]string, error) {
	ids = Unique(ids)
	if len(ids) == 0 {
		return nil, nil
	}

	db := vc.DB()
	if db == nil {
		return nil, fmt.Errorf("exists rule on %s: no database in validation context", table)
	}

	var found []string
	if err := db.Table(table).Where("id IN ?", ids).Where("deleted_at IS NULL").Pluck("id", &found).Error; err != nil {
		return nil, fmt.Errorf("exists rule on %s: %w", table, err)
	}

	var missing []string

	for _, id := range ids {
		if !slices.Contains(found, id) {
			missing = append(missing, id)
		}
	}

	return missing, nil
}

// Unique 去重并保持顺序.
func Unique(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))

	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}

		seen[id] = struct{}{}
		out = append(out, id)
	}

	return out
}

func kilobytes(size int64) float64 {
	return float64(size) / 1024
}

func toInt(value any) (int, bool) {
	switch t := value.(type) {
	case int:
		return t, true
	case int64:
		return int(t), true
	case float64:
		if t == math.Trunc(t) && !math.IsInf(t, 0) {
			return int(t), true
		}
	case json.Number:
		n, err := t.Int64()
		return int(n), err == nil
	case string:
		n, err := strconv.Atoi(t)
		return n, err == nil
	}

	return 0, false
}

func toFloat(value any) (float64, bool) {
	switch t := value.(type) {
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case float64:
		return t, true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(t, 64)
		return f, err == nil
	}

	return 0, false
}

func scalarString(value any) (string, bool) {
	switch t := value.(type) {
	case string:
		return t, true
	case int:
		return strconv.Itoa(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case json.Number:
		return t.String(), true
	case bool:
		return strconv.FormatBool(t), true
	}

	return "", false
}

func toStrings(value any) ([]string, bool) {
	switch t := value.(type) {
	case []string:
		return t, true
	case []any:
		out := make([]string, 0, len(t))

		for _, item := range t {
			s, ok := scalarString(item)
			if !ok {
				return nil, false
			}

			out = append(out, strings.TrimSpace(s))
		}

		return out, true
	}

	return nil, false
}
