package service

import (
	"slices"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yeisme/videocatalog/pkg/filter"
)

// likeEscaper 转义 LIKE 通配符，转义符为 '!'.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// searchLike 对列做不区分大小写的包含匹配，搜索文本中的 % 与 _ 按字面匹配.
func searchLike(db *gorm.DB, column, search string) *gorm.DB {
	if search == "" {
		return db
	}

	pattern := "%" + likeEscaper.Replace(strings.ToLower(search)) + "%"

	return db.Where("LOWER(?) LIKE ? ESCAPE '!'", clause.Column{Name: column}, pattern)
}

// normalizeBool 接受 1/0、true/false，统一为 "true"/"false".
func normalizeBool(v string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "on", "yes":
		return "true", true
	case "0", "false", "off", "no":
		return "false", true
	}

	return "", false
}

// splitList 拆分逗号分隔的列表，去掉空项.
func splitList(v string) []string {
	var out []string

	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" && !slices.Contains(out, part) {
			out = append(out, part)
		}
	}

	return out
}

func normalizeList(v string) (string, bool) {
	items := splitList(v)
	if len(items) == 0 {
		return "", false
	}

	return strings.Join(items, ","), true
}

// linkedTo 限定 ownerTable 中与 target 表任一行（按 id 或 name）关联的行.
func linkedTo(db *gorm.DB, ownerTable, link, ownerKey, foreignKey, target, nameColumn string, values []string) *gorm.DB {
	sub := db.Session(&gorm.Session{NewDB: true}).
		Table(link).
		Select(link+"."+ownerKey).
		Joins("JOIN "+target+" ON "+target+".id = "+link+"."+foreignKey).
		Where(target+".id IN ? OR "+target+"."+nameColumn+" IN ?", values, values)

	return db.Where(ownerTable+".id IN (?)", sub)
}

func boolExtra(db *gorm.DB, s filter.State, key, column string) *gorm.DB {
	v, ok := s.ExtraFilter[key]
	if !ok {
		return db
	}

	return db.Where(clause.Eq{Column: clause.Column{Name: column}, Value: v == "true"})
}

// FilterConfigs 按资源名返回列表筛选配置，base 提供分页与防抖参数.
// 客户端与服务端共用，保证两端对 sort 与额外筛选的取值判断一致.
func FilterConfigs(base filter.Config) map[string]filter.Config {
	with := func(f interface {
		Sortable() []string
		Extra() filter.ExtraFilter
	}) filter.Config {
		cfg := base
		cfg.Sortable = f.Sortable()
		cfg.Extra = f.Extra()

		return cfg
	}

	return map[string]filter.Config{
		"categories":   with(CategoryResource{}),
		"genres":       with(GenreResource{}),
		"cast_members": with(CastMemberResource{}),
		"videos":       with((*VideoResource)(nil)),
	}
}
