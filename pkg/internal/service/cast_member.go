package service

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yeisme/videocatalog/pkg/filter"
	"github.com/yeisme/videocatalog/pkg/internal/model"
	"github.com/yeisme/videocatalog/pkg/rule"
)

// CastMemberResource 演职人员资源.
type CastMemberResource struct{}

func (CastMemberResource) Name() string { return "cast_members" }

func (CastMemberResource) New() *model.CastMember { return &model.CastMember{} }

func (CastMemberResource) Preloads() []string { return nil }

func (CastMemberResource) RulesStore() rule.Rules {
	return rule.Rules{
		"name": {rule.Required(), rule.String(), rule.Max(255)},
		"type": {rule.Required(), rule.Integer(), rule.In(model.CastMemberTypes()...)},
	}
}

func (r CastMemberResource) RulesUpdate(*model.CastMember) rule.Rules { return r.RulesStore() }

func (CastMemberResource) Apply(m *model.CastMember, v rule.Values) {
	if v.Has("name") {
		m.Name = v.String("name")
	}

	if v.Has("type") {
		m.Type = model.CastMemberType(v.Int("type"))
	}
}

func (CastMemberResource) Transform(m *model.CastMember) any { return CastMemberView(m) }

func (CastMemberResource) Sortable() []string {
	return []string{"name", "type", "created_at", "updated_at"}
}

// Extra type 接受编码或展示名，筛选状态与 URL 中统一保留展示名.
func (CastMemberResource) Extra() filter.ExtraFilter {
	return filter.ExtraFilter{
		Keys:      []string{"type"},
		Normalize: normalizeCastMemberType,
	}
}

func normalizeCastMemberType(_, v string) (string, bool) {
	t, ok := model.ParseCastMemberType(v)
	if !ok {
		return "", false
	}

	return t.String(), true
}

// Filter 查询时才把展示名换成编码.
func (CastMemberResource) Filter(db *gorm.DB, s filter.State) *gorm.DB {
	db = searchLike(db, "name", s.Search)

	if v, ok := s.ExtraFilter["type"]; ok {
		if t, ok := model.ParseCastMemberType(v); ok {
			db = db.Where(clause.Eq{Column: clause.Column{Name: "type"}, Value: int(t)})
		}
	}

	return db
}
