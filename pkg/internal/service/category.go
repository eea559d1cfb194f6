package service

import (
	"gorm.io/gorm"

	"github.com/yeisme/videocatalog/pkg/filter"
	"github.com/yeisme/videocatalog/pkg/internal/model"
	"github.com/yeisme/videocatalog/pkg/rule"
)

// CategoryResource 分类资源.
type CategoryResource struct{}

func (CategoryResource) Name() string { return "categories" }

func (CategoryResource) New() *model.Category { return &model.Category{IsActive: true} }

func (CategoryResource) Preloads() []string { return nil }

func (r CategoryResource) RulesStore() rule.Rules {
	return rule.Rules{
		"name":        {rule.Required(), rule.String(), rule.Max(255)},
		"description": {rule.Nullable(), rule.String()},
		"is_active":   {rule.Boolean()},
	}
}

func (r CategoryResource) RulesUpdate(*model.Category) rule.Rules { return r.RulesStore() }

func (CategoryResource) Apply(c *model.Category, v rule.Values) {
	if v.Has("name") {
		c.Name = v.String("name")
	}

	if v.Has("description") {
		c.Description = v.StringPtr("description")
	}

	if v.Has("is_active") {
		c.IsActive = v.Bool("is_active")
	}
}

func (CategoryResource) Transform(c *model.Category) any { return CategoryView(c) }

func (CategoryResource) Sortable() []string {
	return []string{"name", "is_active", "created_at", "updated_at"}
}

func (CategoryResource) Extra() filter.ExtraFilter {
	return filter.ExtraFilter{
		Keys:      []string{"is_active"},
		Normalize: func(_, v string) (string, bool) { return normalizeBool(v) },
	}
}

func (CategoryResource) Filter(db *gorm.DB, s filter.State) *gorm.DB {
	db = searchLike(db, "name", s.Search)
	return boolExtra(db, s, "is_active", "is_active")
}
