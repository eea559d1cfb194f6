package service

import (
	"gorm.io/gorm"

	"github.com/yeisme/videocatalog/pkg/filter"
	"github.com/yeisme/videocatalog/pkg/internal/model"
	"github.com/yeisme/videocatalog/pkg/internal/relation"
	"github.com/yeisme/videocatalog/pkg/rule"
)

// GenreCategories 类型与分类的关系.
var GenreCategories = relation.Declaration{
	Name:        "categories_id",
	Association: "Categories",
	Table:       "category_genre",
	OwnerKey:    "genre_id",
	ForeignKey:  "category_id",
	Target:      "categories",
}

// GenreResource 类型资源.
type GenreResource struct{}

func (GenreResource) Name() string { return "genres" }

func (GenreResource) New() *model.Genre { return &model.Genre{IsActive: true} }

func (GenreResource) Preloads() []string { return []string{"Categories"} }

func (GenreResource) Relations() []relation.Declaration {
	return []relation.Declaration{GenreCategories}
}

func (GenreResource) RulesStore() rule.Rules {
	return rule.Rules{
		"name":          {rule.Required(), rule.String(), rule.Max(255)},
		"is_active":     {rule.Boolean()},
		"categories_id": {rule.Required(), rule.Array(), rule.Exists("categories")},
	}
}

func (r GenreResource) RulesUpdate(*model.Genre) rule.Rules { return r.RulesStore() }

func (GenreResource) Apply(g *model.Genre, v rule.Values) {
	if v.Has("name") {
		g.Name = v.String("name")
	}

	if v.Has("is_active") {
		g.IsActive = v.Bool("is_active")
	}
}

func (GenreResource) Transform(g *model.Genre) any { return GenreView(g) }

func (GenreResource) Sortable() []string {
	return []string{"name", "is_active", "created_at", "updated_at"}
}

func (GenreResource) Extra() filter.ExtraFilter {
	return filter.ExtraFilter{
		Keys: []string{"is_active", "categories"},
		Normalize: func(k, v string) (string, bool) {
			if k == "is_active" {
				return normalizeBool(v)
			}

			return normalizeList(v)
		},
	}
}

// Filter categories 同时接受分类标识符与分类名称.
func (GenreResource) Filter(db *gorm.DB, s filter.State) *gorm.DB {
	db = searchLike(db, "name", s.Search)
	db = boolExtra(db, s, "is_active", "is_active")

	if v, ok := s.ExtraFilter["categories"]; ok {
		db = linkedTo(db, "genres", "category_genre", "genre_id", "category_id", "categories", "name", splitList(v))
	}

	return db
}
