package service

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yeisme/videocatalog/pkg/configs"
	"github.com/yeisme/videocatalog/pkg/filter"
	"github.com/yeisme/videocatalog/pkg/internal/model"
	"github.com/yeisme/videocatalog/pkg/internal/relation"
	"github.com/yeisme/videocatalog/pkg/rule"
)

// 视频的三个关系.
var (
	VideoCategories = relation.Declaration{
		Name:        "categories_id",
		Association: "Categories",
		Table:       "category_video",
		OwnerKey:    "video_id",
		ForeignKey:  "category_id",
		Target:      "categories",
	}
	VideoGenres = relation.Declaration{
		Name:        "genres_id",
		Association: "Genres",
		Table:       "genre_video",
		OwnerKey:    "video_id",
		ForeignKey:  "genre_id",
		Target:      "genres",
	}
	VideoCastMembers = relation.Declaration{
		Name:        "cast_members_id",
		Association: "CastMembers",
		Table:       "cast_member_video",
		OwnerKey:    "video_id",
		ForeignKey:  "cast_member_id",
		Target:      "cast_members",
	}
)

// VideoResource 视频资源. files 为 nil 时拒绝文件上传.
type VideoResource struct {
	*VideoFileHolder

	limits configs.UploadConfig
}

// NewVideoResource 创建视频资源.
func NewVideoResource(files VideoFiles, limits configs.UploadConfig) *VideoResource {
	return &VideoResource{VideoFileHolder: NewVideoFileHolder(files), limits: limits}
}

func (*VideoResource) Name() string { return "videos" }

func (*VideoResource) New() *model.Video { return &model.Video{} }

func (*VideoResource) Preloads() []string {
	return []string{"Categories", "Genres", "CastMembers"}
}

func (*VideoResource) Relations() []relation.Declaration {
	return []relation.Declaration{VideoCategories, VideoGenres, VideoCastMembers}
}

func (r *VideoResource) RulesStore() rule.Rules {
	return rule.Rules{
		"title":                {rule.Required(), rule.String(), rule.Max(255)},
		"description":          {rule.Required(), rule.String()},
		"year_launched":        {rule.Required(), rule.Integer(), rule.DateFormat("2006"), rule.Min(1)},
		"opened":               {rule.Boolean()},
		"rating":               {rule.Required(), rule.In(model.RatingList...)},
		"duration":             {rule.Required(), rule.Integer(), rule.Min(1)},
		"categories_id":        {rule.Required(), rule.Array(), rule.Exists("categories")},
		"genres_id":            {rule.Required(), rule.Array(), rule.Exists("genres"), rule.GenresHasCategories("categories_id")},
		"cast_members_id":      {rule.Required(), rule.Array(), rule.Exists("cast_members")},
		model.FieldThumbFile:   {rule.Nullable(), rule.Image(), rule.MaxFileSize(r.limits.ThumbMaxSizeKB)},
		model.FieldBannerFile:  {rule.Nullable(), rule.Image(), rule.MaxFileSize(r.limits.BannerMaxSizeKB)},
		model.FieldTrailerFile: {rule.Nullable(), rule.MimeTypes("video/mp4"), rule.MaxFileSize(r.limits.TrailerMaxSizeKB)},
		model.FieldVideoFile:   {rule.Nullable(), rule.MimeTypes("video/mp4"), rule.MaxFileSize(r.limits.VideoMaxSizeKB)},
	}
}

func (r *VideoResource) RulesUpdate(*model.Video) rule.Rules { return r.RulesStore() }

func (*VideoResource) Apply(v *model.Video, values rule.Values) {
	if values.Has("title") {
		v.Title = values.String("title")
	}

	if values.Has("description") {
		v.Description = values.String("description")
	}

	if values.Has("year_launched") {
		v.YearLaunched = values.Int("year_launched")
	}

	if values.Has("opened") {
		v.Opened = values.Bool("opened")
	}

	if values.Has("rating") {
		v.Rating = values.String("rating")
	}

	if values.Has("duration") {
		v.Duration = values.Int("duration")
	}
}

func (r *VideoResource) Transform(v *model.Video) any {
	if r.files == nil {
		return VideoView(v, nil)
	}

	return VideoView(v, r.FileURL)
}

func (*VideoResource) Sortable() []string {
	return []string{"title", "year_launched", "rating", "duration", "opened", "created_at", "updated_at"}
}

func (*VideoResource) Extra() filter.ExtraFilter {
	return filter.ExtraFilter{
		Keys: []string{"categories", "genres", "cast_members", "rating", "opened"},
		Normalize: func(k, v string) (string, bool) {
			switch k {
			case "opened":
				return normalizeBool(v)
			case "rating":
				for _, r := range model.RatingList {
					if r == v {
						return v, true
					}
				}

				return "", false
			}

			return normalizeList(v)
		},
	}
}

// Filter categories、genres 接受标识符或名称，cast_members 接受标识符或姓名.
func (*VideoResource) Filter(db *gorm.DB, s filter.State) *gorm.DB {
	db = searchLike(db, "title", s.Search)
	db = boolExtra(db, s, "opened", "opened")

	if v, ok := s.ExtraFilter["rating"]; ok {
		db = db.Where(clause.Eq{Column: clause.Column{Name: "rating"}, Value: v})
	}

	for _, d := range []struct {
		key string
		rel relation.Declaration
	}{
		{"categories", VideoCategories},
		{"genres", VideoGenres},
		{"cast_members", VideoCastMembers},
	} {
		if v, ok := s.ExtraFilter[d.key]; ok {
			db = linkedTo(db, "videos", d.rel.Table, d.rel.OwnerKey, d.rel.ForeignKey, d.rel.Target, "name", splitList(v))
		}
	}

	return db
}
