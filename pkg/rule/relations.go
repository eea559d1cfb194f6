package rule

import (
	"fmt"
	"mime/multipart"
	"slices"
)

// MaxFileSize 上传文件不能超过 kb 千字节.
func MaxFileSize(kb int64) Rule {
	return Func(func(_ *Context, _ string, value any) (any, error) {
		fh, ok := value.(*multipart.FileHeader)
		if !ok || fh == nil {
			return nil, Violate("file", nil)
		}

		if kilobytes(fh.Size) > float64(kb) {
			return nil, Violate("max.file", map[string]any{"max": kb})
		}

		return value, nil
	})
}

// GenresHasCategories 挂在类型（genres）字段上，categoriesField 指向同级分类字段.
// 每个选中的类型至少关联一个选中的分类，每个选中的分类也至少被一个选中的类型关联，
// 任一侧为空时直接失败.
func GenresHasCategories(categoriesField string) Rule {
	return Func(func(vc *Context, _ string, value any) (any, error) {
		genres, ok := toStrings(value)
		if !ok {
			return nil, Violate("array", nil)
		}

		genres = Unique(genres)
		categories := Unique(vc.Strings(categoriesField))

		if len(genres) == 0 || len(categories) == 0 {
			return nil, Violate("genres_has_categories", map[string]any{"genres": genres})
		}

		db := vc.DB()
		if db == nil {
			return nil, fmt.Errorf("genres_has_categories: no database in validation context")
		}

		var pairs []struct {
			GenreID    string
			CategoryID string
		}

		err := db.Table("category_genre").
			Select("genre_id, category_id").
			Where("genre_id IN ? AND category_id IN ?", genres, categories).
			Scan(&pairs).Error
		if err != nil {
			return nil, fmt.Errorf("genres_has_categories: %w", err)
		}

		linkedGenres := make([]string, 0, len(pairs))
		linkedCategories := make([]string, 0, len(pairs))

		for _, p := range pairs {
			linkedGenres = append(linkedGenres, p.GenreID)
			linkedCategories = append(linkedCategories, p.CategoryID)
		}

		var orphanGenres, orphanCategories []string

		for _, g := range genres {
			if !slices.Contains(linkedGenres, g) {
				orphanGenres = append(orphanGenres, g)
			}
		}

		for _, c := range categories {
			if !slices.Contains(linkedCategories, c) {
				orphanCategories = append(orphanCategories, c)
			}
		}

		if len(orphanGenres) > 0 || len(orphanCategories) > 0 {
			return nil, Violate("genres_has_categories", map[string]any{
				"genres":     orphanGenres,
				"categories": orphanCategories,
			})
		}

		return genres, nil
	})
}
