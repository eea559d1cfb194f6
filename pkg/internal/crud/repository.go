package crud

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"gorm.io/gorm"

	"github.com/yeisme/videocatalog/pkg/internal/model"
	"github.com/yeisme/videocatalog/pkg/rule"
)

// Repository 基于 gorm 的实体仓储，默认只看到未软删除的行.
type Repository[T model.Entity] struct {
	db       *gorm.DB
	name     string
	newFn    func() T
	preloads []string
}

// NewRepository 创建仓储.
func NewRepository[T model.Entity](db *gorm.DB, name string, newFn func() T, preloads ...string) *Repository[T] {
	return &Repository[T]{db: db, name: name, newFn: newFn, preloads: preloads}
}

// DB 返回绑定了 ctx 的数据库句柄.
func (r *Repository[T]) DB(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx)
}

// Query 返回实体模型上的查询.
func (r *Repository[T]) Query(ctx context.Context) *gorm.DB {
	return r.DB(ctx).Model(r.newFn())
}

func (r *Repository[T]) withPreloads(db *gorm.DB) *gorm.DB {
	for _, p := range r.preloads {
		db = db.Preload(p)
	}

	return db
}

// FindOrFail 读取未软删除的实体，不存在时返回 *NotFoundError.
func (r *Repository[T]) FindOrFail(ctx context.Context, id string) (T, error) {
	return r.find(r.DB(ctx), id)
}

// FindWithTrashed 读取实体，包括已软删除的.
func (r *Repository[T]) FindWithTrashed(ctx context.Context, id string) (T, error) {
	return r.find(r.DB(ctx).Unscoped(), id)
}

func (r *Repository[T]) find(db *gorm.DB, id string) (T, error) {
	entity := r.newFn()

	err := r.withPreloads(db).Where("id = ?", id).First(entity).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		var zero T
		return zero, &NotFoundError{Resource: r.name, IDs: []string{id}}
	}

	if err != nil {
		var zero T
		return zero, fmt.Errorf("find %s %s: %w", r.name, id, err)
	}

	return entity, nil
}

// SoftDelete 软删除单个实体.
func (r *Repository[T]) SoftDelete(ctx context.Context, id string) error {
	res := r.DB(ctx).Where("id = ?", id).Delete(r.newFn())
	if res.Error != nil {
		return fmt.Errorf("delete %s %s: %w", r.name, id, res.Error)
	}

	if res.RowsAffected == 0 {
		return &NotFoundError{Resource: r.name, IDs: []string{id}}
	}

	return nil
}

// BulkSoftDelete 在一个事务里软删除多个实体.
// 只要有一个标识符不存在或已删除，就返回列出全部缺失项的 *NotFoundError，且不删除任何行.
func (r *Repository[T]) BulkSoftDelete(ctx context.Context, ids []string) error {
	ids = rule.Unique(ids)

	return r.DB(ctx).Transaction(func(tx *gorm.DB) error {
		var live []string
		if err := tx.Model(r.newFn()).Where("id IN ?", ids).Pluck("id", &live).Error; err != nil {
			return fmt.Errorf("bulk delete %s: %w", r.name, err)
		}

		var missing []string

		for _, id := range ids {
			if !slices.Contains(live, id) {
				missing = append(missing, id)
			}
		}

		if len(missing) > 0 {
			return &NotFoundError{Resource: r.name, IDs: missing}
		}

		if err := tx.Where("id IN ?", ids).Delete(r.newFn()).Error; err != nil {
			return fmt.Errorf("bulk delete %s: %w", r.name, err)
		}

		return nil
	})
}

// Count 返回未软删除的行数与已软删除的行数.
func (r *Repository[T]) Count(ctx context.Context) (active, trashed int64, err error) {
	var row struct {
		Active  int64
		Trashed int64
	}

	err = r.DB(ctx).Unscoped().Model(r.newFn()).
		Select("COALESCE(SUM(CASE WHEN deleted_at IS NULL THEN 1 ELSE 0 END), 0) AS active, " +
			"COALESCE(SUM(CASE WHEN deleted_at IS NOT NULL THEN 1 ELSE 0 END), 0) AS trashed").
		Scan(&row).Error
	if err != nil {
		return 0, 0, fmt.Errorf("count %s: %w", r.name, err)
	}

	return row.Active, row.Trashed, nil
}
