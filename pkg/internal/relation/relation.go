// Package relation 在调用方事务内同步多对多关联表.
//
// 同步是全量替换：给定期望的目标标识符集合，删除多余的关联行，插入缺少的关联行，
// 已经正确的关联行保持不动.
package relation

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yeisme/videocatalog/pkg/metrics"
	"github.com/yeisme/videocatalog/pkg/rule"
)

// Declaration 描述一个多对多关系.
type Declaration struct {
	// Name 载荷中的字段名，如 "categories_id".
	Name string
	// Association gorm 关联名，用于预加载，如 "Categories".
	Association string
	// Table 关联表，如 "category_genre".
	Table string
	// OwnerKey 关联表中指向根实体的列，如 "genre_id".
	OwnerKey string
	// ForeignKey 关联表中指向目标实体的列，如 "category_id".
	ForeignKey string
	// Target 目标实体表，如 "categories".
	Target string
}

// IntegrityError 期望的关联目标不存在或已被软删除.
type IntegrityError struct {
	Relation string
	IDs      []string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("relation %s: missing or trashed targets: %s", e.Relation, strings.Join(e.IDs, ", "))
}

// Synchronizer 关联同步器，本身无状态.
type Synchronizer struct{}

// Sync 把 ownerID 在 d.Table 中的关联替换为 desired.
// tx 必须是调用方的事务句柄，失败时由调用方回滚.
func (Synchronizer) Sync(ctx context.Context, tx *gorm.DB, d Declaration, ownerID string, desired []string) error {
	tx = tx.WithContext(ctx)
	desired = rule.Unique(desired)

	if err := checkTargets(tx, d, desired); err != nil {
		return err
	}

	var current []string
	if err := tx.Table(d.Table).Where(clause.Eq{Column: clause.Column{Name: d.OwnerKey}, Value: ownerID}).
		Pluck(d.ForeignKey, &current).Error; err != nil {
		return fmt.Errorf("sync %s: read links: %w", d.Name, err)
	}

	var removed, added []string

	for _, id := range current {
		if !slices.Contains(desired, id) {
			removed = append(removed, id)
		}
	}

	for _, id := range desired {
		if !slices.Contains(current, id) {
			added = append(added, id)
		}
	}

	if len(removed) > 0 {
		err := tx.Exec("DELETE FROM ? WHERE ? = ? AND ? IN ?",
			clause.Table{Name: d.Table}, clause.Column{Name: d.OwnerKey}, ownerID,
			clause.Column{Name: d.ForeignKey}, removed,
		).Error
		if err != nil {
			return fmt.Errorf("sync %s: delete links: %w", d.Name, err)
		}

		metrics.RelationLinks.WithLabelValues(d.Table, "deleted").Add(float64(len(removed)))
	}

	if len(added) > 0 {
		rows := make([]map[string]any, 0, len(added))
		for _, id := range added {
			rows = append(rows, map[string]any{d.OwnerKey: ownerID, d.ForeignKey: id})
		}

		if err := tx.Table(d.Table).Create(rows).Error; err != nil {
			return fmt.Errorf("sync %s: insert links: %w", d.Name, err)
		}

		metrics.RelationLinks.WithLabelValues(d.Table, "inserted").Add(float64(len(added)))
	}

	return nil
}

// checkTargets 目标必须是未软删除的行.
func checkTargets(tx *gorm.DB, d Declaration, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	var live []string
	if err := tx.Table(d.Target).Where("id IN ?", ids).Where("deleted_at IS NULL").Pluck("id", &live).Error; err != nil {
		return fmt.Errorf("sync %s: check targets: %w", d.Name, err)
	}

	var missing []string

	for _, id := range ids {
		if !slices.Contains(live, id) {
			missing = append(missing, id)
		}
	}

	if len(missing) > 0 {
		return &IntegrityError{Relation: d.Name, IDs: missing}
	}

	return nil
}

// Linked 返回 ownerID 当前关联的目标标识符，主要用于测试与统计.
func Linked(ctx context.Context, db *gorm.DB, d Declaration, ownerID string) ([]string, error) {
	var ids []string

	err := db.WithContext(ctx).Table(d.Table).
		Where(clause.Eq{Column: clause.Column{Name: d.OwnerKey}, Value: ownerID}).
		Order(d.ForeignKey).
		Pluck(d.ForeignKey, &ids).Error

	return ids, err
}
