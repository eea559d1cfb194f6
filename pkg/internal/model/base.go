// Package model 定义视频目录的持久化实体.
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base 所有实体共有的字段：UUID 主键、时间戳与软删除标记.
type Base struct {
	ID        string    `gorm:"type:varchar(36);primaryKey"`
	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// BeforeCreate 在首次写入时分配标识符，之后不再改变.
func (b *Base) BeforeCreate(*gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}

	return nil
}

// GetID 返回实体标识符.
func (b *Base) GetID() string {
	return b.ID
}

// Trashed 实体是否已被软删除.
func (b *Base) Trashed() bool {
	return b.DeletedAt.Valid
}

// Entity 由所有持久化实体实现.
type Entity interface {
	GetID() string
	Trashed() bool
}

// Models 返回需要迁移的全部实体，顺序即建表顺序.
func Models() []any {
	return []any{&Category{}, &Genre{}, &CastMember{}, &Video{}}
}
