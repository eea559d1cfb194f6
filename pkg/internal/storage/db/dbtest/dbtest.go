// Package dbtest 为测试提供迁移好的内存 SQLite 数据库.
package dbtest

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yeisme/videocatalog/pkg/internal/model"
)

// Open 打开一个独立的内存数据库并迁移全部实体，测试结束时关闭.
// 只保留一个连接，内存库在连接间共享且事务不会互相锁表.
func Open(tb testing.TB) *gorm.DB {
	tb.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                                   logger.Discard,
		TranslateError:                           true,
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		tb.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		tb.Fatalf("sql db: %v", err)
	}

	sqlDB.SetMaxOpenConns(1)

	tb.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(model.Models()...); err != nil {
		tb.Fatalf("migrate: %v", err)
	}

	return db
}
