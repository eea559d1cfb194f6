//go:build !no_sqlite && cgo

package db

import (
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yeisme/videocatalog/pkg/configs"
)

// createSQLiteDialector 基于 mattn/go-sqlite3 (CGo).
func createSQLiteDialector(dsn string) gorm.Dialector {
	return sqlite.Open(withSQLiteParam(dsn, "_busy_timeout="+sqliteBusyTimeoutMS))
}

func init() {
	RegisterDialectorFactory(createSQLiteDialector, configs.SQLite)
}
