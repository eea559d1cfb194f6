//go:build !no_sqlite && !cgo

package db

import (
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/yeisme/videocatalog/pkg/configs"
)

// createSQLiteDialector 纯 Go 实现. 上传视频的事务持有写锁较久，其他写请求等待而不是立即 SQLITE_BUSY.
func createSQLiteDialector(dsn string) gorm.Dialector {
	return sqlite.Open(withSQLiteParam(dsn, "_pragma=busy_timeout("+sqliteBusyTimeoutMS+")"))
}

func init() {
	RegisterDialectorFactory(createSQLiteDialector, configs.SQLite)
}
