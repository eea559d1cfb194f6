//go:build !no_mysql

package db

import (
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/yeisme/videocatalog/pkg/configs"
)

// 名称、标题等字符串列的上限与校验规则 max:255 一致.
const mysqlStringSize = 255

func createMySQLDialector(dsn string) gorm.Dialector {
	return mysql.New(mysql.Config{
		DSN:               dsn,
		DefaultStringSize: mysqlStringSize,
	})
}

func init() {
	RegisterDialectorFactory(createMySQLDialector, configs.MySQL)
}
