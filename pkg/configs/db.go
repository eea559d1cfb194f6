package configs

import (
	"fmt"
	"net/url"
	"time"

	"github.com/spf13/viper"
)

// DBType 数据库类型，别名见 Dialect.
type DBType string

const (
	PostgreSQL DBType = "postgresql"
	Postgres   DBType = "postgres"
	Pg         DBType = "pg"
	MySQL      DBType = "mysql"
	MariaDB    DBType = "mariadb"
	SQLite     DBType = "sqlite"
)

// DBConfig 数据库配置. 时间列统一按 UTC 读写.
type DBConfig struct {
	Type            DBType        `mapstructure:"type"              rule:"oneof=postgresql postgres pg mysql mariadb sqlite"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"              rule:"min=0,max=65535"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Database        string        `mapstructure:"database"          rule:"required"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"    rule:"min=0"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"    rule:"min=0"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime" rule:"min=0"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
	// DSN 非空时忽略其余连接字段，例如 sqlite 的 "file::memory:?cache=shared".
	DSN string `mapstructure:"dsn"`
}

// Dialect 把别名归一为 postgres、mysql 或 sqlite，未知类型原样返回.
func (c *DBConfig) Dialect() DBType {
	switch c.Type {
	case PostgreSQL, Postgres, Pg:
		return Postgres
	case MySQL, MariaDB:
		return MySQL
	default:
		return c.Type
	}
}

// GetDSN 返回连接串，类型未知时为空.
func (c *DBConfig) GetDSN() string {
	if c.DSN != "" {
		return c.DSN
	}

	port := c.Port

	switch c.Dialect() {
	case Postgres:
		if port == 0 {
			port = 5432
		}

		return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
			c.Host, port, c.User, c.Password, c.Database, c.SSLMode)
	case MySQL:
		if port == 0 {
			port = 3306
		}

		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=true&loc=%s",
			c.User, c.Password, c.Host, port, c.Database, url.QueryEscape("UTC"))
	case SQLite:
		return "file:" + c.Database + ".db"
	default:
		return ""
	}
}

func (c *DBConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("db.type", SQLite)
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 0)
	v.SetDefault("db.user", "videocatalog")
	v.SetDefault("db.database", AppName)
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_idle_conns", 5)
	v.SetDefault("db.conn_max_lifetime", time.Hour)
	v.SetDefault("db.auto_migrate", true)
}
