// Package db 管理 gorm 数据库连接，方言按构建标签注册.
package db

import (
	"context"
	"fmt"
	"sort"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	gormPrometheus "gorm.io/plugin/prometheus"

	"github.com/yeisme/videocatalog/pkg/configs"
	nlog "github.com/yeisme/videocatalog/pkg/log"
)

// DialectorFactory 定义创建 dialector 的函数类型.
type DialectorFactory func(dsn string) gorm.Dialector

// dialectorFactories 存储数据库类型到 dialector 工厂的映射.
var dialectorFactories = map[configs.DBType]DialectorFactory{}

// RegisterDialectorFactory 注册数据库 dialector 工厂函数.
func RegisterDialectorFactory(factory DialectorFactory, dbTypes ...configs.DBType) {
	for _, t := range dbTypes {
		dialectorFactories[t] = factory
	}
}

// GetRegisteredDBTypes 返回已注册的数据库类型列表（已排序）.
func GetRegisteredDBTypes() []configs.DBType {
	types := make([]configs.DBType, 0, len(dialectorFactories))
	for dbType := range dialectorFactories {
		types = append(types, dbType)
	}

	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })

	return types
}

// Client 包装 GORM DB 客户端.
type Client struct {
	*gorm.DB
}

// New 按全局配置创建数据库客户端.
func New(ctx context.Context) (*Client, error) {
	cfg := configs.GetConfig()

	return Open(ctx, cfg.DB, cfg.Log, cfg.Metrics.Enabled && cfg.Metrics.DBMetrics)
}

// Open 按给定配置连接数据库，开启自动迁移时同步表结构.
func Open(ctx context.Context, cfg configs.DBConfig, logCfg configs.LogConfig, withMetrics bool) (*Client, error) {
	dsn := cfg.GetDSN()
	if dsn == "" {
		return nil, fmt.Errorf("failed to generate DSN for database type: %s", cfg.Type)
	}

	factory, exists := dialectorFactories[cfg.Dialect()]
	if !exists {
		return nil, fmt.Errorf("unsupported database type: %s", cfg.Type)
	}

	db, err := gorm.Open(factory(dsn), &gorm.Config{
		Logger:                                   newGormLogger(logCfg),
		TranslateError:                           true,
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	client := &Client{DB: db}

	if withMetrics {
		if err := client.RegisterGORMMetrics(cfg.Database); err != nil {
			return nil, err
		}
	}

	if cfg.AutoMigrate {
		if err := client.Migrate(ctx); err != nil {
			return nil, err
		}
	}

	nlog.Logger().Info().
		Str("type", string(cfg.Dialect())).
		Str("host", cfg.Host).
		Str("database", cfg.Database).
		Msg("database connected")

	return client, nil
}

// GetDB 返回 GORM DB 实例.
func (c *Client) GetDB() *gorm.DB {
	return c.DB
}

// Close 关闭底层连接池.
func (c *Client) Close() error {
	sqlDB, err := c.DB.DB()
	if err != nil {
		return err
	}

	return sqlDB.Close()
}

// newGormLogger 让 gorm 的 SQL 日志走 zerolog，debug 级别下输出每条 SQL.
func newGormLogger(cfg configs.LogConfig) logger.Interface {
	level := logger.Warn
	if cfg.Level == "debug" || cfg.Level == "trace" {
		level = logger.Info
	}

	gl := nlog.Component("gorm")

	return logger.New(&gl, logger.Config{
		SlowThreshold:             cfg.SlowThreshold,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}

const defaultGORMMetricsRefreshInterval = 15 // 秒

// RegisterGORMMetrics 注册 GORM 连接池指标到默认注册表.
func (c *Client) RegisterGORMMetrics(dbName string) error {
	promConfig := gormPrometheus.Config{
		DBName:          dbName,
		RefreshInterval: defaultGORMMetricsRefreshInterval,
		StartServer:     false,
	}

	if err := c.Use(gormPrometheus.New(promConfig)); err != nil {
		return fmt.Errorf("failed to register GORM prometheus plugin: %w", err)
	}

	return nil
}
