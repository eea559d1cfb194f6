// Package storage 聚合数据库、对象存储、KV 与消息队列客户端.
//
// Example:
//
//	mgr, err := storage.Init(ctx)
//	if err != nil {
//		// 处理错误
//	}
//
//	db := mgr.GetDBClient().GetDB()
package storage

import (
	"context"
	"errors"
	"sync"

	"github.com/yeisme/videocatalog/pkg/configs"
	dbc "github.com/yeisme/videocatalog/pkg/internal/storage/db"
	kvc "github.com/yeisme/videocatalog/pkg/internal/storage/kv"
	mqc "github.com/yeisme/videocatalog/pkg/internal/storage/mq"
	s3c "github.com/yeisme/videocatalog/pkg/internal/storage/s3"
	nlog "github.com/yeisme/videocatalog/pkg/log"
)

// Manager 聚合所有存储资源. S3 与 MQ 按配置可为空.
type Manager struct {
	S3 *s3c.Client
	DB *dbc.Client
	KV *kvc.Client
	MQ *mqc.Client
}

var (
	mgr     *Manager
	mgrErr  error
	mgrOnce sync.Once
)

// Init 初始化默认存储，使用全局配置.重复调用只返回已初始化实例.
func Init(ctx context.Context) (*Manager, error) {
	mgrOnce.Do(func() {
		mgr, mgrErr = open(ctx, configs.GetConfig())
	})

	return mgr, mgrErr
}

func open(ctx context.Context, cfg *configs.AppConfig) (*Manager, error) {
	m := &Manager{}

	dbi, err := dbc.New(ctx)
	if err != nil {
		return nil, err
	}

	m.DB = dbi

	// 读缓存关闭时不需要 KV
	if cfg.Cache.Enabled {
		if m.KV, err = kvc.NewKVClient(ctx); err != nil {
			return nil, errors.Join(err, m.Close())
		}
	}

	if cfg.S3.Enabled {
		if m.S3, err = s3c.New(ctx); err != nil {
			return nil, errors.Join(err, m.Close())
		}
	}

	if cfg.Events.Enabled {
		if m.MQ, err = mqc.New(ctx); err != nil {
			return nil, errors.Join(err, m.Close())
		}
	}

	nlog.Logger().Info().
		Bool("kv", m.KV != nil).
		Bool("s3", m.S3 != nil).
		Bool("mq", m.MQ != nil).
		Msg("storage manager initialized")

	return m, nil
}

// GetS3Client 获取 S3 客户端.
func (m *Manager) GetS3Client() *s3c.Client {
	return m.S3
}

// GetDBClient 获取 DB 客户端.
func (m *Manager) GetDBClient() *dbc.Client {
	return m.DB
}

// GetKVClient 获取 KV 客户端.
func (m *Manager) GetKVClient() *kvc.Client {
	return m.KV
}

// GetMQClient 获取 MQ 客户端.
func (m *Manager) GetMQClient() *mqc.Client {
	return m.MQ
}

// Close 关闭所有已打开的客户端.
func (m *Manager) Close() error {
	var errs []error

	if m.MQ != nil {
		errs = append(errs, m.MQ.Close())
	}

	if m.KV != nil {
		errs = append(errs, m.KV.Close())
	}

	if m.S3 != nil {
		errs = append(errs, m.S3.Close())
	}

	if m.DB != nil {
		errs = append(errs, m.DB.Close())
	}

	return errors.Join(errs...)
}
