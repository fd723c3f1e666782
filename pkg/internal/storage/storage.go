// Package storage 聚合索引库、搜索索引与消息队列等存储资源.
//
// Example:
//
// 初始化
//
//	 ctx := context.Background()
//	 mgr, err := storage.Init(ctx)
//
//		if err != nil {
//		    // 处理错误
//		}
//
// 获取存储客户端
//
//	dbClient := mgr.GetDBClient()
//	searchClient := mgr.GetSearchClient()
package storage

import (
	"context"
	"sync"

	"github.com/yeisme/filevault/pkg/configs"
	"github.com/yeisme/filevault/pkg/internal/model"
	dbc "github.com/yeisme/filevault/pkg/internal/storage/db"
	mqc "github.com/yeisme/filevault/pkg/internal/storage/mq"
	searchc "github.com/yeisme/filevault/pkg/internal/storage/search"
	nlog "github.com/yeisme/filevault/pkg/log"
)

// Manager 聚合所有存储资源.
type Manager struct {
	DB     *dbc.Client
	Search *searchc.Client
	MQ     *mqc.Client
}

var (
	mgr     *Manager
	mgrOnce sync.Once
)

// Init 初始化默认存储，使用全局配置.重复调用只返回已初始化实例.
func Init(ctx context.Context) (*Manager, error) {
	var err error

	mgrOnce.Do(func() {
		cfg := configs.GetConfig()
		m := &Manager{}

		// DB
		dbi, e := dbc.New(ctx, &cfg.DB)
		if e != nil {
			err = e

			return
		}

		if e := dbi.AutoMigrate(&model.FileIndex{}); e != nil {
			err = e

			return
		}

		m.DB = dbi

		// Search
		si, e := searchc.New(&cfg.Search)
		if e != nil {
			err = e

			return
		}

		m.Search = si

		// MQ
		mqi, e := mqc.New(ctx, &cfg.MQ)
		if e != nil {
			err = e

			return
		}

		m.MQ = mqi

		mgr = m

		nlog.Logger().Info().Msg("storage manager initialized")
	})

	return mgr, err
}

// GetDBClient 获取 DB 客户端.
func (m *Manager) GetDBClient() *dbc.Client {
	return m.DB
}

// GetSearchClient 获取搜索索引客户端.
func (m *Manager) GetSearchClient() *searchc.Client {
	return m.Search
}

// GetMQClient 获取 MQ 客户端.
func (m *Manager) GetMQClient() *mqc.Client {
	return m.MQ
}

// Close 释放全部存储资源.
func (m *Manager) Close() error {
	var firstErr error

	if m.MQ != nil {
		if err := m.MQ.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	if m.Search != nil {
		if err := m.Search.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	if m.DB != nil {
		if sqlDB, err := m.DB.DB.DB(); err == nil {
			if err := sqlDB.Close(); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}

	return firstErr
}
