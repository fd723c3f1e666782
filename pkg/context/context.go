// Package context 拓展上下文功能，将存储管理器集成到上下文中，方便在应用程序各处传递和使用.
package context

import (
	"context"

	"github.com/yeisme/filevault/pkg/internal/storage"
	dbc "github.com/yeisme/filevault/pkg/internal/storage/db"
	mqc "github.com/yeisme/filevault/pkg/internal/storage/mq"
	searchc "github.com/yeisme/filevault/pkg/internal/storage/search"
)

type ContextKey string

const (
	StorageManagerKey ContextKey = "storageManager"
)

// WithStorageManager 将 Manager 存储到 context 中.
func WithStorageManager(ctx context.Context, mgr *storage.Manager) context.Context {
	return context.WithValue(ctx, StorageManagerKey, mgr)
}

// GetManager 从 context 中获取 Manager.
func GetManager(ctx context.Context) *storage.Manager {
	if mgr, ok := ctx.Value(StorageManagerKey).(*storage.Manager); ok {
		return mgr
	}

	return nil
}

// GetDBClient 从 context 中获取 DB 客户端.
func GetDBClient(ctx context.Context) *dbc.Client {
	if mgr := GetManager(ctx); mgr != nil {
		return mgr.GetDBClient()
	}

	return nil
}

// GetSearchClient 从 context 中获取搜索索引客户端.
func GetSearchClient(ctx context.Context) *searchc.Client {
	if mgr := GetManager(ctx); mgr != nil {
		return mgr.GetSearchClient()
	}

	return nil
}

// GetMQClient 从 context 中获取 MQ 客户端.
func GetMQClient(ctx context.Context) *mqc.Client {
	if mgr := GetManager(ctx); mgr != nil {
		return mgr.GetMQClient()
	}

	return nil
}
