// Package service 实现文件仓库的业务逻辑，不处理 HTTP 细节.
package service

import (
	"context"

	"github.com/yeisme/filevault/pkg/configs"
	ctxPkg "github.com/yeisme/filevault/pkg/context"
	"github.com/yeisme/filevault/pkg/internal/storage/db"
	"github.com/yeisme/filevault/pkg/internal/storage/mq"
	"github.com/yeisme/filevault/pkg/internal/storage/search"
	"github.com/yeisme/filevault/pkg/internal/types"
	"github.com/yeisme/filevault/pkg/internal/vfs"
	nlog "github.com/yeisme/filevault/pkg/log"
	"github.com/yeisme/filevault/pkg/queue"
)

// FileService 负责文件仓库业务逻辑：磁盘操作 + 索引事件发布.
type FileService struct {
	vault        *vfs.Vault
	dbClient     *db.Client
	searchClient *search.Client
	mqClient     *mq.Client
}

// NewFileService 从 context 获取依赖实例.
func NewFileService(c context.Context) *FileService {
	dbc := ctxPkg.GetDBClient(c)
	sc := ctxPkg.GetSearchClient(c)
	mqc := ctxPkg.GetMQClient(c)

	// 为了安全起见，直接 panic 而不是返回 nil，依赖此服务就不需要再检查
	if dbc == nil || dbc.DB == nil || sc == nil || mqc == nil {
		nlog.Logger().Fatal().Msg("storage clients not initialized")
	}

	vault := &vfs.Vault{Root: configs.GetConfig().Vault.FileRoot}

	return &FileService{
		vault:        vault,
		dbClient:     dbc,
		searchClient: sc,
		mqClient:     mqc,
	}
}

// Stat 返回单个路径的元数据.
func (fs *FileService) Stat(ctx context.Context, owner, file string) (types.FileStat, error) {
	return fs.vault.Stat(owner, file)
}

// List 列出目录内容.
func (fs *FileService) List(ctx context.Context, owner, dir string) (types.ListDirResponse, error) {
	entries, err := fs.vault.ReadDir(owner, dir)
	if err != nil {
		return types.ListDirResponse{}, err
	}

	return types.ListDirResponse{Entries: entries}, nil
}

// CreateDir 创建单层目录并发布 added 事件.
func (fs *FileService) CreateDir(ctx context.Context, owner, dir string) error {
	if err := fs.vault.CreateDir(owner, dir); err != nil {
		return err
	}

	rel, err := fs.vault.RelJoin(owner, dir)
	if err != nil {
		return err
	}

	fs.publishAdded(ctx, []string{rel})

	return nil
}

// Delete 删除文件或目录树，成功后发布 deleted 事件.
func (fs *FileService) Delete(ctx context.Context, owner, file string) error {
	rel, err := fs.vault.RelJoin(owner, file)
	if err != nil {
		return err
	}

	if err := fs.vault.Delete(owner, file); err != nil {
		return err
	}

	fs.publishDeleted(ctx, []string{rel})

	return nil
}

// DeleteBatch 批量删除，遇到第一个失败就停.
// 失败前已删除的条目保持已删除，并且仍会为它们发布 deleted 事件，
// 让索引跟上磁盘的真实状态.
func (fs *FileService) DeleteBatch(ctx context.Context, owner string, files []string) error {
	deleted, err := fs.vault.DeleteBatch(owner, files)

	fs.publishDeleted(ctx, deleted)

	return err
}

func (fs *FileService) publishAdded(ctx context.Context, paths []string) {
	if len(paths) == 0 {
		return
	}

	err := queue.PublishFileAdded(fs.mqClient.Publisher(), queue.FileEventPayload{
		Paths:  paths,
		Source: "filevault",
	})
	if err != nil {
		// 事件只是索引的快速通道，丢失由下一次全量遍历兜底
		nlog.Logger().Error().Err(err).Strs("paths", paths).Msg("failed to publish added event")
	}
}

func (fs *FileService) publishDeleted(ctx context.Context, paths []string) {
	if len(paths) == 0 {
		return
	}

	err := queue.PublishFileDeleted(fs.mqClient.Publisher(), queue.FileEventPayload{
		Paths:  paths,
		Source: "filevault",
	})
	if err != nil {
		nlog.Logger().Error().Err(err).Strs("paths", paths).Msg("failed to publish deleted event")
	}
}
