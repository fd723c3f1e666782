// Package indexer 维护文件索引：全量遍历落库、事件驱动的增量更新、
// 以及两个存储（关系库与搜索索引）之间的世代对账.
package indexer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"gorm.io/gorm/clause"

	"github.com/yeisme/filevault/pkg/configs"
	"github.com/yeisme/filevault/pkg/internal/model"
	dbc "github.com/yeisme/filevault/pkg/internal/storage/db"
	searchc "github.com/yeisme/filevault/pkg/internal/storage/search"
	"github.com/yeisme/filevault/pkg/internal/types"
	nlog "github.com/yeisme/filevault/pkg/log"
	"github.com/yeisme/filevault/pkg/metrics"
)

// Indexer 文件索引器.依赖显式注入，不读全局状态，方便测试.
type Indexer struct {
	db     *dbc.Client
	search *searchc.Client
	root   string
	cfg    configs.IndexConfig

	mu        sync.RWMutex
	state     types.IndexState
	processed int
	message   string
}

// New 创建索引器，root 是磁盘上的仓库根目录.
func New(db *dbc.Client, search *searchc.Client, root string, cfg configs.IndexConfig) *Indexer {
	return &Indexer{
		db:     db,
		search: search,
		root:   root,
		cfg:    cfg,
		state:  types.IndexStateIdle,
	}
}

// Status 返回状态快照.
func (ix *Indexer) Status() types.IndexStatusResponse {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	resp := types.IndexStatusResponse{State: ix.state}

	switch ix.state {
	case types.IndexStateRunning:
		resp.Processed = ix.processed
	case types.IndexStateError:
		resp.Message = ix.message
	}

	return resp
}

// TriggerNow 异步发起一轮全量遍历.已有遍历在跑时静默忽略，立即返回.
func (ix *Indexer) TriggerNow() {
	go func() {
		if err := ix.Walk(); err != nil {
			nlog.Logger().Error().Err(err).Msg("index walk failed")
		}
	}()
}

// Walk 同步执行一轮全量遍历.已有遍历在跑时无副作用直接返回 nil.
func (ix *Indexer) Walk() error {
	if !ix.beginWalk() {
		metrics.IndexWalkTotal.WithLabelValues("busy").Inc()

		return nil
	}

	epoch := time.Now().UnixMilli()

	if err := ix.walk(epoch); err != nil {
		ix.failWalk(err)
		metrics.IndexWalkTotal.WithLabelValues("error").Inc()

		return err
	}

	ix.finishWalk()
	metrics.IndexWalkTotal.WithLabelValues("success").Inc()

	return nil
}

// beginWalk 尝试把状态推进到 running，失败说明已有遍历在跑.
func (ix *Indexer) beginWalk() bool {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if ix.state == types.IndexStateRunning {
		return false
	}

	ix.state = types.IndexStateRunning
	ix.processed = 0
	ix.message = ""

	return true
}

func (ix *Indexer) failWalk(err error) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	// 出错前已入库的批次保持不动，下一轮遍历会对账
	ix.state = types.IndexStateError
	ix.message = err.Error()
}

func (ix *Indexer) finishWalk() {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	ix.state = types.IndexStateIdle
	ix.processed = 0
}

func (ix *Indexer) addProcessed(n int) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if ix.state == types.IndexStateRunning {
		ix.processed += n
		metrics.IndexedFiles.Set(float64(ix.processed))
	}
}

func (ix *Indexer) walk(epoch int64) error {
	throttle := time.Duration(ix.cfg.ThrottleMs) * time.Millisecond

	batch := make([]string, 0, ix.cfg.BatchSize+1)

	flush := func(sleep bool) error {
		if len(batch) == 0 {
			return nil
		}

		n := len(batch)

		if err := ix.insertBatch(batch, epoch); err != nil {
			return err
		}

		ix.addProcessed(n)

		batch = batch[:0]

		if sleep {
			time.Sleep(throttle)
		}

		return nil
	}

	err := ix.enumerate("", func(rel string) error {
		batch = append(batch, rel)
		if len(batch) > ix.cfg.BatchSize {
			return flush(true)
		}

		return nil
	})
	if err != nil {
		return err
	}

	if err := flush(false); err != nil {
		return err
	}

	return ix.reconcile(epoch)
}

// enumerate 深度优先遍历仓库，对每个条目回调仓库相对路径.
// 默认不穿过符号链接，index.follow_symlinks 打开后把链接目录当普通目录走.
func (ix *Indexer) enumerate(rel string, fn func(rel string) error) error {
	abs := filepath.Join(ix.root, rel)

	info, err := ix.statEntry(abs)
	if err != nil {
		return fmt.Errorf("failed to stat %q: %w", rel, err)
	}

	if rel != "" {
		if err := fn(rel); err != nil {
			return err
		}
	}

	if !info.IsDir() {
		return nil
	}

	entries, err := os.ReadDir(abs)
	if err != nil {
		return fmt.Errorf("failed to read dir %q: %w", rel, err)
	}

	for _, entry := range entries {
		if err := ix.enumerate(filepath.Join(rel, entry.Name()), fn); err != nil {
			return err
		}
	}

	return nil
}

func (ix *Indexer) statEntry(abs string) (os.FileInfo, error) {
	if ix.cfg.FollowSymlinks {
		return os.Stat(abs)
	}

	return os.Lstat(abs)
}

// insertBatch 把一批仓库相对路径写入两个存储.
// 正文每次都重新抽取：搜索文档的世代号必须随本轮刷新，
// 否则对账会把未变化文件的文档当成失效数据清掉.抽取失败不影响行写入.
func (ix *Indexer) insertBatch(paths []string, epoch int64) error {
	rows := make([]model.FileIndex, 0, len(paths))
	docs := make([]searchc.Document, 0, len(paths))

	for _, rel := range paths {
		abs := filepath.Join(ix.root, rel)

		info, err := ix.statEntry(abs)
		if err != nil {
			return fmt.Errorf("failed to stat %q: %w", rel, err)
		}

		modified := info.ModTime().UnixMilli()

		format := ""
		if !info.IsDir() {
			if mt, err := mimetype.DetectFile(abs); err == nil {
				format = mt.String()
			}
		}

		name := filepath.Base(abs)

		body, ok, err := extractBody(abs, format, info.Size(), ix.cfg.MaxExtractSize)
		if err != nil {
			nlog.Logger().Warn().Err(err).Str("path", rel).Msg("content extraction failed")
		} else if ok {
			docs = append(docs, searchc.Document{
				Name:      name,
				Path:      rel,
				Body:      body,
				UpdatedAt: epoch,
			})
		}

		rows = append(rows, model.FileIndex{
			FileName:   name,
			FilePath:   rel,
			Owner:      ownerOf(rel),
			Size:       info.Size(),
			CreatedAt:  modified,
			ModifiedAt: modified,
			Format:     format,
			IsDir:      info.IsDir(),
			UpdatedAt:  epoch,
		})
	}

	if err := ix.search.Insert(docs); err != nil {
		return err
	}

	if len(rows) > 0 {
		err := ix.db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "file_path"}, {Name: "updated_at"}},
			UpdateAll: true,
		}).Create(&rows).Error
		if err != nil {
			return fmt.Errorf("failed to insert index rows: %w", err)
		}
	}

	return nil
}

// ownerOf 取仓库相对路径的第一个分量，即该条目所属的 owner 子树.
// 根下的一级条目本身就是 owner 目录.
func ownerOf(rel string) string {
	rel = filepath.ToSlash(rel)
	if i := strings.IndexByte(rel, '/'); i >= 0 {
		return rel[:i]
	}

	return rel
}

// reconcile 世代对账：磁盘上已消失的条目本轮没有被触达，
// 关系库里清掉世代不等于本轮的行，搜索索引里清掉世代早于本轮的文档.
func (ix *Indexer) reconcile(epoch int64) error {
	if err := ix.db.Where("updated_at != ?", epoch).Delete(&model.FileIndex{}).Error; err != nil {
		return fmt.Errorf("failed to reconcile index rows: %w", err)
	}

	if _, err := ix.search.DeleteStale(context.Background(), epoch); err != nil {
		return err
	}

	return nil
}

// OnFilesAdded 文件落盘后的增量索引，使用新鲜世代号.
func (ix *Indexer) OnFilesAdded(paths []string) error {
	if len(paths) == 0 {
		return nil
	}

	return ix.insertBatch(paths, time.Now().UnixMilli())
}

// OnFilesDeleted 精确删除两个存储里的指定路径.
func (ix *Indexer) OnFilesDeleted(paths []string) error {
	if len(paths) == 0 {
		return nil
	}

	if err := ix.db.Where("file_path IN ?", paths).Delete(&model.FileIndex{}).Error; err != nil {
		return fmt.Errorf("failed to delete index rows: %w", err)
	}

	return ix.search.DeleteByPaths(paths)
}
