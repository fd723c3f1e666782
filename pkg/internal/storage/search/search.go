// Package search 基于 bleve 提供文件名与正文的全文检索.
package search

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/yeisme/filevault/pkg/configs"
	nlog "github.com/yeisme/filevault/pkg/log"
)

// Document 是写入索引的单个文件文档，文档 ID 即文件相对路径，
// 因此按路径删除不需要先查询.
type Document struct {
	Name      string `json:"name"`
	Path      string `json:"path"`
	Body      string `json:"body"`
	UpdatedAt int64  `json:"updated_at"`
}

// Hit 单条检索结果.
type Hit struct {
	Path  string  `json:"path"`
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// Client 包装 bleve 索引句柄，写操作串行化.
type Client struct {
	idx  bleve.Index
	mu   sync.Mutex
	topN int
}

// New 打开或创建磁盘索引.
func New(cfg *configs.SearchConfig) (*Client, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.IndexPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to prepare search index dir: %w", err)
	}

	idx, err := bleve.Open(cfg.IndexPath)
	if err == bleve.ErrorIndexPathDoesNotExist {
		idx, err = bleve.New(cfg.IndexPath, buildMapping())
	}

	if err != nil {
		return nil, fmt.Errorf("failed to open search index: %w", err)
	}

	nlog.Logger().Info().Str("path", cfg.IndexPath).Msg("搜索索引打开成功")

	return &Client{idx: idx, topN: cfg.TopN}, nil
}

// NewInMemory 创建内存索引，测试使用.
func NewInMemory(topN int) (*Client, error) {
	idx, err := bleve.NewMemOnly(buildMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory search index: %w", err)
	}

	return &Client{idx: idx, topN: topN}, nil
}

func buildMapping() mapping.IndexMapping {
	docMap := bleve.NewDocumentMapping()

	nameField := bleve.NewTextFieldMapping()
	nameField.Store = true
	docMap.AddFieldMappingsAt("name", nameField)

	pathField := bleve.NewTextFieldMapping()
	pathField.Analyzer = keyword.Name
	pathField.Store = true
	docMap.AddFieldMappingsAt("path", pathField)

	// 正文只参与打分，不回存
	bodyField := bleve.NewTextFieldMapping()
	bodyField.Store = false
	bodyField.IncludeInAll = true
	docMap.AddFieldMappingsAt("body", bodyField)

	updatedField := bleve.NewNumericFieldMapping()
	updatedField.Store = true
	docMap.AddFieldMappingsAt("updated_at", updatedField)

	m := bleve.NewIndexMapping()
	m.DefaultMapping = docMap

	return m
}

// Insert 批量写入文档，同路径旧文档被覆盖.
func (c *Client) Insert(docs []Document) error {
	if len(docs) == 0 {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	batch := c.idx.NewBatch()
	for _, doc := range docs {
		if err := batch.Index(doc.Path, doc); err != nil {
			return fmt.Errorf("failed to add document %q to batch: %w", doc.Path, err)
		}
	}

	if err := c.idx.Batch(batch); err != nil {
		return fmt.Errorf("failed to index batch: %w", err)
	}

	return nil
}

// Search 在文件名与正文上做全文检索，按相关度取前 topN 条.
func (c *Client) Search(ctx context.Context, q string) ([]Hit, error) {
	nameQuery := bleve.NewMatchQuery(q)
	nameQuery.SetField("name")

	bodyQuery := bleve.NewMatchQuery(q)
	bodyQuery.SetField("body")

	req := bleve.NewSearchRequestOptions(
		query.NewDisjunctionQuery([]query.Query{nameQuery, bodyQuery}),
		c.topN, 0, false,
	)
	req.Fields = []string{"name"}

	res, err := c.idx.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to search index: %w", err)
	}

	hits := make([]Hit, 0, len(res.Hits))
	for _, h := range res.Hits {
		name, _ := h.Fields["name"].(string)
		hits = append(hits, Hit{Path: h.ID, Name: name, Score: h.Score})
	}

	return hits, nil
}

// DeleteByPaths 按路径精确删除文档，路径不存在时静默跳过.
func (c *Client) DeleteByPaths(paths []string) error {
	if len(paths) == 0 {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	batch := c.idx.NewBatch()
	for _, p := range paths {
		batch.Delete(p)
	}

	if err := c.idx.Batch(batch); err != nil {
		return fmt.Errorf("failed to delete documents: %w", err)
	}

	return nil
}

const staleDeletePageSize = 500

// DeleteStale 删除 updated_at 早于 before 的全部文档，
// 即本轮遍历没有触达的已消失文件.
func (c *Client) DeleteStale(ctx context.Context, before int64) (int, error) {
	min := 0.0
	max := float64(before)
	incMin := true
	incMax := false

	deleted := 0

	for {
		rangeQuery := bleve.NewNumericRangeInclusiveQuery(&min, &max, &incMin, &incMax)
		rangeQuery.SetField("updated_at")

		req := bleve.NewSearchRequestOptions(rangeQuery, staleDeletePageSize, 0, false)

		res, err := c.idx.SearchInContext(ctx, req)
		if err != nil {
			return deleted, fmt.Errorf("failed to query stale documents: %w", err)
		}

		if len(res.Hits) == 0 {
			return deleted, nil
		}

		paths := make([]string, 0, len(res.Hits))
		for _, h := range res.Hits {
			paths = append(paths, h.ID)
		}

		if err := c.DeleteByPaths(paths); err != nil {
			return deleted, err
		}

		deleted += len(paths)
	}
}

// DocCount 返回索引内文档总数.
func (c *Client) DocCount() (uint64, error) {
	return c.idx.DocCount()
}

// Close 关闭索引句柄.
func (c *Client) Close() error {
	return c.idx.Close()
}
