package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/yeisme/filevault/pkg/internal/model"
	"github.com/yeisme/filevault/pkg/internal/types"
)

const searchLimit = 10

// Search 双通道检索：文件名走关系库 LIKE，正文走全文索引.
// 两边都按 owner 子树过滤，各取前 searchLimit 条.
func (fs *FileService) Search(ctx context.Context, owner, kw string) (types.SearchResponse, error) {
	resp := types.SearchResponse{
		NameMatches:    []types.SearchHit{},
		ContentMatches: []types.SearchHit{},
	}

	var rows []model.FileIndex

	err := fs.dbClient.WithContext(ctx).
		Where("owner = ? AND file_name LIKE ?", owner, "%"+kw+"%").
		Limit(searchLimit).
		Find(&rows).Error
	if err != nil {
		return resp, fmt.Errorf("failed to search file names: %w", err)
	}

	for _, row := range rows {
		resp.NameMatches = append(resp.NameMatches, types.SearchHit{
			Name: row.FileName,
			Path: row.FilePath,
		})
	}

	hits, err := fs.searchClient.Search(ctx, kw)
	if err != nil {
		return resp, err
	}

	prefix := owner + "/"
	for _, hit := range hits {
		if !strings.HasPrefix(hit.Path, prefix) {
			continue
		}

		resp.ContentMatches = append(resp.ContentMatches, types.SearchHit{
			Name:  hit.Name,
			Path:  hit.Path,
			Score: hit.Score,
		})
	}

	return resp, nil
}
