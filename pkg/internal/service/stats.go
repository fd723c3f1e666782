package service

import (
	"context"
	"fmt"

	"github.com/yeisme/filevault/pkg/internal/model"
	"github.com/yeisme/filevault/pkg/internal/types"
)

// StorageSummary 按 MIME 格式聚合 owner 子树的占用情况.
func (fs *FileService) StorageSummary(ctx context.Context, owner string) (types.StorageSummaryResponse, error) {
	rows := []types.StorageSummaryRow{}

	err := fs.dbClient.WithContext(ctx).
		Model(&model.FileIndex{}).
		Select("format, is_dir, COUNT(*) AS count, SUM(size) AS total_size").
		Where("owner = ?", owner).
		Group("format").
		Group("is_dir").
		Scan(&rows).Error
	if err != nil {
		return types.StorageSummaryResponse{}, fmt.Errorf("failed to summarize storage: %w", err)
	}

	return types.StorageSummaryResponse{Rows: rows}, nil
}
