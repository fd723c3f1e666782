package types

// StorageSummaryRow 按格式聚合的占用统计.
type StorageSummaryRow struct {
	Format    string `json:"format"`
	IsDir     bool   `json:"is_dir"`
	Count     int64  `json:"count"`
	TotalSize int64  `json:"total_size"`
}

// StorageSummaryResponse 存储占用汇总.
type StorageSummaryResponse struct {
	Rows []StorageSummaryRow `json:"rows"`
}
