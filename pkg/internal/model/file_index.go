// Package model 定义索引库的数据模型.
package model

// FileIndex 文件索引行.主键是 (file_path, updated_at) 复合键：
// 一轮全量遍历期间同一路径可以短暂存在多个世代的行，
// 遍历收尾时删除 updated_at 不等于本轮世代的行即完成对账.
type FileIndex struct {
	FilePath string `gorm:"primaryKey;size:1024" json:"file_path"`
	// UpdatedAt 是写入该行的那轮遍历的世代号（Unix 毫秒）
	UpdatedAt int64  `gorm:"primaryKey;index" json:"updated_at"`
	FileName  string `gorm:"size:512;index"   json:"file_name"`
	// 所有者标识，预留多租户
	Owner string `gorm:"size:255;index" json:"owner"`
	Size  int64  `gorm:"index"          json:"size"`
	// 文件系统时间戳，Unix 毫秒
	CreatedAt  int64 `json:"created_at"`
	ModifiedAt int64 `gorm:"index" json:"modified_at"`
	// MIME 类型，多个候选以 | 连接
	Format string `gorm:"size:255;index" json:"format"`
	IsDir  bool   `gorm:"index"          json:"is_dir"`
}

// TableName 指定表名.
func (FileIndex) TableName() string {
	return "file_indices"
}
