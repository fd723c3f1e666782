// Package types 定义 HTTP 层与 service 层共享的数据结构.
package types

// FileStat 单个文件或目录的元数据，时间戳为 Unix 毫秒.
type FileStat struct {
	IsDir    bool   `json:"is_dir"`
	IsFile   bool   `json:"is_file"`
	Size     int64  `json:"size"`
	Format   string `json:"format,omitempty"` // MIME 类型，多个候选以 | 连接
	Created  int64  `json:"created"`
	Modified int64  `json:"modified"`
	Accessed int64  `json:"accessed"`
}

// FileStatWithName 带文件名的元数据，目录列表使用.
// 显式组合而不是嵌入，保持 JSON 形状扁平可控.
type FileStatWithName struct {
	Name     string `json:"name"`
	IsDir    bool   `json:"is_dir"`
	IsFile   bool   `json:"is_file"`
	Size     int64  `json:"size"`
	Format   string `json:"format,omitempty"`
	Created  int64  `json:"created"`
	Modified int64  `json:"modified"`
	Accessed int64  `json:"accessed"`
}

// ListDirResponse 目录列表结果.
type ListDirResponse struct {
	Entries []FileStatWithName `json:"entries"`
}

// CreateDirRequest 创建目录请求.
type CreateDirRequest struct {
	Path string `binding:"required" json:"path"`
}

// DeleteBatchRequest 批量删除请求.
type DeleteBatchRequest struct {
	Paths []string `binding:"required" json:"paths"`
}

// UploadResponse 上传结果.
type UploadResponse struct {
	Saved []string `json:"saved"` // 已落盘的 owner 相对路径
}

// ZipEntry 压缩包内的一个节点，目录节点携带子节点.
type ZipEntry struct {
	Name     string     `json:"name"`
	Path     string     `json:"path"`
	IsDir    bool       `json:"is_dir"`
	Size     int64      `json:"size,omitempty"`
	Children []ZipEntry `json:"children,omitempty"`
}
