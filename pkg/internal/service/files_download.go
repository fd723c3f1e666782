package service

import (
	"context"
	"io"

	"github.com/yeisme/filevault/pkg/internal/types"
	"github.com/yeisme/filevault/pkg/internal/vfs"
)

// RangeResult 范围读取的打开结果.
type RangeResult struct {
	Reader  io.ReadCloser
	Start   int64
	End     int64
	Size    int64
	Partial bool
}

// OpenRange 按 Range 头打开文件流.头缺失或无法解析时返回整个文件.
func (fs *FileService) OpenRange(ctx context.Context, owner, file, rangeHeader string) (RangeResult, error) {
	stat, err := fs.vault.Stat(owner, file)
	if err != nil {
		return RangeResult{}, err
	}

	start, end, partial := vfs.ParseRange(rangeHeader, stat.Size)

	r, err := fs.vault.OpenRange(owner, file, start, end)
	if err != nil {
		return RangeResult{}, err
	}

	return RangeResult{
		Reader:  r,
		Start:   start,
		End:     end,
		Size:    stat.Size,
		Partial: partial,
	}, nil
}

// OpenZipStream 把文件或目录打包成 zip 流.
func (fs *FileService) OpenZipStream(ctx context.Context, owner, file string) (io.ReadCloser, error) {
	return fs.vault.ZipStream(owner, file)
}

// ZipEntries 读取 zip 文件的目录树.
func (fs *FileService) ZipEntries(ctx context.Context, owner, file string) (types.ZipEntry, error) {
	return fs.vault.ReadZipEntries(owner, file)
}
