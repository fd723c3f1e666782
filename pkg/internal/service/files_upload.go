package service

import (
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"

	"github.com/yeisme/filevault/pkg/internal/types"
)

// Upload 把 multipart 表单里的文件写入 owner 子树的 dir 下.
// 全部落盘成功后发布一个携带所有路径的 added 事件；
// 中途失败时为已落盘的部分发布事件后返回错误.
func (fs *FileService) Upload(ctx context.Context, owner, dir string, files []*multipart.FileHeader) (types.UploadResponse, error) {
	saved := make([]string, 0, len(files))

	for _, fh := range files {
		name := filepath.Base(fh.Filename)
		if name == "." || name == "" || name == string(filepath.Separator) {
			fs.publishAdded(ctx, saved)

			return types.UploadResponse{Saved: saved}, fmt.Errorf("invalid file name %q", fh.Filename)
		}

		rel := filepath.Join(dir, name)

		src, err := fh.Open()
		if err != nil {
			fs.publishAdded(ctx, saved)

			return types.UploadResponse{Saved: saved}, fmt.Errorf("failed to open upload %q: %w", fh.Filename, err)
		}

		err = fs.vault.Save(owner, rel, src)
		src.Close()

		if err != nil {
			fs.publishAdded(ctx, saved)

			return types.UploadResponse{Saved: saved}, err
		}

		full, err := fs.vault.RelJoin(owner, rel)
		if err != nil {
			fs.publishAdded(ctx, saved)

			return types.UploadResponse{Saved: saved}, err
		}

		saved = append(saved, full)
	}

	fs.publishAdded(ctx, saved)

	return types.UploadResponse{Saved: saved}, nil
}
