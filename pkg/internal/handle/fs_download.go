package handle

import (
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/filevault/pkg/internal/service"
	"github.com/yeisme/filevault/pkg/middleware"
)

// DownloadFile 流式下载，支持 Range.
// GET /api/v1/fs/download?path=videos/a.mp4
func DownloadFile(c *gin.Context) {
	owner := middleware.GetOwner(c)
	path := c.Query("path")

	svc := service.NewFileService(c.Request.Context())

	res, err := svc.OpenRange(c.Request.Context(), owner, path, c.GetHeader("Range"))
	if err != nil {
		abortWithError(c, err)

		return
	}
	defer res.Reader.Close()

	length := res.End - res.Start + 1
	if length < 0 {
		length = 0
	}

	c.Header("Accept-Ranges", "bytes")

	status := http.StatusOK
	if res.Partial {
		status = http.StatusPartialContent

		c.Header("Content-Range", fmt.Sprintf("bytes %d-%d/%d", res.Start, res.End, res.Size))
	}

	c.DataFromReader(status, length, "application/octet-stream", res.Reader, map[string]string{
		"Content-Disposition": fmt.Sprintf("attachment; filename=%q", filepath.Base(path)),
	})
}

// DownloadZip 把文件或目录打包成 zip 下载.
// 打包是流式的，总长度未知，以 chunked 方式发送.
// GET /api/v1/fs/download-zip?path=docs
func DownloadZip(c *gin.Context) {
	owner := middleware.GetOwner(c)
	path := c.Query("path")

	svc := service.NewFileService(c.Request.Context())

	r, err := svc.OpenZipStream(c.Request.Context(), owner, path)
	if err != nil {
		abortWithError(c, err)

		return
	}
	defer r.Close()

	c.DataFromReader(http.StatusOK, -1, "application/zip", r, map[string]string{
		"Content-Disposition": fmt.Sprintf("attachment; filename=%q", filepath.Base(path)+".zip"),
	})
}

// ZipEntries 预览 zip 文件的目录树，不解压.
// GET /api/v1/fs/zip-entries?path=archive.zip
func ZipEntries(c *gin.Context) {
	owner := middleware.GetOwner(c)
	path := c.Query("path")

	svc := service.NewFileService(c.Request.Context())

	root, err := svc.ZipEntries(c.Request.Context(), owner, path)
	if err != nil {
		abortWithError(c, err)

		return
	}

	c.JSON(http.StatusOK, root)
}
