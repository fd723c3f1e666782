package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/filevault/pkg/internal/service"
	"github.com/yeisme/filevault/pkg/internal/types"
	nlog "github.com/yeisme/filevault/pkg/log"
	"github.com/yeisme/filevault/pkg/middleware"
)

// StatFile 返回单个路径的元数据.
// GET /api/v1/fs/stat?path=docs/a.txt
func StatFile(c *gin.Context) {
	owner := middleware.GetOwner(c)
	path := c.Query("path")

	svc := service.NewFileService(c.Request.Context())

	stat, err := svc.Stat(c.Request.Context(), owner, path)
	if err != nil {
		abortWithError(c, err)

		return
	}

	c.JSON(http.StatusOK, stat)
}

// ListDir 列出目录内容.
// GET /api/v1/fs/list?path=docs
func ListDir(c *gin.Context) {
	owner := middleware.GetOwner(c)
	path := c.Query("path")

	svc := service.NewFileService(c.Request.Context())

	resp, err := svc.List(c.Request.Context(), owner, path)
	if err != nil {
		abortWithError(c, err)

		return
	}

	c.JSON(http.StatusOK, resp)
}

// CreateDir 创建单层目录.
// POST /api/v1/fs/mkdir {"path": "docs/new"}
func CreateDir(c *gin.Context) {
	var req types.CreateDirRequest
	if err := c.ShouldBind(&req); err != nil {
		nlog.Logger().Warn().Err(err).Msg("invalid request")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	owner := middleware.GetOwner(c)
	svc := service.NewFileService(c.Request.Context())

	if err := svc.CreateDir(c.Request.Context(), owner, req.Path); err != nil {
		abortWithError(c, err)

		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "created"})
}

// DeleteFile 删除文件或整个目录树.
// DELETE /api/v1/fs?path=docs/a.txt
func DeleteFile(c *gin.Context) {
	owner := middleware.GetOwner(c)
	path := c.Query("path")

	svc := service.NewFileService(c.Request.Context())

	if err := svc.Delete(c.Request.Context(), owner, path); err != nil {
		abortWithError(c, err)

		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

// DeleteBatch 批量删除，失败即停.
// POST /api/v1/fs/delete-batch {"paths": ["a.txt", "docs"]}
func DeleteBatch(c *gin.Context) {
	var req types.DeleteBatchRequest
	if err := c.ShouldBind(&req); err != nil {
		nlog.Logger().Warn().Err(err).Msg("invalid request")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	owner := middleware.GetOwner(c)
	svc := service.NewFileService(c.Request.Context())

	if err := svc.DeleteBatch(c.Request.Context(), owner, req.Paths); err != nil {
		abortWithError(c, err)

		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

// UploadFiles 接收 multipart 上传并写入 owner 子树.
// POST /api/v1/fs/upload?path=docs 表单字段名 files
func UploadFiles(c *gin.Context) {
	owner := middleware.GetOwner(c)
	dir := c.Query("path")

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	files := form.File["files"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no files provided"})

		return
	}

	svc := service.NewFileService(c.Request.Context())

	resp, err := svc.Upload(c.Request.Context(), owner, dir, files)
	if err != nil {
		abortWithError(c, err)

		return
	}

	c.JSON(http.StatusOK, resp)
}

// SearchFiles 文件名 + 正文双通道检索.
// GET /api/v1/fs/search?q=报告
func SearchFiles(c *gin.Context) {
	kw := c.Query("q")
	if kw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing query"})

		return
	}

	owner := middleware.GetOwner(c)
	svc := service.NewFileService(c.Request.Context())

	resp, err := svc.Search(c.Request.Context(), owner, kw)
	if err != nil {
		abortWithError(c, err)

		return
	}

	c.JSON(http.StatusOK, resp)
}

// StorageSummary 按格式聚合的占用统计.
// GET /api/v1/fs/summary
func StorageSummary(c *gin.Context) {
	owner := middleware.GetOwner(c)
	svc := service.NewFileService(c.Request.Context())

	resp, err := svc.StorageSummary(c.Request.Context(), owner)
	if err != nil {
		abortWithError(c, err)

		return
	}

	c.JSON(http.StatusOK, resp)
}
