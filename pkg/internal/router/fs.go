package router

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/filevault/pkg/internal/handle"
	"github.com/yeisme/filevault/pkg/middleware"
)

// RegisterFSRoutes 注册文件仓库路由.
// 所有路由都要求 owner 身份（X-Owner 头或 owner 查询参数）.
func RegisterFSRoutes(g *gin.RouterGroup) {
	fs := g.Group("/fs", middleware.OwnerMiddleware())
	{
		fs.GET("/stat", handle.StatFile)
		fs.GET("/list", handle.ListDir)
		fs.POST("/mkdir", handle.CreateDir)
		fs.DELETE("", handle.DeleteFile)
		fs.POST("/delete-batch", handle.DeleteBatch)
		fs.POST("/upload", handle.UploadFiles)

		fs.GET("/download", handle.DownloadFile)
		fs.GET("/download-zip", handle.DownloadZip)
		fs.GET("/zip-entries", handle.ZipEntries)

		fs.GET("/search", handle.SearchFiles)
		fs.GET("/summary", handle.StorageSummary)

		index := fs.Group("/index")
		{
			index.POST("/trigger", handle.TriggerIndex)
			index.GET("/status", handle.IndexStatus)
		}
	}
}
