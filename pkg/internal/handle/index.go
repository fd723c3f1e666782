package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/filevault/pkg/internal/indexer"
)

// globalIndexer 由应用启动时注入，索引相关路由依赖它.
var globalIndexer *indexer.Indexer

// SetIndexer 注入索引器实例.
func SetIndexer(ix *indexer.Indexer) {
	globalIndexer = ix
}

// TriggerIndex 立即发起一轮全量索引.已有遍历在跑时同样返回成功，
// 触发是幂等的无副作用操作.
// POST /api/v1/fs/index/trigger
func TriggerIndex(c *gin.Context) {
	if globalIndexer == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "indexer not ready"})

		return
	}

	globalIndexer.TriggerNow()

	c.JSON(http.StatusOK, gin.H{"message": "triggered"})
}

// IndexStatus 返回索引任务状态快照.
// GET /api/v1/fs/index/status
func IndexStatus(c *gin.Context) {
	if globalIndexer == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "indexer not ready"})

		return
	}

	c.JSON(http.StatusOK, globalIndexer.Status())
}
