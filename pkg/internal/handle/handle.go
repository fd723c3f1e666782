// Package handle 提供 HTTP 请求处理器的实现.
package handle

import (
	"errors"
	"io/fs"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/filevault/pkg/internal/vfs"
	nlog "github.com/yeisme/filevault/pkg/log"
)

// abortWithError 把业务错误映射到状态码：
// 越界路径 -> 400，目标不存在 -> 404，其余 -> 500.
func abortWithError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, vfs.ErrPathSecurity):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, fs.ErrNotExist):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		nlog.Logger().Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
