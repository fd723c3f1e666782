// Package router 管理路由配置，将路径绑定到 handle 包的处理器.
package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterAll 在 /api/v1 下注册全部业务路由.
func RegisterAll(api *gin.RouterGroup) {
	RegisterFSRoutes(api)
	RegisterHealthCheckRoute(api)
}
