package middleware

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/yeisme/filevault/pkg/configs"
)

// CORSMiddleware CORS中间件.
func CORSMiddleware(cfg configs.ServerConfig) gin.HandlerFunc {
	config := cors.DefaultConfig()
	config.AllowOrigins = []string{"*"}

	config.AllowWebSockets = true
	config.AllowFiles = true
	config.AllowHeaders = append(config.AllowHeaders, "Range", "X-Owner")

	if cfg.Debug {
		config.AllowAllOrigins = true
	}

	return cors.New(config)
}
