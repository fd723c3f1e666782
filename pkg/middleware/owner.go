package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// OwnerKey 是 gin context 中存放调用者身份的键.
const OwnerKey = "owner"

// OwnerMiddleware 从请求头提取调用者身份（opaque 字符串），该身份同时是
// 文件仓库内的限制子树名. 真正的会话/认证由外层网关完成，这里只消费结果.
//   - 优先 X-Owner，其次 query 参数 owner
//   - 非 Release 模式下允许为空并回退到 test-owner，便于本地调试.
func OwnerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		owner := strings.TrimSpace(c.GetHeader("X-Owner"))
		if owner == "" {
			owner = strings.TrimSpace(c.Query("owner"))
		}

		if owner == "" && gin.Mode() != gin.ReleaseMode {
			owner = "test-owner"
		}

		// 身份串会拼进文件路径，绝不允许包含路径分隔符
		if owner == "" || strings.ContainsAny(owner, "/\\") || owner == ".." {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid owner"})

			return
		}

		c.Set(OwnerKey, owner)
		c.Next()
	}
}

// GetOwner 读取 OwnerMiddleware 写入的身份.
func GetOwner(c *gin.Context) string {
	return c.GetString(OwnerKey)
}
