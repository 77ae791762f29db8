package middleware

import (
	"NeuroMirrorGo/utils"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// SessionAuth 可选会话中间件。未携带令牌的请求直接放行，
// 携带令牌时校验并把绑定的会话ID写入上下文，优先于请求参数。
func SessionAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := c.GetHeader("Authorization")
		if tokenString == "" {
			c.Next()
			return
		}
		tokenString = strings.TrimPrefix(tokenString, "Bearer ")

		// 解析 JWT
		claims, err := utils.ParseToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "无效的认证信息"})
			return
		}

		// 将会话ID存储在 gin.Context 中
		c.Set("session_id", claims.SessionID)
		c.Next()
	}
}
