package web

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// authMiddleware 认证中间件
func authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		sm := GetSessionManager()
		if sm == nil {
			respondError(c, http.StatusInternalServerError, "error.internal")
			c.Abort()
			return
		}

		session, exists := sm.GetSessionFromRequest(c.Request)
		if !exists || session == nil {
			respondError(c, http.StatusUnauthorized, "error.unauthorized")
			c.Abort()
			return
		}

		// 将会话信息存储到上下文中，供后续处理使用
		c.Set("session", session)
		c.Set("username", session.Username)

		c.Next()
	}
}
