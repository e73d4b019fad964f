package web

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRoutes 设置路由
func SetupRoutes(r *gin.Engine) {
	// Prometheus metrics 端点（不需要认证，供 Prometheus 抓取）
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API 路由
	api := r.Group("/api")
	{
		// 公开的认证相关路由（不需要认证）
		auth := api.Group("/auth")
		{
			auth.GET("/status", getAuthStatus)
			auth.POST("/password/set", setPassword)
			auth.POST("/password/verify", verifyPassword)
			auth.POST("/logout", logout)
		}

		// 版本号与健康检查（不需要认证）
		api.GET("/version", getVersion)
		api.GET("/health", getHealth)

		// 需要认证的认证路由
		authProtected := api.Group("/auth")
		authProtected.Use(authMiddleware())
		{
			authProtected.POST("/password/change", changePassword)
		}

		// 需要认证的业务API
		protected := api.Group("")
		protected.Use(authMiddleware())
		{
			protected.GET("/challenges", listChallenges)
			protected.POST("/challenges", createChallenge)
			protected.GET("/challenges/active", getActiveChallenge)
			protected.GET("/challenges/:id", getChallenge)
			protected.POST("/challenges/:id/complete", completeChallenge)
			protected.POST("/challenges/:id/abandon", abandonChallenge)
			protected.POST("/challenges/:id/rollover", rolloverChallenge)

			protected.GET("/trades", listTrades)
			protected.POST("/trades", createTrade)

			protected.GET("/rules", getRules)
			protected.PUT("/rules", updateRules)

			protected.GET("/dashboard", getDashboard)
			protected.GET("/statistics", getStatistics)
			protected.GET("/summaries", getDailySummaries)
		}
	}

	// WebSocket（认证后才能建立连接）
	r.GET("/ws", authMiddleware(), handleWebSocket)

	// 前端静态文件（配置了目录时挂载，前端路由回退到 index.html）
	if cfg := GetConfig(); cfg != nil && cfg.Server.StaticDir != "" {
		r.Static("/assets", cfg.Server.StaticDir+"/assets")
		r.StaticFile("/", cfg.Server.StaticDir+"/index.html")
		r.NoRoute(func(c *gin.Context) {
			c.File(cfg.Server.StaticDir + "/index.html")
		})
	} else {
		r.NoRoute(func(c *gin.Context) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		})
	}
}
