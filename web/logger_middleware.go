package web

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"tradechallenge/logger"
)

// GinLoggerMiddleware 自定义 Gin 日志中间件
// logAll=true 时全量输出；否则仅记录错误请求 (状态码 >= 400)
// 同时记录 Prometheus HTTP 指标
func GinLoggerMiddleware(logAll bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		statusCode := c.Writer.Status()
		latency := time.Since(start)
		method := c.Request.Method

		// 指标按路由模板记录，避免 ID 参数导致标签爆炸
		metricPath := c.FullPath()
		if metricPath == "" {
			metricPath = "unmatched"
		}
		metricsCollector().RecordHTTPRequest(method, metricPath, statusCode, latency)

		// 非 debug 模式只记录 4xx/5xx
		if !logAll && statusCode < 400 {
			return
		}

		clientIP := c.ClientIP()
		if raw != "" {
			path = path + "?" + raw
		}

		errorMessage := c.Errors.ByType(gin.ErrorTypePrivate).String()

		var logMessage string
		if errorMessage != "" {
			logMessage = fmt.Sprintf("[GIN] %d | %v | %s | %-7s %s | Error: %s",
				statusCode, latency, clientIP, method, path, errorMessage)
		} else {
			logMessage = fmt.Sprintf("[GIN] %d | %v | %s | %-7s %s",
				statusCode, latency, clientIP, method, path)
		}

		logger.WriteWebLog(logMessage)
	}
}
