package web

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"tradechallenge/config"
	"tradechallenge/database"
	"tradechallenge/metrics"
)

// 版本号，由构建时注入
var Version = "dev"

var (
	// 全局依赖（由 main.go 注入）
	globalDB       database.Database
	globalConfig   *config.Config
	globalLocation *time.Location = time.Local
	configMu       sync.RWMutex
)

// SetDatabase 设置数据库实例
func SetDatabase(db database.Database) {
	globalDB = db
}

// SetConfig 设置配置（热更新时重复调用）
func SetConfig(cfg *config.Config) {
	configMu.Lock()
	defer configMu.Unlock()
	globalConfig = cfg
}

// GetConfig 获取当前配置
func GetConfig() *config.Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return globalConfig
}

// SetLocation 设置业务时区（当日交易按该时区的日历日划分）
func SetLocation(loc *time.Location) {
	globalLocation = loc
}

// currentUserID 当前登录用户（单用户系统，固定为配置的账号名）
func currentUserID(c *gin.Context) string {
	if username, exists := c.Get("username"); exists {
		if u, ok := username.(string); ok {
			return u
		}
	}
	if cfg := GetConfig(); cfg != nil {
		return cfg.Auth.Username
	}
	return "trader"
}

// dayBounds 返回 t 所在日历日的起止时间（按配置时区，结束为开区间）
func dayBounds(t time.Time) (time.Time, time.Time) {
	local := t.In(globalLocation)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, globalLocation)
	return start, start.Add(24 * time.Hour)
}

// respondError 返回本地化错误
func respondError(c *gin.Context, status int, key string, data ...interface{}) {
	c.JSON(status, gin.H{"error": T(c, key, data...)})
}

// respondSuccess 返回带本地化消息的成功响应
func respondSuccess(c *gin.Context, key string, extra gin.H) {
	resp := gin.H{"success": true}
	if key != "" {
		resp["message"] = T(c, key)
	}
	for k, v := range extra {
		resp[k] = v
	}
	c.JSON(http.StatusOK, resp)
}

// getVersion 版本号
// GET /api/version
func getVersion(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"version": Version})
}

// getHealth 健康检查
// GET /api/health
func getHealth(c *gin.Context) {
	if globalDB != nil {
		if err := globalDB.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "down", "error": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// metricsCollector 指标收集器快捷入口
func metricsCollector() *metrics.PrometheusMetrics {
	return metrics.GetPrometheusMetrics()
}
