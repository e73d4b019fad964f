package web

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"tradechallenge/logger"
)

var (
	// 全局密码管理器（由 main.go 注入）
	globalPasswordManager *PasswordManager

	// 每 IP 登录限流器
	loginLimiters   = make(map[string]*rate.Limiter)
	loginLimitersMu sync.Mutex
)

// SetPasswordManager 设置密码管理器
func SetPasswordManager(pm *PasswordManager) {
	globalPasswordManager = pm
}

// loginLimiter 获取或创建 IP 对应的限流器
func loginLimiter(ip string) *rate.Limiter {
	cfg := GetConfig()
	perMin := 5
	burst := 5
	if cfg != nil {
		if cfg.Auth.LoginRatePerMin > 0 {
			perMin = cfg.Auth.LoginRatePerMin
		}
		if cfg.Auth.LoginBurst > 0 {
			burst = cfg.Auth.LoginBurst
		}
	}

	loginLimitersMu.Lock()
	defer loginLimitersMu.Unlock()

	limiter, exists := loginLimiters[ip]
	if !exists {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMin)), burst)
		loginLimiters[ip] = limiter
	}
	return limiter
}

// authUsername 固定账号名（单用户系统）
func authUsername() string {
	if cfg := GetConfig(); cfg != nil && cfg.Auth.Username != "" {
		return cfg.Auth.Username
	}
	return "trader"
}

// getAuthStatus 获取认证状态
// GET /api/auth/status
func getAuthStatus(c *gin.Context) {
	hasPassword := false
	if globalPasswordManager != nil {
		hasPassword, _ = globalPasswordManager.HasPassword(authUsername())
	}

	isAuthenticated := false
	if sm := GetSessionManager(); sm != nil {
		session, exists := sm.GetSessionFromRequest(c.Request)
		isAuthenticated = exists && session != nil
	}

	c.JSON(http.StatusOK, gin.H{
		"has_password":     hasPassword,
		"is_authenticated": isAuthenticated,
	})
}

// setPassword 首次设置密码，成功后自动登录
// POST /api/auth/password/set
func setPassword(c *gin.Context) {
	if globalPasswordManager == nil {
		respondError(c, http.StatusInternalServerError, "error.internal")
		return
	}

	var req struct {
		Password string `json:"password" binding:"required,min=8"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "error.invalid_request")
		return
	}

	username := authUsername()

	// 已有密码时拒绝，修改走 /password/change
	if exists, _ := globalPasswordManager.HasPassword(username); exists {
		respondError(c, http.StatusConflict, "error.password_already_set")
		return
	}

	if err := globalPasswordManager.SetPassword(username, req.Password); err != nil {
		logger.Error("设置密码失败: %v", err)
		respondError(c, http.StatusInternalServerError, "error.internal")
		return
	}

	createSessionAndRespond(c, username, "auth.password_set")
}

// verifyPassword 验证密码并登录
// POST /api/auth/password/verify
func verifyPassword(c *gin.Context) {
	if globalPasswordManager == nil {
		respondError(c, http.StatusInternalServerError, "error.internal")
		return
	}

	if !loginLimiter(c.ClientIP()).Allow() {
		metricsCollector().RecordLoginAttempt("rate_limited")
		respondError(c, http.StatusTooManyRequests, "error.rate_limited")
		return
	}

	var req struct {
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "error.invalid_request")
		return
	}

	username := authUsername()

	if exists, _ := globalPasswordManager.HasPassword(username); !exists {
		respondError(c, http.StatusBadRequest, "error.password_not_set")
		return
	}

	ok, err := globalPasswordManager.VerifyPassword(username, req.Password)
	if err != nil {
		logger.Error("验证密码失败: %v", err)
		respondError(c, http.StatusInternalServerError, "error.internal")
		return
	}
	if !ok {
		metricsCollector().RecordLoginAttempt("failed")
		respondError(c, http.StatusUnauthorized, "error.invalid_credentials")
		return
	}

	metricsCollector().RecordLoginAttempt("success")
	createSessionAndRespond(c, username, "auth.login_success")
}

// createSessionAndRespond 创建会话、写入 Cookie 并返回成功
func createSessionAndRespond(c *gin.Context, username, messageKey string) {
	sm := GetSessionManager()
	if sm == nil {
		respondError(c, http.StatusInternalServerError, "error.internal")
		return
	}

	session, err := sm.CreateSession(c.Request.Context(), username, c.ClientIP(), c.GetHeader("User-Agent"))
	if err != nil {
		logger.Error("创建会话失败: %v", err)
		respondError(c, http.StatusInternalServerError, "error.internal")
		return
	}

	// Cookie 必须在写入响应体之前设置
	sm.SetSessionCookie(c.Writer, session.SessionID)
	respondSuccess(c, messageKey, nil)
}

// changePassword 修改密码（需要登录并提供旧密码）
// POST /api/auth/password/change
func changePassword(c *gin.Context) {
	if globalPasswordManager == nil {
		respondError(c, http.StatusInternalServerError, "error.internal")
		return
	}

	var req struct {
		OldPassword string `json:"old_password" binding:"required"`
		NewPassword string `json:"new_password" binding:"required,min=8"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "error.invalid_request")
		return
	}

	username := authUsername()

	ok, err := globalPasswordManager.VerifyPassword(username, req.OldPassword)
	if err != nil {
		logger.Error("验证密码失败: %v", err)
		respondError(c, http.StatusInternalServerError, "error.internal")
		return
	}
	if !ok {
		respondError(c, http.StatusUnauthorized, "error.invalid_credentials")
		return
	}

	if err := globalPasswordManager.SetPassword(username, req.NewPassword); err != nil {
		logger.Error("修改密码失败: %v", err)
		respondError(c, http.StatusInternalServerError, "error.internal")
		return
	}

	respondSuccess(c, "auth.password_changed", nil)
}

// logout 注销
// POST /api/auth/logout
func logout(c *gin.Context) {
	sm := GetSessionManager()
	if sm != nil {
		if cookie, err := c.Request.Cookie(sm.cookieName); err == nil {
			sm.DeleteSession(c.Request.Context(), cookie.Value)
		}
		sm.ClearSessionCookie(c.Writer)
	}
	respondSuccess(c, "auth.logout_success", nil)
}
