package web

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"net/http"
	"time"
)

// Session 会话信息
type Session struct {
	SessionID string    `json:"session_id"`
	Username  string    `json:"username"`
	IP        string    `json:"ip"`
	UserAgent string    `json:"user_agent"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SessionManager 会话管理器
type SessionManager struct {
	store          SessionStore
	cookieName     string
	sessionTimeout time.Duration
}

// NewSessionManager 创建会话管理器
func NewSessionManager(store SessionStore, cookieName string, timeout time.Duration) *SessionManager {
	if cookieName == "" {
		cookieName = "session_id"
	}
	if timeout <= 0 {
		timeout = 24 * time.Hour
	}
	return &SessionManager{
		store:          store,
		cookieName:     cookieName,
		sessionTimeout: timeout,
	}
}

// generateSessionID 生成会话ID
// 使用无填充的 URL 安全编码，避免 Cookie 中的 '=' 被转义导致会话查找失败
func generateSessionID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// CreateSession 创建会话
func (sm *SessionManager) CreateSession(ctx context.Context, username, ip, userAgent string) (*Session, error) {
	sessionID, err := generateSessionID()
	if err != nil {
		return nil, fmt.Errorf("生成会话ID失败: %v", err)
	}

	now := time.Now()
	session := &Session{
		SessionID: sessionID,
		Username:  username,
		IP:        ip,
		UserAgent: userAgent,
		CreatedAt: now,
		ExpiresAt: now.Add(sm.sessionTimeout),
	}

	if err := sm.store.Put(ctx, session, sm.sessionTimeout); err != nil {
		return nil, err
	}

	return session, nil
}

// GetSession 获取会话
func (sm *SessionManager) GetSession(ctx context.Context, sessionID string) (*Session, bool) {
	session, err := sm.store.Get(ctx, sessionID)
	if err != nil {
		return nil, false
	}
	return session, true
}

// DeleteSession 删除会话
func (sm *SessionManager) DeleteSession(ctx context.Context, sessionID string) {
	sm.store.Delete(ctx, sessionID)
}

// GetSessionFromRequest 从请求中获取会话
func (sm *SessionManager) GetSessionFromRequest(r *http.Request) (*Session, bool) {
	cookie, err := r.Cookie(sm.cookieName)
	if err != nil {
		return nil, false
	}
	return sm.GetSession(r.Context(), cookie.Value)
}

// SetSessionCookie 设置会话Cookie
func (sm *SessionManager) SetSessionCookie(w http.ResponseWriter, sessionID string) {
	cookie := &http.Cookie{
		Name:     sm.cookieName,
		Value:    sessionID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode, // Lax 模式，确保同站请求能正常携带 Cookie
		MaxAge:   int(sm.sessionTimeout.Seconds()),
	}
	http.SetCookie(w, cookie)
}

// ClearSessionCookie 清除会话Cookie
func (sm *SessionManager) ClearSessionCookie(w http.ResponseWriter) {
	cookie := &http.Cookie{
		Name:     sm.cookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	}
	http.SetCookie(w, cookie)
}

// Close 关闭底层存储
func (sm *SessionManager) Close() error {
	return sm.store.Close()
}

// 全局会话管理器（由 main.go 注入）
var globalSessionManager *SessionManager

// SetSessionManager 设置全局会话管理器
func SetSessionManager(sm *SessionManager) {
	globalSessionManager = sm
}

// GetSessionManager 获取全局会话管理器
func GetSessionManager() *SessionManager {
	return globalSessionManager
}
