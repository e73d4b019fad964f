package web

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemorySessionStorePutGet(t *testing.T) {
	store := NewMemorySessionStore()
	defer store.Close()

	ctx := context.Background()
	session := &Session{
		SessionID: "sess-1",
		Username:  "trader",
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(time.Hour),
	}

	if err := store.Put(ctx, session, time.Hour); err != nil {
		t.Fatalf("保存会话失败: %v", err)
	}

	got, err := store.Get(ctx, "sess-1")
	if err != nil {
		t.Fatalf("读取会话失败: %v", err)
	}
	if got.Username != "trader" {
		t.Errorf("会话用户名应为 trader, 实际 %s", got.Username)
	}
}

func TestMemorySessionStoreExpired(t *testing.T) {
	store := NewMemorySessionStore()
	defer store.Close()

	ctx := context.Background()
	session := &Session{
		SessionID: "sess-expired",
		Username:  "trader",
		CreatedAt: time.Now().Add(-2 * time.Hour),
		ExpiresAt: time.Now().Add(-time.Hour),
	}
	if err := store.Put(ctx, session, -time.Hour); err != nil {
		t.Fatalf("保存会话失败: %v", err)
	}

	if _, err := store.Get(ctx, "sess-expired"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("过期会话应返回 ErrSessionNotFound, 实际 %v", err)
	}
}

func TestMemorySessionStoreDelete(t *testing.T) {
	store := NewMemorySessionStore()
	defer store.Close()

	ctx := context.Background()
	session := &Session{
		SessionID: "sess-del",
		Username:  "trader",
		ExpiresAt: time.Now().Add(time.Hour),
	}
	if err := store.Put(ctx, session, time.Hour); err != nil {
		t.Fatalf("保存会话失败: %v", err)
	}
	if err := store.Delete(ctx, "sess-del"); err != nil {
		t.Fatalf("删除会话失败: %v", err)
	}
	if _, err := store.Get(ctx, "sess-del"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("删除后读取应返回 ErrSessionNotFound, 实际 %v", err)
	}
}

func TestMemorySessionStoreGetMissing(t *testing.T) {
	store := NewMemorySessionStore()
	defer store.Close()

	if _, err := store.Get(context.Background(), "no-such-session"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("不存在的会话应返回 ErrSessionNotFound, 实际 %v", err)
	}
}

func TestSessionManagerLifecycle(t *testing.T) {
	store := NewMemorySessionStore()
	sm := NewSessionManager(store, "session_id", time.Hour)
	defer sm.Close()

	ctx := context.Background()
	session, err := sm.CreateSession(ctx, "trader", "127.0.0.1", "go-test")
	if err != nil {
		t.Fatalf("创建会话失败: %v", err)
	}
	if session.SessionID == "" {
		t.Fatal("会话 ID 不应为空")
	}
	if session.ExpiresAt.Before(time.Now().Add(50 * time.Minute)) {
		t.Errorf("会话过期时间应约为 1 小时后, 实际 %v", session.ExpiresAt)
	}

	got, ok := sm.GetSession(ctx, session.SessionID)
	if !ok {
		t.Fatal("应能读取刚创建的会话")
	}
	if got.Username != "trader" {
		t.Errorf("会话用户名应为 trader, 实际 %s", got.Username)
	}

	sm.DeleteSession(ctx, session.SessionID)
	if _, ok := sm.GetSession(ctx, session.SessionID); ok {
		t.Error("删除后会话不应存在")
	}
}

func TestGenerateSessionIDUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id, err := generateSessionID()
		if err != nil {
			t.Fatalf("生成会话 ID 失败: %v", err)
		}
		if seen[id] {
			t.Fatalf("会话 ID 重复: %s", id)
		}
		seen[id] = true
	}
}
