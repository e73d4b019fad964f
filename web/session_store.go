package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"tradechallenge/config"
)

// SessionStore 会话存储接口
// memory 实现用于单机部署，redis 实现用于会话在进程重启后保留
type SessionStore interface {
	Put(ctx context.Context, session *Session, ttl time.Duration) error
	Get(ctx context.Context, sessionID string) (*Session, error)
	Delete(ctx context.Context, sessionID string) error
	Close() error
}

// ErrSessionNotFound 会话不存在或已过期
var ErrSessionNotFound = errors.New("session not found")

// NewSessionStore 根据配置创建会话存储
func NewSessionStore(cfg *config.Config) (SessionStore, error) {
	switch cfg.Session.Store {
	case "memory", "":
		return NewMemorySessionStore(), nil
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Session.Redis.Addr,
			Password: cfg.Session.Redis.Password,
			DB:       cfg.Session.Redis.DB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("redis 连接失败: %w", err)
		}
		prefix := cfg.Session.Redis.Prefix
		if prefix == "" {
			prefix = "tc:session:"
		}
		return NewRedisSessionStore(client, prefix), nil
	default:
		return nil, fmt.Errorf("不支持的会话存储类型: %s", cfg.Session.Store)
	}
}

// MemorySessionStore 内存会话存储
type MemorySessionStore struct {
	sessions map[string]*Session
	mu       sync.RWMutex
	stop     chan struct{}
}

// NewMemorySessionStore 创建内存会话存储
func NewMemorySessionStore() *MemorySessionStore {
	ms := &MemorySessionStore{
		sessions: make(map[string]*Session),
		stop:     make(chan struct{}),
	}

	// 定期清理过期会话
	go ms.cleanupLoop()

	return ms
}

func (ms *MemorySessionStore) cleanupLoop() {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ms.stop:
			return
		case <-ticker.C:
			ms.mu.Lock()
			now := time.Now()
			for id, session := range ms.sessions {
				if now.After(session.ExpiresAt) {
					delete(ms.sessions, id)
				}
			}
			ms.mu.Unlock()
		}
	}
}

// Put 写入会话
func (ms *MemorySessionStore) Put(ctx context.Context, session *Session, ttl time.Duration) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.sessions[session.SessionID] = session
	return nil
}

// Get 读取会话
func (ms *MemorySessionStore) Get(ctx context.Context, sessionID string) (*Session, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	session, exists := ms.sessions[sessionID]
	if !exists || time.Now().After(session.ExpiresAt) {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// Delete 删除会话
func (ms *MemorySessionStore) Delete(ctx context.Context, sessionID string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	delete(ms.sessions, sessionID)
	return nil
}

// Close 关闭存储
func (ms *MemorySessionStore) Close() error {
	close(ms.stop)
	return nil
}

// RedisSessionStore Redis 会话存储
// 过期交给 Redis TTL 处理，不需要清理协程
type RedisSessionStore struct {
	client *redis.Client
	prefix string
}

// NewRedisSessionStore 创建 Redis 会话存储
func NewRedisSessionStore(client *redis.Client, prefix string) *RedisSessionStore {
	return &RedisSessionStore{
		client: client,
		prefix: prefix,
	}
}

// Put 写入会话
func (rs *RedisSessionStore) Put(ctx context.Context, session *Session, ttl time.Duration) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("序列化会话失败: %w", err)
	}
	if err := rs.client.Set(ctx, rs.prefix+session.SessionID, data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

// Get 读取会话
func (rs *RedisSessionStore) Get(ctx context.Context, sessionID string) (*Session, error) {
	data, err := rs.client.Get(ctx, rs.prefix+sessionID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("反序列化会话失败: %w", err)
	}
	return &session, nil
}

// Delete 删除会话
func (rs *RedisSessionStore) Delete(ctx context.Context, sessionID string) error {
	return rs.client.Del(ctx, rs.prefix+sessionID).Err()
}

// Close 关闭连接
func (rs *RedisSessionStore) Close() error {
	return rs.client.Close()
}
