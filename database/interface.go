package database

import (
	"context"
	"time"

	"tradechallenge/model"
)

// Database 数据库接口
type Database interface {
	// 挑战
	SaveChallenge(ctx context.Context, challenge *model.Challenge) error
	GetChallenge(ctx context.Context, id string) (*model.Challenge, error)
	GetChallenges(ctx context.Context, filter *ChallengeFilter) ([]*model.Challenge, error)
	GetActiveChallenge(ctx context.Context, userID string) (*model.Challenge, error)
	UpdateChallenge(ctx context.Context, challenge *model.Challenge) error

	// 交易：写入与资金更新在同一事务内完成
	SaveTradeWithCapital(ctx context.Context, trade *model.Trade, newCapital float64) error
	GetTrades(ctx context.Context, filter *TradeFilter) ([]*model.Trade, error)

	// 纪律规则（每用户一份，upsert 语义）
	GetRules(ctx context.Context, userID string) (*model.RulesSettings, error)
	SaveRules(ctx context.Context, rules *model.RulesSettings) error

	// 每日汇总
	SaveDailySummary(ctx context.Context, summary *model.DailySummary) error
	GetDailySummaries(ctx context.Context, challengeID string) ([]*model.DailySummary, error)

	// 健康检查
	Ping(ctx context.Context) error

	// 关闭连接
	Close() error
}

// ErrNotFound 记录不存在
// gorm.ErrRecordNotFound 的包级别名，避免上层直接依赖 gorm
var ErrNotFound = errNotFound

// ChallengeFilter 挑战过滤器
type ChallengeFilter struct {
	UserID string
	Status model.ChallengeStatus
	Limit  int
	Offset int
}

// TradeFilter 交易过滤器
type TradeFilter struct {
	ChallengeID string
	UserID      string
	SetupType   string
	StartTime   *time.Time
	EndTime     *time.Time
	Limit       int
	Offset      int
	Ascending   bool // 为 true 按时间升序（建议引擎要求的顺序）
}
