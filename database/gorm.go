package database

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"tradechallenge/model"
)

var errNotFound = gorm.ErrRecordNotFound

// GormDatabase GORM 数据库实现
type GormDatabase struct {
	db *gorm.DB
}

// NewGormDatabase 创建 GORM 数据库实例
func NewGormDatabase(config *Config) (*GormDatabase, error) {
	var dialector gorm.Dialector

	switch config.Type {
	case "sqlite":
		dialector = sqlite.Open(config.DSN)
	case "postgres", "postgresql":
		dialector = postgres.Open(config.DSN)
	case "mysql":
		dialector = mysql.Open(config.DSN)
	default:
		return nil, fmt.Errorf("unsupported database type: %s", config.Type)
	}

	// 日志级别
	logLevel := logger.Silent
	switch config.LogLevel {
	case "error":
		logLevel = logger.Error
	case "warn":
		logLevel = logger.Warn
	case "info":
		logLevel = logger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	// 配置连接池
	if config.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(config.MaxOpenConns)
	}
	if config.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(config.MaxIdleConns)
	}
	if config.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(config.ConnMaxLifetime)
	}

	// 自动迁移
	if err := db.AutoMigrate(
		&model.Challenge{},
		&model.Trade{},
		&model.RulesSettings{},
		&model.DailySummary{},
	); err != nil {
		return nil, fmt.Errorf("failed to auto migrate: %w", err)
	}

	return &GormDatabase{db: db}, nil
}

// SaveChallenge 保存挑战
func (g *GormDatabase) SaveChallenge(ctx context.Context, challenge *model.Challenge) error {
	return g.db.WithContext(ctx).Create(challenge).Error
}

// GetChallenge 按 ID 获取挑战
func (g *GormDatabase) GetChallenge(ctx context.Context, id string) (*model.Challenge, error) {
	var challenge model.Challenge
	if err := g.db.WithContext(ctx).First(&challenge, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &challenge, nil
}

// GetChallenges 获取挑战列表
func (g *GormDatabase) GetChallenges(ctx context.Context, filter *ChallengeFilter) ([]*model.Challenge, error) {
	query := g.db.WithContext(ctx).Model(&model.Challenge{})

	if filter.UserID != "" {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	query = query.Order("created_at DESC")

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var challenges []*model.Challenge
	if err := query.Find(&challenges).Error; err != nil {
		return nil, err
	}
	return challenges, nil
}

// GetActiveChallenge 获取当前进行中的挑战（单用户场景最多一个）
func (g *GormDatabase) GetActiveChallenge(ctx context.Context, userID string) (*model.Challenge, error) {
	var challenge model.Challenge
	err := g.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, model.ChallengeActive).
		Order("created_at DESC").
		First(&challenge).Error
	if err != nil {
		return nil, err
	}
	return &challenge, nil
}

// UpdateChallenge 更新挑战
func (g *GormDatabase) UpdateChallenge(ctx context.Context, challenge *model.Challenge) error {
	return g.db.WithContext(ctx).Save(challenge).Error
}

// SaveTradeWithCapital 事务内写入交易并更新挑战资金
func (g *GormDatabase) SaveTradeWithCapital(ctx context.Context, trade *model.Trade, newCapital float64) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(trade).Error; err != nil {
			return err
		}
		return tx.Model(&model.Challenge{}).
			Where("id = ?", trade.ChallengeID).
			Update("current_capital", newCapital).Error
	})
}

// GetTrades 获取交易列表
func (g *GormDatabase) GetTrades(ctx context.Context, filter *TradeFilter) ([]*model.Trade, error) {
	query := g.db.WithContext(ctx).Model(&model.Trade{})

	if filter.ChallengeID != "" {
		query = query.Where("challenge_id = ?", filter.ChallengeID)
	}
	if filter.UserID != "" {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.SetupType != "" {
		query = query.Where("setup_type = ?", filter.SetupType)
	}
	if filter.StartTime != nil {
		query = query.Where("date >= ?", filter.StartTime)
	}
	if filter.EndTime != nil {
		query = query.Where("date < ?", filter.EndTime)
	}

	if filter.Ascending {
		query = query.Order("date ASC, created_at ASC")
	} else {
		query = query.Order("date DESC, created_at DESC")
	}

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var trades []*model.Trade
	if err := query.Find(&trades).Error; err != nil {
		return nil, err
	}
	return trades, nil
}

// GetRules 获取纪律规则
func (g *GormDatabase) GetRules(ctx context.Context, userID string) (*model.RulesSettings, error) {
	var rules model.RulesSettings
	if err := g.db.WithContext(ctx).First(&rules, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &rules, nil
}

// SaveRules 保存纪律规则（不存在则创建）
func (g *GormDatabase) SaveRules(ctx context.Context, rules *model.RulesSettings) error {
	var existing model.RulesSettings
	err := g.db.WithContext(ctx).First(&existing, "user_id = ?", rules.UserID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return g.db.WithContext(ctx).Create(rules).Error
	}
	if err != nil {
		return err
	}
	rules.ID = existing.ID
	return g.db.WithContext(ctx).Save(rules).Error
}

// SaveDailySummary 保存每日汇总
func (g *GormDatabase) SaveDailySummary(ctx context.Context, summary *model.DailySummary) error {
	return g.db.WithContext(ctx).Create(summary).Error
}

// GetDailySummaries 获取挑战的每日汇总列表
func (g *GormDatabase) GetDailySummaries(ctx context.Context, challengeID string) ([]*model.DailySummary, error) {
	var summaries []*model.DailySummary
	err := g.db.WithContext(ctx).
		Where("challenge_id = ?", challengeID).
		Order("day ASC").
		Find(&summaries).Error
	if err != nil {
		return nil, err
	}
	return summaries, nil
}

// Ping 健康检查
func (g *GormDatabase) Ping(ctx context.Context) error {
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close 关闭连接
func (g *GormDatabase) Close() error {
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
