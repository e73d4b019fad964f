package model

import "time"

// ChallengeStatus 挑战状态
type ChallengeStatus string

const (
	ChallengeActive    ChallengeStatus = "active"    // 进行中
	ChallengeCompleted ChallengeStatus = "completed" // 已完成
	ChallengeAbandoned ChallengeStatus = "abandoned" // 已放弃
)

// Direction 交易方向
type Direction string

const (
	DirectionBuy  Direction = "buy"
	DirectionSell Direction = "sell"
)

// EmotionalState 交易前后的情绪状态
type EmotionalState string

const (
	EmotionCalm          EmotionalState = "calm"          // 平静
	EmotionStressed      EmotionalState = "stressed"      // 紧张
	EmotionRevenge       EmotionalState = "revenge"       // 报复性交易
	EmotionTired         EmotionalState = "tired"         // 疲惫
	EmotionOverconfident EmotionalState = "overconfident" // 过度自信
	EmotionSatisfied     EmotionalState = "satisfied"     // 满意
	EmotionFrustrated    EmotionalState = "frustrated"    // 沮丧
	EmotionSerene        EmotionalState = "serene"        // 安然
	EmotionRelieved      EmotionalState = "relieved"      // 如释重负
)

// EmotionalStates 所有合法的情绪状态（用于入参校验）
var EmotionalStates = []EmotionalState{
	EmotionCalm, EmotionStressed, EmotionRevenge, EmotionTired,
	EmotionOverconfident, EmotionSatisfied, EmotionFrustrated,
	EmotionSerene, EmotionRelieved,
}

// Valid 判断情绪状态是否合法
func (e EmotionalState) Valid() bool {
	for _, s := range EmotionalStates {
		if e == s {
			return true
		}
	}
	return false
}

// Challenge 资金增长挑战
// 复利参数（initial_capital、daily_target_percent、duration_days、target_capital）
// 创建后不可修改，target_capital 在创建时由复利公式推出并固化存储
type Challenge struct {
	ID                 string          `gorm:"primaryKey;size:36" json:"id"`
	UserID             string          `gorm:"index;size:64" json:"user_id"`
	Name               string          `gorm:"size:200" json:"name"`
	InitialCapital     float64         `json:"initial_capital"`
	TargetCapital      float64         `json:"target_capital"`
	DailyTargetPercent float64         `json:"daily_target_percent"` // 20 表示每日 +20%
	DurationDays       int             `json:"duration_days"`
	StartDate          time.Time       `json:"start_date"`
	EndDate            time.Time       `json:"end_date"`
	Status             ChallengeStatus `gorm:"index;size:20" json:"status"`
	CurrentCapital     float64         `json:"current_capital"` // 每笔交易后更新，无下限（可为负）
	CurrentDay         int             `json:"current_day"`     // 1 起始，由日切操作推进
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// DaysRemaining 剩余天数
func (c *Challenge) DaysRemaining() int {
	return c.DurationDays - c.CurrentDay
}

// Trade 单笔交易记录
// result_amount / result_percent 在创建时计算并固化存储，之后不再根据价格重算
type Trade struct {
	ID                   string         `gorm:"primaryKey;size:36" json:"id"`
	ChallengeID          string         `gorm:"index;size:36" json:"challenge_id"`
	UserID               string         `gorm:"index;size:64" json:"user_id"`
	Date                 time.Time      `gorm:"index" json:"date"`
	Instrument           string         `gorm:"size:50" json:"instrument"`
	Direction            Direction      `gorm:"size:10" json:"direction"`
	LotSize              float64        `json:"lot_size"`
	EntryPrice           float64        `json:"entry_price"`
	StopLoss             float64        `json:"stop_loss"`
	TakeProfit           float64        `json:"take_profit"`
	ExitPrice            float64        `json:"exit_price"`
	ResultAmount         float64        `json:"result_amount"`  // 有符号金额
	ResultPercent        float64        `json:"result_percent"` // 相对开仓时资金的百分比
	SetupType            string         `gorm:"index;size:50" json:"setup_type"`
	Reason               string         `gorm:"type:text" json:"reason"`
	EmotionalStateBefore EmotionalState `gorm:"size:20" json:"emotional_state_before"`
	EmotionalStateAfter  EmotionalState `gorm:"size:20" json:"emotional_state_after"` // 可选
	CreatedAt            time.Time      `json:"created_at"`
}

// RulesSettings 纪律规则（每用户一份，跨挑战生效）
// 所有百分比字段均为已放大的值（20 表示 20%，而非 0.20）
type RulesSettings struct {
	ID                     int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID                 string    `gorm:"uniqueIndex;size:64" json:"user_id"`
	MaxTradesPerDay        int       `json:"max_trades_per_day"`
	MaxDrawdownPercent     float64   `json:"max_drawdown_percent"`
	MaxRiskPerTradePercent float64   `json:"max_risk_per_trade_percent"`
	StopIfObjectiveReached bool      `json:"stop_if_objective_reached"`
	MaxConsecutiveLosses   int       `json:"max_consecutive_losses"`
	UpdatedAt              time.Time `json:"updated_at"`
}

// DefaultRules 默认纪律规则
func DefaultRules(userID string) *RulesSettings {
	return &RulesSettings{
		UserID:                 userID,
		MaxTradesPerDay:        3,
		MaxDrawdownPercent:     10,
		MaxRiskPerTradePercent: 2,
		StopIfObjectiveReached: true,
		MaxConsecutiveLosses:   2,
	}
}

// DailySummary 每日汇总（日切时生成）
type DailySummary struct {
	ID               int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ChallengeID      string    `gorm:"index;size:36" json:"challenge_id"`
	Date             time.Time `gorm:"index" json:"date"`
	Day              int       `json:"day"` // 挑战内的第几天
	StartingCapital  float64   `json:"starting_capital"`
	EndingCapital    float64   `json:"ending_capital"`
	TargetCapital    float64   `json:"target_capital"` // 当日理论目标
	NumberOfTrades   int       `json:"number_of_trades"`
	ProfitLoss       float64   `json:"profit_loss"`
	ObjectiveReached bool      `json:"objective_reached"`
	CreatedAt        time.Time `json:"created_at"`
}

// AdviceStatus 建议状态（三态）
type AdviceStatus string

const (
	AdviceOnTrack AdviceStatus = "on-track" // 按计划进行
	AdviceWarning AdviceStatus = "warning"  // 警告
	AdviceBlocked AdviceStatus = "blocked"  // 建议停止交易
)

// DashboardData 仪表盘快照（派生数据，不落库）
type DashboardData struct {
	CurrentCapital     float64      `json:"current_capital"`
	TodayTarget        float64      `json:"today_target"`
	ProgressPercent    float64      `json:"progress_percent"`  // 线性插值并钳制到 [0,100]
	DeviationPercent   float64      `json:"deviation_percent"` // 相对理论资金的偏差，不钳制
	DaysRemaining      int          `json:"days_remaining"`
	CurrentDay         int          `json:"current_day"`
	DurationDays       int          `json:"duration_days"`
	TradesToday        int          `json:"trades_today"`
	MaxTrades          int          `json:"max_trades"`
	MaxRiskPerTrade    float64      `json:"max_risk_per_trade"`
	Status             AdviceStatus `json:"status"`
	Message            string       `json:"message"`
	TheoreticalCapital float64      `json:"theoretical_capital"`
}
