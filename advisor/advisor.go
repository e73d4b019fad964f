// Package advisor 实现交易纪律建议引擎
// 规则按固定顺序短路求值，输出状态 + 消息键，由上层负责本地化
package advisor

import (
	"tradechallenge/calc"
	"tradechallenge/model"
)

// 偏差警告阈值（百分比），低于该值给出计划偏离警告
const deviationWarningThreshold = -15

// 消息键，对应 i18n/locales 中的词条
const (
	MsgObjectiveReached = "advice.objective_reached"
	MsgTradeLimit       = "advice.trade_limit"
	MsgLossStreak       = "advice.loss_streak"
	MsgPlanDeviation    = "advice.plan_deviation"
	MsgNearLimit        = "advice.near_limit"
	MsgOnTrack          = "advice.on_track"
)

// Advice 建议结果
type Advice struct {
	Status    model.AdviceStatus     `json:"status"`
	MessageID string                 `json:"message_id"`
	Data      map[string]interface{} `json:"data,omitempty"` // 消息模板参数
}

// Options 引擎开关
type Options struct {
	// RespectStopFlag 为 true 时，达标封锁受规则中
	// stopIfObjectiveReached 控制；为 false 时达标一律封锁
	RespectStopFlag bool
}

// Evaluate 对当前挑战状态给出交易建议
// todayTrades 必须是当日交易、按时间升序排列
// 规则链（命中即返回）：
//  1. 已达当日目标 → blocked
//  2. 交易笔数达上限 → blocked
//  3. 尾部连亏达上限 → blocked
//  4. 偏离理论资金超过警戒线 → warning
//  5. 交易笔数接近上限 → warning
//  6. 其余 → on-track
func Evaluate(challenge *model.Challenge, todayTrades []*model.Trade, rules *model.RulesSettings, opts Options) *Advice {
	todayTarget := calc.DailyTarget(challenge.InitialCapital, challenge.DailyTargetPercent, challenge.CurrentDay)

	stopOnObjective := true
	if opts.RespectStopFlag {
		stopOnObjective = rules.StopIfObjectiveReached
	}
	if stopOnObjective && challenge.CurrentCapital >= todayTarget {
		return &Advice{Status: model.AdviceBlocked, MessageID: MsgObjectiveReached}
	}

	if len(todayTrades) >= rules.MaxTradesPerDay {
		return &Advice{Status: model.AdviceBlocked, MessageID: MsgTradeLimit}
	}

	if rules.MaxConsecutiveLosses > 0 && trailingLosses(todayTrades, rules.MaxConsecutiveLosses) >= rules.MaxConsecutiveLosses {
		return &Advice{Status: model.AdviceBlocked, MessageID: MsgLossStreak}
	}

	if calc.DeviationPercent(challenge.CurrentCapital, todayTarget) < deviationWarningThreshold {
		return &Advice{Status: model.AdviceWarning, MessageID: MsgPlanDeviation}
	}

	if len(todayTrades) >= rules.MaxTradesPerDay-1 {
		return &Advice{
			Status:    model.AdviceWarning,
			MessageID: MsgNearLimit,
			Data: map[string]interface{}{
				"Count": len(todayTrades),
				"Max":   rules.MaxTradesPerDay,
			},
		}
	}

	return &Advice{Status: model.AdviceOnTrack, MessageID: MsgOnTrack}
}

// trailingLosses 统计尾部窗口内的亏损笔数
// 窗口取最近 window 笔交易，亏损定义为 resultAmount < 0
func trailingLosses(trades []*model.Trade, window int) int {
	start := len(trades) - window
	if start < 0 {
		start = 0
	}
	losses := 0
	for _, t := range trades[start:] {
		if t.ResultAmount < 0 {
			losses++
		}
	}
	return losses
}
