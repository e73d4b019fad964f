package advisor

import (
	"testing"

	"tradechallenge/model"
)

func newChallenge(capital float64, day int) *model.Challenge {
	return &model.Challenge{
		InitialCapital:     1000,
		DailyTargetPercent: 20,
		DurationDays:       30,
		CurrentCapital:     capital,
		CurrentDay:         day,
	}
}

func defaultRules() *model.RulesSettings {
	return &model.RulesSettings{
		MaxTradesPerDay:        3,
		MaxDrawdownPercent:     10,
		MaxRiskPerTradePercent: 2,
		StopIfObjectiveReached: true,
		MaxConsecutiveLosses:   2,
	}
}

func losingTrade() *model.Trade  { return &model.Trade{ResultAmount: -10} }
func winningTrade() *model.Trade { return &model.Trade{ResultAmount: 10} }

func TestEvaluateObjectiveReached(t *testing.T) {
	// 第 1 天目标 1200，资金 1250 已达标
	advice := Evaluate(newChallenge(1250, 1), nil, defaultRules(), Options{})
	if advice.Status != model.AdviceBlocked || advice.MessageID != MsgObjectiveReached {
		t.Errorf("达标应封锁: %+v", advice)
	}

	// 恰好等于目标同样视为达标
	advice = Evaluate(newChallenge(1200, 1), nil, defaultRules(), Options{})
	if advice.Status != model.AdviceBlocked || advice.MessageID != MsgObjectiveReached {
		t.Errorf("恰好达标应封锁: %+v", advice)
	}
}

func TestEvaluateObjectivePriority(t *testing.T) {
	// 同时满足达标与笔数上限时，达标优先（链序）
	trades := []*model.Trade{winningTrade(), winningTrade(), winningTrade()}
	advice := Evaluate(newChallenge(1300, 1), trades, defaultRules(), Options{})
	if advice.MessageID != MsgObjectiveReached {
		t.Errorf("达标应优先于笔数上限: %+v", advice)
	}
}

func TestEvaluateRespectStopFlag(t *testing.T) {
	rules := defaultRules()
	rules.StopIfObjectiveReached = false

	// 默认行为：忽略规则开关，达标仍封锁
	advice := Evaluate(newChallenge(1250, 1), nil, rules, Options{})
	if advice.MessageID != MsgObjectiveReached {
		t.Errorf("默认应无条件封锁: %+v", advice)
	}

	// 开启 RespectStopFlag 后跟随规则开关，继续后续规则
	advice = Evaluate(newChallenge(1250, 1), nil, rules, Options{RespectStopFlag: true})
	if advice.Status != model.AdviceOnTrack {
		t.Errorf("关闭达标封锁后应继续评估: %+v", advice)
	}
}

func TestEvaluateTradeLimit(t *testing.T) {
	trades := []*model.Trade{winningTrade(), losingTrade(), winningTrade()}
	advice := Evaluate(newChallenge(1000, 1), trades, defaultRules(), Options{})
	if advice.Status != model.AdviceBlocked || advice.MessageID != MsgTradeLimit {
		t.Errorf("笔数达上限应封锁: %+v", advice)
	}
}

func TestEvaluateLossStreak(t *testing.T) {
	// 尾部两笔连亏触发封锁
	trades := []*model.Trade{losingTrade(), losingTrade()}
	advice := Evaluate(newChallenge(980, 1), trades, defaultRules(), Options{})
	if advice.Status != model.AdviceBlocked || advice.MessageID != MsgLossStreak {
		t.Errorf("连亏达上限应封锁: %+v", advice)
	}

	// 尾部窗口被盈利打断则不触发（窗口只看最近 N 笔）
	trades = []*model.Trade{losingTrade(), winningTrade()}
	advice = Evaluate(newChallenge(1000, 1), trades, defaultRules(), Options{})
	if advice.MessageID == MsgLossStreak {
		t.Errorf("窗口内有盈利不应触发连亏封锁: %+v", advice)
	}
}

func TestEvaluatePlanDeviation(t *testing.T) {
	// 第 1 天理论资金 1200，资金 1000 偏差 -16.67% 低于警戒线
	advice := Evaluate(newChallenge(1000, 1), nil, defaultRules(), Options{})
	if advice.Status != model.AdviceWarning || advice.MessageID != MsgPlanDeviation {
		t.Errorf("偏差超过警戒线应警告: %+v", advice)
	}

	// 恰好 -15% 不触发（严格小于）
	advice = Evaluate(newChallenge(1020, 1), nil, defaultRules(), Options{})
	if advice.MessageID == MsgPlanDeviation {
		t.Errorf("偏差恰好 -15%% 不应警告: %+v", advice)
	}
}

func TestEvaluateNearLimit(t *testing.T) {
	// 2 笔（上限 3），资金不偏离 → 接近上限警告
	trades := []*model.Trade{winningTrade(), winningTrade()}
	advice := Evaluate(newChallenge(1100, 1), trades, defaultRules(), Options{})
	if advice.Status != model.AdviceWarning || advice.MessageID != MsgNearLimit {
		t.Errorf("接近笔数上限应警告: %+v", advice)
	}
	if advice.Data["Count"] != 2 || advice.Data["Max"] != 3 {
		t.Errorf("警告消息参数错误: %+v", advice.Data)
	}
}

func TestEvaluateOnTrack(t *testing.T) {
	trades := []*model.Trade{winningTrade()}
	advice := Evaluate(newChallenge(1100, 1), trades, defaultRules(), Options{})
	if advice.Status != model.AdviceOnTrack || advice.MessageID != MsgOnTrack {
		t.Errorf("正常状态应为 on-track: %+v", advice)
	}
}

func TestEvaluateChainOrder(t *testing.T) {
	// 偏差与连亏同时满足时连亏优先（blocked 在 warning 之前）
	trades := []*model.Trade{losingTrade(), losingTrade()}
	advice := Evaluate(newChallenge(800, 1), trades, defaultRules(), Options{})
	if advice.MessageID != MsgLossStreak {
		t.Errorf("连亏封锁应优先于偏差警告: %+v", advice)
	}

	// 偏差与接近上限同时满足时偏差优先
	trades = []*model.Trade{losingTrade(), winningTrade()}
	advice = Evaluate(newChallenge(800, 1), trades, defaultRules(), Options{})
	if advice.MessageID != MsgPlanDeviation {
		t.Errorf("偏差警告应优先于接近上限警告: %+v", advice)
	}
}
