package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"tradechallenge/advisor"
	"tradechallenge/calc"
	"tradechallenge/database"
	"tradechallenge/i18n"
	"tradechallenge/logger"
	"tradechallenge/model"
)

// assembleDashboard 组装仪表盘快照
// 挑战、当日交易、规则在同一请求内加载后统一计算，保证视图一致
func assembleDashboard(ctx context.Context, userID, lang string) (*model.DashboardData, error) {
	challenge, err := globalDB.GetActiveChallenge(ctx, userID)
	if err != nil {
		return nil, err
	}

	dayStart, dayEnd := dayBounds(time.Now())
	todayTrades, err := globalDB.GetTrades(ctx, &database.TradeFilter{
		ChallengeID: challenge.ID,
		StartTime:   &dayStart,
		EndTime:     &dayEnd,
		Ascending:   true, // 建议引擎要求按时间升序
	})
	if err != nil {
		return nil, err
	}

	rules, err := globalDB.GetRules(ctx, userID)
	if errors.Is(err, database.ErrNotFound) {
		rules = model.DefaultRules(userID)
	} else if err != nil {
		return nil, err
	}

	opts := advisor.Options{}
	if cfg := GetConfig(); cfg != nil {
		opts.RespectStopFlag = cfg.Advisory.RespectStopFlag
	}
	advice := advisor.Evaluate(challenge, todayTrades, rules, opts)
	metricsCollector().RecordAdvisoryEvaluation(string(advice.Status))

	theoretical := calc.DailyTarget(challenge.InitialCapital, challenge.DailyTargetPercent, challenge.CurrentDay)
	progress := calc.ProgressPercent(challenge.InitialCapital, challenge.CurrentCapital, challenge.TargetCapital)

	data := &model.DashboardData{
		CurrentCapital:     challenge.CurrentCapital,
		TodayTarget:        calc.Round2(theoretical),
		ProgressPercent:    progress,
		DeviationPercent:   calc.DeviationPercent(challenge.CurrentCapital, theoretical),
		DaysRemaining:      challenge.DaysRemaining(),
		CurrentDay:         challenge.CurrentDay,
		DurationDays:       challenge.DurationDays,
		TradesToday:        len(todayTrades),
		MaxTrades:          rules.MaxTradesPerDay,
		MaxRiskPerTrade:    calc.Round2(calc.MaxRiskPerTrade(challenge.CurrentCapital, rules.MaxRiskPerTradePercent)),
		Status:             advice.Status,
		Message:            i18n.TWithLang(lang, advice.MessageID, advice.Data),
		TheoreticalCapital: calc.Round2(theoretical),
	}
	return data, nil
}

// getDashboard 仪表盘
// GET /api/dashboard
func getDashboard(c *gin.Context) {
	data, err := assembleDashboard(c.Request.Context(), currentUserID(c), GetLanguage(c))
	if errors.Is(err, database.ErrNotFound) {
		respondError(c, http.StatusNotFound, "error.no_active_challenge")
		return
	}
	if err != nil {
		logger.Error("组装仪表盘失败: %v", err)
		respondError(c, http.StatusInternalServerError, "error.internal")
		return
	}

	c.JSON(http.StatusOK, data)
}

// broadcastDashboard 向 WebSocket 客户端推送最新仪表盘
// 推送失败不影响请求处理
func broadcastDashboard(c *gin.Context) {
	data, err := assembleDashboard(c.Request.Context(), currentUserID(c), i18n.GetSystemLanguage())
	if err != nil {
		return
	}
	BroadcastDashboard(data)
}
