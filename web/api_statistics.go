package web

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"tradechallenge/calc"
	"tradechallenge/database"
	"tradechallenge/logger"
)

// getStatistics 交易统计
// GET /api/statistics?challenge_id=...
// 不指定 challenge_id 时统计当前进行中的挑战
func getStatistics(c *gin.Context) {
	ctx := c.Request.Context()
	userID := currentUserID(c)

	challengeID := c.Query("challenge_id")
	var initialCapital, targetCapital float64
	if challengeID == "" {
		challenge, err := globalDB.GetActiveChallenge(ctx, userID)
		if errors.Is(err, database.ErrNotFound) {
			respondError(c, http.StatusNotFound, "error.no_active_challenge")
			return
		}
		if err != nil {
			logger.Error("获取进行中挑战失败: %v", err)
			respondError(c, http.StatusInternalServerError, "error.internal")
			return
		}
		challengeID = challenge.ID
		initialCapital = challenge.InitialCapital
		targetCapital = challenge.TargetCapital
	} else {
		challenge, err := globalDB.GetChallenge(ctx, challengeID)
		if errors.Is(err, database.ErrNotFound) {
			respondError(c, http.StatusNotFound, "error.not_found")
			return
		}
		if err != nil {
			logger.Error("获取挑战失败: %v", err)
			respondError(c, http.StatusInternalServerError, "error.internal")
			return
		}
		if challenge.UserID != userID {
			respondError(c, http.StatusNotFound, "error.not_found")
			return
		}
		initialCapital = challenge.InitialCapital
		targetCapital = challenge.TargetCapital
	}

	// 资金曲线按交易时间顺序构建
	trades, err := globalDB.GetTrades(ctx, &database.TradeFilter{
		ChallengeID: challengeID,
		Ascending:   true,
	})
	if err != nil {
		logger.Error("获取交易列表失败: %v", err)
		respondError(c, http.StatusInternalServerError, "error.internal")
		return
	}

	stats := calc.ComputeTradeStats(trades)
	curve := calc.CapitalCurve(initialCapital, trades)
	maxDrawdown := calc.MaxDrawdownFromCurve(curve)

	currentCapital := curve[len(curve)-1]
	progress := calc.ProgressPercent(initialCapital, currentCapital, targetCapital)
	metricsCollector().SetChallengeState(currentCapital, progress, stats.WinRate)

	c.JSON(http.StatusOK, gin.H{
		"challenge_id":  challengeID,
		"stats":         stats,
		"capital_curve": curve,
		"max_drawdown":  maxDrawdown,
	})
}

// getDailySummaries 每日汇总列表
// GET /api/summaries?challenge_id=...
func getDailySummaries(c *gin.Context) {
	ctx := c.Request.Context()
	userID := currentUserID(c)

	challengeID := c.Query("challenge_id")
	if challengeID == "" {
		challenge, err := globalDB.GetActiveChallenge(ctx, userID)
		if errors.Is(err, database.ErrNotFound) {
			respondError(c, http.StatusNotFound, "error.no_active_challenge")
			return
		}
		if err != nil {
			logger.Error("获取进行中挑战失败: %v", err)
			respondError(c, http.StatusInternalServerError, "error.internal")
			return
		}
		challengeID = challenge.ID
	}

	summaries, err := globalDB.GetDailySummaries(ctx, challengeID)
	if err != nil {
		logger.Error("获取每日汇总失败: %v", err)
		respondError(c, http.StatusInternalServerError, "error.internal")
		return
	}

	c.JSON(http.StatusOK, gin.H{"summaries": summaries})
}
