package web

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"tradechallenge/calc"
	"tradechallenge/database"
	"tradechallenge/logger"
	"tradechallenge/model"
)

// createChallengeRequest 创建挑战请求
type createChallengeRequest struct {
	Name               string  `json:"name" binding:"required"`
	InitialCapital     float64 `json:"initial_capital" binding:"required"`
	DailyTargetPercent float64 `json:"daily_target_percent" binding:"required"`
	DurationDays       int     `json:"duration_days" binding:"required"`
}

// createChallenge 创建新挑战
// POST /api/challenges
// 目标资金在创建时由复利公式推出并固化，之后不可修改
func createChallenge(c *gin.Context) {
	var req createChallengeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "error.invalid_request")
		return
	}

	if req.InitialCapital <= 0 || req.DailyTargetPercent <= 0 || req.DurationDays <= 0 {
		respondError(c, http.StatusBadRequest, "error.invalid_challenge_params")
		return
	}

	userID := currentUserID(c)
	now := time.Now().In(globalLocation)

	challenge := &model.Challenge{
		ID:                 uuid.NewString(),
		UserID:             userID,
		Name:               req.Name,
		InitialCapital:     req.InitialCapital,
		TargetCapital:      calc.Round2(calc.DailyTarget(req.InitialCapital, req.DailyTargetPercent, req.DurationDays)),
		DailyTargetPercent: req.DailyTargetPercent,
		DurationDays:       req.DurationDays,
		StartDate:          now,
		EndDate:            now.AddDate(0, 0, req.DurationDays),
		Status:             model.ChallengeActive,
		CurrentCapital:     req.InitialCapital,
		CurrentDay:         1,
	}

	if err := globalDB.SaveChallenge(c.Request.Context(), challenge); err != nil {
		logger.Error("保存挑战失败: %v", err)
		respondError(c, http.StatusInternalServerError, "error.internal")
		return
	}

	logger.Info("新挑战已创建: %s (%s), 初始资金 %.2f, 目标 %.2f",
		challenge.Name, challenge.ID, challenge.InitialCapital, challenge.TargetCapital)
	c.JSON(http.StatusCreated, challenge)
}

// listChallenges 挑战列表
// GET /api/challenges?status=active
func listChallenges(c *gin.Context) {
	filter := &database.ChallengeFilter{
		UserID: currentUserID(c),
		Status: model.ChallengeStatus(c.Query("status")),
	}

	challenges, err := globalDB.GetChallenges(c.Request.Context(), filter)
	if err != nil {
		logger.Error("获取挑战列表失败: %v", err)
		respondError(c, http.StatusInternalServerError, "error.internal")
		return
	}

	c.JSON(http.StatusOK, gin.H{"challenges": challenges})
}

// getActiveChallenge 当前进行中的挑战
// GET /api/challenges/active
func getActiveChallenge(c *gin.Context) {
	challenge, err := globalDB.GetActiveChallenge(c.Request.Context(), currentUserID(c))
	if errors.Is(err, database.ErrNotFound) {
		respondError(c, http.StatusNotFound, "error.no_active_challenge")
		return
	}
	if err != nil {
		logger.Error("获取进行中挑战失败: %v", err)
		respondError(c, http.StatusInternalServerError, "error.internal")
		return
	}

	c.JSON(http.StatusOK, challenge)
}

// getChallenge 按 ID 获取挑战
// GET /api/challenges/:id
func getChallenge(c *gin.Context) {
	challenge, ok := loadChallenge(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, challenge)
}

// loadChallenge 加载路径参数指定的挑战，校验归属
func loadChallenge(c *gin.Context) (*model.Challenge, bool) {
	challenge, err := globalDB.GetChallenge(c.Request.Context(), c.Param("id"))
	if errors.Is(err, database.ErrNotFound) {
		respondError(c, http.StatusNotFound, "error.not_found")
		return nil, false
	}
	if err != nil {
		logger.Error("获取挑战失败: %v", err)
		respondError(c, http.StatusInternalServerError, "error.internal")
		return nil, false
	}
	if challenge.UserID != currentUserID(c) {
		respondError(c, http.StatusNotFound, "error.not_found")
		return nil, false
	}
	return challenge, true
}

// completeChallenge 手动结束挑战（标记完成）
// POST /api/challenges/:id/complete
func completeChallenge(c *gin.Context) {
	setChallengeStatus(c, model.ChallengeCompleted, "challenge.completed")
}

// abandonChallenge 放弃挑战
// POST /api/challenges/:id/abandon
func abandonChallenge(c *gin.Context) {
	setChallengeStatus(c, model.ChallengeAbandoned, "challenge.abandoned")
}

func setChallengeStatus(c *gin.Context, status model.ChallengeStatus, messageKey string) {
	challenge, ok := loadChallenge(c)
	if !ok {
		return
	}
	if challenge.Status != model.ChallengeActive {
		respondError(c, http.StatusConflict, "error.challenge_not_active")
		return
	}

	challenge.Status = status
	if err := globalDB.UpdateChallenge(c.Request.Context(), challenge); err != nil {
		logger.Error("更新挑战状态失败: %v", err)
		respondError(c, http.StatusInternalServerError, "error.internal")
		return
	}

	logger.Info("挑战 %s 状态变更为 %s", challenge.ID, status)
	respondSuccess(c, messageKey, gin.H{"challenge": challenge})
}

// rolloverChallenge 日切：生成当日汇总并推进到下一天
// POST /api/challenges/:id/rollover
// 到达挑战时长末尾时自动标记完成
func rolloverChallenge(c *gin.Context) {
	challenge, ok := loadChallenge(c)
	if !ok {
		return
	}
	if challenge.Status != model.ChallengeActive {
		respondError(c, http.StatusConflict, "error.challenge_not_active")
		return
	}

	ctx := c.Request.Context()
	dayStart, dayEnd := dayBounds(time.Now())
	todayTrades, err := globalDB.GetTrades(ctx, &database.TradeFilter{
		ChallengeID: challenge.ID,
		StartTime:   &dayStart,
		EndTime:     &dayEnd,
	})
	if err != nil {
		logger.Error("获取当日交易失败: %v", err)
		respondError(c, http.StatusInternalServerError, "error.internal")
		return
	}

	var profitLoss float64
	for _, t := range todayTrades {
		profitLoss += t.ResultAmount
	}

	dayTarget := calc.DailyTarget(challenge.InitialCapital, challenge.DailyTargetPercent, challenge.CurrentDay)
	summary := &model.DailySummary{
		ChallengeID:      challenge.ID,
		Date:             dayStart,
		Day:              challenge.CurrentDay,
		StartingCapital:  calc.Round2(challenge.CurrentCapital - profitLoss),
		EndingCapital:    challenge.CurrentCapital,
		TargetCapital:    calc.Round2(dayTarget),
		NumberOfTrades:   len(todayTrades),
		ProfitLoss:       calc.Round2(profitLoss),
		ObjectiveReached: challenge.CurrentCapital >= dayTarget,
	}
	if err := globalDB.SaveDailySummary(ctx, summary); err != nil {
		logger.Error("保存每日汇总失败: %v", err)
		respondError(c, http.StatusInternalServerError, "error.internal")
		return
	}

	if challenge.CurrentDay >= challenge.DurationDays {
		challenge.Status = model.ChallengeCompleted
		logger.Info("挑战 %s 到达时长末尾，自动完成", challenge.ID)
	} else {
		challenge.CurrentDay++
	}
	if err := globalDB.UpdateChallenge(ctx, challenge); err != nil {
		logger.Error("推进挑战天数失败: %v", err)
		respondError(c, http.StatusInternalServerError, "error.internal")
		return
	}

	broadcastDashboard(c)
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   T(c, "challenge.day_advanced", map[string]interface{}{"Day": challenge.CurrentDay}),
		"challenge": challenge,
		"summary":   summary,
	})
}
