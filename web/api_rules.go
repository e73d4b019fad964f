package web

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"tradechallenge/database"
	"tradechallenge/logger"
	"tradechallenge/model"
)

// loadRules 获取用户规则，不存在时返回默认值
func loadRules(c *gin.Context, userID string) (*model.RulesSettings, bool) {
	rules, err := globalDB.GetRules(c.Request.Context(), userID)
	if errors.Is(err, database.ErrNotFound) {
		return model.DefaultRules(userID), true
	}
	if err != nil {
		logger.Error("获取规则失败: %v", err)
		respondError(c, http.StatusInternalServerError, "error.internal")
		return nil, false
	}
	return rules, true
}

// getRules 获取纪律规则
// GET /api/rules
func getRules(c *gin.Context) {
	rules, ok := loadRules(c, currentUserID(c))
	if !ok {
		return
	}
	c.JSON(http.StatusOK, rules)
}

// updateRulesRequest 更新规则请求
type updateRulesRequest struct {
	MaxTradesPerDay        int     `json:"max_trades_per_day" binding:"required"`
	MaxDrawdownPercent     float64 `json:"max_drawdown_percent" binding:"required"`
	MaxRiskPerTradePercent float64 `json:"max_risk_per_trade_percent" binding:"required"`
	StopIfObjectiveReached *bool   `json:"stop_if_objective_reached" binding:"required"`
	MaxConsecutiveLosses   int     `json:"max_consecutive_losses" binding:"required"`
}

// updateRules 更新纪律规则
// PUT /api/rules
func updateRules(c *gin.Context) {
	var req updateRulesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "error.invalid_request")
		return
	}

	if req.MaxTradesPerDay <= 0 || req.MaxDrawdownPercent <= 0 ||
		req.MaxRiskPerTradePercent <= 0 || req.MaxConsecutiveLosses <= 0 {
		respondError(c, http.StatusBadRequest, "error.invalid_request")
		return
	}

	userID := currentUserID(c)
	rules, ok := loadRules(c, userID)
	if !ok {
		return
	}

	rules.MaxTradesPerDay = req.MaxTradesPerDay
	rules.MaxDrawdownPercent = req.MaxDrawdownPercent
	rules.MaxRiskPerTradePercent = req.MaxRiskPerTradePercent
	rules.StopIfObjectiveReached = *req.StopIfObjectiveReached
	rules.MaxConsecutiveLosses = req.MaxConsecutiveLosses

	if err := globalDB.SaveRules(c.Request.Context(), rules); err != nil {
		logger.Error("保存规则失败: %v", err)
		respondError(c, http.StatusInternalServerError, "error.internal")
		return
	}

	logger.Info("纪律规则已更新: 每日 %d 笔, 回撤 %.1f%%, 单笔风险 %.1f%%",
		rules.MaxTradesPerDay, rules.MaxDrawdownPercent, rules.MaxRiskPerTradePercent)
	c.JSON(http.StatusOK, rules)
}
