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

// createTradeRequest 记录交易请求
type createTradeRequest struct {
	ChallengeID          string    `json:"challenge_id"` // 为空时取当前进行中的挑战
	Date                 time.Time `json:"date"`         // 为空时取当前时间
	Instrument           string    `json:"instrument" binding:"required"`
	Direction            string    `json:"direction" binding:"required"`
	LotSize              float64   `json:"lot_size" binding:"required"`
	EntryPrice           float64   `json:"entry_price" binding:"required"`
	StopLoss             float64   `json:"stop_loss"`
	TakeProfit           float64   `json:"take_profit"`
	ExitPrice            float64   `json:"exit_price" binding:"required"`
	SetupType            string    `json:"setup_type" binding:"required"`
	Reason               string    `json:"reason"`
	EmotionalStateBefore string    `json:"emotional_state_before" binding:"required"`
	EmotionalStateAfter  string    `json:"emotional_state_after"`
}

// createTrade 记录一笔交易
// POST /api/trades
// 盈亏在写入时计算并固化，挑战资金在同一事务内更新
func createTrade(c *gin.Context) {
	var req createTradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "error.invalid_request")
		return
	}

	direction := model.Direction(req.Direction)
	if direction != model.DirectionBuy && direction != model.DirectionSell {
		respondError(c, http.StatusBadRequest, "error.invalid_direction")
		return
	}
	if req.EntryPrice <= 0 || req.ExitPrice <= 0 || req.LotSize <= 0 {
		respondError(c, http.StatusBadRequest, "error.invalid_prices")
		return
	}
	before := model.EmotionalState(req.EmotionalStateBefore)
	if !before.Valid() {
		respondError(c, http.StatusBadRequest, "error.invalid_emotional_state")
		return
	}
	after := model.EmotionalState(req.EmotionalStateAfter)
	if req.EmotionalStateAfter != "" && !after.Valid() {
		respondError(c, http.StatusBadRequest, "error.invalid_emotional_state")
		return
	}

	ctx := c.Request.Context()
	userID := currentUserID(c)

	// 定位挑战
	var challenge *model.Challenge
	var err error
	if req.ChallengeID != "" {
		challenge, err = globalDB.GetChallenge(ctx, req.ChallengeID)
	} else {
		challenge, err = globalDB.GetActiveChallenge(ctx, userID)
	}
	if errors.Is(err, database.ErrNotFound) {
		respondError(c, http.StatusNotFound, "error.no_active_challenge")
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
	if challenge.Status != model.ChallengeActive {
		respondError(c, http.StatusConflict, "error.challenge_not_active")
		return
	}

	// 盈亏相对开仓时的挑战资金计算，创建后不再重算
	amount, percent := calc.TradeResult(direction, req.EntryPrice, req.ExitPrice, req.LotSize, challenge.CurrentCapital)

	date := req.Date
	if date.IsZero() {
		date = time.Now().In(globalLocation)
	}

	trade := &model.Trade{
		ID:                   uuid.NewString(),
		ChallengeID:          challenge.ID,
		UserID:               userID,
		Date:                 date,
		Instrument:           req.Instrument,
		Direction:            direction,
		LotSize:              req.LotSize,
		EntryPrice:           req.EntryPrice,
		StopLoss:             req.StopLoss,
		TakeProfit:           req.TakeProfit,
		ExitPrice:            req.ExitPrice,
		ResultAmount:         amount,
		ResultPercent:        percent,
		SetupType:            req.SetupType,
		Reason:               req.Reason,
		EmotionalStateBefore: before,
		EmotionalStateAfter:  after,
	}

	newCapital := challenge.CurrentCapital + amount
	if err := globalDB.SaveTradeWithCapital(ctx, trade, newCapital); err != nil {
		logger.Error("写入交易失败: %v", err)
		respondError(c, http.StatusInternalServerError, "error.internal")
		return
	}
	challenge.CurrentCapital = newCapital

	metricsCollector().RecordTrade(string(direction), amount)
	logger.Info("交易已记录: %s %s %.2f, 资金 %.2f -> %.2f",
		trade.Instrument, direction, amount, newCapital-amount, newCapital)

	broadcastDashboard(c)
	c.JSON(http.StatusCreated, trade)
}

// listTrades 交易列表
// GET /api/trades?challenge_id=...&day=today&setup_type=...
func listTrades(c *gin.Context) {
	filter := &database.TradeFilter{
		UserID:      currentUserID(c),
		ChallengeID: c.Query("challenge_id"),
		SetupType:   c.Query("setup_type"),
		Ascending:   c.Query("order") == "asc",
	}

	// day=today 按配置时区的当前日历日过滤
	if c.Query("day") == "today" {
		start, end := dayBounds(time.Now())
		filter.StartTime = &start
		filter.EndTime = &end
	}

	trades, err := globalDB.GetTrades(c.Request.Context(), filter)
	if err != nil {
		logger.Error("获取交易列表失败: %v", err)
		respondError(c, http.StatusInternalServerError, "error.internal")
		return
	}

	c.JSON(http.StatusOK, gin.H{"trades": trades})
}
