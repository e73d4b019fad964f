package calc

import "tradechallenge/model"

// SetupStats 按交易策略类型分组的统计
type SetupStats struct {
	SetupType string  `json:"setup_type"`
	Total     int     `json:"total"`
	Wins      int     `json:"wins"`
	Losses    int     `json:"losses"` // 非正结果均计为亏损
	WinRate   float64 `json:"win_rate"`
}

// TradeStats 交易聚合统计
type TradeStats struct {
	TotalTrades  int           `json:"total_trades"`
	WinningTotal int           `json:"winning_total"`
	LosingTotal  int           `json:"losing_total"`
	WinRate      float64       `json:"win_rate"`
	ProfitFactor float64       `json:"profit_factor"`
	TotalProfit  float64       `json:"total_profit"`
	TotalLoss    float64       `json:"total_loss"` // 有符号（≤0）
	AverageWin   float64       `json:"average_win"`
	AverageLoss  float64       `json:"average_loss"`
	BestTrade    *model.Trade  `json:"best_trade"`  // 空集合为 nil
	WorstTrade   *model.Trade  `json:"worst_trade"` // 空集合为 nil
	BySetup      []*SetupStats `json:"by_setup"`
}

// ComputeTradeStats 计算整组交易的聚合统计
// 最佳/最差交易按有符号 resultAmount 取极值，并列时保留先遇到的一笔
// 分组统计按 setupType 精确匹配，顺序跟随首次出现顺序
func ComputeTradeStats(trades []*model.Trade) *TradeStats {
	stats := &TradeStats{
		WinRate:      WinRate(trades),
		ProfitFactor: ProfitFactor(trades),
		TotalTrades:  len(trades),
	}

	setupIndex := make(map[string]*SetupStats)

	for _, t := range trades {
		if t.ResultAmount > 0 {
			stats.WinningTotal++
			stats.TotalProfit += t.ResultAmount
		} else {
			stats.LosingTotal++
			stats.TotalLoss += t.ResultAmount
		}

		if stats.BestTrade == nil || t.ResultAmount > stats.BestTrade.ResultAmount {
			stats.BestTrade = t
		}
		if stats.WorstTrade == nil || t.ResultAmount < stats.WorstTrade.ResultAmount {
			stats.WorstTrade = t
		}

		group, ok := setupIndex[t.SetupType]
		if !ok {
			group = &SetupStats{SetupType: t.SetupType}
			setupIndex[t.SetupType] = group
			stats.BySetup = append(stats.BySetup, group)
		}
		group.Total++
		if t.ResultAmount > 0 {
			group.Wins++
		} else {
			group.Losses++
		}
	}

	if stats.WinningTotal > 0 {
		stats.AverageWin = stats.TotalProfit / float64(stats.WinningTotal)
	}
	if stats.LosingTotal > 0 {
		stats.AverageLoss = stats.TotalLoss / float64(stats.LosingTotal)
	}
	for _, g := range stats.BySetup {
		if g.Total > 0 {
			g.WinRate = float64(g.Wins) / float64(g.Total) * 100
		}
	}

	return stats
}

// CapitalCurve 根据初始资金和交易序列生成资金曲线
// 返回值包含初始点，长度为 len(trades)+1
func CapitalCurve(initialCapital float64, trades []*model.Trade) []float64 {
	curve := make([]float64, 0, len(trades)+1)
	capital := initialCapital
	curve = append(curve, capital)
	for _, t := range trades {
		capital += t.ResultAmount
		curve = append(curve, capital)
	}
	return curve
}

// MaxDrawdownFromCurve 资金曲线上的最大回撤百分比
// 峰值为零或为负的区段跳过（避免除零），曲线为空返回 0
func MaxDrawdownFromCurve(curve []float64) float64 {
	var peak, maxDD float64
	for i, v := range curve {
		if i == 0 || v > peak {
			peak = v
		}
		if peak > 0 {
			dd := (peak - v) / peak * 100
			if dd > maxDD {
				maxDD = dd
			}
		}
	}
	return maxDD
}
