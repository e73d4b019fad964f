// Package calc 提供挑战跟踪的纯计算函数
// 所有函数无副作用、不依赖外部状态，错误只在入参非法时返回
package calc

import (
	"errors"
	"math"

	"tradechallenge/model"
)

// ErrZeroPeakCapital 峰值资金为零，无法计算回撤
var ErrZeroPeakCapital = errors.New("peak capital is zero")

// DailyTarget 复利公式计算第 day 天的目标资金
// target = initial × (1 + pct/100)^day，day 为 0 时返回 initial
// 理论资金曲线与每日目标使用同一公式
func DailyTarget(initial, dailyTargetPercent float64, day int) float64 {
	return initial * math.Pow(1+dailyTargetPercent/100, float64(day))
}

// MaxRiskPerTrade 单笔交易允许的最大风险金额
// 基于当前资金计算，不做任何钳制（资金为负时结果为负，由调用方解释）
func MaxRiskPerTrade(currentCapital, maxRiskPercent float64) float64 {
	return currentCapital * maxRiskPercent / 100
}

// Drawdown 从峰值资金到当前资金的回撤百分比
// peak 为零时返回 ErrZeroPeakCapital，避免产生 NaN/Inf
func Drawdown(peakCapital, currentCapital float64) (float64, error) {
	if peakCapital == 0 {
		return 0, ErrZeroPeakCapital
	}
	return (peakCapital - currentCapital) / peakCapital * 100, nil
}

// ProgressPercent 挑战进度百分比，线性插值并钳制到 [0, 100]
// target == start 的退化区间：达到即 100，否则 0
func ProgressPercent(startCapital, currentCapital, targetCapital float64) float64 {
	if targetCapital == startCapital {
		if currentCapital >= targetCapital {
			return 100
		}
		return 0
	}
	p := (currentCapital - startCapital) / (targetCapital - startCapital) * 100
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// DeviationPercent 当前资金相对理论资金的偏差百分比，不做钳制
// theoretical 为零时返回 0（挑战初始资金为正，实际不会出现）
func DeviationPercent(currentCapital, theoreticalCapital float64) float64 {
	if theoreticalCapital == 0 {
		return 0
	}
	return (currentCapital - theoreticalCapital) / theoreticalCapital * 100
}

// WinRate 盈利交易占比（百分比）
// 只有 resultAmount > 0 计为盈利，空集合返回 0
func WinRate(trades []*model.Trade) float64 {
	if len(trades) == 0 {
		return 0
	}
	wins := 0
	for _, t := range trades {
		if t.ResultAmount > 0 {
			wins++
		}
	}
	return float64(wins) / float64(len(trades)) * 100
}

// ProfitFactor 盈亏比：总盈利 / |总亏损|
// 无亏损时返回总盈利本身（避免除零），空集合或全部持平返回 0
func ProfitFactor(trades []*model.Trade) float64 {
	var totalWin, totalLoss float64
	for _, t := range trades {
		if t.ResultAmount > 0 {
			totalWin += t.ResultAmount
		} else if t.ResultAmount < 0 {
			totalLoss += t.ResultAmount
		}
	}
	if totalLoss == 0 {
		return totalWin
	}
	return totalWin / math.Abs(totalLoss)
}

// TradeResult 按方向计算一笔交易的盈亏
// 金额 = 方向化价差 / 开仓价 × (开仓价 × 手数)；百分比相对开仓时资金
// 两者均四舍五入到两位小数，创建后固化存储不再重算
func TradeResult(direction model.Direction, entryPrice, exitPrice, lotSize, capitalAtEntry float64) (amount, percent float64) {
	priceDiff := exitPrice - entryPrice
	if direction == model.DirectionSell {
		priceDiff = entryPrice - exitPrice
	}
	amount = priceDiff / entryPrice * (entryPrice * lotSize)
	if capitalAtEntry != 0 {
		percent = amount / capitalAtEntry * 100
	}
	return Round2(amount), Round2(percent)
}

// Round2 四舍五入到两位小数
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
