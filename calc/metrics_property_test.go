package calc

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"tradechallenge/model"
)

func TestProgressPercentProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	// 任意实数入参结果都落在 [0, 100]
	properties.Property("进度百分比始终落在 [0,100]", prop.ForAll(
		func(start, current, target float64) bool {
			p := ProgressPercent(start, current, target)
			return p >= 0 && p <= 100
		},
		gen.Float64Range(-1e6, 1e6),
		gen.Float64Range(-1e6, 1e6),
		gen.Float64Range(-1e6, 1e6),
	))

	// 起点与目标之间单调不减
	properties.Property("进度随资金单调不减", prop.ForAll(
		func(start, delta1, delta2 float64) bool {
			target := start + 1000
			c1 := start + delta1
			c2 := c1 + delta2
			return ProgressPercent(start, c1, target) <= ProgressPercent(start, c2, target)
		},
		gen.Float64Range(100, 1e5),
		gen.Float64Range(0, 2000),
		gen.Float64Range(0, 2000),
	))

	properties.TestingRun(t)
}

func TestDailyTargetProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	// 正增长率下曲线严格递增
	properties.Property("正增长率下目标随天数递增", prop.ForAll(
		func(initial, pct float64, day int) bool {
			return DailyTarget(initial, pct, day+1) > DailyTarget(initial, pct, day)
		},
		gen.Float64Range(1, 1e5),
		gen.Float64Range(0.1, 100),
		gen.IntRange(0, 60),
	))

	// 第 0 天恒等于初始资金
	properties.Property("第 0 天目标等于初始资金", prop.ForAll(
		func(initial, pct float64) bool {
			return DailyTarget(initial, pct, 0) == initial
		},
		gen.Float64Range(1, 1e5),
		gen.Float64Range(0, 100),
	))

	properties.TestingRun(t)
}

func TestWinRateProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	genTrades := gen.SliceOf(gen.Float64Range(-1000, 1000)).Map(func(amounts []float64) []*model.Trade {
		trades := make([]*model.Trade, len(amounts))
		for i, a := range amounts {
			trades[i] = &model.Trade{ResultAmount: a}
		}
		return trades
	})

	// 胜率永远落在 [0, 100]
	properties.Property("胜率始终落在 [0,100]", prop.ForAll(
		func(trades []*model.Trade) bool {
			wr := WinRate(trades)
			return wr >= 0 && wr <= 100
		},
		genTrades,
	))

	// 盈亏比永远非负且不为 NaN
	properties.Property("盈亏比非负且有限", prop.ForAll(
		func(trades []*model.Trade) bool {
			pf := ProfitFactor(trades)
			return pf >= 0 && !math.IsNaN(pf) && !math.IsInf(pf, 0)
		},
		genTrades,
	))

	properties.TestingRun(t)
}

func TestDrawdownProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	// 非零峰值下回撤计算永不产生 NaN
	properties.Property("非零峰值下回撤有限", prop.ForAll(
		func(peak, current float64) bool {
			dd, err := Drawdown(peak, current)
			if err != nil {
				return peak == 0
			}
			return !math.IsNaN(dd) && !math.IsInf(dd, 0)
		},
		gen.Float64Range(1, 1e6),
		gen.Float64Range(-1e6, 1e6),
	))

	properties.TestingRun(t)
}
