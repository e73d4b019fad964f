package database

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"tradechallenge/model"
)

func newTestDB(t *testing.T) Database {
	t.Helper()
	db, err := NewDatabase(&Config{
		Type: "sqlite",
		DSN:  filepath.Join(t.TempDir(), "test.db"),
	})
	if err != nil {
		t.Fatalf("创建测试数据库失败: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func testChallenge(id string) *model.Challenge {
	now := time.Now()
	return &model.Challenge{
		ID:                 id,
		UserID:             "trader",
		Name:               "Challenge 30 jours",
		InitialCapital:     1000,
		TargetCapital:      237376.31,
		DailyTargetPercent: 20,
		DurationDays:       30,
		StartDate:          now,
		EndDate:            now.AddDate(0, 0, 30),
		Status:             model.ChallengeActive,
		CurrentCapital:     1000,
		CurrentDay:         1,
	}
}

func TestChallengeCRUD(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if err := db.SaveChallenge(ctx, testChallenge("c1")); err != nil {
		t.Fatalf("保存挑战失败: %v", err)
	}

	got, err := db.GetChallenge(ctx, "c1")
	if err != nil {
		t.Fatalf("获取挑战失败: %v", err)
	}
	if got.Name != "Challenge 30 jours" || got.CurrentDay != 1 {
		t.Errorf("挑战字段不一致: %+v", got)
	}

	// 不存在的 ID 返回 ErrNotFound
	if _, err := db.GetChallenge(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("不存在的挑战应返回 ErrNotFound, got=%v", err)
	}

	got.Status = model.ChallengeCompleted
	if err := db.UpdateChallenge(ctx, got); err != nil {
		t.Fatalf("更新挑战失败: %v", err)
	}
	got, _ = db.GetChallenge(ctx, "c1")
	if got.Status != model.ChallengeCompleted {
		t.Errorf("状态未更新: %s", got.Status)
	}
}

func TestGetActiveChallenge(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	// 没有进行中的挑战返回 ErrNotFound
	if _, err := db.GetActiveChallenge(ctx, "trader"); !errors.Is(err, ErrNotFound) {
		t.Errorf("无进行中挑战应返回 ErrNotFound, got=%v", err)
	}

	c := testChallenge("c1")
	if err := db.SaveChallenge(ctx, c); err != nil {
		t.Fatalf("保存挑战失败: %v", err)
	}

	got, err := db.GetActiveChallenge(ctx, "trader")
	if err != nil {
		t.Fatalf("获取进行中挑战失败: %v", err)
	}
	if got.ID != "c1" {
		t.Errorf("进行中挑战 ID 错误: %s", got.ID)
	}
}

func TestSaveTradeWithCapital(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if err := db.SaveChallenge(ctx, testChallenge("c1")); err != nil {
		t.Fatalf("保存挑战失败: %v", err)
	}

	trade := &model.Trade{
		ID:            "t1",
		ChallengeID:   "c1",
		UserID:        "trader",
		Date:          time.Now(),
		Instrument:    "EURUSD",
		Direction:     model.DirectionBuy,
		LotSize:       1000,
		EntryPrice:    1.1,
		ExitPrice:     1.12,
		ResultAmount:  20,
		ResultPercent: 2,
		SetupType:     "breakout",
	}
	if err := db.SaveTradeWithCapital(ctx, trade, 1020); err != nil {
		t.Fatalf("事务写入交易失败: %v", err)
	}

	// 交易与资金必须同时落库
	trades, err := db.GetTrades(ctx, &TradeFilter{ChallengeID: "c1"})
	if err != nil {
		t.Fatalf("获取交易失败: %v", err)
	}
	if len(trades) != 1 || trades[0].ResultAmount != 20 {
		t.Errorf("交易记录错误: %+v", trades)
	}
	c, _ := db.GetChallenge(ctx, "c1")
	if c.CurrentCapital != 1020 {
		t.Errorf("挑战资金未更新: got=%v want=1020", c.CurrentCapital)
	}
}

func TestGetTradesFilterAndOrder(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if err := db.SaveChallenge(ctx, testChallenge("c1")); err != nil {
		t.Fatalf("保存挑战失败: %v", err)
	}

	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	for i, setup := range []string{"breakout", "pullback", "breakout"} {
		trade := &model.Trade{
			ID:          []string{"t1", "t2", "t3"}[i],
			ChallengeID: "c1",
			UserID:      "trader",
			Date:        base.Add(time.Duration(i) * time.Hour),
			SetupType:   setup,
		}
		if err := db.SaveTradeWithCapital(ctx, trade, 1000); err != nil {
			t.Fatalf("写入交易失败: %v", err)
		}
	}

	// 升序排列（建议引擎的输入顺序）
	trades, err := db.GetTrades(ctx, &TradeFilter{ChallengeID: "c1", Ascending: true})
	if err != nil {
		t.Fatalf("获取交易失败: %v", err)
	}
	if len(trades) != 3 || trades[0].ID != "t1" || trades[2].ID != "t3" {
		t.Errorf("升序排列错误: %+v", trades)
	}

	// setup 过滤
	trades, err = db.GetTrades(ctx, &TradeFilter{ChallengeID: "c1", SetupType: "breakout"})
	if err != nil {
		t.Fatalf("获取交易失败: %v", err)
	}
	if len(trades) != 2 {
		t.Errorf("setup 过滤错误: got=%d want=2", len(trades))
	}

	// 时间窗口过滤（EndTime 为开区间）
	end := base.Add(time.Hour)
	trades, err = db.GetTrades(ctx, &TradeFilter{ChallengeID: "c1", StartTime: &base, EndTime: &end})
	if err != nil {
		t.Fatalf("获取交易失败: %v", err)
	}
	if len(trades) != 1 || trades[0].ID != "t1" {
		t.Errorf("时间窗口过滤错误: %+v", trades)
	}
}

func TestRulesUpsert(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	// 首次保存创建记录
	rules := model.DefaultRules("trader")
	if err := db.SaveRules(ctx, rules); err != nil {
		t.Fatalf("保存规则失败: %v", err)
	}

	got, err := db.GetRules(ctx, "trader")
	if err != nil {
		t.Fatalf("获取规则失败: %v", err)
	}
	if got.MaxTradesPerDay != 3 || got.MaxDrawdownPercent != 10 {
		t.Errorf("默认规则错误: %+v", got)
	}

	// 二次保存更新同一条记录
	got.MaxTradesPerDay = 5
	if err := db.SaveRules(ctx, got); err != nil {
		t.Fatalf("更新规则失败: %v", err)
	}
	updated, _ := db.GetRules(ctx, "trader")
	if updated.MaxTradesPerDay != 5 {
		t.Errorf("规则未更新: %+v", updated)
	}
	if updated.ID != got.ID {
		t.Errorf("upsert 不应创建新记录: id %d != %d", updated.ID, got.ID)
	}
}

func TestDailySummaries(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	for day := 2; day >= 1; day-- {
		summary := &model.DailySummary{
			ChallengeID:     "c1",
			Date:            time.Now(),
			Day:             day,
			StartingCapital: 1000,
			EndingCapital:   1200,
		}
		if err := db.SaveDailySummary(ctx, summary); err != nil {
			t.Fatalf("保存每日汇总失败: %v", err)
		}
	}

	summaries, err := db.GetDailySummaries(ctx, "c1")
	if err != nil {
		t.Fatalf("获取每日汇总失败: %v", err)
	}
	if len(summaries) != 2 || summaries[0].Day != 1 {
		t.Errorf("每日汇总应按天数升序: %+v", summaries)
	}
}
