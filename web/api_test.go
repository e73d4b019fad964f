package web

import (
	"testing"
	"time"
)

func TestDayBounds(t *testing.T) {
	paris, err := time.LoadLocation("Europe/Paris")
	if err != nil {
		t.Fatalf("加载时区失败: %v", err)
	}
	oldLoc := globalLocation
	SetLocation(paris)
	defer SetLocation(oldLoc)

	// UTC 23:30 在巴黎已是次日 01:30（夏令时）
	at := time.Date(2026, 7, 15, 23, 30, 0, 0, time.UTC)
	start, end := dayBounds(at)

	wantStart := time.Date(2026, 7, 16, 0, 0, 0, 0, paris)
	if !start.Equal(wantStart) {
		t.Errorf("当日起点应为 %v, 实际 %v", wantStart, start)
	}
	if got := end.Sub(start); got != 24*time.Hour {
		t.Errorf("当日区间应为 24 小时, 实际 %v", got)
	}
	if !at.Before(end) || at.Before(start) {
		t.Error("原始时间应落在 [start, end) 区间内")
	}
}

func TestDayBoundsMidnight(t *testing.T) {
	oldLoc := globalLocation
	SetLocation(time.UTC)
	defer SetLocation(oldLoc)

	at := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	start, end := dayBounds(at)
	if !start.Equal(at) {
		t.Errorf("午夜整点应是当日起点, 实际 %v", start)
	}
	if !end.Equal(at.Add(24 * time.Hour)) {
		t.Errorf("当日终点应为次日午夜, 实际 %v", end)
	}
}
