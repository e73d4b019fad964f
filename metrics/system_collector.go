package metrics

import (
	"context"
	"os"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/process"
)

// SystemMetricsCollector 系统指标采集器
// 定期采集 Go 运行时与进程级资源占用并写入 Prometheus 指标
type SystemMetricsCollector struct {
	pm       *PrometheusMetrics
	interval time.Duration
	proc     *process.Process
	ctx      context.Context
	cancel   context.CancelFunc
}

// NewSystemMetricsCollector 创建系统指标采集器
func NewSystemMetricsCollector(interval time.Duration) *SystemMetricsCollector {
	ctx, cancel := context.WithCancel(context.Background())
	// 进程句柄获取失败时只采集运行时指标
	proc, _ := process.NewProcess(int32(os.Getpid()))
	return &SystemMetricsCollector{
		pm:       GetPrometheusMetrics(),
		interval: interval,
		proc:     proc,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start 启动采集
func (smc *SystemMetricsCollector) Start() {
	go smc.collectLoop()
}

// Stop 停止采集
func (smc *SystemMetricsCollector) Stop() {
	if smc.cancel != nil {
		smc.cancel()
	}
}

// collectLoop 采集循环
func (smc *SystemMetricsCollector) collectLoop() {
	ticker := time.NewTicker(smc.interval)
	defer ticker.Stop()

	// 立即采集一次
	smc.collect()

	for {
		select {
		case <-smc.ctx.Done():
			return
		case <-ticker.C:
			smc.collect()
		}
	}
}

// collect 采集系统指标
func (smc *SystemMetricsCollector) collect() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	smc.pm.SetGoroutineCount(runtime.NumGoroutine())
	smc.pm.SetMemoryAlloc(m.Alloc)

	// GC 停顿时间（最近一次）
	// PauseNs 是循环缓冲区，最新的停顿时间在 (NumGC+255)%256 位置
	if m.NumGC > 0 {
		idx := (m.NumGC + 255) % 256
		if pauseNs := m.PauseNs[idx]; pauseNs > 0 {
			smc.pm.RecordGCPause(time.Duration(pauseNs))
		}
	}

	if smc.proc == nil {
		return
	}

	cpuPercent, err := smc.proc.CPUPercent()
	if err != nil {
		cpuPercent = 0
	}
	var memoryMB float64
	if memInfo, err := smc.proc.MemoryInfo(); err == nil {
		memoryMB = float64(memInfo.RSS) / 1024 / 1024
	}
	smc.pm.SetProcessStats(cpuPercent, memoryMB)
}
