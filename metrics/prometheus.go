package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	once     sync.Once
	instance *PrometheusMetrics

	// HTTP 指标
	httpRequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "challenge_http_request_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "challenge_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 2.0},
		},
		[]string{"method", "path"},
	)

	// 交易指标
	tradeRecordedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "challenge_trade_recorded_total",
			Help: "Total number of trades recorded",
		},
		[]string{"direction", "outcome"}, // outcome: win, loss, flat
	)

	tradeResultAmount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "challenge_trade_result_amount_total",
			Help: "Cumulative absolute trade result amount",
		},
		[]string{"outcome"},
	)

	// 挑战指标
	currentCapital = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "challenge_current_capital",
			Help: "Current capital of the active challenge",
		},
	)

	progressPercent = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "challenge_progress_percent",
			Help: "Progress of the active challenge (0-100)",
		},
	)

	winRate = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "challenge_win_rate",
			Help: "Win rate percentage of the active challenge (0-100)",
		},
	)

	// 建议引擎指标
	advisoryEvaluationTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "challenge_advisory_evaluation_total",
			Help: "Total number of advisory evaluations by resulting status",
		},
		[]string{"status"}, // on-track, warning, blocked
	)

	// 认证指标
	loginAttemptTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "challenge_login_attempt_total",
			Help: "Total number of login attempts",
		},
		[]string{"status"}, // success, failed, rate_limited
	)

	// WebSocket 指标
	websocketClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "challenge_websocket_clients",
			Help: "Number of connected WebSocket clients",
		},
	)

	// 系统指标
	goroutineCount = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "challenge_goroutine_count",
			Help: "Number of goroutines",
		},
	)

	memoryAllocBytes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "challenge_memory_alloc_bytes",
			Help: "Bytes of allocated heap objects",
		},
	)

	gcPauseDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "challenge_gc_pause_duration_seconds",
			Help:    "GC pause duration in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		},
	)

	processCPUPercent = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "challenge_process_cpu_percent",
			Help: "Process CPU usage percentage",
		},
	)

	processMemoryMB = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "challenge_process_memory_mb",
			Help: "Process resident memory in MB",
		},
	)
)

// PrometheusMetrics Prometheus 指标收集器
type PrometheusMetrics struct{}

// GetPrometheusMetrics 获取全局指标收集器（单例）
func GetPrometheusMetrics() *PrometheusMetrics {
	once.Do(func() {
		instance = &PrometheusMetrics{}
	})
	return instance
}

// RecordHTTPRequest 记录 HTTP 请求
func (pm *PrometheusMetrics) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	httpRequestTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordTrade 记录一笔交易
func (pm *PrometheusMetrics) RecordTrade(direction string, resultAmount float64) {
	outcome := "flat"
	if resultAmount > 0 {
		outcome = "win"
	} else if resultAmount < 0 {
		outcome = "loss"
	}
	tradeRecordedTotal.WithLabelValues(direction, outcome).Inc()
	abs := resultAmount
	if abs < 0 {
		abs = -abs
	}
	tradeResultAmount.WithLabelValues(outcome).Add(abs)
}

// SetChallengeState 更新当前挑战的资金与进度
func (pm *PrometheusMetrics) SetChallengeState(capital, progress, rate float64) {
	currentCapital.Set(capital)
	progressPercent.Set(progress)
	winRate.Set(rate)
}

// RecordAdvisoryEvaluation 记录建议引擎求值结果
func (pm *PrometheusMetrics) RecordAdvisoryEvaluation(status string) {
	advisoryEvaluationTotal.WithLabelValues(status).Inc()
}

// RecordLoginAttempt 记录登录尝试
func (pm *PrometheusMetrics) RecordLoginAttempt(status string) {
	loginAttemptTotal.WithLabelValues(status).Inc()
}

// SetWebSocketClients 更新 WebSocket 连接数
func (pm *PrometheusMetrics) SetWebSocketClients(count int) {
	websocketClients.Set(float64(count))
}

// SetGoroutineCount 更新 Goroutine 数量
func (pm *PrometheusMetrics) SetGoroutineCount(count int) {
	goroutineCount.Set(float64(count))
}

// SetMemoryAlloc 更新堆内存分配量
func (pm *PrometheusMetrics) SetMemoryAlloc(bytes uint64) {
	memoryAllocBytes.Set(float64(bytes))
}

// RecordGCPause 记录 GC 停顿时间
func (pm *PrometheusMetrics) RecordGCPause(duration time.Duration) {
	gcPauseDuration.Observe(duration.Seconds())
}

// SetProcessStats 更新进程级资源占用
func (pm *PrometheusMetrics) SetProcessStats(cpuPercent, memoryMB float64) {
	processCPUPercent.Set(cpuPercent)
	processMemoryMB.Set(memoryMB)
}
