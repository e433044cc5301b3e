package metrics

import (
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Sanjaykumaar123/sentinelnet/internal/scanner"
)

const namespace = "sentinelnet"

// 로그인 결과 라벨입니다.
const (
	LoginSuccess  = "success"
	LoginFailure  = "failure"
	LoginInactive = "inactive"
)

// Store 는 분석/인증 통계를 저장한다.
// 누적값은 원자 카운터로 유지하고 같은 값을 Prometheus 수집기로 노출한다.
type Store struct {
	totalScans      int64
	totalBlocked    int64
	totalDurationUs int64

	scans        *prometheus.CounterVec
	blocked      prometheus.Counter
	logins       *prometheus.CounterVec
	scanDuration prometheus.Histogram
}

// NewStore 는 통계 저장소를 생성하고 reg 에 수집기를 등록한다. reg 가 nil 이면 등록하지 않는다.
func NewStore(reg prometheus.Registerer) *Store {
	s := &Store{
		scans: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scans_total",
			Help:      "Scanned messages by verdict.",
		}, []string{"opsec", "phishing", "vulgar"}),
		blocked: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "blocked_messages_total",
			Help:      "Messages flagged as blocked.",
		}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "logins_total",
			Help:      "Login attempts by outcome.",
		}, []string{"outcome"}),
		scanDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "scan_duration_seconds",
			Help:      "Scanner latency.",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		}),
	}
	if reg != nil {
		reg.MustRegister(s.scans, s.blocked, s.logins, s.scanDuration)
	}
	return s
}

// RecordScan 은 분석 결과 통계를 기록한다.
func (s *Store) RecordScan(result scanner.Result, duration time.Duration) {
	if s == nil {
		return
	}
	atomic.AddInt64(&s.totalScans, 1)
	atomic.AddInt64(&s.totalDurationUs, duration.Microseconds())
	s.scans.WithLabelValues(string(result.OpsecRisk), string(result.PhishingRisk), string(result.VulgarRisk)).Inc()
	s.scanDuration.Observe(duration.Seconds())
	if result.Blocked() {
		atomic.AddInt64(&s.totalBlocked, 1)
		s.blocked.Inc()
	}
}

// RecordLogin 은 로그인 결과를 기록한다.
func (s *Store) RecordLogin(outcome string) {
	if s == nil {
		return
	}
	s.logins.WithLabelValues(outcome).Inc()
}

// Snapshot 는 통계 스냅샷을 반환한다.
func (s *Store) Snapshot() map[string]float64 {
	if s == nil {
		return map[string]float64{}
	}
	totalScans := atomic.LoadInt64(&s.totalScans)
	totalBlocked := atomic.LoadInt64(&s.totalBlocked)
	durationUs := atomic.LoadInt64(&s.totalDurationUs)

	avgDuration := 0.0
	if totalScans > 0 {
		avgDuration = float64(durationUs) / float64(totalScans)
	}

	return map[string]float64{
		"total_scans":     float64(totalScans),
		"total_blocked":   float64(totalBlocked),
		"avg_duration_us": avgDuration,
	}
}
