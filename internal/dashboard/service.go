package dashboard

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/Sanjaykumaar123/sentinelnet/internal/cache"
	"github.com/Sanjaykumaar123/sentinelnet/internal/config"
	"github.com/Sanjaykumaar123/sentinelnet/internal/store"
)

const (
	statsKey = "stats"

	threatWindow   = time.Hour
	trendBuckets   = 10
	trendInterval  = 5 * time.Minute
	alertLimit     = 5
	logLimit       = 10
	baseNodes      = 1204
	nodesPerThreat = 15
	geoSpread      = 0.1
	computeTimeout = 10 * time.Second

	alertTitle = "OPSEC LEAK DETECTED"

	statusOperational = "OPERATIONAL"
	statusCritical    = "CRITICAL"

	logWarn = "[WARN]"
	logInfo = "[INFO]"
	logSys  = "[SYS]"
)

var systemFillers = []string{
	"Scanning packet bundle...",
	"Handshake established id_993",
	"Group Key #882 Updated",
	"Latency check: 12ms",
}

// Repository 는 집계에 필요한 조회 메서드다.
type Repository interface {
	CountHighSince(ctx context.Context, since time.Time) (int64, error)
	MessagesSince(ctx context.Context, since time.Time) ([]store.Message, error)
	LatestHigh(ctx context.Context, limit int) ([]store.Message, error)
	LatestMessages(ctx context.Context, limit int) ([]store.Message, error)
}

// Noise 는 화면용 흔들림 값을 만드는 난수 소스다. 동시 호출에 안전해야 한다.
type Noise interface {
	IntRange(lo, hi int) int
	IntN(n int) int
	Uniform(lo, hi float64) float64
}

// Service 는 대시보드 집계를 담당한다. 짧은 TTL 동안 결과를 재사용하고 동시 요청은 하나로 합친다.
type Service struct {
	repo    Repository
	locator Locator
	noise   Noise
	cache   *cache.TTLCache[string, *Stats]
	group   singleflight.Group
	lat     float64
	lng     float64
	logger  *slog.Logger
	now     func() time.Time
}

// NewService 는 대시보드 서비스를 생성한다. locator 는 nil 일 수 있다.
func NewService(cfg config.DashboardConfig, repo Repository, locator Locator, noise Noise, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		repo:    repo,
		locator: locator,
		noise:   noise,
		lat:     cfg.CenterLat,
		lng:     cfg.CenterLng,
		logger:  logger,
		now:     time.Now,
	}
	if cfg.CacheTTLSeconds > 0 {
		s.cache = cache.NewTTLCache[string, *Stats](1, time.Duration(cfg.CacheTTLSeconds)*time.Second)
	}
	return s
}

// Stats 는 현재 시각 기준 집계를 반환한다.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	if s.cache != nil {
		if cached, ok := s.cache.Get(statsKey); ok {
			return cached, nil
		}
	}

	// 합쳐진 호출자들이 먼저 온 요청의 취소에 묶이지 않도록 취소를 끊는다.
	value, err, _ := s.group.Do(statsKey, func() (any, error) {
		computeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), computeTimeout)
		defer cancel()
		stats, err := s.compute(computeCtx, s.now().UTC())
		if err != nil {
			return nil, err
		}
		if s.cache != nil {
			s.cache.Set(statsKey, stats)
		}
		return stats, nil
	})
	if err != nil {
		return nil, err
	}
	return value.(*Stats), nil
}

func (s *Service) compute(ctx context.Context, now time.Time) (*Stats, error) {
	since := now.Add(-threatWindow)

	var (
		threats int64
		recent  []store.Message
		alerts  []store.Message
		latest  []store.Message
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		threats, err = s.repo.CountHighSince(gctx, since)
		return err
	})
	g.Go(func() error {
		var err error
		recent, err = s.repo.MessagesSince(gctx, since)
		return err
	})
	g.Go(func() error {
		var err error
		alerts, err = s.repo.LatestHigh(gctx, alertLimit)
		return err
	})
	g.Go(func() error {
		var err error
		latest, err = s.repo.LatestMessages(gctx, logLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("dashboard stats: %w", err)
	}

	activeThreats := int(threats)
	defcon := Defcon(activeThreats)
	status := statusOperational
	if defcon <= 2 {
		status = statusCritical
	}

	stats := &Stats{
		SystemStatus:  status,
		ActiveNodes:   baseNodes + activeThreats*nodesPerThreat + s.noise.IntRange(-5, 5),
		Defcon:        defcon,
		ActiveThreats: activeThreats,
		TrendData:     s.trend(now, recent),
		Alerts:        buildAlerts(alerts),
		Logs:          s.logs(now, latest),
		GeoRisks:      s.geoRisks(activeThreats, recent),
	}
	s.logger.Debug("dashboard_stats_computed", "active_threats", activeThreats, "defcon", defcon)
	return stats, nil
}

// Defcon 은 최근 1시간 OPSEC HIGH 건수로 경계 단계를 정한다.
func Defcon(activeThreats int) int {
	switch {
	case activeThreats > 10:
		return 2
	case activeThreats > 2:
		return 3
	default:
		return 4
	}
}

func isRisky(opsec string) bool {
	return opsec != "" && opsec != "SAFE"
}

func (s *Service) trend(now time.Time, recent []store.Message) []TrendPoint {
	points := make([]TrendPoint, 0, trendBuckets)
	for i := range trendBuckets {
		start := now.Add(-time.Duration(trendBuckets-i) * trendInterval)
		end := start.Add(trendInterval)
		count := 0
		for _, msg := range recent {
			if msg.Timestamp.After(start) && msg.Timestamp.Before(end) && isRisky(msg.OpsecRisk) {
				count++
			}
		}
		points = append(points, TrendPoint{
			Time:  start.Format("15:04"),
			Value: count + s.noise.IntRange(0, 2),
		})
	}
	return points
}

func buildAlerts(messages []store.Message) []Alert {
	alerts := make([]Alert, 0, len(messages))
	for _, msg := range messages {
		alerts = append(alerts, Alert{
			ID:      msg.ID,
			Title:   alertTitle,
			Risk:    store.OpsecHigh,
			Time:    msg.Timestamp,
			Details: fmt.Sprintf("Source: User %d", msg.SenderID),
		})
	}
	return alerts
}

func (s *Service) logs(now time.Time, latest []store.Message) []LogLine {
	lines := make([]LogLine, 0, logLimit)
	for _, msg := range latest {
		line := LogLine{Type: logInfo, at: msg.Timestamp}
		if msg.OpsecRisk == store.OpsecHigh {
			line.Type = logWarn
		}
		if isRisky(msg.OpsecRisk) {
			line.Message = "Threat Detected: " + msg.OpsecRisk
		} else {
			line.Message = fmt.Sprintf("Secure message processed (%d bytes)", len(msg.ContentEncrypted))
		}
		lines = append(lines, line)
	}
	for len(lines) < logLimit {
		lines = append(lines, LogLine{
			Type:    logSys,
			Message: systemFillers[s.noise.IntN(len(systemFillers))],
			at:      now,
		})
	}

	sort.SliceStable(lines, func(i, j int) bool {
		return lines[i].at.After(lines[j].at)
	})
	lines = lines[:logLimit]
	for i := range lines {
		lines[i].Time = lines[i].at.Format("15:04:05")
	}
	return lines
}

func (s *Service) geoRisks(activeThreats int, recent []store.Message) []GeoRisk {
	sources := make([]string, 0, activeThreats)
	for _, msg := range recent {
		if msg.OpsecRisk == store.OpsecHigh {
			sources = append(sources, msg.SenderIP)
		}
	}

	count := max(activeThreats, 1)
	points := make([]GeoRisk, 0, count)
	for i := range count {
		if i < len(sources) && s.locator != nil {
			if lat, lng, ok := s.locator.Locate(sources[i]); ok {
				points = append(points, GeoRisk{Lat: lat, Lng: lng, Risk: store.OpsecHigh})
				continue
			}
		}
		points = append(points, GeoRisk{
			Lat:  s.lat + s.noise.Uniform(-geoSpread, geoSpread),
			Lng:  s.lng + s.noise.Uniform(-geoSpread, geoSpread),
			Risk: store.OpsecHigh,
		})
	}
	return points
}
