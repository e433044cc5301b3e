package di

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Sanjaykumaar123/sentinelnet/internal/config"
	"github.com/Sanjaykumaar123/sentinelnet/internal/dashboard"
	"github.com/Sanjaykumaar123/sentinelnet/internal/logging"
	"github.com/Sanjaykumaar123/sentinelnet/internal/metrics"
	"github.com/Sanjaykumaar123/sentinelnet/internal/randx"
	"github.com/Sanjaykumaar123/sentinelnet/internal/scanner"
	"github.com/Sanjaykumaar123/sentinelnet/internal/telemetry"
)

// ProvideLogger: 로거를 구성해 반환합니다.
// OTel이 활성화된 경우 로그에 trace_id/span_id가 자동으로 추가됩니다.
func ProvideLogger(cfg *config.Config) (*slog.Logger, error) {
	logger, err := logging.NewLogger(cfg.Logging, cfg.Telemetry.Enabled)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return logger, nil
}

// ProvideMetrics: 기본 Prometheus 레지스트리에 등록된 지표 저장소입니다.
func ProvideMetrics() *metrics.Store {
	return metrics.NewStore(prometheus.DefaultRegisterer)
}

// ProvideMetricsHandler: /metrics 에 노출할 기본 레지스트리 핸들러입니다.
func ProvideMetricsHandler() http.Handler {
	return promhttp.Handler()
}

// ProvideRand: 분석 점수/대시보드 노이즈 공용 난수 소스입니다.
func ProvideRand() *randx.LockedRand {
	return randx.New(nil)
}

// ProvideScanner: 설정된 rulepack(없으면 내장본)으로 분석기를 만듭니다.
func ProvideScanner(cfg *config.Config, rnd *randx.LockedRand) (*scanner.Scanner, error) {
	rules, err := scanner.LoadRules(cfg.Scanner.RulepackPath, cfg.Scanner.ExtraVulgar)
	if err != nil {
		return nil, fmt.Errorf("load rulepack: %w", err)
	}
	sc, err := scanner.New(rules, rnd)
	if err != nil {
		return nil, fmt.Errorf("build scanner: %w", err)
	}
	return sc, nil
}

// ProvideGeoIP: GeoIP DB 경로가 있을 때만 연다. 열지 못하면 경고 후 nil 을 반환한다.
func ProvideGeoIP(cfg *config.Config, logger *slog.Logger) *dashboard.GeoIPLocator {
	path := strings.TrimSpace(cfg.GeoIP.DatabasePath)
	if path == "" {
		return nil
	}
	locator, err := dashboard.OpenGeoIP(path)
	if err != nil {
		logger.Warn("geoip_open_failed", "path", path, "err", err)
		return nil
	}
	logger.Info("geoip_enabled", "path", path)
	return locator
}

// ProvideLocator: nil 포인터가 non-nil 인터페이스가 되지 않도록 변환합니다.
func ProvideLocator(geoIP *dashboard.GeoIPLocator) dashboard.Locator {
	if geoIP == nil {
		return nil
	}
	return geoIP
}

// ProvideDashboardConfig: 대시보드 설정 섹션입니다.
func ProvideDashboardConfig(cfg *config.Config) config.DashboardConfig {
	return cfg.Dashboard
}

// ProvideTelemetry: 트레이싱 provider 를 초기화합니다.
func ProvideTelemetry(cfg *config.Config) (*telemetry.Provider, error) {
	provider, err := telemetry.NewProvider(context.Background(), cfg.Telemetry)
	if err != nil {
		return nil, fmt.Errorf("init telemetry: %w", err)
	}
	return provider, nil
}
