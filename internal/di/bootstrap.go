package di

import (
	"fmt"

	"github.com/Sanjaykumaar123/sentinelnet/internal/auth"
	"github.com/Sanjaykumaar123/sentinelnet/internal/chat"
	"github.com/Sanjaykumaar123/sentinelnet/internal/config"
	"github.com/Sanjaykumaar123/sentinelnet/internal/dashboard"
	"github.com/Sanjaykumaar123/sentinelnet/internal/handler"
	"github.com/Sanjaykumaar123/sentinelnet/internal/health"
	"github.com/Sanjaykumaar123/sentinelnet/internal/server"
	"github.com/Sanjaykumaar123/sentinelnet/internal/session"
	"github.com/Sanjaykumaar123/sentinelnet/internal/store"
)

// InitializeApp 은 애플리케이션 의존성을 초기화하고 App 인스턴스를 반환한다.
func InitializeApp() (*App, error) {
	cfg, err := config.ProvideConfig()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	logger, err := ProvideLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}

	telemetryProvider, err := ProvideTelemetry(cfg)
	if err != nil {
		return nil, fmt.Errorf("telemetry: %w", err)
	}

	metricsStore := ProvideMetrics()
	rnd := ProvideRand()

	sc, err := ProvideScanner(cfg, rnd)
	if err != nil {
		return nil, fmt.Errorf("scanner: %w", err)
	}

	repository := store.NewRepository(cfg, logger)

	tokenStore, err := session.NewStore(cfg, logger)
	if err != nil {
		repository.Close()
		return nil, fmt.Errorf("token store: %w", err)
	}

	authService, err := auth.NewService(cfg, repository, tokenStore, metricsStore, logger)
	if err != nil {
		tokenStore.Close()
		repository.Close()
		return nil, fmt.Errorf("auth service: %w", err)
	}

	chatService := chat.NewService(repository, sc, metricsStore, logger)

	geoIP := ProvideGeoIP(cfg, logger)
	dashboardService := dashboard.NewService(ProvideDashboardConfig(cfg), repository, ProvideLocator(geoIP), rnd, logger)

	checker := health.NewChecker(cfg, repository, tokenStore, metricsStore)

	router := handler.NewRouter(
		cfg,
		logger,
		authService,
		handler.NewHealthHandler(checker, ProvideMetricsHandler()),
		handler.NewAuthHandler(authService, logger),
		handler.NewThreatIntelHandler(chatService, logger),
		handler.NewChatHandler(chatService, logger),
		handler.NewDashboardHandler(dashboardService, logger),
	)
	httpServer := server.NewHTTPServer(cfg, router)

	return NewApp(httpServer, logger, cfg, repository, tokenStore, geoIP, telemetryProvider), nil
}
