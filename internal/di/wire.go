//go:build wireinject

package di

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/wire"

	"github.com/Sanjaykumaar123/sentinelnet/internal/auth"
	"github.com/Sanjaykumaar123/sentinelnet/internal/chat"
	"github.com/Sanjaykumaar123/sentinelnet/internal/config"
	"github.com/Sanjaykumaar123/sentinelnet/internal/dashboard"
	"github.com/Sanjaykumaar123/sentinelnet/internal/handler"
	"github.com/Sanjaykumaar123/sentinelnet/internal/health"
	"github.com/Sanjaykumaar123/sentinelnet/internal/metrics"
	"github.com/Sanjaykumaar123/sentinelnet/internal/middleware"
	"github.com/Sanjaykumaar123/sentinelnet/internal/randx"
	"github.com/Sanjaykumaar123/sentinelnet/internal/scanner"
	"github.com/Sanjaykumaar123/sentinelnet/internal/server"
	"github.com/Sanjaykumaar123/sentinelnet/internal/session"
	"github.com/Sanjaykumaar123/sentinelnet/internal/store"
)

func InitializeApp() (*App, error) {
	wire.Build(
		config.ProvideConfig,
		ProvideLogger,
		ProvideTelemetry,
		ProvideMetrics,
		ProvideMetricsHandler,
		ProvideRand,
		ProvideScanner,
		ProvideGeoIP,
		ProvideLocator,
		ProvideDashboardConfig,
		store.NewRepository,
		session.NewStore,
		wire.Bind(new(session.Storage), new(*session.Store)),
		wire.Bind(new(auth.UserStore), new(*store.Repository)),
		wire.Bind(new(chat.Repository), new(*store.Repository)),
		wire.Bind(new(chat.Analyzer), new(*scanner.Scanner)),
		wire.Bind(new(dashboard.Repository), new(*store.Repository)),
		wire.Bind(new(dashboard.Noise), new(*randx.LockedRand)),
		wire.Bind(new(health.Pinger), new(*store.Repository)),
		wire.Bind(new(health.TokenStore), new(*session.Store)),
		wire.Bind(new(health.ScanStats), new(*metrics.Store)),
		wire.Bind(new(handler.HealthCollector), new(*health.Checker)),
		wire.Bind(new(middleware.Authenticator), new(*auth.Service)),
		auth.NewService,
		chat.NewService,
		dashboard.NewService,
		health.NewChecker,
		handler.NewHealthHandler,
		handler.NewAuthHandler,
		handler.NewThreatIntelHandler,
		handler.NewChatHandler,
		handler.NewDashboardHandler,
		handler.NewRouter,
		wire.Bind(new(http.Handler), new(*gin.Engine)),
		server.NewHTTPServer,
		NewApp,
	)
	return nil, nil
}
