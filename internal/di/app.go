package di

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/Sanjaykumaar123/sentinelnet/internal/config"
	"github.com/Sanjaykumaar123/sentinelnet/internal/dashboard"
	"github.com/Sanjaykumaar123/sentinelnet/internal/server"
	"github.com/Sanjaykumaar123/sentinelnet/internal/session"
	"github.com/Sanjaykumaar123/sentinelnet/internal/store"
	"github.com/Sanjaykumaar123/sentinelnet/internal/telemetry"
)

const (
	startupTimeout  = 10 * time.Second
	shutdownTimeout = 10 * time.Second
)

// App: 애플리케이션 구성 요소를 묶는다.
type App struct {
	Server     *http.Server
	Logger     *slog.Logger
	Config     *config.Config
	Repository *store.Repository
	TokenStore *session.Store
	GeoIP      *dashboard.GeoIPLocator
	Telemetry  *telemetry.Provider
}

// NewApp: App 인스턴스를 생성합니다.
func NewApp(
	server *http.Server,
	logger *slog.Logger,
	cfg *config.Config,
	repository *store.Repository,
	tokenStore *session.Store,
	geoIP *dashboard.GeoIPLocator,
	telemetryProvider *telemetry.Provider,
) *App {
	return &App{
		Server:     server,
		Logger:     logger,
		Config:     cfg,
		Repository: repository,
		TokenStore: tokenStore,
		GeoIP:      geoIP,
		Telemetry:  telemetryProvider,
	}
}

// Close: 앱 리소스를 정리합니다. 남은 span 은 ctx 기한 안에서 flush 합니다.
func (a *App) Close(ctx context.Context) {
	if a.TokenStore != nil {
		a.TokenStore.Close()
	}
	if a.Repository != nil {
		a.Repository.Close()
	}
	if a.GeoIP != nil {
		a.GeoIP.Close()
	}
	if a.Telemetry != nil {
		if err := a.Telemetry.Shutdown(ctx); err != nil && a.Logger != nil {
			a.Logger.Warn("telemetry_shutdown_failed", "err", err)
		}
	}
}

// Run: DB 를 준비하고 ctx 가 끝날 때까지 HTTP 서버를 돌립니다.
// 서버가 실패해도 반환 전에 Close 로 자원을 정리합니다.
func (a *App) Run(ctx context.Context) error {
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		a.Close(closeCtx)
	}()

	config.LogEnvStatus(a.Config, a.Logger)

	// 첫 요청 전에 연결과 스키마 마이그레이션을 끝낸다.
	startupCtx, cancelStartup := context.WithTimeout(ctx, startupTimeout)
	if err := a.Repository.Ping(startupCtx); err != nil {
		a.Logger.Warn("database_not_ready", "err", err)
	} else {
		a.Logger.Info("database_ready", "driver", a.Config.Database.Driver)
	}
	cancelStartup()

	tokenBackend := "none"
	if a.TokenStore != nil {
		tokenBackend = a.TokenStore.Backend()
	}
	a.Logger.Info(
		"http_server_start",
		"host", a.Config.HTTP.Host,
		"port", a.Config.HTTP.Port,
		"transport", server.TransportMode(a.Config),
		"token_store", tokenBackend,
	)

	return server.Run(ctx, a.Server, shutdownTimeout)
}
