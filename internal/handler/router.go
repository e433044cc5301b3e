package handler

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/Sanjaykumaar123/sentinelnet/internal/config"
	"github.com/Sanjaykumaar123/sentinelnet/internal/middleware"
	"github.com/Sanjaykumaar123/sentinelnet/internal/telemetry"
)

// APIPrefix 는 REST API 경로 접두사다.
const APIPrefix = "/api/v1"

const rootMessage = "SentinelNet Secure Gateway Active"

// NewRouter 는 HTTP 라우터를 구성한다.
func NewRouter(
	cfg *config.Config,
	logger *slog.Logger,
	authenticator middleware.Authenticator,
	healthHandler *HealthHandler,
	authHandler *AuthHandler,
	threatIntelHandler *ThreatIntelHandler,
	chatHandler *ChatHandler,
	dashboardHandler *DashboardHandler,
) *gin.Engine {
	setGinMode(cfg.Logging.Level)

	router := gin.New()
	if cfg.Telemetry.Enabled {
		router.Use(otelgin.Middleware(telemetry.ServiceName(cfg.Telemetry)))
	}
	router.Use(
		middleware.RequestID(),
		middleware.RequestLogger(logger),
		gin.Recovery(),
		cors.New(newCORSConfig(cfg.CORS)),
		newGzipMiddleware(),
	)

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": rootMessage})
	})
	healthHandler.RegisterRoutes(router)

	rateLimit := middleware.RateLimit(cfg)
	public := router.Group(APIPrefix, rateLimit)
	protected := router.Group(APIPrefix, middleware.BearerAuth(authenticator), rateLimit)

	authHandler.RegisterRoutes(public, protected)
	threatIntelHandler.RegisterRoutes(protected)
	chatHandler.RegisterRoutes(protected)
	dashboardHandler.RegisterRoutes(public)

	return router
}

func newCORSConfig(cfg config.CORSConfig) cors.Config {
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowOrigins) == 0 || (len(cfg.AllowOrigins) == 1 && cfg.AllowOrigins[0] == "*") {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.AllowOrigins
		corsConfig.AllowCredentials = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader}
	corsConfig.ExposeHeaders = []string{middleware.RequestIDHeader}
	corsConfig.MaxAge = 12 * time.Hour
	return corsConfig
}

// newGzipMiddleware 는 Accept-Encoding 협상을 gin-contrib/gzip 기본 판정에 맡긴다.
// 상태 확인은 작고, /metrics 는 promhttp 가 직접 압축한다.
func newGzipMiddleware() gin.HandlerFunc {
	return gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/health", "/metrics"}))
}

func setGinMode(level string) {
	if strings.EqualFold(strings.TrimSpace(level), "debug") {
		gin.SetMode(gin.DebugMode)
		return
	}
	gin.SetMode(gin.ReleaseMode)
}
