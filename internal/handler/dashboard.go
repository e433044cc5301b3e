package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Sanjaykumaar123/sentinelnet/internal/dashboard"
	"github.com/Sanjaykumaar123/sentinelnet/internal/handler/shared"
)

// StatsService 는 대시보드 집계 서비스다.
type StatsService interface {
	Stats(ctx context.Context) (*dashboard.Stats, error)
}

// DashboardHandler 는 대시보드 API 핸들러다.
type DashboardHandler struct {
	stats  StatsService
	logger *slog.Logger
}

// NewDashboardHandler 는 대시보드 핸들러를 생성한다.
func NewDashboardHandler(service *dashboard.Service, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{stats: service, logger: logger}
}

// RegisterRoutes 는 대시보드 라우트를 등록한다.
func (h *DashboardHandler) RegisterRoutes(public *gin.RouterGroup) {
	public.GET("/dashboard/stats", h.handleStats)
}

func (h *DashboardHandler) handleStats(c *gin.Context) {
	stats, err := h.stats.Stats(c.Request.Context())
	if err != nil {
		shared.LogError(c, h.logger, "dashboard_stats", err)
		shared.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
