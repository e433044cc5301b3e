package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Sanjaykumaar123/sentinelnet/internal/health"
)

// HealthCollector 는 상태 수집기다.
type HealthCollector interface {
	Collect(ctx context.Context, deepChecks bool) health.Response
}

// HealthHandler 는 상태 확인과 Prometheus 노출 엔드포인트를 제공한다.
type HealthHandler struct {
	checker HealthCollector
	metrics http.Handler
}

// NewHealthHandler 는 상태 핸들러를 생성한다. metricsHandler 가 nil 이면 기본 레지스트리를 노출한다.
func NewHealthHandler(checker HealthCollector, metricsHandler http.Handler) *HealthHandler {
	if metricsHandler == nil {
		metricsHandler = promhttp.Handler()
	}
	return &HealthHandler{checker: checker, metrics: metricsHandler}
}

// RegisterRoutes 는 /health, /health/ready, /metrics 를 등록한다.
func (h *HealthHandler) RegisterRoutes(router gin.IRoutes) {
	router.GET("/health", h.live)
	router.GET("/health/ready", h.ready)
	router.GET("/metrics", gin.WrapH(h.metrics))
}

// live 는 외부 의존성에 접속하지 않는다.
func (h *HealthHandler) live(c *gin.Context) {
	c.JSON(http.StatusOK, h.checker.Collect(c.Request.Context(), false))
}

func (h *HealthHandler) ready(c *gin.Context) {
	payload := h.checker.Collect(c.Request.Context(), true)
	status := http.StatusOK
	if payload.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, payload)
}
