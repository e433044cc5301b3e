package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Sanjaykumaar123/sentinelnet/internal/chat"
	"github.com/Sanjaykumaar123/sentinelnet/internal/handler/shared"
	"github.com/Sanjaykumaar123/sentinelnet/internal/httperror"
	"github.com/Sanjaykumaar123/sentinelnet/internal/middleware"
	"github.com/Sanjaykumaar123/sentinelnet/internal/scanner"
	"github.com/Sanjaykumaar123/sentinelnet/internal/store"
)

// MessageService 는 메시지 분석/전송/조회 서비스다.
type MessageService interface {
	Analyze(text string) scanner.Result
	Send(ctx context.Context, sender *store.User, req chat.SendRequest) (*chat.SendResponse, error)
	StartDM(ctx context.Context, me *store.User, identifier string) (*chat.DMResponse, error)
	ListDMs(ctx context.Context, me *store.User) ([]chat.DMEntry, error)
	ListMessages(ctx context.Context, me *store.User, channelID string, limit int) ([]chat.MessageView, error)
}

// ThreatIntelHandler 는 메시지 위험 분석 API 핸들러다.
type ThreatIntelHandler struct {
	messages MessageService
	logger   *slog.Logger
}

// NewThreatIntelHandler 는 분석 핸들러를 생성한다.
func NewThreatIntelHandler(service *chat.Service, logger *slog.Logger) *ThreatIntelHandler {
	return &ThreatIntelHandler{messages: service, logger: logger}
}

// RegisterRoutes 는 분석 라우트를 등록한다.
func (h *ThreatIntelHandler) RegisterRoutes(protected *gin.RouterGroup) {
	group := protected.Group("/threat-intel")
	group.POST("/scan", h.handleScan)
	group.POST("/analyze", h.handleAnalyze)
}

// handleScan 은 메시지를 분석하고 저장한다. 차단된 메시지도 판정과 함께 저장된다.
func (h *ThreatIntelHandler) handleScan(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		shared.WriteError(c, httperror.NewUnauthorized(nil))
		return
	}

	var req chat.SendRequest
	if !shared.BindJSON(c, &req) {
		return
	}
	req.SenderIP = c.ClientIP()

	resp, err := h.messages.Send(c.Request.Context(), user, req)
	if err != nil {
		shared.LogError(c, h.logger, "scan", err)
		shared.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ThreatIntelHandler) handleAnalyze(c *gin.Context) {
	var req chat.AnalyzeRequest
	if !shared.BindJSON(c, &req) {
		return
	}
	c.JSON(http.StatusOK, h.messages.Analyze(req.Lines))
}
