package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Sanjaykumaar123/sentinelnet/internal/channel"
	"github.com/Sanjaykumaar123/sentinelnet/internal/chat"
	"github.com/Sanjaykumaar123/sentinelnet/internal/handler/shared"
	"github.com/Sanjaykumaar123/sentinelnet/internal/httperror"
	"github.com/Sanjaykumaar123/sentinelnet/internal/middleware"
)

// ChatHandler 는 채널/1:1 대화 API 핸들러다.
type ChatHandler struct {
	messages MessageService
	logger   *slog.Logger
}

// NewChatHandler 는 대화 핸들러를 생성한다.
func NewChatHandler(service *chat.Service, logger *slog.Logger) *ChatHandler {
	return &ChatHandler{messages: service, logger: logger}
}

// RegisterRoutes 는 대화 라우트를 등록한다.
func (h *ChatHandler) RegisterRoutes(protected *gin.RouterGroup) {
	group := protected.Group("/chat")
	group.POST("/dm", h.handleStartDM)
	group.GET("/dms", h.handleListDMs)
	group.GET("/messages", h.handleListMessages)
}

func (h *ChatHandler) handleStartDM(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		shared.WriteError(c, httperror.NewUnauthorized(nil))
		return
	}

	var req chat.DMRequest
	if !shared.BindJSON(c, &req) {
		return
	}

	resp, err := h.messages.StartDM(c.Request.Context(), user, req.Identifier)
	if err != nil {
		shared.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ChatHandler) handleListDMs(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		shared.WriteError(c, httperror.NewUnauthorized(nil))
		return
	}

	entries, err := h.messages.ListDMs(c.Request.Context(), user)
	if err != nil {
		shared.LogError(c, h.logger, "list_dms", err)
		shared.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (h *ChatHandler) handleListMessages(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		shared.WriteError(c, httperror.NewUnauthorized(nil))
		return
	}

	limit := chat.DefaultListLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			shared.WriteError(c, httperror.NewInvalidInput("limit must be a positive integer"))
			return
		}
		limit = parsed
	}
	channelID := c.DefaultQuery("channel_id", channel.General)

	messages, err := h.messages.ListMessages(c.Request.Context(), user, channelID, limit)
	if err != nil {
		shared.LogError(c, h.logger, "list_messages", err)
		shared.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, messages)
}
