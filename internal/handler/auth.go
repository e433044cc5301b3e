package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Sanjaykumaar123/sentinelnet/internal/auth"
	"github.com/Sanjaykumaar123/sentinelnet/internal/handler/shared"
	"github.com/Sanjaykumaar123/sentinelnet/internal/httperror"
	"github.com/Sanjaykumaar123/sentinelnet/internal/middleware"
	"github.com/Sanjaykumaar123/sentinelnet/internal/store"
)

// AuthService 는 가입/로그인/로그아웃 서비스다.
type AuthService interface {
	Register(ctx context.Context, req auth.RegisterRequest) (*store.User, error)
	Login(ctx context.Context, email string, password string) (*auth.Token, error)
	Logout(ctx context.Context, raw string) error
}

// MeResponse 는 현재 사용자와 역할별 화면 권한이다.
type MeResponse struct {
	*store.User
	Permissions Permissions `json:"permissions"`
}

// Permissions 는 역할에서 파생된 화면 권한이다.
type Permissions struct {
	CanSendMessage bool `json:"can_send_message"`
	CanViewAI      bool `json:"can_view_ai"`
	CanEscalate    bool `json:"can_escalate"`
	SimpleView     bool `json:"simple_view"`
}

// AuthHandler 는 인증 API 핸들러다.
type AuthHandler struct {
	service AuthService
	logger  *slog.Logger
}

// NewAuthHandler 는 인증 핸들러를 생성한다.
func NewAuthHandler(service *auth.Service, logger *slog.Logger) *AuthHandler {
	return newAuthHandler(service, logger)
}

func newAuthHandler(service AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{service: service, logger: logger}
}

// RegisterRoutes 는 인증 라우트를 등록한다. logout/me 는 protected 그룹에 붙는다.
func (h *AuthHandler) RegisterRoutes(public *gin.RouterGroup, protected *gin.RouterGroup) {
	public.POST("/auth/login/access-token", h.handleLogin)
	public.POST("/auth/register", h.handleRegister)
	protected.POST("/auth/logout", h.handleLogout)
	protected.GET("/auth/me", h.handleMe)
}

// handleLogin 은 OAuth2 password 폼(username, password)으로 토큰을 발급한다.
func (h *AuthHandler) handleLogin(c *gin.Context) {
	form, ok := shared.BindForm(c, "username", "password")
	if !ok {
		return
	}

	token, err := h.service.Login(c.Request.Context(), form["username"], form["password"])
	if err != nil {
		shared.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, token)
}

func (h *AuthHandler) handleRegister(c *gin.Context) {
	var req auth.RegisterRequest
	if !shared.BindJSON(c, &req) {
		return
	}

	user, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		shared.LogError(c, h.logger, "register", err)
		shared.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *AuthHandler) handleLogout(c *gin.Context) {
	if err := h.service.Logout(c.Request.Context(), middleware.AccessToken(c)); err != nil {
		shared.LogError(c, h.logger, "logout", err)
		shared.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

func (h *AuthHandler) handleMe(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		shared.WriteError(c, httperror.NewUnauthorized(nil))
		return
	}
	role := auth.Role(user.Role)
	c.JSON(http.StatusOK, MeResponse{
		User: user,
		Permissions: Permissions{
			CanSendMessage: auth.CanSendMessage(role),
			CanViewAI:      auth.CanViewAI(role),
			CanEscalate:    auth.CanEscalate(role),
			SimpleView:     auth.IsSimpleView(role),
		},
	})
}
