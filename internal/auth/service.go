package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Sanjaykumaar123/sentinelnet/internal/config"
	"github.com/Sanjaykumaar123/sentinelnet/internal/metrics"
	"github.com/Sanjaykumaar123/sentinelnet/internal/session"
	"github.com/Sanjaykumaar123/sentinelnet/internal/store"
)

// 기본 관리자 계정입니다. 초기화 명령에서 사용합니다.
const (
	DefaultAdminEmail    = "admin@sentinel.net"
	DefaultAdminPassword = "admin"
	DefaultAdminName     = "Commander Shepard"
)

// UserStore 는 인증에 필요한 사용자 저장소다.
type UserStore interface {
	CreateUser(ctx context.Context, user *store.User) error
	UserByEmail(ctx context.Context, email string) (*store.User, error)
}

// RegisterRequest 는 가입 요청이다.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	FullName string `json:"full_name"`
}

// Service 는 가입/로그인/토큰 검증을 담당한다.
type Service struct {
	users      UserStore
	tokens     *TokenIssuer
	revocation session.Storage
	metrics    *metrics.Store
	bcryptCost int
	logger     *slog.Logger
	now        func() time.Time
}

// NewService 는 인증 서비스를 생성한다.
func NewService(
	cfg *config.Config,
	users UserStore,
	revocation session.Storage,
	metricsStore *metrics.Store,
	logger *slog.Logger,
) (*Service, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	ttl := time.Duration(cfg.Auth.AccessTokenExpireMinutes) * time.Minute
	tokens, err := NewTokenIssuer(cfg.Auth.SecretKey, cfg.Auth.Algorithm, ttl)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		users:      users,
		tokens:     tokens,
		revocation: revocation,
		metrics:    metricsStore,
		bcryptCost: cfg.Auth.BcryptCost,
		logger:     logger,
		now:        time.Now,
	}, nil
}

// Register 는 기본 역할(user)로 계정을 만든다.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*store.User, error) {
	return s.createUser(ctx, req, RoleUser)
}

func (s *Service) createUser(ctx context.Context, req RegisterRequest, role Role) (*store.User, error) {
	email := strings.TrimSpace(req.Email)
	if email == "" || req.Password == "" {
		return nil, ErrInvalidCredentials
	}

	hashed, err := HashPassword(req.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}
	user := &store.User{
		Email:          email,
		HashedPassword: hashed,
		FullName:       strings.TrimSpace(req.FullName),
		Role:           string(role),
		IsActive:       true,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("register user: %w", err)
	}

	s.logger.Info("user_registered", "user_id", user.ID, "role", user.Role)
	return user, nil
}

// Login 은 이메일/비밀번호를 확인하고 액세스 토큰을 발급한다.
func (s *Service) Login(ctx context.Context, email string, password string) (*Token, error) {
	user, err := s.users.UserByEmail(ctx, strings.TrimSpace(email))
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("login lookup: %w", err)
	}
	if user == nil || !VerifyPassword(password, user.HashedPassword) {
		s.metrics.RecordLogin(metrics.LoginFailure)
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		s.metrics.RecordLogin(metrics.LoginInactive)
		return nil, ErrInactiveUser
	}

	role, _ := ParseRole(user.Role)
	signed, _, err := s.tokens.Issue(user.Email, user.ID, role)
	if err != nil {
		return nil, err
	}
	s.metrics.RecordLogin(metrics.LoginSuccess)
	s.logger.Debug("user_logged_in", "user_id", user.ID)
	return &Token{AccessToken: signed, TokenType: TokenType}, nil
}

// Authenticate 는 토큰을 검증하고 활성 사용자를 반환한다.
func (s *Service) Authenticate(ctx context.Context, raw string) (*store.User, *Claims, error) {
	claims, err := s.tokens.Parse(raw)
	if err != nil {
		return nil, nil, err
	}

	if s.revocation != nil {
		revoked, err := s.revocation.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, nil, fmt.Errorf("check revocation: %w", err)
		}
		if revoked {
			return nil, nil, ErrTokenRevoked
		}
	}

	user, err := s.users.UserByEmail(ctx, claims.Subject)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil, ErrInvalidToken
	}
	if err != nil {
		return nil, nil, fmt.Errorf("load user: %w", err)
	}
	if !user.IsActive {
		return nil, nil, ErrInactiveUser
	}
	return user, claims, nil
}

// Logout 은 토큰을 만료 시각까지 폐기한다.
func (s *Service) Logout(ctx context.Context, raw string) error {
	claims, err := s.tokens.Parse(raw)
	if err != nil {
		return err
	}
	if s.revocation == nil {
		return nil
	}
	now := s.now()
	rec := session.Revocation{UserID: claims.UID, RevokedAt: now.UTC()}
	if err := s.revocation.Revoke(ctx, claims.ID, rec, claims.Remaining(now)); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	s.logger.Debug("user_logged_out", "user_id", claims.UID)
	return nil
}

// SeedAdmin 은 관리자 계정이 없으면 만든다. 만들었으면 true 를 반환한다.
func (s *Service) SeedAdmin(ctx context.Context, email string, password string, fullName string) (*store.User, bool, error) {
	existing, err := s.users.UserByEmail(ctx, email)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, false, fmt.Errorf("seed admin lookup: %w", err)
	}
	user, err := s.createUser(ctx, RegisterRequest{Email: email, Password: password, FullName: fullName}, RoleAdmin)
	if err != nil {
		return nil, false, err
	}
	return user, true, nil
}
