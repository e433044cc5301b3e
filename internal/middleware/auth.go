package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Sanjaykumaar123/sentinelnet/internal/auth"
	"github.com/Sanjaykumaar123/sentinelnet/internal/httperror"
	"github.com/Sanjaykumaar123/sentinelnet/internal/store"
)

const (
	currentUserKey = "current_user"
	claimsKey      = "token_claims"
	accessTokenKey = "access_token"
)

// Authenticator 는 액세스 토큰을 사용자로 바꾼다.
type Authenticator interface {
	Authenticate(ctx context.Context, raw string) (*store.User, *auth.Claims, error)
}

// BearerAuth 는 Authorization: Bearer 토큰 인증 미들웨어다.
// 성공하면 사용자/클레임/원본 토큰을 컨텍스트에 담는다.
func BearerAuth(authenticator Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractBearerToken(c)
		if token == "" {
			abortUnauthorized(c, httperror.NewUnauthorized(map[string]any{"path": c.Request.URL.Path}))
			return
		}

		user, claims, err := authenticator.Authenticate(c.Request.Context(), token)
		if err != nil {
			abortUnauthorized(c, err)
			return
		}

		c.Set(currentUserKey, user)
		c.Set(claimsKey, claims)
		c.Set(accessTokenKey, token)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, err error) {
	status, payload := httperror.Response(err, GetRequestID(c))
	c.Header("WWW-Authenticate", "Bearer")
	c.AbortWithStatusJSON(status, payload)
}

// CurrentUser 는 인증된 사용자를 반환한다.
func CurrentUser(c *gin.Context) (*store.User, bool) {
	value, ok := c.Get(currentUserKey)
	if !ok {
		return nil, false
	}
	user, ok := value.(*store.User)
	return user, ok && user != nil
}

// AccessToken 은 인증에 쓰인 원본 토큰을 반환한다.
func AccessToken(c *gin.Context) string {
	return c.GetString(accessTokenKey)
}

func extractBearerToken(c *gin.Context) string {
	if c == nil {
		return ""
	}
	authValue := strings.TrimSpace(c.GetHeader("Authorization"))
	scheme, token, ok := strings.Cut(authValue, " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
