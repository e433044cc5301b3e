package middleware

import (
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/Sanjaykumaar123/sentinelnet/internal/cache"
	"github.com/Sanjaykumaar123/sentinelnet/internal/config"
	"github.com/Sanjaykumaar123/sentinelnet/internal/httperror"
)

// RateLimit 는 /api/ 경로에 식별자별 토큰 버킷을 적용한다.
// 식별자는 BearerAuth 가 검증한 사용자, 없으면 클라이언트 IP 다. 분당 한도만큼 연속 요청을 허용한다.
// 보호 그룹에서는 BearerAuth 뒤에 두어야 사용자 단위로 센다.
func RateLimit(cfg *config.Config) gin.HandlerFunc {
	if cfg == nil || cfg.HTTPRateLimit.RequestsPerMinute <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	perMinute := cfg.HTTPRateLimit.RequestsPerMinute
	every := rate.Every(time.Minute / time.Duration(perMinute))
	retryAfter := strconv.Itoa(int(math.Ceil(60 / float64(perMinute))))

	// 버킷이 가득 차기(1분) 전에 유휴 limiter 가 버려지면 한도가 초기화된다.
	idleTTL := max(time.Duration(cfg.HTTPRateLimit.CacheTTLSeconds)*time.Second, time.Minute)
	limiters := cache.NewTTLCache[string, *rate.Limiter](cfg.HTTPRateLimit.CacheSize, idleTTL)

	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions || !strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.Next()
			return
		}

		identity := rateLimitIdentity(c)
		limiter := limiters.GetOrCreate(identity, func() *rate.Limiter {
			return rate.NewLimiter(every, perMinute)
		})

		if !limiter.Allow() {
			details := map[string]any{
				"path":             c.Request.URL.Path,
				"identity":         identity,
				"limit_per_minute": perMinute,
			}
			status, payload := httperror.Response(httperror.NewRateLimitExceeded(details), GetRequestID(c))
			c.Header("Retry-After", retryAfter)
			c.AbortWithStatusJSON(status, payload)
			return
		}

		c.Next()
	}
}

func rateLimitIdentity(c *gin.Context) string {
	if user, ok := CurrentUser(c); ok {
		return "user:" + strconv.FormatUint(uint64(user.ID), 10)
	}
	if ip := c.ClientIP(); ip != "" {
		return "ip:" + ip
	}
	return "ip:unknown"
}
