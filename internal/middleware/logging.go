package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Sanjaykumaar123/sentinelnet/internal/logging"
)

// RequestLogger 는 HTTP 요청 로그 미들웨어다.
// 상태 확인/메트릭 경로는 정상 응답이면 남기지 않는다.
func RequestLogger(logger *slog.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = logging.Discard()
	}

	return func(c *gin.Context) {
		startedAt := time.Now()
		path := c.Request.URL.Path

		c.Next()

		status := c.Writer.Status()
		failed := status >= http.StatusBadRequest || len(c.Errors) > 0
		if !failed && isNoisyInfoPath(path) {
			return
		}

		attrs := []slog.Attr{
			slog.String("request_id", GetRequestID(c)),
			slog.String("method", c.Request.Method),
			slog.String("path", path),
			slog.String("route", c.FullPath()),
			slog.Int("status", status),
			slog.Duration("latency", time.Since(startedAt)),
			slog.Int("bytes", c.Writer.Size()),
			slog.String("client_ip", c.ClientIP()),
		}
		if user, ok := CurrentUser(c); ok {
			attrs = append(attrs, slog.Any("user_id", user.ID), slog.String("role", user.Role))
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, slog.String("errors", c.Errors.String()))
		}

		logger.LogAttrs(c.Request.Context(), levelForStatus(status), "http_request", attrs...)
	}
}

func levelForStatus(status int) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case status >= http.StatusBadRequest:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

func isNoisyInfoPath(path string) bool {
	switch path {
	case "/health", "/health/ready", "/metrics":
		return true
	default:
		return false
	}
}
