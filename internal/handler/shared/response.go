package shared

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Sanjaykumaar123/sentinelnet/internal/httperror"
	"github.com/Sanjaykumaar123/sentinelnet/internal/middleware"
)

// WriteError 는 에러 응답을 작성한다.
func WriteError(c *gin.Context, err error) {
	if c == nil {
		return
	}
	status, payload := httperror.Response(err, middleware.GetRequestID(c))
	c.JSON(status, payload)
}

// BindJSON 는 요청 본문을 JSON으로 파싱한다.
func BindJSON(c *gin.Context, out any) bool {
	if c == nil {
		return false
	}
	if err := c.ShouldBindJSON(out); err != nil {
		WriteError(c, httperror.NewValidationError(err))
		return false
	}
	return true
}

// BindJSONAllowEmpty 는 빈 본문도 허용한다.
func BindJSONAllowEmpty(c *gin.Context, out any) bool {
	if c == nil {
		return false
	}
	if err := c.ShouldBindJSON(out); err != nil {
		if errors.Is(err, io.EOF) {
			return true
		}
		WriteError(c, httperror.NewValidationError(err))
		return false
	}
	return true
}

// BindForm 는 폼 요청에서 필수 필드를 읽는다. 비어 있으면 누락 오류를 응답한다.
func BindForm(c *gin.Context, fields ...string) (map[string]string, bool) {
	if c == nil {
		return nil, false
	}
	values := make(map[string]string, len(fields))
	for _, field := range fields {
		value := c.PostForm(field)
		if value == "" {
			WriteError(c, httperror.NewMissingField(field))
			return nil, false
		}
		values[field] = value
	}
	return values, true
}

// LogError 는 핸들러 실패를 남긴다. 서버 오류는 Error, 나머지는 Debug 로 기록한다.
func LogError(c *gin.Context, logger *slog.Logger, event string, err error) {
	if logger == nil || err == nil {
		return
	}
	level := slog.LevelDebug
	if apiErr := httperror.FromError(err); apiErr != nil && apiErr.Status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	ctx := context.Background()
	requestID := ""
	if c != nil {
		ctx = c.Request.Context()
		requestID = middleware.GetRequestID(c)
	}
	logger.Log(ctx, level, event+"_failed", "request_id", requestID, "err", err)
}
