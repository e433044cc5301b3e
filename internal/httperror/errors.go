package httperror

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/Sanjaykumaar123/sentinelnet/internal/auth"
	"github.com/Sanjaykumaar123/sentinelnet/internal/chat"
	"github.com/Sanjaykumaar123/sentinelnet/internal/store"
)

// ErrorCode 는 API 오류 코드다.
type ErrorCode string

const (
	// ErrorCodeInternal 는 내부 오류 코드다.
	ErrorCodeInternal ErrorCode = "INTERNAL_ERROR"
	// ErrorCodeValidation 는 검증 오류 코드다.
	ErrorCodeValidation ErrorCode = "VALIDATION_ERROR"
	// ErrorCodeUnauthorized 는 인증 오류 코드다.
	ErrorCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	// ErrorCodeForbidden 는 권한 오류 코드다.
	ErrorCodeForbidden ErrorCode = "FORBIDDEN"
	// ErrorCodeNotFound 는 대상 미존재 코드다.
	ErrorCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrorCodeHTTPRateLimit 는 요청 제한 오류 코드다.
	ErrorCodeHTTPRateLimit ErrorCode = "HTTP_RATE_LIMIT"
	// ErrorCodeTimeout 는 처리 시간 초과 코드다.
	ErrorCodeTimeout ErrorCode = "TIMEOUT"
	// ErrorCodeEmailExists 는 중복 가입 코드다.
	ErrorCodeEmailExists ErrorCode = "EMAIL_EXISTS"
	// ErrorCodeInvalidCredentials 는 로그인 실패 코드다.
	ErrorCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	// ErrorCodeInactiveUser 는 비활성 사용자 코드다.
	ErrorCodeInactiveUser ErrorCode = "INACTIVE_USER"
	// ErrorCodeTokenRevoked 는 폐기된 토큰 코드다.
	ErrorCodeTokenRevoked ErrorCode = "TOKEN_REVOKED"
	// ErrorCodeSelfDM 는 자기 자신과 대화 시작 코드다.
	ErrorCodeSelfDM ErrorCode = "SELF_DM"
	// ErrorCodeInvalidInput 는 입력 오류 코드다.
	ErrorCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrorCodeMissingField 는 필드 누락 코드다.
	ErrorCodeMissingField ErrorCode = "MISSING_FIELD"
)

// ErrorResponse 는 API 오류 응답 본문이다.
// detail 은 기존 웹 클라이언트가 표시하는 문구로 message 와 같다.
type ErrorResponse struct {
	ErrorCode string         `json:"error_code"`
	ErrorType string         `json:"error_type"`
	Message   string         `json:"message"`
	Detail    string         `json:"detail"`
	RequestID *string        `json:"request_id"`
	Details   map[string]any `json:"details"`
}

// Error 는 내부 표준 오류 타입이다.
type Error struct {
	Code    ErrorCode
	Status  int
	Type    string
	Message string
	Details map[string]any
}

// Error 는 오류 메시지를 반환한다.
func (e *Error) Error() string {
	return e.Message
}

// Response 는 오류를 HTTP 응답으로 변환한다.
func Response(err error, requestID string) (int, ErrorResponse) {
	apiErr := FromError(err)
	if apiErr == nil {
		apiErr = NewInternalError("unknown error")
	}

	var requestIDPtr *string
	if requestID != "" {
		requestIDPtr = &requestID
	}

	return apiErr.Status, ErrorResponse{
		ErrorCode: string(apiErr.Code),
		ErrorType: apiErr.Type,
		Message:   apiErr.Message,
		Detail:    apiErr.Message,
		RequestID: requestIDPtr,
		Details:   apiErr.Details,
	}
}

// FromError 는 오류를 내부 오류 타입으로 변환한다.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}

	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}

	switch {
	case errors.Is(err, auth.ErrEmailExists):
		return newError(ErrorCodeEmailExists, http.StatusBadRequest, "EmailExistsError",
			"The user with this email already exists in the system")
	case errors.Is(err, auth.ErrInvalidCredentials):
		return newError(ErrorCodeInvalidCredentials, http.StatusBadRequest, "InvalidCredentialsError",
			"Incorrect email or password")
	case errors.Is(err, auth.ErrInactiveUser):
		return newError(ErrorCodeInactiveUser, http.StatusBadRequest, "InactiveUserError", "Inactive user")
	case errors.Is(err, auth.ErrTokenRevoked):
		return newError(ErrorCodeTokenRevoked, http.StatusUnauthorized, "TokenRevokedError", "Token has been revoked")
	case errors.Is(err, auth.ErrInvalidToken):
		return NewUnauthorized(nil)
	case errors.Is(err, chat.ErrSendForbidden):
		return newError(ErrorCodeForbidden, http.StatusForbidden, "ForbiddenError", "Observers cannot send messages")
	case errors.Is(err, chat.ErrSelfDM):
		return newError(ErrorCodeSelfDM, http.StatusBadRequest, "SelfDMError", "Cannot DM yourself")
	case errors.Is(err, chat.ErrUserNotFound):
		return NewNotFound("User not found")
	case errors.Is(err, chat.ErrReplyNotFound):
		return NewInvalidInput("Reply target not found")
	case errors.Is(err, chat.ErrTTLOutOfRange):
		return NewInvalidInput(fmt.Sprintf("ttl_seconds must be at most %d", chat.MaxTTLSeconds))
	case errors.Is(err, store.ErrNotFound):
		return NewNotFound("Not found")
	case errors.Is(err, context.DeadlineExceeded):
		return newError(ErrorCodeTimeout, http.StatusGatewayTimeout, "TimeoutError", "Request timed out")
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		return NewValidationError(err)
	}

	return NewInternalError(err.Error())
}

func newError(code ErrorCode, status int, errType string, message string) *Error {
	return &Error{Code: code, Status: status, Type: errType, Message: message}
}

// NewInternalError 는 내부 오류를 생성한다.
func NewInternalError(message string) *Error {
	return newError(ErrorCodeInternal, http.StatusInternalServerError, "InternalError", message)
}

// NewValidationError 는 검증 오류를 생성한다.
func NewValidationError(err error) *Error {
	return &Error{
		Code:    ErrorCodeValidation,
		Status:  http.StatusUnprocessableEntity,
		Type:    "ValidationError",
		Message: "Input validation failed",
		Details: validationDetails(err),
	}
}

// NewMissingField 는 누락 필드 오류를 생성한다.
func NewMissingField(field string) *Error {
	return &Error{
		Code:    ErrorCodeMissingField,
		Status:  http.StatusBadRequest,
		Type:    "MissingFieldError",
		Message: fmt.Sprintf("Field '%s' required", field),
		Details: map[string]any{"field": field},
	}
}

// NewInvalidInput 는 입력 오류를 생성한다.
func NewInvalidInput(message string) *Error {
	return newError(ErrorCodeInvalidInput, http.StatusBadRequest, "InvalidInputError", message)
}

// NewNotFound 는 대상 미존재 오류를 생성한다.
func NewNotFound(message string) *Error {
	return newError(ErrorCodeNotFound, http.StatusNotFound, "NotFoundError", message)
}

// NewUnauthorized 는 인증 오류를 생성한다.
func NewUnauthorized(details map[string]any) *Error {
	return &Error{
		Code:    ErrorCodeUnauthorized,
		Status:  http.StatusUnauthorized,
		Type:    "UnauthorizedError",
		Message: "Could not validate credentials",
		Details: details,
	}
}

// NewRateLimitExceeded 는 요청 제한 오류를 생성한다.
func NewRateLimitExceeded(details map[string]any) *Error {
	return &Error{
		Code:    ErrorCodeHTTPRateLimit,
		Status:  http.StatusTooManyRequests,
		Type:    "HTTPRateLimitExceededError",
		Message: "Rate limit exceeded",
		Details: details,
	}
}

// FieldError 는 필드 오류 상세 정보다.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Value   any    `json:"value"`
}

func validationDetails(err error) map[string]any {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		fields := make([]FieldError, 0, len(validationErrors))
		for _, validationErr := range validationErrors {
			fields = append(fields, FieldError{
				Field:   validationErr.Field(),
				Message: validationErr.Error(),
				Value:   validationErr.Value(),
			})
		}
		return map[string]any{"errors": fields}
	}

	return map[string]any{
		"errors": []FieldError{
			{
				Field:   "body",
				Message: err.Error(),
				Value:   nil,
			},
		},
	}
}
