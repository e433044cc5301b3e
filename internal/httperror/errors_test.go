package httperror

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/Sanjaykumaar123/sentinelnet/internal/auth"
	"github.com/Sanjaykumaar123/sentinelnet/internal/chat"
	"github.com/Sanjaykumaar123/sentinelnet/internal/store"
)

func TestFromErrorMapping(t *testing.T) {
	tests := []struct {
		err    error
		code   ErrorCode
		status int
	}{
		{auth.ErrEmailExists, ErrorCodeEmailExists, http.StatusBadRequest},
		{auth.ErrInvalidCredentials, ErrorCodeInvalidCredentials, http.StatusBadRequest},
		{auth.ErrInactiveUser, ErrorCodeInactiveUser, http.StatusBadRequest},
		{fmt.Errorf("%w: expired", auth.ErrInvalidToken), ErrorCodeUnauthorized, http.StatusUnauthorized},
		{auth.ErrTokenRevoked, ErrorCodeTokenRevoked, http.StatusUnauthorized},
		{chat.ErrSendForbidden, ErrorCodeForbidden, http.StatusForbidden},
		{chat.ErrSelfDM, ErrorCodeSelfDM, http.StatusBadRequest},
		{chat.ErrUserNotFound, ErrorCodeNotFound, http.StatusNotFound},
		{chat.ErrReplyNotFound, ErrorCodeInvalidInput, http.StatusBadRequest},
		{chat.ErrTTLOutOfRange, ErrorCodeInvalidInput, http.StatusBadRequest},
		{fmt.Errorf("load: %w", store.ErrNotFound), ErrorCodeNotFound, http.StatusNotFound},
		{context.DeadlineExceeded, ErrorCodeTimeout, http.StatusGatewayTimeout},
		{errors.New("boom"), ErrorCodeInternal, http.StatusInternalServerError},
	}
	for _, tc := range tests {
		apiErr := FromError(tc.err)
		if apiErr == nil || apiErr.Code != tc.code || apiErr.Status != tc.status {
			t.Fatalf("%v: unexpected mapping %+v", tc.err, apiErr)
		}
	}
}

func TestResponseIncludesRequestIDAndDetail(t *testing.T) {
	status, payload := Response(chat.ErrSelfDM, "req-1")
	if status != http.StatusBadRequest {
		t.Fatalf("unexpected status: %d", status)
	}
	if payload.RequestID == nil || *payload.RequestID != "req-1" {
		t.Fatalf("expected request id")
	}
	if payload.Detail != "Cannot DM yourself" || payload.Message != payload.Detail {
		t.Fatalf("unexpected detail: %+v", payload)
	}
}

func TestNewMissingField(t *testing.T) {
	err := NewMissingField("username")
	if err.Status != http.StatusBadRequest {
		t.Fatalf("expected 400 status, got: %d", err.Status)
	}
	if err.Code != ErrorCodeMissingField {
		t.Fatalf("expected missing field error code")
	}
}

func TestNewValidationError(t *testing.T) {
	err := NewValidationError(errors.New("field validation failed"))
	// NewValidationError 는 422 Unprocessable Entity 반환
	if err.Status != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 status, got: %d", err.Status)
	}
	if _, ok := err.Details["errors"]; !ok {
		t.Fatalf("expected error details")
	}
}
