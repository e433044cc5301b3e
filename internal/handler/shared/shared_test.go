package shared_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/Sanjaykumaar123/sentinelnet/internal/handler/shared"
)

type sampleRequest struct {
	Name string `json:"name" binding:"required"`
}

func TestBindJSON(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString("invalid"))
	c.Request.Header.Set("Content-Type", "application/json")

	var req sampleRequest
	if shared.BindJSON(c, &req) {
		t.Fatalf("expected BindJSON to fail")
	}
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", w.Code)
	}
}

func TestBindJSONAllowEmpty(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)
	c.Request.Header.Set("Content-Type", "application/json")

	var req sampleRequest
	if !shared.BindJSONAllowEmpty(c, &req) {
		t.Fatalf("expected BindJSONAllowEmpty to succeed")
	}
}

func TestBindForm(t *testing.T) {
	gin.SetMode(gin.TestMode)

	form := url.Values{"username": {"a@b.c"}}
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	c.Request.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	if _, ok := shared.BindForm(c, "username", "password"); ok {
		t.Fatalf("expected missing password")
	}
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}

	form.Set("password", "secret")
	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	c.Request.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	values, ok := shared.BindForm(c, "username", "password")
	if !ok || values["username"] != "a@b.c" || values["password"] != "secret" {
		t.Fatalf("unexpected values: %v", values)
	}
}
