package handler

import (
	"bytes"
	compressgzip "compress/gzip"
	"io"
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/Sanjaykumaar123/sentinelnet/internal/auth"
	"github.com/Sanjaykumaar123/sentinelnet/internal/chat"
	"github.com/Sanjaykumaar123/sentinelnet/internal/config"
	"github.com/Sanjaykumaar123/sentinelnet/internal/dashboard"
	"github.com/Sanjaykumaar123/sentinelnet/internal/health"
	"github.com/Sanjaykumaar123/sentinelnet/internal/logging"
	"github.com/Sanjaykumaar123/sentinelnet/internal/metrics"
	"github.com/Sanjaykumaar123/sentinelnet/internal/randx"
	"github.com/Sanjaykumaar123/sentinelnet/internal/scanner"
	"github.com/Sanjaykumaar123/sentinelnet/internal/session"
	"github.com/Sanjaykumaar123/sentinelnet/internal/store"
)

type testApp struct {
	router *gin.Engine
	repo   *store.Repository
	auth   *auth.Service
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		App:      config.AppConfig{Env: "test"},
		Database: config.DatabaseConfig{Driver: config.DriverSQLite},
		Auth: config.AuthConfig{
			SecretKey:                "test-secret",
			Algorithm:                "HS256",
			AccessTokenExpireMinutes: 60,
			BcryptCost:               4,
		},
		Logging: config.LoggingConfig{Level: "info"},
	}
	logger := logging.Discard()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatal(err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	repo, err := store.NewRepositoryWithDB(context.Background(), db, logger)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(repo.Close)

	tokens, err := session.NewStore(cfg, logger)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(tokens.Close)

	metricsStore := metrics.NewStore(nil)
	authService, err := auth.NewService(cfg, repo, tokens, metricsStore, logger)
	if err != nil {
		t.Fatal(err)
	}

	noise := randx.NewSeeded(1, 2)
	sc, err := scanner.New(scanner.DefaultRules(), noise)
	if err != nil {
		t.Fatal(err)
	}
	chatService := chat.NewService(repo, sc, metricsStore, logger)
	dashboardService := dashboard.NewService(cfg.Dashboard, repo, nil, noise, logger)

	router := NewRouter(
		cfg,
		logger,
		authService,
		NewHealthHandler(health.NewChecker(cfg, repo, tokens, metricsStore), promhttp.HandlerFor(prometheus.NewRegistry(), promhttp.HandlerOpts{})),
		NewAuthHandler(authService, logger),
		NewThreatIntelHandler(chatService, logger),
		NewChatHandler(chatService, logger),
		NewDashboardHandler(dashboardService, logger),
	)
	return &testApp{router: router, repo: repo, auth: authService}
}

func (a *testApp) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	return a.doWithHeaders(t, method, path, token, body, nil)
}

func (a *testApp) doWithHeaders(t *testing.T, method, path, token string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	resp := httptest.NewRecorder()
	a.router.ServeHTTP(resp, req)
	return resp
}

func (a *testApp) register(t *testing.T, email, password, name string) {
	t.Helper()
	resp := a.do(t, http.MethodPost, APIPrefix+"/auth/register", "", map[string]string{
		"email": email, "password": password, "full_name": name,
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("register %s: %d %s", email, resp.Code, resp.Body.String())
	}
}

func (a *testApp) login(t *testing.T, email, password string) *httptest.ResponseRecorder {
	t.Helper()
	form := url.Values{"username": {email}, "password": {password}}
	req := httptest.NewRequest(http.MethodPost, APIPrefix+"/auth/login/access-token", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp := httptest.NewRecorder()
	a.router.ServeHTTP(resp, req)
	return resp
}

func (a *testApp) token(t *testing.T, email, password string) string {
	t.Helper()
	resp := a.login(t, email, password)
	if resp.Code != http.StatusOK {
		t.Fatalf("login %s: %d %s", email, resp.Code, resp.Body.String())
	}
	var token auth.Token
	if err := json.Unmarshal(resp.Body.Bytes(), &token); err != nil {
		t.Fatal(err)
	}
	if token.TokenType != auth.TokenType || token.AccessToken == "" {
		t.Fatalf("unexpected token: %+v", token)
	}
	return token.AccessToken
}

func decode[T any](t *testing.T, resp *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %s: %v", resp.Body.String(), err)
	}
	return out
}

func TestRootAndHealth(t *testing.T) {
	app := newTestApp(t)

	resp := app.do(t, http.MethodGet, "/", "", nil)
	if resp.Code != http.StatusOK || !strings.Contains(resp.Body.String(), rootMessage) {
		t.Fatalf("unexpected root response: %d %s", resp.Code, resp.Body.String())
	}

	ready := app.do(t, http.MethodGet, "/health/ready", "", nil)
	if ready.Code != http.StatusOK {
		t.Fatalf("expected ready, got %d %s", ready.Code, ready.Body.String())
	}
	payload := decode[health.Response](t, ready)
	if _, ok := payload.Components["scanner"]; !ok {
		t.Fatalf("expected scanner component: %s", ready.Body.String())
	}

	if resp := app.do(t, http.MethodGet, "/metrics", "", nil); resp.Code != http.StatusOK {
		t.Fatalf("expected metrics 200, got %d", resp.Code)
	}
}

func TestAuthFlow(t *testing.T) {
	app := newTestApp(t)
	app.register(t, "alice@sentinel.net", "pw", "Alice")

	dup := app.do(t, http.MethodPost, APIPrefix+"/auth/register", "", map[string]string{
		"email": "alice@sentinel.net", "password": "pw",
	})
	if dup.Code != http.StatusBadRequest {
		t.Fatalf("expected duplicate email 400, got %d", dup.Code)
	}

	bad := app.login(t, "alice@sentinel.net", "wrong")
	if bad.Code != http.StatusBadRequest || !strings.Contains(bad.Body.String(), "Incorrect email or password") {
		t.Fatalf("unexpected bad login: %d %s", bad.Code, bad.Body.String())
	}

	token := app.token(t, "alice@sentinel.net", "pw")
	me := app.do(t, http.MethodGet, APIPrefix+"/auth/me", token, nil)
	if me.Code != http.StatusOK {
		t.Fatalf("me: %d %s", me.Code, me.Body.String())
	}
	payload := decode[map[string]any](t, me)
	if payload["email"] != "alice@sentinel.net" || payload["role"] != string(auth.RoleUser) {
		t.Fatalf("unexpected me payload: %v", payload)
	}
	if _, ok := payload["hashed_password"]; ok {
		t.Fatalf("password hash must not be exposed")
	}

	logout := app.do(t, http.MethodPost, APIPrefix+"/auth/logout", token, nil)
	if logout.Code != http.StatusOK {
		t.Fatalf("logout: %d %s", logout.Code, logout.Body.String())
	}
	after := app.do(t, http.MethodGet, APIPrefix+"/auth/me", token, nil)
	if after.Code != http.StatusUnauthorized {
		t.Fatalf("expected revoked token to be rejected, got %d", after.Code)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	app := newTestApp(t)
	for _, path := range []string{"/chat/dms", "/chat/messages", "/auth/me"} {
		resp := app.do(t, http.MethodGet, APIPrefix+path, "", nil)
		if resp.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401, got %d", path, resp.Code)
		}
	}
}

func TestScanAndListMessages(t *testing.T) {
	app := newTestApp(t)
	app.register(t, "alice@sentinel.net", "pw", "Alice")
	token := app.token(t, "alice@sentinel.net", "pw")

	scan := app.do(t, http.MethodPost, APIPrefix+"/threat-intel/scan", token, map[string]any{
		"lines": "the bomb is in the truck",
	})
	if scan.Code != http.StatusOK {
		t.Fatalf("scan: %d %s", scan.Code, scan.Body.String())
	}
	verdict := decode[chat.SendResponse](t, scan)
	if verdict.OpsecRisk != string(scanner.OpsecHigh) || !verdict.IsBlocked || verdict.MessageID == 0 {
		t.Fatalf("unexpected verdict: %+v", verdict)
	}

	missing := app.do(t, http.MethodPost, APIPrefix+"/threat-intel/scan", token, map[string]any{})
	if missing.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected validation error, got %d", missing.Code)
	}

	list := app.do(t, http.MethodGet, APIPrefix+"/chat/messages?limit=10", token, nil)
	if list.Code != http.StatusOK {
		t.Fatalf("list: %d %s", list.Code, list.Body.String())
	}
	views := decode[[]chat.MessageView](t, list)
	if len(views) != 1 || views[0].Sender != chat.SenderMe || views[0].Status != chat.StatusBlocked {
		t.Fatalf("unexpected messages: %+v", views)
	}

	badLimit := app.do(t, http.MethodGet, APIPrefix+"/chat/messages?limit=abc", token, nil)
	if badLimit.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad limit, got %d", badLimit.Code)
	}
}

func TestAnalyzeDoesNotPersist(t *testing.T) {
	app := newTestApp(t)
	app.register(t, "alice@sentinel.net", "pw", "Alice")
	token := app.token(t, "alice@sentinel.net", "pw")

	resp := app.do(t, http.MethodPost, APIPrefix+"/threat-intel/analyze", token, map[string]any{
		"lines": "click here to verify account",
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("analyze: %d %s", resp.Code, resp.Body.String())
	}
	result := decode[scanner.Result](t, resp)
	if result.PhishingRisk != scanner.PhishingHigh {
		t.Fatalf("unexpected phishing risk: %+v", result)
	}

	list := decode[[]chat.MessageView](t, app.do(t, http.MethodGet, APIPrefix+"/chat/messages", token, nil))
	if len(list) != 0 {
		t.Fatalf("analyze must not persist, got %d messages", len(list))
	}
}

func TestDirectMessages(t *testing.T) {
	app := newTestApp(t)
	app.register(t, "alice@sentinel.net", "pw", "Alice")
	app.register(t, "bob@sentinel.net", "pw", "Bob")
	aliceToken := app.token(t, "alice@sentinel.net", "pw")
	bobToken := app.token(t, "bob@sentinel.net", "pw")

	self := app.do(t, http.MethodPost, APIPrefix+"/chat/dm", aliceToken, map[string]string{"identifier": "alice@sentinel.net"})
	if self.Code != http.StatusBadRequest {
		t.Fatalf("expected self DM rejection, got %d", self.Code)
	}
	unknown := app.do(t, http.MethodPost, APIPrefix+"/chat/dm", aliceToken, map[string]string{"identifier": "nobody@sentinel.net"})
	if unknown.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", unknown.Code)
	}

	start := app.do(t, http.MethodPost, APIPrefix+"/chat/dm", aliceToken, map[string]string{"identifier": "bob@sentinel.net"})
	if start.Code != http.StatusOK {
		t.Fatalf("start dm: %d %s", start.Code, start.Body.String())
	}
	dm := decode[chat.DMResponse](t, start)
	if dm.ChannelID != "dm_1_2" || dm.TargetUser.Email != "bob@sentinel.net" {
		t.Fatalf("unexpected dm: %+v", dm)
	}

	send := app.do(t, http.MethodPost, APIPrefix+"/threat-intel/scan", aliceToken, map[string]any{
		"lines": "meet at noon", "channel_id": dm.ChannelID,
	})
	if send.Code != http.StatusOK {
		t.Fatalf("send dm: %d %s", send.Code, send.Body.String())
	}

	dms := decode[[]chat.DMEntry](t, app.do(t, http.MethodGet, APIPrefix+"/chat/dms", bobToken, nil))
	if len(dms) != 1 || dms[0].ID != dm.ChannelID || dms[0].Name != "Alice" || dms[0].Status != chat.DirectStatus {
		t.Fatalf("unexpected dm list: %+v", dms)
	}

	views := decode[[]chat.MessageView](t, app.do(t, http.MethodGet, APIPrefix+"/chat/messages?channel_id="+dm.ChannelID, bobToken, nil))
	if len(views) != 1 || views[0].Sender != chat.SenderThem {
		t.Fatalf("unexpected dm messages: %+v", views)
	}
}

func TestObserverCannotSend(t *testing.T) {
	app := newTestApp(t)
	hashed, err := auth.HashPassword("pw", 4)
	if err != nil {
		t.Fatal(err)
	}
	observer := &store.User{Email: "obs@sentinel.net", HashedPassword: hashed, Role: string(auth.RoleObserver), IsActive: true}
	if err := app.repo.CreateUser(context.Background(), observer); err != nil {
		t.Fatal(err)
	}
	token := app.token(t, "obs@sentinel.net", "pw")

	resp := app.do(t, http.MethodPost, APIPrefix+"/threat-intel/scan", token, map[string]any{"lines": "hello"})
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.Code)
	}

	me := decode[map[string]any](t, app.do(t, http.MethodGet, APIPrefix+"/auth/me", token, nil))
	permissions, _ := me["permissions"].(map[string]any)
	if permissions["can_send_message"] != false {
		t.Fatalf("unexpected permissions: %v", me)
	}
}

func TestDashboardStatsIsPublic(t *testing.T) {
	app := newTestApp(t)

	resp := app.do(t, http.MethodGet, APIPrefix+"/dashboard/stats", "", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("stats: %d %s", resp.Code, resp.Body.String())
	}
	stats := decode[dashboard.Stats](t, resp)
	if stats.Defcon != 4 || stats.ActiveThreats != 0 || len(stats.TrendData) == 0 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestResponsesCompressOnlyWhenRequested(t *testing.T) {
	app := newTestApp(t)

	plain := app.do(t, http.MethodGet, "/", "", nil)
	if enc := plain.Header().Get("Content-Encoding"); enc != "" {
		t.Fatalf("expected identity encoding without Accept-Encoding, got %q", enc)
	}
	var root map[string]string
	if err := json.Unmarshal(plain.Body.Bytes(), &root); err != nil || root["message"] != rootMessage {
		t.Fatalf("expected plain JSON body, got %q (%v)", plain.Body.String(), err)
	}

	zipped := app.doWithHeaders(t, http.MethodGet, APIPrefix+"/dashboard/stats", "", nil, map[string]string{"Accept-Encoding": "gzip"})
	if zipped.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", zipped.Code)
	}
	if enc := zipped.Header().Get("Content-Encoding"); enc != "gzip" {
		t.Fatalf("expected gzip encoding, got %q", enc)
	}
	reader, err := compressgzip.NewReader(zipped.Body)
	if err != nil {
		t.Fatalf("gzip reader: %v", err)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		t.Fatalf("read gzip body: %v", err)
	}
	var stats dashboard.Stats
	if err := json.Unmarshal(data, &stats); err != nil {
		t.Fatalf("decode stats: %v", err)
	}

	healthResp := app.doWithHeaders(t, http.MethodGet, "/health", "", nil, map[string]string{"Accept-Encoding": "gzip"})
	if enc := healthResp.Header().Get("Content-Encoding"); enc != "" {
		t.Fatalf("expected health to skip compression, got %q", enc)
	}
}
