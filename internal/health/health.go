package health

import (
	"context"
	"time"

	"github.com/Sanjaykumaar123/sentinelnet/internal/config"
)

var startTime = time.Now()

const deepCheckTimeout = 2 * time.Second

// Component 는 상태 구성 요소다.
type Component struct {
	Status string         `json:"status"`
	Detail map[string]any `json:"detail"`
}

// Response 는 상태 응답 본문이다.
type Response struct {
	Status     string               `json:"status"`
	Components map[string]Component `json:"components"`
}

// Pinger 는 연결 확인이 가능한 의존성이다.
type Pinger interface {
	Ping(ctx context.Context) error
}

// TokenStore 는 토큰 폐기 저장소 상태 조회 인터페이스다.
type TokenStore interface {
	Pinger
	Backend() string
	RevokedCount(ctx context.Context) (int, error)
}

// ScanStats 는 누적 분석 통계 조회 인터페이스다.
type ScanStats interface {
	Snapshot() map[string]float64
}

// Checker 는 DB/토큰 저장소 상태와 분석 통계를 수집한다.
type Checker struct {
	cfg    *config.Config
	db     Pinger
	tokens TokenStore
	stats  ScanStats
}

// NewChecker 는 상태 수집기를 생성한다. stats 는 nil 일 수 있다.
func NewChecker(cfg *config.Config, db Pinger, tokens TokenStore, stats ScanStats) *Checker {
	return &Checker{cfg: cfg, db: db, tokens: tokens, stats: stats}
}

// Collect 는 헬스 상태를 수집한다. deepChecks 가 false 면 외부 의존성에 접속하지 않는다.
func (h *Checker) Collect(ctx context.Context, deepChecks bool) Response {
	if ctx == nil {
		ctx = context.Background()
	}
	components := map[string]Component{
		"app":         h.appStatus(),
		"database":    h.databaseStatus(ctx, deepChecks),
		"token_store": h.tokenStoreStatus(ctx, deepChecks),
	}
	if h.stats != nil {
		components["scanner"] = h.scannerStatus()
	}

	overall := "ok"
	for _, component := range components {
		if component.Status != "ok" {
			overall = "degraded"
			break
		}
	}

	return Response{Status: overall, Components: components}
}

func (h *Checker) appStatus() Component {
	env := ""
	if h.cfg != nil {
		env = h.cfg.App.Env
	}
	return Component{
		Status: "ok",
		Detail: map[string]any{
			"uptime_seconds": int(time.Since(startTime).Seconds()),
			"env":            env,
		},
	}
}

// scannerStatus 는 항상 ok 다. 분석기는 외부 의존성이 없다.
func (h *Checker) scannerStatus() Component {
	detail := make(map[string]any, 3)
	for key, value := range h.stats.Snapshot() {
		detail[key] = value
	}
	return Component{Status: "ok", Detail: detail}
}

func (h *Checker) databaseStatus(ctx context.Context, deepChecks bool) Component {
	driver := ""
	if h.cfg != nil {
		driver = h.cfg.Database.Driver
	}
	detail := map[string]any{
		"driver":       driver,
		"deep_checked": deepChecks,
	}
	if !deepChecks {
		return Component{Status: "ok", Detail: detail}
	}
	if h.db == nil {
		detail["error"] = "database not configured"
		return Component{Status: "degraded", Detail: detail}
	}

	checkCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), deepCheckTimeout)
	defer cancel()
	if err := h.db.Ping(checkCtx); err != nil {
		detail["error"] = err.Error()
		return Component{Status: "degraded", Detail: detail}
	}
	detail["connected"] = true
	return Component{Status: "ok", Detail: detail}
}

func (h *Checker) tokenStoreStatus(ctx context.Context, deepChecks bool) Component {
	storeEnabled := false
	if h.cfg != nil {
		storeEnabled = h.cfg.TokenStore.Enabled
	}
	backend := "none"
	if h.tokens != nil {
		backend = h.tokens.Backend()
	}

	detail := map[string]any{
		"store_enabled": storeEnabled,
		"backend":       backend,
		"deep_checked":  deepChecks,
	}

	status := "ok"
	// 외부 저장소를 켰는데 메모리로 대체된 상태
	if storeEnabled && backend != "valkey" {
		status = "degraded"
	}

	if deepChecks && h.tokens != nil {
		checkCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), deepCheckTimeout)
		defer cancel()
		if err := h.tokens.Ping(checkCtx); err != nil {
			detail["error"] = err.Error()
			status = "degraded"
		} else if count, err := h.tokens.RevokedCount(checkCtx); err != nil {
			detail["revoked_count_error"] = err.Error()
		} else {
			detail["revoked_count"] = count
		}
	}

	return Component{Status: status, Detail: detail}
}
