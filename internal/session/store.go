package session

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/valkey-io/valkey-go"

	"github.com/Sanjaykumaar123/sentinelnet/internal/config"
)

// ErrInvalidTokenID 는 빈 토큰 ID 오류다.
var ErrInvalidTokenID = errors.New("token id is empty")

type storeBackend int

const (
	storeBackendMemory storeBackend = iota
	storeBackendValkey
)

const revokedKeyPrefix = "revoked:"

// Revocation 은 폐기 기록이다.
type Revocation struct {
	UserID    uint      `json:"user_id"`
	RevokedAt time.Time `json:"revoked_at"`
}

// Store 는 Valkey 기반 토큰 폐기 저장소다. Valkey 를 쓰지 않으면 프로세스 메모리에 보관한다.
type Store struct {
	client  valkey.Client
	backend storeBackend
	now     func() time.Time

	mu      sync.Mutex
	revoked map[string]time.Time
}

// NewStore 는 토큰 저장소를 생성한다.
// 연결 실패 시 설정된 횟수만큼 재시도하고, 필수가 아니면 메모리 저장소로 대체한다.
func NewStore(cfg *config.Config, logger *slog.Logger) (*Store, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	storeCfg := cfg.TokenStore

	if !storeCfg.Enabled {
		if storeCfg.Required {
			return nil, errors.New("token store required but disabled")
		}
		return newMemoryStore(), nil
	}

	client, err := connectWithRetry(storeCfg, logger)
	if err != nil {
		if storeCfg.Required {
			return nil, err
		}
		if logger != nil {
			logger.Warn("token_store_fallback_memory", "err", err)
		}
		return newMemoryStore(), nil
	}

	return &Store{
		client:  client,
		backend: storeBackendValkey,
		now:     time.Now,
	}, nil
}

func connectWithRetry(storeCfg config.TokenStoreConfig, logger *slog.Logger) (valkey.Client, error) {
	attempts := max(1, storeCfg.ConnectMaxAttempts)
	delay := time.Duration(storeCfg.ConnectRetrySeconds) * time.Second

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		client, err := connect(storeCfg)
		if err == nil {
			if logger != nil {
				logger.Info("token_store_connected", "attempt", attempt)
			}
			return client, nil
		}
		lastErr = err
		if logger != nil {
			logger.Warn("token_store_connect_failed", "attempt", attempt, "max_attempts", attempts, "err", err)
		}
		if attempt < attempts && delay > 0 {
			time.Sleep(delay)
		}
	}
	return nil, lastErr
}

func connect(storeCfg config.TokenStoreConfig) (valkey.Client, error) {
	conn, err := parseStoreURL(storeCfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse token store url: %w", err)
	}

	var tlsConfig *tls.Config
	if conn.useTLS {
		host, _, splitErr := net.SplitHostPort(conn.addr)
		if splitErr != nil {
			return nil, fmt.Errorf("parse token store addr: %w", splitErr)
		}
		tlsConfig = &tls.Config{MinVersion: tls.VersionTLS12, ServerName: host}
	}

	client, err := valkey.NewClient(valkey.ClientOption{
		TLSConfig:    tlsConfig,
		Username:     conn.username,
		Password:     conn.password,
		InitAddress:  []string{conn.addr},
		SelectDB:     conn.selectDB,
		DisableCache: storeCfg.DisableCache,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to valkey: %w", err)
	}
	return client, nil
}

func newMemoryStore() *Store {
	return &Store{
		backend: storeBackendMemory,
		now:     time.Now,
		revoked: make(map[string]time.Time),
	}
}

// Backend 는 저장소 종류를 반환한다.
func (s *Store) Backend() string {
	if s.backend == storeBackendValkey {
		return "valkey"
	}
	return "memory"
}

// Close 는 Valkey 연결을 종료한다.
func (s *Store) Close() {
	if s == nil {
		return
	}
	if s.backend == storeBackendValkey && s.client != nil {
		s.client.Close()
	}
}

func revokedKey(tokenID string) string {
	return revokedKeyPrefix + tokenID
}

// Revoke 토큰 폐기. ttl 은 토큰의 남은 유효 시간이며 0 이하이면 기록하지 않는다.
func (s *Store) Revoke(ctx context.Context, tokenID string, rec Revocation, ttl time.Duration) error {
	if strings.TrimSpace(tokenID) == "" {
		return ErrInvalidTokenID
	}
	if ttl <= 0 {
		return nil
	}
	if rec.RevokedAt.IsZero() {
		rec.RevokedAt = s.now().UTC()
	}
	if s.backend == storeBackendMemory {
		s.revokeMemory(tokenID, ttl)
		return nil
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal revocation: %w", err)
	}

	cmd := s.client.B().Set().Key(revokedKey(tokenID)).Value(string(data)).Ex(ttl).Build()
	if err := s.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// IsRevoked 폐기 여부 조회
func (s *Store) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if strings.TrimSpace(tokenID) == "" {
		return false, nil
	}
	if s.backend == storeBackendMemory {
		return s.isRevokedMemory(tokenID), nil
	}

	cmd := s.client.B().Exists().Key(revokedKey(tokenID)).Build()
	count, err := s.client.Do(ctx, cmd).AsInt64()
	if err != nil {
		return false, fmt.Errorf("check revoked token: %w", err)
	}
	return count > 0, nil
}

// RevokedCount 현재 폐기 토큰 수 (근사치)
// SCAN 기반으로 구현하여 O(N) 블로킹 KEYS 명령 대신 논블로킹 처리
func (s *Store) RevokedCount(ctx context.Context) (int, error) {
	if s.backend == storeBackendMemory {
		return s.revokedCountMemory(), nil
	}

	var count int
	var cursor uint64
	for {
		cmd := s.client.B().Scan().Cursor(cursor).Match(revokedKeyPrefix + "*").Count(100).Build()
		result, err := s.client.Do(ctx, cmd).AsScanEntry()
		if err != nil {
			return 0, fmt.Errorf("scan revoked tokens: %w", err)
		}
		count += len(result.Elements)
		cursor = result.Cursor
		if cursor == 0 {
			break
		}
	}
	return count, nil
}

// Ping Valkey 연결 확인
func (s *Store) Ping(ctx context.Context) error {
	if s.backend == storeBackendMemory {
		return nil
	}

	cmd := s.client.B().Ping().Build()
	if err := s.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("ping valkey: %w", err)
	}
	return nil
}
