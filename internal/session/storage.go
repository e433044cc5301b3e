package session

import (
	"context"
	"time"
)

// Storage 는 폐기된 토큰 저장소 인터페이스다.
// 테스트에서 mock 구현을 주입할 수 있도록 한다.
type Storage interface {
	// Revoke 토큰 폐기 (ttl 이 지나면 자동 삭제)
	Revoke(ctx context.Context, tokenID string, rec Revocation, ttl time.Duration) error

	// IsRevoked 폐기 여부 조회
	IsRevoked(ctx context.Context, tokenID string) (bool, error)

	// RevokedCount 폐기된 토큰 수
	RevokedCount(ctx context.Context) (int, error)

	// Backend 저장소 종류
	Backend() string

	// Ping 연결 확인
	Ping(ctx context.Context) error

	// Close 리소스 정리
	Close()
}

// Store가 Storage 인터페이스를 구현하는지 컴파일 타임 확인
var _ Storage = (*Store)(nil)
