package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenType 은 발급 토큰 종류다.
const TokenType = "bearer"

// Claims 는 액세스 토큰 클레임이다. sub 는 이메일이다.
type Claims struct {
	UID  uint   `json:"uid"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Token 은 로그인 응답이다.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// TokenIssuer 는 HS256 액세스 토큰을 발급/검증한다.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenIssuer 는 토큰 발급기를 생성한다. HS256 외 알고리즘은 지원하지 않는다.
func NewTokenIssuer(secret string, algorithm string, ttl time.Duration) (*TokenIssuer, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is empty")
	}
	if algorithm != "" && !strings.EqualFold(algorithm, jwt.SigningMethodHS256.Alg()) {
		return nil, fmt.Errorf("unsupported jwt algorithm: %s", algorithm)
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("invalid token ttl: %s", ttl)
	}
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// Issue 는 사용자 토큰을 발급한다.
func (i *TokenIssuer) Issue(email string, uid uint, role Role) (string, *Claims, error) {
	now := i.now()
	claims := &Claims{
		UID:  uid,
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}
	return signed, claims, nil
}

// Parse 는 서명과 만료를 검증하고 클레임을 반환한다.
func (i *TokenIssuer) Parse(raw string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(i.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return claims, nil
}

// Remaining 은 now 기준 남은 유효 시간이다.
func (c *Claims) Remaining(now time.Time) time.Duration {
	if c == nil || c.ExpiresAt == nil {
		return 0
	}
	return c.ExpiresAt.Sub(now)
}
