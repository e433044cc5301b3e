package auth

import "errors"

var (
	// ErrInvalidCredentials 는 이메일 또는 비밀번호 불일치 오류다.
	ErrInvalidCredentials = errors.New("incorrect email or password")
	// ErrInactiveUser 는 비활성 사용자 오류다.
	ErrInactiveUser = errors.New("inactive user")
	// ErrEmailExists 는 중복 가입 오류다.
	ErrEmailExists = errors.New("the user with this email already exists in the system")
	// ErrInvalidToken 은 서명/만료/형식 검증 실패 오류다.
	ErrInvalidToken = errors.New("could not validate credentials")
	// ErrTokenRevoked 는 로그아웃으로 폐기된 토큰 오류다.
	ErrTokenRevoked = errors.New("token revoked")
	// ErrInvalidRole 은 알 수 없는 역할 오류다.
	ErrInvalidRole = errors.New("invalid role")
)
