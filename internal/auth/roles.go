package auth

import "strings"

// Role 은 사용자 권한 등급이다.
type Role string

// 지원하는 역할입니다. 가입 시 기본값은 RoleUser 입니다.
const (
	RoleAdmin     Role = "admin"
	RoleCommander Role = "commander"
	RoleAnalyst   Role = "analyst"
	RoleAgent     Role = "agent"
	RoleObserver  Role = "observer"
	RoleUser      Role = "user"
)

// ParseRole 은 문자열을 역할로 변환한다. 알 수 없는 값이면 false 를 반환한다.
func ParseRole(value string) (Role, bool) {
	role := Role(strings.ToLower(strings.TrimSpace(value)))
	switch role {
	case RoleAdmin, RoleCommander, RoleAnalyst, RoleAgent, RoleObserver, RoleUser:
		return role, true
	default:
		return "", false
	}
}

// CanSendMessage 는 메시지 전송 권한 여부다. 관찰자만 불가하다.
func CanSendMessage(role Role) bool {
	return role != RoleObserver
}

// CanViewAI 는 AI 분석 결과 열람 권한 여부다.
func CanViewAI(role Role) bool {
	switch role {
	case RoleAnalyst, RoleCommander, RoleAdmin, RoleUser:
		return true
	default:
		return false
	}
}

// CanEscalate 는 경보 상향 권한 여부다.
func CanEscalate(role Role) bool {
	switch role {
	case RoleCommander, RoleAdmin, RoleUser:
		return true
	default:
		return false
	}
}

// IsSimpleView 는 간소화 화면 대상 여부다.
func IsSimpleView(role Role) bool {
	return role == RoleAgent
}
