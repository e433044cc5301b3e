// Package channel 은 대화 채널 식별자 규칙을 다룬다.
// 공용 채널은 "general", 1:1 대화는 "dm_{작은 ID}_{큰 ID}" 형식이다.
package channel

import (
	"fmt"
	"strconv"
	"strings"
)

// General 은 기본 공용 채널 ID 다.
const General = "general"

// DirectPrefix 는 1:1 대화 채널 ID 접두어다.
const DirectPrefix = "dm_"

// DirectID 는 두 사용자 ID 로 순서와 무관한 1:1 채널 ID 를 만든다.
func DirectID(a, b uint) string {
	lo, hi := min(a, b), max(a, b)
	return fmt.Sprintf("%s%d_%d", DirectPrefix, lo, hi)
}

// IsDirect 는 1:1 채널 접두어 여부만 확인한다.
func IsDirect(id string) bool {
	return strings.HasPrefix(id, DirectPrefix)
}

// ParseDirect 는 "dm_{a}_{b}" 를 해석한다. 정확히 세 부분이고 두 ID 가 정수일 때만 ok 다.
func ParseDirect(id string) (a, b uint, ok bool) {
	parts := strings.Split(id, "_")
	if len(parts) != 3 || parts[0]+"_" != DirectPrefix {
		return 0, 0, false
	}
	first, err := strconv.ParseUint(parts[1], 10, 64)
	if err != nil {
		return 0, 0, false
	}
	second, err := strconv.ParseUint(parts[2], 10, 64)
	if err != nil {
		return 0, 0, false
	}
	return uint(first), uint(second), true
}

// Counterpart 는 userID 가 참여자인 1:1 채널에서 상대 ID 를 반환한다.
func Counterpart(id string, userID uint) (uint, bool) {
	a, b, ok := ParseDirect(id)
	if !ok {
		return 0, false
	}
	switch userID {
	case a:
		return b, true
	case b:
		return a, true
	default:
		return 0, false
	}
}

// Normalize 는 빈 채널 ID 를 공용 채널로 바꾼다.
func Normalize(id string) string {
	id = strings.TrimSpace(id)
	if id == "" {
		return General
	}
	return id
}
