package randx

import (
	"math/rand/v2"
	"sync"
)

// LockedRand: math/rand/v2.Rand 를 goroutine-safe 하게 감싼 래퍼입니다.
// 분석 점수의 기본값과 대시보드 노이즈에 쓰입니다.
type LockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

// New: r 이 nil 이면 시드가 매번 달라지는 소스를 사용합니다.
func New(r *rand.Rand) *LockedRand {
	if r == nil {
		r = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &LockedRand{r: r}
}

// NewSeeded: 재현 가능한 시퀀스가 필요할 때 사용합니다.
func NewSeeded(seed1, seed2 uint64) *LockedRand {
	return &LockedRand{r: rand.New(rand.NewPCG(seed1, seed2))}
}

func (l *LockedRand) IntN(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.IntN(n)
}

func (l *LockedRand) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Float64()
}

// Uniform: [lo, hi] 구간의 실수를 반환합니다.
func (l *LockedRand) Uniform(lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return lo + l.Float64()*(hi-lo)
}

// IntRange: [lo, hi] 구간의 정수를 반환합니다.
func (l *LockedRand) IntRange(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + l.IntN(hi-lo+1)
}
