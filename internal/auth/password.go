package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword 는 bcrypt 해시를 만든다. cost 가 범위를 벗어나면 기본값을 쓴다.
func HashPassword(password string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

// VerifyPassword 는 평문과 해시가 일치하는지 확인한다.
func VerifyPassword(password string, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(password)) == nil
}
