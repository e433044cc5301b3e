package store

import "errors"

var (
	// ErrNotFound 는 조회 대상이 없을 때 반환된다.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateEmail 은 이미 등록된 이메일로 가입을 시도할 때 반환된다.
	ErrDuplicateEmail = errors.New("email already registered")
)
