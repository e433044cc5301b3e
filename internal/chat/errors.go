package chat

import "errors"

var (
	// ErrSendForbidden 은 전송 권한이 없는 역할(관찰자) 오류다.
	ErrSendForbidden = errors.New("role is not allowed to send messages")
	// ErrSelfDM 은 자기 자신과 대화 시작 오류다.
	ErrSelfDM = errors.New("cannot DM yourself")
	// ErrUserNotFound 는 대화 상대 미존재 오류다.
	ErrUserNotFound = errors.New("user not found")
	// ErrReplyNotFound 는 답장 대상 메시지 미존재 오류다.
	ErrReplyNotFound = errors.New("reply target not found")
	// ErrTTLOutOfRange 는 ttl_seconds 가 MaxTTLSeconds 를 넘는 오류다.
	ErrTTLOutOfRange = errors.New("ttl_seconds out of range")
)
