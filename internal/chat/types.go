package chat

import "time"

// 메시지 목록 조회 건수 기본값/상한입니다.
const (
	DefaultListLimit = 50
	MaxListLimit     = 200
)

// MaxTTLSeconds 는 자동 삭제 시간 상한(1년)이다.
const MaxTTLSeconds = 365 * 24 * 60 * 60

// 목록 응답에서 쓰는 표시값입니다.
const (
	SenderMe   = "me"
	SenderThem = "them"

	StatusSent    = "sent"
	StatusBlocked = "blocked"

	DirectStatus = "ENCRYPTED"

	storedExplanation = "Analysis complete"
)

// SendRequest 는 메시지 전송 요청이다.
type SendRequest struct {
	Lines         string  `json:"lines" binding:"required"`
	FileURL       *string `json:"file_url"`
	FileType      *string `json:"file_type"`
	FileSize      *string `json:"file_size"`
	IntegrityHash *string `json:"integrity_hash"`
	ChannelID     string  `json:"channel_id"`
	TTLSeconds    *int64  `json:"ttl_seconds"`
	ReplyToID     *uint   `json:"reply_to_id"`

	SenderIP string `json:"-"`
}

// SendResponse 는 저장된 메시지 ID 와 분석 결과다.
type SendResponse struct {
	MessageID    uint    `json:"message_id"`
	AIScore      float64 `json:"ai_score"`
	OpsecRisk    string  `json:"opsec_risk"`
	PhishingRisk string  `json:"phishing_risk"`
	VulgarRisk   string  `json:"vulgar_risk"`
	IsBlocked    bool    `json:"is_blocked"`
	Explanation  string  `json:"explanation"`
}

// AnalyzeRequest 는 저장 없이 분석만 하는 요청이다.
type AnalyzeRequest struct {
	Lines string `json:"lines" binding:"required"`
}

// DMRequest 는 1:1 대화 시작 요청이다. identifier 는 사용자 ID 또는 이메일이다.
type DMRequest struct {
	Identifier string `json:"identifier" binding:"required"`
}

// TargetUser 는 대화 상대 요약이다.
type TargetUser struct {
	ID       uint   `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}

// DMResponse 는 1:1 채널 ID 와 상대 정보다.
type DMResponse struct {
	ChannelID  string     `json:"channel_id"`
	TargetUser TargetUser `json:"target_user"`
}

// DMEntry 는 1:1 대화 목록 항목이다.
type DMEntry struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

// Risk 는 저장된 분석 결과다. 과거 데이터의 빈 값은 기본 등급으로 채운다.
type Risk struct {
	AIScore      float64 `json:"ai_score"`
	OpsecRisk    string  `json:"opsec_risk"`
	PhishingRisk string  `json:"phishing_risk"`
	VulgarRisk   string  `json:"vulgar_risk"`
	Explanation  string  `json:"explanation"`
}

// ReplyView 는 답장 대상 요약이다.
type ReplyView struct {
	ID     uint   `json:"id"`
	Text   string `json:"text"`
	Sender string `json:"sender"`
}

// MessageView 는 채널 메시지 목록 항목이다.
type MessageView struct {
	ID            uint       `json:"id"`
	Text          string     `json:"text"`
	Sender        string     `json:"sender"`
	Timestamp     time.Time  `json:"timestamp"`
	Status        string     `json:"status"`
	Risk          Risk       `json:"risk"`
	FileURL       *string    `json:"file_url"`
	FileType      *string    `json:"file_type"`
	FileSize      *string    `json:"file_size"`
	IntegrityHash *string    `json:"integrity_hash"`
	ReplyTo       *ReplyView `json:"reply_to"`
}
