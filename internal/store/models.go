package store

import "time"

// User 는 사용자 계정 DB 모델이다.
type User struct {
	ID             uint      `gorm:"column:id;primaryKey" json:"id"`
	Email          string    `gorm:"column:email;size:255;uniqueIndex;not null" json:"email"`
	HashedPassword string    `gorm:"column:hashed_password;not null" json:"-"`
	FullName       string    `gorm:"column:full_name;size:255" json:"full_name"`
	Role           string    `gorm:"column:role;size:32;not null" json:"role"`
	IsActive       bool      `gorm:"column:is_active;not null" json:"is_active"`
	CreatedAt      time.Time `gorm:"column:created_at" json:"created_at"`
}

// TableName 은 GORM에서 사용할 테이블명을 반환한다.
func (User) TableName() string {
	return "users"
}

// DisplayName 은 이름이 없으면 이메일을 반환한다.
func (u User) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Email
}

// Message 는 분석 결과가 평탄화되어 저장되는 메시지 DB 모델이다.
// 분석 필드는 과거 데이터에서 비어 있을 수 있어 포인터/빈 문자열을 허용한다.
type Message struct {
	ID               uint       `gorm:"column:id;primaryKey"`
	SenderID         uint       `gorm:"column:sender_id;index"`
	ContentEncrypted string     `gorm:"column:content_encrypted"`
	Timestamp        time.Time  `gorm:"column:timestamp;index"`
	AIScore          *float64   `gorm:"column:ai_score"`
	OpsecRisk        string     `gorm:"column:opsec_risk;size:16"`
	PhishingRisk     string     `gorm:"column:phishing_risk;size:16"`
	VulgarRisk       string     `gorm:"column:vulgar_risk;size:16"`
	IsBlocked        bool       `gorm:"column:is_blocked"`
	FileURL          *string    `gorm:"column:file_url"`
	FileType         *string    `gorm:"column:file_type"`
	FileSize         *string    `gorm:"column:file_size"`
	IntegrityHash    *string    `gorm:"column:integrity_hash"`
	ChannelID        string     `gorm:"column:channel_id;size:64;index"`
	Expiration       *time.Time `gorm:"column:expiration"`
	ReceiverID       *uint      `gorm:"column:receiver_id;index"`
	ReplyToID        *uint      `gorm:"column:reply_to_id"`
	SenderIP         string     `gorm:"column:sender_ip;size:64"`

	ReplyTo *Message `gorm:"foreignKey:ReplyToID"`
}

// TableName 은 GORM에서 사용할 테이블명을 반환한다.
func (Message) TableName() string {
	return "messages"
}

// Expired 는 now 기준으로 자동 삭제 시각이 지났는지 반환한다.
func (m Message) Expired(now time.Time) bool {
	return m.Expiration != nil && !m.Expiration.After(now)
}

// allModels 는 마이그레이션 대상 모델 목록이다.
func allModels() []any {
	return []any{&User{}, &Message{}}
}
