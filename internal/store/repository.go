package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/Sanjaykumaar123/sentinelnet/internal/channel"
	"github.com/Sanjaykumaar123/sentinelnet/internal/config"
)

// Repository 는 사용자/메시지 DB 접근을 담당한다. 첫 사용 시 연결하고 스키마를 맞춘다.
type Repository struct {
	cfg    *config.Config
	logger *slog.Logger
	mu     sync.Mutex
	db     *gorm.DB
	sqlDB  *sql.DB
}

// NewRepository 는 설정 기반 저장소를 생성한다.
func NewRepository(cfg *config.Config, logger *slog.Logger) *Repository {
	return &Repository{cfg: cfg, logger: logger}
}

// NewRepositoryWithDB 는 이미 열린 DB 로 저장소를 만들고 스키마를 맞춘다.
func NewRepositoryWithDB(ctx context.Context, db *gorm.DB, logger *slog.Logger) (*Repository, error) {
	if db == nil {
		return nil, errors.New("db is nil")
	}
	if err := migrate(ctx, db); err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get db handle: %w", err)
	}
	return &Repository{logger: logger, db: db, sqlDB: sqlDB}, nil
}

// Ping 은 DB 연결 상태를 확인한다.
func (r *Repository) Ping(ctx context.Context) error {
	if _, err := r.getDB(ctx); err != nil {
		return err
	}
	r.mu.Lock()
	sqlDB := r.sqlDB
	r.mu.Unlock()
	if sqlDB == nil {
		return errors.New("db closed")
	}
	return sqlDB.PingContext(ctx)
}

// Close 는 DB 연결을 닫는다.
func (r *Repository) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sqlDB == nil {
		return
	}
	_ = r.sqlDB.Close()
	r.sqlDB = nil
	r.db = nil
}

func (r *Repository) getDB(ctx context.Context) (*gorm.DB, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.db != nil {
		return r.db.WithContext(ctx), nil
	}
	if r.cfg == nil {
		return nil, errors.New("database config is nil")
	}

	db, err := Open(r.cfg.Database, r.logger)
	if err != nil {
		return nil, err
	}
	if err := migrate(ctx, db); err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get db handle: %w", err)
	}

	r.db = db
	r.sqlDB = sqlDB
	return db.WithContext(ctx), nil
}

func migrate(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).AutoMigrate(allModels()...); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	return nil
}

// CreateUser 는 사용자를 저장한다. 같은 이메일이 있으면 ErrDuplicateEmail 을 반환한다.
func (r *Repository) CreateUser(ctx context.Context, user *User) error {
	db, err := r.getDB(ctx)
	if err != nil {
		return err
	}

	var count int64
	if err := db.Model(&User{}).Where("email = ?", user.Email).Count(&count).Error; err != nil {
		return fmt.Errorf("check email: %w", err)
	}
	if count > 0 {
		return ErrDuplicateEmail
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	if err := db.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || isUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// UserByEmail 은 이메일로 사용자를 조회한다.
func (r *Repository) UserByEmail(ctx context.Context, email string) (*User, error) {
	return r.findUser(ctx, "email = ?", email)
}

// UserByID 는 ID 로 사용자를 조회한다.
func (r *Repository) UserByID(ctx context.Context, id uint) (*User, error) {
	return r.findUser(ctx, "id = ?", id)
}

func (r *Repository) findUser(ctx context.Context, query string, arg any) (*User, error) {
	db, err := r.getDB(ctx)
	if err != nil {
		return nil, err
	}
	var user User
	result := db.Where(query, arg).First(&user)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if result.Error != nil {
		return nil, fmt.Errorf("find user: %w", result.Error)
	}
	return &user, nil
}

// UsersByIDs 는 여러 사용자를 ID 기준 맵으로 조회한다. 없는 ID 는 빠진다.
func (r *Repository) UsersByIDs(ctx context.Context, ids []uint) (map[uint]User, error) {
	result := make(map[uint]User, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	db, err := r.getDB(ctx)
	if err != nil {
		return nil, err
	}
	var users []User
	if err := db.Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	for _, user := range users {
		result[user.ID] = user
	}
	return result, nil
}

// ListUsers 는 전체 사용자를 ID 순으로 반환한다.
func (r *Repository) ListUsers(ctx context.Context) ([]User, error) {
	db, err := r.getDB(ctx)
	if err != nil {
		return nil, err
	}
	var users []User
	if err := db.Order("id asc").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// CreateMessage 는 메시지를 저장한다. 시각이 비어 있으면 현재 UTC 시각을 쓴다.
func (r *Repository) CreateMessage(ctx context.Context, msg *Message) error {
	db, err := r.getDB(ctx)
	if err != nil {
		return err
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now().UTC()
	}
	msg.ChannelID = channel.Normalize(msg.ChannelID)
	if err := db.Omit("ReplyTo").Create(msg).Error; err != nil {
		return fmt.Errorf("create message: %w", err)
	}
	return nil
}

// MessageByID 는 ID 로 메시지를 조회한다.
func (r *Repository) MessageByID(ctx context.Context, id uint) (*Message, error) {
	db, err := r.getDB(ctx)
	if err != nil {
		return nil, err
	}
	var msg Message
	result := db.First(&msg, id)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if result.Error != nil {
		return nil, fmt.Errorf("find message: %w", result.Error)
	}
	return &msg, nil
}

// ChannelMessages 는 now 기준 만료되지 않은 채널 메시지를 오래된 순으로 limit 건 반환한다.
// 답장 대상 메시지를 함께 읽는다.
func (r *Repository) ChannelMessages(ctx context.Context, channelID string, now time.Time, limit int) ([]Message, error) {
	db, err := r.getDB(ctx)
	if err != nil {
		return nil, err
	}
	var messages []Message
	err = db.Preload("ReplyTo").
		Where("channel_id = ?", channelID).
		Where("expiration IS NULL OR expiration > ?", now).
		Order("timestamp asc").
		Order("id asc").
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		return nil, fmt.Errorf("list channel messages: %w", err)
	}
	return messages, nil
}

// DirectChannelsFor 는 userID 가 보냈거나 받은 1:1 채널 ID 목록을 반환한다.
func (r *Repository) DirectChannelsFor(ctx context.Context, userID uint) ([]string, error) {
	db, err := r.getDB(ctx)
	if err != nil {
		return nil, err
	}
	var ids []string
	err = db.Model(&Message{}).
		Distinct().
		Where("channel_id LIKE ?", channel.DirectPrefix+"%").
		Where("sender_id = ? OR receiver_id = ?", userID, userID).
		Order("channel_id asc").
		Pluck("channel_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("list direct channels: %w", err)
	}
	return ids, nil
}

func isUniqueViolation(err error) bool {
	lower := strings.ToLower(err.Error())
	return strings.Contains(lower, "unique constraint") || strings.Contains(lower, "duplicate key")
}
