package store

import (
	"context"
	"fmt"
	"time"
)

// OpsecHigh 는 저장된 OPSEC HIGH 등급 값이다.
const OpsecHigh = "HIGH"

// CountHighSince 는 since 이후 OPSEC HIGH 메시지 수를 반환한다.
func (r *Repository) CountHighSince(ctx context.Context, since time.Time) (int64, error) {
	db, err := r.getDB(ctx)
	if err != nil {
		return 0, err
	}
	var count int64
	err = db.Model(&Message{}).
		Where("opsec_risk = ? AND timestamp > ?", OpsecHigh, since).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("count threats: %w", err)
	}
	return count, nil
}

// MessagesSince 는 since 이후 메시지를 반환한다. 본문은 읽지 않는다.
func (r *Repository) MessagesSince(ctx context.Context, since time.Time) ([]Message, error) {
	db, err := r.getDB(ctx)
	if err != nil {
		return nil, err
	}
	var messages []Message
	err = db.Select("id", "sender_id", "timestamp", "opsec_risk", "sender_ip").
		Where("timestamp > ?", since).
		Order("timestamp asc").
		Find(&messages).Error
	if err != nil {
		return nil, fmt.Errorf("list recent messages: %w", err)
	}
	return messages, nil
}

// LatestHigh 는 최근 OPSEC HIGH 메시지를 최신순으로 limit 건 반환한다.
func (r *Repository) LatestHigh(ctx context.Context, limit int) ([]Message, error) {
	db, err := r.getDB(ctx)
	if err != nil {
		return nil, err
	}
	var messages []Message
	err = db.Where("opsec_risk = ?", OpsecHigh).
		Order("timestamp desc").
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}
	return messages, nil
}

// LatestMessages 는 최신순으로 limit 건 반환한다.
func (r *Repository) LatestMessages(ctx context.Context, limit int) ([]Message, error) {
	db, err := r.getDB(ctx)
	if err != nil {
		return nil, err
	}
	var messages []Message
	if err := db.Order("timestamp desc").Order("id desc").Limit(limit).Find(&messages).Error; err != nil {
		return nil, fmt.Errorf("list latest messages: %w", err)
	}
	return messages, nil
}
