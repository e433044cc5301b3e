package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/Sanjaykumaar123/sentinelnet/internal/channel"
)

// Reset 은 모든 테이블을 지우고 다시 만든다.
func (r *Repository) Reset(ctx context.Context) error {
	db, err := r.getDB(ctx)
	if err != nil {
		return err
	}
	if err := db.Migrator().DropTable(&Message{}, &User{}); err != nil {
		return fmt.Errorf("drop tables: %w", err)
	}
	return migrate(ctx, db)
}

// FixChannels 는 채널이 비어 있는 메시지를 공용 채널로 옮긴다.
func (r *Repository) FixChannels(ctx context.Context) (int64, error) {
	db, err := r.getDB(ctx)
	if err != nil {
		return 0, err
	}
	result := db.Model(&Message{}).
		Where("channel_id IS NULL OR channel_id = ''").
		Update("channel_id", channel.General)
	if result.Error != nil {
		return 0, fmt.Errorf("fix channels: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// BackfillReceivers 는 수신자가 비어 있는 1:1 메시지에 채널 ID 로 수신자를 채운다.
// 발신자가 채널 참여자가 아니면 건너뛴다.
func (r *Repository) BackfillReceivers(ctx context.Context) (int64, error) {
	db, err := r.getDB(ctx)
	if err != nil {
		return 0, err
	}

	var updated int64
	var pending []Message
	err = db.Select("id", "sender_id", "channel_id").
		Where("receiver_id IS NULL AND channel_id LIKE ?", channel.DirectPrefix+"%").
		FindInBatches(&pending, 200, func(tx *gorm.DB, _ int) error {
			for _, msg := range pending {
				receiver, ok := channel.Counterpart(msg.ChannelID, msg.SenderID)
				if !ok {
					continue
				}
				if err := db.Model(&Message{}).Where("id = ?", msg.ID).Update("receiver_id", receiver).Error; err != nil {
					return err
				}
				updated++
			}
			return nil
		}).Error
	if err != nil {
		return updated, fmt.Errorf("backfill receivers: %w", err)
	}
	return updated, nil
}

// DeleteLatestMessages 는 가장 최근 n 건(ID 기준)을 삭제한다.
func (r *Repository) DeleteLatestMessages(ctx context.Context, n int) (int64, error) {
	if n <= 0 {
		return 0, nil
	}
	db, err := r.getDB(ctx)
	if err != nil {
		return 0, err
	}
	var ids []uint
	if err := db.Model(&Message{}).Order("id desc").Limit(n).Pluck("id", &ids).Error; err != nil {
		return 0, fmt.Errorf("select latest messages: %w", err)
	}
	return r.DeleteMessages(ctx, ids)
}

// DeleteMessages 는 지정한 메시지를 삭제한다. 이들을 가리키던 답장 참조는 비운다.
func (r *Repository) DeleteMessages(ctx context.Context, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	db, err := r.getDB(ctx)
	if err != nil {
		return 0, err
	}

	var deleted int64
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&Message{}).Where("reply_to_id IN ?", ids).Update("reply_to_id", nil).Error; err != nil {
			return err
		}
		result := tx.Where("id IN ?", ids).Delete(&Message{})
		if result.Error != nil {
			return result.Error
		}
		deleted = result.RowsAffected
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("delete messages: %w", err)
	}
	return deleted, nil
}

// EachMessage 는 전체 메시지를 ID 순 배치로 순회한다.
func (r *Repository) EachMessage(ctx context.Context, batchSize int, fn func([]Message) error) error {
	db, err := r.getDB(ctx)
	if err != nil {
		return err
	}
	if batchSize <= 0 {
		batchSize = 200
	}
	var batch []Message
	err = db.FindInBatches(&batch, batchSize, func(_ *gorm.DB, _ int) error {
		return fn(batch)
	}).Error
	if err != nil {
		return fmt.Errorf("iterate messages: %w", err)
	}
	return nil
}
