package sqlite

import (
	"context"
	"errors"
	"fmt"

	"github.com/dkeye/huddle/internal/domain"
	"gorm.io/gorm"
)

// MessageLog is the durable chat history.
type MessageLog struct {
	db *gorm.DB
}

func NewMessageLog(db *gorm.DB) *MessageLog {
	return &MessageLog{db: db}
}

func (l *MessageLog) Append(ctx context.Context, roomID domain.RoomID, username, content string) (domain.Message, error) {
	if content == "" {
		return domain.Message{}, domain.Required("message content")
	}
	rec := messageRecord{
		Content:  content,
		Username: username,
		RoomID:   int64(roomID),
	}
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var room roomRecord
		if err := tx.Select("id").Where("id = ?", int64(roomID)).First(&room).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: room %d does not resolve", domain.ErrStorage, roomID)
			}
			return fmt.Errorf("%w: lookup room %d: %w", domain.ErrStorage, roomID, err)
		}
		if err := tx.Create(&rec).Error; err != nil {
			return fmt.Errorf("%w: insert message for room %d: %w", domain.ErrStorage, roomID, err)
		}
		return nil
	})
	if err != nil {
		return domain.Message{}, err
	}
	return toMessage(rec), nil
}

func (l *MessageLog) ListFrom(ctx context.Context, roomID domain.RoomID, since domain.MessageID) ([]domain.Message, error) {
	var recs []messageRecord
	err := l.db.WithContext(ctx).
		Where("room_id = ? AND id > ?", int64(roomID), int64(since)).
		Order("id ASC").
		Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("%w: list messages for room %d: %w", domain.ErrStorage, roomID, err)
	}
	out := make([]domain.Message, 0, len(recs))
	for _, rec := range recs {
		out = append(out, toMessage(rec))
	}
	return out, nil
}

func toMessage(rec messageRecord) domain.Message {
	return domain.Message{
		ID:        domain.MessageID(rec.ID),
		RoomID:    domain.RoomID(rec.RoomID),
		Username:  rec.Username,
		Content:   rec.Content,
		CreatedAt: rec.CreatedAt,
	}
}
