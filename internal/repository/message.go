package repository

import (
	"context"

	"concierge/internal/models"

	"gorm.io/gorm"
)

// MessageRepository defines persistence operations for request messages.
type MessageRepository interface {
	Create(ctx context.Context, msg *models.Message) error
	ListByRequest(ctx context.Context, requestID uint, limit, offset int) ([]models.Message, error)
	MarkRead(ctx context.Context, requestID uint, ids []uint) (int64, error)
	CountUnread(ctx context.Context, requestID uint, excludeSenderID uint) (int64, error)
}

type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository returns a new MessageRepository implementation.
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(ctx context.Context, msg *models.Message) error {
	if err := r.db.WithContext(ctx).Create(msg).Error; err != nil {
		return models.NewInternalError(err)
	}
	// Reload with the sender so handlers can return the full row.
	if err := r.db.WithContext(ctx).Preload("Sender").First(msg, msg.ID).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *messageRepository) ListByRequest(ctx context.Context, requestID uint, limit, offset int) ([]models.Message, error) {
	var msgs []models.Message
	if err := r.db.WithContext(ctx).
		Preload("Sender").
		Where("request_id = ?", requestID).
		Order("created_at ASC").
		Limit(limit).Offset(offset).
		Find(&msgs).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return msgs, nil
}

// MarkRead flags the given messages as read. The update is scoped to the
// request, so ids belonging to other requests are silently ignored.
func (r *messageRepository) MarkRead(ctx context.Context, requestID uint, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).
		Model(&models.Message{}).
		Where("request_id = ? AND id IN ?", requestID, ids).
		Update("is_read", true)
	if result.Error != nil {
		return 0, models.NewInternalError(result.Error)
	}
	return result.RowsAffected, nil
}

func (r *messageRepository) CountUnread(ctx context.Context, requestID uint, excludeSenderID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Message{}).
		Where("request_id = ? AND sender_id <> ? AND is_read = ?", requestID, excludeSenderID, false).
		Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}
