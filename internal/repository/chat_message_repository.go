package repository

import (
	"context"

	"github.com/lshigami/mbti-compass/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ChatMessageRepository interface {
	Create(ctx context.Context, msg *model.ChatMessage) error
	// FindAllByUser lists messages in chronological order.
	FindAllByUser(ctx context.Context, userID uint) ([]model.ChatMessage, error)
}

type chatMessageRepository struct {
	db *gorm.DB
}

func NewChatMessageRepository(db *gorm.DB) ChatMessageRepository {
	return &chatMessageRepository{db: db}
}

func (r *chatMessageRepository) Create(ctx context.Context, msg *model.ChatMessage) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(msg).Error)
}

func (r *chatMessageRepository) FindAllByUser(ctx context.Context, userID uint) ([]model.ChatMessage, error) {
	var messages []model.ChatMessage
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("timestamp ASC").
		Order("id ASC").
		Find(&messages).Error
	return messages, err
}
