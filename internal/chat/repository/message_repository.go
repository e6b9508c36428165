package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"messaging_service/internal/chat/domain"

	"gorm.io/gorm"
)

// MessageRepository definition message store
type MessageRepository interface {
	// CreateWithContent 在同一個 transaction 中寫入 content 與 message
	CreateWithContent(ctx context.Context, msg *domain.Message) error
	FindByID(ctx context.Context, id uint) (*domain.Message, error)
	// ListAfter messages of chatID created strictly after the watermark, ascending
	ListAfter(ctx context.Context, chatID uint, after time.Time) ([]domain.Message, error)
	// ListByChats messages of every chat with content and read positions, ascending
	ListByChats(ctx context.Context, chatIDs []uint) ([]domain.Message, error)
}

type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository create a MessageRepository
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) CreateWithContent(ctx context.Context, msg *domain.Message) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&msg.Content).Error; err != nil {
			return fmt.Errorf("create content: %w", err)
		}
		msg.ContentID = msg.Content.ID
		if err := tx.Omit("Content", "ReadPositions").Create(msg).Error; err != nil {
			return fmt.Errorf("create message: %w", err)
		}
		return nil
	})
}

func (r *messageRepository) FindByID(ctx context.Context, id uint) (*domain.Message, error) {
	var msg domain.Message
	err := r.db.WithContext(ctx).Preload("Content").First(&msg, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.NewNotFound("message", id)
	}
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

func (r *messageRepository) ListAfter(ctx context.Context, chatID uint, after time.Time) ([]domain.Message, error) {
	var msgs []domain.Message
	err := r.db.WithContext(ctx).
		Preload("Content").
		Where("chat_id = ? AND created_at > ?", chatID, after).
		Order("created_at ASC, id ASC").
		Find(&msgs).Error
	return msgs, err
}

func (r *messageRepository) ListByChats(ctx context.Context, chatIDs []uint) ([]domain.Message, error) {
	if len(chatIDs) == 0 {
		return []domain.Message{}, nil
	}
	var msgs []domain.Message
	err := r.db.WithContext(ctx).
		Preload("Content").
		Preload("ReadPositions").
		Where("chat_id IN ?", chatIDs).
		Order("created_at ASC, id ASC").
		Find(&msgs).Error
	return msgs, err
}
