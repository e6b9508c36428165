package repository

import (
	"context"
	"errors"

	"messaging_service/internal/chat/domain"

	"gorm.io/gorm"
)

// ReadPositionRepository definition watermark store
type ReadPositionRepository interface {
	// FindByUserAndChat returns nil, nil when the user has no watermark in the chat
	FindByUserAndChat(ctx context.Context, userID, chatID uint) (*domain.ReadPosition, error)
	Create(ctx context.Context, rp *domain.ReadPosition) error
	Delete(ctx context.Context, id uint) error
	// ListByUser every watermark of the user ordered by chat id
	ListByUser(ctx context.Context, userID uint) ([]domain.ReadPosition, error)
}

type readPositionRepository struct {
	db *gorm.DB
}

// NewReadPositionRepository create a ReadPositionRepository
func NewReadPositionRepository(db *gorm.DB) ReadPositionRepository {
	return &readPositionRepository{db: db}
}

func (r *readPositionRepository) FindByUserAndChat(ctx context.Context, userID, chatID uint) (*domain.ReadPosition, error) {
	var rp domain.ReadPosition
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND chat_id = ?", userID, chatID).
		Take(&rp).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rp, nil
}

func (r *readPositionRepository) Create(ctx context.Context, rp *domain.ReadPosition) error {
	return r.db.WithContext(ctx).Create(rp).Error
}

// Delete hard delete, a replaced watermark is gone for good
func (r *readPositionRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&domain.ReadPosition{}, id).Error
}

func (r *readPositionRepository) ListByUser(ctx context.Context, userID uint) ([]domain.ReadPosition, error) {
	var rps []domain.ReadPosition
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("chat_id ASC").
		Find(&rps).Error
	return rps, err
}
