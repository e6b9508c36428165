package repository

import (
	"context"
	"errors"
	"fmt"

	"messaging_service/internal/chat/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GroupRepository definition group and chat store
type GroupRepository interface {
	// Create 寫入 group, members 與 group.Chats
	Create(ctx context.Context, group *domain.Group, memberIDs []uint) error
	AddMember(ctx context.Context, groupID, userID uint) error
	CreateChat(ctx context.Context, chat *domain.Chat) error
	FindGroup(ctx context.Context, id uint) (*domain.Group, error)
	FindChat(ctx context.Context, id uint) (*domain.Chat, error)
	ListChatsForGroups(ctx context.Context, groupIDs []uint) ([]domain.Chat, error)
	// FindDirectMessageGroup the direct message group shared by both users, nil when none
	FindDirectMessageGroup(ctx context.Context, userA, userB uint) (*domain.Group, error)
}

type groupRepository struct {
	db *gorm.DB
}

// NewGroupRepository create a GroupRepository
func NewGroupRepository(db *gorm.DB) GroupRepository {
	return &groupRepository{db: db}
}

func (r *groupRepository) Create(ctx context.Context, group *domain.Group, memberIDs []uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		chats := group.Chats
		group.Chats = nil
		if err := tx.Omit(clause.Associations).Create(group).Error; err != nil {
			return fmt.Errorf("create group: %w", err)
		}

		members := make([]domain.GroupMember, 0, len(memberIDs))
		for _, id := range memberIDs {
			members = append(members, domain.GroupMember{GroupID: group.ID, UserID: id})
		}
		if len(members) > 0 {
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&members).Error; err != nil {
				return fmt.Errorf("add members: %w", err)
			}
		}

		for i := range chats {
			chats[i].GroupID = group.ID
		}
		if len(chats) > 0 {
			if err := tx.Create(&chats).Error; err != nil {
				return fmt.Errorf("create chats: %w", err)
			}
		}
		group.Chats = chats
		return nil
	})
}

func (r *groupRepository) AddMember(ctx context.Context, groupID, userID uint) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&domain.GroupMember{GroupID: groupID, UserID: userID}).Error
}

func (r *groupRepository) CreateChat(ctx context.Context, chat *domain.Chat) error {
	return r.db.WithContext(ctx).Create(chat).Error
}

func (r *groupRepository) FindGroup(ctx context.Context, id uint) (*domain.Group, error) {
	var g domain.Group
	err := r.db.WithContext(ctx).Preload("Chats").First(&g, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.NewNotFound("group", id)
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *groupRepository) FindChat(ctx context.Context, id uint) (*domain.Chat, error) {
	var c domain.Chat
	err := r.db.WithContext(ctx).First(&c, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.NewNotFound("chat", id)
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *groupRepository) ListChatsForGroups(ctx context.Context, groupIDs []uint) ([]domain.Chat, error) {
	if len(groupIDs) == 0 {
		return []domain.Chat{}, nil
	}
	var chats []domain.Chat
	err := r.db.WithContext(ctx).
		Where("group_id IN ?", groupIDs).
		Order("id ASC").
		Find(&chats).Error
	return chats, err
}

func (r *groupRepository) FindDirectMessageGroup(ctx context.Context, userA, userB uint) (*domain.Group, error) {
	var g domain.Group
	err := r.db.WithContext(ctx).
		Where("is_direct_message = ?", true).
		Where("id IN (?)", r.db.Model(&domain.GroupMember{}).Select("group_id").Where("user_id = ?", userA)).
		Where("id IN (?)", r.db.Model(&domain.GroupMember{}).Select("group_id").Where("user_id = ?", userB)).
		Preload("Chats").
		Take(&g).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}
