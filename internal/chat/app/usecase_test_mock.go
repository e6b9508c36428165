package app

import (
	"context"
	"time"

	"messaging_service/internal/chat/domain"

	"github.com/stretchr/testify/mock"
)

// MockMessageRepository Mock MessageRepository
type MockMessageRepository struct {
	mock.Mock
}

// CreateWithContent mock create message, assigns ids like the store would
func (m *MockMessageRepository) CreateWithContent(ctx context.Context, msg *domain.Message) error {
	args := m.Called(ctx, msg)
	if args.Error(0) == nil && msg.ID == 0 {
		msg.ID = 1
		msg.ContentID = 1
	}
	return args.Error(0)
}

// FindByID mock find message
func (m *MockMessageRepository) FindByID(ctx context.Context, id uint) (*domain.Message, error) {
	args := m.Called(ctx, id)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.Message), args.Error(1)
	}
	return nil, args.Error(1)
}

// ListAfter mock list messages after watermark
func (m *MockMessageRepository) ListAfter(ctx context.Context, chatID uint, after time.Time) ([]domain.Message, error) {
	args := m.Called(ctx, chatID, after)
	if args.Get(0) != nil {
		return args.Get(0).([]domain.Message), args.Error(1)
	}
	return nil, args.Error(1)
}

// ListByChats mock list messages of chats
func (m *MockMessageRepository) ListByChats(ctx context.Context, chatIDs []uint) ([]domain.Message, error) {
	args := m.Called(ctx, chatIDs)
	if args.Get(0) != nil {
		return args.Get(0).([]domain.Message), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockReadPositionRepository Mock ReadPositionRepository
type MockReadPositionRepository struct {
	mock.Mock
}

// FindByUserAndChat mock find watermark
func (m *MockReadPositionRepository) FindByUserAndChat(ctx context.Context, userID, chatID uint) (*domain.ReadPosition, error) {
	args := m.Called(ctx, userID, chatID)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.ReadPosition), args.Error(1)
	}
	return nil, args.Error(1)
}

// Create mock create watermark
func (m *MockReadPositionRepository) Create(ctx context.Context, rp *domain.ReadPosition) error {
	return m.Called(ctx, rp).Error(0)
}

// Delete mock delete watermark
func (m *MockReadPositionRepository) Delete(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

// ListByUser mock list watermarks
func (m *MockReadPositionRepository) ListByUser(ctx context.Context, userID uint) ([]domain.ReadPosition, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) != nil {
		return args.Get(0).([]domain.ReadPosition), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockGroupRepository Mock GroupRepository
type MockGroupRepository struct {
	mock.Mock
}

// Create mock create group
func (m *MockGroupRepository) Create(ctx context.Context, group *domain.Group, memberIDs []uint) error {
	return m.Called(ctx, group, memberIDs).Error(0)
}

// AddMember mock add member
func (m *MockGroupRepository) AddMember(ctx context.Context, groupID, userID uint) error {
	return m.Called(ctx, groupID, userID).Error(0)
}

// CreateChat mock create chat
func (m *MockGroupRepository) CreateChat(ctx context.Context, chat *domain.Chat) error {
	return m.Called(ctx, chat).Error(0)
}

// FindGroup mock find group
func (m *MockGroupRepository) FindGroup(ctx context.Context, id uint) (*domain.Group, error) {
	args := m.Called(ctx, id)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.Group), args.Error(1)
	}
	return nil, args.Error(1)
}

// FindChat mock find chat
func (m *MockGroupRepository) FindChat(ctx context.Context, id uint) (*domain.Chat, error) {
	args := m.Called(ctx, id)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.Chat), args.Error(1)
	}
	return nil, args.Error(1)
}

// ListChatsForGroups mock list chats
func (m *MockGroupRepository) ListChatsForGroups(ctx context.Context, groupIDs []uint) ([]domain.Chat, error) {
	args := m.Called(ctx, groupIDs)
	if args.Get(0) != nil {
		return args.Get(0).([]domain.Chat), args.Error(1)
	}
	return nil, args.Error(1)
}

// FindDirectMessageGroup mock find direct message group
func (m *MockGroupRepository) FindDirectMessageGroup(ctx context.Context, userA, userB uint) (*domain.Group, error) {
	args := m.Called(ctx, userA, userB)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.Group), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockMembershipRepository Mock MembershipRepository
type MockMembershipRepository struct {
	mock.Mock
}

// FindUser mock find user
func (m *MockMembershipRepository) FindUser(ctx context.Context, id uint) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.User), args.Error(1)
	}
	return nil, args.Error(1)
}

// ListGroupIDsForUser mock list groups
func (m *MockMembershipRepository) ListGroupIDsForUser(ctx context.Context, userID uint) ([]uint, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) != nil {
		return args.Get(0).([]uint), args.Error(1)
	}
	return nil, args.Error(1)
}

// ListMemberIDs mock list members
func (m *MockMembershipRepository) ListMemberIDs(ctx context.Context, groupID uint) ([]uint, error) {
	args := m.Called(ctx, groupID)
	if args.Get(0) != nil {
		return args.Get(0).([]uint), args.Error(1)
	}
	return nil, args.Error(1)
}

// IsMember mock membership check
func (m *MockMembershipRepository) IsMember(ctx context.Context, groupID, userID uint) (bool, error) {
	args := m.Called(ctx, groupID, userID)
	return args.Bool(0), args.Error(1)
}

// MockPublisher Mock Publisher
type MockPublisher struct {
	mock.Mock
}

// Publish mock publish
func (m *MockPublisher) Publish(ctx context.Context, event domain.Event) error {
	return m.Called(ctx, event).Error(0)
}
