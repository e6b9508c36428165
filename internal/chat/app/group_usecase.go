package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"messaging_service/internal/chat/domain"
	"messaging_service/internal/chat/repository"
	"messaging_service/pkg"
	"messaging_service/pkg/logger"

	"go.uber.org/zap"
)

// ErrInvalidGroup group or chat input rejected
var ErrInvalidGroup = errors.New("invalid group")

// GroupUseCase 負責 group 與 chat 的建立
type GroupUseCase struct {
	groupRepo  repository.GroupRepository
	memberRepo repository.MembershipRepository
}

// NewGroupUseCase init group use case
func NewGroupUseCase(groupRepo repository.GroupRepository, memberRepo repository.MembershipRepository) *GroupUseCase {
	return &GroupUseCase{groupRepo: groupRepo, memberRepo: memberRepo}
}

// CreateGroup create a group holding the acting user and memberIDs
func (uc *GroupUseCase) CreateGroup(ctx context.Context, actingUserID uint, name string, memberIDs []uint) (*domain.Group, error) {
	if actingUserID == 0 {
		return nil, domain.ErrAuthenticationRequired
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidGroup)
	}

	members := pkg.Unique(append([]uint{actingUserID}, memberIDs...))
	for _, id := range members[1:] {
		if _, err := uc.memberRepo.FindUser(ctx, id); err != nil {
			return nil, err
		}
	}

	g := &domain.Group{Name: name, Chats: []domain.Chat{{Name: "general"}}}
	if err := uc.groupRepo.Create(ctx, g, members); err != nil {
		return nil, fmt.Errorf("create group: %w", err)
	}
	logger.Log.Info("group created", zap.Uint("groupID", g.ID), zap.Int("members", len(members)))
	return g, nil
}

// CreateChat add a chat to a group the acting user belongs to
func (uc *GroupUseCase) CreateChat(ctx context.Context, actingUserID, inGroupID uint, name, description string) (*domain.Chat, error) {
	if err := uc.requireMember(ctx, actingUserID, inGroupID); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidGroup)
	}

	chat := &domain.Chat{GroupID: inGroupID, Name: name, Description: description}
	if err := uc.groupRepo.CreateChat(ctx, chat); err != nil {
		return nil, fmt.Errorf("create chat: %w", err)
	}
	return chat, nil
}

// AddMember add userID to a group the acting user belongs to, direct message groups are closed
func (uc *GroupUseCase) AddMember(ctx context.Context, actingUserID, groupID, userID uint) error {
	if err := uc.requireMember(ctx, actingUserID, groupID); err != nil {
		return err
	}
	g, err := uc.groupRepo.FindGroup(ctx, groupID)
	if err != nil {
		return err
	}
	if g.IsDirectMessage {
		return domain.ErrForbidden
	}
	if _, err := uc.memberRepo.FindUser(ctx, userID); err != nil {
		return err
	}
	return uc.groupRepo.AddMember(ctx, groupID, userID)
}

// CreateDirectMessageGroup the two-member direct message group of the acting
// user and friendID with its default chats; an existing one is returned as is
func (uc *GroupUseCase) CreateDirectMessageGroup(ctx context.Context, actingUserID, friendID uint) (*domain.Group, error) {
	if actingUserID == 0 {
		return nil, domain.ErrAuthenticationRequired
	}
	if friendID == 0 || friendID == actingUserID {
		return nil, fmt.Errorf("%w: direct message needs two distinct users", ErrInvalidGroup)
	}
	if _, err := uc.memberRepo.FindUser(ctx, friendID); err != nil {
		return nil, err
	}

	existing, err := uc.groupRepo.FindDirectMessageGroup(ctx, actingUserID, friendID)
	if err != nil {
		return nil, fmt.Errorf("find direct message group: %w", err)
	}
	if existing != nil {
		return existing, nil
	}

	g := &domain.Group{
		Name:            "friend",
		IsDirectMessage: true,
		Chats:           append([]domain.Chat(nil), domain.DefaultDirectMessageChats...),
	}
	if err := uc.groupRepo.Create(ctx, g, []uint{actingUserID, friendID}); err != nil {
		return nil, fmt.Errorf("create direct message group: %w", err)
	}
	return g, nil
}

// ListMemberIDs members of a group the acting user belongs to
func (uc *GroupUseCase) ListMemberIDs(ctx context.Context, actingUserID, groupID uint) ([]uint, error) {
	if err := uc.requireMember(ctx, actingUserID, groupID); err != nil {
		return nil, err
	}
	return uc.memberRepo.ListMemberIDs(ctx, groupID)
}

func (uc *GroupUseCase) requireMember(ctx context.Context, actingUserID, groupID uint) error {
	if actingUserID == 0 {
		return domain.ErrAuthenticationRequired
	}
	ok, err := uc.memberRepo.IsMember(ctx, groupID, actingUserID)
	if err != nil {
		return fmt.Errorf("check membership: %w", err)
	}
	if ok {
		return nil
	}
	if _, err := uc.groupRepo.FindGroup(ctx, groupID); err != nil {
		return err
	}
	return domain.ErrForbidden
}
