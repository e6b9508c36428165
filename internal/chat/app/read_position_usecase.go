package app

import (
	"context"
	"fmt"

	"messaging_service/internal/chat/domain"
	"messaging_service/internal/chat/repository"
	"messaging_service/pkg/metrics"
)

// ReadPositionUseCase 負責維護 user 在 chat 內的已讀位置
type ReadPositionUseCase struct {
	msgRepo repository.MessageRepository
	rpRepo  repository.ReadPositionRepository
	notifier
}

// NewReadPositionUseCase init read position use case
func NewReadPositionUseCase(
	msgRepo repository.MessageRepository,
	rpRepo repository.ReadPositionRepository,
	groupRepo repository.GroupRepository,
	memberRepo repository.MembershipRepository,
	pub repository.Publisher,
) *ReadPositionUseCase {
	return &ReadPositionUseCase{
		msgRepo:  msgRepo,
		rpRepo:   rpRepo,
		notifier: newNotifier(groupRepo, memberRepo, pub),
	}
}

// UpdateReadPosition mark the chat of forMessageID read up to that message.
// Only members of the chat's group may do so (ErrForbidden otherwise).
//
// The previous watermark of the user in that chat is deleted and a new one is
// created at the message's creation time. Two concurrent calls for the same
// user and chat race; the unique (user_id, chat_id) index makes the loser fail
// instead of leaving two rows.
func (uc *ReadPositionUseCase) UpdateReadPosition(ctx context.Context, actingUserID, forMessageID uint) (*domain.ReadPosition, error) {
	if actingUserID == 0 {
		return nil, domain.ErrAuthenticationRequired
	}

	msg, err := uc.msgRepo.FindByID(ctx, forMessageID)
	if err != nil {
		return nil, err
	}
	chat, err := uc.groupRepo.FindChat(ctx, msg.ChatID)
	if err != nil {
		return nil, err
	}
	member, err := uc.memberRepo.IsMember(ctx, chat.GroupID, actingUserID)
	if err != nil {
		return nil, fmt.Errorf("check membership: %w", err)
	}
	if !member {
		return nil, domain.ErrForbidden
	}

	existing, err := uc.rpRepo.FindByUserAndChat(ctx, actingUserID, chat.ID)
	if err != nil {
		return nil, fmt.Errorf("find read position: %w", err)
	}
	if existing != nil {
		if err := uc.rpRepo.Delete(ctx, existing.ID); err != nil {
			return nil, fmt.Errorf("delete read position: %w", err)
		}
	}

	rp := &domain.ReadPosition{
		UserID:     actingUserID,
		ChatID:     chat.ID,
		MessageID:  msg.ID,
		AtChatTime: msg.CreatedAt,
	}
	if err := uc.rpRepo.Create(ctx, rp); err != nil {
		return nil, fmt.Errorf("create read position: %w", err)
	}
	metrics.ReadPositionsSet.Inc()

	uc.notify(ctx, domain.EventNewReadPosition, chat, actingUserID, actingUserID, rp)
	return rp, nil
}

// ListReadPositions current watermarks of the acting user, ordered by chat id
func (uc *ReadPositionUseCase) ListReadPositions(ctx context.Context, actingUserID uint) ([]domain.ReadPosition, error) {
	if actingUserID == 0 {
		return nil, domain.ErrAuthenticationRequired
	}
	return uc.rpRepo.ListByUser(ctx, actingUserID)
}
