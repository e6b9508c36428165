package app

import (
	"context"
	"encoding/json"
	"fmt"

	"messaging_service/internal/chat/domain"
	"messaging_service/internal/chat/repository"
	"messaging_service/pkg/logger"
	"messaging_service/pkg/metrics"

	"go.uber.org/zap"
)

// MessageUseCase 負責處理聊天訊息
type MessageUseCase struct {
	msgRepo repository.MessageRepository
	notifier
}

// NewMessageUseCase init create message use case
func NewMessageUseCase(
	msgRepo repository.MessageRepository,
	groupRepo repository.GroupRepository,
	memberRepo repository.MembershipRepository,
	pub repository.Publisher,
) *MessageUseCase {
	return &MessageUseCase{
		msgRepo:  msgRepo,
		notifier: newNotifier(groupRepo, memberRepo, pub),
	}
}

// CreateMessage store a message with its content in chatID and notify every
// member of the chat's group, the author included. A text containing a
// spotify link is stored as the matching spotify content instead.
func (uc *MessageUseCase) CreateMessage(ctx context.Context, actingUserID uint, typ domain.ContentType, data json.RawMessage, chatID uint) (*domain.Message, error) {
	if actingUserID == 0 {
		return nil, domain.ErrAuthenticationRequired
	}

	content, err := domain.NewContent(typ, data)
	if err != nil {
		return nil, err
	}
	if typ == domain.ContentText {
		var p domain.TextPayload
		if err := json.Unmarshal(data, &p); err == nil {
			if special, ok := ClassifyText(p.Text); ok {
				logger.Log.Debug("text reclassified", zap.String("type", string(special.Type)))
				content = special
			}
		}
	}

	chat, err := uc.groupRepo.FindChat(ctx, chatID)
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

	msg := &domain.Message{
		ChatID:  chat.ID,
		UserID:  actingUserID,
		Content: content,
	}
	if err := uc.msgRepo.CreateWithContent(ctx, msg); err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}
	metrics.MessagesCreated.WithLabelValues(string(msg.Content.Type)).Inc()

	uc.notify(ctx, domain.EventNewMessage, chat, actingUserID, 0, msg)
	return msg, nil
}
