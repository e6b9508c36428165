package app

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"messaging_service/internal/chat/domain"
	"messaging_service/internal/chat/repository"
	"messaging_service/pkg/logger"
	"messaging_service/pkg/metrics"

	"go.uber.org/zap"
)

// DefaultUnreadConcurrency per-chat lookups in flight for one aggregation
const DefaultUnreadConcurrency = 8

// UnreadUseCase 負責計算 user 的未讀訊息
type UnreadUseCase struct {
	rpRepo      repository.ReadPositionRepository
	msgRepo     repository.MessageRepository
	groupRepo   repository.GroupRepository
	memberRepo  repository.MembershipRepository
	concurrency int
}

// NewUnreadUseCase init unread use case
func NewUnreadUseCase(
	rpRepo repository.ReadPositionRepository,
	msgRepo repository.MessageRepository,
	groupRepo repository.GroupRepository,
	memberRepo repository.MembershipRepository,
) *UnreadUseCase {
	return &UnreadUseCase{
		rpRepo:      rpRepo,
		msgRepo:     msgRepo,
		groupRepo:   groupRepo,
		memberRepo:  memberRepo,
		concurrency: DefaultUnreadConcurrency,
	}
}

// SetConcurrency bound the number of concurrent per-chat lookups
func (uc *UnreadUseCase) SetConcurrency(n int) {
	if n > 0 {
		uc.concurrency = n
	}
}

// GetUnreadMessages every message newer than the acting user's watermark in
// each chat that has one. Chats follow watermark order (chat id ascending),
// messages inside a chat are ascending by (created_at, id).
//
// A chat without a watermark contributes nothing, so a user who never marked
// a chat read sees no unread messages there.
//
// When some chats fail the rest are still returned together with an
// *domain.AggregationError naming the failed chats.
func (uc *UnreadUseCase) GetUnreadMessages(ctx context.Context, actingUserID uint) ([]domain.Message, error) {
	if actingUserID == 0 {
		return nil, domain.ErrAuthenticationRequired
	}
	start := time.Now()
	defer func() { metrics.UnreadDuration.Observe(time.Since(start).Seconds()) }()

	watermarks, err := uc.rpRepo.ListByUser(ctx, actingUserID)
	if err != nil {
		return nil, fmt.Errorf("list read positions: %w", err)
	}

	type result struct {
		msgs []domain.Message
		err  error
	}
	results := make([]result, len(watermarks))
	sem := make(chan struct{}, uc.concurrency)

	var wg sync.WaitGroup
	for i, rp := range watermarks {
		wg.Add(1)
		go func(i int, rp domain.ReadPosition) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			msgs, err := uc.msgRepo.ListAfter(ctx, rp.ChatID, rp.AtChatTime)
			results[i] = result{msgs: msgs, err: err}
		}(i, rp)
	}
	wg.Wait()

	unread := []domain.Message{}
	var aggErr *domain.AggregationError
	for i, r := range results {
		chatID := watermarks[i].ChatID
		if r.err != nil {
			if aggErr == nil {
				aggErr = &domain.AggregationError{Failures: map[uint]error{}}
			}
			aggErr.Failures[chatID] = r.err
			metrics.UnreadLookupFailures.Inc()
			logger.Log.Error("unread lookup failed",
				zap.Uint("userID", actingUserID),
				zap.Uint("chatID", chatID),
				zap.Error(r.err),
			)
			continue
		}
		unread = append(unread, r.msgs...)
	}

	if aggErr != nil {
		return unread, aggErr
	}
	return unread, nil
}

// GetAllMessages every message of every chat in every group of userID, with
// content and read positions, ascending by (created_at, id) across chats.
// Users may only read their own history.
func (uc *UnreadUseCase) GetAllMessages(ctx context.Context, actingUserID, userID uint) ([]domain.Message, error) {
	if actingUserID == 0 {
		return nil, domain.ErrAuthenticationRequired
	}
	if actingUserID != userID {
		return nil, domain.ErrForbidden
	}
	if _, err := uc.memberRepo.FindUser(ctx, userID); err != nil {
		return nil, err
	}

	groupIDs, err := uc.memberRepo.ListGroupIDsForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	chats, err := uc.groupRepo.ListChatsForGroups(ctx, groupIDs)
	if err != nil {
		return nil, fmt.Errorf("list chats: %w", err)
	}

	chatIDs := make([]uint, 0, len(chats))
	for _, c := range chats {
		chatIDs = append(chatIDs, c.ID)
	}
	msgs, err := uc.msgRepo.ListByChats(ctx, chatIDs)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}

	// the store already orders, keep the guarantee independent of it
	sort.SliceStable(msgs, func(i, j int) bool { return msgs[i].Before(msgs[j]) })
	return msgs, nil
}
