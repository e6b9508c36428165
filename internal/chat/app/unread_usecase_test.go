package app

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"messaging_service/internal/chat/domain"
	"messaging_service/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

func at(i int) time.Time { return t0.Add(time.Duration(i) * time.Minute) }

func chatMessages(chatID uint, firstID uint, from, to int) []domain.Message {
	var out []domain.Message
	for i := from; i <= to; i++ {
		out = append(out, domain.Message{ID: firstID + uint(i), ChatID: chatID, CreatedAt: at(i)})
	}
	return out
}

type unreadFixture struct {
	rpRepo     *MockReadPositionRepository
	msgRepo    *MockMessageRepository
	groupRepo  *MockGroupRepository
	memberRepo *MockMembershipRepository
	uc         *UnreadUseCase
}

func newUnreadFixture() *unreadFixture {
	logger.SetNewNop()
	f := &unreadFixture{
		rpRepo:     new(MockReadPositionRepository),
		msgRepo:    new(MockMessageRepository),
		groupRepo:  new(MockGroupRepository),
		memberRepo: new(MockMembershipRepository),
	}
	f.uc = NewUnreadUseCase(f.rpRepo, f.msgRepo, f.groupRepo, f.memberRepo)
	return f
}

func ids(msgs []domain.Message) []uint {
	out := make([]uint, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, m.ID)
	}
	return out
}

func TestUnreadUseCase_GetUnreadMessages(t *testing.T) {
	ctx := context.Background()

	t.Run("requires acting user", func(t *testing.T) {
		f := newUnreadFixture()
		_, err := f.uc.GetUnreadMessages(ctx, 0)
		assert.ErrorIs(t, err, domain.ErrAuthenticationRequired)
	})

	t.Run("no watermark means no unread", func(t *testing.T) {
		f := newUnreadFixture()
		f.rpRepo.On("ListByUser", ctx, uint(2)).Return([]domain.ReadPosition{}, nil)

		got, err := f.uc.GetUnreadMessages(ctx, 2)
		require.NoError(t, err)
		assert.Empty(t, got)
		f.msgRepo.AssertNotCalled(t, "ListAfter", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("newer messages only, chats in watermark order", func(t *testing.T) {
		f := newUnreadFixture()
		f.rpRepo.On("ListByUser", ctx, uint(2)).Return([]domain.ReadPosition{
			{ChatID: 1, AtChatTime: at(2)},
			{ChatID: 4, AtChatTime: at(1)},
		}, nil)
		f.msgRepo.On("ListAfter", ctx, uint(1), at(2)).Return(chatMessages(1, 100, 3, 5), nil)
		f.msgRepo.On("ListAfter", ctx, uint(4), at(1)).Return(chatMessages(4, 200, 2, 2), nil)

		got, err := f.uc.GetUnreadMessages(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, []uint{103, 104, 105, 202}, ids(got))
		f.msgRepo.AssertExpectations(t)
	})

	t.Run("partial failure keeps other chats", func(t *testing.T) {
		f := newUnreadFixture()
		boom := errors.New("connection reset")
		f.rpRepo.On("ListByUser", ctx, uint(2)).Return([]domain.ReadPosition{
			{ChatID: 1, AtChatTime: at(0)},
			{ChatID: 2, AtChatTime: at(0)},
			{ChatID: 3, AtChatTime: at(0)},
		}, nil)
		f.msgRepo.On("ListAfter", ctx, uint(1), at(0)).Return(chatMessages(1, 0, 1, 2), nil)
		f.msgRepo.On("ListAfter", ctx, uint(2), at(0)).Return(nil, boom)
		f.msgRepo.On("ListAfter", ctx, uint(3), at(0)).Return(chatMessages(3, 50, 1, 1), nil)

		got, err := f.uc.GetUnreadMessages(ctx, 2)
		var aggErr *domain.AggregationError
		require.ErrorAs(t, err, &aggErr)
		assert.Equal(t, []uint{2}, aggErr.ChatIDs())
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, []uint{1, 2, 51}, ids(got))
	})

	t.Run("watermark load failure", func(t *testing.T) {
		f := newUnreadFixture()
		f.rpRepo.On("ListByUser", ctx, uint(2)).Return(nil, errors.New("db gone"))

		got, err := f.uc.GetUnreadMessages(ctx, 2)
		assert.Error(t, err)
		assert.Nil(t, got)
	})

	t.Run("concurrency is bounded", func(t *testing.T) {
		f := newUnreadFixture()
		f.uc.SetConcurrency(2)

		var rps []domain.ReadPosition
		for i := uint(1); i <= 6; i++ {
			rps = append(rps, domain.ReadPosition{ChatID: i, AtChatTime: at(0)})
		}
		f.rpRepo.On("ListByUser", ctx, uint(2)).Return(rps, nil)

		var inFlight, peak int32
		f.msgRepo.On("ListAfter", ctx, mock.Anything, at(0)).Run(func(mock.Arguments) {
			n := atomic.AddInt32(&inFlight, 1)
			for {
				p := atomic.LoadInt32(&peak)
				if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
					break
				}
			}
			time.Sleep(10 * time.Millisecond)
			atomic.AddInt32(&inFlight, -1)
		}).Return([]domain.Message{}, nil)

		_, err := f.uc.GetUnreadMessages(ctx, 2)
		require.NoError(t, err)
		assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(2))
	})
}

func TestUnreadUseCase_GetAllMessages(t *testing.T) {
	ctx := context.Background()

	t.Run("only own history", func(t *testing.T) {
		f := newUnreadFixture()
		_, err := f.uc.GetAllMessages(ctx, 0, 1)
		assert.ErrorIs(t, err, domain.ErrAuthenticationRequired)
		_, err = f.uc.GetAllMessages(ctx, 2, 1)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("unknown user", func(t *testing.T) {
		f := newUnreadFixture()
		f.memberRepo.On("FindUser", ctx, uint(1)).Return(nil, domain.NewNotFound("user", 1))
		_, err := f.uc.GetAllMessages(ctx, 1, 1)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("interleaves chats ascending", func(t *testing.T) {
		f := newUnreadFixture()
		f.memberRepo.On("FindUser", ctx, uint(1)).Return(&domain.User{ID: 1}, nil)
		f.memberRepo.On("ListGroupIDsForUser", ctx, uint(1)).Return([]uint{5, 6}, nil)
		f.groupRepo.On("ListChatsForGroups", ctx, []uint{5, 6}).Return([]domain.Chat{{ID: 10}, {ID: 20}}, nil)
		f.msgRepo.On("ListByChats", ctx, []uint{10, 20}).Return([]domain.Message{
			{ID: 3, ChatID: 20, CreatedAt: at(3)},
			{ID: 1, ChatID: 10, CreatedAt: at(1)},
			{ID: 4, ChatID: 10, CreatedAt: at(3)},
			{ID: 2, ChatID: 20, CreatedAt: at(2)},
		}, nil)

		got, err := f.uc.GetAllMessages(ctx, 1, 1)
		require.NoError(t, err)
		assert.Equal(t, []uint{1, 2, 3, 4}, ids(got))
		for i := 1; i < len(got); i++ {
			assert.False(t, got[i].CreatedAt.Before(got[i-1].CreatedAt))
		}
	})
}
