package app

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"messaging_service/internal/chat/domain"
	"messaging_service/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type messageFixture struct {
	msgRepo    *MockMessageRepository
	groupRepo  *MockGroupRepository
	memberRepo *MockMembershipRepository
	pub        *MockPublisher
	uc         *MessageUseCase
}

func newMessageFixture() *messageFixture {
	logger.SetNewNop()
	f := &messageFixture{
		msgRepo:    new(MockMessageRepository),
		groupRepo:  new(MockGroupRepository),
		memberRepo: new(MockMembershipRepository),
		pub:        new(MockPublisher),
	}
	f.uc = NewMessageUseCase(f.msgRepo, f.groupRepo, f.memberRepo, f.pub)
	return f
}

func textData(s string) json.RawMessage {
	b, _ := json.Marshal(domain.TextPayload{Text: s})
	return b
}

func TestMessageUseCase_CreateMessage(t *testing.T) {
	ctx := context.Background()
	chat := &domain.Chat{ID: 3, GroupID: 9}

	t.Run("requires acting user", func(t *testing.T) {
		f := newMessageFixture()
		_, err := f.uc.CreateMessage(ctx, 0, domain.ContentText, textData("hi"), 3)
		assert.ErrorIs(t, err, domain.ErrAuthenticationRequired)
	})

	t.Run("invalid content", func(t *testing.T) {
		f := newMessageFixture()
		_, err := f.uc.CreateMessage(ctx, 1, domain.ContentPoll, json.RawMessage(`{"question":"?"}`), 3)
		assert.ErrorIs(t, err, domain.ErrInvalidContent)
		f.groupRepo.AssertNotCalled(t, "FindChat", mock.Anything, mock.Anything)
	})

	t.Run("unknown chat", func(t *testing.T) {
		f := newMessageFixture()
		f.groupRepo.On("FindChat", ctx, uint(99)).Return(nil, domain.NewNotFound("chat", 99))
		_, err := f.uc.CreateMessage(ctx, 1, domain.ContentText, textData("hi"), 99)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("non member", func(t *testing.T) {
		f := newMessageFixture()
		f.groupRepo.On("FindChat", ctx, uint(3)).Return(chat, nil)
		f.memberRepo.On("IsMember", ctx, uint(9), uint(8)).Return(false, nil)
		_, err := f.uc.CreateMessage(ctx, 8, domain.ContentText, textData("hi"), 3)
		assert.ErrorIs(t, err, domain.ErrForbidden)
		f.msgRepo.AssertNotCalled(t, "CreateWithContent", mock.Anything, mock.Anything)
	})

	t.Run("text notifies every member including sender", func(t *testing.T) {
		f := newMessageFixture()
		f.groupRepo.On("FindChat", ctx, uint(3)).Return(chat, nil)
		f.memberRepo.On("IsMember", ctx, uint(9), uint(1)).Return(true, nil)
		f.msgRepo.On("CreateWithContent", ctx, mock.MatchedBy(func(m *domain.Message) bool {
			return m.ChatID == 3 && m.UserID == 1 && m.Content.Type == domain.ContentText
		})).Return(nil)
		f.memberRepo.On("ListMemberIDs", mock.Anything, uint(9)).Return([]uint{1, 2}, nil)
		f.pub.On("Publish", mock.Anything, recipientsAre(domain.EventNewMessage, 1, 2)).Return(nil)

		msg, err := f.uc.CreateMessage(ctx, 1, domain.ContentText, textData("hello"), 3)
		require.NoError(t, err)
		assert.JSONEq(t, `{"text":"hello"}`, string(msg.Content.Data))
		f.uc.WaitPublished()
		f.msgRepo.AssertExpectations(t)
		f.pub.AssertExpectations(t)
	})

	t.Run("spotify link replaces text", func(t *testing.T) {
		f := newMessageFixture()
		f.groupRepo.On("FindChat", ctx, uint(3)).Return(chat, nil)
		f.memberRepo.On("IsMember", ctx, uint(9), uint(1)).Return(true, nil)
		f.msgRepo.On("CreateWithContent", ctx, mock.Anything).Return(nil)
		f.memberRepo.On("ListMemberIDs", mock.Anything, uint(9)).Return([]uint{1}, nil)
		f.pub.On("Publish", mock.Anything, mock.Anything).Return(nil)

		text := "listen https://open.spotify.com/album/1DFixLWuPkv3KT3TnV35m3 now"
		msg, err := f.uc.CreateMessage(ctx, 1, domain.ContentText, textData(text), 3)
		require.NoError(t, err)
		assert.Equal(t, domain.ContentSpotifyAlbum, msg.Content.Type)

		var p domain.SpotifyPayload
		require.NoError(t, json.Unmarshal(msg.Content.Data, &p))
		assert.Equal(t, "1DFixLWuPkv3KT3TnV35m3", p.ID)
		f.uc.WaitPublished()
	})

	t.Run("store failure", func(t *testing.T) {
		f := newMessageFixture()
		f.groupRepo.On("FindChat", ctx, uint(3)).Return(chat, nil)
		f.memberRepo.On("IsMember", ctx, uint(9), uint(1)).Return(true, nil)
		f.msgRepo.On("CreateWithContent", ctx, mock.Anything).Return(errors.New("tx aborted"))

		_, err := f.uc.CreateMessage(ctx, 1, domain.ContentText, textData("hi"), 3)
		assert.ErrorContains(t, err, "tx aborted")
		f.uc.WaitPublished()
		f.pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	})
}

func TestMessageUseCase_SlowPublisherDoesNotBlock(t *testing.T) {
	f := newMessageFixture()
	pub := &blockingPublisher{release: make(chan struct{}), ctxErr: make(chan error, 1)}
	f.uc = NewMessageUseCase(f.msgRepo, f.groupRepo, f.memberRepo, pub)

	chat := &domain.Chat{ID: 3, GroupID: 9}
	f.groupRepo.On("FindChat", mock.Anything, uint(3)).Return(chat, nil)
	f.memberRepo.On("IsMember", mock.Anything, uint(9), uint(1)).Return(true, nil)
	f.msgRepo.On("CreateWithContent", mock.Anything, mock.Anything).Return(nil)
	f.memberRepo.On("ListMemberIDs", mock.Anything, uint(9)).Return([]uint{1, 2}, nil)

	start := time.Now()
	msg, err := f.uc.CreateMessage(context.Background(), 1, domain.ContentText, textData("hi"), 3)
	require.NoError(t, err)
	assert.NotNil(t, msg)
	assert.Less(t, time.Since(start), 500*time.Millisecond)

	close(pub.release)
	f.uc.WaitPublished()
	assert.NoError(t, <-pub.ctxErr)
}
