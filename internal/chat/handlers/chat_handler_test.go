package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"messaging_service/internal/chat/app"
	"messaging_service/internal/chat/domain"
	"messaging_service/pkg/logger"
	"messaging_service/pkg/middlewares"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type handlerFixture struct {
	msgRepo    *app.MockMessageRepository
	rpRepo     *app.MockReadPositionRepository
	groupRepo  *app.MockGroupRepository
	memberRepo *app.MockMembershipRepository
	pub        *app.MockPublisher
	handler    *ChatHandler
}

func newHandlerFixture() *handlerFixture {
	logger.SetNewNop()
	f := &handlerFixture{
		msgRepo:    new(app.MockMessageRepository),
		rpRepo:     new(app.MockReadPositionRepository),
		groupRepo:  new(app.MockGroupRepository),
		memberRepo: new(app.MockMembershipRepository),
		pub:        new(app.MockPublisher),
	}
	f.handler = NewChatHandler(
		app.NewMessageUseCase(f.msgRepo, f.groupRepo, f.memberRepo, f.pub),
		app.NewReadPositionUseCase(f.msgRepo, f.rpRepo, f.groupRepo, f.memberRepo, f.pub),
		app.NewUnreadUseCase(f.rpRepo, f.msgRepo, f.groupRepo, f.memberRepo),
		app.NewGroupUseCase(f.groupRepo, f.memberRepo),
		nil,
	)
	return f
}

// app wires the handler behind a fake auth layer, memberID "" leaves the request anonymous
func (f *handlerFixture) app(memberID string) *fiber.App {
	r := fiber.New()
	r.Use(func(c *fiber.Ctx) error {
		if memberID != "" {
			c.Locals(middlewares.TokenMemberID, memberID)
		}
		return c.Next()
	})
	r.Post("/messages", f.handler.CreateMessage)
	r.Post("/read-positions", f.handler.UpdateReadPosition)
	r.Get("/read-positions", f.handler.ListReadPositions)
	r.Get("/unread-messages", f.handler.UnreadMessages)
	r.Get("/users/:id/all-messages", f.handler.AllMessages)
	r.Post("/groups", f.handler.CreateGroup)
	r.Post("/groups/:id/members", f.handler.AddMember)
	r.Get("/events", f.handler.Events)
	return r
}

func do(t *testing.T, r *fiber.App, method, path, body string) (int, []byte) {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := r.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, b
}

func TestChatHandler_CreateMessage(t *testing.T) {
	f := newHandlerFixture()
	chat := &domain.Chat{ID: 3, GroupID: 9}
	f.groupRepo.On("FindChat", mock.Anything, uint(3)).Return(chat, nil)
	f.memberRepo.On("IsMember", mock.Anything, uint(9), uint(7)).Return(true, nil)
	f.msgRepo.On("CreateWithContent", mock.Anything, mock.AnythingOfType("*domain.Message")).Return(nil)
	f.memberRepo.On("ListMemberIDs", mock.Anything, uint(9)).Return([]uint{7, 8}, nil)
	f.pub.On("Publish", mock.Anything, mock.AnythingOfType("domain.Event")).Return(nil)

	status, body := do(t, f.app("7"), fiber.MethodPost, "/messages",
		`{"type":"text","data":{"text":"hello"},"chatId":3}`)

	require.Equal(t, fiber.StatusCreated, status, string(body))
	var msg domain.Message
	require.NoError(t, json.Unmarshal(body, &msg))
	assert.Equal(t, uint(3), msg.ChatID)
	assert.Equal(t, uint(7), msg.UserID)
	assert.Equal(t, domain.ContentText, msg.Content.Type)
	f.handler.messageUC.WaitPublished()
	f.pub.AssertNumberOfCalls(t, "Publish", 1)
}

func TestChatHandler_CreateMessageErrors(t *testing.T) {
	tests := []struct {
		name     string
		memberID string
		body     string
		setup    func(f *handlerFixture)
		status   int
	}{
		{
			name:   "anonymous",
			body:   `{"type":"text","data":{"text":"hi"},"chatId":3}`,
			status: fiber.StatusUnauthorized,
		},
		{
			name:     "unknown content type",
			memberID: "7",
			body:     `{"type":"hologram","data":{"x":1},"chatId":3}`,
			status:   fiber.StatusBadRequest,
		},
		{
			name:     "missing chat id",
			memberID: "7",
			body:     `{"type":"text","data":{"text":"hi"}}`,
			status:   fiber.StatusBadRequest,
		},
		{
			name:     "chat not found",
			memberID: "7",
			body:     `{"type":"text","data":{"text":"hi"},"chatId":3}`,
			setup: func(f *handlerFixture) {
				f.groupRepo.On("FindChat", mock.Anything, uint(3)).Return(nil, domain.NewNotFound("chat", 3))
			},
			status: fiber.StatusNotFound,
		},
		{
			name:     "not a member",
			memberID: "7",
			body:     `{"type":"text","data":{"text":"hi"},"chatId":3}`,
			setup: func(f *handlerFixture) {
				f.groupRepo.On("FindChat", mock.Anything, uint(3)).Return(&domain.Chat{ID: 3, GroupID: 9}, nil)
				f.memberRepo.On("IsMember", mock.Anything, uint(9), uint(7)).Return(false, nil)
			},
			status: fiber.StatusForbidden,
		},
		{
			name:     "store failure",
			memberID: "7",
			body:     `{"type":"text","data":{"text":"hi"},"chatId":3}`,
			setup: func(f *handlerFixture) {
				f.groupRepo.On("FindChat", mock.Anything, uint(3)).Return(&domain.Chat{ID: 3, GroupID: 9}, nil)
				f.memberRepo.On("IsMember", mock.Anything, uint(9), uint(7)).Return(true, nil)
				f.msgRepo.On("CreateWithContent", mock.Anything, mock.Anything).Return(errors.New("pq: connection reset"))
			},
			status: fiber.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newHandlerFixture()
			if tt.setup != nil {
				tt.setup(f)
			}
			status, body := do(t, f.app(tt.memberID), fiber.MethodPost, "/messages", tt.body)
			assert.Equal(t, tt.status, status, string(body))
			assert.NotContains(t, string(body), "pq:")
		})
	}
}

func TestChatHandler_UpdateReadPosition(t *testing.T) {
	f := newHandlerFixture()
	created := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	f.msgRepo.On("FindByID", mock.Anything, uint(11)).Return(&domain.Message{ID: 11, ChatID: 3, CreatedAt: created}, nil)
	f.groupRepo.On("FindChat", mock.Anything, uint(3)).Return(&domain.Chat{ID: 3, GroupID: 9}, nil)
	f.memberRepo.On("IsMember", mock.Anything, uint(9), uint(7)).Return(true, nil)
	f.rpRepo.On("FindByUserAndChat", mock.Anything, uint(7), uint(3)).Return(nil, nil)
	f.rpRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.ReadPosition")).Return(nil)
	f.memberRepo.On("ListMemberIDs", mock.Anything, uint(9)).Return([]uint{7}, nil)

	status, body := do(t, f.app("7"), fiber.MethodPost, "/read-positions", `{"forMessageId":11}`)

	require.Equal(t, fiber.StatusOK, status, string(body))
	var rp domain.ReadPosition
	require.NoError(t, json.Unmarshal(body, &rp))
	assert.Equal(t, uint(11), rp.MessageID)
	assert.Equal(t, uint(3), rp.ChatID)
	assert.True(t, created.Equal(rp.AtChatTime))
	// the author is the only member, nobody to notify
	f.handler.readPositionUC.WaitPublished()
	f.memberRepo.AssertCalled(t, "ListMemberIDs", mock.Anything, uint(9))
	f.pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestChatHandler_UpdateReadPositionErrors(t *testing.T) {
	t.Run("anonymous", func(t *testing.T) {
		f := newHandlerFixture()
		status, _ := do(t, f.app(""), fiber.MethodPost, "/read-positions", `{"forMessageId":11}`)
		assert.Equal(t, fiber.StatusUnauthorized, status)
		f.msgRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})

	t.Run("missing message", func(t *testing.T) {
		f := newHandlerFixture()
		f.msgRepo.On("FindByID", mock.Anything, uint(11)).Return(nil, domain.NewNotFound("message", 11))
		status, body := do(t, f.app("7"), fiber.MethodPost, "/read-positions", `{"forMessageId":11}`)
		assert.Equal(t, fiber.StatusNotFound, status)
		assert.Contains(t, string(body), "message 11 not found")
	})

	t.Run("not a member", func(t *testing.T) {
		f := newHandlerFixture()
		f.msgRepo.On("FindByID", mock.Anything, uint(11)).Return(&domain.Message{ID: 11, ChatID: 3}, nil)
		f.groupRepo.On("FindChat", mock.Anything, uint(3)).Return(&domain.Chat{ID: 3, GroupID: 9}, nil)
		f.memberRepo.On("IsMember", mock.Anything, uint(9), uint(66)).Return(false, nil)
		status, _ := do(t, f.app("66"), fiber.MethodPost, "/read-positions", `{"forMessageId":11}`)
		assert.Equal(t, fiber.StatusForbidden, status)
		f.rpRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("bad body", func(t *testing.T) {
		f := newHandlerFixture()
		status, _ := do(t, f.app("7"), fiber.MethodPost, "/read-positions", `{}`)
		assert.Equal(t, fiber.StatusBadRequest, status)
	})
}

func TestChatHandler_UnreadMessagesPartial(t *testing.T) {
	f := newHandlerFixture()
	t1 := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	f.rpRepo.On("ListByUser", mock.Anything, uint(7)).Return([]domain.ReadPosition{
		{ChatID: 1, AtChatTime: t1},
		{ChatID: 2, AtChatTime: t1},
	}, nil)
	f.msgRepo.On("ListAfter", mock.Anything, uint(1), t1).Return([]domain.Message{{ID: 5, ChatID: 1}}, nil)
	f.msgRepo.On("ListAfter", mock.Anything, uint(2), t1).Return(nil, errors.New("timeout"))

	status, body := do(t, f.app("7"), fiber.MethodGet, "/unread-messages", "")

	require.Equal(t, fiber.StatusOK, status)
	var resp UnreadResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	require.Len(t, resp.Messages, 1)
	assert.Equal(t, uint(5), resp.Messages[0].ID)
	assert.Equal(t, []uint{2}, resp.FailedChats)
}

func TestChatHandler_UnreadMessagesEmpty(t *testing.T) {
	f := newHandlerFixture()
	f.rpRepo.On("ListByUser", mock.Anything, uint(7)).Return([]domain.ReadPosition{}, nil)

	status, body := do(t, f.app("7"), fiber.MethodGet, "/unread-messages", "")

	require.Equal(t, fiber.StatusOK, status)
	assert.JSONEq(t, `{"messages":[]}`, string(body))
}

func TestChatHandler_AllMessages(t *testing.T) {
	t.Run("someone else's history", func(t *testing.T) {
		f := newHandlerFixture()
		status, _ := do(t, f.app("7"), fiber.MethodGet, "/users/8/all-messages", "")
		assert.Equal(t, fiber.StatusForbidden, status)
	})

	t.Run("invalid id", func(t *testing.T) {
		f := newHandlerFixture()
		status, _ := do(t, f.app("7"), fiber.MethodGet, "/users/abc/all-messages", "")
		assert.Equal(t, fiber.StatusBadRequest, status)
	})

	t.Run("own history ascending", func(t *testing.T) {
		f := newHandlerFixture()
		t1 := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
		f.memberRepo.On("FindUser", mock.Anything, uint(7)).Return(&domain.User{ID: 7}, nil)
		f.memberRepo.On("ListGroupIDsForUser", mock.Anything, uint(7)).Return([]uint{9}, nil)
		f.groupRepo.On("ListChatsForGroups", mock.Anything, []uint{9}).Return([]domain.Chat{{ID: 1}, {ID: 2}}, nil)
		f.msgRepo.On("ListByChats", mock.Anything, []uint{1, 2}).Return([]domain.Message{
			{ID: 4, ChatID: 2, CreatedAt: t1.Add(time.Minute)},
			{ID: 3, ChatID: 1, CreatedAt: t1},
		}, nil)

		status, body := do(t, f.app("7"), fiber.MethodGet, "/users/7/all-messages", "")

		require.Equal(t, fiber.StatusOK, status)
		var msgs []domain.Message
		require.NoError(t, json.Unmarshal(body, &msgs))
		require.Len(t, msgs, 2)
		assert.Equal(t, uint(3), msgs[0].ID)
		assert.Equal(t, uint(4), msgs[1].ID)
	})
}

func TestChatHandler_Groups(t *testing.T) {
	t.Run("add member to unknown group", func(t *testing.T) {
		f := newHandlerFixture()
		f.memberRepo.On("IsMember", mock.Anything, uint(4), uint(7)).Return(false, nil)
		f.groupRepo.On("FindGroup", mock.Anything, uint(4)).Return(nil, domain.NewNotFound("group", 4))

		status, _ := do(t, f.app("7"), fiber.MethodPost, "/groups/4/members", `{"userId":8}`)
		assert.Equal(t, fiber.StatusNotFound, status)
	})

	t.Run("create group anonymous", func(t *testing.T) {
		f := newHandlerFixture()
		status, _ := do(t, f.app(""), fiber.MethodPost, "/groups", `{"name":"band"}`)
		assert.Equal(t, fiber.StatusUnauthorized, status)
	})
}

func TestChatHandler_EventsWithoutJournal(t *testing.T) {
	f := newHandlerFixture()
	status, _ := do(t, f.app("7"), fiber.MethodGet, "/events", "")
	assert.Equal(t, fiber.StatusNotFound, status)
}

type fakeJournal struct {
	since  time.Time
	limit  int64
	events []domain.Event
}

func (j *fakeJournal) Publish(context.Context, domain.Event) error { return nil }

func (j *fakeJournal) ListSince(_ context.Context, userID uint, since time.Time, limit int64) ([]domain.Event, error) {
	j.since, j.limit = since, limit
	return j.events, nil
}

func TestChatHandler_Events(t *testing.T) {
	f := newHandlerFixture()
	journal := &fakeJournal{events: []domain.Event{{ID: "e1", Name: domain.EventNewMessage, ChatID: 3}}}
	f.handler.journal = journal

	status, body := do(t, f.app("7"), fiber.MethodGet, "/events?since=2024-01-01T10:00:00Z&limit=5", "")

	require.Equal(t, fiber.StatusOK, status, string(body))
	assert.Contains(t, string(body), `"e1"`)
	assert.Equal(t, int64(5), journal.limit)
	assert.True(t, journal.since.Equal(time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)))

	status, _ = do(t, f.app("7"), fiber.MethodGet, "/events?since=yesterday", "")
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestWebsocketHandler_Dispatch(t *testing.T) {
	f := newHandlerFixture()
	ws := NewWebsocketHandler(f.handler.messageUC, f.handler.readPositionUC, f.handler.unreadUC, nil)
	ctx := context.Background()

	t.Run("unknown action", func(t *testing.T) {
		resp := ws.Dispatch(ctx, 7, []byte(`{"action":"dance"}`))
		assert.False(t, resp.Success)
		assert.Equal(t, "unknown action", resp.Error)
	})

	t.Run("malformed frame", func(t *testing.T) {
		resp := ws.Dispatch(ctx, 7, []byte(`{`))
		assert.Equal(t, "error", resp.Action)
		assert.False(t, resp.Success)
	})

	t.Run("get unread", func(t *testing.T) {
		f.rpRepo.On("ListByUser", mock.Anything, uint(7)).Return([]domain.ReadPosition{}, nil).Once()
		resp := ws.Dispatch(ctx, 7, []byte(`{"action":"get_unread"}`))
		assert.True(t, resp.Success)
		assert.Equal(t, []domain.Message{}, resp.Payload["messages"])
	})

	t.Run("read message hides store errors", func(t *testing.T) {
		f.msgRepo.On("FindByID", mock.Anything, uint(11)).Return(nil, errors.New("dial tcp: refused")).Once()
		resp := ws.Dispatch(ctx, 7, []byte(`{"action":"read_message","message_id":11}`))
		assert.False(t, resp.Success)
		assert.Equal(t, "internal error", resp.Error)
	})
}
