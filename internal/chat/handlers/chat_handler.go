package handlers

import (
	"encoding/json"
	"errors"
	"time"

	"messaging_service/internal/chat/app"
	"messaging_service/internal/chat/domain"
	"messaging_service/internal/chat/repository"

	"github.com/gofiber/fiber/v2"
)

// ChatHandler 处理 message / read position 相关的 HTTP 请求
type ChatHandler struct {
	messageUC      *app.MessageUseCase
	readPositionUC *app.ReadPositionUseCase
	unreadUC       *app.UnreadUseCase
	groupUC        *app.GroupUseCase
	journal        repository.EventJournal
}

// NewChatHandler create ChatHandler, journal may be nil
func NewChatHandler(
	messageUC *app.MessageUseCase,
	readPositionUC *app.ReadPositionUseCase,
	unreadUC *app.UnreadUseCase,
	groupUC *app.GroupUseCase,
	journal repository.EventJournal,
) *ChatHandler {
	return &ChatHandler{
		messageUC:      messageUC,
		readPositionUC: readPositionUC,
		unreadUC:       unreadUC,
		groupUC:        groupUC,
		journal:        journal,
	}
}

// CreateMessageRequest body of POST /messages
type CreateMessageRequest struct {
	Type   domain.ContentType `json:"type"`
	Data   json.RawMessage    `json:"data"`
	ChatID uint               `json:"chatId"`
}

// UpdateReadPositionRequest body of POST /read-positions
type UpdateReadPositionRequest struct {
	ForMessageID uint `json:"forMessageId"`
}

// UnreadResponse body of GET /unread-messages
type UnreadResponse struct {
	Messages    []domain.Message `json:"messages"`
	FailedChats []uint           `json:"failedChats,omitempty"`
}

// CreateMessage 发送訊息
// @Summary Create a message
// @Tags Messages
// @Accept json
// @Produce json
// @Param request body CreateMessageRequest true "message"
// @Success 201 {object} domain.Message
// @Failure 400 {object} string "invalid content"
// @Failure 403 {object} string "not a member"
// @Failure 404 {object} string "chat not found"
// @Router /messages [post]
func (h *ChatHandler) CreateMessage(c *fiber.Ctx) error {
	var req CreateMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request")
	}
	if req.ChatID == 0 {
		return badRequest(c, "chatId is required")
	}

	msg, err := h.messageUC.CreateMessage(c.UserContext(), actingUser(c), req.Type, req.Data, req.ChatID)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(msg)
}

// UpdateReadPosition 標記已讀
// @Summary Mark a chat read up to a message
// @Tags ReadPositions
// @Accept json
// @Produce json
// @Param request body UpdateReadPositionRequest true "message id"
// @Success 200 {object} domain.ReadPosition
// @Failure 404 {object} string "message not found"
// @Router /read-positions [post]
func (h *ChatHandler) UpdateReadPosition(c *fiber.Ctx) error {
	var req UpdateReadPositionRequest
	if err := c.BodyParser(&req); err != nil || req.ForMessageID == 0 {
		return badRequest(c, "forMessageId is required")
	}

	rp, err := h.readPositionUC.UpdateReadPosition(c.UserContext(), actingUser(c), req.ForMessageID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(rp)
}

// ListReadPositions 目前的已讀位置
// @Summary Current read positions of the caller
// @Tags ReadPositions
// @Produce json
// @Success 200 {array} domain.ReadPosition
// @Router /read-positions [get]
func (h *ChatHandler) ListReadPositions(c *fiber.Ctx) error {
	rps, err := h.readPositionUC.ListReadPositions(c.UserContext(), actingUser(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(rps)
}

// UnreadMessages 未讀訊息
// @Summary Unread messages of the caller
// @Description Chats that failed to load are listed in failedChats, the rest are still returned.
// @Tags Messages
// @Produce json
// @Success 200 {object} UnreadResponse
// @Router /unread-messages [get]
func (h *ChatHandler) UnreadMessages(c *fiber.Ctx) error {
	msgs, err := h.unreadUC.GetUnreadMessages(c.UserContext(), actingUser(c))
	var aggErr *domain.AggregationError
	if err != nil && !errors.As(err, &aggErr) {
		return writeError(c, err)
	}

	resp := UnreadResponse{Messages: msgs}
	if aggErr != nil {
		resp.FailedChats = aggErr.ChatIDs()
	}
	return c.JSON(resp)
}

// AllMessages 所有訊息
// @Summary Every message in every chat of the user, oldest first
// @Tags Messages
// @Produce json
// @Param id path int true "user id"
// @Success 200 {array} domain.Message
// @Failure 403 {object} string "not your history"
// @Router /users/{id}/all-messages [get]
func (h *ChatHandler) AllMessages(c *fiber.Ctx) error {
	userID, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	msgs, err := h.unreadUC.GetAllMessages(c.UserContext(), actingUser(c), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(msgs)
}

// Events 補發錯過的推播
// @Summary Replay push events addressed to the caller
// @Tags Events
// @Produce json
// @Param since query string false "RFC3339 timestamp"
// @Param limit query int false "max events"
// @Success 200 {array} domain.Event
// @Failure 404 {object} string "journal disabled"
// @Router /events [get]
func (h *ChatHandler) Events(c *fiber.Ctx) error {
	if h.journal == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "event journal is disabled"})
	}
	userID := actingUser(c)
	if userID == 0 {
		return writeError(c, domain.ErrAuthenticationRequired)
	}

	var since time.Time
	if raw := c.Query("since"); raw != "" {
		t, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return badRequest(c, "since must be RFC3339")
		}
		since = t
	}

	events, err := h.journal.ListSince(c.UserContext(), userID, since, int64(c.QueryInt("limit", 100)))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(events)
}
