package handlers

import (
	"github.com/gofiber/fiber/v2"
)

// CreateGroupRequest body of POST /groups
type CreateGroupRequest struct {
	Name      string `json:"name"`
	MemberIDs []uint `json:"memberIds"`
}

// CreateChatRequest body of POST /groups/{id}/chats
type CreateChatRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// AddMemberRequest body of POST /groups/{id}/members
type AddMemberRequest struct {
	UserID uint `json:"userId"`
}

// DirectMessageRequest body of POST /direct-messages
type DirectMessageRequest struct {
	FriendID uint `json:"friendId"`
}

// CreateGroup 建立群組
// @Summary Create a group with the caller as member
// @Tags Groups
// @Accept json
// @Produce json
// @Param request body CreateGroupRequest true "group"
// @Success 201 {object} domain.Group
// @Router /groups [post]
func (h *ChatHandler) CreateGroup(c *fiber.Ctx) error {
	var req CreateGroupRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request")
	}
	g, err := h.groupUC.CreateGroup(c.UserContext(), actingUser(c), req.Name, req.MemberIDs)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(g)
}

// CreateChat 建立聊天室
// @Summary Create a chat in a group
// @Tags Groups
// @Accept json
// @Produce json
// @Param id path int true "group id"
// @Param request body CreateChatRequest true "chat"
// @Success 201 {object} domain.Chat
// @Router /groups/{id}/chats [post]
func (h *ChatHandler) CreateChat(c *fiber.Ctx) error {
	groupID, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	var req CreateChatRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request")
	}
	chat, err := h.groupUC.CreateChat(c.UserContext(), actingUser(c), groupID, req.Name, req.Description)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(chat)
}

// AddMember 加入成員
// @Summary Add a user to a group
// @Tags Groups
// @Accept json
// @Param id path int true "group id"
// @Param request body AddMemberRequest true "member"
// @Success 204
// @Router /groups/{id}/members [post]
func (h *ChatHandler) AddMember(c *fiber.Ctx) error {
	groupID, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	var req AddMemberRequest
	if err := c.BodyParser(&req); err != nil || req.UserID == 0 {
		return badRequest(c, "userId is required")
	}
	if err := h.groupUC.AddMember(c.UserContext(), actingUser(c), groupID, req.UserID); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListMembers 群組成員
// @Summary Member ids of a group
// @Tags Groups
// @Produce json
// @Param id path int true "group id"
// @Success 200 {array} int
// @Router /groups/{id}/members [get]
func (h *ChatHandler) ListMembers(c *fiber.Ctx) error {
	groupID, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	ids, err := h.groupUC.ListMemberIDs(c.UserContext(), actingUser(c), groupID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(ids)
}

// CreateDirectMessage 建立 1對1 群組
// @Summary Open (or fetch) the direct message group with a friend
// @Tags Groups
// @Accept json
// @Produce json
// @Param request body DirectMessageRequest true "friend"
// @Success 200 {object} domain.Group
// @Router /direct-messages [post]
func (h *ChatHandler) CreateDirectMessage(c *fiber.Ctx) error {
	var req DirectMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request")
	}
	g, err := h.groupUC.CreateDirectMessageGroup(c.UserContext(), actingUser(c), req.FriendID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(g)
}
