package handler

import (
	"net/http"

	"github.com/beckernir/AUCA-HR/internal/middleware"
	"github.com/beckernir/AUCA-HR/internal/service"
	"github.com/beckernir/AUCA-HR/pkg/apperror"
	"github.com/labstack/echo/v4"
)

// ChatHandler exposes the chat history REST surface. Live delivery happens
// over the websocket hub.
type ChatHandler struct {
	chat service.ChatManager
}

// NewChatHandler creates the chat handler
func NewChatHandler(chat service.ChatManager) *ChatHandler {
	return &ChatHandler{chat: chat}
}

type sendMessageRequest struct {
	RecipientID *uint  `json:"recipient_id"`
	ChatRoom    string `json:"chat_room"`
	Content     string `json:"content" validate:"required"`
}

// Send handles POST /api/v1/chat/messages. Exactly one of recipient_id and
// chat_room selects private versus group delivery.
func (h *ChatHandler) Send(c echo.Context) error {
	claims := middleware.CurrentUser(c)

	var req sendMessageRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "content is required"})
	}

	switch {
	case req.RecipientID != nil && req.ChatRoom != "":
		return respondError(c, apperror.New(apperror.CodeValidation, "specify either recipient_id or chat_room, not both"))
	case req.RecipientID != nil:
		message, err := h.chat.SendPrivate(requestContext(c), claims.UserID, *req.RecipientID, req.Content)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusCreated, message)
	case req.ChatRoom != "":
		message, err := h.chat.SendGroup(requestContext(c), claims.UserID, req.ChatRoom, req.Content)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusCreated, message)
	default:
		return respondError(c, apperror.New(apperror.CodeValidation, "recipient_id or chat_room is required"))
	}
}

// PrivateConversation handles GET /api/v1/chat/conversation/private/:id
func (h *ChatHandler) PrivateConversation(c echo.Context) error {
	otherID, err := parseUintParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	claims := middleware.CurrentUser(c)

	messages, err := h.chat.PrivateConversation(requestContext(c), claims.UserID, otherID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, messages)
}

// GroupConversation handles GET /api/v1/chat/conversation/group/:room
func (h *ChatHandler) GroupConversation(c echo.Context) error {
	room := c.Param("room")
	if room == "" {
		return respondError(c, apperror.New(apperror.CodeValidation, "chat room is required"))
	}

	messages, err := h.chat.GroupConversation(requestContext(c), room)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, messages)
}

// Partners handles GET /api/v1/chat/partners
func (h *ChatHandler) Partners(c echo.Context) error {
	claims := middleware.CurrentUser(c)

	partners, err := h.chat.ConversationPartners(requestContext(c), claims.UserID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, partners)
}

// UnreadCount handles GET /api/v1/chat/unread/count
func (h *ChatHandler) UnreadCount(c echo.Context) error {
	claims := middleware.CurrentUser(c)

	count, err := h.chat.UnreadCount(requestContext(c), claims.UserID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"count": count})
}

// UnreadCountFromSender handles GET /api/v1/chat/unread/sender/:senderId
func (h *ChatHandler) UnreadCountFromSender(c echo.Context) error {
	senderID, err := parseUintParam(c, "senderId")
	if err != nil {
		return respondError(c, err)
	}
	claims := middleware.CurrentUser(c)

	count, err := h.chat.UnreadCountFromSender(requestContext(c), claims.UserID, senderID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"count": count})
}

// MarkConversationRead handles PUT /api/v1/chat/messages/read/:senderId
func (h *ChatHandler) MarkConversationRead(c echo.Context) error {
	senderID, err := parseUintParam(c, "senderId")
	if err != nil {
		return respondError(c, err)
	}
	claims := middleware.CurrentUser(c)

	if err := h.chat.MarkConversationRead(requestContext(c), claims.UserID, senderID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "conversation marked read"})
}

// Delete handles DELETE /api/v1/chat/messages/:id
func (h *ChatHandler) Delete(c echo.Context) error {
	messageID := c.Param("id")
	if messageID == "" {
		return respondError(c, apperror.New(apperror.CodeValidation, "message id is required"))
	}
	claims := middleware.CurrentUser(c)

	if err := h.chat.Delete(requestContext(c), messageID, claims.UserID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "message deleted"})
}
