package service

import (
	"context"
	"strings"

	"github.com/beckernir/AUCA-HR/internal/model"
	"github.com/beckernir/AUCA-HR/internal/realtime"
	"github.com/beckernir/AUCA-HR/internal/repository"
	"github.com/beckernir/AUCA-HR/pkg/apperror"
	"github.com/beckernir/AUCA-HR/pkg/logger"
	"github.com/beckernir/AUCA-HR/prometheus"
	"go.uber.org/zap"
)

// ChatService stores and relays direct/group messages. Persistence is the
// source of truth, the hub push is best-effort.
type ChatService struct {
	messages repository.ChatRepository
	users    repository.UserRepository
	hub      *realtime.Hub
}

// NewChatService creates the chat messaging service
func NewChatService(messages repository.ChatRepository, users repository.UserRepository, hub *realtime.Hub) *ChatService {
	return &ChatService{
		messages: messages,
		users:    users,
		hub:      hub,
	}
}

// SendPrivate persists a direct message and pushes it to both participants
func (s *ChatService) SendPrivate(ctx context.Context, senderID, recipientID uint, content string) (ChatMessageDTO, error) {
	log := logger.FromContext(ctx)

	content = strings.TrimSpace(content)
	if content == "" {
		return ChatMessageDTO{}, apperror.New(apperror.CodeValidation, "message content cannot be empty")
	}

	sender, err := s.users.FindByID(ctx, senderID)
	if err != nil {
		if isNotFound(err) {
			return ChatMessageDTO{}, apperror.New(apperror.CodeNotFound, "sender not found")
		}
		return ChatMessageDTO{}, err
	}

	recipient, err := s.users.FindByID(ctx, recipientID)
	if err != nil {
		if isNotFound(err) {
			return ChatMessageDTO{}, apperror.New(apperror.CodeNotFound, "recipient not found")
		}
		return ChatMessageDTO{}, err
	}

	message := model.ChatMessage{
		SenderID:    senderID,
		Sender:      sender,
		RecipientID: &recipient.ID,
		Content:     content,
		MessageType: model.MessageText,
	}

	if err := s.messages.Create(ctx, &message); err != nil {
		return ChatMessageDTO{}, err
	}

	dto := chatMessageToDTO(&message)
	event := realtime.Event{Event: "message", Payload: dto}
	s.hub.SendToUser(recipient.ID, event)
	// Echo back to the sender so every open client converges
	s.hub.SendToUser(senderID, event)

	prometheus.ChatMessageCounter.WithLabelValues("private").Inc()
	log.Info("Private message sent",
		zap.Uint("sender_id", senderID),
		zap.Uint("recipient_id", recipientID),
		zap.String("message_id", message.ID))

	return dto, nil
}

// SendGroup persists a room message and broadcasts it to subscribers
func (s *ChatService) SendGroup(ctx context.Context, senderID uint, chatRoom, content string) (ChatMessageDTO, error) {
	log := logger.FromContext(ctx)

	content = strings.TrimSpace(content)
	if content == "" {
		return ChatMessageDTO{}, apperror.New(apperror.CodeValidation, "message content cannot be empty")
	}
	if chatRoom == "" {
		return ChatMessageDTO{}, apperror.New(apperror.CodeValidation, "chat room is required")
	}

	sender, err := s.users.FindByID(ctx, senderID)
	if err != nil {
		if isNotFound(err) {
			return ChatMessageDTO{}, apperror.New(apperror.CodeNotFound, "sender not found")
		}
		return ChatMessageDTO{}, err
	}

	message := model.ChatMessage{
		SenderID:    senderID,
		Sender:      sender,
		ChatRoom:    chatRoom,
		Content:     content,
		MessageType: model.MessageText,
	}

	if err := s.messages.Create(ctx, &message); err != nil {
		return ChatMessageDTO{}, err
	}

	dto := chatMessageToDTO(&message)
	s.hub.Broadcast(chatRoom, realtime.Event{Event: "message", Payload: dto})

	prometheus.ChatMessageCounter.WithLabelValues("group").Inc()
	log.Info("Group message sent",
		zap.Uint("sender_id", senderID),
		zap.String("chat_room", chatRoom),
		zap.String("message_id", message.ID))

	return dto, nil
}

// PrivateConversation returns the full direct history between two users
func (s *ChatService) PrivateConversation(ctx context.Context, userID, otherUserID uint) ([]ChatMessageDTO, error) {
	messages, err := s.messages.FindPrivateConversation(ctx, userID, otherUserID)
	if err != nil {
		return nil, err
	}
	return chatMessagesToDTOs(messages), nil
}

// GroupConversation returns the full history of a room
func (s *ChatService) GroupConversation(ctx context.Context, chatRoom string) ([]ChatMessageDTO, error) {
	messages, err := s.messages.FindGroupConversation(ctx, chatRoom)
	if err != nil {
		return nil, err
	}
	return chatMessagesToDTOs(messages), nil
}

// ConversationPartners returns every user the caller has direct history with
func (s *ChatService) ConversationPartners(ctx context.Context, userID uint) ([]UserDTO, error) {
	partnerIDs, err := s.messages.FindConversationPartnerIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(partnerIDs) == 0 {
		return []UserDTO{}, nil
	}

	partners, err := s.users.FindByIDs(ctx, partnerIDs)
	if err != nil {
		return nil, err
	}
	return usersToDTOs(partners), nil
}

// UnreadCount returns the number of unread direct messages addressed to the user
func (s *ChatService) UnreadCount(ctx context.Context, userID uint) (int64, error) {
	return s.messages.CountUnread(ctx, userID)
}

// UnreadCountFromSender returns the unread count from one specific sender
func (s *ChatService) UnreadCountFromSender(ctx context.Context, userID, senderID uint) (int64, error) {
	return s.messages.CountUnreadFromSender(ctx, userID, senderID)
}

// MarkConversationRead flips all unread messages from sender to recipient and
// emits a read receipt back to the sender.
func (s *ChatService) MarkConversationRead(ctx context.Context, recipientID, senderID uint) error {
	log := logger.FromContext(ctx)

	flipped, err := s.messages.MarkConversationRead(ctx, recipientID, senderID)
	if err != nil {
		return err
	}

	if flipped > 0 {
		s.hub.SendToUser(senderID, realtime.Event{
			Event: "read_receipt",
			Payload: map[string]interface{}{
				"reader_id": recipientID,
				"count":     flipped,
			},
		})
	}

	log.Debug("Conversation marked read",
		zap.Uint("recipient_id", recipientID),
		zap.Uint("sender_id", senderID),
		zap.Int64("messages", flipped))

	return nil
}

// Delete removes a message; only its sender may do so
func (s *ChatService) Delete(ctx context.Context, messageID string, callerID uint) error {
	message, err := s.messages.FindByID(ctx, messageID)
	if err != nil {
		if isNotFound(err) {
			return apperror.New(apperror.CodeNotFound, "message not found")
		}
		return err
	}

	if message.SenderID != callerID {
		return apperror.New(apperror.CodeAuthorization, "you can only delete your own messages")
	}

	return s.messages.Delete(ctx, messageID)
}

func chatMessageToDTO(message *model.ChatMessage) ChatMessageDTO {
	dto := ChatMessageDTO{
		ID:          message.ID,
		SenderID:    message.SenderID,
		RecipientID: message.RecipientID,
		ChatRoom:    message.ChatRoom,
		Content:     message.Content,
		MessageType: message.MessageType,
		Read:        message.Read,
		CreatedAt:   message.CreatedAt,
		ReadAt:      message.ReadAt,
	}
	if message.Sender != nil {
		dto.SenderName = message.Sender.FullNames
	}
	return dto
}

func chatMessagesToDTOs(messages []model.ChatMessage) []ChatMessageDTO {
	dtos := make([]ChatMessageDTO, 0, len(messages))
	for i := range messages {
		dtos = append(dtos, chatMessageToDTO(&messages[i]))
	}
	return dtos
}
