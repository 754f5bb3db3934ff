package repository

import (
	"context"
	"time"

	"github.com/beckernir/AUCA-HR/internal/model"
	"github.com/beckernir/AUCA-HR/prometheus"
	"gorm.io/gorm"
)

// ChatRepository is the data-access contract for chat messages
type ChatRepository interface {
	Create(ctx context.Context, message *model.ChatMessage) error
	FindByID(ctx context.Context, id string) (*model.ChatMessage, error)
	// FindPrivateConversation returns all direct messages exchanged between
	// the two users, oldest first.
	FindPrivateConversation(ctx context.Context, userID1, userID2 uint) ([]model.ChatMessage, error)
	FindGroupConversation(ctx context.Context, chatRoom string) ([]model.ChatMessage, error)
	// FindConversationPartnerIDs returns the ids of every user this user has
	// exchanged direct messages with.
	FindConversationPartnerIDs(ctx context.Context, userID uint) ([]uint, error)
	CountUnread(ctx context.Context, recipientID uint) (int64, error)
	CountUnreadFromSender(ctx context.Context, recipientID, senderID uint) (int64, error)
	// MarkConversationRead flips the read flag on all unread direct messages
	// from sender to recipient and returns how many were flipped.
	MarkConversationRead(ctx context.Context, recipientID, senderID uint) (int64, error)
	Delete(ctx context.Context, id string) error
}

type chatRepository struct {
	db *gorm.DB
}

// NewChatRepository creates a GORM-backed chat message repository
func NewChatRepository(db *gorm.DB) ChatRepository {
	return &chatRepository{db: db}
}

func (r *chatRepository) Create(ctx context.Context, message *model.ChatMessage) error {
	defer prometheus.TrackDBOperation("insert")(time.Now())
	return r.db.WithContext(ctx).Create(message).Error
}

func (r *chatRepository) FindByID(ctx context.Context, id string) (*model.ChatMessage, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())
	var message model.ChatMessage
	if err := r.db.WithContext(ctx).
		Preload("Sender").
		Where("id = ?", id).
		First(&message).Error; err != nil {
		return nil, err
	}
	return &message, nil
}

func (r *chatRepository) FindPrivateConversation(ctx context.Context, userID1, userID2 uint) ([]model.ChatMessage, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())
	var messages []model.ChatMessage
	if err := r.db.WithContext(ctx).
		Preload("Sender").
		Where("(sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?)",
			userID1, userID2, userID2, userID1).
		Order("created_at").
		Find(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}

func (r *chatRepository) FindGroupConversation(ctx context.Context, chatRoom string) ([]model.ChatMessage, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())
	var messages []model.ChatMessage
	if err := r.db.WithContext(ctx).
		Preload("Sender").
		Where("chat_room = ?", chatRoom).
		Order("created_at").
		Find(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}

func (r *chatRepository) FindConversationPartnerIDs(ctx context.Context, userID uint) ([]uint, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())
	var partnerIDs []uint
	if err := r.db.WithContext(ctx).Raw(
		`SELECT DISTINCT CASE WHEN sender_id = ? THEN recipient_id ELSE sender_id END
		 FROM chat_messages
		 WHERE (sender_id = ? OR recipient_id = ?) AND recipient_id IS NOT NULL`,
		userID, userID, userID).Scan(&partnerIDs).Error; err != nil {
		return nil, err
	}
	return partnerIDs, nil
}

func (r *chatRepository) CountUnread(ctx context.Context, recipientID uint) (int64, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&model.ChatMessage{}).
		Where("recipient_id = ? AND read = ?", recipientID, false).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *chatRepository) CountUnreadFromSender(ctx context.Context, recipientID, senderID uint) (int64, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&model.ChatMessage{}).
		Where("recipient_id = ? AND sender_id = ? AND read = ?", recipientID, senderID, false).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *chatRepository) MarkConversationRead(ctx context.Context, recipientID, senderID uint) (int64, error) {
	defer prometheus.TrackDBOperation("update")(time.Now())
	result := r.db.WithContext(ctx).
		Model(&model.ChatMessage{}).
		Where("recipient_id = ? AND sender_id = ? AND read = ?", recipientID, senderID, false).
		Updates(map[string]interface{}{"read": true, "read_at": time.Now()})
	return result.RowsAffected, result.Error
}

func (r *chatRepository) Delete(ctx context.Context, id string) error {
	defer prometheus.TrackDBOperation("delete")(time.Now())
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.ChatMessage{}).Error
}
