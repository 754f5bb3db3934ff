package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MessageType enumerates chat message payload kinds
type MessageType string

const (
	MessageText MessageType = "TEXT"
)

// ChatMessage is a direct or group text message. A nil RecipientID means the
// message is addressed to ChatRoom instead of a single user. Immutable after
// creation except for read state; only the sender may delete it.
type ChatMessage struct {
	ID          string      `json:"id" gorm:"primaryKey;type:varchar(36)"`
	SenderID    uint        `json:"sender_id" gorm:"index;not null"`
	Sender      *User       `json:"sender,omitempty" gorm:"foreignKey:SenderID"`
	RecipientID *uint       `json:"recipient_id,omitempty" gorm:"index"`
	Recipient   *User       `json:"recipient,omitempty" gorm:"foreignKey:RecipientID"`
	ChatRoom    string      `json:"chat_room,omitempty" gorm:"type:varchar(100);index"`
	Content     string      `json:"content" gorm:"type:varchar(1000);not null"`
	MessageType MessageType `json:"message_type" gorm:"type:varchar(20);default:TEXT"`
	Read        bool        `json:"read" gorm:"default:false"`
	CreatedAt   time.Time   `json:"created_at"`
	ReadAt      *time.Time  `json:"read_at,omitempty"`
}

// BeforeCreate assigns a UUID primary key when none is set
func (m *ChatMessage) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return nil
}
