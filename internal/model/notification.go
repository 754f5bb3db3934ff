package model

import (
	"time"
)

// NotificationType enumerates what a notification is about
type NotificationType string

const (
	NotificationLeaveSubmitted NotificationType = "LEAVE_REQUEST_SUBMITTED"
	NotificationLeaveApproved  NotificationType = "LEAVE_REQUEST_APPROVED"
	NotificationLeaveRejected  NotificationType = "LEAVE_REQUEST_REJECTED"
	NotificationLeaveCancelled NotificationType = "LEAVE_REQUEST_CANCELLED"
	NotificationChatMessage    NotificationType = "CHAT_MESSAGE"
)

// Notification is addressed to exactly one recipient. Created as a side
// effect of a workflow transition and only ever mutated to toggle read state.
type Notification struct {
	ID             uint             `json:"id" gorm:"primaryKey"`
	RecipientID    uint             `json:"recipient_id" gorm:"index;not null"`
	Recipient      *User            `json:"recipient,omitempty" gorm:"foreignKey:RecipientID"`
	SenderID       *uint            `json:"sender_id,omitempty" gorm:"index"`
	Sender         *User            `json:"sender,omitempty" gorm:"foreignKey:SenderID"`
	LeaveRequestID *uint            `json:"leave_request_id,omitempty" gorm:"index"`
	Type           NotificationType `json:"type" gorm:"type:varchar(40)"`
	Title          string           `json:"title" gorm:"type:varchar(255);not null"`
	Message        string           `json:"message" gorm:"type:varchar(1000)"`
	Read           bool             `json:"read" gorm:"default:false"`
	CreatedAt      time.Time        `json:"created_at"`
	ReadAt         *time.Time       `json:"read_at,omitempty"`
}

// MarkAsRead flips the read flag and stamps the read time
func (n *Notification) MarkAsRead() {
	now := time.Now()
	n.Read = true
	n.ReadAt = &now
}
