package repository

import (
	"context"
	"time"

	"github.com/beckernir/AUCA-HR/internal/model"
	"github.com/beckernir/AUCA-HR/prometheus"
	"gorm.io/gorm"
)

// NotificationRepository is the data-access contract for notifications
type NotificationRepository interface {
	Create(ctx context.Context, notification *model.Notification) error
	Save(ctx context.Context, notification *model.Notification) error
	FindByID(ctx context.Context, id uint) (*model.Notification, error)
	FindByRecipient(ctx context.Context, recipientID uint) ([]model.Notification, error)
	FindUnreadByRecipient(ctx context.Context, recipientID uint) ([]model.Notification, error)
	CountUnreadByRecipient(ctx context.Context, recipientID uint) (int64, error)
	MarkAllReadByRecipient(ctx context.Context, recipientID uint) error
	DeleteReadByRecipient(ctx context.Context, recipientID uint) error
}

type notificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository creates a GORM-backed notification repository
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, notification *model.Notification) error {
	defer prometheus.TrackDBOperation("insert")(time.Now())
	return r.db.WithContext(ctx).Create(notification).Error
}

func (r *notificationRepository) Save(ctx context.Context, notification *model.Notification) error {
	defer prometheus.TrackDBOperation("update")(time.Now())
	return r.db.WithContext(ctx).Save(notification).Error
}

func (r *notificationRepository) FindByID(ctx context.Context, id uint) (*model.Notification, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())
	var notification model.Notification
	if err := r.db.WithContext(ctx).First(&notification, id).Error; err != nil {
		return nil, err
	}
	return &notification, nil
}

func (r *notificationRepository) FindByRecipient(ctx context.Context, recipientID uint) ([]model.Notification, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())
	var notifications []model.Notification
	if err := r.db.WithContext(ctx).
		Preload("Sender").
		Where("recipient_id = ?", recipientID).
		Order("created_at DESC").
		Find(&notifications).Error; err != nil {
		return nil, err
	}
	return notifications, nil
}

func (r *notificationRepository) FindUnreadByRecipient(ctx context.Context, recipientID uint) ([]model.Notification, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())
	var notifications []model.Notification
	if err := r.db.WithContext(ctx).
		Preload("Sender").
		Where("recipient_id = ? AND read = ?", recipientID, false).
		Order("created_at DESC").
		Find(&notifications).Error; err != nil {
		return nil, err
	}
	return notifications, nil
}

func (r *notificationRepository) CountUnreadByRecipient(ctx context.Context, recipientID uint) (int64, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&model.Notification{}).
		Where("recipient_id = ? AND read = ?", recipientID, false).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *notificationRepository) MarkAllReadByRecipient(ctx context.Context, recipientID uint) error {
	defer prometheus.TrackDBOperation("update")(time.Now())
	return r.db.WithContext(ctx).
		Model(&model.Notification{}).
		Where("recipient_id = ? AND read = ?", recipientID, false).
		Updates(map[string]interface{}{"read": true, "read_at": time.Now()}).Error
}

func (r *notificationRepository) DeleteReadByRecipient(ctx context.Context, recipientID uint) error {
	defer prometheus.TrackDBOperation("delete")(time.Now())
	return r.db.WithContext(ctx).
		Where("recipient_id = ? AND read = ?", recipientID, true).
		Delete(&model.Notification{}).Error
}
