package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/beckernir/AUCA-HR/internal/model"
	"github.com/beckernir/AUCA-HR/internal/realtime"
	"github.com/beckernir/AUCA-HR/internal/repository"
	"github.com/beckernir/AUCA-HR/pkg/apperror"
	"github.com/beckernir/AUCA-HR/pkg/logger"
	"github.com/beckernir/AUCA-HR/prometheus"
	"go.uber.org/zap"
)

// NotificationService persists notifications and pushes them over the
// realtime hub. The persisted row is the durable source of truth; the push is
// best-effort and failures are only logged.
type NotificationService struct {
	notifications repository.NotificationRepository
	users         repository.UserRepository
	hub           *realtime.Hub
}

// NewNotificationService creates the notification dispatch/read service
func NewNotificationService(notifications repository.NotificationRepository, users repository.UserRepository, hub *realtime.Hub) *NotificationService {
	return &NotificationService{
		notifications: notifications,
		users:         users,
		hub:           hub,
	}
}

// LeaveSubmitted notifies every active HR user of a new request
func (s *NotificationService) LeaveSubmitted(ctx context.Context, request *model.LeaveRequest, requester *model.User) {
	title := "New Leave Request Submitted"
	message := fmt.Sprintf("%s has submitted a new %s request from %s to %s. Reason: %s",
		requester.FullNames,
		leaveTypeLabel(request.LeaveType),
		request.StartDate.Format("2006-01-02"),
		request.EndDate.Format("2006-01-02"),
		request.Reason)

	s.notifyHR(ctx, request, requester, title, message, model.NotificationLeaveSubmitted)
}

// LeaveApproved notifies the requester of the approval
func (s *NotificationService) LeaveApproved(ctx context.Context, request *model.LeaveRequest) {
	approverName := ""
	if request.Approver != nil {
		approverName = request.Approver.FullNames
	}
	title := "Leave Request Approved"
	message := fmt.Sprintf("Your %s request from %s to %s has been approved by %s.",
		leaveTypeLabel(request.LeaveType),
		request.StartDate.Format("2006-01-02"),
		request.EndDate.Format("2006-01-02"),
		approverName)
	if request.HRComments != "" {
		message += " Comments: " + request.HRComments
	}

	s.notifyOne(ctx, request.RequesterID, request.ApproverID, request, title, message, model.NotificationLeaveApproved)
}

// LeaveRejected notifies the requester of the rejection
func (s *NotificationService) LeaveRejected(ctx context.Context, request *model.LeaveRequest) {
	approverName := ""
	if request.Approver != nil {
		approverName = request.Approver.FullNames
	}
	title := "Leave Request Rejected"
	message := fmt.Sprintf("Your %s request from %s to %s has been rejected by %s.",
		leaveTypeLabel(request.LeaveType),
		request.StartDate.Format("2006-01-02"),
		request.EndDate.Format("2006-01-02"),
		approverName)
	if request.HRComments != "" {
		message += " Reason: " + request.HRComments
	}

	s.notifyOne(ctx, request.RequesterID, request.ApproverID, request, title, message, model.NotificationLeaveRejected)
}

// LeaveCancelled notifies every active HR user of the cancellation
func (s *NotificationService) LeaveCancelled(ctx context.Context, request *model.LeaveRequest, requester *model.User) {
	title := "Leave Request Cancelled"
	message := fmt.Sprintf("%s has cancelled their %s request from %s to %s.",
		requester.FullNames,
		leaveTypeLabel(request.LeaveType),
		request.StartDate.Format("2006-01-02"),
		request.EndDate.Format("2006-01-02"))

	s.notifyHR(ctx, request, requester, title, message, model.NotificationLeaveCancelled)
}

func (s *NotificationService) notifyHR(ctx context.Context, request *model.LeaveRequest, sender *model.User,
	title, message string, notificationType model.NotificationType) {
	log := logger.FromContext(ctx)

	hrUsers, err := s.users.FindActiveByRole(ctx, model.RoleHR)
	if err != nil {
		log.Error("Failed to load HR users for notification", zap.Error(err))
		return
	}

	for i := range hrUsers {
		s.dispatch(ctx, hrUsers[i].ID, &sender.ID, request, title, message, notificationType)
	}

	log.Info("Notifications sent to HR users",
		zap.Int("count", len(hrUsers)),
		zap.Uint("leave_request_id", request.ID))
}

func (s *NotificationService) notifyOne(ctx context.Context, recipientID uint, senderID *uint,
	request *model.LeaveRequest, title, message string, notificationType model.NotificationType) {
	s.dispatch(ctx, recipientID, senderID, request, title, message, notificationType)
}

// dispatch persists one notification and pushes it. Persistence failures are
// logged, not propagated: a missing notification must not fail the workflow
// transition that produced it.
func (s *NotificationService) dispatch(ctx context.Context, recipientID uint, senderID *uint,
	request *model.LeaveRequest, title, message string, notificationType model.NotificationType) {
	log := logger.FromContext(ctx)

	notification := model.Notification{
		RecipientID:    recipientID,
		SenderID:       senderID,
		LeaveRequestID: &request.ID,
		Type:           notificationType,
		Title:          title,
		Message:        message,
	}

	if err := s.notifications.Create(ctx, &notification); err != nil {
		log.Error("Failed to persist notification",
			zap.Uint("recipient_id", recipientID),
			zap.Error(err))
		return
	}
	prometheus.NotificationCreatedCounter.Inc()

	delivered := s.hub.SendToUser(recipientID, realtime.Event{
		Event:   "notification",
		Payload: notificationToDTO(&notification),
	})
	if delivered {
		prometheus.NotificationPushCounter.WithLabelValues("delivered").Inc()
	} else {
		prometheus.NotificationPushCounter.WithLabelValues("offline").Inc()
	}
}

// ListForUser returns all of a user's notifications, newest first
func (s *NotificationService) ListForUser(ctx context.Context, userID uint) ([]NotificationDTO, error) {
	notifications, err := s.notifications.FindByRecipient(ctx, userID)
	if err != nil {
		return nil, err
	}
	return notificationsToDTOs(notifications), nil
}

// UnreadForUser returns a user's unread notifications, newest first
func (s *NotificationService) UnreadForUser(ctx context.Context, userID uint) ([]NotificationDTO, error) {
	notifications, err := s.notifications.FindUnreadByRecipient(ctx, userID)
	if err != nil {
		return nil, err
	}
	return notificationsToDTOs(notifications), nil
}

// UnreadCount returns the number of unread notifications for a user
func (s *NotificationService) UnreadCount(ctx context.Context, userID uint) (int64, error) {
	return s.notifications.CountUnreadByRecipient(ctx, userID)
}

// MarkRead flips the read flag on one of the caller's own notifications
func (s *NotificationService) MarkRead(ctx context.Context, notificationID, userID uint) (NotificationDTO, error) {
	notification, err := s.notifications.FindByID(ctx, notificationID)
	if err != nil {
		if isNotFound(err) {
			return NotificationDTO{}, apperror.New(apperror.CodeNotFound, "notification not found")
		}
		return NotificationDTO{}, err
	}

	if notification.RecipientID != userID {
		return NotificationDTO{}, apperror.New(apperror.CodeAuthorization, "you can only mark your own notifications as read")
	}

	notification.MarkAsRead()
	if err := s.notifications.Save(ctx, notification); err != nil {
		return NotificationDTO{}, err
	}

	return notificationToDTO(notification), nil
}

// MarkAllRead flips the read flag on all of the user's unread notifications
func (s *NotificationService) MarkAllRead(ctx context.Context, userID uint) error {
	return s.notifications.MarkAllReadByRecipient(ctx, userID)
}

// DeleteRead removes all of the user's already-read notifications
func (s *NotificationService) DeleteRead(ctx context.Context, userID uint) error {
	return s.notifications.DeleteReadByRecipient(ctx, userID)
}

func notificationToDTO(notification *model.Notification) NotificationDTO {
	dto := NotificationDTO{
		ID:             notification.ID,
		RecipientID:    notification.RecipientID,
		SenderID:       notification.SenderID,
		LeaveRequestID: notification.LeaveRequestID,
		Type:           notification.Type,
		Title:          notification.Title,
		Message:        notification.Message,
		Read:           notification.Read,
		CreatedAt:      notification.CreatedAt,
		ReadAt:         notification.ReadAt,
	}
	if notification.Sender != nil {
		dto.SenderName = notification.Sender.FullNames
	}
	return dto
}

func notificationsToDTOs(notifications []model.Notification) []NotificationDTO {
	dtos := make([]NotificationDTO, 0, len(notifications))
	for i := range notifications {
		dtos = append(dtos, notificationToDTO(&notifications[i]))
	}
	return dtos
}

// leaveTypeLabel renders "ANNUAL" as "annual", "SICK" as "sick" etc. for
// notification text
func leaveTypeLabel(t model.LeaveType) string {
	return strings.ToLower(strings.ReplaceAll(string(t), "_", " "))
}
