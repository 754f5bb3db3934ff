package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/beckernir/AUCA-HR/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// In-memory repository stubs backing the service tests.

type stubUserRepo struct {
	users  map[uint]*model.User
	nextID uint
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[uint]*model.User), nextID: 1}
}

func (r *stubUserRepo) add(user model.User) *model.User {
	if user.ID == 0 {
		user.ID = r.nextID
	}
	if user.ID >= r.nextID {
		r.nextID = user.ID + 1
	}
	stored := user
	r.users[stored.ID] = &stored
	return &stored
}

func (r *stubUserRepo) Create(_ context.Context, user *model.User) error {
	user.ID = r.nextID
	r.nextID++
	stored := *user
	r.users[user.ID] = &stored
	return nil
}

func (r *stubUserRepo) Save(_ context.Context, user *model.User) error {
	stored := *user
	r.users[user.ID] = &stored
	return nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id uint) (*model.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copy := *user
	return &copy, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			copy := *user
			return &copy, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepo) FindByNationalID(_ context.Context, nationalID string) (*model.User, error) {
	for _, user := range r.users {
		if user.NationalID == nationalID {
			copy := *user
			return &copy, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepo) FindByPhoneNumber(_ context.Context, phone string) (*model.User, error) {
	for _, user := range r.users {
		if user.PhoneNumber == phone {
			copy := *user
			return &copy, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepo) FindAll(_ context.Context) ([]model.User, error) {
	out := make([]model.User, 0, len(r.users))
	for _, user := range r.users {
		out = append(out, *user)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubUserRepo) FindActiveByRole(_ context.Context, role model.UserRole) ([]model.User, error) {
	var out []model.User
	for _, user := range r.users {
		if user.Role == role && user.Active {
			out = append(out, *user)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubUserRepo) FindByIDs(_ context.Context, ids []uint) ([]model.User, error) {
	var out []model.User
	for _, id := range ids {
		if user, ok := r.users[id]; ok {
			out = append(out, *user)
		}
	}
	return out, nil
}

func (r *stubUserRepo) Delete(_ context.Context, id uint) error {
	delete(r.users, id)
	return nil
}

type stubLeaveRepo struct {
	requests map[uint]*model.LeaveRequest
	nextID   uint
}

func newStubLeaveRepo() *stubLeaveRepo {
	return &stubLeaveRepo{requests: make(map[uint]*model.LeaveRequest), nextID: 1}
}

func (r *stubLeaveRepo) add(request model.LeaveRequest) *model.LeaveRequest {
	if request.ID == 0 {
		request.ID = r.nextID
	}
	if request.ID >= r.nextID {
		r.nextID = request.ID + 1
	}
	stored := request
	r.requests[stored.ID] = &stored
	return &stored
}

func (r *stubLeaveRepo) Create(_ context.Context, request *model.LeaveRequest) error {
	request.ID = r.nextID
	r.nextID++
	stored := *request
	r.requests[request.ID] = &stored
	return nil
}

func (r *stubLeaveRepo) Save(_ context.Context, request *model.LeaveRequest) error {
	stored := *request
	r.requests[request.ID] = &stored
	return nil
}

func (r *stubLeaveRepo) FindByID(_ context.Context, id uint) (*model.LeaveRequest, error) {
	request, ok := r.requests[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copy := *request
	return &copy, nil
}

func (r *stubLeaveRepo) FindByRequester(_ context.Context, requesterID uint) ([]model.LeaveRequest, error) {
	var out []model.LeaveRequest
	for _, request := range r.requests {
		if request.RequesterID == requesterID {
			out = append(out, *request)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *stubLeaveRepo) FindAll(_ context.Context) ([]model.LeaveRequest, error) {
	out := make([]model.LeaveRequest, 0, len(r.requests))
	for _, request := range r.requests {
		out = append(out, *request)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *stubLeaveRepo) FindByStatus(_ context.Context, status model.LeaveStatus) ([]model.LeaveRequest, error) {
	var out []model.LeaveRequest
	for _, request := range r.requests {
		if request.Status == status {
			out = append(out, *request)
		}
	}
	return out, nil
}

func (r *stubLeaveRepo) CountByStatus(_ context.Context, status model.LeaveStatus) (int64, error) {
	var count int64
	for _, request := range r.requests {
		if request.Status == status {
			count++
		}
	}
	return count, nil
}

func (r *stubLeaveRepo) FindOverlappingApproved(_ context.Context, requesterID uint, start, end time.Time) ([]model.LeaveRequest, error) {
	var out []model.LeaveRequest
	for _, request := range r.requests {
		if request.RequesterID == requesterID &&
			request.Status == model.LeaveApproved &&
			!request.StartDate.After(end) &&
			!request.EndDate.Before(start) {
			out = append(out, *request)
		}
	}
	return out, nil
}

func (r *stubLeaveRepo) FindApprovedInRange(ctx context.Context, requesterID uint, start, end time.Time) ([]model.LeaveRequest, error) {
	return r.FindOverlappingApproved(ctx, requesterID, start, end)
}

func (r *stubLeaveRepo) Search(_ context.Context, term string) ([]model.LeaveRequest, error) {
	var out []model.LeaveRequest
	for _, request := range r.requests {
		if strings.Contains(strings.ToLower(request.Reason), strings.ToLower(term)) {
			out = append(out, *request)
		}
	}
	return out, nil
}

// stubNotifier records workflow notifications instead of delivering them
type stubNotifier struct {
	submitted []uint
	approved  []uint
	rejected  []uint
	cancelled []uint
}

func (n *stubNotifier) LeaveSubmitted(_ context.Context, request *model.LeaveRequest, _ *model.User) {
	n.submitted = append(n.submitted, request.ID)
}

func (n *stubNotifier) LeaveApproved(_ context.Context, request *model.LeaveRequest) {
	n.approved = append(n.approved, request.ID)
}

func (n *stubNotifier) LeaveRejected(_ context.Context, request *model.LeaveRequest) {
	n.rejected = append(n.rejected, request.ID)
}

func (n *stubNotifier) LeaveCancelled(_ context.Context, request *model.LeaveRequest, _ *model.User) {
	n.cancelled = append(n.cancelled, request.ID)
}

type stubSessionRepo struct {
	sessions map[string]*model.Session
}

func newStubSessionRepo() *stubSessionRepo {
	return &stubSessionRepo{sessions: make(map[string]*model.Session)}
}

func (r *stubSessionRepo) Create(_ context.Context, session *model.Session) error {
	if session.ID == "" {
		session.ID = fmt.Sprintf("ses_%s", uuid.New().String())
	}
	stored := *session
	r.sessions[session.ID] = &stored
	return nil
}

func (r *stubSessionRepo) Save(_ context.Context, session *model.Session) error {
	stored := *session
	r.sessions[session.ID] = &stored
	return nil
}

func (r *stubSessionRepo) FindByAccessToken(_ context.Context, token string) (*model.Session, error) {
	for _, session := range r.sessions {
		if session.AccessToken == token {
			copy := *session
			return &copy, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubSessionRepo) FindByRefreshToken(_ context.Context, token string) (*model.Session, error) {
	for _, session := range r.sessions {
		if session.RefreshToken == token {
			copy := *session
			return &copy, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubSessionRepo) DeleteExpired(_ context.Context) error {
	for id, session := range r.sessions {
		if session.IsExpired() {
			delete(r.sessions, id)
		}
	}
	return nil
}

type stubNotificationRepo struct {
	notifications map[uint]*model.Notification
	nextID        uint
	failCreate    bool
}

func newStubNotificationRepo() *stubNotificationRepo {
	return &stubNotificationRepo{notifications: make(map[uint]*model.Notification), nextID: 1}
}

func (r *stubNotificationRepo) Create(_ context.Context, notification *model.Notification) error {
	if r.failCreate {
		return fmt.Errorf("insert failed")
	}
	notification.ID = r.nextID
	r.nextID++
	notification.CreatedAt = time.Now()
	stored := *notification
	r.notifications[notification.ID] = &stored
	return nil
}

func (r *stubNotificationRepo) Save(_ context.Context, notification *model.Notification) error {
	stored := *notification
	r.notifications[notification.ID] = &stored
	return nil
}

func (r *stubNotificationRepo) FindByID(_ context.Context, id uint) (*model.Notification, error) {
	notification, ok := r.notifications[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copy := *notification
	return &copy, nil
}

func (r *stubNotificationRepo) FindByRecipient(_ context.Context, recipientID uint) ([]model.Notification, error) {
	var out []model.Notification
	for _, notification := range r.notifications {
		if notification.RecipientID == recipientID {
			out = append(out, *notification)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *stubNotificationRepo) FindUnreadByRecipient(_ context.Context, recipientID uint) ([]model.Notification, error) {
	var out []model.Notification
	for _, notification := range r.notifications {
		if notification.RecipientID == recipientID && !notification.Read {
			out = append(out, *notification)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *stubNotificationRepo) CountUnreadByRecipient(_ context.Context, recipientID uint) (int64, error) {
	var count int64
	for _, notification := range r.notifications {
		if notification.RecipientID == recipientID && !notification.Read {
			count++
		}
	}
	return count, nil
}

func (r *stubNotificationRepo) MarkAllReadByRecipient(_ context.Context, recipientID uint) error {
	now := time.Now()
	for _, notification := range r.notifications {
		if notification.RecipientID == recipientID && !notification.Read {
			notification.Read = true
			notification.ReadAt = &now
		}
	}
	return nil
}

func (r *stubNotificationRepo) DeleteReadByRecipient(_ context.Context, recipientID uint) error {
	for id, notification := range r.notifications {
		if notification.RecipientID == recipientID && notification.Read {
			delete(r.notifications, id)
		}
	}
	return nil
}

type stubChatRepo struct {
	messages map[string]*model.ChatMessage
}

func newStubChatRepo() *stubChatRepo {
	return &stubChatRepo{messages: make(map[string]*model.ChatMessage)}
}

func (r *stubChatRepo) Create(_ context.Context, message *model.ChatMessage) error {
	if message.ID == "" {
		message.ID = uuid.New().String()
	}
	message.CreatedAt = time.Now()
	stored := *message
	r.messages[message.ID] = &stored
	return nil
}

func (r *stubChatRepo) FindByID(_ context.Context, id string) (*model.ChatMessage, error) {
	message, ok := r.messages[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copy := *message
	return &copy, nil
}

func (r *stubChatRepo) FindPrivateConversation(_ context.Context, userID1, userID2 uint) ([]model.ChatMessage, error) {
	var out []model.ChatMessage
	for _, message := range r.messages {
		if message.RecipientID == nil {
			continue
		}
		if (message.SenderID == userID1 && *message.RecipientID == userID2) ||
			(message.SenderID == userID2 && *message.RecipientID == userID1) {
			out = append(out, *message)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *stubChatRepo) FindGroupConversation(_ context.Context, chatRoom string) ([]model.ChatMessage, error) {
	var out []model.ChatMessage
	for _, message := range r.messages {
		if message.ChatRoom == chatRoom {
			out = append(out, *message)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *stubChatRepo) FindConversationPartnerIDs(_ context.Context, userID uint) ([]uint, error) {
	seen := make(map[uint]bool)
	for _, message := range r.messages {
		if message.RecipientID == nil {
			continue
		}
		if message.SenderID == userID {
			seen[*message.RecipientID] = true
		} else if *message.RecipientID == userID {
			seen[message.SenderID] = true
		}
	}
	out := make([]uint, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

func (r *stubChatRepo) CountUnread(_ context.Context, recipientID uint) (int64, error) {
	var count int64
	for _, message := range r.messages {
		if message.RecipientID != nil && *message.RecipientID == recipientID && !message.Read {
			count++
		}
	}
	return count, nil
}

func (r *stubChatRepo) CountUnreadFromSender(_ context.Context, recipientID, senderID uint) (int64, error) {
	var count int64
	for _, message := range r.messages {
		if message.RecipientID != nil && *message.RecipientID == recipientID &&
			message.SenderID == senderID && !message.Read {
			count++
		}
	}
	return count, nil
}

func (r *stubChatRepo) MarkConversationRead(_ context.Context, recipientID, senderID uint) (int64, error) {
	var flipped int64
	now := time.Now()
	for _, message := range r.messages {
		if message.RecipientID != nil && *message.RecipientID == recipientID &&
			message.SenderID == senderID && !message.Read {
			message.Read = true
			message.ReadAt = &now
			flipped++
		}
	}
	return flipped, nil
}

func (r *stubChatRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.messages[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.messages, id)
	return nil
}
