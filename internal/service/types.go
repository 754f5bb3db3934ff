package service

import (
	"context"
	"time"

	"github.com/beckernir/AUCA-HR/internal/model"
)

// SubmitLeaveInput carries a new leave application
type SubmitLeaveInput struct {
	LeaveType model.LeaveType
	StartDate time.Time
	EndDate   time.Time
	Reason    string
}

// LeaveRequestDTO is the transfer object returned for leave requests
type LeaveRequestDTO struct {
	ID             uint              `json:"id"`
	RequesterID    uint              `json:"requester_id"`
	RequesterName  string            `json:"requester_name,omitempty"`
	RequesterEmail string            `json:"requester_email,omitempty"`
	LeaveType      model.LeaveType   `json:"leave_type"`
	StartDate      string            `json:"start_date"`
	EndDate        string            `json:"end_date"`
	Reason         string            `json:"reason"`
	Status         model.LeaveStatus `json:"status"`
	ApproverID     *uint             `json:"approver_id,omitempty"`
	ApproverName   string            `json:"approver_name,omitempty"`
	HRComments     string            `json:"hr_comments,omitempty"`
	DurationDays   int               `json:"duration_days"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
	ApprovedAt     *time.Time        `json:"approved_at,omitempty"`
}

// LeaveBalanceDTO reports quota consumption for one user and year
type LeaveBalanceDTO struct {
	UserID        uint `json:"user_id"`
	Year          int  `json:"year"`
	QuotaDays     int  `json:"quota_days"`
	UsedDays      int  `json:"used_days"`
	RemainingDays int  `json:"remaining_days"`
}

// NotificationDTO is the transfer object returned for notifications
type NotificationDTO struct {
	ID             uint                   `json:"id"`
	RecipientID    uint                   `json:"recipient_id"`
	SenderID       *uint                  `json:"sender_id,omitempty"`
	SenderName     string                 `json:"sender_name,omitempty"`
	LeaveRequestID *uint                  `json:"leave_request_id,omitempty"`
	Type           model.NotificationType `json:"type"`
	Title          string                 `json:"title"`
	Message        string                 `json:"message"`
	Read           bool                   `json:"read"`
	CreatedAt      time.Time              `json:"created_at"`
	ReadAt         *time.Time             `json:"read_at,omitempty"`
}

// ChatMessageDTO is the transfer object returned for chat messages
type ChatMessageDTO struct {
	ID          string            `json:"id"`
	SenderID    uint              `json:"sender_id"`
	SenderName  string            `json:"sender_name,omitempty"`
	RecipientID *uint             `json:"recipient_id,omitempty"`
	ChatRoom    string            `json:"chat_room,omitempty"`
	Content     string            `json:"content"`
	MessageType model.MessageType `json:"message_type"`
	Read        bool              `json:"read"`
	CreatedAt   time.Time         `json:"created_at"`
	ReadAt      *time.Time        `json:"read_at,omitempty"`
}

// UserDTO is the transfer object returned for employee records
type UserDTO struct {
	ID              uint                   `json:"id"`
	FullNames       string                 `json:"full_names"`
	Email           string                 `json:"email"`
	NationalID      string                 `json:"national_id"`
	PhoneNumber     string                 `json:"phone_number"`
	Role            model.UserRole         `json:"role"`
	WorkingPosition string                 `json:"working_position"`
	ContractType    model.ContractType     `json:"contract_type"`
	Salary          float64                `json:"salary"`
	TotalAllowances float64                `json:"total_allowances"`
	Active          bool                   `json:"active"`
	Education       []model.Education     `json:"education,omitempty"`
	WorkExperience  []model.WorkExperience `json:"work_experience,omitempty"`
	CreatedAt       time.Time              `json:"created_at"`
}

// AuthTokens is returned by login and refresh
type AuthTokens struct {
	AccessToken  string  `json:"access_token"`
	RefreshToken string  `json:"refresh_token"`
	ExpiresIn    int64   `json:"expires_in"`
	User         UserDTO `json:"user"`
}

// CreateUserInput carries a new employee registration
type CreateUserInput struct {
	FullNames       string
	Email           string
	NationalID      string
	PhoneNumber     string
	DateOfBirth     time.Time
	Gender          model.Gender
	Nationality     string
	Role            model.UserRole
	WorkingPosition string
	ContractType    model.ContractType
	Salary          float64
	TotalAllowances float64
	BankAccount     string
	AccountNumber   string
	Password        string
	Education       []model.Education
	WorkExperience  []model.WorkExperience
}

// UpdateUserInput carries a partial profile update; nil fields are unchanged
type UpdateUserInput struct {
	FullNames       *string
	PhoneNumber     *string
	WorkingPosition *string
	ContractType    *model.ContractType
	Salary          *float64
	TotalAllowances *float64
	BankAccount     *string
	AccountNumber   *string
	Active          *bool
}

// LeaveManager is the leave workflow contract consumed by the HTTP layer
type LeaveManager interface {
	Submit(ctx context.Context, requesterID uint, input SubmitLeaveInput) (LeaveRequestDTO, error)
	Approve(ctx context.Context, requestID, approverID uint, comments string) (LeaveRequestDTO, error)
	Reject(ctx context.Context, requestID, approverID uint, comments string) (LeaveRequestDTO, error)
	Cancel(ctx context.Context, requestID, requesterID uint) (LeaveRequestDTO, error)
	Get(ctx context.Context, requestID uint) (LeaveRequestDTO, error)
	MyRequests(ctx context.Context, requesterID uint) ([]LeaveRequestDTO, error)
	All(ctx context.Context) ([]LeaveRequestDTO, error)
	Pending(ctx context.Context) ([]LeaveRequestDTO, error)
	PendingCount(ctx context.Context) (int64, error)
	Search(ctx context.Context, term string) ([]LeaveRequestDTO, error)
	RemainingBalance(ctx context.Context, userID uint, year int) (LeaveBalanceDTO, error)
}

// NotificationManager is the notification read-model contract
type NotificationManager interface {
	ListForUser(ctx context.Context, userID uint) ([]NotificationDTO, error)
	UnreadForUser(ctx context.Context, userID uint) ([]NotificationDTO, error)
	UnreadCount(ctx context.Context, userID uint) (int64, error)
	MarkRead(ctx context.Context, notificationID, userID uint) (NotificationDTO, error)
	MarkAllRead(ctx context.Context, userID uint) error
	DeleteRead(ctx context.Context, userID uint) error
}

// ChatManager is the chat messaging contract
type ChatManager interface {
	SendPrivate(ctx context.Context, senderID, recipientID uint, content string) (ChatMessageDTO, error)
	SendGroup(ctx context.Context, senderID uint, chatRoom, content string) (ChatMessageDTO, error)
	PrivateConversation(ctx context.Context, userID, otherUserID uint) ([]ChatMessageDTO, error)
	GroupConversation(ctx context.Context, chatRoom string) ([]ChatMessageDTO, error)
	ConversationPartners(ctx context.Context, userID uint) ([]UserDTO, error)
	UnreadCount(ctx context.Context, userID uint) (int64, error)
	UnreadCountFromSender(ctx context.Context, userID, senderID uint) (int64, error)
	MarkConversationRead(ctx context.Context, recipientID, senderID uint) error
	Delete(ctx context.Context, messageID string, callerID uint) error
}

// AuthManager is the auth/session issuance contract
type AuthManager interface {
	Login(ctx context.Context, email, password string) (AuthTokens, error)
	Refresh(ctx context.Context, refreshToken string) (AuthTokens, error)
	Logout(ctx context.Context, accessToken string) error
}

// UserManager is the user directory contract
type UserManager interface {
	Create(ctx context.Context, input CreateUserInput) (UserDTO, error)
	Get(ctx context.Context, id uint) (UserDTO, error)
	List(ctx context.Context) ([]UserDTO, error)
	Update(ctx context.Context, id uint, input UpdateUserInput) (UserDTO, error)
	ChangePassword(ctx context.Context, userID uint, oldPassword, newPassword string) error
	Deactivate(ctx context.Context, id uint) error
}
