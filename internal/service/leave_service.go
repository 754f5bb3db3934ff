package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/beckernir/AUCA-HR/internal/model"
	"github.com/beckernir/AUCA-HR/internal/repository"
	"github.com/beckernir/AUCA-HR/pkg/apperror"
	"github.com/beckernir/AUCA-HR/pkg/logger"
	"github.com/beckernir/AUCA-HR/prometheus"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// LeaveNotifier receives workflow transitions and fans them out to the
// affected users. Implementations must be best-effort: a notifier failure
// never fails the transition that triggered it.
type LeaveNotifier interface {
	LeaveSubmitted(ctx context.Context, request *model.LeaveRequest, requester *model.User)
	LeaveApproved(ctx context.Context, request *model.LeaveRequest)
	LeaveRejected(ctx context.Context, request *model.LeaveRequest)
	LeaveCancelled(ctx context.Context, request *model.LeaveRequest, requester *model.User)
}

// LeaveService implements the leave request workflow: submission with date,
// overlap and quota validation, the approve/reject/cancel state machine, and
// balance accounting.
type LeaveService struct {
	leaves   repository.LeaveRepository
	users    repository.UserRepository
	notifier LeaveNotifier
	quota    int
}

// NewLeaveService creates the workflow service. quotaDays is the fixed annual
// allowance per employee.
func NewLeaveService(leaves repository.LeaveRepository, users repository.UserRepository, notifier LeaveNotifier, quotaDays int) *LeaveService {
	return &LeaveService{
		leaves:   leaves,
		users:    users,
		notifier: notifier,
		quota:    quotaDays,
	}
}

// Submit validates and creates a new PENDING leave request for the requester
// and notifies HR.
func (s *LeaveService) Submit(ctx context.Context, requesterID uint, input SubmitLeaveInput) (LeaveRequestDTO, error) {
	log := logger.FromContext(ctx)

	requester, err := s.users.FindByID(ctx, requesterID)
	if err != nil {
		if isNotFound(err) {
			return LeaveRequestDTO{}, apperror.New(apperror.CodeNotFound, "requester not found")
		}
		return LeaveRequestDTO{}, err
	}

	if !model.ValidLeaveType(input.LeaveType) {
		return LeaveRequestDTO{}, apperror.New(apperror.CodeValidation, "unknown leave type")
	}

	start := dateOnly(input.StartDate)
	end := dateOnly(input.EndDate)

	if err := s.validateDates(start, end); err != nil {
		prometheus.LeaveRejectionCounter.WithLabelValues("bad_dates").Inc()
		return LeaveRequestDTO{}, err
	}

	if err := s.checkOverlap(ctx, requesterID, start, end); err != nil {
		prometheus.LeaveRejectionCounter.WithLabelValues("overlap").Inc()
		return LeaveRequestDTO{}, err
	}

	if err := s.checkAnnualQuota(ctx, requesterID, start, end); err != nil {
		prometheus.LeaveRejectionCounter.WithLabelValues("quota_exceeded").Inc()
		return LeaveRequestDTO{}, err
	}

	request := model.LeaveRequest{
		RequesterID: requesterID,
		LeaveType:   input.LeaveType,
		StartDate:   start,
		EndDate:     end,
		Reason:      input.Reason,
		Status:      model.LeavePending,
	}

	if err := s.leaves.Create(ctx, &request); err != nil {
		return LeaveRequestDTO{}, err
	}
	request.Requester = requester

	prometheus.LeaveSubmittedCounter.Inc()
	s.notifier.LeaveSubmitted(ctx, &request, requester)

	log.Info("Leave request submitted",
		zap.Uint("request_id", request.ID),
		zap.Uint("requester_id", requesterID),
		zap.String("leave_type", string(input.LeaveType)))

	return leaveToDTO(&request), nil
}

// Approve transitions a PENDING request to APPROVED and notifies the requester
func (s *LeaveService) Approve(ctx context.Context, requestID, approverID uint, comments string) (LeaveRequestDTO, error) {
	return s.decide(ctx, requestID, approverID, comments, model.LeaveApproved)
}

// Reject transitions a PENDING request to REJECTED and notifies the requester
func (s *LeaveService) Reject(ctx context.Context, requestID, approverID uint, comments string) (LeaveRequestDTO, error) {
	return s.decide(ctx, requestID, approverID, comments, model.LeaveRejected)
}

func (s *LeaveService) decide(ctx context.Context, requestID, approverID uint, comments string, decision model.LeaveStatus) (LeaveRequestDTO, error) {
	log := logger.FromContext(ctx)

	approver, err := s.users.FindByID(ctx, approverID)
	if err != nil {
		if isNotFound(err) {
			return LeaveRequestDTO{}, apperror.New(apperror.CodeNotFound, "approver not found")
		}
		return LeaveRequestDTO{}, err
	}

	request, err := s.leaves.FindByID(ctx, requestID)
	if err != nil {
		if isNotFound(err) {
			return LeaveRequestDTO{}, apperror.New(apperror.CodeNotFound, "leave request not found")
		}
		return LeaveRequestDTO{}, err
	}

	if request.Status != model.LeavePending {
		return LeaveRequestDTO{}, apperror.New(apperror.CodeState, "leave request is not in pending status")
	}

	now := time.Now()
	request.Status = decision
	request.ApproverID = &approver.ID
	request.Approver = approver
	request.HRComments = comments
	request.ApprovedAt = &now

	if err := s.leaves.Save(ctx, request); err != nil {
		return LeaveRequestDTO{}, err
	}

	prometheus.LeaveTransitionCounter.WithLabelValues(string(decision)).Inc()
	if decision == model.LeaveApproved {
		s.notifier.LeaveApproved(ctx, request)
	} else {
		s.notifier.LeaveRejected(ctx, request)
	}

	log.Info("Leave request decided",
		zap.Uint("request_id", requestID),
		zap.Uint("approver_id", approverID),
		zap.String("status", string(decision)))

	return leaveToDTO(request), nil
}

// Cancel transitions the owner's request to CANCELLED and notifies HR.
// Legal from PENDING or APPROVED; a cancelled request cannot be cancelled again.
func (s *LeaveService) Cancel(ctx context.Context, requestID, requesterID uint) (LeaveRequestDTO, error) {
	log := logger.FromContext(ctx)

	requester, err := s.users.FindByID(ctx, requesterID)
	if err != nil {
		if isNotFound(err) {
			return LeaveRequestDTO{}, apperror.New(apperror.CodeNotFound, "requester not found")
		}
		return LeaveRequestDTO{}, err
	}

	request, err := s.leaves.FindByID(ctx, requestID)
	if err != nil {
		if isNotFound(err) {
			return LeaveRequestDTO{}, apperror.New(apperror.CodeNotFound, "leave request not found")
		}
		return LeaveRequestDTO{}, err
	}

	if request.RequesterID != requesterID {
		return LeaveRequestDTO{}, apperror.New(apperror.CodeAuthorization, "you can only cancel your own leave requests")
	}

	if request.Status == model.LeaveCancelled {
		return LeaveRequestDTO{}, apperror.New(apperror.CodeState, "leave request is already cancelled")
	}

	request.Status = model.LeaveCancelled

	if err := s.leaves.Save(ctx, request); err != nil {
		return LeaveRequestDTO{}, err
	}

	prometheus.LeaveTransitionCounter.WithLabelValues(string(model.LeaveCancelled)).Inc()
	s.notifier.LeaveCancelled(ctx, request, requester)

	log.Info("Leave request cancelled",
		zap.Uint("request_id", requestID),
		zap.Uint("requester_id", requesterID))

	return leaveToDTO(request), nil
}

// Get returns one request by id
func (s *LeaveService) Get(ctx context.Context, requestID uint) (LeaveRequestDTO, error) {
	request, err := s.leaves.FindByID(ctx, requestID)
	if err != nil {
		if isNotFound(err) {
			return LeaveRequestDTO{}, apperror.New(apperror.CodeNotFound, "leave request not found")
		}
		return LeaveRequestDTO{}, err
	}
	return leaveToDTO(request), nil
}

// MyRequests returns the requester's own requests, newest first
func (s *LeaveService) MyRequests(ctx context.Context, requesterID uint) ([]LeaveRequestDTO, error) {
	requests, err := s.leaves.FindByRequester(ctx, requesterID)
	if err != nil {
		return nil, err
	}
	return leavesToDTOs(requests), nil
}

// All returns every leave request, newest first
func (s *LeaveService) All(ctx context.Context) ([]LeaveRequestDTO, error) {
	requests, err := s.leaves.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return leavesToDTOs(requests), nil
}

// Pending returns all PENDING requests, newest first
func (s *LeaveService) Pending(ctx context.Context) ([]LeaveRequestDTO, error) {
	requests, err := s.leaves.FindByStatus(ctx, model.LeavePending)
	if err != nil {
		return nil, err
	}
	return leavesToDTOs(requests), nil
}

// PendingCount returns the number of PENDING requests
func (s *LeaveService) PendingCount(ctx context.Context) (int64, error) {
	return s.leaves.CountByStatus(ctx, model.LeavePending)
}

// Search matches requests by requester name or reason
func (s *LeaveService) Search(ctx context.Context, term string) ([]LeaveRequestDTO, error) {
	requests, err := s.leaves.Search(ctx, term)
	if err != nil {
		return nil, err
	}
	return leavesToDTOs(requests), nil
}

// RemainingBalance returns quota minus the days of APPROVED requests falling
// in the given calendar year. Only the portion of a request inside the year
// counts against that year.
func (s *LeaveService) RemainingBalance(ctx context.Context, userID uint, year int) (LeaveBalanceDTO, error) {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		if isNotFound(err) {
			return LeaveBalanceDTO{}, apperror.New(apperror.CodeNotFound, "user not found")
		}
		return LeaveBalanceDTO{}, err
	}

	used, err := s.usedDaysInYear(ctx, userID, year)
	if err != nil {
		return LeaveBalanceDTO{}, err
	}

	return LeaveBalanceDTO{
		UserID:        userID,
		Year:          year,
		QuotaDays:     s.quota,
		UsedDays:      used,
		RemainingDays: s.quota - used,
	}, nil
}

func (s *LeaveService) validateDates(start, end time.Time) error {
	if start.After(end) {
		return apperror.New(apperror.CodeValidation, "start date cannot be after end date")
	}
	today := dateOnly(time.Now())
	if start.Before(today) {
		return apperror.New(apperror.CodeValidation, "start date cannot be in the past")
	}
	return nil
}

func (s *LeaveService) checkOverlap(ctx context.Context, requesterID uint, start, end time.Time) error {
	overlapping, err := s.leaves.FindOverlappingApproved(ctx, requesterID, start, end)
	if err != nil {
		return err
	}
	if len(overlapping) > 0 {
		return apperror.New(apperror.CodeConflict, "you have overlapping approved leave requests for the selected dates")
	}
	return nil
}

// checkAnnualQuota verifies the request against the allowance of every
// calendar year the range spans.
func (s *LeaveService) checkAnnualQuota(ctx context.Context, requesterID uint, start, end time.Time) error {
	for year := start.Year(); year <= end.Year(); year++ {
		yearStart := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
		yearEnd := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)

		effectiveStart := maxDate(start, yearStart)
		effectiveEnd := minDate(end, yearEnd)
		requestedDays := model.DaysBetween(effectiveStart, effectiveEnd)

		usedDays, err := s.usedDaysInYear(ctx, requesterID, year)
		if err != nil {
			return err
		}

		if usedDays+requestedDays > s.quota {
			remaining := s.quota - usedDays
			return apperror.New(apperror.CodeQuotaExceeded,
				fmt.Sprintf("leave request exceeds annual limit for year %d: %d of %d days remaining",
					year, remaining, s.quota))
		}
	}
	return nil
}

// usedDaysInYear sums the in-year portion of every APPROVED request touching
// the given calendar year.
func (s *LeaveService) usedDaysInYear(ctx context.Context, userID uint, year int) (int, error) {
	yearStart := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	yearEnd := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)

	approved, err := s.leaves.FindApprovedInRange(ctx, userID, yearStart, yearEnd)
	if err != nil {
		return 0, err
	}

	used := 0
	for _, leave := range approved {
		from := maxDate(dateOnly(leave.StartDate), yearStart)
		to := minDate(dateOnly(leave.EndDate), yearEnd)
		used += model.DaysBetween(from, to)
	}
	return used, nil
}

func leaveToDTO(request *model.LeaveRequest) LeaveRequestDTO {
	dto := LeaveRequestDTO{
		ID:           request.ID,
		RequesterID:  request.RequesterID,
		LeaveType:    request.LeaveType,
		StartDate:    request.StartDate.Format("2006-01-02"),
		EndDate:      request.EndDate.Format("2006-01-02"),
		Reason:       request.Reason,
		Status:       request.Status,
		ApproverID:   request.ApproverID,
		HRComments:   request.HRComments,
		DurationDays: request.Duration(),
		CreatedAt:    request.CreatedAt,
		UpdatedAt:    request.UpdatedAt,
		ApprovedAt:   request.ApprovedAt,
	}
	if request.Requester != nil {
		dto.RequesterName = request.Requester.FullNames
		dto.RequesterEmail = request.Requester.Email
	}
	if request.Approver != nil {
		dto.ApproverName = request.Approver.FullNames
	}
	return dto
}

func leavesToDTOs(requests []model.LeaveRequest) []LeaveRequestDTO {
	dtos := make([]LeaveRequestDTO, 0, len(requests))
	for i := range requests {
		dtos = append(dtos, leaveToDTO(&requests[i]))
	}
	return dtos
}

// dateOnly truncates a timestamp to its UTC calendar date
func dateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func maxDate(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func minDate(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
