package repository

import (
	"context"
	"time"

	"github.com/beckernir/AUCA-HR/internal/model"
	"github.com/beckernir/AUCA-HR/prometheus"
	"gorm.io/gorm"
)

// LeaveRepository is the data-access contract for leave requests
type LeaveRepository interface {
	Create(ctx context.Context, request *model.LeaveRequest) error
	Save(ctx context.Context, request *model.LeaveRequest) error
	FindByID(ctx context.Context, id uint) (*model.LeaveRequest, error)
	FindByRequester(ctx context.Context, requesterID uint) ([]model.LeaveRequest, error)
	FindAll(ctx context.Context) ([]model.LeaveRequest, error)
	FindByStatus(ctx context.Context, status model.LeaveStatus) ([]model.LeaveRequest, error)
	CountByStatus(ctx context.Context, status model.LeaveStatus) (int64, error)
	// FindOverlappingApproved returns the requester's APPROVED requests whose
	// inclusive date range intersects [start, end].
	FindOverlappingApproved(ctx context.Context, requesterID uint, start, end time.Time) ([]model.LeaveRequest, error)
	// FindApprovedInRange returns the requester's APPROVED requests that
	// intersect the given window, used for annual quota accounting.
	FindApprovedInRange(ctx context.Context, requesterID uint, start, end time.Time) ([]model.LeaveRequest, error)
	Search(ctx context.Context, term string) ([]model.LeaveRequest, error)
}

type leaveRepository struct {
	db *gorm.DB
}

// NewLeaveRepository creates a GORM-backed leave request repository
func NewLeaveRepository(db *gorm.DB) LeaveRepository {
	return &leaveRepository{db: db}
}

func (r *leaveRepository) Create(ctx context.Context, request *model.LeaveRequest) error {
	defer prometheus.TrackDBOperation("insert")(time.Now())
	return r.db.WithContext(ctx).Create(request).Error
}

func (r *leaveRepository) Save(ctx context.Context, request *model.LeaveRequest) error {
	defer prometheus.TrackDBOperation("update")(time.Now())
	return r.db.WithContext(ctx).Save(request).Error
}

func (r *leaveRepository) FindByID(ctx context.Context, id uint) (*model.LeaveRequest, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())
	var request model.LeaveRequest
	if err := r.db.WithContext(ctx).
		Preload("Requester").
		Preload("Approver").
		First(&request, id).Error; err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *leaveRepository) FindByRequester(ctx context.Context, requesterID uint) ([]model.LeaveRequest, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())
	var requests []model.LeaveRequest
	if err := r.db.WithContext(ctx).
		Preload("Requester").
		Preload("Approver").
		Where("requester_id = ?", requesterID).
		Order("created_at DESC").
		Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *leaveRepository) FindAll(ctx context.Context) ([]model.LeaveRequest, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())
	var requests []model.LeaveRequest
	if err := r.db.WithContext(ctx).
		Preload("Requester").
		Preload("Approver").
		Order("created_at DESC").
		Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *leaveRepository) FindByStatus(ctx context.Context, status model.LeaveStatus) ([]model.LeaveRequest, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())
	var requests []model.LeaveRequest
	if err := r.db.WithContext(ctx).
		Preload("Requester").
		Where("status = ?", status).
		Order("created_at DESC").
		Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *leaveRepository) CountByStatus(ctx context.Context, status model.LeaveStatus) (int64, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&model.LeaveRequest{}).
		Where("status = ?", status).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *leaveRepository) FindOverlappingApproved(ctx context.Context, requesterID uint, start, end time.Time) ([]model.LeaveRequest, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())
	var requests []model.LeaveRequest
	if err := r.db.WithContext(ctx).
		Where("requester_id = ? AND status = ? AND start_date <= ? AND end_date >= ?",
			requesterID, model.LeaveApproved, end, start).
		Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *leaveRepository) FindApprovedInRange(ctx context.Context, requesterID uint, start, end time.Time) ([]model.LeaveRequest, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())
	var requests []model.LeaveRequest
	if err := r.db.WithContext(ctx).
		Where("requester_id = ? AND status = ? AND start_date <= ? AND end_date >= ?",
			requesterID, model.LeaveApproved, end, start).
		Order("start_date").
		Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *leaveRepository) Search(ctx context.Context, term string) ([]model.LeaveRequest, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())
	var requests []model.LeaveRequest
	pattern := "%" + term + "%"
	if err := r.db.WithContext(ctx).
		Preload("Requester").
		Joins("JOIN users ON users.id = leave_requests.requester_id").
		Where("users.full_names ILIKE ? OR leave_requests.reason ILIKE ?", pattern, pattern).
		Order("leave_requests.created_at DESC").
		Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}
