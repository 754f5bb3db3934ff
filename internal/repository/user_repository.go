package repository

import (
	"context"
	"time"

	"github.com/beckernir/AUCA-HR/internal/model"
	"github.com/beckernir/AUCA-HR/prometheus"
	"gorm.io/gorm"
)

// UserRepository is the data-access contract for employee records
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	Save(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id uint) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByNationalID(ctx context.Context, nationalID string) (*model.User, error)
	FindByPhoneNumber(ctx context.Context, phone string) (*model.User, error)
	FindAll(ctx context.Context) ([]model.User, error)
	FindActiveByRole(ctx context.Context, role model.UserRole) ([]model.User, error)
	FindByIDs(ctx context.Context, ids []uint) ([]model.User, error)
	Delete(ctx context.Context, id uint) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a GORM-backed user repository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	defer prometheus.TrackDBOperation("insert")(time.Now())
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) Save(ctx context.Context, user *model.User) error {
	defer prometheus.TrackDBOperation("update")(time.Now())
	return r.db.WithContext(ctx).Save(user).Error
}

func (r *userRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())
	var user model.User
	if err := r.db.WithContext(ctx).
		Preload("Education").
		Preload("WorkExperience").
		First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())
	var user model.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByNationalID(ctx context.Context, nationalID string) (*model.User, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())
	var user model.User
	if err := r.db.WithContext(ctx).Where("national_id = ?", nationalID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByPhoneNumber(ctx context.Context, phone string) (*model.User, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())
	var user model.User
	if err := r.db.WithContext(ctx).Where("phone_number = ?", phone).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindAll(ctx context.Context) ([]model.User, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())
	var users []model.User
	if err := r.db.WithContext(ctx).Order("full_names").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) FindActiveByRole(ctx context.Context, role model.UserRole) ([]model.User, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())
	var users []model.User
	if err := r.db.WithContext(ctx).
		Where("role = ? AND active = ?", role, true).
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) FindByIDs(ctx context.Context, ids []uint) ([]model.User, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())
	var users []model.User
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) Delete(ctx context.Context, id uint) error {
	defer prometheus.TrackDBOperation("delete")(time.Now())
	return r.db.WithContext(ctx).Delete(&model.User{}, id).Error
}
