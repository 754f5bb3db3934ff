package repository

import (
	"context"
	"time"

	"github.com/beckernir/AUCA-HR/internal/model"
	"github.com/beckernir/AUCA-HR/prometheus"
	"gorm.io/gorm"
)

// SessionRepository is the data-access contract for auth sessions
type SessionRepository interface {
	Create(ctx context.Context, session *model.Session) error
	Save(ctx context.Context, session *model.Session) error
	FindByAccessToken(ctx context.Context, token string) (*model.Session, error)
	FindByRefreshToken(ctx context.Context, token string) (*model.Session, error)
	DeleteExpired(ctx context.Context) error
}

type sessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository creates a GORM-backed session repository
func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Create(ctx context.Context, session *model.Session) error {
	defer prometheus.TrackDBOperation("insert")(time.Now())
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *sessionRepository) Save(ctx context.Context, session *model.Session) error {
	defer prometheus.TrackDBOperation("update")(time.Now())
	return r.db.WithContext(ctx).Save(session).Error
}

func (r *sessionRepository) FindByAccessToken(ctx context.Context, token string) (*model.Session, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())
	var session model.Session
	if err := r.db.WithContext(ctx).Where("access_token = ?", token).First(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepository) FindByRefreshToken(ctx context.Context, token string) (*model.Session, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())
	var session model.Session
	if err := r.db.WithContext(ctx).Where("refresh_token = ?", token).First(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepository) DeleteExpired(ctx context.Context) error {
	defer prometheus.TrackDBOperation("delete")(time.Now())
	return r.db.WithContext(ctx).
		Where("refresh_expires_at < ? OR revoked = ?", time.Now(), true).
		Delete(&model.Session{}).Error
}
