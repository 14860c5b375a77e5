package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/studyhall/lms-backend/internal/domain"
	"github.com/studyhall/lms-backend/internal/platform/logger"
)

type CourseRepo interface {
	Create(ctx context.Context, tx *gorm.DB, courses []*domain.Course) ([]*domain.Course, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, courseIDs []uuid.UUID) ([]*domain.Course, error)
	List(ctx context.Context, tx *gorm.DB) ([]*domain.Course, error)
	UpdateStatus(ctx context.Context, tx *gorm.DB, courseID uuid.UUID, status string) error
	DeleteByIDs(ctx context.Context, tx *gorm.DB, courseIDs []uuid.UUID) error
}

type courseRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCourseRepo(db *gorm.DB, baseLog *logger.Logger) CourseRepo {
	return &courseRepo{db: db, log: baseLog.With("repo", "CourseRepo")}
}

func (r *courseRepo) Create(ctx context.Context, tx *gorm.DB, courses []*domain.Course) ([]*domain.Course, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(courses) == 0 {
		return []*domain.Course{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&courses).Error; err != nil {
		return nil, err
	}
	return courses, nil
}

func (r *courseRepo) GetByIDs(ctx context.Context, tx *gorm.DB, courseIDs []uuid.UUID) ([]*domain.Course, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*domain.Course
	if len(courseIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", courseIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *courseRepo) List(ctx context.Context, tx *gorm.DB) ([]*domain.Course, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*domain.Course
	if err := transaction.WithContext(ctx).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *courseRepo) UpdateStatus(ctx context.Context, tx *gorm.DB, courseID uuid.UUID, status string) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(ctx).
		Model(&domain.Course{}).
		Where("id = ?", courseID).
		Update("status", status).Error
}

func (r *courseRepo) DeleteByIDs(ctx context.Context, tx *gorm.DB, courseIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(courseIDs) == 0 {
		return nil
	}

	return transaction.WithContext(ctx).
		Where("id IN ?", courseIDs).
		Delete(&domain.Course{}).Error
}
