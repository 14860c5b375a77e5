package enrollment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/studyhall/lms-backend/internal/domain"
	"github.com/studyhall/lms-backend/internal/platform/logger"
)

type EnrollmentRepo interface {
	Create(ctx context.Context, tx *gorm.DB, enrollments []*domain.Enrollment) ([]*domain.Enrollment, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, enrollmentIDs []uuid.UUID) ([]*domain.Enrollment, error)
	// GetByIDForUpdate locks the enrollment row so progress recomputation
	// and status transitions serialize per enrollment.
	GetByIDForUpdate(ctx context.Context, tx *gorm.DB, enrollmentID uuid.UUID) (*domain.Enrollment, error)
	GetByUserAndCourse(ctx context.Context, tx *gorm.DB, userID, courseID uuid.UUID) (*domain.Enrollment, error)
	GetByCourseID(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) ([]*domain.Enrollment, error)
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*domain.Enrollment, error)
	UpdateProgress(ctx context.Context, tx *gorm.DB, enrollmentID uuid.UUID, progress int) error
	UpdateStatus(ctx context.Context, tx *gorm.DB, enrollmentID uuid.UUID, status string, completedAt *time.Time) error
	DeleteByCourseID(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) error
}

type enrollmentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEnrollmentRepo(db *gorm.DB, baseLog *logger.Logger) EnrollmentRepo {
	return &enrollmentRepo{db: db, log: baseLog.With("repo", "EnrollmentRepo")}
}

func (r *enrollmentRepo) Create(ctx context.Context, tx *gorm.DB, enrollments []*domain.Enrollment) ([]*domain.Enrollment, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(enrollments) == 0 {
		return []*domain.Enrollment{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&enrollments).Error; err != nil {
		return nil, err
	}
	return enrollments, nil
}

func (r *enrollmentRepo) GetByIDs(ctx context.Context, tx *gorm.DB, enrollmentIDs []uuid.UUID) ([]*domain.Enrollment, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*domain.Enrollment
	if len(enrollmentIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", enrollmentIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *enrollmentRepo) GetByIDForUpdate(ctx context.Context, tx *gorm.DB, enrollmentID uuid.UUID) (*domain.Enrollment, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result domain.Enrollment
	if err := transaction.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", enrollmentID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *enrollmentRepo) GetByUserAndCourse(ctx context.Context, tx *gorm.DB, userID, courseID uuid.UUID) (*domain.Enrollment, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result domain.Enrollment
	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *enrollmentRepo) GetByCourseID(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) ([]*domain.Enrollment, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*domain.Enrollment
	if err := transaction.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("enrolled_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *enrollmentRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*domain.Enrollment, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*domain.Enrollment
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("enrolled_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *enrollmentRepo) UpdateProgress(ctx context.Context, tx *gorm.DB, enrollmentID uuid.UUID, progress int) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(ctx).
		Model(&domain.Enrollment{}).
		Where("id = ?", enrollmentID).
		Update("progress", progress).Error
}

func (r *enrollmentRepo) UpdateStatus(ctx context.Context, tx *gorm.DB, enrollmentID uuid.UUID, status string, completedAt *time.Time) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(ctx).
		Model(&domain.Enrollment{}).
		Where("id = ?", enrollmentID).
		Updates(map[string]interface{}{
			"status":       status,
			"completed_at": completedAt,
		}).Error
}

func (r *enrollmentRepo) DeleteByCourseID(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(ctx).
		Where("course_id = ?", courseID).
		Delete(&domain.Enrollment{}).Error
}
