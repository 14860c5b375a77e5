package enrollment

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/studyhall/lms-backend/internal/domain"
	"github.com/studyhall/lms-backend/internal/platform/logger"
)

type CompletionRepo interface {
	// Create records a lesson completion. Repeat completions of the same
	// (enrollment, lesson) pair are absorbed with ON CONFLICT DO NOTHING so
	// the surrounding transaction stays usable; created reports whether a
	// row was actually inserted.
	Create(ctx context.Context, tx *gorm.DB, completion *domain.LessonCompletion) (created bool, err error)
	GetByEnrollmentID(ctx context.Context, tx *gorm.DB, enrollmentID uuid.UUID) ([]*domain.LessonCompletion, error)
	CountByEnrollmentAndLessons(ctx context.Context, tx *gorm.DB, enrollmentID uuid.UUID, lessonIDs []uuid.UUID) (int64, error)
	DeleteByLessonIDs(ctx context.Context, tx *gorm.DB, lessonIDs []uuid.UUID) error
	DeleteByEnrollmentIDs(ctx context.Context, tx *gorm.DB, enrollmentIDs []uuid.UUID) error
}

type completionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCompletionRepo(db *gorm.DB, baseLog *logger.Logger) CompletionRepo {
	return &completionRepo{db: db, log: baseLog.With("repo", "CompletionRepo")}
}

func (r *completionRepo) Create(ctx context.Context, tx *gorm.DB, completion *domain.LessonCompletion) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	result := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "enrollment_id"}, {Name: "lesson_id"}},
			DoNothing: true,
		}).
		Create(completion)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *completionRepo) GetByEnrollmentID(ctx context.Context, tx *gorm.DB, enrollmentID uuid.UUID) ([]*domain.LessonCompletion, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*domain.LessonCompletion
	if err := transaction.WithContext(ctx).
		Where("enrollment_id = ?", enrollmentID).
		Order("completed_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *completionRepo) CountByEnrollmentAndLessons(ctx context.Context, tx *gorm.DB, enrollmentID uuid.UUID, lessonIDs []uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(lessonIDs) == 0 {
		return 0, nil
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&domain.LessonCompletion{}).
		Where("enrollment_id = ? AND lesson_id IN ?", enrollmentID, lessonIDs).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *completionRepo) DeleteByLessonIDs(ctx context.Context, tx *gorm.DB, lessonIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(lessonIDs) == 0 {
		return nil
	}

	return transaction.WithContext(ctx).
		Where("lesson_id IN ?", lessonIDs).
		Delete(&domain.LessonCompletion{}).Error
}

func (r *completionRepo) DeleteByEnrollmentIDs(ctx context.Context, tx *gorm.DB, enrollmentIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(enrollmentIDs) == 0 {
		return nil
	}

	return transaction.WithContext(ctx).
		Where("enrollment_id IN ?", enrollmentIDs).
		Delete(&domain.LessonCompletion{}).Error
}
