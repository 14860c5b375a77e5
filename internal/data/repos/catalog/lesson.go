package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/studyhall/lms-backend/internal/domain"
	"github.com/studyhall/lms-backend/internal/platform/logger"
)

type LessonRepo interface {
	Create(ctx context.Context, tx *gorm.DB, lessons []*domain.Lesson) ([]*domain.Lesson, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, lessonIDs []uuid.UUID) ([]*domain.Lesson, error)
	GetByModuleID(ctx context.Context, tx *gorm.DB, moduleID uuid.UUID) ([]*domain.Lesson, error)
	GetByModuleIDs(ctx context.Context, tx *gorm.DB, moduleIDs []uuid.UUID) ([]*domain.Lesson, error)
	GetByModuleIDForUpdate(ctx context.Context, tx *gorm.DB, moduleID uuid.UUID) ([]*domain.Lesson, error)
	// GetMandatoryByCourseID returns every mandatory lesson of a course across
	// all its modules. This is the denominator of enrollment progress.
	GetMandatoryByCourseID(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) ([]*domain.Lesson, error)
	GetByCourseID(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) ([]*domain.Lesson, error)
	UpdateDisplayOrder(ctx context.Context, tx *gorm.DB, lessonID uuid.UUID, displayOrder int) error
	UpdatePlacement(ctx context.Context, tx *gorm.DB, lessonID, moduleID uuid.UUID, displayOrder int) error
	Update(ctx context.Context, tx *gorm.DB, lesson *domain.Lesson) error
	DeleteByIDs(ctx context.Context, tx *gorm.DB, lessonIDs []uuid.UUID) error
	DeleteByModuleIDs(ctx context.Context, tx *gorm.DB, moduleIDs []uuid.UUID) error
}

type lessonRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLessonRepo(db *gorm.DB, baseLog *logger.Logger) LessonRepo {
	return &lessonRepo{db: db, log: baseLog.With("repo", "LessonRepo")}
}

func (r *lessonRepo) Create(ctx context.Context, tx *gorm.DB, lessons []*domain.Lesson) ([]*domain.Lesson, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(lessons) == 0 {
		return []*domain.Lesson{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&lessons).Error; err != nil {
		return nil, err
	}
	return lessons, nil
}

func (r *lessonRepo) GetByIDs(ctx context.Context, tx *gorm.DB, lessonIDs []uuid.UUID) ([]*domain.Lesson, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*domain.Lesson
	if len(lessonIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", lessonIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *lessonRepo) GetByModuleID(ctx context.Context, tx *gorm.DB, moduleID uuid.UUID) ([]*domain.Lesson, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*domain.Lesson
	if moduleID == uuid.Nil {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("module_id = ?", moduleID).
		Order("display_order ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *lessonRepo) GetByModuleIDs(ctx context.Context, tx *gorm.DB, moduleIDs []uuid.UUID) ([]*domain.Lesson, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*domain.Lesson
	if len(moduleIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("module_id IN ?", moduleIDs).
		Order("module_id, display_order ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *lessonRepo) GetByModuleIDForUpdate(ctx context.Context, tx *gorm.DB, moduleID uuid.UUID) ([]*domain.Lesson, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*domain.Lesson
	if moduleID == uuid.Nil {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("module_id = ?", moduleID).
		Order("display_order ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *lessonRepo) GetMandatoryByCourseID(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) ([]*domain.Lesson, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*domain.Lesson
	if courseID == uuid.Nil {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Joins("JOIN course_module ON course_module.id = lesson.module_id").
		Where("course_module.course_id = ? AND lesson.is_mandatory = ?", courseID, true).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *lessonRepo) GetByCourseID(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) ([]*domain.Lesson, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*domain.Lesson
	if courseID == uuid.Nil {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Joins("JOIN course_module ON course_module.id = lesson.module_id").
		Where("course_module.course_id = ?", courseID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *lessonRepo) UpdateDisplayOrder(ctx context.Context, tx *gorm.DB, lessonID uuid.UUID, displayOrder int) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(ctx).
		Model(&domain.Lesson{}).
		Where("id = ?", lessonID).
		Update("display_order", displayOrder).Error
}

func (r *lessonRepo) UpdatePlacement(ctx context.Context, tx *gorm.DB, lessonID, moduleID uuid.UUID, displayOrder int) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(ctx).
		Model(&domain.Lesson{}).
		Where("id = ?", lessonID).
		Updates(map[string]interface{}{
			"module_id":     moduleID,
			"display_order": displayOrder,
		}).Error
}

func (r *lessonRepo) Update(ctx context.Context, tx *gorm.DB, lesson *domain.Lesson) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if lesson == nil {
		return nil
	}

	return transaction.WithContext(ctx).Save(lesson).Error
}

func (r *lessonRepo) DeleteByIDs(ctx context.Context, tx *gorm.DB, lessonIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(lessonIDs) == 0 {
		return nil
	}

	return transaction.WithContext(ctx).
		Where("id IN ?", lessonIDs).
		Delete(&domain.Lesson{}).Error
}

func (r *lessonRepo) DeleteByModuleIDs(ctx context.Context, tx *gorm.DB, moduleIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(moduleIDs) == 0 {
		return nil
	}

	return transaction.WithContext(ctx).
		Where("module_id IN ?", moduleIDs).
		Delete(&domain.Lesson{}).Error
}
