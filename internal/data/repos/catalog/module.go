package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/studyhall/lms-backend/internal/domain"
	"github.com/studyhall/lms-backend/internal/platform/logger"
)

type ModuleRepo interface {
	Create(ctx context.Context, tx *gorm.DB, modules []*domain.CourseModule) ([]*domain.CourseModule, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, moduleIDs []uuid.UUID) ([]*domain.CourseModule, error)
	GetByCourseID(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) ([]*domain.CourseModule, error)
	// GetByCourseIDForUpdate loads a course's modules ordered by display_order
	// while holding row locks, so concurrent appends and reorders on the same
	// course serialize instead of interleaving.
	GetByCourseIDForUpdate(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) ([]*domain.CourseModule, error)
	UpdateDisplayOrder(ctx context.Context, tx *gorm.DB, moduleID uuid.UUID, displayOrder int) error
	Update(ctx context.Context, tx *gorm.DB, module *domain.CourseModule) error
	DeleteByIDs(ctx context.Context, tx *gorm.DB, moduleIDs []uuid.UUID) error
}

type moduleRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewModuleRepo(db *gorm.DB, baseLog *logger.Logger) ModuleRepo {
	return &moduleRepo{db: db, log: baseLog.With("repo", "ModuleRepo")}
}

func (r *moduleRepo) Create(ctx context.Context, tx *gorm.DB, modules []*domain.CourseModule) ([]*domain.CourseModule, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(modules) == 0 {
		return []*domain.CourseModule{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&modules).Error; err != nil {
		return nil, err
	}
	return modules, nil
}

func (r *moduleRepo) GetByIDs(ctx context.Context, tx *gorm.DB, moduleIDs []uuid.UUID) ([]*domain.CourseModule, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*domain.CourseModule
	if len(moduleIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", moduleIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *moduleRepo) GetByCourseID(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) ([]*domain.CourseModule, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*domain.CourseModule
	if courseID == uuid.Nil {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("display_order ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *moduleRepo) GetByCourseIDForUpdate(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) ([]*domain.CourseModule, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*domain.CourseModule
	if courseID == uuid.Nil {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("course_id = ?", courseID).
		Order("display_order ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *moduleRepo) UpdateDisplayOrder(ctx context.Context, tx *gorm.DB, moduleID uuid.UUID, displayOrder int) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(ctx).
		Model(&domain.CourseModule{}).
		Where("id = ?", moduleID).
		Update("display_order", displayOrder).Error
}

func (r *moduleRepo) Update(ctx context.Context, tx *gorm.DB, module *domain.CourseModule) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if module == nil {
		return nil
	}

	return transaction.WithContext(ctx).Save(module).Error
}

func (r *moduleRepo) DeleteByIDs(ctx context.Context, tx *gorm.DB, moduleIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(moduleIDs) == 0 {
		return nil
	}

	return transaction.WithContext(ctx).
		Where("id IN ?", moduleIDs).
		Delete(&domain.CourseModule{}).Error
}
