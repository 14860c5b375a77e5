package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/studyhall/lms-backend/internal/domain"
	"github.com/studyhall/lms-backend/internal/platform/logger"
)

type ResourceRepo interface {
	Create(ctx context.Context, tx *gorm.DB, resources []*domain.LessonResource) ([]*domain.LessonResource, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, resourceIDs []uuid.UUID) ([]*domain.LessonResource, error)
	GetByLessonIDs(ctx context.Context, tx *gorm.DB, lessonIDs []uuid.UUID) ([]*domain.LessonResource, error)
	// IncrementDownloadCount bumps the counter atomically in SQL so two
	// concurrent downloads never lose an increment.
	IncrementDownloadCount(ctx context.Context, tx *gorm.DB, resourceID uuid.UUID) error
	DeleteByIDs(ctx context.Context, tx *gorm.DB, resourceIDs []uuid.UUID) error
	DeleteByLessonIDs(ctx context.Context, tx *gorm.DB, lessonIDs []uuid.UUID) error
}

type resourceRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewResourceRepo(db *gorm.DB, baseLog *logger.Logger) ResourceRepo {
	return &resourceRepo{db: db, log: baseLog.With("repo", "ResourceRepo")}
}

func (r *resourceRepo) Create(ctx context.Context, tx *gorm.DB, resources []*domain.LessonResource) ([]*domain.LessonResource, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(resources) == 0 {
		return []*domain.LessonResource{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&resources).Error; err != nil {
		return nil, err
	}
	return resources, nil
}

func (r *resourceRepo) GetByIDs(ctx context.Context, tx *gorm.DB, resourceIDs []uuid.UUID) ([]*domain.LessonResource, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*domain.LessonResource
	if len(resourceIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", resourceIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *resourceRepo) GetByLessonIDs(ctx context.Context, tx *gorm.DB, lessonIDs []uuid.UUID) ([]*domain.LessonResource, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*domain.LessonResource
	if len(lessonIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("lesson_id IN ?", lessonIDs).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *resourceRepo) IncrementDownloadCount(ctx context.Context, tx *gorm.DB, resourceID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(ctx).
		Model(&domain.LessonResource{}).
		Where("id = ?", resourceID).
		UpdateColumn("download_count", gorm.Expr("download_count + 1")).Error
}

func (r *resourceRepo) DeleteByIDs(ctx context.Context, tx *gorm.DB, resourceIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(resourceIDs) == 0 {
		return nil
	}

	return transaction.WithContext(ctx).
		Where("id IN ?", resourceIDs).
		Delete(&domain.LessonResource{}).Error
}

func (r *resourceRepo) DeleteByLessonIDs(ctx context.Context, tx *gorm.DB, lessonIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(lessonIDs) == 0 {
		return nil
	}

	return transaction.WithContext(ctx).
		Where("lesson_id IN ?", lessonIDs).
		Delete(&domain.LessonResource{}).Error
}
