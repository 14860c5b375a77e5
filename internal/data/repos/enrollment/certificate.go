package enrollment

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/studyhall/lms-backend/internal/domain"
	"github.com/studyhall/lms-backend/internal/platform/logger"
)

type CertificateRepo interface {
	// Create inserts a certificate. The unique index on enrollment_id
	// arbitrates concurrent issuance; the insert is absorbed with ON
	// CONFLICT DO NOTHING and created reports whether this caller won.
	Create(ctx context.Context, tx *gorm.DB, certificate *domain.Certificate) (created bool, err error)
	GetByIDs(ctx context.Context, tx *gorm.DB, certificateIDs []uuid.UUID) ([]*domain.Certificate, error)
	GetByEnrollmentID(ctx context.Context, tx *gorm.DB, enrollmentID uuid.UUID) (*domain.Certificate, error)
	GetByCode(ctx context.Context, tx *gorm.DB, code string) (*domain.Certificate, error)
	SetVerified(ctx context.Context, tx *gorm.DB, certificateID uuid.UUID, verified bool) error
	DeleteByEnrollmentIDs(ctx context.Context, tx *gorm.DB, enrollmentIDs []uuid.UUID) error
}

type certificateRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCertificateRepo(db *gorm.DB, baseLog *logger.Logger) CertificateRepo {
	return &certificateRepo{db: db, log: baseLog.With("repo", "CertificateRepo")}
}

func (r *certificateRepo) Create(ctx context.Context, tx *gorm.DB, certificate *domain.Certificate) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	result := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "enrollment_id"}},
			DoNothing: true,
		}).
		Create(certificate)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *certificateRepo) GetByIDs(ctx context.Context, tx *gorm.DB, certificateIDs []uuid.UUID) ([]*domain.Certificate, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*domain.Certificate
	if len(certificateIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", certificateIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *certificateRepo) GetByEnrollmentID(ctx context.Context, tx *gorm.DB, enrollmentID uuid.UUID) (*domain.Certificate, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result domain.Certificate
	if err := transaction.WithContext(ctx).
		Where("enrollment_id = ?", enrollmentID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *certificateRepo) GetByCode(ctx context.Context, tx *gorm.DB, code string) (*domain.Certificate, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result domain.Certificate
	if err := transaction.WithContext(ctx).
		Where("code = ?", code).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *certificateRepo) SetVerified(ctx context.Context, tx *gorm.DB, certificateID uuid.UUID, verified bool) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(ctx).
		Model(&domain.Certificate{}).
		Where("id = ?", certificateID).
		Update("verified", verified).Error
}

func (r *certificateRepo) DeleteByEnrollmentIDs(ctx context.Context, tx *gorm.DB, enrollmentIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(enrollmentIDs) == 0 {
		return nil
	}

	return transaction.WithContext(ctx).
		Where("enrollment_id IN ?", enrollmentIDs).
		Delete(&domain.Certificate{}).Error
}
