package services

import (
	"context"
	"crypto/rand"
	"encoding/base32"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	enrollrepo "github.com/studyhall/lms-backend/internal/data/repos/enrollment"
	"github.com/studyhall/lms-backend/internal/domain"
	"github.com/studyhall/lms-backend/internal/events"
	"github.com/studyhall/lms-backend/internal/platform/logger"
)

// CertificateService issues and verifies course completion certificates. An
// enrollment gets at most one certificate ever; the database unique index on
// enrollment_id arbitrates concurrent issuance.
type CertificateService interface {
	Issue(ctx context.Context, enrollmentID uuid.UUID) (*domain.Certificate, error)
	GetByEnrollment(ctx context.Context, enrollmentID uuid.UUID) (*domain.Certificate, error)
	// GetByCode is the read-only lookup behind the public code printed on a
	// certificate. It never changes the verified flag.
	GetByCode(ctx context.Context, code string) (*domain.Certificate, error)
	// Verify and Unverify toggle the verified flag. Both are idempotent and
	// reserved for staff callers.
	Verify(ctx context.Context, certificateID uuid.UUID) error
	Unverify(ctx context.Context, certificateID uuid.UUID) error
}

type certificateService struct {
	db              *gorm.DB
	log             *logger.Logger
	enrollmentRepo  enrollrepo.EnrollmentRepo
	certificateRepo enrollrepo.CertificateRepo
	bus             events.Bus
}

func NewCertificateService(
	db *gorm.DB,
	baseLog *logger.Logger,
	enrollmentRepo enrollrepo.EnrollmentRepo,
	certificateRepo enrollrepo.CertificateRepo,
	bus events.Bus,
) CertificateService {
	return &certificateService{
		db:              db,
		log:             baseLog.With("service", "CertificateService"),
		enrollmentRepo:  enrollmentRepo,
		certificateRepo: certificateRepo,
		bus:             bus,
	}
}

// newCertificateCode returns "CERT-" plus 10 uppercase base32 characters of
// cryptographic randomness, around 50 bits of entropy.
func newCertificateCode() (string, error) {
	raw := make([]byte, 7)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("read random: %w", err)
	}
	encoded := base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(raw)
	return "CERT-" + encoded[:10], nil
}

func (s *certificateService) Issue(ctx context.Context, enrollmentID uuid.UUID) (*domain.Certificate, error) {
	enrollments, err := s.enrollmentRepo.GetByIDs(ctx, nil, []uuid.UUID{enrollmentID})
	if err != nil {
		return nil, fmt.Errorf("get enrollment: %w", err)
	}
	if len(enrollments) == 0 {
		return nil, domain.ErrNotFound
	}
	enrollment := enrollments[0]
	if enrollment.Status != domain.EnrollmentStatusCompleted {
		return nil, domain.ErrNotEligible
	}

	code, err := newCertificateCode()
	if err != nil {
		return nil, err
	}

	certificate := &domain.Certificate{
		EnrollmentID: enrollmentID,
		Code:         code,
		IssuedAt:     time.Now().UTC(),
	}
	created, err := s.certificateRepo.Create(ctx, nil, certificate)
	if err != nil {
		return nil, fmt.Errorf("create certificate: %w", err)
	}
	if !created {
		return nil, domain.ErrAlreadyIssued
	}

	s.log.Info("certificate issued", "certificate_id", certificate.ID, "enrollment_id", enrollmentID)
	if pubErr := s.bus.Publish(ctx, events.Event{
		Type:         events.TypeCertificateIssued,
		EnrollmentID: enrollmentID,
		CourseID:     enrollment.CourseID,
	}); pubErr != nil {
		s.log.Warn("publish certificate event failed", "error", pubErr)
	}
	return certificate, nil
}

func (s *certificateService) GetByEnrollment(ctx context.Context, enrollmentID uuid.UUID) (*domain.Certificate, error) {
	certificate, err := s.certificateRepo.GetByEnrollmentID(ctx, nil, enrollmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get certificate: %w", err)
	}
	return certificate, nil
}

func (s *certificateService) GetByCode(ctx context.Context, code string) (*domain.Certificate, error) {
	certificate, err := s.certificateRepo.GetByCode(ctx, nil, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get certificate: %w", err)
	}
	return certificate, nil
}

func (s *certificateService) setVerified(ctx context.Context, certificateID uuid.UUID, verified bool) error {
	certificates, err := s.certificateRepo.GetByIDs(ctx, nil, []uuid.UUID{certificateID})
	if err != nil {
		return fmt.Errorf("get certificate: %w", err)
	}
	if len(certificates) == 0 {
		return domain.ErrNotFound
	}
	if certificates[0].Verified == verified {
		return nil
	}
	return s.certificateRepo.SetVerified(ctx, nil, certificateID, verified)
}

func (s *certificateService) Verify(ctx context.Context, certificateID uuid.UUID) error {
	return s.setVerified(ctx, certificateID, true)
}

func (s *certificateService) Unverify(ctx context.Context, certificateID uuid.UUID) error {
	return s.setVerified(ctx, certificateID, false)
}
