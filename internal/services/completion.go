package services

import (
	"context"
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

// CompletionService owns enrollment status transitions. "completed" is only
// ever reached through Evaluate after a progress recomputation; callers
// cannot write it directly. Cancelling does not retract an issued
// certificate.
type CompletionService interface {
	// Evaluate promotes an active enrollment to completed when progress has
	// reached 100. It runs inside the caller's transaction and reports
	// whether the promotion happened on this call.
	Evaluate(ctx context.Context, tx *gorm.DB, enrollment *domain.Enrollment, progress int) (bool, error)
	Cancel(ctx context.Context, enrollmentID uuid.UUID) error
	// Reactivate returns a cancelled enrollment to circulation. Recorded
	// completions are kept, so an enrollment that was already at 100 goes
	// straight back to completed.
	Reactivate(ctx context.Context, enrollmentID uuid.UUID) error
}

type completionService struct {
	db             *gorm.DB
	log            *logger.Logger
	enrollmentRepo enrollrepo.EnrollmentRepo
	bus            events.Bus
}

func NewCompletionService(db *gorm.DB, baseLog *logger.Logger, enrollmentRepo enrollrepo.EnrollmentRepo, bus events.Bus) CompletionService {
	return &completionService{
		db:             db,
		log:            baseLog.With("service", "CompletionService"),
		enrollmentRepo: enrollmentRepo,
		bus:            bus,
	}
}

func (s *completionService) Evaluate(ctx context.Context, tx *gorm.DB, enrollment *domain.Enrollment, progress int) (bool, error) {
	if enrollment.Status != domain.EnrollmentStatusActive || progress < 100 {
		return false, nil
	}

	now := time.Now().UTC()
	if err := s.enrollmentRepo.UpdateStatus(ctx, tx, enrollment.ID, domain.EnrollmentStatusCompleted, &now); err != nil {
		return false, fmt.Errorf("mark enrollment completed: %w", err)
	}
	enrollment.Status = domain.EnrollmentStatusCompleted
	enrollment.CompletedAt = &now

	s.log.Info("enrollment completed", "enrollment_id", enrollment.ID, "course_id", enrollment.CourseID)
	return true, nil
}

func (s *completionService) Cancel(ctx context.Context, enrollmentID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		enrollment, err := s.enrollmentRepo.GetByIDForUpdate(ctx, tx, enrollmentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return fmt.Errorf("lock enrollment: %w", err)
		}
		if enrollment.Status == domain.EnrollmentStatusCancelled {
			return nil
		}
		return s.enrollmentRepo.UpdateStatus(ctx, tx, enrollmentID, domain.EnrollmentStatusCancelled, enrollment.CompletedAt)
	})
}

func (s *completionService) Reactivate(ctx context.Context, enrollmentID uuid.UUID) error {
	var completedNow bool
	var courseID uuid.UUID

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		enrollment, err := s.enrollmentRepo.GetByIDForUpdate(ctx, tx, enrollmentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return fmt.Errorf("lock enrollment: %w", err)
		}
		if enrollment.Status != domain.EnrollmentStatusCancelled {
			return fmt.Errorf("%w: only cancelled enrollments can be reactivated", domain.ErrValidation)
		}

		if err := s.enrollmentRepo.UpdateStatus(ctx, tx, enrollmentID, domain.EnrollmentStatusActive, enrollment.CompletedAt); err != nil {
			return fmt.Errorf("reactivate enrollment: %w", err)
		}
		enrollment.Status = domain.EnrollmentStatusActive
		courseID = enrollment.CourseID

		completedNow, err = s.Evaluate(ctx, tx, enrollment, enrollment.Progress)
		return err
	})
	if err != nil {
		return err
	}

	if completedNow {
		if pubErr := s.bus.Publish(ctx, events.Event{
			Type:         events.TypeCourseCompleted,
			EnrollmentID: enrollmentID,
			CourseID:     courseID,
			Progress:     100,
		}); pubErr != nil {
			s.log.Warn("publish completion event failed", "error", pubErr)
		}
	}
	return nil
}
