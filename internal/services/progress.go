package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/studyhall/lms-backend/internal/data/repos/catalog"
	enrollrepo "github.com/studyhall/lms-backend/internal/data/repos/enrollment"
	"github.com/studyhall/lms-backend/internal/domain"
	"github.com/studyhall/lms-backend/internal/events"
	"github.com/studyhall/lms-backend/internal/platform/logger"
)

// ProgressService tracks a student's path through a course. Progress is the
// percentage of mandatory lessons completed, rounded down; optional lessons
// never move the number. A course with no mandatory lessons counts as 100.
type ProgressService interface {
	Enroll(ctx context.Context, userID, courseID uuid.UUID) (*domain.Enrollment, error)
	GetEnrollment(ctx context.Context, enrollmentID uuid.UUID) (*domain.Enrollment, error)
	ListByCourse(ctx context.Context, courseID uuid.UUID) ([]*domain.Enrollment, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Enrollment, error)
	// RecordLessonComplete marks one lesson done for an enrollment,
	// recomputes progress and promotes the enrollment to completed when the
	// last mandatory lesson lands. Repeats of the same lesson are no-ops.
	RecordLessonComplete(ctx context.Context, enrollmentID, lessonID uuid.UUID) (*domain.Enrollment, error)
	ListCompletions(ctx context.Context, enrollmentID uuid.UUID) ([]*domain.LessonCompletion, error)
}

type progressService struct {
	db             *gorm.DB
	log            *logger.Logger
	courseRepo     catalog.CourseRepo
	moduleRepo     catalog.ModuleRepo
	lessonRepo     catalog.LessonRepo
	enrollmentRepo enrollrepo.EnrollmentRepo
	completionRepo enrollrepo.CompletionRepo
	completion     CompletionService
	bus            events.Bus
}

func NewProgressService(
	db *gorm.DB,
	baseLog *logger.Logger,
	courseRepo catalog.CourseRepo,
	moduleRepo catalog.ModuleRepo,
	lessonRepo catalog.LessonRepo,
	enrollmentRepo enrollrepo.EnrollmentRepo,
	completionRepo enrollrepo.CompletionRepo,
	completion CompletionService,
	bus events.Bus,
) ProgressService {
	return &progressService{
		db:             db,
		log:            baseLog.With("service", "ProgressService"),
		courseRepo:     courseRepo,
		moduleRepo:     moduleRepo,
		lessonRepo:     lessonRepo,
		enrollmentRepo: enrollmentRepo,
		completionRepo: completionRepo,
		completion:     completion,
		bus:            bus,
	}
}

func (s *progressService) Enroll(ctx context.Context, userID, courseID uuid.UUID) (*domain.Enrollment, error) {
	courses, err := s.courseRepo.GetByIDs(ctx, nil, []uuid.UUID{courseID})
	if err != nil {
		return nil, fmt.Errorf("get course: %w", err)
	}
	if len(courses) == 0 {
		return nil, domain.ErrNotFound
	}
	if courses[0].Status != domain.CourseStatusPublished {
		return nil, fmt.Errorf("%w: course is not published", domain.ErrValidation)
	}

	enrollment := &domain.Enrollment{
		UserID:     userID,
		CourseID:   courseID,
		Status:     domain.EnrollmentStatusActive,
		EnrolledAt: time.Now().UTC(),
	}
	created, err := s.enrollmentRepo.Create(ctx, nil, []*domain.Enrollment{enrollment})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: already enrolled in this course", domain.ErrValidation)
		}
		return nil, fmt.Errorf("create enrollment: %w", err)
	}
	return created[0], nil
}

func (s *progressService) GetEnrollment(ctx context.Context, enrollmentID uuid.UUID) (*domain.Enrollment, error) {
	enrollments, err := s.enrollmentRepo.GetByIDs(ctx, nil, []uuid.UUID{enrollmentID})
	if err != nil {
		return nil, fmt.Errorf("get enrollment: %w", err)
	}
	if len(enrollments) == 0 {
		return nil, domain.ErrNotFound
	}
	return enrollments[0], nil
}

func (s *progressService) ListByCourse(ctx context.Context, courseID uuid.UUID) ([]*domain.Enrollment, error) {
	return s.enrollmentRepo.GetByCourseID(ctx, nil, courseID)
}

func (s *progressService) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Enrollment, error) {
	return s.enrollmentRepo.GetByUserID(ctx, nil, userID)
}

func (s *progressService) ListCompletions(ctx context.Context, enrollmentID uuid.UUID) ([]*domain.LessonCompletion, error) {
	return s.completionRepo.GetByEnrollmentID(ctx, nil, enrollmentID)
}

// computeProgress returns the whole-number percentage of the course's
// mandatory lessons this enrollment has completed.
func (s *progressService) computeProgress(ctx context.Context, tx *gorm.DB, enrollment *domain.Enrollment) (int, error) {
	mandatory, err := s.lessonRepo.GetMandatoryByCourseID(ctx, tx, enrollment.CourseID)
	if err != nil {
		return 0, fmt.Errorf("load mandatory lessons: %w", err)
	}
	if len(mandatory) == 0 {
		return 100, nil
	}

	mandatoryIDs := make([]uuid.UUID, 0, len(mandatory))
	for _, l := range mandatory {
		mandatoryIDs = append(mandatoryIDs, l.ID)
	}
	done, err := s.completionRepo.CountByEnrollmentAndLessons(ctx, tx, enrollment.ID, mandatoryIDs)
	if err != nil {
		return 0, fmt.Errorf("count completions: %w", err)
	}
	return int(done * 100 / int64(len(mandatory))), nil
}

func (s *progressService) RecordLessonComplete(ctx context.Context, enrollmentID, lessonID uuid.UUID) (*domain.Enrollment, error) {
	var (
		enrollment   *domain.Enrollment
		recorded     bool
		completedNow bool
	)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		enrollment, err = s.enrollmentRepo.GetByIDForUpdate(ctx, tx, enrollmentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return fmt.Errorf("lock enrollment: %w", err)
		}
		if enrollment.Status == domain.EnrollmentStatusCancelled {
			return fmt.Errorf("%w: enrollment is cancelled", domain.ErrValidation)
		}

		lessons, err := s.lessonRepo.GetByIDs(ctx, tx, []uuid.UUID{lessonID})
		if err != nil {
			return fmt.Errorf("get lesson: %w", err)
		}
		if len(lessons) == 0 {
			return domain.ErrNotFound
		}
		modules, err := s.moduleRepo.GetByIDs(ctx, tx, []uuid.UUID{lessons[0].ModuleID})
		if err != nil {
			return fmt.Errorf("get module: %w", err)
		}
		if len(modules) == 0 || modules[0].CourseID != enrollment.CourseID {
			return domain.ErrNotEnrolled
		}

		recorded, err = s.completionRepo.Create(ctx, tx, &domain.LessonCompletion{
			EnrollmentID: enrollmentID,
			LessonID:     lessonID,
			CompletedAt:  time.Now().UTC(),
		})
		if err != nil {
			return fmt.Errorf("record completion: %w", err)
		}

		progress, err := s.computeProgress(ctx, tx, enrollment)
		if err != nil {
			return err
		}
		if progress != enrollment.Progress {
			if err := s.enrollmentRepo.UpdateProgress(ctx, tx, enrollmentID, progress); err != nil {
				return fmt.Errorf("update progress: %w", err)
			}
		}
		enrollment.Progress = progress

		completedNow, err = s.completion.Evaluate(ctx, tx, enrollment, progress)
		return err
	})
	if err != nil {
		return nil, err
	}

	if recorded {
		s.publish(ctx, events.Event{
			Type:         events.TypeLessonCompleted,
			EnrollmentID: enrollmentID,
			CourseID:     enrollment.CourseID,
			LessonID:     lessonID,
			Progress:     enrollment.Progress,
		})
		s.publish(ctx, events.Event{
			Type:         events.TypeProgressUpdated,
			EnrollmentID: enrollmentID,
			CourseID:     enrollment.CourseID,
			Progress:     enrollment.Progress,
		})
	}
	if completedNow {
		s.publish(ctx, events.Event{
			Type:         events.TypeCourseCompleted,
			EnrollmentID: enrollmentID,
			CourseID:     enrollment.CourseID,
			Progress:     100,
		})
	}
	return enrollment, nil
}

func (s *progressService) publish(ctx context.Context, evt events.Event) {
	if err := s.bus.Publish(ctx, evt); err != nil {
		s.log.Warn("publish event failed", "type", evt.Type, "error", err)
	}
}
