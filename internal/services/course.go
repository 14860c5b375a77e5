package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/studyhall/lms-backend/internal/data/repos/catalog"
	enrollrepo "github.com/studyhall/lms-backend/internal/data/repos/enrollment"
	"github.com/studyhall/lms-backend/internal/domain"
	"github.com/studyhall/lms-backend/internal/platform/logger"
)

type CreateCourseInput struct {
	Title       string
	Description string
	Metadata    datatypes.JSON
}

type CourseService interface {
	CreateCourse(ctx context.Context, ownerID uuid.UUID, input CreateCourseInput) (*domain.Course, error)
	GetCourse(ctx context.Context, courseID uuid.UUID) (*domain.Course, error)
	ListCourses(ctx context.Context) ([]*domain.Course, error)
	UpdateStatus(ctx context.Context, courseID uuid.UUID, status string) error
	// DeleteCourse removes the course and everything hanging off it in one
	// transaction: modules, lessons, resources, enrollments, completions
	// and certificates.
	DeleteCourse(ctx context.Context, courseID uuid.UUID) error
}

type courseService struct {
	db              *gorm.DB
	log             *logger.Logger
	courseRepo      catalog.CourseRepo
	moduleRepo      catalog.ModuleRepo
	lessonRepo      catalog.LessonRepo
	resourceRepo    catalog.ResourceRepo
	enrollmentRepo  enrollrepo.EnrollmentRepo
	completionRepo  enrollrepo.CompletionRepo
	certificateRepo enrollrepo.CertificateRepo
}

func NewCourseService(
	db *gorm.DB,
	baseLog *logger.Logger,
	courseRepo catalog.CourseRepo,
	moduleRepo catalog.ModuleRepo,
	lessonRepo catalog.LessonRepo,
	resourceRepo catalog.ResourceRepo,
	enrollmentRepo enrollrepo.EnrollmentRepo,
	completionRepo enrollrepo.CompletionRepo,
	certificateRepo enrollrepo.CertificateRepo,
) CourseService {
	return &courseService{
		db:              db,
		log:             baseLog.With("service", "CourseService"),
		courseRepo:      courseRepo,
		moduleRepo:      moduleRepo,
		lessonRepo:      lessonRepo,
		resourceRepo:    resourceRepo,
		enrollmentRepo:  enrollmentRepo,
		completionRepo:  completionRepo,
		certificateRepo: certificateRepo,
	}
}

func (cs *courseService) CreateCourse(ctx context.Context, ownerID uuid.UUID, input CreateCourseInput) (*domain.Course, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title required", domain.ErrValidation)
	}

	course := &domain.Course{
		OwnerID:     ownerID,
		Title:       title,
		Description: input.Description,
		Status:      domain.CourseStatusDraft,
		Metadata:    input.Metadata,
	}

	created, err := cs.courseRepo.Create(ctx, nil, []*domain.Course{course})
	if err != nil {
		return nil, fmt.Errorf("create course: %w", err)
	}
	cs.log.Info("course created", "course_id", created[0].ID, "owner_id", ownerID)
	return created[0], nil
}

func (cs *courseService) GetCourse(ctx context.Context, courseID uuid.UUID) (*domain.Course, error) {
	courses, err := cs.courseRepo.GetByIDs(ctx, nil, []uuid.UUID{courseID})
	if err != nil {
		return nil, fmt.Errorf("get course: %w", err)
	}
	if len(courses) == 0 {
		return nil, domain.ErrNotFound
	}
	return courses[0], nil
}

func (cs *courseService) ListCourses(ctx context.Context) ([]*domain.Course, error) {
	return cs.courseRepo.List(ctx, nil)
}

func (cs *courseService) UpdateStatus(ctx context.Context, courseID uuid.UUID, status string) error {
	switch status {
	case domain.CourseStatusDraft, domain.CourseStatusPublished, domain.CourseStatusArchived:
	default:
		return fmt.Errorf("%w: unknown course status %q", domain.ErrValidation, status)
	}

	if _, err := cs.GetCourse(ctx, courseID); err != nil {
		return err
	}
	return cs.courseRepo.UpdateStatus(ctx, nil, courseID, status)
}

func (cs *courseService) DeleteCourse(ctx context.Context, courseID uuid.UUID) error {
	if _, err := cs.GetCourse(ctx, courseID); err != nil {
		return err
	}

	err := cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		modules, err := cs.moduleRepo.GetByCourseIDForUpdate(ctx, tx, courseID)
		if err != nil {
			return fmt.Errorf("load modules: %w", err)
		}
		moduleIDs := make([]uuid.UUID, 0, len(modules))
		for _, m := range modules {
			moduleIDs = append(moduleIDs, m.ID)
		}

		lessons, err := cs.lessonRepo.GetByModuleIDs(ctx, tx, moduleIDs)
		if err != nil {
			return fmt.Errorf("load lessons: %w", err)
		}
		lessonIDs := make([]uuid.UUID, 0, len(lessons))
		for _, l := range lessons {
			lessonIDs = append(lessonIDs, l.ID)
		}

		enrollments, err := cs.enrollmentRepo.GetByCourseID(ctx, tx, courseID)
		if err != nil {
			return fmt.Errorf("load enrollments: %w", err)
		}
		enrollmentIDs := make([]uuid.UUID, 0, len(enrollments))
		for _, e := range enrollments {
			enrollmentIDs = append(enrollmentIDs, e.ID)
		}

		if err := cs.resourceRepo.DeleteByLessonIDs(ctx, tx, lessonIDs); err != nil {
			return fmt.Errorf("delete resources: %w", err)
		}
		if err := cs.completionRepo.DeleteByLessonIDs(ctx, tx, lessonIDs); err != nil {
			return fmt.Errorf("delete completions: %w", err)
		}
		if err := cs.certificateRepo.DeleteByEnrollmentIDs(ctx, tx, enrollmentIDs); err != nil {
			return fmt.Errorf("delete certificates: %w", err)
		}
		if err := cs.completionRepo.DeleteByEnrollmentIDs(ctx, tx, enrollmentIDs); err != nil {
			return fmt.Errorf("delete enrollment completions: %w", err)
		}
		if err := cs.enrollmentRepo.DeleteByCourseID(ctx, tx, courseID); err != nil {
			return fmt.Errorf("delete enrollments: %w", err)
		}
		if err := cs.lessonRepo.DeleteByModuleIDs(ctx, tx, moduleIDs); err != nil {
			return fmt.Errorf("delete lessons: %w", err)
		}
		if err := cs.moduleRepo.DeleteByIDs(ctx, tx, moduleIDs); err != nil {
			return fmt.Errorf("delete modules: %w", err)
		}
		return cs.courseRepo.DeleteByIDs(ctx, tx, []uuid.UUID{courseID})
	})
	if err != nil {
		return err
	}

	cs.log.Info("course deleted", "course_id", courseID)
	return nil
}
