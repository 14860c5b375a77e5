package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/studyhall/lms-backend/internal/data/repos/catalog"
	enrollrepo "github.com/studyhall/lms-backend/internal/data/repos/enrollment"
	"github.com/studyhall/lms-backend/internal/domain"
	"github.com/studyhall/lms-backend/internal/platform/logger"
)

type CreateModuleInput struct {
	Title           string
	Description     string
	DurationMinutes int
}

type CreateLessonInput struct {
	Title           string
	Kind            string
	Content         string
	ContentURL      string
	DurationMinutes int
	IsPreview       *bool
	IsMandatory     *bool
	Points          int
}

type CreateResourceInput struct {
	Title    string
	Kind     string
	Location string
}

type ModuleWithLessons struct {
	Module  *domain.CourseModule `json:"module"`
	Lessons []*domain.Lesson     `json:"lessons"`
}

// CatalogService owns the course content hierarchy: modules within a course,
// lessons within a module, resources within a lesson. Siblings keep a 1-based
// contiguous display order under every mutation, including deletes and moves.
type CatalogService interface {
	CreateModule(ctx context.Context, courseID uuid.UUID, input CreateModuleInput) (*domain.CourseModule, error)
	UpdateModule(ctx context.Context, moduleID uuid.UUID, input CreateModuleInput) (*domain.CourseModule, error)
	GetCourseOutline(ctx context.Context, courseID uuid.UUID) ([]*ModuleWithLessons, error)
	// ReorderModules applies a complete new ordering for a course. The id
	// list must contain every current module exactly once or the call fails
	// with ErrInvalidOrder and changes nothing.
	ReorderModules(ctx context.Context, courseID uuid.UUID, orderedIDs []uuid.UUID) error
	DeleteModule(ctx context.Context, moduleID uuid.UUID) error

	CreateLesson(ctx context.Context, moduleID uuid.UUID, input CreateLessonInput) (*domain.Lesson, error)
	UpdateLesson(ctx context.Context, lessonID uuid.UUID, input CreateLessonInput) (*domain.Lesson, error)
	ReorderLessons(ctx context.Context, moduleID uuid.UUID, orderedIDs []uuid.UUID) error
	// MoveLesson relocates a lesson to a target module at position. Both the
	// source and target modules come out contiguously ordered.
	MoveLesson(ctx context.Context, lessonID, targetModuleID uuid.UUID, position int) error
	DeleteLesson(ctx context.Context, lessonID uuid.UUID) error

	AddResource(ctx context.Context, lessonID uuid.UUID, input CreateResourceInput) (*domain.LessonResource, error)
	ListResources(ctx context.Context, lessonID uuid.UUID) ([]*domain.LessonResource, error)
	RecordDownload(ctx context.Context, resourceID uuid.UUID) error
	DeleteResource(ctx context.Context, resourceID uuid.UUID) error
}

type catalogService struct {
	db             *gorm.DB
	log            *logger.Logger
	courseRepo     catalog.CourseRepo
	moduleRepo     catalog.ModuleRepo
	lessonRepo     catalog.LessonRepo
	resourceRepo   catalog.ResourceRepo
	completionRepo enrollrepo.CompletionRepo
}

func NewCatalogService(
	db *gorm.DB,
	baseLog *logger.Logger,
	courseRepo catalog.CourseRepo,
	moduleRepo catalog.ModuleRepo,
	lessonRepo catalog.LessonRepo,
	resourceRepo catalog.ResourceRepo,
	completionRepo enrollrepo.CompletionRepo,
) CatalogService {
	return &catalogService{
		db:             db,
		log:            baseLog.With("service", "CatalogService"),
		courseRepo:     courseRepo,
		moduleRepo:     moduleRepo,
		lessonRepo:     lessonRepo,
		resourceRepo:   resourceRepo,
		completionRepo: completionRepo,
	}
}

func (s *catalogService) CreateModule(ctx context.Context, courseID uuid.UUID, input CreateModuleInput) (*domain.CourseModule, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title required", domain.ErrValidation)
	}

	courses, err := s.courseRepo.GetByIDs(ctx, nil, []uuid.UUID{courseID})
	if err != nil {
		return nil, fmt.Errorf("get course: %w", err)
	}
	if len(courses) == 0 {
		return nil, domain.ErrNotFound
	}

	var module *domain.CourseModule
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		siblings, err := s.moduleRepo.GetByCourseIDForUpdate(ctx, tx, courseID)
		if err != nil {
			return fmt.Errorf("lock siblings: %w", err)
		}

		module = &domain.CourseModule{
			CourseID:        courseID,
			Title:           title,
			Description:     input.Description,
			DurationMinutes: input.DurationMinutes,
			DisplayOrder:    len(siblings) + 1,
		}
		_, err = s.moduleRepo.Create(ctx, tx, []*domain.CourseModule{module})
		return err
	})
	if err != nil {
		return nil, err
	}
	return module, nil
}

func (s *catalogService) UpdateModule(ctx context.Context, moduleID uuid.UUID, input CreateModuleInput) (*domain.CourseModule, error) {
	modules, err := s.moduleRepo.GetByIDs(ctx, nil, []uuid.UUID{moduleID})
	if err != nil {
		return nil, fmt.Errorf("get module: %w", err)
	}
	if len(modules) == 0 {
		return nil, domain.ErrNotFound
	}

	module := modules[0]
	if title := strings.TrimSpace(input.Title); title != "" {
		module.Title = title
	}
	if input.Description != "" {
		module.Description = input.Description
	}
	if input.DurationMinutes > 0 {
		module.DurationMinutes = input.DurationMinutes
	}

	if err := s.moduleRepo.Update(ctx, nil, module); err != nil {
		return nil, fmt.Errorf("update module: %w", err)
	}
	return module, nil
}

func (s *catalogService) GetCourseOutline(ctx context.Context, courseID uuid.UUID) ([]*ModuleWithLessons, error) {
	modules, err := s.moduleRepo.GetByCourseID(ctx, nil, courseID)
	if err != nil {
		return nil, fmt.Errorf("get modules: %w", err)
	}

	moduleIDs := make([]uuid.UUID, 0, len(modules))
	for _, m := range modules {
		moduleIDs = append(moduleIDs, m.ID)
	}
	lessons, err := s.lessonRepo.GetByModuleIDs(ctx, nil, moduleIDs)
	if err != nil {
		return nil, fmt.Errorf("get lessons: %w", err)
	}

	byModule := make(map[uuid.UUID][]*domain.Lesson, len(modules))
	for _, l := range lessons {
		byModule[l.ModuleID] = append(byModule[l.ModuleID], l)
	}

	outline := make([]*ModuleWithLessons, 0, len(modules))
	for _, m := range modules {
		outline = append(outline, &ModuleWithLessons{Module: m, Lessons: byModule[m.ID]})
	}
	return outline, nil
}

// matchesExactly reports whether orderedIDs is a permutation of the ids of
// current, with no duplicates, omissions or strangers.
func matchesExactly(orderedIDs []uuid.UUID, currentIDs map[uuid.UUID]bool) bool {
	if len(orderedIDs) != len(currentIDs) {
		return false
	}
	seen := make(map[uuid.UUID]bool, len(orderedIDs))
	for _, id := range orderedIDs {
		if seen[id] || !currentIDs[id] {
			return false
		}
		seen[id] = true
	}
	return true
}

func (s *catalogService) ReorderModules(ctx context.Context, courseID uuid.UUID, orderedIDs []uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		siblings, err := s.moduleRepo.GetByCourseIDForUpdate(ctx, tx, courseID)
		if err != nil {
			return fmt.Errorf("lock siblings: %w", err)
		}

		current := make(map[uuid.UUID]bool, len(siblings))
		for _, m := range siblings {
			current[m.ID] = true
		}
		if !matchesExactly(orderedIDs, current) {
			return domain.ErrInvalidOrder
		}

		for i, id := range orderedIDs {
			if err := s.moduleRepo.UpdateDisplayOrder(ctx, tx, id, i+1); err != nil {
				return fmt.Errorf("set module order: %w", err)
			}
		}
		return nil
	})
}

// repackModules rewrites sibling display orders to 1..N keeping relative
// order. Call with the siblings already locked and sorted.
func (s *catalogService) repackModules(ctx context.Context, tx *gorm.DB, siblings []*domain.CourseModule) error {
	for i, m := range siblings {
		if m.DisplayOrder == i+1 {
			continue
		}
		if err := s.moduleRepo.UpdateDisplayOrder(ctx, tx, m.ID, i+1); err != nil {
			return fmt.Errorf("repack module order: %w", err)
		}
	}
	return nil
}

func (s *catalogService) repackLessons(ctx context.Context, tx *gorm.DB, siblings []*domain.Lesson) error {
	for i, l := range siblings {
		if l.DisplayOrder == i+1 {
			continue
		}
		if err := s.lessonRepo.UpdateDisplayOrder(ctx, tx, l.ID, i+1); err != nil {
			return fmt.Errorf("repack lesson order: %w", err)
		}
	}
	return nil
}

func (s *catalogService) DeleteModule(ctx context.Context, moduleID uuid.UUID) error {
	modules, err := s.moduleRepo.GetByIDs(ctx, nil, []uuid.UUID{moduleID})
	if err != nil {
		return fmt.Errorf("get module: %w", err)
	}
	if len(modules) == 0 {
		return domain.ErrNotFound
	}
	courseID := modules[0].CourseID

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		lessons, err := s.lessonRepo.GetByModuleIDForUpdate(ctx, tx, moduleID)
		if err != nil {
			return fmt.Errorf("load lessons: %w", err)
		}
		lessonIDs := make([]uuid.UUID, 0, len(lessons))
		for _, l := range lessons {
			lessonIDs = append(lessonIDs, l.ID)
		}

		if err := s.resourceRepo.DeleteByLessonIDs(ctx, tx, lessonIDs); err != nil {
			return fmt.Errorf("delete resources: %w", err)
		}
		if err := s.completionRepo.DeleteByLessonIDs(ctx, tx, lessonIDs); err != nil {
			return fmt.Errorf("delete completions: %w", err)
		}
		if err := s.lessonRepo.DeleteByModuleIDs(ctx, tx, []uuid.UUID{moduleID}); err != nil {
			return fmt.Errorf("delete lessons: %w", err)
		}
		if err := s.moduleRepo.DeleteByIDs(ctx, tx, []uuid.UUID{moduleID}); err != nil {
			return fmt.Errorf("delete module: %w", err)
		}

		siblings, err := s.moduleRepo.GetByCourseIDForUpdate(ctx, tx, courseID)
		if err != nil {
			return fmt.Errorf("lock siblings: %w", err)
		}
		return s.repackModules(ctx, tx, siblings)
	})
}

func (s *catalogService) CreateLesson(ctx context.Context, moduleID uuid.UUID, input CreateLessonInput) (*domain.Lesson, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title required", domain.ErrValidation)
	}
	if !domain.ValidLessonKind(input.Kind) {
		return nil, fmt.Errorf("%w: unknown lesson kind %q", domain.ErrValidation, input.Kind)
	}

	modules, err := s.moduleRepo.GetByIDs(ctx, nil, []uuid.UUID{moduleID})
	if err != nil {
		return nil, fmt.Errorf("get module: %w", err)
	}
	if len(modules) == 0 {
		return nil, domain.ErrNotFound
	}

	mandatory := true
	if input.IsMandatory != nil {
		mandatory = *input.IsMandatory
	}
	preview := false
	if input.IsPreview != nil {
		preview = *input.IsPreview
	}

	var lesson *domain.Lesson
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		siblings, err := s.lessonRepo.GetByModuleIDForUpdate(ctx, tx, moduleID)
		if err != nil {
			return fmt.Errorf("lock siblings: %w", err)
		}

		lesson = &domain.Lesson{
			ModuleID:        moduleID,
			Title:           title,
			Kind:            input.Kind,
			Content:         input.Content,
			ContentURL:      input.ContentURL,
			DurationMinutes: input.DurationMinutes,
			DisplayOrder:    len(siblings) + 1,
			IsPreview:       preview,
			IsMandatory:     mandatory,
			Points:          input.Points,
		}
		_, err = s.lessonRepo.Create(ctx, tx, []*domain.Lesson{lesson})
		return err
	})
	if err != nil {
		return nil, err
	}
	return lesson, nil
}

func (s *catalogService) UpdateLesson(ctx context.Context, lessonID uuid.UUID, input CreateLessonInput) (*domain.Lesson, error) {
	lessons, err := s.lessonRepo.GetByIDs(ctx, nil, []uuid.UUID{lessonID})
	if err != nil {
		return nil, fmt.Errorf("get lesson: %w", err)
	}
	if len(lessons) == 0 {
		return nil, domain.ErrNotFound
	}

	lesson := lessons[0]
	if title := strings.TrimSpace(input.Title); title != "" {
		lesson.Title = title
	}
	if input.Kind != "" {
		if !domain.ValidLessonKind(input.Kind) {
			return nil, fmt.Errorf("%w: unknown lesson kind %q", domain.ErrValidation, input.Kind)
		}
		lesson.Kind = input.Kind
	}
	if input.Content != "" {
		lesson.Content = input.Content
	}
	if input.ContentURL != "" {
		lesson.ContentURL = input.ContentURL
	}
	if input.DurationMinutes > 0 {
		lesson.DurationMinutes = input.DurationMinutes
	}
	if input.IsMandatory != nil {
		lesson.IsMandatory = *input.IsMandatory
	}
	if input.IsPreview != nil {
		lesson.IsPreview = *input.IsPreview
	}
	if input.Points > 0 {
		lesson.Points = input.Points
	}

	if err := s.lessonRepo.Update(ctx, nil, lesson); err != nil {
		return nil, fmt.Errorf("update lesson: %w", err)
	}
	return lesson, nil
}

func (s *catalogService) ReorderLessons(ctx context.Context, moduleID uuid.UUID, orderedIDs []uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		siblings, err := s.lessonRepo.GetByModuleIDForUpdate(ctx, tx, moduleID)
		if err != nil {
			return fmt.Errorf("lock siblings: %w", err)
		}

		current := make(map[uuid.UUID]bool, len(siblings))
		for _, l := range siblings {
			current[l.ID] = true
		}
		if !matchesExactly(orderedIDs, current) {
			return domain.ErrInvalidOrder
		}

		for i, id := range orderedIDs {
			if err := s.lessonRepo.UpdateDisplayOrder(ctx, tx, id, i+1); err != nil {
				return fmt.Errorf("set lesson order: %w", err)
			}
		}
		return nil
	})
}

func (s *catalogService) MoveLesson(ctx context.Context, lessonID, targetModuleID uuid.UUID, position int) error {
	lessons, err := s.lessonRepo.GetByIDs(ctx, nil, []uuid.UUID{lessonID})
	if err != nil {
		return fmt.Errorf("get lesson: %w", err)
	}
	if len(lessons) == 0 {
		return domain.ErrNotFound
	}
	sourceModuleID := lessons[0].ModuleID

	targets, err := s.moduleRepo.GetByIDs(ctx, nil, []uuid.UUID{targetModuleID})
	if err != nil {
		return fmt.Errorf("get target module: %w", err)
	}
	if len(targets) == 0 {
		return domain.ErrNotFound
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Lock both modules' lesson sets up front in a fixed id order so two
		// opposite moves between the same pair of modules cannot deadlock.
		lockIDs := []uuid.UUID{targetModuleID}
		if sourceModuleID != targetModuleID {
			lockIDs = append(lockIDs, sourceModuleID)
			if strings.Compare(sourceModuleID.String(), targetModuleID.String()) < 0 {
				lockIDs[0], lockIDs[1] = lockIDs[1], lockIDs[0]
			}
		}
		locked := make(map[uuid.UUID][]*domain.Lesson, len(lockIDs))
		for _, id := range lockIDs {
			siblings, err := s.lessonRepo.GetByModuleIDForUpdate(ctx, tx, id)
			if err != nil {
				return fmt.Errorf("lock siblings: %w", err)
			}
			locked[id] = siblings
		}
		targetSiblings := locked[targetModuleID]

		// Remaining target siblings when moving within the same module.
		remaining := targetSiblings[:0:0]
		for _, l := range targetSiblings {
			if l.ID != lessonID {
				remaining = append(remaining, l)
			}
		}

		if position < 1 {
			position = 1
		}
		if position > len(remaining)+1 {
			position = len(remaining) + 1
		}

		if err := s.lessonRepo.UpdatePlacement(ctx, tx, lessonID, targetModuleID, position); err != nil {
			return fmt.Errorf("place lesson: %w", err)
		}
		for i, l := range remaining {
			order := i + 1
			if order >= position {
				order++
			}
			if l.DisplayOrder == order {
				continue
			}
			if err := s.lessonRepo.UpdateDisplayOrder(ctx, tx, l.ID, order); err != nil {
				return fmt.Errorf("shift target sibling: %w", err)
			}
		}

		if sourceModuleID == targetModuleID {
			return nil
		}

		// The source snapshot was taken before the move, so drop the moved
		// lesson before repacking.
		sourceSiblings := locked[sourceModuleID][:0:0]
		for _, l := range locked[sourceModuleID] {
			if l.ID != lessonID {
				sourceSiblings = append(sourceSiblings, l)
			}
		}
		return s.repackLessons(ctx, tx, sourceSiblings)
	})
}

func (s *catalogService) DeleteLesson(ctx context.Context, lessonID uuid.UUID) error {
	lessons, err := s.lessonRepo.GetByIDs(ctx, nil, []uuid.UUID{lessonID})
	if err != nil {
		return fmt.Errorf("get lesson: %w", err)
	}
	if len(lessons) == 0 {
		return domain.ErrNotFound
	}
	moduleID := lessons[0].ModuleID

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.resourceRepo.DeleteByLessonIDs(ctx, tx, []uuid.UUID{lessonID}); err != nil {
			return fmt.Errorf("delete resources: %w", err)
		}
		if err := s.completionRepo.DeleteByLessonIDs(ctx, tx, []uuid.UUID{lessonID}); err != nil {
			return fmt.Errorf("delete completions: %w", err)
		}
		if err := s.lessonRepo.DeleteByIDs(ctx, tx, []uuid.UUID{lessonID}); err != nil {
			return fmt.Errorf("delete lesson: %w", err)
		}

		siblings, err := s.lessonRepo.GetByModuleIDForUpdate(ctx, tx, moduleID)
		if err != nil {
			return fmt.Errorf("lock siblings: %w", err)
		}
		return s.repackLessons(ctx, tx, siblings)
	})
}

func (s *catalogService) AddResource(ctx context.Context, lessonID uuid.UUID, input CreateResourceInput) (*domain.LessonResource, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title required", domain.ErrValidation)
	}
	if input.Kind != domain.ResourceKindUpload && input.Kind != domain.ResourceKindExternal {
		return nil, fmt.Errorf("%w: unknown resource kind %q", domain.ErrValidation, input.Kind)
	}
	if strings.TrimSpace(input.Location) == "" {
		return nil, fmt.Errorf("%w: location required", domain.ErrValidation)
	}

	lessons, err := s.lessonRepo.GetByIDs(ctx, nil, []uuid.UUID{lessonID})
	if err != nil {
		return nil, fmt.Errorf("get lesson: %w", err)
	}
	if len(lessons) == 0 {
		return nil, domain.ErrNotFound
	}

	resource := &domain.LessonResource{
		LessonID: lessonID,
		Title:    title,
		Kind:     input.Kind,
		Location: strings.TrimSpace(input.Location),
	}
	created, err := s.resourceRepo.Create(ctx, nil, []*domain.LessonResource{resource})
	if err != nil {
		return nil, fmt.Errorf("create resource: %w", err)
	}
	return created[0], nil
}

func (s *catalogService) ListResources(ctx context.Context, lessonID uuid.UUID) ([]*domain.LessonResource, error) {
	return s.resourceRepo.GetByLessonIDs(ctx, nil, []uuid.UUID{lessonID})
}

func (s *catalogService) RecordDownload(ctx context.Context, resourceID uuid.UUID) error {
	resources, err := s.resourceRepo.GetByIDs(ctx, nil, []uuid.UUID{resourceID})
	if err != nil {
		return fmt.Errorf("get resource: %w", err)
	}
	if len(resources) == 0 {
		return domain.ErrNotFound
	}
	return s.resourceRepo.IncrementDownloadCount(ctx, nil, resourceID)
}

func (s *catalogService) DeleteResource(ctx context.Context, resourceID uuid.UUID) error {
	resources, err := s.resourceRepo.GetByIDs(ctx, nil, []uuid.UUID{resourceID})
	if err != nil {
		return fmt.Errorf("get resource: %w", err)
	}
	if len(resources) == 0 {
		return domain.ErrNotFound
	}
	return s.resourceRepo.DeleteByIDs(ctx, nil, []uuid.UUID{resourceID})
}
