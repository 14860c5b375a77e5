package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/studyhall/lms-backend/internal/domain"
)

// SeedUser inserts a user with a unique email and returns it.
func SeedUser(t *testing.T, tx *gorm.DB, role string) *domain.User {
	t.Helper()

	u := &domain.User{
		Email:     fmt.Sprintf("user-%s@example.test", uuid.NewString()),
		Password:  "x",
		FirstName: "Test",
		LastName:  "User",
		Role:      role,
	}
	if err := tx.Create(u).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

// SeedCourse inserts a published course owned by ownerID.
func SeedCourse(t *testing.T, tx *gorm.DB, ownerID uuid.UUID) *domain.Course {
	t.Helper()

	c := &domain.Course{
		OwnerID: ownerID,
		Title:   "Test Course",
		Status:  domain.CourseStatusPublished,
	}
	if err := tx.Create(c).Error; err != nil {
		t.Fatalf("seed course: %v", err)
	}
	return c
}

// SeedModule inserts a module at the given display order.
func SeedModule(t *testing.T, tx *gorm.DB, courseID uuid.UUID, title string, order int) *domain.CourseModule {
	t.Helper()

	m := &domain.CourseModule{
		CourseID:     courseID,
		Title:        title,
		DisplayOrder: order,
	}
	if err := tx.Create(m).Error; err != nil {
		t.Fatalf("seed module: %v", err)
	}
	return m
}

// SeedLesson inserts a mandatory video lesson at the given display order.
func SeedLesson(t *testing.T, tx *gorm.DB, moduleID uuid.UUID, title string, order int) *domain.Lesson {
	t.Helper()

	l := &domain.Lesson{
		ModuleID:     moduleID,
		Title:        title,
		Kind:         domain.LessonKindVideo,
		DisplayOrder: order,
		IsMandatory:  true,
	}
	if err := tx.Create(l).Error; err != nil {
		t.Fatalf("seed lesson: %v", err)
	}
	return l
}

// SeedOptionalLesson inserts a non-mandatory lesson at the given display order.
func SeedOptionalLesson(t *testing.T, tx *gorm.DB, moduleID uuid.UUID, title string, order int) *domain.Lesson {
	t.Helper()

	l := &domain.Lesson{
		ModuleID:     moduleID,
		Title:        title,
		Kind:         domain.LessonKindReading,
		DisplayOrder: order,
		IsMandatory:  false,
	}
	if err := tx.Create(l).Error; err != nil {
		t.Fatalf("seed optional lesson: %v", err)
	}
	return l
}

// SeedResource inserts an external resource attached to a lesson.
func SeedResource(t *testing.T, tx *gorm.DB, lessonID uuid.UUID, title string) *domain.LessonResource {
	t.Helper()

	res := &domain.LessonResource{
		LessonID: lessonID,
		Title:    title,
		Kind:     domain.ResourceKindExternal,
		Location: "https://example.test/" + uuid.NewString(),
	}
	if err := tx.Create(res).Error; err != nil {
		t.Fatalf("seed resource: %v", err)
	}
	return res
}

// SeedEnrollment inserts an active enrollment for userID in courseID.
func SeedEnrollment(t *testing.T, tx *gorm.DB, userID, courseID uuid.UUID) *domain.Enrollment {
	t.Helper()

	e := &domain.Enrollment{
		UserID:     userID,
		CourseID:   courseID,
		Status:     domain.EnrollmentStatusActive,
		EnrolledAt: time.Now().UTC(),
	}
	if err := tx.Create(e).Error; err != nil {
		t.Fatalf("seed enrollment: %v", err)
	}
	return e
}
