package services

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"

	enrollrepo "github.com/studyhall/lms-backend/internal/data/repos/enrollment"
	"github.com/studyhall/lms-backend/internal/data/repos/testutil"
	"github.com/studyhall/lms-backend/internal/domain"
	"github.com/studyhall/lms-backend/internal/events"
)

func newCompletionService(t *testing.T, tx *gorm.DB) CompletionService {
	t.Helper()
	log := testutil.Logger(t)
	return NewCompletionService(tx, log, enrollrepo.NewEnrollmentRepo(tx, log), events.NewNoopBus())
}

func reloadEnrollment(t *testing.T, tx *gorm.DB, enrollment *domain.Enrollment) *domain.Enrollment {
	t.Helper()
	var got domain.Enrollment
	if err := tx.First(&got, "id = ?", enrollment.ID).Error; err != nil {
		t.Fatalf("reload enrollment: %v", err)
	}
	return &got
}

func TestCancel_FromAnyStatus(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	svc := newCompletionService(t, tx)
	ctx := context.Background()

	owner := testutil.SeedUser(t, tx, domain.RoleInstructor)
	student := testutil.SeedUser(t, tx, domain.RoleStudent)
	course := testutil.SeedCourse(t, tx, owner.ID)
	enrollment := testutil.SeedEnrollment(t, tx, student.ID, course.ID)

	if err := svc.Cancel(ctx, enrollment.ID); err != nil {
		t.Fatalf("cancel active: %v", err)
	}
	if got := reloadEnrollment(t, tx, enrollment); got.Status != domain.EnrollmentStatusCancelled {
		t.Fatalf("status = %q, want cancelled", got.Status)
	}

	// Cancelling twice is a no-op.
	if err := svc.Cancel(ctx, enrollment.ID); err != nil {
		t.Fatalf("repeat cancel: %v", err)
	}

	completed := testutil.SeedEnrollment(t, tx, testutil.SeedUser(t, tx, domain.RoleStudent).ID, course.ID)
	completeEnrollment(t, tx, completed)
	if err := svc.Cancel(ctx, completed.ID); err != nil {
		t.Fatalf("cancel completed: %v", err)
	}
	got := reloadEnrollment(t, tx, completed)
	if got.Status != domain.EnrollmentStatusCancelled {
		t.Fatalf("status = %q, want cancelled", got.Status)
	}
	// History survives the cancellation.
	if got.CompletedAt == nil {
		t.Fatalf("completed_at was cleared by cancel")
	}
}

func TestReactivate_OnlyFromCancelled(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	svc := newCompletionService(t, tx)
	ctx := context.Background()

	owner := testutil.SeedUser(t, tx, domain.RoleInstructor)
	student := testutil.SeedUser(t, tx, domain.RoleStudent)
	course := testutil.SeedCourse(t, tx, owner.ID)
	enrollment := testutil.SeedEnrollment(t, tx, student.ID, course.ID)

	if err := svc.Reactivate(ctx, enrollment.ID); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("reactivate active: got %v, want ErrValidation", err)
	}

	if err := svc.Cancel(ctx, enrollment.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if err := svc.Reactivate(ctx, enrollment.ID); err != nil {
		t.Fatalf("reactivate: %v", err)
	}
	if got := reloadEnrollment(t, tx, enrollment); got.Status != domain.EnrollmentStatusActive {
		t.Fatalf("status = %q, want active", got.Status)
	}
}

func TestReactivate_PromotesFullyCompletedEnrollment(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	svc := newCompletionService(t, tx)
	ctx := context.Background()

	owner := testutil.SeedUser(t, tx, domain.RoleInstructor)
	student := testutil.SeedUser(t, tx, domain.RoleStudent)
	course := testutil.SeedCourse(t, tx, owner.ID)
	enrollment := testutil.SeedEnrollment(t, tx, student.ID, course.ID)

	// At full progress but cancelled before the evaluator ran.
	if err := tx.Model(&domain.Enrollment{}).Where("id = ?", enrollment.ID).
		Updates(map[string]interface{}{
			"progress": 100,
			"status":   domain.EnrollmentStatusCancelled,
		}).Error; err != nil {
		t.Fatalf("prime enrollment: %v", err)
	}

	if err := svc.Reactivate(ctx, enrollment.ID); err != nil {
		t.Fatalf("reactivate: %v", err)
	}
	got := reloadEnrollment(t, tx, enrollment)
	if got.Status != domain.EnrollmentStatusCompleted {
		t.Fatalf("status = %q, want completed", got.Status)
	}
	if got.CompletedAt == nil {
		t.Fatalf("completed_at not set")
	}
}

func TestEvaluate_IgnoresPartialProgress(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	svc := newCompletionService(t, tx)
	ctx := context.Background()

	owner := testutil.SeedUser(t, tx, domain.RoleInstructor)
	student := testutil.SeedUser(t, tx, domain.RoleStudent)
	course := testutil.SeedCourse(t, tx, owner.ID)
	enrollment := testutil.SeedEnrollment(t, tx, student.ID, course.ID)

	promoted, err := svc.Evaluate(ctx, tx, enrollment, 99)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if promoted {
		t.Fatalf("evaluate promoted at 99 percent")
	}
	if got := reloadEnrollment(t, tx, enrollment); got.Status != domain.EnrollmentStatusActive {
		t.Fatalf("status = %q, want active", got.Status)
	}
}
