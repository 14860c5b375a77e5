package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/studyhall/lms-backend/internal/data/repos/catalog"
	enrollrepo "github.com/studyhall/lms-backend/internal/data/repos/enrollment"
	"github.com/studyhall/lms-backend/internal/data/repos/testutil"
	"github.com/studyhall/lms-backend/internal/domain"
)

func newCatalogService(t *testing.T, tx *gorm.DB) CatalogService {
	t.Helper()
	log := testutil.Logger(t)
	return NewCatalogService(
		tx,
		log,
		catalog.NewCourseRepo(tx, log),
		catalog.NewModuleRepo(tx, log),
		catalog.NewLessonRepo(tx, log),
		catalog.NewResourceRepo(tx, log),
		enrollrepo.NewCompletionRepo(tx, log),
	)
}

func moduleOrders(t *testing.T, tx *gorm.DB, courseID uuid.UUID) map[uuid.UUID]int {
	t.Helper()
	var modules []*domain.CourseModule
	if err := tx.Where("course_id = ?", courseID).Order("display_order ASC").Find(&modules).Error; err != nil {
		t.Fatalf("load modules: %v", err)
	}
	orders := make(map[uuid.UUID]int, len(modules))
	for i, m := range modules {
		if m.DisplayOrder != i+1 {
			t.Fatalf("module order not contiguous: got %d at position %d", m.DisplayOrder, i+1)
		}
		orders[m.ID] = m.DisplayOrder
	}
	return orders
}

func lessonOrders(t *testing.T, tx *gorm.DB, moduleID uuid.UUID) []uuid.UUID {
	t.Helper()
	var lessons []*domain.Lesson
	if err := tx.Where("module_id = ?", moduleID).Order("display_order ASC").Find(&lessons).Error; err != nil {
		t.Fatalf("load lessons: %v", err)
	}
	ids := make([]uuid.UUID, 0, len(lessons))
	for i, l := range lessons {
		if l.DisplayOrder != i+1 {
			t.Fatalf("lesson order not contiguous: got %d at position %d", l.DisplayOrder, i+1)
		}
		ids = append(ids, l.ID)
	}
	return ids
}

func TestCreateModule_AppendsAtEnd(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	svc := newCatalogService(t, tx)
	ctx := context.Background()

	owner := testutil.SeedUser(t, tx, domain.RoleInstructor)
	course := testutil.SeedCourse(t, tx, owner.ID)

	first, err := svc.CreateModule(ctx, course.ID, CreateModuleInput{Title: "Basics"})
	if err != nil {
		t.Fatalf("create first module: %v", err)
	}
	if first.DisplayOrder != 1 {
		t.Fatalf("first module order = %d, want 1", first.DisplayOrder)
	}

	second, err := svc.CreateModule(ctx, course.ID, CreateModuleInput{Title: "Advanced"})
	if err != nil {
		t.Fatalf("create second module: %v", err)
	}
	if second.DisplayOrder != 2 {
		t.Fatalf("second module order = %d, want 2", second.DisplayOrder)
	}

	moduleOrders(t, tx, course.ID)
}

func TestReorderModules_AppliesExactPermutation(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	svc := newCatalogService(t, tx)
	ctx := context.Background()

	owner := testutil.SeedUser(t, tx, domain.RoleInstructor)
	course := testutil.SeedCourse(t, tx, owner.ID)
	a := testutil.SeedModule(t, tx, course.ID, "A", 1)
	b := testutil.SeedModule(t, tx, course.ID, "B", 2)
	c := testutil.SeedModule(t, tx, course.ID, "C", 3)

	if err := svc.ReorderModules(ctx, course.ID, []uuid.UUID{c.ID, a.ID, b.ID}); err != nil {
		t.Fatalf("reorder: %v", err)
	}

	orders := moduleOrders(t, tx, course.ID)
	if orders[c.ID] != 1 || orders[a.ID] != 2 || orders[b.ID] != 3 {
		t.Fatalf("unexpected orders: %v", orders)
	}
}

func TestReorderModules_RejectsBadSets(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	svc := newCatalogService(t, tx)
	ctx := context.Background()

	owner := testutil.SeedUser(t, tx, domain.RoleInstructor)
	course := testutil.SeedCourse(t, tx, owner.ID)
	a := testutil.SeedModule(t, tx, course.ID, "A", 1)
	b := testutil.SeedModule(t, tx, course.ID, "B", 2)

	cases := map[string][]uuid.UUID{
		"missing module": {a.ID},
		"duplicate id":   {a.ID, a.ID},
		"stranger id":    {a.ID, uuid.New()},
		"extra member":   {a.ID, b.ID, uuid.New()},
	}
	for name, ids := range cases {
		if err := svc.ReorderModules(ctx, course.ID, ids); !errors.Is(err, domain.ErrInvalidOrder) {
			t.Fatalf("%s: got %v, want ErrInvalidOrder", name, err)
		}
	}

	orders := moduleOrders(t, tx, course.ID)
	if orders[a.ID] != 1 || orders[b.ID] != 2 {
		t.Fatalf("rejected reorder changed state: %v", orders)
	}
}

func TestDeleteModule_CascadesAndRepacks(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	svc := newCatalogService(t, tx)
	ctx := context.Background()

	owner := testutil.SeedUser(t, tx, domain.RoleInstructor)
	course := testutil.SeedCourse(t, tx, owner.ID)
	a := testutil.SeedModule(t, tx, course.ID, "A", 1)
	b := testutil.SeedModule(t, tx, course.ID, "B", 2)
	c := testutil.SeedModule(t, tx, course.ID, "C", 3)

	lessonInA := testutil.SeedLesson(t, tx, a.ID, "L1", 1)
	lessonInB := testutil.SeedLesson(t, tx, b.ID, "L2", 1)
	resourceInB := testutil.SeedResource(t, tx, lessonInB.ID, "slides")

	if err := svc.DeleteModule(ctx, b.ID); err != nil {
		t.Fatalf("delete module: %v", err)
	}

	orders := moduleOrders(t, tx, course.ID)
	if len(orders) != 2 || orders[a.ID] != 1 || orders[c.ID] != 2 {
		t.Fatalf("unexpected orders after delete: %v", orders)
	}

	var lessonCount int64
	if err := tx.Model(&domain.Lesson{}).Where("module_id = ?", b.ID).Count(&lessonCount).Error; err != nil {
		t.Fatalf("count lessons: %v", err)
	}
	if lessonCount != 0 {
		t.Fatalf("deleted module still has %d lessons", lessonCount)
	}

	var resourceCount int64
	if err := tx.Model(&domain.LessonResource{}).Where("id = ?", resourceInB.ID).Count(&resourceCount).Error; err != nil {
		t.Fatalf("count resources: %v", err)
	}
	if resourceCount != 0 {
		t.Fatalf("resource survived module delete")
	}

	// The sibling module's content is untouched.
	var survivor int64
	if err := tx.Model(&domain.Lesson{}).Where("id = ?", lessonInA.ID).Count(&survivor).Error; err != nil {
		t.Fatalf("count surviving lesson: %v", err)
	}
	if survivor != 1 {
		t.Fatalf("lesson outside deleted module was removed")
	}
}

func TestDeleteLesson_RepacksSiblings(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	svc := newCatalogService(t, tx)
	ctx := context.Background()

	owner := testutil.SeedUser(t, tx, domain.RoleInstructor)
	course := testutil.SeedCourse(t, tx, owner.ID)
	module := testutil.SeedModule(t, tx, course.ID, "A", 1)
	l1 := testutil.SeedLesson(t, tx, module.ID, "L1", 1)
	l2 := testutil.SeedLesson(t, tx, module.ID, "L2", 2)
	l3 := testutil.SeedLesson(t, tx, module.ID, "L3", 3)

	if err := svc.DeleteLesson(ctx, l2.ID); err != nil {
		t.Fatalf("delete lesson: %v", err)
	}

	ids := lessonOrders(t, tx, module.ID)
	if len(ids) != 2 || ids[0] != l1.ID || ids[1] != l3.ID {
		t.Fatalf("unexpected lessons after delete: %v", ids)
	}
}

func TestReorderLessons_AppliesExactPermutation(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	svc := newCatalogService(t, tx)
	ctx := context.Background()

	owner := testutil.SeedUser(t, tx, domain.RoleInstructor)
	course := testutil.SeedCourse(t, tx, owner.ID)
	module := testutil.SeedModule(t, tx, course.ID, "A", 1)
	l1 := testutil.SeedLesson(t, tx, module.ID, "L1", 1)
	l2 := testutil.SeedLesson(t, tx, module.ID, "L2", 2)
	l3 := testutil.SeedLesson(t, tx, module.ID, "L3", 3)

	if err := svc.ReorderLessons(ctx, module.ID, []uuid.UUID{l3.ID, l1.ID, l2.ID}); err != nil {
		t.Fatalf("reorder: %v", err)
	}

	ids := lessonOrders(t, tx, module.ID)
	if len(ids) != 3 || ids[0] != l3.ID || ids[1] != l1.ID || ids[2] != l2.ID {
		t.Fatalf("unexpected lesson order: %v", ids)
	}
}

func TestReorderLessons_RejectsBadSets(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	svc := newCatalogService(t, tx)
	ctx := context.Background()

	owner := testutil.SeedUser(t, tx, domain.RoleInstructor)
	course := testutil.SeedCourse(t, tx, owner.ID)
	module := testutil.SeedModule(t, tx, course.ID, "A", 1)
	l1 := testutil.SeedLesson(t, tx, module.ID, "L1", 1)
	l2 := testutil.SeedLesson(t, tx, module.ID, "L2", 2)

	cases := map[string][]uuid.UUID{
		"missing lesson": {l1.ID},
		"duplicate id":   {l1.ID, l1.ID},
		"stranger id":    {l1.ID, uuid.New()},
		"extra member":   {l1.ID, l2.ID, uuid.New()},
	}
	for name, ids := range cases {
		if err := svc.ReorderLessons(ctx, module.ID, ids); !errors.Is(err, domain.ErrInvalidOrder) {
			t.Fatalf("%s: got %v, want ErrInvalidOrder", name, err)
		}
	}

	ids := lessonOrders(t, tx, module.ID)
	if len(ids) != 2 || ids[0] != l1.ID || ids[1] != l2.ID {
		t.Fatalf("rejected reorder changed state: %v", ids)
	}
}

func TestUpdateLesson_PreservesFlagsWhenOmitted(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	svc := newCatalogService(t, tx)
	ctx := context.Background()

	owner := testutil.SeedUser(t, tx, domain.RoleInstructor)
	course := testutil.SeedCourse(t, tx, owner.ID)
	module := testutil.SeedModule(t, tx, course.ID, "A", 1)

	preview := true
	notMandatory := false
	lesson, err := svc.CreateLesson(ctx, module.ID, CreateLessonInput{
		Title:       "Intro",
		Kind:        domain.LessonKindVideo,
		IsPreview:   &preview,
		IsMandatory: &notMandatory,
	})
	if err != nil {
		t.Fatalf("create lesson: %v", err)
	}

	// A partial update that omits both flags must not reset them.
	updated, err := svc.UpdateLesson(ctx, lesson.ID, CreateLessonInput{Title: "Intro v2"})
	if err != nil {
		t.Fatalf("update lesson: %v", err)
	}
	if !updated.IsPreview {
		t.Fatalf("update reset is_preview")
	}
	if updated.IsMandatory {
		t.Fatalf("update reset is_mandatory")
	}

	var got domain.Lesson
	if err := tx.First(&got, "id = ?", lesson.ID).Error; err != nil {
		t.Fatalf("reload lesson: %v", err)
	}
	if !got.IsPreview || got.IsMandatory {
		t.Fatalf("persisted flags changed: preview=%v mandatory=%v", got.IsPreview, got.IsMandatory)
	}
}

func TestMoveLesson_AcrossModules(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	svc := newCatalogService(t, tx)
	ctx := context.Background()

	owner := testutil.SeedUser(t, tx, domain.RoleInstructor)
	course := testutil.SeedCourse(t, tx, owner.ID)
	src := testutil.SeedModule(t, tx, course.ID, "Src", 1)
	dst := testutil.SeedModule(t, tx, course.ID, "Dst", 2)

	s1 := testutil.SeedLesson(t, tx, src.ID, "S1", 1)
	s2 := testutil.SeedLesson(t, tx, src.ID, "S2", 2)
	s3 := testutil.SeedLesson(t, tx, src.ID, "S3", 3)
	d1 := testutil.SeedLesson(t, tx, dst.ID, "D1", 1)
	d2 := testutil.SeedLesson(t, tx, dst.ID, "D2", 2)

	if err := svc.MoveLesson(ctx, s2.ID, dst.ID, 2); err != nil {
		t.Fatalf("move lesson: %v", err)
	}

	srcIDs := lessonOrders(t, tx, src.ID)
	if len(srcIDs) != 2 || srcIDs[0] != s1.ID || srcIDs[1] != s3.ID {
		t.Fatalf("unexpected source lessons: %v", srcIDs)
	}

	dstIDs := lessonOrders(t, tx, dst.ID)
	if len(dstIDs) != 3 || dstIDs[0] != d1.ID || dstIDs[1] != s2.ID || dstIDs[2] != d2.ID {
		t.Fatalf("unexpected target lessons: %v", dstIDs)
	}
}

func TestMoveLesson_ClampsPosition(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	svc := newCatalogService(t, tx)
	ctx := context.Background()

	owner := testutil.SeedUser(t, tx, domain.RoleInstructor)
	course := testutil.SeedCourse(t, tx, owner.ID)
	src := testutil.SeedModule(t, tx, course.ID, "Src", 1)
	dst := testutil.SeedModule(t, tx, course.ID, "Dst", 2)

	moving := testutil.SeedLesson(t, tx, src.ID, "S1", 1)
	existing := testutil.SeedLesson(t, tx, dst.ID, "D1", 1)

	if err := svc.MoveLesson(ctx, moving.ID, dst.ID, 99); err != nil {
		t.Fatalf("move lesson: %v", err)
	}

	dstIDs := lessonOrders(t, tx, dst.ID)
	if len(dstIDs) != 2 || dstIDs[0] != existing.ID || dstIDs[1] != moving.ID {
		t.Fatalf("unexpected target lessons: %v", dstIDs)
	}
}

// Two opposite cross-module moves run against the shared connection so the
// row locks are real. Both must finish without deadlocking and leave both
// modules contiguous.
func TestMoveLesson_ConcurrentOppositeMoves(t *testing.T) {
	db := testutil.DB(t)
	log := testutil.Logger(t)
	svc := NewCatalogService(
		db,
		log,
		catalog.NewCourseRepo(db, log),
		catalog.NewModuleRepo(db, log),
		catalog.NewLessonRepo(db, log),
		catalog.NewResourceRepo(db, log),
		enrollrepo.NewCompletionRepo(db, log),
	)
	ctx := context.Background()

	owner := testutil.SeedUser(t, db, domain.RoleInstructor)
	course := testutil.SeedCourse(t, db, owner.ID)
	modA := testutil.SeedModule(t, db, course.ID, "A", 1)
	modB := testutil.SeedModule(t, db, course.ID, "B", 2)
	a1 := testutil.SeedLesson(t, db, modA.ID, "A1", 1)
	testutil.SeedLesson(t, db, modA.ID, "A2", 2)
	b1 := testutil.SeedLesson(t, db, modB.ID, "B1", 1)
	testutil.SeedLesson(t, db, modB.ID, "B2", 2)
	t.Cleanup(func() {
		db.Where("module_id IN ?", []uuid.UUID{modA.ID, modB.ID}).Delete(&domain.Lesson{})
		db.Where("course_id = ?", course.ID).Delete(&domain.CourseModule{})
		db.Where("id = ?", course.ID).Delete(&domain.Course{})
		db.Unscoped().Where("id = ?", owner.ID).Delete(&domain.User{})
	})

	var wg sync.WaitGroup
	results := make([]error, 2)
	wg.Add(2)
	go func() {
		defer wg.Done()
		results[0] = svc.MoveLesson(ctx, a1.ID, modB.ID, 1)
	}()
	go func() {
		defer wg.Done()
		results[1] = svc.MoveLesson(ctx, b1.ID, modA.ID, 1)
	}()
	wg.Wait()
	for i, err := range results {
		if err != nil {
			t.Fatalf("move %d: %v", i, err)
		}
	}

	aIDs := lessonOrders(t, db, modA.ID)
	bIDs := lessonOrders(t, db, modB.ID)
	if len(aIDs) != 2 || len(bIDs) != 2 {
		t.Fatalf("lesson counts = %d and %d, want 2 and 2", len(aIDs), len(bIDs))
	}
	if aIDs[0] != b1.ID && aIDs[1] != b1.ID {
		t.Fatalf("moved lesson missing from first module: %v", aIDs)
	}
	if bIDs[0] != a1.ID && bIDs[1] != a1.ID {
		t.Fatalf("moved lesson missing from second module: %v", bIDs)
	}
}

func TestCreateLesson_RejectsUnknownKind(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	svc := newCatalogService(t, tx)
	ctx := context.Background()

	owner := testutil.SeedUser(t, tx, domain.RoleInstructor)
	course := testutil.SeedCourse(t, tx, owner.ID)
	module := testutil.SeedModule(t, tx, course.ID, "A", 1)

	_, err := svc.CreateLesson(ctx, module.ID, CreateLessonInput{Title: "L", Kind: "webinar"})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("got %v, want ErrValidation", err)
	}
}

func TestRecordDownload_IncrementsCounter(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	svc := newCatalogService(t, tx)
	ctx := context.Background()

	owner := testutil.SeedUser(t, tx, domain.RoleInstructor)
	course := testutil.SeedCourse(t, tx, owner.ID)
	module := testutil.SeedModule(t, tx, course.ID, "A", 1)
	lesson := testutil.SeedLesson(t, tx, module.ID, "L1", 1)
	resource := testutil.SeedResource(t, tx, lesson.ID, "slides")

	for i := 0; i < 3; i++ {
		if err := svc.RecordDownload(ctx, resource.ID); err != nil {
			t.Fatalf("record download: %v", err)
		}
	}

	var got domain.LessonResource
	if err := tx.First(&got, "id = ?", resource.ID).Error; err != nil {
		t.Fatalf("reload resource: %v", err)
	}
	if got.DownloadCount != 3 {
		t.Fatalf("download count = %d, want 3", got.DownloadCount)
	}
}
