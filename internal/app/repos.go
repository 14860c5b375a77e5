package app

import (
	"gorm.io/gorm"

	"github.com/studyhall/lms-backend/internal/data/repos/catalog"
	enrollrepo "github.com/studyhall/lms-backend/internal/data/repos/enrollment"
	userrepo "github.com/studyhall/lms-backend/internal/data/repos/user"
	"github.com/studyhall/lms-backend/internal/platform/logger"
)

type Repos struct {
	User        userrepo.UserRepo
	Course      catalog.CourseRepo
	Module      catalog.ModuleRepo
	Lesson      catalog.LessonRepo
	Resource    catalog.ResourceRepo
	Enrollment  enrollrepo.EnrollmentRepo
	Completion  enrollrepo.CompletionRepo
	Certificate enrollrepo.CertificateRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:        userrepo.NewUserRepo(db, log),
		Course:      catalog.NewCourseRepo(db, log),
		Module:      catalog.NewModuleRepo(db, log),
		Lesson:      catalog.NewLessonRepo(db, log),
		Resource:    catalog.NewResourceRepo(db, log),
		Enrollment:  enrollrepo.NewEnrollmentRepo(db, log),
		Completion:  enrollrepo.NewCompletionRepo(db, log),
		Certificate: enrollrepo.NewCertificateRepo(db, log),
	}
}
