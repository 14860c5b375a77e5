package app

import (
	"gorm.io/gorm"

	httpH "github.com/studyhall/lms-backend/internal/http/handlers"
	"github.com/studyhall/lms-backend/internal/platform/logger"
)

type Handlers struct {
	Health      *httpH.HealthHandler
	Auth        *httpH.AuthHandler
	Course      *httpH.CourseHandler
	Module      *httpH.ModuleHandler
	Lesson      *httpH.LessonHandler
	Resource    *httpH.ResourceHandler
	Enrollment  *httpH.EnrollmentHandler
	Certificate *httpH.CertificateHandler
}

func wireHandlers(db *gorm.DB, log *logger.Logger, svcs Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:      httpH.NewHealthHandler(db),
		Auth:        httpH.NewAuthHandler(svcs.Auth),
		Course:      httpH.NewCourseHandler(svcs.Course, svcs.Catalog),
		Module:      httpH.NewModuleHandler(svcs.Catalog),
		Lesson:      httpH.NewLessonHandler(svcs.Catalog),
		Resource:    httpH.NewResourceHandler(svcs.Catalog),
		Enrollment:  httpH.NewEnrollmentHandler(svcs.Progress, svcs.Completion),
		Certificate: httpH.NewCertificateHandler(svcs.Certificate),
	}
}
