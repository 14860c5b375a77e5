package app

import (
	"gorm.io/gorm"

	"github.com/studyhall/lms-backend/internal/events"
	"github.com/studyhall/lms-backend/internal/platform/logger"
	"github.com/studyhall/lms-backend/internal/services"
)

type Services struct {
	Auth        services.AuthService
	Course      services.CourseService
	Catalog     services.CatalogService
	Progress    services.ProgressService
	Completion  services.CompletionService
	Certificate services.CertificateService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, repos Repos, bus events.Bus) Services {
	log.Info("Wiring services...")

	auth := services.NewAuthService(db, log, repos.User, cfg.JWTSecretKey, cfg.AccessTokenTTL)
	course := services.NewCourseService(db, log, repos.Course, repos.Module, repos.Lesson, repos.Resource, repos.Enrollment, repos.Completion, repos.Certificate)
	catalog := services.NewCatalogService(db, log, repos.Course, repos.Module, repos.Lesson, repos.Resource, repos.Completion)
	completion := services.NewCompletionService(db, log, repos.Enrollment, bus)
	progress := services.NewProgressService(db, log, repos.Course, repos.Module, repos.Lesson, repos.Enrollment, repos.Completion, completion, bus)
	certificate := services.NewCertificateService(db, log, repos.Enrollment, repos.Certificate, bus)

	return Services{
		Auth:        auth,
		Course:      course,
		Catalog:     catalog,
		Progress:    progress,
		Completion:  completion,
		Certificate: certificate,
	}
}
