package app

import (
	"github.com/gin-gonic/gin"

	lmshttp "github.com/studyhall/lms-backend/internal/http"
	httpMW "github.com/studyhall/lms-backend/internal/http/middleware"
	"github.com/studyhall/lms-backend/internal/platform/logger"
)

func wireMiddleware(log *logger.Logger, svcs Services) *httpMW.AuthMiddleware {
	return httpMW.NewAuthMiddleware(log, svcs.Auth)
}

func wireRouter(log *logger.Logger, handlers Handlers, authMW *httpMW.AuthMiddleware) *gin.Engine {
	log.Info("Wiring router...")
	return lmshttp.NewRouter(lmshttp.RouterConfig{
		Log:                log,
		AuthMiddleware:     authMW,
		HealthHandler:      handlers.Health,
		AuthHandler:        handlers.Auth,
		CourseHandler:      handlers.Course,
		ModuleHandler:      handlers.Module,
		LessonHandler:      handlers.Lesson,
		ResourceHandler:    handlers.Resource,
		EnrollmentHandler:  handlers.Enrollment,
		CertificateHandler: handlers.Certificate,
	})
}
