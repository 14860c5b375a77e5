package http

import (
	"github.com/gin-gonic/gin"

	"github.com/studyhall/lms-backend/internal/domain"
	httpH "github.com/studyhall/lms-backend/internal/http/handlers"
	httpMW "github.com/studyhall/lms-backend/internal/http/middleware"
	"github.com/studyhall/lms-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log *logger.Logger

	AuthMiddleware *httpMW.AuthMiddleware

	HealthHandler      *httpH.HealthHandler
	AuthHandler        *httpH.AuthHandler
	CourseHandler      *httpH.CourseHandler
	ModuleHandler      *httpH.ModuleHandler
	LessonHandler      *httpH.LessonHandler
	ResourceHandler    *httpH.ResourceHandler
	EnrollmentHandler  *httpH.EnrollmentHandler
	CertificateHandler *httpH.CertificateHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(httpMW.AttachRequestContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS())

	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	{
		if cfg.AuthHandler != nil {
			api.POST("/register", cfg.AuthHandler.Register)
			api.POST("/login", cfg.AuthHandler.Login)
		}
		if cfg.CertificateHandler != nil {
			// Public read-only lookup for anyone holding a code.
			api.GET("/certificates/code/:code", cfg.CertificateHandler.GetByCode)
		}
	}

	protected := api.Group("/")
	if cfg.AuthMiddleware != nil {
		protected.Use(cfg.AuthMiddleware.RequireAuth())
	}
	instructor := protected.Group("/")
	if cfg.AuthMiddleware != nil {
		instructor.Use(cfg.AuthMiddleware.RequireRole(domain.RoleInstructor))
	}

	if cfg.CourseHandler != nil {
		protected.GET("/courses", cfg.CourseHandler.List)
		protected.GET("/courses/:course_id", cfg.CourseHandler.Get)
		protected.GET("/courses/:course_id/outline", cfg.CourseHandler.Outline)

		instructor.POST("/courses", cfg.CourseHandler.Create)
		instructor.PATCH("/courses/:course_id/status", cfg.CourseHandler.UpdateStatus)
		instructor.DELETE("/courses/:course_id", cfg.CourseHandler.Delete)
	}

	if cfg.ModuleHandler != nil {
		instructor.POST("/courses/:course_id/modules", cfg.ModuleHandler.Create)
		instructor.PUT("/courses/:course_id/modules/order", cfg.ModuleHandler.Reorder)
		instructor.PATCH("/modules/:module_id", cfg.ModuleHandler.Update)
		instructor.DELETE("/modules/:module_id", cfg.ModuleHandler.Delete)
	}

	if cfg.LessonHandler != nil {
		instructor.POST("/modules/:module_id/lessons", cfg.LessonHandler.Create)
		instructor.PUT("/modules/:module_id/lessons/order", cfg.LessonHandler.Reorder)
		instructor.PATCH("/lessons/:lesson_id", cfg.LessonHandler.Update)
		instructor.POST("/lessons/:lesson_id/move", cfg.LessonHandler.Move)
		instructor.DELETE("/lessons/:lesson_id", cfg.LessonHandler.Delete)
	}

	if cfg.ResourceHandler != nil {
		protected.GET("/lessons/:lesson_id/resources", cfg.ResourceHandler.List)
		protected.POST("/resources/:resource_id/download", cfg.ResourceHandler.RecordDownload)

		instructor.POST("/lessons/:lesson_id/resources", cfg.ResourceHandler.Create)
		instructor.DELETE("/resources/:resource_id", cfg.ResourceHandler.Delete)
	}

	if cfg.EnrollmentHandler != nil {
		protected.POST("/courses/:course_id/enroll", cfg.EnrollmentHandler.Enroll)
		protected.GET("/enrollments", cfg.EnrollmentHandler.ListMine)
		protected.GET("/enrollments/:enrollment_id", cfg.EnrollmentHandler.Get)
		protected.GET("/enrollments/:enrollment_id/completions", cfg.EnrollmentHandler.ListCompletions)
		protected.POST("/enrollments/:enrollment_id/lessons/:lesson_id/complete", cfg.EnrollmentHandler.CompleteLesson)
		protected.POST("/enrollments/:enrollment_id/cancel", cfg.EnrollmentHandler.Cancel)

		instructor.GET("/courses/:course_id/enrollments", cfg.EnrollmentHandler.ListByCourse)
		instructor.POST("/enrollments/:enrollment_id/reactivate", cfg.EnrollmentHandler.Reactivate)
	}

	if cfg.CertificateHandler != nil {
		protected.GET("/enrollments/:enrollment_id/certificate", cfg.CertificateHandler.GetByEnrollment)

		instructor.POST("/enrollments/:enrollment_id/certificate", cfg.CertificateHandler.Issue)
		instructor.POST("/certificates/:certificate_id/verify", cfg.CertificateHandler.Verify)
		instructor.POST("/certificates/:certificate_id/unverify", cfg.CertificateHandler.Unverify)
	}

	return r
}
