package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/studyhall/lms-backend/internal/platform/ctxutil"
	"github.com/studyhall/lms-backend/internal/services"
)

type EnrollmentHandler struct {
	progressService   services.ProgressService
	completionService services.CompletionService
}

func NewEnrollmentHandler(progressService services.ProgressService, completionService services.CompletionService) *EnrollmentHandler {
	return &EnrollmentHandler{progressService: progressService, completionService: completionService}
}

func (eh *EnrollmentHandler) Enroll(c *gin.Context) {
	courseID, err := uuid.Parse(c.Param("course_id"))
	if err != nil {
		badRequest(c, "invalid course id")
		return
	}

	rd := ctxutil.GetRequestData(c.Request.Context())
	enrollment, err := eh.progressService.Enroll(c.Request.Context(), rd.UserID, courseID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"enrollment": enrollment})
}

func (eh *EnrollmentHandler) Get(c *gin.Context) {
	enrollmentID, err := uuid.Parse(c.Param("enrollment_id"))
	if err != nil {
		badRequest(c, "invalid enrollment id")
		return
	}

	enrollment, err := eh.progressService.GetEnrollment(c.Request.Context(), enrollmentID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"enrollment": enrollment})
}

func (eh *EnrollmentHandler) ListMine(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	enrollments, err := eh.progressService.ListByUser(c.Request.Context(), rd.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"enrollments": enrollments})
}

func (eh *EnrollmentHandler) ListByCourse(c *gin.Context) {
	courseID, err := uuid.Parse(c.Param("course_id"))
	if err != nil {
		badRequest(c, "invalid course id")
		return
	}

	enrollments, err := eh.progressService.ListByCourse(c.Request.Context(), courseID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"enrollments": enrollments})
}

func (eh *EnrollmentHandler) CompleteLesson(c *gin.Context) {
	enrollmentID, err := uuid.Parse(c.Param("enrollment_id"))
	if err != nil {
		badRequest(c, "invalid enrollment id")
		return
	}
	lessonID, err := uuid.Parse(c.Param("lesson_id"))
	if err != nil {
		badRequest(c, "invalid lesson id")
		return
	}

	enrollment, err := eh.progressService.RecordLessonComplete(c.Request.Context(), enrollmentID, lessonID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"enrollment": enrollment})
}

func (eh *EnrollmentHandler) ListCompletions(c *gin.Context) {
	enrollmentID, err := uuid.Parse(c.Param("enrollment_id"))
	if err != nil {
		badRequest(c, "invalid enrollment id")
		return
	}

	completions, err := eh.progressService.ListCompletions(c.Request.Context(), enrollmentID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"completions": completions})
}

func (eh *EnrollmentHandler) Cancel(c *gin.Context) {
	enrollmentID, err := uuid.Parse(c.Param("enrollment_id"))
	if err != nil {
		badRequest(c, "invalid enrollment id")
		return
	}

	if err := eh.completionService.Cancel(c.Request.Context(), enrollmentID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (eh *EnrollmentHandler) Reactivate(c *gin.Context) {
	enrollmentID, err := uuid.Parse(c.Param("enrollment_id"))
	if err != nil {
		badRequest(c, "invalid enrollment id")
		return
	}

	if err := eh.completionService.Reactivate(c.Request.Context(), enrollmentID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
