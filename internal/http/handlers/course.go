package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/studyhall/lms-backend/internal/platform/ctxutil"
	"github.com/studyhall/lms-backend/internal/services"
)

type CourseHandler struct {
	courseService  services.CourseService
	catalogService services.CatalogService
}

func NewCourseHandler(courseService services.CourseService, catalogService services.CatalogService) *CourseHandler {
	return &CourseHandler{courseService: courseService, catalogService: catalogService}
}

func (ch *CourseHandler) Create(c *gin.Context) {
	var req struct {
		Title       string         `json:"title"`
		Description string         `json:"description"`
		Metadata    datatypes.JSON `json:"metadata"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	rd := ctxutil.GetRequestData(c.Request.Context())
	course, err := ch.courseService.CreateCourse(c.Request.Context(), rd.UserID, services.CreateCourseInput{
		Title:       req.Title,
		Description: req.Description,
		Metadata:    req.Metadata,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"course": course})
}

func (ch *CourseHandler) Get(c *gin.Context) {
	courseID, err := uuid.Parse(c.Param("course_id"))
	if err != nil {
		badRequest(c, "invalid course id")
		return
	}

	course, err := ch.courseService.GetCourse(c.Request.Context(), courseID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"course": course})
}

func (ch *CourseHandler) List(c *gin.Context) {
	courses, err := ch.courseService.ListCourses(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"courses": courses})
}

// Outline returns the course's modules with their lessons, both in display
// order.
func (ch *CourseHandler) Outline(c *gin.Context) {
	courseID, err := uuid.Parse(c.Param("course_id"))
	if err != nil {
		badRequest(c, "invalid course id")
		return
	}

	outline, err := ch.catalogService.GetCourseOutline(c.Request.Context(), courseID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"modules": outline})
}

func (ch *CourseHandler) UpdateStatus(c *gin.Context) {
	courseID, err := uuid.Parse(c.Param("course_id"))
	if err != nil {
		badRequest(c, "invalid course id")
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	if err := ch.courseService.UpdateStatus(c.Request.Context(), courseID, req.Status); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (ch *CourseHandler) Delete(c *gin.Context) {
	courseID, err := uuid.Parse(c.Param("course_id"))
	if err != nil {
		badRequest(c, "invalid course id")
		return
	}

	if err := ch.courseService.DeleteCourse(c.Request.Context(), courseID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
