package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/studyhall/lms-backend/internal/services"
)

type LessonHandler struct {
	catalogService services.CatalogService
}

func NewLessonHandler(catalogService services.CatalogService) *LessonHandler {
	return &LessonHandler{catalogService: catalogService}
}

type lessonRequest struct {
	Title           string `json:"title"`
	Kind            string `json:"kind"`
	Content         string `json:"content"`
	ContentURL      string `json:"content_url"`
	DurationMinutes int    `json:"duration_minutes"`
	IsPreview       *bool  `json:"is_preview"`
	IsMandatory     *bool  `json:"is_mandatory"`
	Points          int    `json:"points"`
}

func (req lessonRequest) toInput() services.CreateLessonInput {
	return services.CreateLessonInput{
		Title:           req.Title,
		Kind:            req.Kind,
		Content:         req.Content,
		ContentURL:      req.ContentURL,
		DurationMinutes: req.DurationMinutes,
		IsPreview:       req.IsPreview,
		IsMandatory:     req.IsMandatory,
		Points:          req.Points,
	}
}

func (lh *LessonHandler) Create(c *gin.Context) {
	moduleID, err := uuid.Parse(c.Param("module_id"))
	if err != nil {
		badRequest(c, "invalid module id")
		return
	}

	var req lessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	lesson, err := lh.catalogService.CreateLesson(c.Request.Context(), moduleID, req.toInput())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"lesson": lesson})
}

func (lh *LessonHandler) Update(c *gin.Context) {
	lessonID, err := uuid.Parse(c.Param("lesson_id"))
	if err != nil {
		badRequest(c, "invalid lesson id")
		return
	}

	var req lessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	lesson, err := lh.catalogService.UpdateLesson(c.Request.Context(), lessonID, req.toInput())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"lesson": lesson})
}

func (lh *LessonHandler) Reorder(c *gin.Context) {
	moduleID, err := uuid.Parse(c.Param("module_id"))
	if err != nil {
		badRequest(c, "invalid module id")
		return
	}

	var req struct {
		OrderedIDs []uuid.UUID `json:"ordered_ids"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	if err := lh.catalogService.ReorderLessons(c.Request.Context(), moduleID, req.OrderedIDs); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (lh *LessonHandler) Move(c *gin.Context) {
	lessonID, err := uuid.Parse(c.Param("lesson_id"))
	if err != nil {
		badRequest(c, "invalid lesson id")
		return
	}

	var req struct {
		TargetModuleID uuid.UUID `json:"target_module_id"`
		Position       int       `json:"position"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	if err := lh.catalogService.MoveLesson(c.Request.Context(), lessonID, req.TargetModuleID, req.Position); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (lh *LessonHandler) Delete(c *gin.Context) {
	lessonID, err := uuid.Parse(c.Param("lesson_id"))
	if err != nil {
		badRequest(c, "invalid lesson id")
		return
	}

	if err := lh.catalogService.DeleteLesson(c.Request.Context(), lessonID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
