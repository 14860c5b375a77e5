package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/studyhall/lms-backend/internal/services"
)

type ModuleHandler struct {
	catalogService services.CatalogService
}

func NewModuleHandler(catalogService services.CatalogService) *ModuleHandler {
	return &ModuleHandler{catalogService: catalogService}
}

func (mh *ModuleHandler) Create(c *gin.Context) {
	courseID, err := uuid.Parse(c.Param("course_id"))
	if err != nil {
		badRequest(c, "invalid course id")
		return
	}

	var req struct {
		Title           string `json:"title"`
		Description     string `json:"description"`
		DurationMinutes int    `json:"duration_minutes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	module, err := mh.catalogService.CreateModule(c.Request.Context(), courseID, services.CreateModuleInput{
		Title:           req.Title,
		Description:     req.Description,
		DurationMinutes: req.DurationMinutes,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"module": module})
}

func (mh *ModuleHandler) Update(c *gin.Context) {
	moduleID, err := uuid.Parse(c.Param("module_id"))
	if err != nil {
		badRequest(c, "invalid module id")
		return
	}

	var req struct {
		Title           string `json:"title"`
		Description     string `json:"description"`
		DurationMinutes int    `json:"duration_minutes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	module, err := mh.catalogService.UpdateModule(c.Request.Context(), moduleID, services.CreateModuleInput{
		Title:           req.Title,
		Description:     req.Description,
		DurationMinutes: req.DurationMinutes,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"module": module})
}

func (mh *ModuleHandler) Reorder(c *gin.Context) {
	courseID, err := uuid.Parse(c.Param("course_id"))
	if err != nil {
		badRequest(c, "invalid course id")
		return
	}

	var req struct {
		OrderedIDs []uuid.UUID `json:"ordered_ids"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	if err := mh.catalogService.ReorderModules(c.Request.Context(), courseID, req.OrderedIDs); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (mh *ModuleHandler) Delete(c *gin.Context) {
	moduleID, err := uuid.Parse(c.Param("module_id"))
	if err != nil {
		badRequest(c, "invalid module id")
		return
	}

	if err := mh.catalogService.DeleteModule(c.Request.Context(), moduleID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
