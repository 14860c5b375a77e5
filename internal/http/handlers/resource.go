package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/studyhall/lms-backend/internal/services"
)

type ResourceHandler struct {
	catalogService services.CatalogService
}

func NewResourceHandler(catalogService services.CatalogService) *ResourceHandler {
	return &ResourceHandler{catalogService: catalogService}
}

func (rh *ResourceHandler) Create(c *gin.Context) {
	lessonID, err := uuid.Parse(c.Param("lesson_id"))
	if err != nil {
		badRequest(c, "invalid lesson id")
		return
	}

	var req struct {
		Title    string `json:"title"`
		Kind     string `json:"kind"`
		Location string `json:"location"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	resource, err := rh.catalogService.AddResource(c.Request.Context(), lessonID, services.CreateResourceInput{
		Title:    req.Title,
		Kind:     req.Kind,
		Location: req.Location,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"resource": resource})
}

func (rh *ResourceHandler) List(c *gin.Context) {
	lessonID, err := uuid.Parse(c.Param("lesson_id"))
	if err != nil {
		badRequest(c, "invalid lesson id")
		return
	}

	resources, err := rh.catalogService.ListResources(c.Request.Context(), lessonID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"resources": resources})
}

func (rh *ResourceHandler) RecordDownload(c *gin.Context) {
	resourceID, err := uuid.Parse(c.Param("resource_id"))
	if err != nil {
		badRequest(c, "invalid resource id")
		return
	}

	if err := rh.catalogService.RecordDownload(c.Request.Context(), resourceID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (rh *ResourceHandler) Delete(c *gin.Context) {
	resourceID, err := uuid.Parse(c.Param("resource_id"))
	if err != nil {
		badRequest(c, "invalid resource id")
		return
	}

	if err := rh.catalogService.DeleteResource(c.Request.Context(), resourceID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
