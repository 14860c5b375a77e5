package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/studyhall/lms-backend/internal/services"
)

type CertificateHandler struct {
	certificateService services.CertificateService
}

func NewCertificateHandler(certificateService services.CertificateService) *CertificateHandler {
	return &CertificateHandler{certificateService: certificateService}
}

func (ch *CertificateHandler) Issue(c *gin.Context) {
	enrollmentID, err := uuid.Parse(c.Param("enrollment_id"))
	if err != nil {
		badRequest(c, "invalid enrollment id")
		return
	}

	certificate, err := ch.certificateService.Issue(c.Request.Context(), enrollmentID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"certificate": certificate})
}

func (ch *CertificateHandler) GetByEnrollment(c *gin.Context) {
	enrollmentID, err := uuid.Parse(c.Param("enrollment_id"))
	if err != nil {
		badRequest(c, "invalid enrollment id")
		return
	}

	certificate, err := ch.certificateService.GetByEnrollment(c.Request.Context(), enrollmentID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"certificate": certificate})
}

// GetByCode is the public lookup endpoint printed on certificates. It only
// reads; the verified flag changes through the staff verify/unverify routes.
func (ch *CertificateHandler) GetByCode(c *gin.Context) {
	code := c.Param("code")
	if code == "" {
		badRequest(c, "code required")
		return
	}

	certificate, err := ch.certificateService.GetByCode(c.Request.Context(), code)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"certificate": certificate})
}

func (ch *CertificateHandler) Verify(c *gin.Context) {
	certificateID, err := uuid.Parse(c.Param("certificate_id"))
	if err != nil {
		badRequest(c, "invalid certificate id")
		return
	}

	if err := ch.certificateService.Verify(c.Request.Context(), certificateID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (ch *CertificateHandler) Unverify(c *gin.Context) {
	certificateID, err := uuid.Parse(c.Param("certificate_id"))
	if err != nil {
		badRequest(c, "invalid certificate id")
		return
	}

	if err := ch.certificateService.Unverify(c.Request.Context(), certificateID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
