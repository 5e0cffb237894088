package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/target-saas/study-tracker-api/internal/models"
	"github.com/target-saas/study-tracker-api/internal/service"
	appErrors "github.com/target-saas/study-tracker-api/pkg/errors"
	"github.com/target-saas/study-tracker-api/pkg/response"
)

// CertificateHandler wires the certificate endpoints, including the public
// verification route.
type CertificateHandler struct {
	certificates *service.CertificateService
}

// NewCertificateHandler constructs a CertificateHandler.
func NewCertificateHandler(certificates *service.CertificateService) *CertificateHandler {
	return &CertificateHandler{certificates: certificates}
}

// Generate handles POST /certificates.
func (h *CertificateHandler) Generate(c *gin.Context) {
	claims, ok := currentUser(c)
	if !ok {
		return
	}

	cert, err := h.certificates.Generate(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, cert)
}

// RegisterExternal handles POST /certificates/external.
func (h *CertificateHandler) RegisterExternal(c *gin.Context) {
	claims, ok := currentUser(c)
	if !ok {
		return
	}

	var req models.ExternalCertificateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}

	cert, err := h.certificates.RegisterExternal(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, cert)
}

// List handles GET /certificates.
func (h *CertificateHandler) List(c *gin.Context) {
	claims, ok := currentUser(c)
	if !ok {
		return
	}

	certs, err := h.certificates.ListForStudent(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, certs, nil)
}

// Download handles GET /certificates/:id/download.
func (h *CertificateHandler) Download(c *gin.Context) {
	claims, ok := currentUser(c)
	if !ok {
		return
	}

	path, err := h.certificates.Download(c.Request.Context(), claims.UserID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Type", "application/pdf")
	c.FileAttachment(path, "certificate.pdf")
}

// Verify handles GET /verify/:code. No authentication.
func (h *CertificateHandler) Verify(c *gin.Context) {
	verification, err := h.certificates.Verify(c.Request.Context(), c.Param("code"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, verification, nil)
}
