package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/justsurfingit/careerkit/internal/dtos"
	"github.com/justsurfingit/careerkit/internal/middleware"
	"github.com/justsurfingit/careerkit/internal/models"
	"github.com/justsurfingit/careerkit/internal/services"
)

type DocumentTailor interface {
	Generate(ctx context.Context, userID uuid.UUID, job models.JobDescriptor) (*services.TailoredDocuments, error)
}

type DocumentHandler struct {
	Tailor DocumentTailor
}

func NewDocumentHandler(t DocumentTailor) *DocumentHandler {
	return &DocumentHandler{Tailor: t}
}

// GenerateDocuments is the POST /documents/generate endpoint
func (h *DocumentHandler) GenerateDocuments(c *gin.Context) {
	var req dtos.GenerateDocumentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}

	user := middleware.CurrentUser(c)
	docs, err := h.Tailor.Generate(c.Request.Context(), user.ID, *req.JobData)
	if err != nil {
		msg := "Failed to generate documents: " + err.Error()
		if errors.Is(err, services.ErrGenerationNotConfigured) {
			msg = "Text generation service is not configured"
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
		return
	}

	c.JSON(http.StatusOK, dtos.GenerateDocumentsResponse{
		CoverLetterPdf: docs.CoverLetter,
		CvPdf:          docs.CV,
		Keywords:       docs.Keywords,
	})
}
