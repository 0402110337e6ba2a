package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/justsurfingit/careerkit/internal/dtos"
	"github.com/justsurfingit/careerkit/internal/middleware"
	"github.com/justsurfingit/careerkit/internal/models"
	"github.com/justsurfingit/careerkit/internal/services"
)

type JobExtractor interface {
	ExtractJobs(ctx context.Context, userID uuid.UUID, accessToken string, sources []string) ([]models.JobOpportunity, error)
}

type JobLister interface {
	ListOpportunities(ctx context.Context, userID uuid.UUID, source models.Source) ([]models.JobOpportunity, error)
	ListApplications(ctx context.Context, userID uuid.UUID, f services.ApplicationFilter) ([]models.Application, error)
}

type JobHandler struct {
	Extractor JobExtractor
	Jobs      JobLister
}

func NewJobHandler(extractor JobExtractor, jobs JobLister) *JobHandler {
	return &JobHandler{
		Extractor: extractor,
		Jobs:      jobs,
	}
}

// ExtractGmailJobs is the POST /jobs/extract-gmail endpoint
func (h *JobHandler) ExtractGmailJobs(c *gin.Context) {
	var req dtos.ExtractJobsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}

	user := middleware.CurrentUser(c)
	jobs, err := h.Extractor.ExtractJobs(c.Request.Context(), user.ID, req.AccessToken, req.Sources)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, dtos.ExtractJobsResponse{
		Message: "Successfully extracted job opportunities",
		Count:   len(jobs),
		Jobs:    jobs,
	})
}

// ListOpportunities is the GET /opportunities endpoint
func (h *JobHandler) ListOpportunities(c *gin.Context) {
	var source models.Source
	if raw := c.Query("source"); raw != "" {
		s, ok := models.ParseSource(raw)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown source: " + raw})
			return
		}
		source = s
	}

	user := middleware.CurrentUser(c)
	jobs, err := h.Jobs.ListOpportunities(c.Request.Context(), user.ID, source)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load opportunities: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, dtos.OpportunityListResponse{Count: len(jobs), Jobs: jobs})
}

// ListApplications is the GET /applications endpoint
func (h *JobHandler) ListApplications(c *gin.Context) {
	var q dtos.ApplicationFilterQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query: " + err.Error()})
		return
	}

	filter := services.ApplicationFilter{Company: q.Company}
	if q.Status != "" {
		st, ok := models.ParseApplicationStatus(q.Status)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown status: " + q.Status})
			return
		}
		filter.Status = st
	}
	var err error
	if filter.From, err = parseDay(q.StartDate); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid start_date, want YYYY-MM-DD"})
		return
	}
	if filter.To, err = parseDay(q.EndDate); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid end_date, want YYYY-MM-DD"})
		return
	}

	user := middleware.CurrentUser(c)
	apps, err := h.Jobs.ListApplications(c.Request.Context(), user.ID, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load applications: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, dtos.ApplicationListResponse{Count: len(apps), Applications: apps})
}

func parseDay(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
