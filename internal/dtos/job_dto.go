package dtos

import "github.com/justsurfingit/careerkit/internal/models"

// ExtractJobsRequest carries the caller's Gmail access token; the session
// token travels separately in the Authorization header.
type ExtractJobsRequest struct {
	AccessToken string   `json:"accessToken" binding:"required"`
	Sources     []string `json:"sources"`
}

type ExtractJobsResponse struct {
	Message string                  `json:"message"`
	Count   int                     `json:"count"`
	Jobs    []models.JobOpportunity `json:"jobs"`
}

type GenerateDocumentsRequest struct {
	JobData *models.JobDescriptor `json:"jobData" binding:"required"`
}

// GenerateDocumentsResponse keeps the field names the web client already
// reads. Both documents are plain text; the client renders the PDFs.
type GenerateDocumentsResponse struct {
	CoverLetterPdf string   `json:"coverLetterPdf"`
	CvPdf          string   `json:"cvPdf"`
	Keywords       []string `json:"keywords"`
}

type OpportunityListResponse struct {
	Count int                     `json:"count"`
	Jobs  []models.JobOpportunity `json:"jobs"`
}

// ApplicationFilterQuery is bound from the query string. Dates are YYYY-MM-DD.
type ApplicationFilterQuery struct {
	Company   string `form:"company"`
	Status    string `form:"status"`
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
}

type ApplicationListResponse struct {
	Count        int                  `json:"count"`
	Applications []models.Application `json:"applications"`
}
