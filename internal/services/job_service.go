package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/justsurfingit/careerkit/internal/models"
	"gorm.io/gorm"
)

// JobService reads and writes the job tables.
type JobService struct {
	DB *gorm.DB
}

func NewJobService(db *gorm.DB) *JobService {
	return &JobService{
		DB: db,
	}
}

// SaveOpportunities inserts all rows in one transaction: either every row lands or none does.
func (s *JobService) SaveOpportunities(ctx context.Context, jobs []models.JobOpportunity) error {
	if len(jobs) == 0 {
		return nil
	}
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&jobs).Error; err != nil {
			return fmt.Errorf("insert job opportunities: %w", err)
		}
		return nil
	})
}

// ListOpportunities returns the user's extracted opportunities, newest first.
// An empty source means every source.
func (s *JobService) ListOpportunities(ctx context.Context, userID uuid.UUID, source models.Source) ([]models.JobOpportunity, error) {
	q := s.DB.WithContext(ctx).Where("user_id = ?", userID)
	if source != "" {
		q = q.Where("source = ?", source)
	}
	jobs := make([]models.JobOpportunity, 0)
	if err := q.Order("created_at DESC").Find(&jobs).Error; err != nil {
		return nil, fmt.Errorf("failed to list job opportunities: %w", err)
	}
	return jobs, nil
}

// ApplicationFilter narrows ListApplications. Zero values mean "no filter";
// date bounds are inclusive.
type ApplicationFilter struct {
	Company string
	Status  models.ApplicationStatus
	From    *time.Time
	To      *time.Time
}

func (s *JobService) ListApplications(ctx context.Context, userID uuid.UUID, f ApplicationFilter) ([]models.Application, error) {
	q := s.DB.WithContext(ctx).Where("user_id = ?", userID)
	if f.Company != "" {
		q = q.Where("company_name ILIKE ?", containsPattern(f.Company))
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.From != nil {
		q = q.Where("application_date >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("application_date <= ?", *f.To)
	}
	apps := make([]models.Application, 0)
	if err := q.Order("application_date DESC").Find(&apps).Error; err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	return apps, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds an ILIKE substring pattern in which the user's
// wildcard characters match only themselves. Backslash is the default escape.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
