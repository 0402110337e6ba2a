package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/justsurfingit/careerkit/internal/models"
	"gorm.io/gorm"
)

// ProfileService reads the profile tables. It never writes them.
type ProfileService struct {
	DB *gorm.DB
}

func NewProfileService(db *gorm.DB) *ProfileService {
	return &ProfileService{DB: db}
}

// GetPersonalDetails returns nil without error when the user has no row.
func (s *ProfileService) GetPersonalDetails(ctx context.Context, userID uuid.UUID) (*models.PersonalDetails, error) {
	var rows []models.PersonalDetails
	if err := s.DB.WithContext(ctx).Where("user_id = ?", userID).Limit(1).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load personal details: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func (s *ProfileService) ListExperiences(ctx context.Context, userID uuid.UUID) ([]models.Experience, error) {
	var exps []models.Experience
	if err := s.DB.WithContext(ctx).Where("user_id = ?", userID).Order("start_date DESC").Find(&exps).Error; err != nil {
		return nil, fmt.Errorf("failed to load experiences: %w", err)
	}
	return exps, nil
}

func (s *ProfileService) ListEducation(ctx context.Context, userID uuid.UUID) ([]models.Education, error) {
	var edu []models.Education
	if err := s.DB.WithContext(ctx).Where("user_id = ?", userID).Order("start_date DESC").Find(&edu).Error; err != nil {
		return nil, fmt.Errorf("failed to load education: %w", err)
	}
	return edu, nil
}
