package services

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/justsurfingit/careerkit/internal/config"
	"github.com/justsurfingit/careerkit/internal/models"
	"golang.org/x/sync/errgroup"
)

// ProfileLoader reads the stored profile of a user.
type ProfileLoader interface {
	GetPersonalDetails(ctx context.Context, userID uuid.UUID) (*models.PersonalDetails, error)
	ListExperiences(ctx context.Context, userID uuid.UUID) ([]models.Experience, error)
	ListEducation(ctx context.Context, userID uuid.UUID) ([]models.Education, error)
}

// TailoredDocuments is the plain text of both documents plus the keywords they were built around.
type TailoredDocuments struct {
	CoverLetter string
	CV          string
	Keywords    []string
}

type TailorService struct {
	Profiles  ProfileLoader
	Generator Generator

	CoverLetterLimits config.GenerationLimits
	CVLimits          config.GenerationLimits
}

// NewTailorService accepts a nil generator; Generate then fails with
// ErrGenerationNotConfigured.
func NewTailorService(profiles ProfileLoader, gen Generator) *TailorService {
	return &TailorService{
		Profiles:          profiles,
		Generator:         gen,
		CoverLetterLimits: config.GenerationLimits{Temperature: 0.7, MaxTokens: 1000},
		CVLimits:          config.GenerationLimits{Temperature: 0.7, MaxTokens: 1500},
	}
}

// LoadProfile runs the three profile reads concurrently. Any failure fails the load.
func (s *TailorService) LoadProfile(ctx context.Context, userID uuid.UUID) (models.CandidateProfile, error) {
	var profile models.CandidateProfile
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		pd, err := s.Profiles.GetPersonalDetails(gctx, userID)
		profile.PersonalDetails = pd
		return err
	})
	g.Go(func() error {
		exps, err := s.Profiles.ListExperiences(gctx, userID)
		profile.Experiences = exps
		return err
	})
	g.Go(func() error {
		edu, err := s.Profiles.ListEducation(gctx, userID)
		profile.Education = edu
		return err
	})

	if err := g.Wait(); err != nil {
		return models.CandidateProfile{}, err
	}
	return profile, nil
}

// Generate writes a cover letter and a CV for job from the user's profile.
// The two generation calls run side by side; if either fails, nothing is returned.
func (s *TailorService) Generate(ctx context.Context, userID uuid.UUID, job models.JobDescriptor) (*TailoredDocuments, error) {
	if s.Generator == nil {
		return nil, ErrGenerationNotConfigured
	}

	profile, err := s.LoadProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	keywords := MatchJobKeywords(job.Description)
	logPrefix := fmt.Sprintf("[Tailor: %s @ %s]", job.Title, job.Company)
	log.Printf("%s 🔑 Keywords: %v", logPrefix, keywords)

	docs := &TailoredDocuments{Keywords: keywords}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		text, err := s.Generator.Generate(gctx, GenerationRequest{
			System:      CoverLetterSystemPrompt,
			Prompt:      BuildCoverLetterPrompt(profile, job, keywords),
			Temperature: s.CoverLetterLimits.Temperature,
			MaxTokens:   s.CoverLetterLimits.MaxTokens,
		})
		if err != nil {
			return fmt.Errorf("cover letter: %w", err)
		}
		docs.CoverLetter = text
		return nil
	})
	g.Go(func() error {
		text, err := s.Generator.Generate(gctx, GenerationRequest{
			System:      CVSystemPrompt,
			Prompt:      BuildCVPrompt(profile, job, keywords),
			Temperature: s.CVLimits.Temperature,
			MaxTokens:   s.CVLimits.MaxTokens,
		})
		if err != nil {
			return fmt.Errorf("cv: %w", err)
		}
		docs.CV = text
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Printf("%s ❌ Generation failed: %v", logPrefix, err)
		return nil, err
	}
	log.Printf("%s ✅ Documents generated (%d + %d chars)", logPrefix, len(docs.CoverLetter), len(docs.CV))
	return docs, nil
}
