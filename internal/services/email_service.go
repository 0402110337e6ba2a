package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/justsurfingit/careerkit/internal/auth"
	"github.com/justsurfingit/careerkit/internal/models"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/googleapi"
)

const (
	SourceLinkedIn  = "linkedin"
	SourceGlassdoor = "glassdoor"
	SourceGeneral   = "general"
)

// MailClient is the part of the Gmail API the extractor needs.
type MailClient interface {
	SearchMessages(ctx context.Context, query string, maxResults int64) ([]string, error)
	GetMessage(ctx context.Context, id string) (*gmail.Message, error)
}

// MailClientFactory opens a mailbox for the access token a request carries.
type MailClientFactory func(ctx context.Context, accessToken string) (MailClient, error)

// OpportunityStore persists extracted opportunities as one batch.
type OpportunityStore interface {
	SaveOpportunities(ctx context.Context, jobs []models.JobOpportunity) error
}

// GmailClient adapts *gmail.Service to MailClient.
type GmailClient struct {
	srv *gmail.Service
}

func NewGmailClient(srv *gmail.Service) *GmailClient {
	return &GmailClient{srv: srv}
}

// NewGmailClientForToken is the production MailClientFactory.
func NewGmailClientForToken(ctx context.Context, accessToken string) (MailClient, error) {
	srv, err := auth.NewGmailService(ctx, accessToken)
	if err != nil {
		return nil, err
	}
	return NewGmailClient(srv), nil
}

func (g *GmailClient) SearchMessages(ctx context.Context, query string, maxResults int64) ([]string, error) {
	resp, err := g.srv.Users.Messages.List("me").Q(query).MaxResults(maxResults).Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(resp.Messages))
	for _, m := range resp.Messages {
		ids = append(ids, m.Id)
	}
	return ids, nil
}

func (g *GmailClient) GetMessage(ctx context.Context, id string) (*gmail.Message, error) {
	return g.srv.Users.Messages.Get("me", id).Format("full").Context(ctx).Do()
}

type EmailService struct {
	Mail  MailClientFactory
	Store OpportunityStore

	SearchMaxResults     int64
	MaxMessagesPerSource int
	// Timeout bounds the mailbox phase of a run; zero means no extra bound.
	Timeout time.Duration
}

func NewEmailService(mail MailClientFactory, store OpportunityStore) *EmailService {
	return &EmailService{
		Mail:                 mail,
		Store:                store,
		SearchMaxResults:     50,
		MaxMessagesPerSource: 10,
		Timeout:              2 * time.Minute,
	}
}

// BuildSearchQuery returns the Gmail search for a source. Unknown names get
// the general query.
func BuildSearchQuery(source string) string {
	switch source {
	case SourceLinkedIn:
		return "(from:linkedin.com OR from:noreply@linkedin.com) subject:(job OR opportunity OR position)"
	case SourceGlassdoor:
		return "(from:glassdoor.com OR from:noreply@glassdoor.com) subject:(job OR opportunity OR position)"
	default:
		return "subject:(job OR opportunity OR position OR hiring OR interview OR application)"
	}
}

// ExtractJobs searches the mailbox once per selected source, extracts what
// it can from up to MaxMessagesPerSource messages each, and saves the lot.
// Messages that cannot be fetched or parsed are skipped; a failed save fails
// the whole run.
func (s *EmailService) ExtractJobs(ctx context.Context, userID uuid.UUID, accessToken string, sources []string) ([]models.JobOpportunity, error) {
	mailCtx := ctx
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		mailCtx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	client, err := s.Mail(mailCtx, accessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to open mailbox: %w", err)
	}

	jobs := make([]models.JobOpportunity, 0)
	seen := make(map[string]bool)

	for _, source := range normalizeSources(sources) {
		if mailCtx.Err() != nil {
			log.Printf("⏱️ Extraction budget exhausted before source %q, keeping %d jobs", source, len(jobs))
			break
		}
		found := s.extractFromSource(mailCtx, client, userID, source, seen)
		jobs = append(jobs, found...)
	}

	if len(jobs) == 0 {
		log.Println("✅ No job opportunities found in selected sources.")
		return jobs, nil
	}

	if err := s.Store.SaveOpportunities(ctx, jobs); err != nil {
		log.Printf("❌ Failed to save %d job opportunities: %v", len(jobs), err)
		return nil, fmt.Errorf("failed to save job opportunities: %w", err)
	}
	log.Printf("💾 Saved %d job opportunities for user %s", len(jobs), userID)
	return jobs, nil
}

func (s *EmailService) extractFromSource(ctx context.Context, client MailClient, userID uuid.UUID, source string, seen map[string]bool) []models.JobOpportunity {
	logPrefix := fmt.Sprintf("[Source: %s]", source)

	ids, err := client.SearchMessages(ctx, BuildSearchQuery(source), s.SearchMaxResults)
	if err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) {
			log.Printf("%s ❌ SKIPPED: Gmail search rejected (HTTP %d): %s", logPrefix, apiErr.Code, apiErr.Message)
		} else {
			log.Printf("%s ❌ SKIPPED: Gmail search failed: %v", logPrefix, err)
		}
		return nil
	}
	if len(ids) == 0 {
		log.Printf("%s 📭 No matching emails.", logPrefix)
		return nil
	}
	if s.MaxMessagesPerSource > 0 && len(ids) > s.MaxMessagesPerSource {
		ids = ids[:s.MaxMessagesPerSource]
	}
	log.Printf("%s 📥 Processing %d candidate emails...", logPrefix, len(ids))

	var jobs []models.JobOpportunity
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true

		msg, err := client.GetMessage(ctx, id)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
				log.Printf("%s ⏱️ Stopped: %v", logPrefix, err)
				break
			}
			log.Printf("%s ❌ SKIPPED %s: fetch failed: %v", logPrefix, id, err)
			continue
		}

		job, err := ParseJobEmail(msg)
		if err != nil {
			log.Printf("%s ❌ SKIPPED %s: %v", logPrefix, id, err)
			continue
		}
		if job == nil {
			log.Printf("%s ⏹️  %s: no title or company found.", logPrefix, id)
			continue
		}

		job.UserID = userID
		log.Printf("%s ✅ %s: %q at %q (%s)", logPrefix, id, job.JobTitle, job.CompanyName, job.Source)
		jobs = append(jobs, *job)
	}
	return jobs
}

// normalizeSources lower-cases, trims and de-duplicates the selection, keeping order.
func normalizeSources(sources []string) []string {
	out := make([]string, 0, len(sources))
	seen := make(map[string]bool)
	for _, src := range sources {
		src = strings.ToLower(strings.TrimSpace(src))
		if src == "" || seen[src] {
			continue
		}
		seen[src] = true
		out = append(out, src)
	}
	return out
}
