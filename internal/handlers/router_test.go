package handlers_test

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/justsurfingit/careerkit/internal/auth"
	"github.com/justsurfingit/careerkit/internal/handlers"
	"github.com/justsurfingit/careerkit/internal/models"
	"github.com/justsurfingit/careerkit/internal/services"
	"google.golang.org/api/gmail/v1"
)

// ── Fakes ──────────────────────────────────────────────────────────────────

var testUser = &auth.User{ID: uuid.MustParse("6f1c0c7e-1d2a-4c59-9a44-2f1de2c4a001"), Email: "ada@example.com"}

type tokenAuth struct{}

func (tokenAuth) Authenticate(_ context.Context, header string) (*auth.User, error) {
	if header == "Bearer good" {
		return testUser, nil
	}
	return nil, auth.ErrInvalidToken
}

type fakeExtractor struct {
	jobs []models.JobOpportunity
	err  error

	called  bool
	userID  uuid.UUID
	token   string
	sources []string
}

func (f *fakeExtractor) ExtractJobs(_ context.Context, userID uuid.UUID, token string, sources []string) ([]models.JobOpportunity, error) {
	f.called = true
	f.userID, f.token, f.sources = userID, token, sources
	return f.jobs, f.err
}

type fakeLister struct {
	source models.Source
	filter services.ApplicationFilter
}

func (f *fakeLister) ListOpportunities(_ context.Context, _ uuid.UUID, source models.Source) ([]models.JobOpportunity, error) {
	f.source = source
	return []models.JobOpportunity{}, nil
}

func (f *fakeLister) ListApplications(_ context.Context, _ uuid.UUID, filter services.ApplicationFilter) ([]models.Application, error) {
	f.filter = filter
	return []models.Application{{CompanyName: "Acme"}}, nil
}

type fakeTailor struct {
	docs *services.TailoredDocuments
	err  error
	job  models.JobDescriptor
}

func (f *fakeTailor) Generate(_ context.Context, _ uuid.UUID, job models.JobDescriptor) (*services.TailoredDocuments, error) {
	f.job = job
	return f.docs, f.err
}

type testServer struct {
	router    *gin.Engine
	extractor *fakeExtractor
	lister    *fakeLister
	tailor    *fakeTailor
}

func newTestServer() *testServer {
	gin.SetMode(gin.TestMode)
	s := &testServer{
		extractor: &fakeExtractor{jobs: []models.JobOpportunity{}},
		lister:    &fakeLister{},
		tailor:    &fakeTailor{},
	}
	s.router = handlers.NewRouter(handlers.RouterConfig{
		AllowedOrigins: []string{"*"},
		Auth:           tokenAuth{},
		Jobs:           handlers.NewJobHandler(s.extractor, s.lister),
		Documents:      handlers.NewDocumentHandler(s.tailor),
	})
	return s
}

func (s *testServer) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			json.NewEncoder(&buf).Encode(b)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("body is not JSON: %v (%s)", err, w.Body.String())
	}
	return out
}

// ── CORS and auth ──────────────────────────────────────────────────────────

func TestPreflight(t *testing.T) {
	s := newTestServer()

	for _, path := range []string{"/api/v1/jobs/extract-gmail", "/api/v1/documents/generate"} {
		req := httptest.NewRequest(http.MethodOptions, path, nil)
		req.Header.Set("Origin", "https://app.example.com")
		req.Header.Set("Access-Control-Request-Method", "POST")
		req.Header.Set("Access-Control-Request-Headers", "authorization, x-client-info, apikey, content-type")
		w := httptest.NewRecorder()
		s.router.ServeHTTP(w, req)

		if w.Code != http.StatusNoContent {
			t.Errorf("%s: status = %d, want 204", path, w.Code)
		}
		if w.Body.Len() != 0 {
			t.Errorf("%s: preflight has a body: %q", path, w.Body.String())
		}
		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
			t.Errorf("%s: Access-Control-Allow-Origin = %q", path, got)
		}
	}
	if s.extractor.called {
		t.Error("preflight reached the handler")
	}
}

func TestPreflightWithoutOrigin(t *testing.T) {
	s := newTestServer()
	w := s.do(http.MethodOptions, "/api/v1/jobs/extract-gmail", "", nil)
	if w.Code != http.StatusNoContent || w.Body.Len() != 0 {
		t.Errorf("status = %d, body %q; want empty 204", w.Code, w.Body.String())
	}
}

func TestHealthNeedsNoAuth(t *testing.T) {
	w := newTestServer().do(http.MethodGet, "/api/v1/health", "", nil)
	if w.Code != http.StatusOK {
		t.Errorf("status = %d", w.Code)
	}
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	routes := []struct{ method, path string }{
		{http.MethodPost, "/api/v1/jobs/extract-gmail"},
		{http.MethodGet, "/api/v1/opportunities"},
		{http.MethodGet, "/api/v1/applications"},
		{http.MethodPost, "/api/v1/documents/generate"},
	}
	for _, r := range routes {
		s := newTestServer()

		w := s.do(r.method, r.path, "", `{"accessToken":"g"}`)
		if w.Code != http.StatusUnauthorized || decode(t, w)["error"] != "No authorization header" {
			t.Errorf("%s %s without header: %d %s", r.method, r.path, w.Code, w.Body.String())
		}

		w = s.do(r.method, r.path, "forged", `{"accessToken":"g"}`)
		if w.Code != http.StatusUnauthorized || decode(t, w)["error"] != "Invalid authentication" {
			t.Errorf("%s %s with bad token: %d %s", r.method, r.path, w.Code, w.Body.String())
		}
		if s.extractor.called {
			t.Errorf("%s %s: extractor ran without a user", r.method, r.path)
		}
	}
}

// ── Extraction ─────────────────────────────────────────────────────────────

func TestExtractGmailJobs(t *testing.T) {
	s := newTestServer()
	s.extractor.jobs = []models.JobOpportunity{{JobTitle: "SRE", CompanyName: "Acme", Source: models.SourceGmail}}

	w := s.do(http.MethodPost, "/api/v1/jobs/extract-gmail", "good", map[string]any{
		"accessToken": "gmail-token",
		"sources":     []string{"linkedin", "general"},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	body := decode(t, w)
	if body["message"] != "Successfully extracted job opportunities" || body["count"] != float64(1) {
		t.Errorf("body = %v", body)
	}
	if jobs, ok := body["jobs"].([]any); !ok || len(jobs) != 1 {
		t.Errorf("jobs = %v", body["jobs"])
	}
	if s.extractor.userID != testUser.ID || s.extractor.token != "gmail-token" || len(s.extractor.sources) != 2 {
		t.Errorf("extractor called with %s / %q / %v", s.extractor.userID, s.extractor.token, s.extractor.sources)
	}
}

func TestExtractGmailJobs_BadRequest(t *testing.T) {
	for _, body := range []string{`{not json`, `{"sources":["linkedin"]}`} {
		s := newTestServer()
		w := s.do(http.MethodPost, "/api/v1/jobs/extract-gmail", "good", body)
		if w.Code != http.StatusBadRequest {
			t.Errorf("body %s: status = %d, want 400", body, w.Code)
		}
		if s.extractor.called {
			t.Errorf("body %s: extractor ran", body)
		}
	}
}

func TestExtractGmailJobs_Failure(t *testing.T) {
	s := newTestServer()
	s.extractor.err = errors.New("failed to save job opportunities: timeout")

	w := s.do(http.MethodPost, "/api/v1/jobs/extract-gmail", "good", `{"accessToken":"g"}`)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", w.Code)
	}
	if decode(t, w)["error"] != "failed to save job opportunities: timeout" {
		t.Errorf("body = %s", w.Body.String())
	}
}

type inbox map[string]*gmail.Message

func (in inbox) SearchMessages(context.Context, string, int64) ([]string, error) {
	ids := make([]string, 0, len(in))
	for id := range in {
		ids = append(ids, id)
	}
	return ids, nil
}

func (in inbox) GetMessage(_ context.Context, id string) (*gmail.Message, error) {
	return in[id], nil
}

type memStore struct{ rows []models.JobOpportunity }

func (m *memStore) SaveOpportunities(_ context.Context, jobs []models.JobOpportunity) error {
	m.rows = append(m.rows, jobs...)
	return nil
}

func TestExtractGmailJobs_EndToEnd(t *testing.T) {
	gin.SetMode(gin.TestMode)
	body := "We are hiring a Senior Backend Engineer at Acme Corp, apply here: https://acme.com/careers/123"
	mail := inbox{"m1": {
		Id: "m1",
		Payload: &gmail.MessagePart{
			MimeType: "text/plain",
			Headers:  []*gmail.MessagePartHeader{{Name: "From", Value: "talent@acme.com"}, {Name: "Subject", Value: "News"}},
			Body:     &gmail.MessagePartBody{Data: base64.URLEncoding.EncodeToString([]byte(body))},
		},
	}}
	store := &memStore{}
	extractor := services.NewEmailService(func(context.Context, string) (services.MailClient, error) { return mail, nil }, store)
	router := handlers.NewRouter(handlers.RouterConfig{
		Auth:      tokenAuth{},
		Jobs:      handlers.NewJobHandler(extractor, &fakeLister{}),
		Documents: handlers.NewDocumentHandler(&fakeTailor{}),
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/jobs/extract-gmail", bytes.NewBufferString(`{"accessToken":"g","sources":["general"]}`))
	req.Header.Set("Authorization", "Bearer good")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if len(store.rows) != 1 {
		t.Fatalf("stored %d rows, want 1", len(store.rows))
	}
	got := store.rows[0]
	if got.UserID != testUser.ID || got.JobTitle != "Senior Backend Engineer" || got.CompanyName != "Acme Corp" ||
		got.JobLink != "https://acme.com/careers/123" || got.Source != models.SourceGmail {
		t.Errorf("stored row = %+v", got)
	}
}

// ── Listing ────────────────────────────────────────────────────────────────

func TestListOpportunities(t *testing.T) {
	s := newTestServer()

	if w := s.do(http.MethodGet, "/api/v1/opportunities?source=indeed", "good", nil); w.Code != http.StatusBadRequest {
		t.Errorf("unknown source: status = %d, want 400", w.Code)
	}

	w := s.do(http.MethodGet, "/api/v1/opportunities?source=glassdoor", "good", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if s.lister.source != models.SourceGlassdoor {
		t.Errorf("lister got source %q", s.lister.source)
	}
	if jobs, ok := decode(t, w)["jobs"].([]any); !ok || len(jobs) != 0 {
		t.Errorf("jobs = %v, want empty array", decode(t, w)["jobs"])
	}
}

func TestListApplications(t *testing.T) {
	cases := []struct {
		name  string
		query string
		code  int
	}{
		{"unknown status", "?status=ghosted", http.StatusBadRequest},
		{"bad start date", "?start_date=01/02/2024", http.StatusBadRequest},
		{"bad end date", "?end_date=tomorrow", http.StatusBadRequest},
		{"all filters", "?company=acme&status=offered&start_date=2024-01-01&end_date=2024-12-31", http.StatusOK},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s := newTestServer()
			w := s.do(http.MethodGet, "/api/v1/applications"+c.query, "good", nil)
			if w.Code != c.code {
				t.Fatalf("status = %d, want %d (%s)", w.Code, c.code, w.Body.String())
			}
			if c.code != http.StatusOK {
				return
			}
			f := s.lister.filter
			if f.Company != "acme" || f.Status != models.StatusOffered || f.From == nil || f.To == nil {
				t.Errorf("filter = %+v", f)
			}
			if f.From.Format("2006-01-02") != "2024-01-01" || f.To.Format("2006-01-02") != "2024-12-31" {
				t.Errorf("date bounds = %s..%s", f.From, f.To)
			}
		})
	}
}

// ── Documents ──────────────────────────────────────────────────────────────

func TestGenerateDocuments(t *testing.T) {
	s := newTestServer()
	s.tailor.docs = &services.TailoredDocuments{CoverLetter: "Dear team", CV: "Ada Lovelace\nEngineer", Keywords: []string{"React", "AWS"}}

	w := s.do(http.MethodPost, "/api/v1/documents/generate", "good", map[string]any{
		"jobData": map[string]any{
			"title":       "Frontend Engineer",
			"company":     "Acme",
			"description": "Looking for a React and AWS expert",
			"skills":      []string{"React"},
		},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	body := decode(t, w)
	if body["coverLetterPdf"] != "Dear team" || body["cvPdf"] != "Ada Lovelace\nEngineer" {
		t.Errorf("body = %v", body)
	}
	if kws, ok := body["keywords"].([]any); !ok || len(kws) != 2 || kws[0] != "React" {
		t.Errorf("keywords = %v", body["keywords"])
	}
	if s.tailor.job.Title != "Frontend Engineer" || len(s.tailor.job.Skills) != 1 {
		t.Errorf("tailor got job %+v", s.tailor.job)
	}
}

func TestGenerateDocuments_MissingJobData(t *testing.T) {
	s := newTestServer()
	for _, body := range []string{`{}`, `{"jobData":null}`, `nope`} {
		if w := s.do(http.MethodPost, "/api/v1/documents/generate", "good", body); w.Code != http.StatusBadRequest {
			t.Errorf("body %s: status = %d, want 400", body, w.Code)
		}
	}
}

func TestGenerateDocuments_Failures(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"not configured", services.ErrGenerationNotConfigured, "Text generation service is not configured"},
		{"generation failed", errors.New("cv: quota exceeded"), "Failed to generate documents: cv: quota exceeded"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s := newTestServer()
			s.tailor.err = c.err
			w := s.do(http.MethodPost, "/api/v1/documents/generate", "good", `{"jobData":{"title":"x","description":"y"}}`)
			if w.Code != http.StatusInternalServerError {
				t.Fatalf("status = %d", w.Code)
			}
			if got := decode(t, w)["error"]; got != c.want {
				t.Errorf("error = %v, want %q", got, c.want)
			}
		})
	}
}
