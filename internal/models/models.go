package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Source is where an extracted opportunity came from.
type Source string

const (
	SourceLinkedIn  Source = "linkedin"
	SourceGlassdoor Source = "glassdoor"
	SourceGmail     Source = "gmail"
)

// ParseSource accepts only the three stored values.
func ParseSource(s string) (Source, bool) {
	switch Source(s) {
	case SourceLinkedIn, SourceGlassdoor, SourceGmail:
		return Source(s), true
	}
	return "", false
}

// JobOpportunity is one job posting recovered from an email.
// Rows are written once by the extractor and never updated.
type JobOpportunity struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`

	JobTitle          string         `gorm:"not null" json:"job_title"`
	CompanyName       string         `gorm:"not null" json:"company_name"`
	JobLink           string         `json:"job_link"`
	Source            Source         `gorm:"type:text;not null;index" json:"source"`
	EmailSubject      string         `json:"email_subject"`
	EmailSender       string         `json:"email_sender"`
	ExtractedKeywords pq.StringArray `gorm:"type:text[]" json:"extracted_keywords"`
	RawEmailContent   string         `gorm:"type:text" json:"raw_email_content"`
}

type PersonalDetails struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	FullName          string `json:"full_name"`
	Email             string `json:"email"`
	Phone             string `json:"phone"`
	Address           string `json:"address"`
	Summary           string `gorm:"type:text" json:"summary"`
	ProfilePictureURL string `json:"profile_picture_url"`
}

// Experience.EndDate is nil while the position is ongoing.
type Experience struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`

	CompanyName string     `gorm:"not null" json:"company_name"`
	Position    string     `gorm:"not null" json:"position"`
	StartDate   time.Time  `gorm:"type:date;not null" json:"start_date"`
	EndDate     *time.Time `gorm:"type:date" json:"end_date"`
	IsCurrent   bool       `json:"is_current"`
	Description string     `gorm:"type:text" json:"description"`
}

// TableName matches the table the profile screens write to.
func (Experience) TableName() string { return "experiences" }

type Education struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`

	Institution  string     `gorm:"not null" json:"institution"`
	Degree       string     `gorm:"not null" json:"degree"`
	FieldOfStudy string     `json:"field_of_study"`
	StartDate    time.Time  `gorm:"type:date;not null" json:"start_date"`
	EndDate      *time.Time `gorm:"type:date" json:"end_date"`
	Grade        string     `json:"grade"`
}

func (Education) TableName() string { return "education" }

// ApplicationStatus values mirror the status picker on the applications screen.
type ApplicationStatus string

const (
	StatusApplied     ApplicationStatus = "applied"
	StatusInterviewed ApplicationStatus = "interviewed"
	StatusOffered     ApplicationStatus = "offered"
	StatusRejected    ApplicationStatus = "rejected"
	StatusWithdrawn   ApplicationStatus = "withdrawn"
)

func ParseApplicationStatus(s string) (ApplicationStatus, bool) {
	switch ApplicationStatus(s) {
	case StatusApplied, StatusInterviewed, StatusOffered, StatusRejected, StatusWithdrawn:
		return ApplicationStatus(s), true
	}
	return "", false
}

type Application struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	JobTitle          string            `gorm:"not null" json:"job_title"`
	CompanyName       string            `gorm:"not null" json:"company_name"`
	ApplicationDate   time.Time         `gorm:"type:date;not null" json:"application_date"`
	Status            ApplicationStatus `gorm:"type:text;default:'applied'" json:"status"`
	JobURL            string            `json:"job_url,omitempty"`
	Notes             string            `gorm:"type:text" json:"notes,omitempty"`
	SalaryRange       string            `json:"salary_range,omitempty"`
	Location          string            `json:"location,omitempty"`
	ApplicationMethod string            `json:"application_method,omitempty"`
	FollowUpDate      *time.Time        `gorm:"type:date" json:"follow_up_date,omitempty"`
}

// CandidateProfile is the read-only view of a user's stored profile.
// PersonalDetails is nil when the user never filled the form.
type CandidateProfile struct {
	PersonalDetails *PersonalDetails `json:"personal_details"`
	Experiences     []Experience     `json:"experiences"`
	Education       []Education      `json:"education"`
}

// JobDescriptor is the job a set of documents is tailored to.
type JobDescriptor struct {
	Title       string   `json:"title"`
	Company     string   `json:"company"`
	Description string   `json:"description"`
	Skills      []string `json:"skills"`
}

// BeforeCreate hooks assign ids client-side so batch inserts can return them.

func (j *JobOpportunity) BeforeCreate(tx *gorm.DB) error {
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	return nil
}

func (p *PersonalDetails) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

func (e *Experience) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

func (e *Education) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

func (a *Application) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
