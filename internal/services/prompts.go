package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/justsurfingit/careerkit/internal/models"
)

const (
	notAvailable = "N/A"
	dateLayout   = "2006-01-02"

	CoverLetterSystemPrompt = "You are a professional career advisor and expert writer who creates compelling cover letters that help candidates get interviews."
	CVSystemPrompt          = "You are a professional career advisor and resume writer who creates ATS-friendly CVs that help candidates get interviews. Format the CV with clear sections and professional layout."
)

// BuildCoverLetterPrompt embeds the job and the whole profile into the
// cover letter instructions. Missing profile fields print as N/A.
func BuildCoverLetterPrompt(profile models.CandidateProfile, job models.JobDescriptor, keywords []string) string {
	pd := personalFields(profile.PersonalDetails)

	var b strings.Builder
	b.WriteString("Generate a professional cover letter based on the following information:\n\n")
	writeJobSection(&b, job, keywords)

	b.WriteString("Candidate Profile:\n")
	fmt.Fprintf(&b, "Name: %s\n", pd.name)
	fmt.Fprintf(&b, "Email: %s\n", pd.email)
	fmt.Fprintf(&b, "Phone: %s\n", pd.phone)
	fmt.Fprintf(&b, "Summary: %s\n\n", pd.summary)

	b.WriteString("Work Experience:\n")
	for _, exp := range profile.Experiences {
		fmt.Fprintf(&b, "- %s at %s (%s - %s)\n", exp.Position, exp.CompanyName, formatDate(exp.StartDate), formatEndDate(exp.EndDate, exp.IsCurrent))
		if exp.Description != "" {
			fmt.Fprintf(&b, "  %s\n", exp.Description)
		}
	}
	b.WriteString("\nEducation:\n")
	for _, edu := range profile.Education {
		fmt.Fprintf(&b, "- %s in %s from %s (%s - %s)\n", edu.Degree, orNA(edu.FieldOfStudy), edu.Institution, formatDate(edu.StartDate), formatEndDate(edu.EndDate, false))
	}

	b.WriteString(`
Please write a compelling cover letter that:
1. Addresses the hiring manager professionally
2. Highlights relevant experience that matches the job requirements
3. Incorporates the extracted keywords naturally
4. Shows enthusiasm for the role and company
5. Includes a strong closing statement
6. Is formatted professionally with proper paragraphs
7. Is approximately 300-400 words

Format the letter with proper business letter formatting.`)
	return b.String()
}

// BuildCVPrompt embeds the job and the whole profile into the CV instructions.
func BuildCVPrompt(profile models.CandidateProfile, job models.JobDescriptor, keywords []string) string {
	pd := personalFields(profile.PersonalDetails)

	var b strings.Builder
	b.WriteString("Generate a professional CV/Resume tailored for the following job:\n\n")
	writeJobSection(&b, job, keywords)

	b.WriteString("Candidate Profile:\n")
	fmt.Fprintf(&b, "Name: %s\n", pd.name)
	fmt.Fprintf(&b, "Email: %s\n", pd.email)
	fmt.Fprintf(&b, "Phone: %s\n", pd.phone)
	fmt.Fprintf(&b, "Address: %s\n", pd.address)
	fmt.Fprintf(&b, "Professional Summary: %s\n\n", pd.summary)

	b.WriteString("Work Experience:\n")
	for _, exp := range profile.Experiences {
		fmt.Fprintf(&b, "- %s at %s\n", exp.Position, exp.CompanyName)
		fmt.Fprintf(&b, "  Duration: %s - %s\n", formatDate(exp.StartDate), formatEndDate(exp.EndDate, exp.IsCurrent))
		fmt.Fprintf(&b, "  Description: %s\n", exp.Description)
	}
	b.WriteString("\nEducation:\n")
	for _, edu := range profile.Education {
		fmt.Fprintf(&b, "- %s in %s\n", edu.Degree, orNA(edu.FieldOfStudy))
		fmt.Fprintf(&b, "  Institution: %s\n", edu.Institution)
		fmt.Fprintf(&b, "  Duration: %s - %s\n", formatDate(edu.StartDate), formatEndDate(edu.EndDate, false))
		fmt.Fprintf(&b, "  Grade: %s\n", orNA(edu.Grade))
	}

	b.WriteString(`
Please create a professional CV that:
1. Formats the information in a clean, professional layout
2. Emphasizes skills and experience relevant to the job
3. Incorporates the extracted keywords naturally throughout
4. Uses action verbs and quantifiable achievements where possible
5. Follows standard CV formatting conventions
6. Highlights the most relevant qualifications
7. Is well-organized with clear sections

Include sections for: Contact Information, Professional Summary, Work Experience, Education, and Skills.
Format the CV professionally with clear section headers and bullet points.`)
	return b.String()
}

func writeJobSection(b *strings.Builder, job models.JobDescriptor, keywords []string) {
	fmt.Fprintf(b, "Job Title: %s\n", job.Title)
	fmt.Fprintf(b, "Company: %s\n", job.Company)
	fmt.Fprintf(b, "Job Description: %s\n", job.Description)
	if len(job.Skills) > 0 {
		fmt.Fprintf(b, "Required Skills: %s\n", strings.Join(job.Skills, ", "))
	}
	fmt.Fprintf(b, "Extracted Keywords: %s\n\n", strings.Join(keywords, ", "))
}

type personal struct {
	name, email, phone, address, summary string
}

func personalFields(pd *models.PersonalDetails) personal {
	if pd == nil {
		return personal{notAvailable, notAvailable, notAvailable, notAvailable, notAvailable}
	}
	return personal{
		name:    orNA(pd.FullName),
		email:   orNA(pd.Email),
		phone:   orNA(pd.Phone),
		address: orNA(pd.Address),
		summary: orNA(pd.Summary),
	}
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return notAvailable
	}
	return s
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return notAvailable
	}
	return t.Format(dateLayout)
}

func formatEndDate(t *time.Time, current bool) string {
	if current || t == nil || t.IsZero() {
		return "Present"
	}
	return t.Format(dateLayout)
}
