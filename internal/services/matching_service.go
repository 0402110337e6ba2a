package services

import (
	"strings"

	"github.com/justsurfingit/careerkit/internal/models"
)

// emailKeywords is checked against job emails. Terms are matched as plain
// substrings, so "java" also fires on "javascript".
var emailKeywords = []string{
	"remote", "onsite", "hybrid", "full-time", "part-time", "contract",
	"senior", "junior", "lead", "manager", "director", "engineer",
	"developer", "designer", "analyst", "consultant", "specialist",
	"react", "javascript", "python", "java", "sql", "aws", "azure",
	"marketing", "sales", "finance", "hr", "operations", "product",
}

// tailoringKeywords is checked against a job description before documents
// are generated. Results keep this spelling since they are echoed into prompts.
var tailoringKeywords = []string{
	"React", "TypeScript", "JavaScript", "Python", "Java", "Node.js", "Angular", "Vue",
	"HTML", "CSS", "SQL", "MongoDB", "PostgreSQL", "AWS", "Docker", "Kubernetes",
	"Git", "Agile", "Scrum", "REST", "API", "GraphQL", "Firebase", "Supabase",
	"Frontend", "Backend", "Full-stack", "DevOps", "Machine Learning", "AI",
	"Product Management", "UX", "UI", "Design", "Figma", "Adobe", "Analytics",
}

// ClassifySource maps an email sender to where the posting came from.
// LinkedIn wins when both names appear.
func ClassifySource(sender string) models.Source {
	s := strings.ToLower(sender)
	switch {
	case strings.Contains(s, "linkedin"):
		return models.SourceLinkedIn
	case strings.Contains(s, "glassdoor"):
		return models.SourceGlassdoor
	}
	return models.SourceGmail
}

// MatchEmailKeywords returns every email vocabulary term found anywhere in text.
func MatchEmailKeywords(text string) []string {
	lower := strings.ToLower(text)
	found := make([]string, 0)
	seen := make(map[string]bool)
	for _, kw := range emailKeywords {
		if seen[kw] {
			continue
		}
		if strings.Contains(lower, kw) {
			found = append(found, kw)
			seen[kw] = true
		}
	}
	return found
}

// MatchJobKeywords returns the tailoring terms present in a job description.
// A single-word term matches when some whitespace-separated token of the
// lower-cased description contains it. Multi-word terms cannot fit in one
// token, so they are looked up in the whole description instead.
func MatchJobKeywords(description string) []string {
	lower := strings.ToLower(description)
	tokens := strings.Fields(lower)
	found := make([]string, 0)
	for _, term := range tailoringKeywords {
		t := strings.ToLower(term)
		if strings.Contains(t, " ") {
			if strings.Contains(lower, t) {
				found = append(found, term)
			}
			continue
		}
		for _, tok := range tokens {
			if strings.Contains(tok, t) {
				found = append(found, term)
				break
			}
		}
	}
	return found
}
