package services

import (
	"encoding/base64"
	"fmt"
	"mime"
	"regexp"
	"strings"

	"github.com/justsurfingit/careerkit/internal/models"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
	"google.golang.org/api/gmail/v1"
)

const (
	defaultJobTitle    = "Job Opportunity"
	defaultCompanyName = "Unknown Company"
	maxRawEmailRunes   = 2000
)

// Pattern families are tried in order; the first pattern that matches wins
// and its first group is the value.
var (
	titlePatterns = []*regexp.Regexp{
		// "Position: Staff Engineer"
		regexp.MustCompile(`(?i)(?:position|role|job|opportunity):\s*([^\n\r,]+)`),
		// "hiring a Staff Engineer at ..."
		regexp.MustCompile(`(?i)(?:hiring|seeking|looking for)\s+(?:a\s+)?([^\n\r,]+?)\s+(?:at|for|with)\b`),
		// "open position for Staff Engineer"
		regexp.MustCompile(`(?i)(?:open\s+)?(?:position|role)\s+for\s+([^\n\r,]+)`),
	}

	companyPatterns = []*regexp.Regexp{
		// "at Acme Corp is ...", "with Acme Corp, ..." - a run of capitalised words
		// closed by a stop word, punctuation or the end of the text. A dot only
		// stays inside a word ("Acme.io"); "LinkedIn. Position" ends at the dot.
		regexp.MustCompile(`\b(?i:at|from|with)\s+([A-Z][A-Za-z0-9&'-]*(?:\.[A-Za-z0-9&'-]+)*(?:[ \t]+(?:&[ \t]+)?[A-Z][A-Za-z0-9&'-]*(?:\.[A-Za-z0-9&'-]+)*)*)(?:\s+(?i:is|has|we|our|the)\b|\s*[.,;:!?)\r\n]|\s*$)`),
		// "Company: Acme Corp"
		regexp.MustCompile(`(?i)(?:company|organization):\s*([^\n\r,]+)`),
	}

	linkPattern = regexp.MustCompile(`(?i)https?://[^\s<>"]+`)

	jobLinkHints = []string{"job", "career", "apply", "linkedin.com/jobs", "glassdoor.com"}
)

// ExtractJobTitle looks for a title in the email body followed by its subject.
func ExtractJobTitle(text string) string {
	return firstGroup(titlePatterns, text)
}

// ExtractCompanyName looks for the hiring company in the email body.
func ExtractCompanyName(body string) string {
	return firstGroup(companyPatterns, body)
}

func firstGroup(patterns []*regexp.Regexp, text string) string {
	for _, p := range patterns {
		m := p.FindStringSubmatch(text)
		if len(m) > 1 {
			if v := strings.TrimSpace(m[1]); v != "" {
				return v
			}
		}
	}
	return ""
}

// ExtractJobLink prefers a URL that looks like a posting or an apply page,
// then falls back to the first URL in the text.
func ExtractJobLink(body string) string {
	links := linkPattern.FindAllString(body, -1)
	for _, link := range links {
		lower := strings.ToLower(link)
		for _, hint := range jobLinkHints {
			if strings.Contains(lower, hint) {
				return link
			}
		}
	}
	if len(links) > 0 {
		return links[0]
	}
	return ""
}

// ExtractJobInfo turns one email into an opportunity. It returns nil when
// neither a title nor a company could be found.
func ExtractJobInfo(subject, sender, body string) *models.JobOpportunity {
	subject, sender, body = cleanText(subject), cleanText(sender), cleanText(body)
	combined := body + " " + subject

	title := ExtractJobTitle(combined)
	company := ExtractCompanyName(body)
	if title == "" && company == "" {
		return nil
	}
	if title == "" {
		title = defaultJobTitle
	}
	if company == "" {
		company = defaultCompanyName
	}

	return &models.JobOpportunity{
		JobTitle:          title,
		CompanyName:       company,
		JobLink:           ExtractJobLink(body),
		Source:            ClassifySource(sender),
		EmailSubject:      subject,
		EmailSender:       sender,
		ExtractedKeywords: MatchEmailKeywords(combined),
		RawEmailContent:   truncateRunes(body, maxRawEmailRunes),
	}
}

// ParseJobEmail reads the headers and body of a fetched message and runs the extractors.
func ParseJobEmail(msg *gmail.Message) (*models.JobOpportunity, error) {
	if msg == nil || msg.Payload == nil {
		return nil, fmt.Errorf("message has no payload")
	}
	headers := parseHeaders(msg)
	body, err := getEmailBody(msg.Payload)
	if err != nil {
		return nil, err
	}
	return ExtractJobInfo(headers["subject"], headers["from"], body), nil
}

// parseHeaders keys headers by lower-cased name; the first value wins.
func parseHeaders(msg *gmail.Message) map[string]string {
	res := make(map[string]string)
	for _, h := range msg.Payload.Headers {
		if h == nil {
			continue
		}
		name := strings.ToLower(h.Name)
		if _, ok := res[name]; !ok {
			res[name] = h.Value
		}
	}
	return res
}

// getEmailBody prefers a single-part body. Otherwise every text/plain part,
// nested multiparts included, is decoded and concatenated in order.
// Each part is transcoded to UTF-8 from the charset its Content-Type declares.
func getEmailBody(payload *gmail.MessagePart) (string, error) {
	if payload.Body != nil && payload.Body.Data != "" {
		return decodePart(payload)
	}
	var sb strings.Builder
	if err := collectPlainText(payload.Parts, &sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func collectPlainText(parts []*gmail.MessagePart, sb *strings.Builder) error {
	for _, part := range parts {
		if part == nil {
			continue
		}
		if part.MimeType == "text/plain" && part.Body != nil && part.Body.Data != "" {
			text, err := decodePart(part)
			if err != nil {
				return err
			}
			sb.WriteString(text)
			continue
		}
		if len(part.Parts) > 0 {
			if err := collectPlainText(part.Parts, sb); err != nil {
				return err
			}
		}
	}
	return nil
}

func decodePart(part *gmail.MessagePart) (string, error) {
	raw, err := decodeBase64URL(part.Body.Data)
	if err != nil {
		return "", err
	}
	return toUTF8(raw, partCharset(part)), nil
}

// decodeBase64URL accepts Gmail body data with or without padding.
func decodeBase64URL(data string) ([]byte, error) {
	d, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(data, "="))
	if err != nil {
		return nil, fmt.Errorf("decode body: %w", err)
	}
	return d, nil
}

func partCharset(part *gmail.MessagePart) string {
	for _, h := range part.Headers {
		if h == nil || !strings.EqualFold(h.Name, "Content-Type") {
			continue
		}
		if _, params, err := mime.ParseMediaType(h.Value); err == nil {
			return params["charset"]
		}
		return ""
	}
	return ""
}

// toUTF8 transcodes raw from charset. Unknown or broken charsets fall back to
// the raw bytes; cleanText later replaces whatever is still invalid.
func toUTF8(raw []byte, charset string) string {
	switch strings.ToLower(strings.TrimSpace(charset)) {
	case "", "utf-8", "utf8", "us-ascii":
		return string(raw)
	}
	enc, err := htmlindex.Get(charset)
	if err != nil {
		return string(raw)
	}
	out, _, err := transform.Bytes(enc.NewDecoder(), raw)
	if err != nil {
		return string(raw)
	}
	return string(out)
}

// cleanText makes text storable in a UTF-8 text column: invalid sequences
// become U+FFFD and NUL bytes are dropped.
func cleanText(s string) string {
	return strings.ReplaceAll(strings.ToValidUTF8(s, "\uFFFD"), "\x00", "")
}

func truncateRunes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
