package services

import (
	"regexp"
	"strings"
)

var gpNamePatterns = []*regexp.Regexp{
	// Best Practice export: "Doctor Name: John Deery"
	regexp.MustCompile(`(?i)Doctor Name:\s*(.+)`),
	// "GP: Dr Smith", "Treating Doctor: Dr Smith"; the word boundary keeps "YourGP" out
	regexp.MustCompile(`(?i)\b(?:GP|Treating Doctor|Usual Doctor|Practitioner)\b[\s:]*(?:Dr\.?\s+)?([A-Z][a-z]+(?:\s+[A-Z][a-z]+)?)`),
}

var sites = []struct {
	needle string
	name   string
}{
	{"crace", "Crace"},
	{"denman", "Denman"},
	{"lyneham", "Lyneham"},
}

// ParseGPName extracts the treating GP from a health summary, always prefixed with "Dr".
// It returns "" when no GP is mentioned.
func ParseGPName(healthSummary string) string {
	for _, pattern := range gpNamePatterns {
		match := pattern.FindStringSubmatch(healthSummary)
		if match == nil {
			continue
		}
		name := strings.TrimSpace(match[1])
		if name == "" {
			continue
		}
		if !strings.HasPrefix(strings.ToLower(name), "dr") {
			name = "Dr " + name
		}
		return name
	}
	return ""
}

// ParseSite returns the practice site named in a health summary, or "".
func ParseSite(healthSummary string) string {
	text := strings.ToLower(healthSummary)
	for _, site := range sites {
		if strings.Contains(text, site.needle) {
			return site.name
		}
	}
	return ""
}
