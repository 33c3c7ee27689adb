package match

import (
	"regexp"
	"strings"
)

var (
	domainPattern = regexp.MustCompile(`([a-zA-Z0-9-]+\.(?:com|org|net))`)
	nonAlphaNum   = regexp.MustCompile(`[^a-z0-9]+`)
)

// ValidTLDs lists the only suffixes accepted for a suggested domain.
var ValidTLDs = []string{".com", ".org", ".net"}

// HasValidTLD reports whether the domain ends in one of ValidTLDs, ignoring
// case. Surrounding whitespace is not trimmed: "x.net " is rejected.
func HasValidTLD(domain string) bool {
	lower := strings.ToLower(domain)
	for _, tld := range ValidTLDs {
		if strings.HasSuffix(lower, tld) {
			return true
		}
	}
	return false
}

// SplitLines returns every non-blank line of the model output, trimmed.
func SplitLines(output string) []string {
	var out []string
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(strings.TrimSuffix(line, "\r"))
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

// ExtractDomains pulls name.tld tokens for the accepted TLDs out of free text.
// Matches are stripped of stray hyphens, dots and spaces at either end; a
// match left without an accepted suffix, such as "-.com", is dropped.
func ExtractDomains(output string) []string {
	var out []string
	for _, candidate := range domainPattern.FindAllString(output, -1) {
		cleaned := strings.Trim(candidate, "-. ")
		if !HasValidTLD(cleaned) {
			continue
		}
		out = append(out, cleaned)
	}
	return out
}

// SplitList flattens entries that may hold several comma-separated domains,
// which is how the fine-tuned model answers.
func SplitList(entries []string) []string {
	var out []string
	for _, entry := range entries {
		for _, part := range strings.Split(entry, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				out = append(out, trimmed)
			}
		}
	}
	return out
}

// Slug lowercases the description and reduces it to alphanumeric tokens.
func Slug(description string) []string {
	lower := strings.ToLower(description)
	parts := nonAlphaNum.Split(lower, -1)
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// NormalizeKey produces the lookup key used for domain comparisons.
func NormalizeKey(domain string) string {
	return strings.ToLower(strings.TrimSpace(domain))
}
