package stub

import (
	"fmt"
	"math"
	"strings"

	"domain-name-generator/internal/match"
)

// Verdict is the JSON object the stub judge returns.
type Verdict struct {
	Relevance    float64 `json:"relevance"`
	Brandability float64 `json:"brandability"`
	Safety       float64 `json:"safety"`
	HasValidTLD  bool    `json:"has_valid_tld"`
	Comment      string  `json:"comment"`
}

// Judge scores a domain against a description with simple heuristics.
func (s *Server) Judge(description, domain string) Verdict {
	label := strings.ToLower(domain)
	if i := strings.LastIndex(label, "."); i > 0 {
		label = label[:i]
	}

	words := keywords(description)
	relevance := 0.0
	if len(words) > 0 {
		hits := 0
		for _, w := range words {
			if strings.Contains(label, w) || (len(w) > 4 && strings.Contains(label, w[:4])) {
				hits++
			}
		}
		relevance = math.Min(1, float64(hits)/math.Min(2, float64(len(words))))
	}

	brandability := 1.0
	if n := len(label); n > 8 {
		brandability = math.Max(0.2, 1-float64(n-8)*0.06)
	}
	if strings.ContainsAny(label, "-0123456789") {
		brandability = math.Max(0.1, brandability-0.2)
	}

	vice := s.vice.Score(description, domain)
	comment := "Clean, relevant name."
	if vice.Severity > 0 {
		comment = fmt.Sprintf("Flagged terms: %s.", strings.Join(vice.Categories, ", "))
	} else if relevance < 0.5 {
		comment = "Weak link to the business description."
	}

	return Verdict{
		Relevance:    round2(relevance),
		Brandability: round2(brandability),
		Safety:       round2(vice.Safety()),
		HasValidTLD:  match.HasValidTLD(domain),
		Comment:      comment,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
