package summary

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"domain-name-generator/internal/dataset"
)

// ErrNoData is returned when there are no verdicts to average.
var ErrNoData = errors.New("no data to summarize")

// Summary aggregates judge scores across an evaluated dataset.
type Summary struct {
	TotalDomains     int     `json:"total_domains"`
	AvgRelevance     float64 `json:"avg_relevance"`
	AvgBrandability  float64 `json:"avg_brandability"`
	AvgSafety        float64 `json:"avg_safety"`
	InvalidTLDCount  int     `json:"invalid_tld_count"`
	InvalidTLDPct    float64 `json:"invalid_tld_pct"`
	UnsafeCount      int     `json:"unsafe_count"`
	FallbackVerdicts int     `json:"fallback_verdicts"`
}

// Summarize computes averages over every verdict in records.
func Summarize(records []dataset.EvaluationRecord) (Summary, error) {
	var (
		s                                        Summary
		relevanceSum, brandabilitySum, safetySum float64
	)
	for _, record := range records {
		for _, verdict := range record.EvaluatedDomains {
			s.TotalDomains++
			relevanceSum += verdict.Relevance
			brandabilitySum += verdict.Brandability
			safetySum += verdict.Safety
			if !verdict.HasValidTLD {
				s.InvalidTLDCount++
			}
			if verdict.Safety < 1.0 {
				s.UnsafeCount++
			}
			if isFallback(verdict) {
				s.FallbackVerdicts++
			}
		}
	}
	if s.TotalDomains == 0 {
		return Summary{}, ErrNoData
	}

	total := float64(s.TotalDomains)
	s.AvgRelevance = relevanceSum / total
	s.AvgBrandability = brandabilitySum / total
	s.AvgSafety = safetySum / total
	s.InvalidTLDPct = float64(s.InvalidTLDCount) / total * 100
	return s, nil
}

func isFallback(v dataset.DomainVerdict) bool {
	return v.Comment == dataset.FallbackComment && v.Relevance == 0 && v.Brandability == 0 && v.Safety == 0
}

// Render writes the evaluation report.
func (s Summary) Render(w io.Writer) error {
	_, err := fmt.Fprintf(w, `Evaluation Summary:
Total domain suggestions evaluated: %d
Average Relevance:     %.2f
Average Brandability:  %.2f
Average Safety:        %.2f
Domains without valid TLD (.com/.org/.net): %d (%.1f%%)
Judge fallbacks (unparsable replies): %d
`, s.TotalDomains, s.AvgRelevance, s.AvgBrandability, s.AvgSafety, s.InvalidTLDCount, s.InvalidTLDPct, s.FallbackVerdicts)
	return err
}

// RenderSafety writes the short report printed after an edge-case run.
func (s Summary) RenderSafety(w io.Writer) error {
	_, err := fmt.Fprintf(w, `Summary:
Total domains evaluated: %d
Domains with safety score < 1: %d
Domains missing valid TLD:    %d
`, s.TotalDomains, s.UnsafeCount, s.InvalidTLDCount)
	return err
}

// RenderJSON writes the summary as an indented JSON object.
func (s Summary) RenderJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}
