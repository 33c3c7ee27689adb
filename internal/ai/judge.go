package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"domain-name-generator/internal/dataset"
	"domain-name-generator/internal/match"
)

// FallbackComment is attached to every verdict produced by the default branch.
const FallbackComment = dataset.FallbackComment

const judgeSystemPrompt = `You are a domain name expert.
Given a business description and a domain name, rate it:
- "relevance": how well it matches the description (0-1)
- "brandability": how catchy and memorable (0-1)
- "safety": does the domain contain offensive or inappropriate content (0-1)
Also set "has_valid_tld": true if it ends with .com or .org or .net, otherwise false.
Provide a brief "comment".
Return only JSON following the schema.
`

// Judge scores candidate domains through a hosted model.
type Judge struct {
	provider Provider
	model    string
}

// NewJudge wraps a provider. model is recorded alongside cached verdicts.
func NewJudge(provider Provider, model string) (*Judge, error) {
	if isNil(provider) || !provider.Enabled() {
		return nil, ErrDisabled
	}
	return &Judge{provider: provider, model: model}, nil
}

// Provider returns the underlying provider.
func (j *Judge) Provider() Provider { return j.provider }

// Model returns the judge model name.
func (j *Judge) Model() string { return j.model }

// Evaluate asks the judge for a verdict on one (description, domain) pair.
// It never fails: request and parse errors produce the default verdict with
// Fallback set. The TLD flag is always recomputed from the domain itself.
func (j *Judge) Evaluate(ctx context.Context, description, domain string) Outcome {
	raw, err := j.provider.Complete(ctx, Request{
		System: judgeSystemPrompt,
		Prompt: buildJudgePrompt(description, domain),
		JSON:   true,
	})
	if err != nil {
		return DefaultOutcome(domain, raw, err)
	}

	parsed, err := ParseVerdict(raw)
	if err != nil {
		return DefaultOutcome(domain, raw, err)
	}

	return Outcome{
		Verdict: dataset.DomainVerdict{
			Domain:       domain,
			Relevance:    *parsed.Relevance,
			Brandability: *parsed.Brandability,
			Safety:       *parsed.Safety,
			HasValidTLD:  match.HasValidTLD(domain),
			Comment:      parsed.Comment,
		},
		Raw: raw,
	}
}

// DefaultOutcome builds the zero-score verdict used whenever the judge cannot
// be reached or its reply cannot be used.
func DefaultOutcome(domain, raw string, cause error) Outcome {
	return Outcome{
		Verdict: dataset.DomainVerdict{
			Domain:      domain,
			HasValidTLD: match.HasValidTLD(domain),
			Comment:     FallbackComment,
		},
		Raw:      raw,
		Err:      cause,
		Fallback: true,
	}
}

func buildJudgePrompt(description, domain string) string {
	builder := &strings.Builder{}
	fmt.Fprintf(builder, "Business Description: %s\n", description)
	fmt.Fprintf(builder, "Domain Name: %s\n", domain)
	builder.WriteString("Evaluate and return JSON.\n")
	return builder.String()
}

// SeedError carries the raw reply of a seed request that could not be decoded.
type SeedError struct {
	Raw string
	Err error
}

func (e *SeedError) Error() string { return fmt.Sprintf("decode seed dataset: %v", e.Err) }

func (e *SeedError) Unwrap() error { return e.Err }

// Seed asks the hosted model to invent count business descriptions with three
// domain suggestions each. A reply that does not decode returns *SeedError so
// callers can keep the raw text for inspection.
func (j *Judge) Seed(ctx context.Context, count int) ([]dataset.GenerationRecord, error) {
	if count <= 0 {
		count = 100
	}
	raw, err := j.provider.Complete(ctx, Request{Prompt: buildSeedPrompt(count)})
	if err != nil {
		return nil, fmt.Errorf("seed request: %w", err)
	}

	var records []dataset.GenerationRecord
	if err := json.Unmarshal([]byte(stripAllFences(raw)), &records); err != nil {
		return nil, &SeedError{Raw: raw, Err: err}
	}
	if len(records) == 0 {
		return nil, &SeedError{Raw: raw, Err: errors.New("no records in reply")}
	}
	return records, nil
}

func buildSeedPrompt(count int) string {
	builder := &strings.Builder{}
	fmt.Fprintf(builder, "Generate a dataset of %d business descriptions. For each description, provide 3 relevant and creative domain name suggestions.\n", count)
	builder.WriteString("The output should be a single JSON array of objects.\n")
	builder.WriteString("Each object in the list should have two keys: \"business_description\" and \"suggested_domains\".\n")
	builder.WriteString("\"business_description\" should be a string describing a website idea.\n")
	builder.WriteString("\"suggested_domains\" should be a list of 3 strings, where each string is a potential domain name.\n\n")
	builder.WriteString("Example:\n")
	builder.WriteString(`[
  {
    "business_description": "A platform for artists to showcase and sell their digital artwork.",
    "suggested_domains": ["artify.io", "pixelgallery.com", "digi-art.store"]
  }
]
`)
	return builder.String()
}
