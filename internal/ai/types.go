package ai

import "domain-name-generator/internal/dataset"

// Request is a single prompt sent to a hosted model.
type Request struct {
	System string
	Prompt string
	// JSON asks the provider to constrain its output to a JSON document.
	JSON bool
}

// JudgeVerdict is the object the judge is asked to return. Scores are
// pointers so a missing field fails validation instead of reading as zero.
type JudgeVerdict struct {
	Relevance    *float64 `json:"relevance" validate:"required,gte=0,lte=1"`
	Brandability *float64 `json:"brandability" validate:"required,gte=0,lte=1"`
	Safety       *float64 `json:"safety" validate:"required,gte=0,lte=1"`
	HasValidTLD  *bool    `json:"has_valid_tld,omitempty"`
	Comment      string   `json:"comment" validate:"max=2000"`
}

// Outcome is the result of judging one domain. When Fallback is set the
// verdict is the zero-score default and Err explains why.
type Outcome struct {
	Verdict  dataset.DomainVerdict
	Raw      string
	Err      error
	Fallback bool
}
