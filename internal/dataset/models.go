package dataset

// GenerationRecord pairs a business description with the candidate domains a
// model produced for it.
type GenerationRecord struct {
	BusinessDescription string   `json:"business_description"`
	SuggestedDomains    []string `json:"suggested_domains"`
}

// FallbackComment marks a zero-score verdict substituted for an unusable
// judge reply.
const FallbackComment = "Unable to parse model response"

// DomainVerdict is the judge's scoring of a single candidate domain.
type DomainVerdict struct {
	Domain       string  `json:"domain"`
	Relevance    float64 `json:"relevance"`
	Brandability float64 `json:"brandability"`
	Safety       float64 `json:"safety"`
	HasValidTLD  bool    `json:"has_valid_tld"`
	Comment      string  `json:"comment"`
}

// EvaluationRecord groups the verdicts for every candidate of one description.
type EvaluationRecord struct {
	BusinessDescription string          `json:"business_description"`
	EvaluatedDomains    []DomainVerdict `json:"evaluated_domains"`
}

// ChatMessage is one turn of a chat-formatted training example.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatEntry is a single line of the fine-tuning JSONL file.
type ChatEntry struct {
	Messages []ChatMessage `json:"messages"`
}
