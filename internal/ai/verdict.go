package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrSchema marks a reply that decoded as JSON but does not satisfy the verdict schema.
var ErrSchema = errors.New("verdict does not match schema")

// VerdictErrorKind classifies why a judge reply was rejected.
type VerdictErrorKind string

const (
	KindEmpty     VerdictErrorKind = "empty"
	KindMalformed VerdictErrorKind = "malformed"
	KindSchema    VerdictErrorKind = "schema"
)

// VerdictError describes a rejected judge reply.
type VerdictError struct {
	Kind   VerdictErrorKind
	Fields []string
	Err    error
}

func (e *VerdictError) Error() string {
	if len(e.Fields) > 0 {
		return fmt.Sprintf("%s verdict (%s): %v", e.Kind, strings.Join(e.Fields, ", "), e.Err)
	}
	return fmt.Sprintf("%s verdict: %v", e.Kind, e.Err)
}

func (e *VerdictError) Unwrap() error { return e.Err }

var verdictValidator = validator.New(validator.WithRequiredStructEnabled())

// ParseVerdict decodes and validates a judge reply. Markdown fences are
// removed first; scores must be present and within [0,1].
func ParseVerdict(text string) (JudgeVerdict, error) {
	cleaned := StripCodeFence(text)
	if cleaned == "" {
		return JudgeVerdict{}, &VerdictError{Kind: KindEmpty, Err: ErrEmptyResponse}
	}

	var verdict JudgeVerdict
	if err := json.Unmarshal([]byte(cleaned), &verdict); err != nil {
		return JudgeVerdict{}, &VerdictError{Kind: KindMalformed, Err: err}
	}

	if err := verdictValidator.Struct(verdict); err != nil {
		var fields []string
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			for _, fe := range validationErrs {
				fields = append(fields, fmt.Sprintf("%s:%s", fe.Field(), fe.Tag()))
			}
		}
		return JudgeVerdict{}, &VerdictError{Kind: KindSchema, Fields: fields, Err: ErrSchema}
	}

	verdict.Comment = strings.TrimSpace(verdict.Comment)
	return verdict, nil
}
