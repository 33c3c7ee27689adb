package ai

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVerdictAccepts(t *testing.T) {
	verdict, err := ParseVerdict("```json\n{\"relevance\":0.9,\"brandability\":0,\"safety\":1,\"comment\":\" ok \"}\n```")
	require.NoError(t, err)
	assert.Equal(t, 0.9, *verdict.Relevance)
	assert.Equal(t, 0.0, *verdict.Brandability)
	assert.Equal(t, 1.0, *verdict.Safety)
	assert.Equal(t, "ok", verdict.Comment)
}

func TestParseVerdictRejects(t *testing.T) {
	tests := []struct {
		name string
		text string
		kind VerdictErrorKind
	}{
		{"empty", "", KindEmpty},
		{"prose", "This domain is great!", KindMalformed},
		{"truncated", `{"relevance":0.5,`, KindMalformed},
		{"missing score", `{"relevance":0.5,"brandability":0.5,"comment":"x"}`, KindSchema},
		{"out of range", `{"relevance":1.5,"brandability":0.5,"safety":1}`, KindSchema},
		{"negative", `{"relevance":0.5,"brandability":-0.1,"safety":1}`, KindSchema},
		{"wrong type", `{"relevance":"high","brandability":0.5,"safety":1}`, KindMalformed},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseVerdict(tc.text)
			require.Error(t, err)
			var verdictErr *VerdictError
			require.True(t, errors.As(err, &verdictErr))
			assert.Equal(t, tc.kind, verdictErr.Kind)
		})
	}
}

func TestParseVerdictSchemaErrorNamesFields(t *testing.T) {
	_, err := ParseVerdict(`{"relevance":2,"brandability":0.5}`)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSchema))

	var verdictErr *VerdictError
	require.True(t, errors.As(err, &verdictErr))
	assert.Contains(t, verdictErr.Fields, "Relevance:lte")
	assert.Contains(t, verdictErr.Fields, "Safety:required")
}

func TestParseVerdictMalformedWrapsJSONError(t *testing.T) {
	_, err := ParseVerdict("{nope")
	var syntaxErr *json.SyntaxError
	assert.True(t, errors.As(err, &syntaxErr))
}
