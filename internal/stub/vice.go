package stub

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

//go:embed vice_terms.json
var defaultViceTerms []byte

// ViceResult captures vice detection output.
type ViceResult struct {
	Severity   int      `json:"severity"`
	Categories []string `json:"categories"`
}

// Safety maps the severity onto the judge's 0-1 safety scale.
func (r ViceResult) Safety() float64 {
	if r.Severity <= 0 {
		return 1
	}
	return float64(5-r.Severity) / 5
}

// ViceScorer flags text against severity-ranked term lists.
type ViceScorer struct {
	terms map[int][]string
}

// DefaultViceScorer uses the built-in term list.
func DefaultViceScorer() *ViceScorer {
	scorer, err := parseViceTerms(defaultViceTerms)
	if err != nil {
		panic(fmt.Sprintf("built-in vice terms: %v", err))
	}
	return scorer
}

// NewViceScorer loads a term list from a JSON file keyed by severity.
func NewViceScorer(path string) (*ViceScorer, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read vice terms: %w", err)
	}
	return parseViceTerms(data)
}

func parseViceTerms(data []byte) (*ViceScorer, error) {
	var raw map[string][]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("unmarshal vice terms: %w", err)
	}
	terms := make(map[int][]string)
	for k, v := range raw {
		severity, err := strconv.Atoi(k)
		if err != nil || severity < 1 || severity > 5 {
			return nil, fmt.Errorf("invalid severity %q", k)
		}
		var list []string
		for _, term := range v {
			if term = normalizeTerm(term); term != "" {
				list = append(list, term)
			}
		}
		if len(list) > 0 {
			terms[severity] = list
		}
	}
	if len(terms) == 0 {
		return nil, errors.New("vice terms missing")
	}
	return &ViceScorer{terms: terms}, nil
}

// Score returns the highest severity whose terms appear in any of texts.
func (v *ViceScorer) Score(texts ...string) ViceResult {
	if v == nil {
		return ViceResult{}
	}
	normalized := make([]string, 0, len(texts))
	for _, text := range texts {
		normalized = append(normalized, normalizeTerm(text))
	}

	for severity := 5; severity >= 1; severity-- {
		var hits []string
		for _, term := range v.terms[severity] {
			for _, text := range normalized {
				if strings.Contains(text, term) {
					hits = append(hits, term)
					break
				}
			}
		}
		if len(hits) > 0 {
			return ViceResult{Severity: severity, Categories: dedupe(hits)}
		}
	}
	return ViceResult{}
}

func dedupe(in []string) []string {
	sort.Strings(in)
	out := in[:0]
	var prev string
	for _, item := range in {
		if item == prev {
			continue
		}
		out = append(out, item)
		prev = item
	}
	return out
}

// normalizeTerm lowercases and keeps ASCII letters and digits only, so
// "speed-dating.net" and "Speed Dating" compare alike.
func normalizeTerm(term string) string {
	term = strings.ToLower(strings.TrimSpace(term))
	var b strings.Builder
	b.Grow(len(term))
	for _, r := range term {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
