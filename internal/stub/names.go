package stub

import (
	"fmt"
	"hash/fnv"
	"strings"

	"domain-name-generator/internal/dataset"
	"domain-name-generator/internal/match"
)

var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "app": {}, "for": {}, "in": {}, "of": {},
	"that": {}, "the": {}, "to": {}, "with": {}, "area": {}, "de": {}, "para": {},
}

var suffixes = []string{"hub", "ly", "nest", "lab", "wise", "loop"}

var fallbackRoots = []string{"nova", "brio", "kinto", "velo", "zentra", "lumo"}

// keywords returns the distinctive tokens of a description.
func keywords(description string) []string {
	var out []string
	for _, token := range match.Slug(description) {
		if _, skip := stopWords[token]; skip || len(token) < 3 {
			continue
		}
		out = append(out, token)
	}
	return out
}

func seed(description string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(description))
	return h.Sum32()
}

// SuggestNames derives three deterministic domain names from a description.
func SuggestNames(description string) []string {
	words := keywords(description)
	n := seed(description)
	if len(words) == 0 {
		words = []string{fallbackRoots[n%uint32(len(fallbackRoots))]}
	}

	first := words[0]
	second := words[len(words)-1]
	if len(words) > 1 {
		second = words[1]
	}
	suffix := suffixes[n%uint32(len(suffixes))]

	names := []string{
		clip(first+second) + ".com",
		clip(first+suffix) + ".net",
		clip(second+suffixes[(n+1)%uint32(len(suffixes))]) + ".org",
	}
	return names
}

func clip(label string) string {
	if len(label) > 20 {
		return label[:20]
	}
	return label
}

// SeedDataset builds count synthetic generation records.
func SeedDataset(count int) []dataset.GenerationRecord {
	subjects := []string{"coffee", "bakery", "yoga", "bike repair", "pet grooming", "tutoring", "florist", "podcast studio"}
	audiences := []string{"students", "remote workers", "families", "seniors", "small businesses"}

	records := make([]dataset.GenerationRecord, 0, count)
	for i := 0; i < count; i++ {
		description := fmt.Sprintf("%s service for %s #%d",
			subjects[i%len(subjects)], audiences[i%len(audiences)], i+1)
		records = append(records, dataset.GenerationRecord{
			BusinessDescription: description,
			SuggestedDomains:    SuggestNames(description),
		})
	}
	return records
}

// formatSuggestions renders names the way each model family answers:
// one per line for the base model, comma-joined for fine-tuned models.
func formatSuggestions(model string, names []string) string {
	if strings.Contains(strings.ToLower(model), "finetuned") {
		return strings.Join(names, ", ")
	}
	return strings.Join(names, "\n")
}
