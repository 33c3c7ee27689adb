package dataset

import "strings"

const (
	chatSystemPrompt = "You are a creative assistant that generates domain name ideas based on a business description."
	chatUserPrefix   = "Generate 3 domain name suggestions for the following business: "
)

// FormatChat converts a generation record into the system/user/assistant
// layout expected by the fine-tuning job.
func FormatChat(record GenerationRecord) ChatEntry {
	return ChatEntry{
		Messages: []ChatMessage{
			{Role: "system", Content: chatSystemPrompt},
			{Role: "user", Content: chatUserPrefix + record.BusinessDescription},
			{Role: "assistant", Content: strings.Join(record.SuggestedDomains, ", ")},
		},
	}
}

// BuildTrainingSet formats every record whose description has not been seen
// before. Descriptions are compared by exact string match; the first
// occurrence wins.
func BuildTrainingSet(records []GenerationRecord) []ChatEntry {
	seen := make(map[string]struct{}, len(records))
	entries := make([]ChatEntry, 0, len(records))
	for _, record := range records {
		if _, ok := seen[record.BusinessDescription]; ok {
			continue
		}
		seen[record.BusinessDescription] = struct{}{}
		entries = append(entries, FormatChat(record))
	}
	return entries
}
