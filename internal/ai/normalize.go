package ai

import "strings"

const fence = "```"

// StripCodeFence removes markdown code-fence wrapping from a model reply.
//
//   - no fence: the input is returned with surrounding whitespace trimmed.
//   - "```json\n{...}\n```" or "```\n{...}\n```": the opening fence, any
//     language tag on its line, and the closing fence are removed.
//   - "```json {...}```" on one line: the tag is dropped up to the first
//     brace or bracket.
//   - an opening fence without a closing one: only the opening line goes.
func StripCodeFence(input string) string {
	trimmed := strings.TrimSpace(input)
	if !strings.HasPrefix(trimmed, fence) {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, fence)
	if idx := strings.IndexRune(trimmed, '\n'); idx >= 0 {
		trimmed = trimmed[idx+1:]
	} else if idx := strings.IndexAny(trimmed, "{["); idx >= 0 {
		trimmed = trimmed[idx:]
	}
	trimmed = strings.TrimSpace(trimmed)
	trimmed = strings.TrimSuffix(trimmed, fence)
	return strings.TrimSpace(trimmed)
}

// stripAllFences removes every fence marker, including ones embedded mid-text.
// Bulk dataset replies sometimes wrap several chunks separately.
func stripAllFences(input string) string {
	cleaned := strings.ReplaceAll(input, fence+"json", "")
	cleaned = strings.ReplaceAll(cleaned, fence, "")
	return strings.TrimSpace(cleaned)
}
