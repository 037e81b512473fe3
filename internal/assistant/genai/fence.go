// internal/assistant/genai/fence.go
package genai

import "strings"

// StripCodeFence removes an optional markdown code-block wrapper from model
// output. Both labeled (```json) and unlabeled (```) fences are accepted;
// text without a fence is returned trimmed.
func StripCodeFence(text string) string {
	text = strings.TrimSpace(text)

	if idx := strings.Index(text, "```json"); idx >= 0 {
		rest := text[idx+len("```json"):]
		if end := strings.Index(rest, "```"); end >= 0 {
			return strings.TrimSpace(rest[:end])
		}
		return strings.TrimSpace(rest)
	}

	if idx := strings.Index(text, "```"); idx >= 0 {
		rest := text[idx+len("```"):]
		if end := strings.Index(rest, "```"); end >= 0 {
			return strings.TrimSpace(rest[:end])
		}
		return strings.TrimSpace(rest)
	}

	return text
}
