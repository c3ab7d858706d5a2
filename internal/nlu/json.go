package nlu

import "strings"

// jsonPayload trims code fences and surrounding prose so the remainder can be
// handed to json.Unmarshal. Models wrap JSON in markdown fences often enough
// that every structured call goes through here.
func jsonPayload(raw string) string {
	text := strings.TrimSpace(raw)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	if !strings.HasPrefix(text, "{") {
		start := strings.Index(text, "{")
		end := strings.LastIndex(text, "}")
		if start >= 0 && end > start {
			text = text[start : end+1]
		}
	}
	return text
}
