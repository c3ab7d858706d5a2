package booking

import "github.com/smartdocs-ai/assistant/internal/nlu"

// buildExtractionContext packages the conversation's progress for the
// extractor: what is already collected (so it never re-asks), the full
// required list, the ordered missing subset, and a bounded history window.
// Field names cross the boundary as the canonical string tokens.
func buildExtractionContext(state *State, history []nlu.ChatMessage) nlu.ExtractionContext {
	collected := make(map[string]string, len(state.Collected))
	for field, value := range state.Collected {
		collected[string(field)] = value
	}

	required := make([]string, 0, len(RequiredFields()))
	for _, field := range RequiredFields() {
		required = append(required, string(field))
	}

	missing := make([]string, 0, len(required))
	for _, field := range state.Missing() {
		missing = append(missing, string(field))
	}

	return nlu.ExtractionContext{
		Collected: collected,
		Required:  required,
		Missing:   missing,
		History:   history,
	}
}
