package nlu

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/smartdocs-ai/assistant/pkg/logging"
)

// ClarificationReply is the generic re-prompt used when extraction could not
// produce anything usable.
const ClarificationReply = "I didn't understand that. Could you please provide the information I asked for?"

// ExtractionContext tells the extractor what has already been collected so it
// never re-asks, and constrains the field vocabulary it may report.
type ExtractionContext struct {
	// Collected maps canonical field names to already-validated values.
	Collected map[string]string
	// Required is the full ordered field list for the conversation.
	Required []string
	// Missing is the ordered subset of Required not yet collected.
	Missing []string
	// History is a bounded window of recent conversation messages.
	History []ChatMessage
}

// ExtractionResult is the structured outcome of one extraction turn.
// IsComplete is advisory only; the booking state is the authority.
type ExtractionResult struct {
	ReplyText       string            `json:"reply"`
	ExtractedFields map[string]string `json:"extracted"`
	IsComplete      bool              `json:"is_complete"`
}

// Extractor turns a free-form utterance into candidate field values plus a
// conversational reply. Implementations must fail closed: when the model
// output cannot be parsed the result carries no fields and a generic
// clarification, never an error that would abort the turn.
type Extractor interface {
	Extract(ctx context.Context, ec ExtractionContext, utterance string) ExtractionResult
}

// LLMExtractor implements Extractor with a structured LLM call.
type LLMExtractor struct {
	client LLMClient
	logger *logging.Logger
}

// NewLLMExtractor creates an extractor backed by the given client.
func NewLLMExtractor(client LLMClient, logger *logging.Logger) *LLMExtractor {
	if client == nil {
		panic("nlu: llm client required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &LLMExtractor{client: client, logger: logger}
}

var _ Extractor = (*LLMExtractor)(nil)

// Extract runs one extraction turn.
func (e *LLMExtractor) Extract(ctx context.Context, ec ExtractionContext, utterance string) ExtractionResult {
	failed := ExtractionResult{
		ReplyText:       ClarificationReply,
		ExtractedFields: map[string]string{},
	}

	messages := make([]ChatMessage, 0, len(ec.History)+1)
	for _, msg := range ec.History {
		if msg.Role == ChatRoleSystem {
			continue
		}
		messages = append(messages, msg)
	}
	messages = append(messages, ChatMessage{Role: ChatRoleUser, Content: utterance})

	resp, err := e.client.Complete(ctx, LLMRequest{
		System:      []string{buildExtractionPrompt(ec)},
		Messages:    messages,
		Temperature: 0.1,
		MaxTokens:   500,
	})
	if err != nil {
		e.logger.Warn("slot extraction failed", "error", err)
		return failed
	}

	var result ExtractionResult
	if err := json.Unmarshal([]byte(jsonPayload(resp.Text)), &result); err != nil {
		e.logger.Warn("slot extractor returned unparsable output", "error", err)
		return failed
	}
	if result.ExtractedFields == nil {
		result.ExtractedFields = map[string]string{}
	}
	if strings.TrimSpace(result.ReplyText) == "" {
		result.ReplyText = ClarificationReply
	}
	return result
}

const extractionFormat = `Respond with JSON only:
{"reply": "<natural response to the user>", "extracted": {"<field>": "<raw value>"}, "is_complete": <bool>}`

func buildExtractionPrompt(ec ExtractionContext) string {
	var b strings.Builder

	if len(ec.Missing) == 0 {
		b.WriteString("You are a friendly booking assistant. All required information has been collected.\n\n")
		fmt.Fprintf(&b, "Collected information: %s\n\n", formatFields(ec.Collected))
		b.WriteString("Thank the user, summarize what was collected, and ask if they'd like to proceed with the booking.\n\n")
		b.WriteString(extractionFormat)
		return b.String()
	}

	b.WriteString("You are a friendly booking assistant collecting information for a call booking.\n\n")
	fmt.Fprintf(&b, "IMPORTANT: You already have this information collected: %s\n", formatFields(ec.Collected))
	fmt.Fprintf(&b, "You still need: %s\n\n", joinNaturally(ec.Missing))
	b.WriteString(`Your task:
1. Extract ONLY the missing information from the user's message
2. DO NOT ask for information you already have
3. If they provide missing information, acknowledge it and proceed
4. If they don't provide missing information, politely ask for what's still needed

CRITICAL: Use these EXACT field names as keys in "extracted":
`)
	for _, field := range ec.Required {
		fmt.Fprintf(&b, "- %q\n", field)
	}
	b.WriteString("\n")
	b.WriteString(extractionFormat)
	return b.String()
}

func formatFields(fields map[string]string) string {
	if len(fields) == 0 {
		return "(nothing yet)"
	}
	data, err := json.Marshal(fields)
	if err != nil {
		return "(nothing yet)"
	}
	return string(data)
}

// joinNaturally renders ["a","b","c"] as "a, b and c" for the prompt.
func joinNaturally(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	default:
		return strings.Join(items[:len(items)-1], ", ") + " and " + items[len(items)-1]
	}
}
