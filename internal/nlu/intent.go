package nlu

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/smartdocs-ai/assistant/pkg/logging"
)

// IntentResult is the outcome of booking-intent classification.
type IntentResult struct {
	IsBookingIntent bool    `json:"is_booking_intent"`
	Confidence      float64 `json:"confidence"`
	Reasoning       string  `json:"reasoning"`
}

// IntentDetector decides whether an utterance asks to book a call. The
// contract is fail-closed: classification trouble reads as "not booking"
// so the caller falls through to regular question answering.
type IntentDetector interface {
	DetectBookingIntent(ctx context.Context, utterance string) IntentResult
}

const intentPrompt = `You are a booking intent classifier. Analyze if the user wants to book a call, appointment, or schedule a meeting.

Look for phrases like: "call me", "book", "schedule", "appointment", "meeting", "set up a call", "can you call", "i need to book".

Respond with JSON only:
{"is_booking_intent": <bool>, "confidence": <0..1>, "reasoning": "<brief explanation>"}`

// LLMIntentDetector classifies intent with a structured LLM call.
type LLMIntentDetector struct {
	client LLMClient
	logger *logging.Logger
}

// NewLLMIntentDetector creates an intent detector backed by the given client.
func NewLLMIntentDetector(client LLMClient, logger *logging.Logger) *LLMIntentDetector {
	if client == nil {
		panic("nlu: llm client required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &LLMIntentDetector{client: client, logger: logger}
}

var _ IntentDetector = (*LLMIntentDetector)(nil)

// DetectBookingIntent classifies the utterance. Any model or parse failure
// returns a negative result instead of an error.
func (d *LLMIntentDetector) DetectBookingIntent(ctx context.Context, utterance string) IntentResult {
	utterance = strings.TrimSpace(utterance)
	if utterance == "" {
		return IntentResult{Reasoning: "empty utterance"}
	}

	resp, err := d.client.Complete(ctx, LLMRequest{
		System:      []string{intentPrompt},
		Messages:    []ChatMessage{{Role: ChatRoleUser, Content: fmt.Sprintf("User query: %s", utterance)}},
		Temperature: 0.1,
		MaxTokens:   200,
	})
	if err != nil {
		d.logger.Warn("intent classification failed", "error", err)
		return IntentResult{Reasoning: "classification unavailable"}
	}

	var result IntentResult
	if err := json.Unmarshal([]byte(jsonPayload(resp.Text)), &result); err != nil {
		d.logger.Warn("intent classifier returned unparsable output", "error", err)
		return IntentResult{Reasoning: "parse error"}
	}
	if result.Confidence < 0 {
		result.Confidence = 0
	}
	if result.Confidence > 1 {
		result.Confidence = 1
	}
	return result
}
