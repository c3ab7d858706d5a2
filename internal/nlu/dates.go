package nlu

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/smartdocs-ai/assistant/pkg/logging"
)

// DateResult is the outcome of resolving a natural-language date phrase.
// ISODate is either a date ("2006-01-02") or a date-time without zone
// ("2006-01-02T15:04:05") in the requested timezone.
type DateResult struct {
	Valid   bool   `json:"is_valid"`
	ISODate string `json:"iso_date"`
	Reason  string `json:"reasoning"`
}

// DateResolver resolves phrases like "tomorrow at 3pm" relative to a timezone
// and the current moment. Fail-closed: resolution trouble reads as invalid.
type DateResolver interface {
	ResolveDate(ctx context.Context, phrase, timezone string) DateResult
}

// isoLayouts are accepted verbatim without consulting the model.
var isoLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	time.RFC3339,
	"2006-01-02",
}

// LLMDateResolver resolves natural-language dates with a structured LLM call.
type LLMDateResolver struct {
	client LLMClient
	logger *logging.Logger
	now    func() time.Time
}

// NewLLMDateResolver creates a date resolver backed by the given client.
func NewLLMDateResolver(client LLMClient, logger *logging.Logger) *LLMDateResolver {
	if client == nil {
		panic("nlu: llm client required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &LLMDateResolver{client: client, logger: logger, now: time.Now}
}

var _ DateResolver = (*LLMDateResolver)(nil)

const datePrompt = `You are a date parser. Parse the user's natural language date/time to ISO format.

Timezone: %s
Current date and time: %s

Handle phrases like: "next Monday", "tomorrow at 3pm", "in 2 weeks", "next month".
When a time of day is given, include it: "2006-01-02T15:04:05". Otherwise return just the date: "2006-01-02".

Respond with JSON only:
{"is_valid": <bool>, "iso_date": "<ISO date or date-time, or null>", "reasoning": "<brief explanation>"}`

// ResolveDate resolves the phrase. Input that is already ISO formatted is
// normalized locally without a model round trip.
func (r *LLMDateResolver) ResolveDate(ctx context.Context, phrase, timezone string) DateResult {
	phrase = strings.TrimSpace(phrase)
	if phrase == "" {
		return DateResult{Reason: "empty date"}
	}

	loc := locationOrUTC(timezone)
	for _, layout := range isoLayouts {
		if t, err := time.ParseInLocation(layout, phrase, loc); err == nil {
			iso := t.Format("2006-01-02T15:04:05")
			if layout == "2006-01-02" {
				iso = t.Format("2006-01-02")
			}
			return DateResult{Valid: true, ISODate: iso, Reason: "already in ISO format"}
		}
	}

	now := r.now().In(loc)
	resp, err := r.client.Complete(ctx, LLMRequest{
		System:      []string{fmt.Sprintf(datePrompt, loc.String(), now.Format("Monday, 2006-01-02 15:04"))},
		Messages:    []ChatMessage{{Role: ChatRoleUser, Content: fmt.Sprintf("Date phrase: %s", phrase)}},
		Temperature: 0.1,
		MaxTokens:   200,
	})
	if err != nil {
		r.logger.Warn("date resolution failed", "error", err, "phrase", phrase)
		return DateResult{Reason: "date resolution unavailable"}
	}

	var result DateResult
	if err := json.Unmarshal([]byte(jsonPayload(resp.Text)), &result); err != nil {
		r.logger.Warn("date resolver returned unparsable output", "error", err)
		return DateResult{Reason: "parse error"}
	}
	if !result.Valid {
		result.ISODate = ""
		if result.Reason == "" {
			result.Reason = "no resolvable date found"
		}
		return result
	}

	// The model occasionally claims validity with a malformed value. Keep the
	// downstream contract strict.
	iso := strings.TrimSpace(result.ISODate)
	for _, layout := range isoLayouts {
		if _, err := time.ParseInLocation(layout, iso, loc); err == nil {
			result.ISODate = iso
			return result
		}
	}
	return DateResult{Reason: "resolver produced a malformed date"}
}

func locationOrUTC(timezone string) *time.Location {
	loc, err := time.LoadLocation(strings.TrimSpace(timezone))
	if err != nil || loc == nil {
		return time.UTC
	}
	return loc
}
