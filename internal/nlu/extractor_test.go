package nlu

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestExtractReturnsFields(t *testing.T) {
	llm := &stubLLM{text: `{"reply": "Got it, Asha!", "extracted": {"name": "Asha"}, "is_complete": false}`}
	extractor := NewLLMExtractor(llm, nil)

	result := extractor.Extract(context.Background(), ExtractionContext{
		Collected: map[string]string{},
		Required:  []string{"name", "phone", "email", "date_time"},
		Missing:   []string{"name", "phone", "email", "date_time"},
	}, "My name is Asha")

	if result.ExtractedFields["name"] != "Asha" {
		t.Fatalf("expected name extracted, got %v", result.ExtractedFields)
	}
	if result.ReplyText != "Got it, Asha!" {
		t.Fatalf("unexpected reply: %s", result.ReplyText)
	}
}

func TestExtractFailsClosed(t *testing.T) {
	tests := []struct {
		name string
		llm  *stubLLM
	}{
		{"model error", &stubLLM{err: errors.New("timeout")}},
		{"unparsable output", &stubLLM{text: "here are the fields you wanted"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			extractor := NewLLMExtractor(tt.llm, nil)
			result := extractor.Extract(context.Background(), ExtractionContext{}, "hello")

			if len(result.ExtractedFields) != 0 {
				t.Fatalf("expected no fields, got %v", result.ExtractedFields)
			}
			if result.ReplyText != ClarificationReply {
				t.Fatalf("expected generic clarification, got %q", result.ReplyText)
			}
			if result.IsComplete {
				t.Fatal("failed extraction must not claim completion")
			}
		})
	}
}

func TestExtractPromptNamesCollectedAndMissing(t *testing.T) {
	llm := &stubLLM{text: `{"reply": "ok", "extracted": {}, "is_complete": false}`}
	extractor := NewLLMExtractor(llm, nil)

	extractor.Extract(context.Background(), ExtractionContext{
		Collected: map[string]string{"name": "Asha"},
		Required:  []string{"name", "phone", "email", "date_time"},
		Missing:   []string{"phone", "email", "date_time"},
	}, "anything")

	if len(llm.lastReq.System) != 1 {
		t.Fatalf("expected one system prompt, got %d", len(llm.lastReq.System))
	}
	prompt := llm.lastReq.System[0]
	if !strings.Contains(prompt, "Asha") {
		t.Error("prompt must include already-collected values")
	}
	if !strings.Contains(prompt, "phone, email and date_time") {
		t.Errorf("prompt must name missing fields, got:\n%s", prompt)
	}
	for _, token := range []string{`"name"`, `"phone"`, `"email"`, `"date_time"`} {
		if !strings.Contains(prompt, token) {
			t.Errorf("prompt must pin canonical token %s", token)
		}
	}
}

func TestExtractIncludesHistoryWithoutSystemMessages(t *testing.T) {
	llm := &stubLLM{text: `{"reply": "ok", "extracted": {}, "is_complete": false}`}
	extractor := NewLLMExtractor(llm, nil)

	extractor.Extract(context.Background(), ExtractionContext{
		History: []ChatMessage{
			{Role: ChatRoleSystem, Content: "internal"},
			{Role: ChatRoleUser, Content: "I want to book a call"},
			{Role: ChatRoleAssistant, Content: "Sure, what's your name?"},
		},
	}, "Asha")

	if len(llm.lastReq.Messages) != 3 {
		t.Fatalf("expected history + utterance, got %d messages", len(llm.lastReq.Messages))
	}
	for _, msg := range llm.lastReq.Messages {
		if msg.Role == ChatRoleSystem {
			t.Fatal("system history must not leak into the message list")
		}
	}
	last := llm.lastReq.Messages[len(llm.lastReq.Messages)-1]
	if last.Content != "Asha" {
		t.Fatalf("utterance must be the final message, got %q", last.Content)
	}
}

func TestExtractBlankReplyGetsClarification(t *testing.T) {
	llm := &stubLLM{text: `{"reply": "  ", "extracted": {"email": "a@b.com"}, "is_complete": false}`}
	extractor := NewLLMExtractor(llm, nil)

	result := extractor.Extract(context.Background(), ExtractionContext{}, "a@b.com")
	if result.ReplyText != ClarificationReply {
		t.Fatalf("blank reply should fall back, got %q", result.ReplyText)
	}
	if result.ExtractedFields["email"] != "a@b.com" {
		t.Fatal("fields must survive a blank reply")
	}
}
