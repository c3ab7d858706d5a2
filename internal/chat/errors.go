package chat

import "errors"

// IntentQuestionAnswering labels turns the booking agent declined.
const IntentQuestionAnswering = "question_answering"

var (
	// ErrEmptyMessage indicates a chat request with no message content.
	ErrEmptyMessage = errors.New("message is required")
)
