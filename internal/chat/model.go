package chat

import "github.com/smartdocs-ai/assistant/internal/booking"

// MessageRequest is the body of POST /chat. ConversationID is optional; a
// server-generated id is returned for new conversations.
type MessageRequest struct {
	ConversationID string `json:"conversation_id,omitempty"`
	Message        string `json:"message"`
}

// MessageResponse is the reply for one chat turn. State is present while a
// booking conversation is collecting fields.
type MessageResponse struct {
	ConversationID string         `json:"conversation_id"`
	Answer         string         `json:"answer"`
	Intent         string         `json:"intent"`
	State          *booking.State `json:"booking_state,omitempty"`
	IsComplete     bool           `json:"is_complete"`
	BookingID      string         `json:"booking_id,omitempty"`
	MeetingLink    string         `json:"meeting_link,omitempty"`
}
