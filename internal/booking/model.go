package booking

import (
	"strings"
	"time"
)

// RecordStatus is the lifecycle status of a persisted booking.
type RecordStatus string

const (
	RecordStatusConfirmed RecordStatus = "confirmed"
	RecordStatusCancelled RecordStatus = "cancelled"
	RecordStatusCompleted RecordStatus = "completed"
	RecordStatusFailed    RecordStatus = "failed"
)

// ValidRecordStatus reports whether s is a known status value.
func ValidRecordStatus(s RecordStatus) bool {
	switch s {
	case RecordStatusConfirmed, RecordStatusCancelled, RecordStatusCompleted, RecordStatusFailed:
		return true
	}
	return false
}

// Record is the durable outcome of a completed booking conversation. Created
// once per successful workflow run; immutable afterwards except for status
// transitions performed off the hot path.
type Record struct {
	ID              string       `json:"booking_id"`
	ConversationID  string       `json:"conversation_id"`
	Name            string       `json:"name"`
	Email           string       `json:"email"`
	Phone           string       `json:"phone"`
	MeetingTime     time.Time    `json:"meeting_time"`
	MeetingTitle    string       `json:"meeting_title"`
	Status          RecordStatus `json:"status"`
	CalendarEventID string       `json:"calendar_event_id,omitempty"`
	MeetingLink     string       `json:"meeting_link,omitempty"`
	Notes           string       `json:"notes,omitempty"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
}

// CreateRecordRequest carries everything needed to persist a booking.
type CreateRecordRequest struct {
	ConversationID  string
	Name            string
	Email           string
	Phone           string
	MeetingTime     time.Time
	MeetingTitle    string
	CalendarEventID string
	MeetingLink     string
}

// Validate checks the request before it reaches storage.
func (r *CreateRecordRequest) Validate() error {
	if strings.TrimSpace(r.ConversationID) == "" {
		return ErrMissingConversationID
	}
	if strings.TrimSpace(r.Name) == "" {
		return ErrMissingName
	}
	if strings.TrimSpace(r.Email) == "" {
		return ErrMissingEmail
	}
	if r.MeetingTime.IsZero() {
		return ErrMissingMeetingTime
	}
	return nil
}
