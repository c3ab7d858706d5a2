package calendar

import (
	"context"
	"time"
)

// EventRequest describes the meeting to place on the calendar.
type EventRequest struct {
	Title           string
	Start           time.Time
	DurationMinutes int
	Description     string
	AttendeeEmail   string
	AttendeeName    string
}

// Event is a created calendar event.
type Event struct {
	ID          string
	MeetingLink string
	HTMLLink    string
	Start       time.Time
	End         time.Time
}

// Scheduler creates calendar events for confirmed bookings.
type Scheduler interface {
	CreateEvent(ctx context.Context, req EventRequest) (*Event, error)
}
