package calendar

import (
	"context"
	"fmt"
	"time"

	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/smartdocs-ai/assistant/pkg/logging"
)

// GoogleScheduler creates events on a Google Calendar with a Meet link
// attached. Credentials come from a service account JSON blob or file.
type GoogleScheduler struct {
	events     eventsInserter
	calendarID string
	logger     *logging.Logger
	now        func() time.Time
}

// eventsInserter is the slice of the Calendar API the scheduler uses.
type eventsInserter interface {
	insert(ctx context.Context, calendarID string, event *gcal.Event) (*gcal.Event, error)
}

type googleEvents struct {
	svc *gcal.Service
}

func (g *googleEvents) insert(ctx context.Context, calendarID string, event *gcal.Event) (*gcal.Event, error) {
	return g.svc.Events.Insert(calendarID, event).
		ConferenceDataVersion(1).
		Context(ctx).
		Do()
}

// GoogleSchedulerConfig configures the Google Calendar scheduler.
type GoogleSchedulerConfig struct {
	// CalendarID is the target calendar; "primary" when empty.
	CalendarID string
	// CredentialsJSON is the service account key. Takes precedence over
	// CredentialsPath.
	CredentialsJSON string
	// CredentialsPath points to a service account key file.
	CredentialsPath string
}

// NewGoogleScheduler builds a scheduler backed by the Google Calendar API.
func NewGoogleScheduler(ctx context.Context, cfg GoogleSchedulerConfig, logger *logging.Logger) (*GoogleScheduler, error) {
	if logger == nil {
		logger = logging.Default()
	}

	var opts []option.ClientOption
	switch {
	case cfg.CredentialsJSON != "":
		opts = append(opts, option.WithCredentialsJSON([]byte(cfg.CredentialsJSON)))
	case cfg.CredentialsPath != "":
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsPath))
	}
	opts = append(opts, option.WithScopes(gcal.CalendarScope))

	svc, err := gcal.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("calendar: failed to build service: %w", err)
	}

	calendarID := cfg.CalendarID
	if calendarID == "" {
		calendarID = "primary"
	}

	return &GoogleScheduler{
		events:     &googleEvents{svc: svc},
		calendarID: calendarID,
		logger:     logger,
		now:        time.Now,
	}, nil
}

var _ Scheduler = (*GoogleScheduler)(nil)

// CreateEvent inserts the event with a Meet conference attached and returns
// the created event with its video link when Google granted one.
func (s *GoogleScheduler) CreateEvent(ctx context.Context, req EventRequest) (*Event, error) {
	body := eventBody(req)

	created, err := s.events.insert(ctx, s.calendarID, body)
	if err != nil {
		return nil, fmt.Errorf("calendar: event insert failed: %w", err)
	}

	event := &Event{
		ID:          created.Id,
		MeetingLink: meetingLink(created),
		HTMLLink:    created.HtmlLink,
		Start:       req.Start,
		End:         req.Start.Add(time.Duration(req.DurationMinutes) * time.Minute),
	}

	s.logger.Info("calendar event created",
		"event_id", event.ID,
		"start", event.Start,
		"has_meet_link", event.MeetingLink != "",
	)
	return event, nil
}

// eventBody builds the API event payload for a request.
func eventBody(req EventRequest) *gcal.Event {
	end := req.Start.Add(time.Duration(req.DurationMinutes) * time.Minute)

	description := req.Description
	if description == "" {
		who := req.AttendeeName
		if who == "" {
			who = req.AttendeeEmail
		}
		description = fmt.Sprintf("Meeting with %s", who)
	}

	event := &gcal.Event{
		Summary:     req.Title,
		Description: description,
		Start: &gcal.EventDateTime{
			DateTime: req.Start.Format(time.RFC3339),
		},
		End: &gcal.EventDateTime{
			DateTime: end.Format(time.RFC3339),
		},
		ConferenceData: &gcal.ConferenceData{
			CreateRequest: &gcal.CreateConferenceRequest{
				RequestId: fmt.Sprintf("meet_%d", req.Start.Unix()),
				ConferenceSolutionKey: &gcal.ConferenceSolutionKey{
					Type: "hangoutsMeet",
				},
			},
		},
	}
	if req.AttendeeEmail != "" {
		event.Attendees = []*gcal.EventAttendee{{
			Email:       req.AttendeeEmail,
			DisplayName: req.AttendeeName,
		}}
	}
	return event
}

// meetingLink extracts the video entry point, falling back to HangoutLink.
func meetingLink(event *gcal.Event) string {
	if event.ConferenceData != nil {
		for _, entry := range event.ConferenceData.EntryPoints {
			if entry.EntryPointType == "video" {
				return entry.Uri
			}
		}
	}
	return event.HangoutLink
}
