package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/smartdocs-ai/assistant/internal/calendar"
	"github.com/smartdocs-ai/assistant/pkg/logging"
)

var workflowTracer = otel.Tracer("smartdocs.internal.booking")

// ConfirmationSender delivers a best-effort booking confirmation (email).
// Failures are soft and never surface to the user.
type ConfirmationSender interface {
	SendConfirmation(ctx context.Context, record *Record) error
}

// WorkflowConfig tunes the commit workflow.
type WorkflowConfig struct {
	// Timezone resolves date-only and fallback meeting times.
	Timezone string
	// DefaultHour is the local hour used when no time of day was collected.
	DefaultHour int
	// DurationMinutes is the fixed meeting length.
	DurationMinutes int
	// CalendarTimeout bounds the calendar call; a timeout is a soft failure.
	CalendarTimeout time.Duration
	// PersistenceTimeout bounds the record write; a timeout is a hard failure.
	PersistenceTimeout time.Duration
}

func (c *WorkflowConfig) setDefaults() {
	if c.DefaultHour <= 0 || c.DefaultHour > 23 {
		c.DefaultHour = 10
	}
	if c.DurationMinutes <= 0 {
		c.DurationMinutes = 30
	}
	if c.CalendarTimeout <= 0 {
		c.CalendarTimeout = 10 * time.Second
	}
	if c.PersistenceTimeout <= 0 {
		c.PersistenceTimeout = 5 * time.Second
	}
}

// WorkflowResult is the terminal outcome of a successful booking commit.
type WorkflowResult struct {
	Record *Record
	Reply  string
}

// Workflow executes the two committed steps once a conversation is complete:
// calendar event creation (soft failure) then durable record persistence
// (hard failure). It never touches the state store; the caller retires the
// state only after a successful run.
type Workflow struct {
	repo      Repository
	scheduler calendar.Scheduler
	notifier  ConfirmationSender
	cfg       WorkflowConfig
	loc       *time.Location
	logger    *logging.Logger
	metrics   *Metrics
	now       func() time.Time
}

// NewWorkflow wires the commit workflow. Scheduler and notifier may be nil;
// both legs are optional and soft.
func NewWorkflow(repo Repository, scheduler calendar.Scheduler, notifier ConfirmationSender, cfg WorkflowConfig, logger *logging.Logger, metrics *Metrics) *Workflow {
	if repo == nil {
		panic("booking: repository required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	cfg.setDefaults()

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil || loc == nil {
		logger.Warn("unknown booking timezone, falling back to UTC", "timezone", cfg.Timezone)
		loc = time.UTC
	}

	return &Workflow{
		repo:      repo,
		scheduler: scheduler,
		notifier:  notifier,
		cfg:       cfg,
		loc:       loc,
		logger:    logger,
		metrics:   metrics,
		now:       time.Now,
	}
}

// Execute runs the workflow for a complete conversation state. The returned
// error is non-nil only for hard failures; it wraps ErrPersistenceFailed when
// the record write is what failed.
func (w *Workflow) Execute(ctx context.Context, state *State) (*WorkflowResult, error) {
	ctx, span := workflowTracer.Start(ctx, "booking.workflow")
	defer span.End()
	span.SetAttributes(attribute.String("smartdocs.conversation_id", state.ConversationID))

	start := w.now()
	result, err := w.execute(ctx, state)
	outcome := "ok"
	if err != nil {
		outcome = "error"
		span.RecordError(err)
	}
	w.metrics.ObserveWorkflow(outcome, w.now().Sub(start).Seconds())
	return result, err
}

func (w *Workflow) execute(ctx context.Context, state *State) (*WorkflowResult, error) {
	name := state.Value(FieldName)
	email := state.Value(FieldEmail)
	phone := state.Value(FieldPhone)
	meetingTime := w.resolveMeetingTime(state.Value(FieldDateTime))
	meetingTitle := fmt.Sprintf("Call with %s", name)

	// Step 1+2: calendar event. Soft: booking continues without a calendar
	// reference when this leg fails or times out.
	var calendarEventID, meetingLink string
	if w.scheduler != nil {
		calCtx, cancel := context.WithTimeout(ctx, w.cfg.CalendarTimeout)
		event, err := w.scheduler.CreateEvent(calCtx, calendar.EventRequest{
			Title:           meetingTitle,
			Start:           meetingTime,
			DurationMinutes: w.cfg.DurationMinutes,
			Description:     fmt.Sprintf("Call with %s (%s)", name, email),
			AttendeeEmail:   email,
			AttendeeName:    name,
		})
		cancel()
		if err != nil {
			w.logger.Warn("calendar event creation failed, continuing without event",
				"conversation_id", state.ConversationID, "error", err)
		} else {
			calendarEventID = event.ID
			meetingLink = event.MeetingLink
		}
	}

	// Step 3: persist the record. Hard: failure aborts and preserves state.
	persistCtx, cancel := context.WithTimeout(ctx, w.cfg.PersistenceTimeout)
	record, err := w.repo.Create(persistCtx, &CreateRecordRequest{
		ConversationID:  state.ConversationID,
		Name:            name,
		Email:           email,
		Phone:           phone,
		MeetingTime:     meetingTime,
		MeetingTitle:    meetingTitle,
		CalendarEventID: calendarEventID,
		MeetingLink:     meetingLink,
	})
	cancel()
	if err != nil {
		return nil, &PersistenceError{Reason: persistenceReason(err), cause: err}
	}

	// Step 4: best-effort confirmation email.
	if w.notifier != nil {
		if err := w.notifier.SendConfirmation(ctx, record); err != nil {
			w.logger.Warn("confirmation email failed", "booking_id", record.ID, "error", err)
		}
	}

	w.logger.Info("booking confirmed",
		"conversation_id", state.ConversationID,
		"booking_id", record.ID,
		"meeting_time", record.MeetingTime,
		"calendar_event", calendarEventID != "",
	)

	return &WorkflowResult{
		Record: record,
		Reply:  w.confirmationReply(record),
	}, nil
}

// resolveMeetingTime turns the collected date_time value into a concrete
// meeting time. Date-only values get the default hour; an absent or
// unparseable value falls back to the next calendar day at the default hour
// rather than aborting a fully-collected booking.
func (w *Workflow) resolveMeetingTime(collected string) time.Time {
	collected = strings.TrimSpace(collected)
	if collected != "" {
		for _, layout := range []string{"2006-01-02T15:04:05", time.RFC3339, "2006-01-02T15:04"} {
			if t, err := time.ParseInLocation(layout, collected, w.loc); err == nil {
				return t
			}
		}
		if t, err := time.ParseInLocation("2006-01-02", collected, w.loc); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), w.cfg.DefaultHour, 0, 0, 0, w.loc)
		}
	}

	next := w.now().In(w.loc).AddDate(0, 0, 1)
	return time.Date(next.Year(), next.Month(), next.Day(), w.cfg.DefaultHour, 0, 0, 0, w.loc)
}

func (w *Workflow) confirmationReply(record *Record) string {
	start := record.MeetingTime
	end := start.Add(time.Duration(w.cfg.DurationMinutes) * time.Minute)

	var b strings.Builder
	b.WriteString("Perfect! Your call has been scheduled.\n\n")
	fmt.Fprintf(&b, "Date: %s\n", start.Format("Monday, January 2, 2006"))
	fmt.Fprintf(&b, "Time: %s - %s\n", start.Format("03:04 PM"), end.Format("03:04 PM"))
	fmt.Fprintf(&b, "Title: %s\n", record.MeetingTitle)
	if record.MeetingLink != "" {
		fmt.Fprintf(&b, "Meeting link: %s\n", record.MeetingLink)
	}
	fmt.Fprintf(&b, "\nYour booking ID is %s. We'll call you at the scheduled time. If you need to reschedule or cancel, just let us know!", record.ID)
	return b.String()
}

// PersistenceError is the hard-failure leg of the workflow. Reason is safe
// to show to the user; the underlying cause is for logs only.
type PersistenceError struct {
	Reason string
	cause  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("booking persistence failed: %v", e.cause)
}

// Unwrap lets errors.Is(err, ErrPersistenceFailed) identify the failure leg.
func (e *PersistenceError) Unwrap() error {
	return ErrPersistenceFailed
}

// persistenceReason maps a persistence error to a user-safe reason string.
// Raw error objects never reach the user.
func persistenceReason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, context.DeadlineExceeded):
		return "the booking store timed out"
	case errors.Is(err, ErrMissingConversationID),
		errors.Is(err, ErrMissingName),
		errors.Is(err, ErrMissingEmail),
		errors.Is(err, ErrMissingMeetingTime):
		return err.Error()
	default:
		return "the booking store is unavailable"
	}
}
