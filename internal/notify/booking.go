package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/smartdocs-ai/assistant/internal/booking"
	"github.com/smartdocs-ai/assistant/pkg/logging"
)

// BookingNotifier sends booking confirmation emails. It satisfies the
// workflow's ConfirmationSender contract; a nil underlying sender makes
// SendConfirmation a logged no-op.
type BookingNotifier struct {
	sender          EmailSender
	durationMinutes int
	logger          *logging.Logger
}

// NewBookingNotifier creates a confirmation notifier. Sender may be nil when
// confirmation emails are disabled.
func NewBookingNotifier(sender EmailSender, durationMinutes int, logger *logging.Logger) *BookingNotifier {
	if durationMinutes <= 0 {
		durationMinutes = 30
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &BookingNotifier{
		sender:          sender,
		durationMinutes: durationMinutes,
		logger:          logger,
	}
}

var _ booking.ConfirmationSender = (*BookingNotifier)(nil)

// SendConfirmation emails the booked user their meeting details.
func (n *BookingNotifier) SendConfirmation(ctx context.Context, record *booking.Record) error {
	if n.sender == nil {
		n.logger.Debug("confirmation emails disabled, skipping", "booking_id", record.ID)
		return nil
	}

	msg := EmailMessage{
		To:      record.Email,
		ToName:  record.Name,
		Subject: fmt.Sprintf("Meeting Confirmation: %s", record.MeetingTitle),
		Body:    n.confirmationBody(record),
	}
	if err := n.sender.Send(ctx, msg); err != nil {
		return fmt.Errorf("notify: confirmation email failed: %w", err)
	}
	return nil
}

func (n *BookingNotifier) confirmationBody(record *booking.Record) string {
	start := record.MeetingTime
	end := start.Add(time.Duration(n.durationMinutes) * time.Minute)

	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\n", record.Name)
	b.WriteString("Your meeting has been confirmed:\n\n")
	fmt.Fprintf(&b, "Title: %s\n", record.MeetingTitle)
	fmt.Fprintf(&b, "Date: %s\n", start.Format("Monday, January 2, 2006"))
	fmt.Fprintf(&b, "Time: %s - %s\n", start.Format("03:04 PM"), end.Format("03:04 PM"))
	if record.MeetingLink != "" {
		fmt.Fprintf(&b, "Meeting Link: %s\n", record.MeetingLink)
	}
	b.WriteString("\nBest regards,\nSmartDocs Assistant")
	return b.String()
}
