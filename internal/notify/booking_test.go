package notify

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/smartdocs-ai/assistant/internal/booking"
)

type recordingSender struct {
	last EmailMessage
	err  error
}

func (r *recordingSender) Send(_ context.Context, msg EmailMessage) error {
	r.last = msg
	return r.err
}

func confirmedRecord() *booking.Record {
	return &booking.Record{
		ID:           "b-123",
		Name:         "Asha Sharma",
		Email:        "asha@example.com",
		Phone:        "9812345678",
		MeetingTime:  time.Date(2025, 3, 14, 15, 0, 0, 0, time.UTC),
		MeetingTitle: "Call with Asha Sharma",
		MeetingLink:  "https://meet.google.com/abc-defg-hij",
		Status:       booking.RecordStatusConfirmed,
	}
}

func TestSendConfirmation(t *testing.T) {
	sender := &recordingSender{}
	notifier := NewBookingNotifier(sender, 30, nil)

	if err := notifier.SendConfirmation(context.Background(), confirmedRecord()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if sender.last.To != "asha@example.com" {
		t.Errorf("expected recipient asha@example.com, got %q", sender.last.To)
	}
	if sender.last.Subject != "Meeting Confirmation: Call with Asha Sharma" {
		t.Errorf("unexpected subject %q", sender.last.Subject)
	}
	for _, want := range []string{
		"Hi Asha Sharma",
		"Friday, March 14, 2025",
		"03:00 PM - 03:30 PM",
		"https://meet.google.com/abc-defg-hij",
		"SmartDocs Assistant",
	} {
		if !strings.Contains(sender.last.Body, want) {
			t.Errorf("expected body to contain %q, body:\n%s", want, sender.last.Body)
		}
	}
}

func TestSendConfirmation_OmitsMissingMeetingLink(t *testing.T) {
	sender := &recordingSender{}
	notifier := NewBookingNotifier(sender, 30, nil)

	record := confirmedRecord()
	record.MeetingLink = ""
	if err := notifier.SendConfirmation(context.Background(), record); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if strings.Contains(sender.last.Body, "Meeting Link") {
		t.Error("expected body to omit meeting link section")
	}
}

func TestSendConfirmation_WrapsSenderError(t *testing.T) {
	sender := &recordingSender{err: errors.New("smtp down")}
	notifier := NewBookingNotifier(sender, 30, nil)

	err := notifier.SendConfirmation(context.Background(), confirmedRecord())
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "confirmation email failed") {
		t.Errorf("unexpected error %v", err)
	}
}

func TestSendConfirmation_NilSenderIsNoOp(t *testing.T) {
	notifier := NewBookingNotifier(nil, 30, nil)
	if err := notifier.SendConfirmation(context.Background(), confirmedRecord()); err != nil {
		t.Errorf("expected no error from disabled notifier, got %v", err)
	}
}
