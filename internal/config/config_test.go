package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Port)
	}
	if cfg.BookingTimezone != "Asia/Kathmandu" {
		t.Errorf("expected default timezone Asia/Kathmandu, got %s", cfg.BookingTimezone)
	}
	if cfg.HistoryWindow != 6 {
		t.Errorf("expected default history window 6, got %d", cfg.HistoryWindow)
	}
	if cfg.MeetingDurationMin != 30 {
		t.Errorf("expected 30 minute meetings, got %d", cfg.MeetingDurationMin)
	}
	if cfg.BookingStateTTL != 24*time.Hour {
		t.Errorf("expected 24h state TTL, got %s", cfg.BookingStateTTL)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("BOOKING_TZ", "America/New_York")
	t.Setenv("EXTRACTION_TIMEOUT", "3s")
	t.Setenv("INTENT_MIN_CONFIDENCE", "0.8")
	t.Setenv("CALENDAR_ENABLED", "false")

	cfg := Load()

	if cfg.Port != "9999" {
		t.Errorf("expected port override, got %s", cfg.Port)
	}
	if cfg.BookingTimezone != "America/New_York" {
		t.Errorf("expected timezone override, got %s", cfg.BookingTimezone)
	}
	if cfg.ExtractionTimeout != 3*time.Second {
		t.Errorf("expected 3s extraction timeout, got %s", cfg.ExtractionTimeout)
	}
	if cfg.IntentMinConfidence != 0.8 {
		t.Errorf("expected confidence override, got %f", cfg.IntentMinConfidence)
	}
	if cfg.CalendarEnabled {
		t.Error("expected calendar disabled")
	}
}

func TestInvalidValuesFallBack(t *testing.T) {
	t.Setenv("REDIS_DB", "not-a-number")
	t.Setenv("PERSISTENCE_TIMEOUT", "garbage")

	cfg := Load()

	if cfg.RedisDB != 0 {
		t.Errorf("expected fallback redis db, got %d", cfg.RedisDB)
	}
	if cfg.PersistenceTimeout != 5*time.Second {
		t.Errorf("expected fallback persistence timeout, got %s", cfg.PersistenceTimeout)
	}
}
