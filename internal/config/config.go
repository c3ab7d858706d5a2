package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds application configuration
type Config struct {
	Port     string
	Env      string
	LogLevel string

	DatabaseURL   string
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	GeminiAPIKey string
	GeminiModel  string

	// Booking conversation settings.
	BookingTimezone    string
	BookingStateTTL    time.Duration
	HistoryWindow      int
	MeetingDurationMin int

	// Per-call deadlines for external collaborators.
	ExtractionTimeout  time.Duration
	CalendarTimeout    time.Duration
	PersistenceTimeout time.Duration

	GoogleCalendarID       string
	GoogleCredentialsJSON  string
	GoogleCredentialsPath  string
	CalendarEnabled        bool
	SendGridAPIKey         string
	SendGridFromEmail      string
	SendGridFromName       string
	ConfirmationEmailsOn   bool
	IntentMinConfidence    float64
	BookingDefaultHour     int
	ShutdownTimeoutSeconds int
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:     getEnv("PORT", "8080"),
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		DatabaseURL:   getEnv("DATABASE_URL", ""),
		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-1.5-flash"),

		BookingTimezone:    getEnv("BOOKING_TZ", "Asia/Kathmandu"),
		BookingStateTTL:    getEnvAsDuration("BOOKING_STATE_TTL", 24*time.Hour),
		HistoryWindow:      getEnvAsInt("CHAT_HISTORY_WINDOW", 6),
		MeetingDurationMin: getEnvAsInt("MEETING_DURATION_MINUTES", 30),

		ExtractionTimeout:  getEnvAsDuration("EXTRACTION_TIMEOUT", 20*time.Second),
		CalendarTimeout:    getEnvAsDuration("CALENDAR_TIMEOUT", 10*time.Second),
		PersistenceTimeout: getEnvAsDuration("PERSISTENCE_TIMEOUT", 5*time.Second),

		GoogleCalendarID:       getEnv("GOOGLE_CALENDAR_ID", "primary"),
		GoogleCredentialsJSON:  getEnv("GOOGLE_CREDENTIALS_JSON", ""),
		GoogleCredentialsPath:  getEnv("GOOGLE_CREDENTIALS_PATH", ""),
		CalendarEnabled:        getEnvAsBool("CALENDAR_ENABLED", true),
		SendGridAPIKey:         getEnv("SENDGRID_API_KEY", ""),
		SendGridFromEmail:      getEnv("SENDGRID_FROM_EMAIL", ""),
		SendGridFromName:       getEnv("SENDGRID_FROM_NAME", "SmartDocs Assistant"),
		ConfirmationEmailsOn:   getEnvAsBool("CONFIRMATION_EMAILS_ENABLED", false),
		IntentMinConfidence:    getEnvAsFloat("INTENT_MIN_CONFIDENCE", 0.5),
		BookingDefaultHour:     getEnvAsInt("BOOKING_DEFAULT_HOUR", 10),
		ShutdownTimeoutSeconds: getEnvAsInt("SHUTDOWN_TIMEOUT_SECONDS", 30),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
