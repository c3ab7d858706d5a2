package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/smartdocs-ai/assistant/internal/api/router"
	"github.com/smartdocs-ai/assistant/internal/booking"
	"github.com/smartdocs-ai/assistant/internal/calendar"
	"github.com/smartdocs-ai/assistant/internal/chat"
	appconfig "github.com/smartdocs-ai/assistant/internal/config"
	"github.com/smartdocs-ai/assistant/internal/nlu"
	"github.com/smartdocs-ai/assistant/internal/notify"
	"github.com/smartdocs-ai/assistant/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting smartdocs assistant API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()

	// LLM client drives intent detection, extraction and date resolution.
	gemini, err := nlu.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		logger.Error("failed to initialize Gemini client", "error", err)
		os.Exit(1)
	}
	defer gemini.Close()

	intents := nlu.NewLLMIntentDetector(gemini, logger)
	extractor := nlu.NewLLMExtractor(gemini, logger)
	resolver := nlu.NewLLMDateResolver(gemini, logger)

	// Conversation state and chat history. Redis when configured, in-memory
	// for local development.
	var stateStore booking.StateStore
	var historyStore chat.HistoryStore
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Error("failed to connect to redis", "error", err, "addr", cfg.RedisAddr)
			os.Exit(1)
		}
		defer redisClient.Close()
		stateStore = booking.NewRedisStateStore(redisClient, cfg.BookingStateTTL)
		historyStore = chat.NewRedisHistoryStore(redisClient, cfg.HistoryWindow, cfg.BookingStateTTL)
		logger.Info("using redis state and history stores", "addr", cfg.RedisAddr)
	} else {
		stateStore = booking.NewInMemoryStateStore()
		historyStore = chat.NewInMemoryHistoryStore(cfg.HistoryWindow)
		logger.Warn("REDIS_ADDR not set, using in-memory state and history stores")
	}

	// Booking records. Postgres when configured.
	var repo booking.Repository
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to create database pool", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		if err := pool.Ping(ctx); err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		repo = booking.NewPostgresRepository(pool)
		logger.Info("using postgres booking repository")
	} else {
		repo = booking.NewInMemoryRepository()
		logger.Warn("DATABASE_URL not set, using in-memory booking repository")
	}

	// Google Calendar. Optional; bookings survive without it.
	var scheduler calendar.Scheduler
	if cfg.CalendarEnabled && (cfg.GoogleCredentialsJSON != "" || cfg.GoogleCredentialsPath != "") {
		googleScheduler, err := calendar.NewGoogleScheduler(ctx, calendar.GoogleSchedulerConfig{
			CalendarID:      cfg.GoogleCalendarID,
			CredentialsJSON: cfg.GoogleCredentialsJSON,
			CredentialsPath: cfg.GoogleCredentialsPath,
		}, logger)
		if err != nil {
			logger.Warn("google calendar unavailable, continuing without it", "error", err)
		} else {
			scheduler = googleScheduler
		}
	} else {
		logger.Info("calendar integration disabled")
	}

	// Confirmation emails. Optional.
	var notifier booking.ConfirmationSender
	if cfg.ConfirmationEmailsOn {
		sender := notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.SendGridFromEmail,
			FromName:  cfg.SendGridFromName,
		}, logger)
		if sender == nil {
			logger.Warn("confirmation emails enabled but SENDGRID_API_KEY missing")
		} else {
			notifier = notify.NewBookingNotifier(sender, cfg.MeetingDurationMin, logger)
		}
	}

	metrics := booking.NewMetrics(nil)

	workflow := booking.NewWorkflow(repo, scheduler, notifier, booking.WorkflowConfig{
		Timezone:           cfg.BookingTimezone,
		DefaultHour:        cfg.BookingDefaultHour,
		DurationMinutes:    cfg.MeetingDurationMin,
		CalendarTimeout:    cfg.CalendarTimeout,
		PersistenceTimeout: cfg.PersistenceTimeout,
	}, logger, metrics)

	agent := booking.NewAgent(stateStore, intents, extractor, resolver, workflow, booking.AgentConfig{
		Timezone:            cfg.BookingTimezone,
		IntentMinConfidence: cfg.IntentMinConfidence,
		ExtractionTimeout:   cfg.ExtractionTimeout,
	}, logger, metrics)

	chatService := chat.NewService(agent, &chat.StaticAnswerer{}, historyStore, logger)

	r := router.New(&router.Config{
		Logger:         logger,
		ChatHandler:    chat.NewHandler(chatService, logger),
		BookingHandler: booking.NewHandler(repo, logger),
		MetricsHandler: promhttp.Handler(),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.ShutdownTimeoutSeconds)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
