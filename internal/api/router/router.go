package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/smartdocs-ai/assistant/internal/booking"
	"github.com/smartdocs-ai/assistant/internal/chat"
	httpmiddleware "github.com/smartdocs-ai/assistant/internal/http/middleware"
	"github.com/smartdocs-ai/assistant/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger         *logging.Logger
	ChatHandler    *chat.Handler
	BookingHandler *booking.Handler
	MetricsHandler http.Handler
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/health", healthCheck)

	if cfg.ChatHandler != nil {
		r.Post("/chat", cfg.ChatHandler.PostMessage)
	}

	if cfg.BookingHandler != nil {
		r.Route("/bookings", func(r chi.Router) {
			r.Get("/", cfg.BookingHandler.ListBookings)
			r.Get("/{bookingID}", cfg.BookingHandler.GetBooking)
			r.Patch("/{bookingID}/status", cfg.BookingHandler.UpdateStatus)
		})
	}

	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	return r
}

func healthCheck(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
