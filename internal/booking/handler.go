package booking

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/smartdocs-ai/assistant/pkg/logging"
)

// Handler serves the booking record endpoints.
type Handler struct {
	repo   Repository
	logger *logging.Logger
}

// NewHandler creates a booking handler.
func NewHandler(repo Repository, logger *logging.Logger) *Handler {
	if repo == nil {
		panic("booking: repository required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{repo: repo, logger: logger}
}

// GetBooking handles GET /bookings/{bookingID} requests.
func (h *Handler) GetBooking(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "bookingID")
	if id == "" {
		http.Error(w, "missing booking id", http.StatusBadRequest)
		return
	}

	record, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			http.Error(w, "booking not found", http.StatusNotFound)
			return
		}
		h.logger.Error("failed to get booking", "error", err, "booking_id", id)
		http.Error(w, "failed to get booking", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(record)
}

// ListBookingsResponse is the response for listing bookings.
type ListBookingsResponse struct {
	Bookings []*Record `json:"bookings"`
	Count    int       `json:"count"`
}

// ListBookings handles GET /bookings?email= requests.
func (h *Handler) ListBookings(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		http.Error(w, "email query parameter is required", http.StatusBadRequest)
		return
	}

	records, err := h.repo.ListByEmail(r.Context(), email)
	if err != nil {
		h.logger.Error("failed to list bookings", "error", err, "email", email)
		http.Error(w, "failed to list bookings", http.StatusInternalServerError)
		return
	}
	if records == nil {
		records = []*Record{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ListBookingsResponse{
		Bookings: records,
		Count:    len(records),
	})
}

// UpdateStatusRequest is the body for PATCH /bookings/{bookingID}/status.
type UpdateStatusRequest struct {
	Status RecordStatus `json:"status"`
	Notes  string       `json:"notes,omitempty"`
}

// UpdateStatus handles PATCH /bookings/{bookingID}/status requests.
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "bookingID")
	if id == "" {
		http.Error(w, "missing booking id", http.StatusBadRequest)
		return
	}

	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	record, err := h.repo.UpdateStatus(r.Context(), id, req.Status, req.Notes)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidStatus):
			http.Error(w, "invalid status", http.StatusBadRequest)
		case errors.Is(err, ErrRecordNotFound):
			http.Error(w, "booking not found", http.StatusNotFound)
		default:
			h.logger.Error("failed to update booking status", "error", err, "booking_id", id)
			http.Error(w, "failed to update booking", http.StatusInternalServerError)
		}
		return
	}

	h.logger.Info("booking status updated", "booking_id", id, "status", record.Status)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(record)
}
