package booking

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for booking record storage.
type Repository interface {
	Create(ctx context.Context, req *CreateRecordRequest) (*Record, error)
	GetByID(ctx context.Context, id string) (*Record, error)
	// ListByEmail returns records for an email, most recent meeting first.
	ListByEmail(ctx context.Context, email string) ([]*Record, error)
	// UpdateStatus performs a status transition off the hot path.
	UpdateStatus(ctx context.Context, id string, status RecordStatus, notes string) (*Record, error)
}

// InMemoryRepository is a map-backed Repository for development and tests.
type InMemoryRepository struct {
	mu      sync.RWMutex
	records map[string]*Record
}

// NewInMemoryRepository creates a new in-memory repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{records: make(map[string]*Record)}
}

var _ Repository = (*InMemoryRepository)(nil)

// Create persists a confirmed booking record.
func (r *InMemoryRepository) Create(ctx context.Context, req *CreateRecordRequest) (*Record, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	record := &Record{
		ID:              uuid.New().String(),
		ConversationID:  req.ConversationID,
		Name:            req.Name,
		Email:           req.Email,
		Phone:           req.Phone,
		MeetingTime:     req.MeetingTime,
		MeetingTitle:    req.MeetingTitle,
		Status:          RecordStatusConfirmed,
		CalendarEventID: req.CalendarEventID,
		MeetingLink:     req.MeetingLink,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	r.mu.Lock()
	r.records[record.ID] = record
	r.mu.Unlock()

	copied := *record
	return &copied, nil
}

// GetByID retrieves a booking record by id.
func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.records[id]
	if !ok {
		return nil, ErrRecordNotFound
	}
	copied := *record
	return &copied, nil
}

// ListByEmail returns records for an email, most recent meeting first.
func (r *InMemoryRepository) ListByEmail(ctx context.Context, email string) ([]*Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var records []*Record
	for _, record := range r.records {
		if record.Email == email {
			copied := *record
			records = append(records, &copied)
		}
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].MeetingTime.After(records[j].MeetingTime)
	})
	return records, nil
}

// UpdateStatus transitions a record's status.
func (r *InMemoryRepository) UpdateStatus(ctx context.Context, id string, status RecordStatus, notes string) (*Record, error) {
	if !ValidRecordStatus(status) {
		return nil, ErrInvalidStatus
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	record, ok := r.records[id]
	if !ok {
		return nil, ErrRecordNotFound
	}
	record.Status = status
	if notes != "" {
		record.Notes = notes
	}
	record.UpdatedAt = time.Now().UTC()

	copied := *record
	return &copied, nil
}
