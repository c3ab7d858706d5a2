package booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// pgxQuerier is the slice of pgxpool.Pool the repository needs; pgxmock
// satisfies it in tests.
type pgxQuerier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository stores booking records in the relational database.
type PostgresRepository struct {
	db pgxQuerier
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("booking: pgx pool required")
	}
	return &PostgresRepository{db: pool}
}

// NewPostgresRepositoryWithQuerier allows injecting mocks for tests.
func NewPostgresRepositoryWithQuerier(q pgxQuerier) *PostgresRepository {
	return &PostgresRepository{db: q}
}

var _ Repository = (*PostgresRepository)(nil)

const recordColumns = `id, conversation_id, name, email, phone, meeting_time, meeting_title, status, calendar_event_id, meeting_link, notes, created_at, updated_at`

// Create inserts a confirmed booking row.
func (r *PostgresRepository) Create(ctx context.Context, req *CreateRecordRequest) (*Record, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	id := uuid.New().String()
	query := `
		INSERT INTO bookings (id, conversation_id, name, email, phone, meeting_time, meeting_title, status, calendar_event_id, meeting_link)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NULLIF($9, ''), NULLIF($10, ''))
		RETURNING created_at, updated_at
	`
	record := &Record{
		ID:              id,
		ConversationID:  req.ConversationID,
		Name:            req.Name,
		Email:           req.Email,
		Phone:           req.Phone,
		MeetingTime:     req.MeetingTime,
		MeetingTitle:    req.MeetingTitle,
		Status:          RecordStatusConfirmed,
		CalendarEventID: req.CalendarEventID,
		MeetingLink:     req.MeetingLink,
	}
	if err := r.db.QueryRow(ctx, query,
		id,
		req.ConversationID,
		req.Name,
		req.Email,
		req.Phone,
		req.MeetingTime,
		req.MeetingTitle,
		string(RecordStatusConfirmed),
		req.CalendarEventID,
		req.MeetingLink,
	).Scan(&record.CreatedAt, &record.UpdatedAt); err != nil {
		return nil, fmt.Errorf("booking: insert failed: %w", err)
	}
	return record, nil
}

// GetByID fetches a booking row.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Record, error) {
	query := `SELECT ` + recordColumns + ` FROM bookings WHERE id = $1`
	record, err := scanRecord(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("booking: select failed: %w", err)
	}
	return record, nil
}

// ListByEmail returns records for an email, most recent meeting first.
func (r *PostgresRepository) ListByEmail(ctx context.Context, email string) ([]*Record, error) {
	query := `SELECT ` + recordColumns + ` FROM bookings WHERE email = $1 ORDER BY meeting_time DESC`
	rows, err := r.db.Query(ctx, query, email)
	if err != nil {
		return nil, fmt.Errorf("booking: list failed: %w", err)
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("booking: scan failed: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("booking: list failed: %w", err)
	}
	return records, nil
}

// UpdateStatus transitions a record's status.
func (r *PostgresRepository) UpdateStatus(ctx context.Context, id string, status RecordStatus, notes string) (*Record, error) {
	if !ValidRecordStatus(status) {
		return nil, ErrInvalidStatus
	}

	query := `
		UPDATE bookings
		SET status = $2, notes = COALESCE(NULLIF($3, ''), notes), updated_at = now()
		WHERE id = $1
		RETURNING ` + recordColumns
	record, err := scanRecord(r.db.QueryRow(ctx, query, id, string(status), notes))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("booking: update failed: %w", err)
	}
	return record, nil
}

func scanRecord(row pgx.Row) (*Record, error) {
	var record Record
	var calendarEventID, meetingLink, notes *string
	if err := row.Scan(
		&record.ID,
		&record.ConversationID,
		&record.Name,
		&record.Email,
		&record.Phone,
		&record.MeetingTime,
		&record.MeetingTitle,
		&record.Status,
		&calendarEventID,
		&meetingLink,
		&notes,
		&record.CreatedAt,
		&record.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if calendarEventID != nil {
		record.CalendarEventID = *calendarEventID
	}
	if meetingLink != nil {
		record.MeetingLink = *meetingLink
	}
	if notes != nil {
		record.Notes = *notes
	}
	return &record, nil
}
