package booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validCreateRequest() *CreateRecordRequest {
	return &CreateRecordRequest{
		ConversationID: "conv-1",
		Name:           "Asha Sharma",
		Email:          "asha@example.com",
		Phone:          "9812345678",
		MeetingTime:    time.Date(2025, 3, 14, 15, 0, 0, 0, time.UTC),
		MeetingTitle:   "Call with Asha Sharma",
	}
}

func TestCreateRecordRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*CreateRecordRequest)
		wantErr error
	}{
		{"valid", func(r *CreateRecordRequest) {}, nil},
		{"missing conversation id", func(r *CreateRecordRequest) { r.ConversationID = " " }, ErrMissingConversationID},
		{"missing name", func(r *CreateRecordRequest) { r.Name = "" }, ErrMissingName},
		{"missing email", func(r *CreateRecordRequest) { r.Email = "" }, ErrMissingEmail},
		{"missing meeting time", func(r *CreateRecordRequest) { r.MeetingTime = time.Time{} }, ErrMissingMeetingTime},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validCreateRequest()
			tt.mutate(req)
			err := req.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestInMemoryRepository_CreateAndGet(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	record, err := repo.Create(ctx, validCreateRequest())
	require.NoError(t, err)
	assert.NotEmpty(t, record.ID)
	assert.Equal(t, RecordStatusConfirmed, record.Status)
	assert.False(t, record.CreatedAt.IsZero())

	got, err := repo.GetByID(ctx, record.ID)
	require.NoError(t, err)
	assert.Equal(t, record.ID, got.ID)
	assert.Equal(t, "asha@example.com", got.Email)
}

func TestInMemoryRepository_GetUnknown(t *testing.T) {
	repo := NewInMemoryRepository()
	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestInMemoryRepository_CreateRejectsInvalid(t *testing.T) {
	repo := NewInMemoryRepository()
	req := validCreateRequest()
	req.Email = ""
	_, err := repo.Create(context.Background(), req)
	assert.ErrorIs(t, err, ErrMissingEmail)
}

func TestInMemoryRepository_ListByEmailOrdersByMeetingTime(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	early := validCreateRequest()
	early.MeetingTime = time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	late := validCreateRequest()
	late.MeetingTime = time.Date(2025, 3, 20, 10, 0, 0, 0, time.UTC)
	other := validCreateRequest()
	other.Email = "other@example.com"

	_, err := repo.Create(ctx, early)
	require.NoError(t, err)
	_, err = repo.Create(ctx, late)
	require.NoError(t, err)
	_, err = repo.Create(ctx, other)
	require.NoError(t, err)

	records, err := repo.ListByEmail(ctx, "asha@example.com")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.True(t, records[0].MeetingTime.After(records[1].MeetingTime), "most recent meeting first")
}

func TestInMemoryRepository_UpdateStatus(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	record, err := repo.Create(ctx, validCreateRequest())
	require.NoError(t, err)

	updated, err := repo.UpdateStatus(ctx, record.ID, RecordStatusCancelled, "user asked to cancel")
	require.NoError(t, err)
	assert.Equal(t, RecordStatusCancelled, updated.Status)
	assert.Equal(t, "user asked to cancel", updated.Notes)

	_, err = repo.UpdateStatus(ctx, record.ID, RecordStatus("bogus"), "")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = repo.UpdateStatus(ctx, "missing", RecordStatusCancelled, "")
	assert.ErrorIs(t, err, ErrRecordNotFound)
}
