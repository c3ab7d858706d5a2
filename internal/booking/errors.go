package booking

import "errors"

var (
	// ErrStateNotFound is returned when no conversation state exists for an id.
	ErrStateNotFound = errors.New("conversation state not found")

	// ErrFieldAlreadySet is returned on an attempt to overwrite a collected field.
	ErrFieldAlreadySet = errors.New("field already collected")

	// ErrRecordNotFound is returned when a booking record is not found.
	ErrRecordNotFound = errors.New("booking not found")

	// ErrMissingConversationID is returned when a record request lacks its
	// conversation id.
	ErrMissingConversationID = errors.New("conversation id is required")

	// ErrMissingName is returned when a record request lacks a name.
	ErrMissingName = errors.New("name is required")

	// ErrMissingEmail is returned when a record request lacks an email.
	ErrMissingEmail = errors.New("email is required")

	// ErrMissingMeetingTime is returned when a record request lacks a
	// meeting time.
	ErrMissingMeetingTime = errors.New("meeting time is required")

	// ErrInvalidStatus is returned for status values outside the known set.
	ErrInvalidStatus = errors.New("invalid booking status")

	// ErrPersistenceFailed marks the hard-failure leg of the workflow: the
	// booking record could not be written and the conversation state must
	// survive for a retry.
	ErrPersistenceFailed = errors.New("booking persistence failed")
)
