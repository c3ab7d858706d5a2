package booking

import (
	"encoding/json"
	"time"
)

// Status of a booking conversation. Derived from the collected fields rather
// than stored: complete means Collected covers every required field.
type Status string

const (
	StatusCollecting Status = "collecting"
	StatusComplete   Status = "complete"
)

// State tracks one booking conversation's slot-filling progress. Fields are
// write-once: a value lands in Collected only after passing its validator and
// is never overwritten for the life of the conversation.
type State struct {
	ConversationID string           `json:"conversation_id"`
	Collected      map[Field]string `json:"collected"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

func newState(conversationID string) *State {
	now := time.Now().UTC()
	return &State{
		ConversationID: conversationID,
		Collected:      make(map[Field]string),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// Value returns the collected value for a field, or "".
func (s *State) Value(field Field) string {
	return s.Collected[field]
}

// Missing returns the required fields not yet collected, in required order.
func (s *State) Missing() []Field {
	var missing []Field
	for _, field := range RequiredFields() {
		if _, ok := s.Collected[field]; !ok {
			missing = append(missing, field)
		}
	}
	return missing
}

// Complete reports whether every required field has been collected.
func (s *State) Complete() bool {
	return len(s.Missing()) == 0
}

// Status derives the conversation status.
func (s *State) Status() Status {
	if s.Complete() {
		return StatusComplete
	}
	return StatusCollecting
}

func (s *State) clone() *State {
	collected := make(map[Field]string, len(s.Collected))
	for k, v := range s.Collected {
		collected[k] = v
	}
	clone := *s
	clone.Collected = collected
	return &clone
}

// MarshalJSON includes the derived status and the required-field constant so
// API clients see the full picture without recomputing it.
func (s *State) MarshalJSON() ([]byte, error) {
	type alias State
	return json.Marshal(struct {
		*alias
		Status         Status  `json:"status"`
		RequiredFields []Field `json:"required_fields"`
	}{
		alias:          (*alias)(s),
		Status:         s.Status(),
		RequiredFields: RequiredFields(),
	})
}
