package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/smartdocs-ai/assistant/internal/nlu"
	"github.com/smartdocs-ai/assistant/pkg/logging"
)

// Intent labels attached to turn results for the chat surface.
const (
	IntentBooking         = "booking"
	IntentBookingComplete = "booking_complete"
	IntentBookingError    = "booking_error"
)

// AgentConfig tunes the turn engine.
type AgentConfig struct {
	// Timezone for natural-language date resolution.
	Timezone string
	// IntentMinConfidence gates entry into a new booking conversation.
	IntentMinConfidence float64
	// ExtractionTimeout bounds the intent and extraction calls. A timed-out
	// call behaves exactly like an unparsable one.
	ExtractionTimeout time.Duration
}

func (c *AgentConfig) setDefaults() {
	if c.ExtractionTimeout <= 0 {
		c.ExtractionTimeout = 20 * time.Second
	}
}

// TurnResult is the outcome of one conversation turn. Handled=false means
// the utterance is not booking-related and the caller should answer it
// through the regular question-answering path.
type TurnResult struct {
	Handled     bool
	Reply       string
	Intent      string
	State       *State
	IsComplete  bool
	BookingID   string
	MeetingLink string
}

// Agent drives booking conversations: it gates on intent, extracts candidate
// fields, validates them into write-once state, and hands complete
// conversations to the workflow exactly once.
type Agent struct {
	store      StateStore
	locks      *keyMutex
	intents    nlu.IntentDetector
	extractor  nlu.Extractor
	validators validatorTable
	workflow   *Workflow
	cfg        AgentConfig
	logger     *logging.Logger
	metrics    *Metrics
}

// NewAgent wires the turn engine.
func NewAgent(store StateStore, intents nlu.IntentDetector, extractor nlu.Extractor, resolver nlu.DateResolver, workflow *Workflow, cfg AgentConfig, logger *logging.Logger, metrics *Metrics) *Agent {
	if store == nil {
		panic("booking: state store required")
	}
	if intents == nil {
		panic("booking: intent detector required")
	}
	if extractor == nil {
		panic("booking: extractor required")
	}
	if resolver == nil {
		panic("booking: date resolver required")
	}
	if workflow == nil {
		panic("booking: workflow required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	cfg.setDefaults()

	return &Agent{
		store:      store,
		locks:      newKeyMutex(),
		intents:    intents,
		extractor:  extractor,
		validators: newValidatorTable(resolver, cfg.Timezone),
		workflow:   workflow,
		cfg:        cfg,
		logger:     logger,
		metrics:    metrics,
	}
}

// HandleTurn processes one utterance for a conversation. Turns for the same
// conversation id are serialized; turns for different ids run concurrently.
// The returned error is reserved for infrastructure failures (state store
// unreachable); every expected outcome is a TurnResult.
func (a *Agent) HandleTurn(ctx context.Context, conversationID, utterance string, history []nlu.ChatMessage) (TurnResult, error) {
	unlock := a.locks.Lock(conversationID)
	defer unlock()

	state, err := a.store.Get(ctx, conversationID)
	if errors.Is(err, ErrStateNotFound) {
		intentCtx, cancel := context.WithTimeout(ctx, a.cfg.ExtractionTimeout)
		intent := a.intents.DetectBookingIntent(intentCtx, utterance)
		cancel()
		if !intent.IsBookingIntent || intent.Confidence < a.cfg.IntentMinConfidence {
			return TurnResult{}, nil
		}
		a.logger.Info("booking conversation started",
			"conversation_id", conversationID,
			"confidence", intent.Confidence,
		)
		state, err = a.store.Create(ctx, conversationID)
	}
	if err != nil {
		return TurnResult{}, fmt.Errorf("booking: failed to load conversation state: %w", err)
	}

	extractCtx, cancel := context.WithTimeout(ctx, a.cfg.ExtractionTimeout)
	extraction := a.extractor.Extract(extractCtx, buildExtractionContext(state, history), utterance)
	cancel()

	state, reply, err := a.collectFields(ctx, state, extraction)
	if err != nil {
		return TurnResult{}, err
	}

	if state.Complete() {
		return a.complete(ctx, state)
	}

	a.metrics.ObserveTurn("collecting")
	return TurnResult{
		Handled: true,
		Reply:   reply,
		Intent:  IntentBooking,
		State:   state,
	}, nil
}

// collectFields validates each candidate in required-field order. Accepted
// values are stored write-once; the first rejection replaces the turn's
// reply with a targeted re-prompt and no later candidate for that field is
// accepted in this batch.
func (a *Agent) collectFields(ctx context.Context, state *State, extraction nlu.ExtractionResult) (*State, string, error) {
	reply := extraction.ReplyText
	var rejectedField Field
	var rejectedReason string

	for _, field := range RequiredFields() {
		raw, ok := extraction.ExtractedFields[string(field)]
		if !ok {
			continue
		}
		if state.Value(field) != "" {
			// Write-once: the extractor was told not to re-ask, but if it
			// reports a collected field anyway the value is ignored.
			continue
		}

		validation := a.validators.validate(ctx, field, raw)
		if !validation.Valid {
			a.metrics.ObserveFieldRejection(field)
			a.logger.Debug("field candidate rejected",
				"conversation_id", state.ConversationID,
				"field", field,
				"reason", validation.Reason,
			)
			if rejectedField == "" {
				rejectedField = field
				rejectedReason = validation.Reason
			}
			continue
		}

		updated, err := a.store.SetField(ctx, state.ConversationID, field, validation.Normalized)
		if errors.Is(err, ErrFieldAlreadySet) {
			continue
		}
		if err != nil {
			return nil, "", fmt.Errorf("booking: failed to store field %s: %w", field, err)
		}
		state = updated

		// Completion fires the instant the last required field lands.
		if state.Complete() {
			break
		}
	}

	if rejectedField != "" {
		reply = fmt.Sprintf("That doesn't look like a valid %s: %s. %s",
			rejectedField.Label(), rejectedReason, rejectedField.Prompt())
	}
	return state, reply, nil
}

// complete runs the commit workflow and retires the state on success. On a
// hard persistence failure the state survives so the user can retry without
// re-collecting anything.
func (a *Agent) complete(ctx context.Context, state *State) (TurnResult, error) {
	result, err := a.workflow.Execute(ctx, state)
	if err != nil {
		var perr *PersistenceError
		if errors.As(err, &perr) {
			a.metrics.ObserveTurn("workflow_failed")
			a.logger.Error("booking persistence failed",
				"conversation_id", state.ConversationID, "error", err)
			return TurnResult{
				Handled: true,
				Intent:  IntentBookingError,
				State:   state,
				Reply: fmt.Sprintf(
					"I'm sorry, but there was an issue saving your booking: %s. Please try again in a moment. Everything you've told me so far is safe.",
					perr.Reason),
			}, nil
		}

		a.metrics.ObserveTurn("workflow_failed")
		a.logger.Error("booking workflow failed unexpectedly",
			"conversation_id", state.ConversationID, "error", err)
		return TurnResult{
			Handled: true,
			Intent:  IntentBookingError,
			State:   state,
			Reply:   "I'm sorry, something unexpected went wrong while processing your booking. Please try again.",
		}, nil
	}

	if err := a.store.Clear(ctx, state.ConversationID); err != nil {
		// The booking is committed; a failed retire must not fail the turn.
		a.logger.Error("failed to retire conversation state",
			"conversation_id", state.ConversationID, "error", err)
	}

	a.metrics.ObserveTurn("completed")
	return TurnResult{
		Handled:     true,
		Reply:       result.Reply,
		Intent:      IntentBookingComplete,
		IsComplete:  true,
		BookingID:   result.Record.ID,
		MeetingLink: result.Record.MeetingLink,
	}, nil
}
