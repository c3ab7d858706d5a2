package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/smartdocs-ai/assistant/internal/booking"
	"github.com/smartdocs-ai/assistant/internal/nlu"
	"github.com/smartdocs-ai/assistant/pkg/logging"
)

// Answerer handles utterances the booking agent declined. The document
// question-answering chain lives behind this interface.
type Answerer interface {
	Answer(ctx context.Context, query string, history []nlu.ChatMessage) (string, error)
}

// StaticAnswerer replies with a fixed fallback. It stands in until a
// retrieval-backed Answerer is wired.
type StaticAnswerer struct {
	Reply string
}

// Answer returns the configured reply for any query.
func (a *StaticAnswerer) Answer(ctx context.Context, query string, history []nlu.ChatMessage) (string, error) {
	if a.Reply != "" {
		return a.Reply, nil
	}
	return "I couldn't find any relevant information in the documents.", nil
}

var _ Answerer = (*StaticAnswerer)(nil)

// Service routes each chat turn: booking conversations go to the agent,
// everything else to the answerer. Both legs share the rolling history.
type Service struct {
	agent    *booking.Agent
	answerer Answerer
	history  HistoryStore
	logger   *logging.Logger
}

// NewService wires the chat service.
func NewService(agent *booking.Agent, answerer Answerer, history HistoryStore, logger *logging.Logger) *Service {
	if agent == nil {
		panic("chat: booking agent required")
	}
	if answerer == nil {
		panic("chat: answerer required")
	}
	if history == nil {
		panic("chat: history store required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		agent:    agent,
		answerer: answerer,
		history:  history,
		logger:   logger,
	}
}

// HandleMessage processes one user message. A blank conversation id starts a
// new conversation with a server-generated id.
func (s *Service) HandleMessage(ctx context.Context, conversationID, message string) (*MessageResponse, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, ErrEmptyMessage
	}
	if conversationID == "" {
		conversationID = uuid.New().String()
	}

	history, err := s.history.Recent(ctx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("chat: failed to load history: %w", err)
	}

	resp := &MessageResponse{ConversationID: conversationID}

	turn, err := s.agent.HandleTurn(ctx, conversationID, message, history)
	if err != nil {
		return nil, fmt.Errorf("chat: booking turn failed: %w", err)
	}

	if turn.Handled {
		resp.Answer = turn.Reply
		resp.Intent = turn.Intent
		resp.State = turn.State
		resp.IsComplete = turn.IsComplete
		resp.BookingID = turn.BookingID
		resp.MeetingLink = turn.MeetingLink
	} else {
		answer, err := s.answerer.Answer(ctx, message, history)
		if err != nil {
			s.logger.Error("answerer failed", "conversation_id", conversationID, "error", err)
			answer = "I'm sorry, I couldn't process that right now. Please try again."
		}
		resp.Answer = answer
		resp.Intent = IntentQuestionAnswering
	}

	s.appendExchange(ctx, conversationID, message, resp.Answer)
	return resp, nil
}

// appendExchange records both sides of the turn. History write failures are
// logged, not surfaced; the reply already happened.
func (s *Service) appendExchange(ctx context.Context, conversationID, userMsg, assistantMsg string) {
	if err := s.history.Append(ctx, conversationID, nlu.ChatMessage{
		Role:    nlu.ChatRoleUser,
		Content: userMsg,
	}); err != nil {
		s.logger.Error("failed to append user message", "conversation_id", conversationID, "error", err)
	}
	if err := s.history.Append(ctx, conversationID, nlu.ChatMessage{
		Role:    nlu.ChatRoleAssistant,
		Content: assistantMsg,
	}); err != nil {
		s.logger.Error("failed to append assistant message", "conversation_id", conversationID, "error", err)
	}
}
