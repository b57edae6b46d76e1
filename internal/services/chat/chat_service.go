package chat

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/tavolo/internal/interfaces"
	"github.com/ternarybob/tavolo/internal/models"
)

const fallbackReply = "I can help you find somewhere to eat. Tell me a cuisine, and a neighborhood or how far you're willing to go."

// ChatService turns chat messages into place searches and conversational
// replies. Intent extraction prefers the LLM but always has the heuristic
// parser behind it, so the search path works with the LLM layer disabled.
type ChatService struct {
	llmService    interfaces.LLMService
	searchService interfaces.PlaceSearchService
	validate      *validator.Validate
	logger        arbor.ILogger
}

// NewChatService creates a new chat service
func NewChatService(
	llmService interfaces.LLMService,
	searchService interfaces.PlaceSearchService,
	logger arbor.ILogger,
) *ChatService {
	return &ChatService{
		llmService:    llmService,
		searchService: searchService,
		validate:      validator.New(),
		logger:        logger,
	}
}

// Chat processes one conversation turn
func (s *ChatService) Chat(ctx context.Context, req *interfaces.ChatRequest) (*interfaces.ChatResponse, error) {
	if req == nil {
		return nil, fmt.Errorf("chat request cannot be nil")
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid chat request: %w", err)
	}

	s.logger.Debug().
		Str("message", req.Message).
		Int("history_length", len(req.History)).
		Msg("Processing chat request")

	intent := s.extractIntent(ctx, req.Message)

	if !intent.WantsSearch {
		return s.converse(ctx, req)
	}

	searchReq := &models.PlaceSearchRequest{
		Keyword:      intent.Keyword,
		Coords:       req.Coords,
		LocationText: intent.LocationText,
		RadiusMeters: intent.RadiusMeters,
	}
	if searchReq.RadiusMeters == 0 {
		searchReq.RadiusMeters = req.RadiusMeters
	}

	outcome, err := s.searchService.SearchPlaces(ctx, searchReq)
	if err != nil {
		return nil, fmt.Errorf("place search failed: %w", err)
	}

	return &interfaces.ChatResponse{
		Message:       formatPlaces(outcome.Message, outcome.Places),
		Places:        outcome.Places,
		UsedSearch:    true,
		NextPageToken: outcome.NextPageToken,
	}, nil
}

// extractIntent asks the LLM for a structured intent and falls back to the
// heuristic parser on any failure
func (s *ChatService) extractIntent(ctx context.Context, message string) *Intent {
	if !s.llmAvailable() {
		return parseIntentHeuristic(message)
	}

	response, err := s.llmService.Chat(ctx, []interfaces.Message{
		{Role: "system", Content: intentSystemPrompt},
		{Role: "user", Content: message},
	})
	if err != nil {
		s.logger.Warn().Err(err).Msg("Intent extraction call failed, using heuristic parser")
		return parseIntentHeuristic(message)
	}

	intent, err := parseIntentResponse(response)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Intent extraction response invalid, using heuristic parser")
		return parseIntentHeuristic(message)
	}

	return intent
}

// converse handles the non-search path with a plain LLM reply
func (s *ChatService) converse(ctx context.Context, req *interfaces.ChatRequest) (*interfaces.ChatResponse, error) {
	if !s.llmAvailable() {
		return &interfaces.ChatResponse{Message: fallbackReply}, nil
	}

	messages := make([]interfaces.Message, 0, len(req.History)+2)
	messages = append(messages, interfaces.Message{Role: "system", Content: conversationSystemPrompt})
	messages = append(messages, req.History...)
	messages = append(messages, interfaces.Message{Role: "user", Content: req.Message})

	response, err := s.llmService.Chat(ctx, messages)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Conversational reply failed, using canned reply")
		return &interfaces.ChatResponse{Message: fallbackReply}, nil
	}

	return &interfaces.ChatResponse{Message: response}, nil
}

func (s *ChatService) llmAvailable() bool {
	return s.llmService != nil && s.llmService.GetMode() != interfaces.LLMModeDisabled
}
