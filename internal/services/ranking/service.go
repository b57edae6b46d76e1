package ranking

import (
	"context"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/tavolo/internal/common"
	"github.com/ternarybob/tavolo/internal/interfaces"
	"github.com/ternarybob/tavolo/internal/models"
)

// Service is the LLM-backed relevance ranker. Both stages degrade
// independently: a failed cuisine filter passes every candidate through, a
// failed reorder falls back to the deterministic ordering. Rank never
// returns an error and never drops to zero results on an LLM failure alone.
type Service struct {
	llm    interfaces.LLMService
	config *common.RankingConfig
	logger arbor.ILogger
}

func NewService(config *common.Config, llm interfaces.LLMService, logger arbor.ILogger) *Service {
	if logger == nil {
		logger = common.GetLogger()
	}
	return &Service{
		llm:    llm,
		config: &config.Ranking,
		logger: logger.WithPrefix("ranking"),
	}
}

// Rank filters and orders search candidates for a query. The result always
// contains a usable place list; UsedRanker is true only when a validated LLM
// reorder actually produced the final ordering.
func (s *Service) Rank(ctx context.Context, req *models.RankRequest) *models.RankResult {
	if req == nil || len(req.Places) == 0 {
		return &models.RankResult{RankedPlaces: []models.Place{}}
	}

	if !s.llmAvailable() || !s.config.Enabled {
		return &models.RankResult{RankedPlaces: deterministicRank(req)}
	}

	if s.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.Timeout)
		defer cancel()
	}

	filtered := s.cuisineFilter(ctx, req)

	if s.config.ReorderEnabled {
		if ordered, rationale, ok := s.reorder(ctx, req, filtered); ok {
			ordered = truncate(ordered, req.MaxResults)
			return &models.RankResult{
				RankedPlaces:     ordered,
				AssistantMessage: rationale,
				UsedRanker:       true,
			}
		}
	}

	fallbackReq := *req
	fallbackReq.Places = filtered
	return &models.RankResult{RankedPlaces: deterministicRank(&fallbackReq)}
}

// cuisineFilter asks the LLM which candidates match the query's cuisine
// intent. Any failure keeps the full candidate list.
func (s *Service) cuisineFilter(ctx context.Context, req *models.RankRequest) []models.Place {
	start := time.Now()
	response, err := s.llm.Chat(ctx, []interfaces.Message{
		{Role: "system", Content: filterSystemPrompt},
		{Role: "user", Content: buildFilterPrompt(req)},
	})
	if err != nil {
		s.logger.Warn().Err(err).Msg("Cuisine filter call failed, keeping all candidates")
		return req.Places
	}

	parsed, err := parseKept(response)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Cuisine filter response invalid, keeping all candidates")
		return req.Places
	}

	kept := resolveSelection(parsed.Kept, req.Places)
	if len(kept) == 0 {
		// an empty validated selection is treated as an over-aggressive
		// model, not an empty result
		s.logger.Debug().Msg("Cuisine filter kept nothing, keeping all candidates")
		return req.Places
	}

	s.logger.Debug().
		Int("in", len(req.Places)).
		Int("kept", len(kept)).
		Int64("elapsed_ms", time.Since(start).Milliseconds()).
		Msg("Cuisine filter applied")
	return kept
}

// reorder asks the LLM for a full ordering of the filtered candidates
func (s *Service) reorder(ctx context.Context, req *models.RankRequest, candidates []models.Place) ([]models.Place, string, bool) {
	if len(candidates) == 0 {
		return nil, "", false
	}

	response, err := s.llm.Chat(ctx, []interfaces.Message{
		{Role: "system", Content: reorderSystemPrompt},
		{Role: "user", Content: buildReorderPrompt(req, candidates)},
	})
	if err != nil {
		s.logger.Warn().Err(err).Msg("Reorder call failed, using deterministic order")
		return nil, "", false
	}

	parsed, err := parseRanked(response)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Reorder response invalid, using deterministic order")
		return nil, "", false
	}

	ordered := resolveSelection(parsed.Ranked, candidates)
	if len(ordered) == 0 {
		return nil, "", false
	}

	// places the model omitted keep their original relative order at the tail
	ordered = appendOmitted(ordered, candidates)
	return ordered, parsed.Rationale, true
}

// resolveSelection maps LLM-returned references onto places. A string entry
// matches a place id, a number is a zero-based index. Duplicates and
// out-of-range references are ignored.
func resolveSelection(refs []interface{}, candidates []models.Place) []models.Place {
	byID := make(map[string]int, len(candidates))
	for i, place := range candidates {
		byID[place.PlaceID] = i
	}

	seen := make(map[int]bool, len(refs))
	var resolved []models.Place
	appendIndex := func(idx int) {
		if idx >= 0 && idx < len(candidates) && !seen[idx] {
			seen[idx] = true
			resolved = append(resolved, candidates[idx])
		}
	}

	for _, ref := range refs {
		switch v := ref.(type) {
		case string:
			if idx, ok := byID[v]; ok {
				appendIndex(idx)
			}
		case float64:
			appendIndex(int(v))
		}
	}
	return resolved
}

func appendOmitted(ordered, candidates []models.Place) []models.Place {
	present := make(map[string]bool, len(ordered))
	for _, place := range ordered {
		present[place.PlaceID] = true
	}
	for _, place := range candidates {
		if !present[place.PlaceID] {
			ordered = append(ordered, place)
		}
	}
	return ordered
}

func truncate(places []models.Place, limit int) []models.Place {
	if limit > 0 && len(places) > limit {
		return places[:limit]
	}
	return places
}

func (s *Service) llmAvailable() bool {
	return s.llm != nil && s.llm.GetMode() != interfaces.LLMModeDisabled
}
