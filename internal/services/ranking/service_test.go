package ranking

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/tavolo/internal/common"
	"github.com/ternarybob/tavolo/internal/interfaces"
	"github.com/ternarybob/tavolo/internal/models"
)

// scriptedLLM returns canned responses in sequence, or a fixed error
type scriptedLLM struct {
	responses []string
	err       error
	mode      interfaces.LLMMode
	calls     int
}

func (f *scriptedLLM) Chat(ctx context.Context, messages []interfaces.Message) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	index := f.calls - 1
	if index >= len(f.responses) {
		index = len(f.responses) - 1
	}
	return f.responses[index], nil
}

func (f *scriptedLLM) HealthCheck(ctx context.Context) error { return nil }

func (f *scriptedLLM) GetMode() interfaces.LLMMode {
	if f.mode == "" {
		return interfaces.LLMModeCloud
	}
	return f.mode
}

func (f *scriptedLLM) Close() error { return nil }

func newRankingService(llm interfaces.LLMService, reorder bool) *Service {
	config := common.NewDefaultConfig()
	config.Ranking.Enabled = true
	config.Ranking.ReorderEnabled = reorder
	config.Ranking.MaxResults = 8
	config.Ranking.Timeout = 5 * time.Second
	return NewService(config, llm, arbor.NewLogger())
}

func rankCandidates() []models.Place {
	return []models.Place{
		{PlaceID: "a", Name: "Taco Corner", Types: []string{"restaurant"}},
		{PlaceID: "b", Name: "Noodle House", Types: []string{"restaurant"}},
		{PlaceID: "c", Name: "Casa Mexicana", Types: []string{"restaurant"}},
	}
}

func TestRankEmptyInput(t *testing.T) {
	svc := newRankingService(&scriptedLLM{}, false)

	result := svc.Rank(context.Background(), &models.RankRequest{})
	require.NotNil(t, result)
	assert.Empty(t, result.RankedPlaces)
	assert.False(t, result.UsedRanker)

	result = svc.Rank(context.Background(), nil)
	assert.Empty(t, result.RankedPlaces)
}

func TestRankDeterministicWhenLLMDisabled(t *testing.T) {
	svc := newRankingService(&scriptedLLM{mode: interfaces.LLMModeDisabled}, true)

	result := svc.Rank(context.Background(), &models.RankRequest{
		Query:  "mexican",
		Places: rankCandidates(),
	})

	require.Len(t, result.RankedPlaces, 3)
	assert.False(t, result.UsedRanker)
	// Query-matching names partition to the front
	assert.Equal(t, "c", result.RankedPlaces[0].PlaceID)
}

func TestRankDeterministicWhenNilLLM(t *testing.T) {
	svc := newRankingService(nil, true)

	result := svc.Rank(context.Background(), &models.RankRequest{Places: rankCandidates()})

	assert.Len(t, result.RankedPlaces, 3)
	assert.False(t, result.UsedRanker)
}

func TestRankReorderApplied(t *testing.T) {
	llm := &scriptedLLM{responses: []string{
		`{"kept": ["a", "c"]}`,
		`{"ranked": ["c", "a"], "rationale": "Casa Mexicana is the better fit."}`,
	}}
	svc := newRankingService(llm, true)

	result := svc.Rank(context.Background(), &models.RankRequest{
		Query:  "mexican",
		Places: rankCandidates(),
	})

	assert.True(t, result.UsedRanker)
	require.Len(t, result.RankedPlaces, 2)
	assert.Equal(t, "c", result.RankedPlaces[0].PlaceID)
	assert.Equal(t, "a", result.RankedPlaces[1].PlaceID)
	assert.Equal(t, "Casa Mexicana is the better fit.", result.AssistantMessage)
	assert.Equal(t, 2, llm.calls)
}

func TestRankReorderAppendsOmitted(t *testing.T) {
	llm := &scriptedLLM{responses: []string{
		`{"kept": [0, 1, 2]}`,
		`{"ranked": ["b"]}`,
	}}
	svc := newRankingService(llm, true)

	result := svc.Rank(context.Background(), &models.RankRequest{
		Query:  "noodles",
		Places: rankCandidates(),
	})

	assert.True(t, result.UsedRanker)
	require.Len(t, result.RankedPlaces, 3)
	assert.Equal(t, "b", result.RankedPlaces[0].PlaceID)
	assert.Equal(t, "a", result.RankedPlaces[1].PlaceID)
	assert.Equal(t, "c", result.RankedPlaces[2].PlaceID)
}

func TestRankInvalidReorderFallsBack(t *testing.T) {
	llm := &scriptedLLM{responses: []string{
		`{"kept": ["a", "b", "c"]}`,
		`this is not json`,
	}}
	svc := newRankingService(llm, true)

	result := svc.Rank(context.Background(), &models.RankRequest{
		Query:  "mexican",
		Places: rankCandidates(),
	})

	assert.False(t, result.UsedRanker)
	assert.Len(t, result.RankedPlaces, 3)
	assert.Empty(t, result.AssistantMessage)
}

func TestRankLLMErrorKeepsAllCandidates(t *testing.T) {
	llm := &scriptedLLM{err: fmt.Errorf("model overloaded")}
	svc := newRankingService(llm, false)

	result := svc.Rank(context.Background(), &models.RankRequest{
		Query:  "thai",
		Places: rankCandidates(),
	})

	assert.False(t, result.UsedRanker)
	assert.Len(t, result.RankedPlaces, 3)
}

func TestRankEmptyFilterSelectionKeepsAll(t *testing.T) {
	llm := &scriptedLLM{responses: []string{`{"kept": []}`}}
	svc := newRankingService(llm, false)

	result := svc.Rank(context.Background(), &models.RankRequest{
		Query:  "korean",
		Places: rankCandidates(),
	})

	assert.Len(t, result.RankedPlaces, 3)
}

func TestResolveSelection(t *testing.T) {
	candidates := rankCandidates()

	// mixed id and index references, with duplicates and garbage
	resolved := resolveSelection([]interface{}{"b", float64(0), "b", float64(99), "nonexistent", true}, candidates)

	require.Len(t, resolved, 2)
	assert.Equal(t, "b", resolved[0].PlaceID)
	assert.Equal(t, "a", resolved[1].PlaceID)
}

func TestDeterministicRankDistanceCut(t *testing.T) {
	origin := &models.LatLng{Lat: -37.8136, Lng: 144.9631}
	near := models.Place{PlaceID: "near", Name: "Near Cafe", Latitude: -37.8150, Longitude: 144.9640}
	far := models.Place{PlaceID: "far", Name: "Far Cafe", Latitude: -36.0, Longitude: 144.9631}

	ordered := deterministicRank(&models.RankRequest{
		Places:       []models.Place{far, near},
		Coords:       origin,
		RadiusMeters: 1000,
	})

	require.Len(t, ordered, 1)
	assert.Equal(t, "near", ordered[0].PlaceID)
}

func TestDeterministicRankTruncates(t *testing.T) {
	ordered := deterministicRank(&models.RankRequest{
		Places:     rankCandidates(),
		MaxResults: 2,
	})
	assert.Len(t, ordered, 2)
}
