package chat

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/tavolo/internal/interfaces"
	"github.com/ternarybob/tavolo/internal/models"
)

type fakeSearchService struct {
	lastRequest *models.PlaceSearchRequest
	outcome     *models.PlaceSearchOutcome
	err         error
}

func (f *fakeSearchService) SearchPlaces(ctx context.Context, req *models.PlaceSearchRequest) (*models.PlaceSearchOutcome, error) {
	f.lastRequest = req
	if f.err != nil {
		return nil, f.err
	}
	return f.outcome, nil
}

type stubLLM struct {
	response string
	err      error
	mode     interfaces.LLMMode
}

func (f *stubLLM) Chat(ctx context.Context, messages []interfaces.Message) (string, error) {
	return f.response, f.err
}

func (f *stubLLM) HealthCheck(ctx context.Context) error { return nil }

func (f *stubLLM) GetMode() interfaces.LLMMode {
	if f.mode == "" {
		return interfaces.LLMModeCloud
	}
	return f.mode
}

func (f *stubLLM) Close() error { return nil }

func TestChatSearchPath(t *testing.T) {
	search := &fakeSearchService{
		outcome: &models.PlaceSearchOutcome{
			Message: "Found 1 places.",
			Places:  []models.Place{{PlaceID: "p1", Name: "Noodle House"}},
		},
	}
	svc := NewChatService(nil, search, arbor.NewLogger())

	coords := &models.LatLng{Lat: -37.8136, Lng: 144.9631}
	resp, err := svc.Chat(context.Background(), &interfaces.ChatRequest{
		Message: "I'm craving ramen in Fitzroy",
		Coords:  coords,
	})

	require.NoError(t, err)
	assert.True(t, resp.UsedSearch)
	require.NotNil(t, search.lastRequest)
	assert.Equal(t, "ramen", search.lastRequest.Keyword)
	assert.Equal(t, "Fitzroy", search.lastRequest.LocationText)
	assert.Equal(t, coords, search.lastRequest.Coords)
	assert.Contains(t, resp.Message, "Noodle House")
	require.Len(t, resp.Places, 1)
}

func TestChatConversationWithoutLLM(t *testing.T) {
	search := &fakeSearchService{}
	svc := NewChatService(nil, search, arbor.NewLogger())

	resp, err := svc.Chat(context.Background(), &interfaces.ChatRequest{
		Message: "hello there",
	})

	require.NoError(t, err)
	assert.False(t, resp.UsedSearch)
	assert.Equal(t, fallbackReply, resp.Message)
	assert.Nil(t, search.lastRequest)
}

func TestChatLLMIntentOverHeuristic(t *testing.T) {
	search := &fakeSearchService{
		outcome: &models.PlaceSearchOutcome{Message: "Found 0 places."},
	}
	llm := &stubLLM{response: `{"search": true, "keyword": "dumplings", "location": "Box Hill", "radius_m": 2500}`}
	svc := NewChatService(llm, search, arbor.NewLogger())

	_, err := svc.Chat(context.Background(), &interfaces.ChatRequest{Message: "where should we go tonight"})

	require.NoError(t, err)
	require.NotNil(t, search.lastRequest)
	assert.Equal(t, "dumplings", search.lastRequest.Keyword)
	assert.Equal(t, "Box Hill", search.lastRequest.LocationText)
	assert.Equal(t, 2500, search.lastRequest.RadiusMeters)
}

func TestChatInvalidLLMIntentFallsBackToHeuristic(t *testing.T) {
	search := &fakeSearchService{
		outcome: &models.PlaceSearchOutcome{Message: "Found 0 places."},
	}
	llm := &stubLLM{response: "I think you want food"}
	svc := NewChatService(llm, search, arbor.NewLogger())

	resp, err := svc.Chat(context.Background(), &interfaces.ChatRequest{Message: "any good sushi around Richmond?"})

	require.NoError(t, err)
	assert.True(t, resp.UsedSearch)
	require.NotNil(t, search.lastRequest)
	assert.Equal(t, "sushi", search.lastRequest.Keyword)
	assert.Equal(t, "Richmond", search.lastRequest.LocationText)
}

func TestChatRejectsEmptyMessage(t *testing.T) {
	svc := NewChatService(nil, &fakeSearchService{}, arbor.NewLogger())

	_, err := svc.Chat(context.Background(), &interfaces.ChatRequest{})
	assert.Error(t, err)

	_, err = svc.Chat(context.Background(), nil)
	assert.Error(t, err)
}

func TestChatSearchErrorPropagates(t *testing.T) {
	search := &fakeSearchService{err: fmt.Errorf("gateway exploded")}
	svc := NewChatService(nil, search, arbor.NewLogger())

	_, err := svc.Chat(context.Background(), &interfaces.ChatRequest{Message: "find me pizza"})
	assert.Error(t, err)
}
