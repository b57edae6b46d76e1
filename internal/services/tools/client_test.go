package tools

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/tavolo/internal/common"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(&common.GatewayConfig{
		URL:            server.URL,
		RequestTimeout: 5 * time.Second,
		RateLimit:      100,
	}, "test-key", arbor.NewLogger())

	return client, server
}

func TestClientListTools(t *testing.T) {
	var gotAPIKey string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAPIKey = r.Header.Get("X-Api-Key")

		var req JSONRPCRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "2.0", req.JSONRPC)
		assert.Equal(t, "tools/list", req.Method)

		json.NewEncoder(w).Encode(map[string]interface{}{
			"jsonrpc": "2.0",
			"id":      req.ID,
			"result": map[string]interface{}{
				"tools": []map[string]interface{}{
					{"name": "maps_search_nearby", "description": "nearby search"},
					{"name": "maps_search_text", "description": "text search"},
				},
			},
		})
	})

	defs, err := client.ListTools(context.Background())
	require.NoError(t, err)
	require.Len(t, defs, 2)
	assert.Equal(t, "maps_search_nearby", defs[0].Name)
	assert.Equal(t, "test-key", gotAPIKey)
}

func TestClientCallTool(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req JSONRPCRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "tools/call", req.Method)

		params, ok := req.Params.(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "maps_search_nearby", params["name"])

		json.NewEncoder(w).Encode(map[string]interface{}{
			"jsonrpc": "2.0",
			"id":      req.ID,
			"result": map[string]interface{}{
				"content": []map[string]interface{}{
					{"type": "text", "text": `{"places": []}`},
				},
			},
		})
	})

	result, err := client.CallTool(context.Background(), "maps_search_nearby", map[string]interface{}{
		"latitude": -37.81,
	})
	require.NoError(t, err)
	require.Len(t, result.Content, 1)
	assert.False(t, result.IsError)
}

func TestClientRPCError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req JSONRPCRequest
		json.NewDecoder(r.Body).Decode(&req)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"jsonrpc": "2.0",
			"id":      req.ID,
			"error":   map[string]interface{}{"code": -32601, "message": "Method not found"},
		})
	})

	_, err := client.CallTool(context.Background(), "gone_tool", nil)
	require.Error(t, err)
	assert.True(t, IsUnknownToolError(err))
}

func TestClientHTTPError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusBadGateway)
	})

	_, err := client.ListTools(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestClientUnconfigured(t *testing.T) {
	client := NewClient(&common.GatewayConfig{}, "", arbor.NewLogger())
	assert.False(t, client.Configured())

	_, err := client.ListTools(context.Background())
	require.Error(t, err)
}

func TestIsUnknownToolError(t *testing.T) {
	assert.False(t, IsUnknownToolError(nil))
	assert.True(t, IsUnknownToolError(errUnknown("unknown tool: maps_search_nearby")))
	assert.True(t, IsUnknownToolError(errUnknown("Tool not found")))
	assert.False(t, IsUnknownToolError(errUnknown("rate limit exceeded")))
}

type errUnknown string

func (e errUnknown) Error() string { return string(e) }
