package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync/atomic"

	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"

	"github.com/ternarybob/tavolo/internal/common"
	"github.com/ternarybob/tavolo/internal/httpclient"
)

// Invoker is the client surface the catalog and the search engine depend on
type Invoker interface {
	// Configured reports whether a gateway URL is set; an unconfigured
	// gateway is terminal for search, not an error
	Configured() bool

	// ListTools fetches the advertised tool definitions
	ListTools(ctx context.Context) ([]Definition, error)

	// CallTool invokes a tool by name with schema-built arguments
	CallTool(ctx context.Context, name string, args map[string]interface{}) (*CallResult, error)
}

// Client talks JSON-RPC over HTTPS to the place-tool gateway
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     arbor.ILogger
	requestID  atomic.Int64
}

// NewClient creates a gateway client from configuration. apiKey is already
// resolved (env > KV store > config).
func NewClient(config *common.GatewayConfig, apiKey string, logger arbor.ILogger) *Client {
	rps := config.RateLimit
	if rps <= 0 {
		rps = 5
	}

	return &Client{
		baseURL:    strings.TrimRight(config.URL, "/"),
		apiKey:     apiKey,
		httpClient: httpclient.NewDefaultHTTPClient(config.RequestTimeout),
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
		logger:     logger,
	}
}

// Configured reports whether a gateway URL was provided
func (c *Client) Configured() bool {
	return c.baseURL != ""
}

// ListTools fetches the advertised tool definitions via tools/list
func (c *Client) ListTools(ctx context.Context) ([]Definition, error) {
	raw, err := c.rpc(ctx, "tools/list", nil)
	if err != nil {
		return nil, err
	}

	var list List
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("malformed tools/list result: %w", err)
	}

	c.logger.Debug().
		Int("tool_count", len(list.Tools)).
		Msg("Gateway tool list fetched")

	return list.Tools, nil
}

// CallTool invokes a tool via tools/call. Application-level tool failures are
// reported through CallResult.IsError, not the error return.
func (c *Client) CallTool(ctx context.Context, name string, args map[string]interface{}) (*CallResult, error) {
	params := map[string]interface{}{
		"name":      name,
		"arguments": args,
	}

	raw, err := c.rpc(ctx, "tools/call", params)
	if err != nil {
		return nil, err
	}

	var result CallResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("malformed tools/call result: %w", err)
	}

	return &result, nil
}

// rpc performs one JSON-RPC round-trip. Any non-2xx status, error field, or
// shape-check failure is reported identically as a failed call.
func (c *Client) rpc(ctx context.Context, method string, params interface{}) (json.RawMessage, error) {
	if !c.Configured() {
		return nil, fmt.Errorf("tool gateway is not configured")
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait aborted: %w", err)
	}

	request := JSONRPCRequest{
		JSONRPC: "2.0",
		ID:      c.requestID.Add(1),
		Method:  method,
		Params:  params,
	}

	body, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s request: %w", method, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build %s request: %w", method, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("X-Api-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("gateway %s call failed: %w", method, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("gateway %s returned status %d: %s", method, resp.StatusCode, string(payload))
	}

	var rpcResp JSONRPCResponse
	if err := json.NewDecoder(resp.Body).Decode(&rpcResp); err != nil {
		return nil, fmt.Errorf("failed to decode %s response: %w", method, err)
	}

	if rpcResp.Error != nil {
		return nil, fmt.Errorf("gateway %s error: %s", method, rpcResp.Error.Message)
	}
	if rpcResp.Result == nil {
		return nil, fmt.Errorf("gateway %s response has neither result nor error", method)
	}

	return *rpcResp.Result, nil
}

// IsUnknownToolError reports whether an error indicates the gateway no longer
// recognizes a tool name, which means the cached catalog is stale.
func IsUnknownToolError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unknown tool") ||
		strings.Contains(msg, "tool not found") ||
		strings.Contains(msg, "method not found")
}
