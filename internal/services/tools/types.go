package tools

import "encoding/json"

// Gateway protocol types (JSON-RPC 2.0 shaped)

// Definition represents a remotely-advertised tool. InputSchema is an untyped
// JSON-schema-like description; property names vary between gateway versions
// and are never hard-coded downstream.
type Definition struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description,omitempty"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// Properties returns the declared property map of the input schema, or nil
// when the schema does not declare one.
func (d *Definition) Properties() map[string]interface{} {
	if d == nil || d.InputSchema == nil {
		return nil
	}
	props, _ := d.InputSchema["properties"].(map[string]interface{})
	return props
}

// List represents a tools/list result
type List struct {
	Tools []Definition `json:"tools"`
}

// ContentBlock represents a block of tool result content
type ContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// CallResult represents the result of a tools/call invocation
type CallResult struct {
	Content           []ContentBlock         `json:"content"`
	StructuredContent map[string]interface{} `json:"structuredContent,omitempty"`
	IsError           bool                   `json:"isError,omitempty"`
}

// JSONRPCRequest represents a JSON-RPC 2.0 request
type JSONRPCRequest struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params,omitempty"`
}

// JSONRPCResponse represents a JSON-RPC 2.0 response
type JSONRPCResponse struct {
	JSONRPC string           `json:"jsonrpc"`
	ID      interface{}      `json:"id"`
	Result  *json.RawMessage `json:"result,omitempty"`
	Error   *RPCError        `json:"error,omitempty"`
}

// RPCError represents a JSON-RPC error
type RPCError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Error codes
const (
	ParseError     = -32700
	InvalidRequest = -32600
	MethodNotFound = -32601
	InvalidParams  = -32602
	InternalError  = -32603
)
