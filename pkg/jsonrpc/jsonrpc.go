// Package jsonrpc implements the JSON-RPC 2.0 envelope used by the A2A
// HTTP+JSON transport (A2A spec Section 3.2.2).
package jsonrpc

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Version is the JSON-RPC protocol version. Every request and response
// carries it verbatim.
const Version = "2.0"

// ============================================================================
// ENVELOPE
// ============================================================================

// Message is the base envelope shared by requests and responses.
// ID is a string or number established by the client; responses echo it
// unchanged.
type Message struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id,omitempty"`
}

// Request represents a JSON-RPC request object.
type Request struct {
	Message
	Method string          `json:"method"`
	Params json.RawMessage `json:"params,omitempty"`
}

// Response represents a JSON-RPC response object. Exactly one of Result
// and Error is populated on a well-formed response.
type Response struct {
	Message
	Result json.RawMessage `json:"result,omitempty"`
	Error  *Error          `json:"error,omitempty"`
}

// ============================================================================
// ERROR OBJECT
// ============================================================================

// Error is a JSON-RPC error object. It is surfaced to callers verbatim,
// with code, message and data intact.
type Error struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("jsonrpc error %d: %s", e.Code, e.Message)
}

// Standard JSON-RPC 2.0 error codes.
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
)

// A2A application error codes (A2A spec Section 8.2). The code space is
// open: peers may return other codes in either range and they round-trip
// untouched.
const (
	CodeTaskNotFound                 = -32001
	CodeTaskNotCancelable            = -32002
	CodePushNotificationNotSupported = -32003
	CodeUnsupportedOperation         = -32004
)

// ============================================================================
// REQUEST CONSTRUCTION
// ============================================================================

// NewRequest builds a request envelope for the given method and params.
// A fresh uuid correlation id is attached; params may be any
// JSON-serializable value and are not validated beyond marshalability.
func NewRequest(method string, params interface{}) (*Request, error) {
	if method == "" {
		return nil, fmt.Errorf("jsonrpc: method must not be empty")
	}

	req := &Request{
		Message: Message{
			JSONRPC: Version,
			ID:      uuid.New().String(),
		},
		Method: method,
	}

	if params != nil {
		data, err := json.Marshal(params)
		if err != nil {
			return nil, fmt.Errorf("jsonrpc: failed to marshal params: %w", err)
		}
		req.Params = data
	}

	return req, nil
}

// ============================================================================
// RESPONSE VALIDATION
// ============================================================================

// Validate checks the response envelope against the id of the originating
// request: protocol version, id echo, and the exactly-one-of result/error
// rule. It does not interpret the result payload.
func (r *Response) Validate(wantID interface{}) error {
	if r.JSONRPC != Version {
		return fmt.Errorf("unexpected jsonrpc version %q", r.JSONRPC)
	}
	if !IDEqual(r.ID, wantID) {
		return fmt.Errorf("response id %v does not match request id %v", r.ID, wantID)
	}
	if r.Error == nil && r.Result == nil {
		return fmt.Errorf("response carries neither result nor error")
	}
	return nil
}

// IDEqual reports whether two correlation ids match. JSON decoding renders
// numeric ids as float64 (or json.Number), so numeric values are compared
// by value rather than by dynamic type.
func IDEqual(a, b interface{}) bool {
	if a == b {
		return true
	}
	af, aok := toFloat(a)
	bf, bok := toFloat(b)
	return aok && bok && af == bf
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
