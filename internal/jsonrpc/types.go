// ABOUTME: JSON-RPC 2.0 message types for the resume service protocol
// ABOUTME: Implements request, response, and error structures plus constructors

package jsonrpc

import (
	"encoding/json"
	"fmt"
)

const Version = "2.0"

type Request struct {
	JSONRPC string           `json:"jsonrpc"`
	Method  string           `json:"method"`
	Params  json.RawMessage  `json:"params,omitempty"`
	ID      *json.RawMessage `json:"id,omitempty"`
}

type Response struct {
	JSONRPC string           `json:"jsonrpc"`
	Result  json.RawMessage  `json:"result,omitempty"`
	Error   *Error           `json:"error,omitempty"`
	ID      *json.RawMessage `json:"id,omitempty"`
}

type Error struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("jsonrpc error %d: %s", e.Code, e.Message)
}

// Standard JSON-RPC error codes.
const (
	ParseError     = -32700
	InvalidRequest = -32600
	MethodNotFound = -32601
	InvalidParams  = -32602
	InternalError  = -32603
	ServerError    = -32000
)

// Application error codes used by the resume service.
const (
	NotFound        = -32004
	Unauthenticated = -32001
	Unsupported     = -32015
)

// NewRequest builds a request with a numeric id and marshalled params.
func NewRequest(id uint64, method string, params interface{}) (*Request, error) {
	rawID := json.RawMessage(fmt.Sprintf("%d", id))
	req := &Request{JSONRPC: Version, Method: method, ID: &rawID}
	if params != nil {
		data, err := json.Marshal(params)
		if err != nil {
			return nil, fmt.Errorf("marshal params: %w", err)
		}
		req.Params = data
	}
	return req, nil
}

// NewResult builds a success response for the given request id.
func NewResult(id *json.RawMessage, result interface{}) Response {
	data, err := json.Marshal(result)
	if err != nil {
		return NewErrorResponse(id, &Error{Code: InternalError, Message: "failed to encode result"})
	}
	return Response{JSONRPC: Version, Result: data, ID: id}
}

// NewErrorResponse builds an error response for the given request id.
func NewErrorResponse(id *json.RawMessage, rpcErr *Error) Response {
	return Response{JSONRPC: Version, Error: rpcErr, ID: id}
}
