package jsonrpc

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRequest(t *testing.T) {
	req, err := NewRequest(7, "resumes/list", map[string]string{"userId": "u1"})
	require.NoError(t, err)

	data, err := json.Marshal(req)
	require.NoError(t, err)
	assert.JSONEq(t, `{"jsonrpc":"2.0","method":"resumes/list","params":{"userId":"u1"},"id":7}`, string(data))
}

func TestNewRequest_NoParams(t *testing.T) {
	req, err := NewRequest(1, "ping", nil)
	require.NoError(t, err)
	assert.Nil(t, req.Params)
}

func TestNewResult(t *testing.T) {
	id := json.RawMessage("3")
	resp := NewResult(&id, map[string]bool{"ok": true})

	data, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.JSONEq(t, `{"jsonrpc":"2.0","result":{"ok":true},"id":3}`, string(data))
}

func TestErrorResponse(t *testing.T) {
	id := json.RawMessage(`"abc"`)
	resp := NewErrorResponse(&id, &Error{Code: MethodNotFound, Message: "nope"})

	var parsed map[string]interface{}
	data, err := json.Marshal(resp)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &parsed))

	errObj := parsed["error"].(map[string]interface{})
	assert.Equal(t, float64(MethodNotFound), errObj["code"])
	assert.Equal(t, "abc", parsed["id"])
	assert.Contains(t, resp.Error.Error(), "-32601")
}
