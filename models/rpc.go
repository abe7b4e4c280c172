package models

import "encoding/json"

// Request is the JSON-RPC style envelope accepted on POST /.
//
// Action selects the operation, Version selects the reply shape
// (version > 4 wraps the result in [Response], older versions receive
// the raw result), Params carries action-specific arguments and Key is
// the optional static API key.
type Request struct {
	Action  string          `json:"action"`
	Version int             `json:"version"`
	Params  json.RawMessage `json:"params,omitempty"`
	Key     string          `json:"key,omitempty"`
}

// Response is the reply envelope for API version > 4. Exactly one of
// Result and Error is meaningful; Error is nil on success.
type Response struct {
	Result any     `json:"result"`
	Error  *string `json:"error"`
}

// NewErrorResponse wraps msg into a [Response] with a nil result.
func NewErrorResponse(msg string) Response {
	return Response{Result: nil, Error: &msg}
}

// APIGreeting is returned for an empty request body so clients can
// probe whether the bridge is up without issuing an action.
type APIGreeting struct {
	APIVersion string `json:"apiVersion"`
}
