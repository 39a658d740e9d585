package handler

import "encoding/json"

// SubmitRequest is the intake payload. Payload is kind-specific form data,
// opaque to the engine.
type SubmitRequest struct {
	Kind     string          `json:"kind"`
	Payload  json.RawMessage `json:"payload,omitempty"`
	Complete bool            `json:"complete"`
}

// TransitionRequest asks for a status change.
type TransitionRequest struct {
	To   string `json:"to"`
	Note string `json:"note,omitempty"`
}
