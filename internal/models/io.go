// Package models provides the core data structures exchanged with the event dispatcher.
package models

import "encoding/json"

// Response is the value handed back to the dispatcher for every invocation.
type Response struct {
	StatusCode int               `json:"statusCode"`
	Body       string            `json:"body"`
	Headers    map[string]string `json:"headers,omitempty"`
}

// Message is the serialised content of Response.Body.
type Message struct {
	Received  bool            `json:"received"`
	PoweredBy string          `json:"powered_by"`
	Detail    json.RawMessage `json:"detail"`
}
