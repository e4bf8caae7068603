package domain

import "encoding/json"

// Envelope is the uniform response wrapper the MJ backend uses on every
// endpoint: {code, data, message}. Code 200 means success; data is decoded
// lazily by the caller that knows its shape.
type Envelope struct {
	Code    int             `json:"code"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

// OK reports whether the envelope carries a successful result.
func (e *Envelope) OK() bool {
	return e.Code == 200
}
