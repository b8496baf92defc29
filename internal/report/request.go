// Package report turns interview-assessment data into an HTML report, stores
// it, and mails it to a reviewer. Pipeline.Run is the only entry point the
// HTTP layer needs.
package report

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Request is the inbound payload. Every field is kept as the raw JSON the
// caller sent so values can be rendered verbatim: "78" and 78 both render as
// 78, and emotion keys keep their original order.
type Request struct {
	InterviewID     json.RawMessage `json:"currentInterviewId"`
	Emotions        json.RawMessage `json:"emotions"`
	ConfidenceLevel json.RawMessage `json:"confidenceLevel"`
	Average         json.RawMessage `json:"average"`
}

// FieldError is one violated field, shaped like the entries express-validator
// clients already parse.
type FieldError struct {
	Type     string          `json:"type"`
	Value    json.RawMessage `json:"value,omitempty"`
	Msg      string          `json:"msg"`
	Path     string          `json:"path"`
	Location string          `json:"location"`
}

var requiredFields = []struct {
	path string
	msg  string
	get  func(Request) json.RawMessage

	// typeMsg is set when the value must be a JSON string.
	typeMsg string
}{
	{"currentInterviewId", "Interview ID is required", func(r Request) json.RawMessage { return r.InterviewID }, "Interview ID must be a string"},
	{"emotions", "Emotions are required", func(r Request) json.RawMessage { return r.Emotions }, ""},
	{"confidenceLevel", "Confidence level is required", func(r Request) json.RawMessage { return r.ConfidenceLevel }, ""},
}

// Validate reports every missing required field, not just the first. The
// interview id is a storage key and must also be a JSON string. It returns
// nil or a *ValidationError.
func (r Request) Validate() error {
	var errs []FieldError
	for _, f := range requiredFields {
		v := f.get(r)
		msg := ""
		switch {
		case isEmpty(v):
			msg = f.msg
		case f.typeMsg != "" && !isString(v):
			msg = f.typeMsg
		}
		if msg != "" {
			errs = append(errs, FieldError{
				Type:     "field",
				Value:    v,
				Msg:      msg,
				Path:     f.path,
				Location: "body",
			})
		}
	}
	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}

// ID is the interview identifier as text. It is also the storage key.
func (r Request) ID() string {
	return text(r.InterviewID)
}

// PromptInput renders the request into the strings the prompt interpolates.
func (r Request) PromptInput() PromptInput {
	avg := text(r.Average)
	if avg == "" {
		avg = "N/A"
	}
	return PromptInput{
		InterviewID:     r.ID(),
		Emotions:        indentJSON(r.Emotions),
		ConfidenceLevel: text(r.ConfidenceLevel),
		Average:         avg,
	}
}

// Snapshot is the JSON stored next to the report: the inputs that produced it.
func (r Request) Snapshot() json.RawMessage {
	b, err := json.Marshal(struct {
		Emotions        json.RawMessage `json:"emotions"`
		ConfidenceLevel json.RawMessage `json:"confidenceLevel"`
		Average         json.RawMessage `json:"average,omitempty"`
	}{
		Emotions:        compact(r.Emotions),
		ConfidenceLevel: compact(r.ConfidenceLevel),
		Average:         compact(r.Average),
	})
	if err != nil {
		return nil
	}
	return b
}

// isEmpty treats absent, null, "", {} and [] as not present.
func isEmpty(raw json.RawMessage) bool {
	c := compact(raw)
	switch string(c) {
	case "", "null", `""`, "{}", "[]":
		return true
	}
	return false
}

func isString(raw json.RawMessage) bool {
	c := compact(raw)
	return len(c) > 0 && c[0] == '"'
}

// text returns a JSON string unquoted and any other JSON value as written.
func text(raw json.RawMessage) string {
	c := compact(raw)
	if len(c) == 0 || string(c) == "null" {
		return ""
	}
	if c[0] == '"' {
		var s string
		if err := json.Unmarshal(c, &s); err == nil {
			return s
		}
	}
	return string(c)
}

// indentJSON renders raw with two-space indentation, preserving key order.
func indentJSON(raw json.RawMessage) string {
	c := compact(raw)
	if len(c) == 0 {
		return ""
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, c, "", "  "); err != nil {
		return string(c)
	}
	return buf.String()
}

func compact(raw json.RawMessage) json.RawMessage {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, trimmed); err != nil {
		return json.RawMessage(strings.TrimSpace(string(trimmed)))
	}
	return buf.Bytes()
}
