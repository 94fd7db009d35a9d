package domain

import (
	"encoding/json"
	"strings"

	"github.com/tidwall/gjson"
)

// RawModelPayload is the untrusted JSON tree a model produced. Nothing about its
// shape is guaranteed; normalizers walk it through gjson.
type RawModelPayload struct {
	root gjson.Result
}

// ParseRawModelPayload parses the message content of a completion.
func ParseRawModelPayload(content string) (RawModelPayload, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return RawModelPayload{}, NewMalformedResponseError("model returned empty content", nil)
	}
	if !gjson.Valid(content) {
		return RawModelPayload{}, NewMalformedResponseError("model content is not valid JSON", nil).
			WithContext("content", truncate(content, 512))
	}
	return RawModelPayload{root: gjson.Parse(content)}, nil
}

// NewRawModelPayload builds a payload from any Go value, e.g. an already normalized exercise.
func NewRawModelPayload(v interface{}) (RawModelPayload, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return RawModelPayload{}, NewInternalError("failed to encode payload", err)
	}
	return ParseRawModelPayload(string(b))
}

func (p RawModelPayload) Root() gjson.Result {
	return p.root
}

func (p RawModelPayload) Raw() string {
	return p.root.Raw
}

func (p RawModelPayload) MarshalJSON() ([]byte, error) {
	if p.root.Raw == "" {
		return []byte("null"), nil
	}
	return []byte(p.root.Raw), nil
}

func (p *RawModelPayload) UnmarshalJSON(b []byte) error {
	parsed, err := ParseRawModelPayload(string(b))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
