package domain

import "context"

type ChatRole string

const (
	RoleSystem    ChatRole = "system"
	RoleUser      ChatRole = "user"
	RoleAssistant ChatRole = "assistant"
)

type ChatMessage struct {
	Role    ChatRole `json:"role"`
	Content string   `json:"content"`
}

// ChatPayload is the vendor-neutral chat request built for one exercise kind.
type ChatPayload struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	// JSONMode asks the vendor for structured JSON output instead of prose.
	JSONMode bool `json:"jsonMode"`
}

// CompletionProvider talks to the LLM vendor and returns the first completion's
// message content untouched.
type CompletionProvider interface {
	Complete(ctx context.Context, payload ChatPayload) (string, error)
	Name() string
}

// ExerciseSubmitter is the request protocol seen from the service layer.
type ExerciseSubmitter interface {
	Submit(ctx context.Context, req ExerciseRequest) (RawModelPayload, error)
}
