// Package llm generates curriculum content through a large language model.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Provider is one LLM backend.
type Provider interface {
	// Generate sends the prompt and returns the model output. When the
	// request carries a Schema the output has been validated against it.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// Request describes what to send to the model.
type Request struct {
	System   string
	Messages []Message

	// Schema, when set, asks for JSON conforming to it.
	Schema *Schema

	MaxTokens   int
	Temperature float64
}

// Message is one conversation turn.
type Message struct {
	Role    Role
	Content string
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema is a named JSON Schema document.
type Schema struct {
	Name        string
	Description string
	Definition  map[string]any
}

// Response holds the model output.
type Response struct {
	// Content is the generated text. For schema requests it is a JSON document.
	Content    string
	Usage      Usage
	Model      string
	StopReason string
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// UserPrompt builds a single-turn request.
func UserPrompt(system, user string) Request {
	return Request{
		System:   system,
		Messages: []Message{{Role: RoleUser, Content: user}},
	}
}

// Decode unmarshals JSON content into v. Markdown code fences around the
// document are ignored.
func (r *Response) Decode(v any) error {
	content := stripFences(r.Content)
	if err := json.Unmarshal([]byte(content), v); err != nil {
		return &ErrInvalidResponse{Content: content, Err: fmt.Errorf("decode: %w", err)}
	}
	return nil
}

// Text returns the content with surrounding whitespace removed.
func (r *Response) Text() string {
	return strings.TrimSpace(r.Content)
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "```"))
}
