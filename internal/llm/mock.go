package llm

import (
	"context"
	"encoding/json"
	"sync"
)

// MockResponse is a canned response for the MockProvider.
type MockResponse struct {
	Content string
	Usage   Usage
	Err     error
}

// MockProvider returns canned responses in FIFO order and records every
// request. With an empty queue it falls back to Fallback when set.
type MockProvider struct {
	mu        sync.Mutex
	responses []MockResponse
	Calls     []Request

	// Fallback, when set, produces a response for requests beyond the queue.
	Fallback func(req Request) (string, error)
}

// NewMockProvider creates a MockProvider with the given canned responses.
func NewMockProvider(responses ...MockResponse) *MockProvider {
	return &MockProvider{responses: responses}
}

func (m *MockProvider) Generate(_ context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, req)

	var resp MockResponse
	switch {
	case len(m.responses) > 0:
		resp = m.responses[0]
		m.responses = m.responses[1:]
	case m.Fallback != nil:
		resp.Content, resp.Err = m.Fallback(req)
	default:
		return nil, &ErrProviderUnavailable{}
	}
	if resp.Err != nil {
		return nil, resp.Err
	}
	if err := validateResponse(req.Schema, resp.Content); err != nil {
		return nil, err
	}

	return &Response{
		Content:    resp.Content,
		Usage:      resp.Usage,
		Model:      "mock",
		StopReason: "end",
	}, nil
}

func (m *MockProvider) ModelID() string {
	return "mock"
}

// AddResponse appends a canned response to the queue.
func (m *MockProvider) AddResponse(resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, resp)
}

// CallCount returns the number of Generate calls made.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// SampleResponse produces placeholder output: a document shaped by the
// request schema, or a fixed sentence for text requests. It serves as the
// Fallback of the mock provider built by New.
func SampleResponse(req Request) (string, error) {
	if req.Schema == nil {
		return "This is a sample response from the mock model.", nil
	}
	b, err := json.Marshal(sampleValue(req.Schema.Definition))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func sampleValue(def map[string]any) any {
	if enum, ok := def["enum"].([]any); ok && len(enum) > 0 {
		return enum[0]
	}
	if enum, ok := def["enum"].([]string); ok && len(enum) > 0 {
		return enum[0]
	}
	switch def["type"] {
	case "object":
		out := map[string]any{}
		if props, ok := def["properties"].(map[string]any); ok {
			for k, v := range props {
				if p, ok := v.(map[string]any); ok {
					out[k] = sampleValue(p)
				}
			}
		}
		return out
	case "array":
		n := 1
		switch m := def["minItems"].(type) {
		case int:
			n = max(n, m)
		case float64:
			n = max(n, int(m))
		}
		items, _ := def["items"].(map[string]any)
		out := make([]any, n)
		for i := range out {
			out[i] = sampleValue(items)
		}
		return out
	case "integer":
		return 1
	case "number":
		return 1.0
	case "boolean":
		return false
	default:
		return "Sample text"
	}
}
