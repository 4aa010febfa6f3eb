package llm

import (
	"context"
	"log/slog"
	"time"
)

// LoggingProvider logs every request with its latency and token usage.
type LoggingProvider struct {
	inner   Provider
	timeout time.Duration
}

// WithLogging wraps p. A positive timeout bounds each request.
func WithLogging(p Provider, timeout time.Duration) Provider {
	return &LoggingProvider{inner: p, timeout: timeout}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	schema := ""
	if req.Schema != nil {
		schema = req.Schema.Name
	}
	start := time.Now()
	resp, err := l.inner.Generate(ctx, req)
	attrs := []any{
		"model", l.inner.ModelID(),
		"schema", schema,
		"duration", time.Since(start),
	}
	if err != nil {
		slog.Warn("LLM request failed", append(attrs, "error", err)...)
		return nil, err
	}
	slog.Debug("LLM request",
		append(attrs, "input_tokens", resp.Usage.InputTokens, "output_tokens", resp.Usage.OutputTokens, "stop", resp.StopReason)...)
	return resp, nil
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}
