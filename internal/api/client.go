// Package api is the HTTP client of the CBC assistant backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pavelanni/cbcassist/internal/model"
)

// DefaultTimeout bounds every request.
const DefaultTimeout = 30 * time.Second

// Service is the set of backend operations used by the pages.
type Service interface {
	Health(ctx context.Context) (*model.HealthStatus, error)
	Subjects(ctx context.Context) (*model.SubjectList, error)
	Chat(ctx context.Context, req model.ChatRequest) (*model.ChatResponse, error)
	GenerateQuiz(ctx context.Context, req model.QuizRequest) (*model.QuizResponse, error)
	HomeworkHelp(ctx context.Context, req model.HomeworkRequest) (*model.HomeworkResponse, error)
	DailyTip(ctx context.Context, grade, subject string) (*model.DailyTip, error)
	SolveProblem(ctx context.Context, req model.SolveRequest) (*model.SolveResponse, error)
	ExploreTopic(ctx context.Context, topic, grade, subject string) (*model.Exploration, error)
	LessonPlan(ctx context.Context, req model.LessonPlanRequest) (*model.LessonPlanResponse, error)
	Assessment(ctx context.Context, req model.AssessmentRequest) (*model.AssessmentResponse, error)
	SchemeOfWork(ctx context.Context, req model.SchemeOfWorkRequest) (*model.SchemeOfWorkResponse, error)
	ProgressReport(ctx context.Context, req model.ProgressReportRequest) (*model.ProgressReportResponse, error)
	SimilarQuestions(ctx context.Context, req model.SimilarQuestionsRequest) (*model.SimilarQuestionsResponse, error)
	LearningPath(ctx context.Context, req model.LearningPathRequest) (*model.LearningPathResponse, error)
	Simplify(ctx context.Context, req model.SimplifyRequest) (*model.SimplifyResponse, error)
	VisualizeConcept(ctx context.Context, req model.VisualizeRequest) (*model.VisualizeResponse, error)
}

// Client talks JSON to the backend over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
}

var _ Service = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// New creates a client for the backend at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the backend address.
func (c *Client) BaseURL() string { return c.baseURL }

type tokenCtxKey struct{}

// WithToken attaches a bearer token to ctx. Calls made with the returned
// context send it in the Authorization header.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenCtxKey{}, token)
}

func tokenFromContext(ctx context.Context) string {
	t, _ := ctx.Value(tokenCtxKey{}).(string)
	return t
}

func (c *Client) Health(ctx context.Context) (*model.HealthStatus, error) {
	return call[model.HealthStatus](ctx, c, http.MethodGet, "/health", nil, nil)
}

func (c *Client) Subjects(ctx context.Context) (*model.SubjectList, error) {
	return call[model.SubjectList](ctx, c, http.MethodGet, "/api/subjects", nil, nil)
}

func (c *Client) Chat(ctx context.Context, req model.ChatRequest) (*model.ChatResponse, error) {
	return call[model.ChatResponse](ctx, c, http.MethodPost, "/api/chat", nil, req)
}

func (c *Client) GenerateQuiz(ctx context.Context, req model.QuizRequest) (*model.QuizResponse, error) {
	return call[model.QuizResponse](ctx, c, http.MethodPost, "/api/quiz/generate", nil, req)
}

func (c *Client) HomeworkHelp(ctx context.Context, req model.HomeworkRequest) (*model.HomeworkResponse, error) {
	return call[model.HomeworkResponse](ctx, c, http.MethodPost, "/api/homework-help", nil, req)
}

func (c *Client) DailyTip(ctx context.Context, grade, subject string) (*model.DailyTip, error) {
	q := url.Values{}
	q.Set("grade", grade)
	q.Set("subject", subject)
	return call[model.DailyTip](ctx, c, http.MethodGet, "/api/daily-tip", q, nil)
}

func (c *Client) SolveProblem(ctx context.Context, req model.SolveRequest) (*model.SolveResponse, error) {
	return call[model.SolveResponse](ctx, c, http.MethodPost, "/api/solve-problem", nil, req)
}

func (c *Client) ExploreTopic(ctx context.Context, topic, grade, subject string) (*model.Exploration, error) {
	q := url.Values{}
	q.Set("grade", grade)
	q.Set("subject", subject)
	return call[model.Exploration](ctx, c, http.MethodGet, "/api/explore-topic/"+url.PathEscape(topic), q, nil)
}

func (c *Client) LessonPlan(ctx context.Context, req model.LessonPlanRequest) (*model.LessonPlanResponse, error) {
	return call[model.LessonPlanResponse](ctx, c, http.MethodPost, "/api/teacher/lesson-plan", nil, req)
}

func (c *Client) Assessment(ctx context.Context, req model.AssessmentRequest) (*model.AssessmentResponse, error) {
	return call[model.AssessmentResponse](ctx, c, http.MethodPost, "/api/teacher/assessment", nil, req)
}

func (c *Client) SchemeOfWork(ctx context.Context, req model.SchemeOfWorkRequest) (*model.SchemeOfWorkResponse, error) {
	return call[model.SchemeOfWorkResponse](ctx, c, http.MethodPost, "/api/teacher/scheme-of-work", nil, req)
}

func (c *Client) ProgressReport(ctx context.Context, req model.ProgressReportRequest) (*model.ProgressReportResponse, error) {
	return call[model.ProgressReportResponse](ctx, c, http.MethodPost, "/api/teacher/progress-report", nil, req)
}

func (c *Client) SimilarQuestions(ctx context.Context, req model.SimilarQuestionsRequest) (*model.SimilarQuestionsResponse, error) {
	return call[model.SimilarQuestionsResponse](ctx, c, http.MethodPost, "/api/similar-questions", nil, req)
}

func (c *Client) LearningPath(ctx context.Context, req model.LearningPathRequest) (*model.LearningPathResponse, error) {
	return call[model.LearningPathResponse](ctx, c, http.MethodPost, "/api/learning-path", nil, req)
}

func (c *Client) Simplify(ctx context.Context, req model.SimplifyRequest) (*model.SimplifyResponse, error) {
	return call[model.SimplifyResponse](ctx, c, http.MethodPost, "/api/simplify", nil, req)
}

func (c *Client) VisualizeConcept(ctx context.Context, req model.VisualizeRequest) (*model.VisualizeResponse, error) {
	return call[model.VisualizeResponse](ctx, c, http.MethodPost, "/api/visualize-concept", nil, req)
}

// do performs one request. A nil body sends no payload; out receives the
// decoded JSON response.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := tokenFromContext(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		slog.Error("api request failed", "method", method, "path", path, "error", err)
		return &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		slog.Error("api read failed", "method", method, "path", path, "error", err)
		return &NetworkError{Err: err}
	}

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &Error{StatusCode: resp.StatusCode, Detail: parseDetail(data)}
		slog.Error("api error", "method", method, "path", path, "status", resp.StatusCode, "detail", apiErr.Detail)
		return apiErr
	}

	slog.Debug("api call", "method", method, "path", path, "status", resp.StatusCode, "elapsed", time.Since(start))

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

func call[T any](ctx context.Context, c *Client, method, path string, query url.Values, body any) (*T, error) {
	var out T
	if err := c.do(ctx, method, path, query, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
