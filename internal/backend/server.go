// Package backend is a JSON API serving the assistant's REST contract on
// top of an LLM provider.
package backend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pavelanni/cbcassist/internal/llm"
	"github.com/pavelanni/cbcassist/internal/llm/prompts"
	"github.com/pavelanni/cbcassist/internal/model"
)

const (
	dateLayout      = "2006-01-02"
	timestampLayout = "2006-01-02T15:04:05"
)

// TipCache stores one daily tip per date, grade and subject.
type TipCache interface {
	GetDailyTip(date, grade, subject string) (string, error)
	SaveDailyTip(date, grade, subject, tip string) (string, error)
}

// Server answers the REST API.
type Server struct {
	llm  llm.Provider
	tips TipCache
	auth *Authenticator
	now  func() time.Time
}

// New builds a Server. auth may be nil to accept every request.
func New(provider llm.Provider, tips TipCache, auth *Authenticator) (*Server, error) {
	if provider == nil {
		return nil, errors.New("backend: nil LLM provider")
	}
	if tips == nil {
		return nil, errors.New("backend: nil tip cache")
	}
	if err := prompts.Load(prompts.Embedded); err != nil {
		return nil, fmt.Errorf("load prompts: %w", err)
	}
	return &Server{llm: provider, tips: tips, auth: auth, now: time.Now}, nil
}

// Routes registers the API on r.
func (s *Server) Routes(r chi.Router) {
	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/subjects", s.handleSubjects)

		r.Group(func(r chi.Router) {
			r.Use(s.auth.Middleware)

			r.Post("/chat", s.handleChat)
			r.Post("/quiz/generate", s.handleQuiz)
			r.Post("/homework-help", s.handleHomework)
			r.Get("/daily-tip", s.handleDailyTip)
			r.Post("/solve-problem", s.handleSolve)
			r.Get("/explore-topic/{topic}", s.handleExplore)
			r.Post("/similar-questions", s.handleSimilarQuestions)
			r.Post("/learning-path", s.handleLearningPath)
			r.Post("/simplify", s.handleSimplify)
			r.Post("/visualize-concept", s.handleVisualize)

			r.Route("/teacher", func(r chi.Router) {
				r.Post("/lesson-plan", s.handleLessonPlan)
				r.Post("/assessment", s.handleAssessment)
				r.Post("/scheme-of-work", s.handleSchemeOfWork)
				r.Post("/progress-report", s.handleProgressReport)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorBody{Detail: "Not Found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody{Detail: "Method Not Allowed"})
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, model.HealthStatus{Status: "healthy"})
}

func (s *Server) handleSubjects(w http.ResponseWriter, r *http.Request) {
	list := model.SubjectList{Subjects: make([]model.SubjectInfo, 0, len(model.Subjects))}
	for _, o := range model.Subjects {
		list.Subjects = append(list.Subjects, model.SubjectInfo{Value: o.Value, Label: o.Label})
	}
	writeJSON(w, http.StatusOK, list)
}

// generate renders the named prompt and sends it to the model. Failures
// of any kind come back as errors writeError reports with 502.
func (s *Server) generate(ctx context.Context, name prompts.Name, data any, schema *llm.Schema) (*llm.Response, error) {
	p, err := prompts.Build(name, data)
	if err != nil {
		return nil, fmt.Errorf("build %s prompt: %w", name, err)
	}
	req := llm.UserPrompt(p.System, p.User)
	req.Schema = schema
	resp, err := s.llm.Generate(ctx, req)
	if err != nil {
		var (
			rateErr     *llm.ErrRateLimit
			invalidErr  *llm.ErrInvalidResponse
			unavailable *llm.ErrProviderUnavailable
		)
		if errors.As(err, &rateErr) || errors.As(err, &invalidErr) || errors.As(err, &unavailable) {
			return nil, fmt.Errorf("generate %s: %w", name, err)
		}
		return nil, &httpError{status: http.StatusBadGateway, detail: "The AI service failed to respond. Please try again.", err: err}
	}
	attrs := []any{"prompt", name, "model", resp.Model, "output_tokens", resp.Usage.OutputTokens}
	if c := ClaimsFromContext(ctx); c != nil {
		attrs = append(attrs, "subject", c.Subject)
	}
	slog.Debug("generated", attrs...)
	return resp, nil
}

// text generates free text for the named prompt.
func (s *Server) text(ctx context.Context, name prompts.Name, data any) (string, error) {
	resp, err := s.generate(ctx, name, data, nil)
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}

// structured generates JSON for the named prompt and decodes it into out.
func (s *Server) structured(ctx context.Context, name prompts.Name, data any, schema *llm.Schema, out any) error {
	resp, err := s.generate(ctx, name, data, schema)
	if err != nil {
		return err
	}
	if err := resp.Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}

func (s *Server) timestamp() string {
	return s.now().Format(timestampLayout)
}
