package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"

	"github.com/pavelanni/cbcassist/internal/api"
	"github.com/pavelanni/cbcassist/internal/form"
	"github.com/pavelanni/cbcassist/internal/handler/views"
	"github.com/pavelanni/cbcassist/internal/model"
	"github.com/pavelanni/cbcassist/internal/store"
)

// Messages shown when a request fails without a server-provided detail.
const (
	msgChatFailed       = "Failed to get response"
	msgQuizFailed       = "Failed to generate quiz"
	msgHomeworkFailed   = "Failed to get homework help"
	msgDailyTipFailed   = "Failed to fetch daily tip"
	msgSolveFailed      = "Failed to solve problem"
	msgExploreFailed    = "Failed to explore topic"
	msgLessonPlanFailed = "Failed to generate lesson plan"
	msgAssessmentFailed = "Failed to generate assessment"
	msgSchemeFailed     = "Failed to generate scheme of work"
	msgProgressFailed   = "Failed to generate progress report"
)

// recentDocuments is how many earlier documents a teacher page lists.
const recentDocuments = 5

// Handler holds shared dependencies for HTTP handlers.
type Handler struct {
	store  *store.Store
	api    api.Service
	config model.FrontendConfig
	now    func() time.Time
}

// New creates a new Handler.
func New(s *store.Store, svc api.Service, cfg model.FrontendConfig) (*Handler, error) {
	if s == nil {
		return nil, errors.New("handler: store is required")
	}
	if svc == nil {
		return nil, errors.New("handler: api service is required")
	}
	return &Handler{store: s, api: svc, config: cfg, now: time.Now}, nil
}

// Routes registers all HTTP routes.
func (h *Handler) Routes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.csrfMiddleware)
		r.Use(h.visitorMiddleware)

		r.Get("/", h.handleHome)
		r.Post("/role", h.handleRole)
		r.Post("/logout", h.handleLogout)
		r.Post("/lang", h.handleLang)

		r.Get("/settings", h.handleSettings)
		r.Post("/settings/token", h.handleSetToken)
		r.Post("/settings/token/clear", h.handleClearToken)
		r.Get("/status", h.handleStatus)

		r.Route("/student", func(r chi.Router) {
			r.Get("/dashboard", h.handleDashboard(model.UserTypeStudent))
			r.Get("/chat", h.handleChatPage)
			r.Post("/chat", h.handleChatSend)
			r.Post("/chat/clear", h.handleChatClear)
			r.Get("/quiz", h.handleQuizPage)
			r.Post("/quiz/generate", h.handleQuizGenerate)
			r.Post("/quiz/answer", h.handleQuizAnswer)
			r.Post("/quiz/next", h.handleQuizNext)
			r.Post("/quiz/prev", h.handleQuizPrev)
			r.Post("/quiz/submit", h.handleQuizSubmit)
			r.Post("/quiz/reset", h.handleQuizReset)
			r.Get("/homework", h.handleHomeworkPage)
			r.Post("/homework", h.handleHomework)
			r.Get("/solve", h.handleSolvePage)
			r.Post("/solve", h.handleSolve)
			r.Get("/explore", h.handleExplorePage)
			r.Post("/explore", h.handleExplore)
			r.Get("/daily-tip", h.handleDailyTip)
		})

		r.Route("/teacher", func(r chi.Router) {
			r.Get("/dashboard", h.handleDashboard(model.UserTypeTeacher))
			r.Get("/lesson-plan", h.handleLessonPlanPage)
			r.Post("/lesson-plan", h.handleLessonPlan)
			r.Get("/assessment", h.handleAssessmentPage)
			r.Post("/assessment", h.handleAssessment)
			r.Get("/scheme", h.handleSchemeOfWorkPage)
			r.Post("/scheme", h.handleSchemeOfWork)
			r.Get("/progress", h.handleProgressReportPage)
			r.Post("/progress", h.handleProgressReport)
			r.Get("/documents/{id}/download", h.handleDownload)
		})
	})

	r.NotFound(h.handleFallback)
}

// BasePathMiddleware stores the base path and the request path relative to it.
func (h *Handler) BasePathMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := model.ContextWithBasePath(r.Context(), h.config.BasePath)
		ctx = model.ContextWithPath(ctx, strings.TrimPrefix(r.URL.Path, h.config.BasePath))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// path prefixes p with the configured base path.
func (h *Handler) path(p string) string {
	return h.config.BasePath + p
}

func (h *Handler) cookiePath() string {
	if h.config.BasePath != "" {
		return h.config.BasePath + "/"
	}
	return "/"
}

// apiContext carries the visitor's bearer token to the API client.
func (h *Handler) apiContext(r *http.Request) context.Context {
	ctx := r.Context()
	if v := model.VisitorFromContext(ctx); v != nil && v.Token != "" {
		return api.WithToken(ctx, v.Token)
	}
	return ctx
}

func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := c.Render(r.Context(), w); err != nil {
		slog.Error("render error", "error", err)
	}
}

// succeed answers a successful form request. htmx requests receive the
// result fragment and clear the alert; plain requests receive the page.
func (h *Handler) succeed(w http.ResponseWriter, r *http.Request, fragment, page templ.Component) {
	if isHTMX(r) {
		h.render(w, r, templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
			if err := fragment.Render(ctx, w); err != nil {
				return err
			}
			return views.ClearAlertOOB().Render(ctx, w)
		}))
		return
	}
	h.render(w, r, page)
}

// fail answers a failed form request. htmx requests receive only the alert,
// retargeted so the previous result stays on screen.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, msg string, page templ.Component) {
	if isHTMX(r) {
		w.Header().Set("HX-Retarget", "#alert-area")
		w.Header().Set("HX-Reswap", "outerHTML")
		h.render(w, r, views.AlertArea(msg))
		return
	}
	h.render(w, r, page)
}

// validationMessage returns the user-facing text of a form.Validate error.
func validationMessage(err error) string {
	var ve *form.ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}
	return form.MsgRequired
}

func (h *Handler) redirect(w http.ResponseWriter, r *http.Request, p string) {
	if isHTMX(r) {
		w.Header().Set("HX-Redirect", h.path(p))
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, h.path(p), http.StatusSeeOther)
}

func (h *Handler) handleFallback(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, h.path("/"), http.StatusSeeOther)
}

func (h *Handler) handleHome(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, views.HomePage())
}

func (h *Handler) handleDashboard(userType model.UserType) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.render(w, r, views.DashboardPage(userType))
	}
}
