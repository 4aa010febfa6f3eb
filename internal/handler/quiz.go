package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/pavelanni/cbcassist/internal/api"
	"github.com/pavelanni/cbcassist/internal/form"
	"github.com/pavelanni/cbcassist/internal/handler/views"
	"github.com/pavelanni/cbcassist/internal/quiz"
)

const msgQuizIncomplete = "Please answer all questions before submitting"

func (h *Handler) loadAttempt(r *http.Request) *quiz.Attempt {
	a, err := h.store.GetQuizAttempt(visitorID(r))
	if err != nil {
		slog.Error("failed to load quiz attempt", "error", err)
		return nil
	}
	return a
}

func (h *Handler) saveAttempt(r *http.Request, a *quiz.Attempt) {
	if err := h.store.SaveQuizAttempt(visitorID(r), a); err != nil {
		slog.Error("failed to save quiz attempt", "error", err)
	}
}

func (h *Handler) handleQuizPage(w http.ResponseWriter, r *http.Request) {
	v := views.QuizView{Form: form.DefaultQuiz(), Attempt: h.loadAttempt(r)}
	h.render(w, r, views.QuizPage(v))
}

// renderQuiz swaps the quiz panel for htmx requests. Plain requests are
// redirected back to the quiz page unless there is an error to show.
func (h *Handler) renderQuiz(w http.ResponseWriter, r *http.Request, v views.QuizView) {
	switch {
	case isHTMX(r):
		h.render(w, r, views.QuizPanel(v))
	case v.Status.Error != "":
		h.render(w, r, views.QuizPage(v))
	default:
		http.Redirect(w, r, h.path("/student/quiz"), http.StatusSeeOther)
	}
}

func (h *Handler) handleQuizGenerate(w http.ResponseWriter, r *http.Request) {
	v := views.QuizView{Form: form.ParseQuiz(r)}
	if err := form.Validate(v.Form); err != nil {
		v.Status = views.Failed(validationMessage(err))
		h.renderQuiz(w, r, v)
		return
	}
	res, err := h.api.GenerateQuiz(h.apiContext(r), v.Form.Request())
	if err != nil {
		v.Status = views.Failed(api.Message(err, msgQuizFailed))
		h.renderQuiz(w, r, v)
		return
	}
	if len(res.Quiz.Questions) == 0 {
		v.Status = views.Failed(msgQuizFailed)
		h.renderQuiz(w, r, v)
		return
	}
	v.Attempt = quiz.New(v.Form.Topic, res.Quiz.Questions)
	h.saveAttempt(r, v.Attempt)
	slog.Info("quiz generated", "visitor", visitorID(r), "questions", v.Attempt.Total())
	h.renderQuiz(w, r, v)
}

// errNoQuizStep aborts an update when the attempt is not in the quiz step.
var errNoQuizStep = errors.New("quiz: attempt is not in progress")

// quizStep applies fn to the stored attempt and saves it. Updates for the
// same visitor never interleave. Without an attempt in progress the
// configuration step is shown.
func (h *Handler) quizStep(w http.ResponseWriter, r *http.Request, fn func(a *quiz.Attempt) error) {
	v := views.QuizView{Form: form.DefaultQuiz()}
	a, err := h.store.UpdateQuizAttempt(visitorID(r), func(a *quiz.Attempt) error {
		if a.Step() != quiz.StepQuiz {
			return errNoQuizStep
		}
		return fn(a)
	})
	v.Attempt = a
	switch {
	case err == nil, errors.Is(err, errNoQuizStep):
	case errors.Is(err, quiz.ErrIncomplete):
		v.Status = views.Failed(msgQuizIncomplete)
	case a != nil:
		v.Status = views.Failed(err.Error())
	default:
		slog.Error("failed to update quiz attempt", "error", err)
		v.Attempt = h.loadAttempt(r)
	}
	h.renderQuiz(w, r, v)
}

func (h *Handler) handleQuizAnswer(w http.ResponseWriter, r *http.Request) {
	h.quizStep(w, r, func(a *quiz.Attempt) error {
		a.Select(r.FormValue("question_id"), r.FormValue("answer"))
		return nil
	})
}

func (h *Handler) handleQuizNext(w http.ResponseWriter, r *http.Request) {
	h.quizStep(w, r, func(a *quiz.Attempt) error {
		a.Next()
		return nil
	})
}

func (h *Handler) handleQuizPrev(w http.ResponseWriter, r *http.Request) {
	h.quizStep(w, r, func(a *quiz.Attempt) error {
		a.Prev()
		return nil
	})
}

func (h *Handler) handleQuizSubmit(w http.ResponseWriter, r *http.Request) {
	h.quizStep(w, r, func(a *quiz.Attempt) error {
		if err := a.Submit(); err != nil {
			return err
		}
		slog.Info("quiz submitted", "visitor", visitorID(r), "score", a.Score())
		return nil
	})
}

// handleQuizReset discards the attempt and returns to the configuration
// step with the previous topic filled in.
func (h *Handler) handleQuizReset(w http.ResponseWriter, r *http.Request) {
	v := views.QuizView{Form: form.DefaultQuiz()}
	if a := h.loadAttempt(r); a != nil {
		v.Form.Topic = a.Topic
	}
	if err := h.store.DeleteQuizAttempt(visitorID(r)); err != nil {
		slog.Error("failed to delete quiz attempt", "error", err)
	}
	h.renderQuiz(w, r, v)
}
