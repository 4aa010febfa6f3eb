package views

import (
	"strconv"

	"github.com/a-h/templ"

	"github.com/pavelanni/cbcassist/internal/form"
	"github.com/pavelanni/cbcassist/internal/model"
	"github.com/pavelanni/cbcassist/internal/quiz"
)

// QuizView is the quiz page state. A nil Attempt means the configuration step.
type QuizView struct {
	Form    form.Quiz
	Attempt *quiz.Attempt
	Status  Status
}

func QuizPage(v QuizView) templ.Component {
	return Layout("Feature_quiz", component(func(h *html) {
		h.render(PageHeader("📝", h.t("Feature_quiz"), h.t("FeatureDesc_quiz"), "/student/dashboard"))
		h.render(QuizPanel(v))
	}))
}

// QuizPanel renders the current step. Every quiz action swaps the whole panel.
func QuizPanel(v QuizView) templ.Component {
	return component(func(h *html) {
		h.raw(`<div id="quiz-panel" class="mx-auto max-w-3xl">`)
		h.render(Alert(AlertError, v.Status.Error, true))
		step := quiz.StepConfig
		if v.Attempt != nil {
			step = v.Attempt.Step()
		}
		switch step {
		case quiz.StepQuiz:
			quizQuestion(h, v.Attempt)
		case quiz.StepResults:
			quizResults(h, v.Attempt)
		default:
			quizConfig(h, v.Form)
		}
		h.raw(`</div>`)
	})
}

// quizAction opens a form that swaps the quiz panel. Requests from the
// panel are queued so answers clicked in quick succession arrive in order.
func quizAction(h *html, action string, extra trusted) {
	h.rawf(`<form method="post" action="%s" hx-post="%s" hx-target="#quiz-panel" hx-swap="outerHTML" hx-sync="#quiz-panel:queue all" hx-indicator="#quiz-loading" hx-disabled-elt="find button"%s>`,
		h.path(action), h.path(action), extra)
	h.csrfField()
}

func quizConfig(h *html, f form.Quiz) {
	h.render(Card(h.t("QuizSetup"), component(func(h *html) {
		quizAction(h, "/student/quiz/generate", " data-ready-check")
		h.render(Input(InputProps{Label: h.t("Topic"), Name: "topic", Value: f.Topic, Placeholder: h.t("QuizTopicPlaceholder"), Required: true}))
		h.raw(`<div class="grid gap-4 md:grid-cols-2">`)
		gradeSelect(h, f.Grade)
		subjectSelect(h, f.Subject)
		h.render(Input(InputProps{Label: h.t("NumQuestions"), Name: "num_questions", Type: "number", Value: strconv.Itoa(f.NumQuestions), Min: "3", Max: "10"}))
		h.render(Select(SelectProps{Label: h.t("Difficulty"), Name: "difficulty", Value: f.Difficulty, Options: model.DifficultyLevels}))
		h.raw(`</div>`)
		h.render(submitButton(h.t("GenerateQuiz"), form.Ready(f)))
		h.raw(`</form>`)
		h.render(Loading("quiz-loading", h.t("GeneratingQuiz")))
	})))
}

func quizQuestion(h *html, a *quiz.Attempt) {
	q := a.CurrentQuestion()
	h.raw(`<div class="card rounded-xl bg-white p-6 shadow">`)
	h.raw(`<div class="mb-4 flex items-center justify-between text-sm text-gray-600"><span>`)
	h.text(h.td("QuestionNOfM", map[string]any{"N": a.Current + 1, "Total": a.Total()}))
	h.raw(`</span><span>`)
	h.text(h.td("AnsweredOfTotal", map[string]any{"Count": a.AnsweredCount(), "Total": a.Total()}))
	h.raw(`</span></div>`)
	h.render(ProgressBar(a.Progress()))
	h.raw(`<h2 class="question mb-6 mt-6 text-xl font-semibold text-gray-800">`)
	h.text(q.Question)
	h.raw(`</h2><div class="space-y-3">`)
	selected := a.Selected(q.ID.String())
	for _, opt := range q.Options {
		letter := quiz.OptionLetter(opt)
		class := "option w-full rounded-lg border-2 px-4 py-3 text-left transition hover:border-indigo-400"
		if letter == selected {
			class += " selected border-indigo-600 bg-indigo-50"
		} else {
			class += " border-gray-200"
		}
		quizAction(h, "/student/quiz/answer", "")
		h.rawf(`<input type="hidden" name="question_id" value="%s">`, q.ID.String())
		h.rawf(`<button type="submit" name="answer" value="%s" class="%s">`, letter, class)
		h.text(opt)
		h.raw(`</button></form>`)
	}
	h.raw(`</div><div class="mt-6 flex items-center justify-between">`)

	quizAction(h, "/student/quiz/prev", "")
	h.render(Button(ButtonProps{Variant: "secondary", Disabled: a.IsFirst()}, h.t("Previous")))
	h.raw(`</form>`)
	if a.IsLast() {
		quizAction(h, "/student/quiz/submit", "")
		h.render(Button(ButtonProps{Disabled: !a.CanSubmit()}, h.t("SubmitQuiz")))
		h.raw(`</form>`)
	} else {
		quizAction(h, "/student/quiz/next", "")
		h.render(Button(ButtonProps{}, h.t("Next")))
		h.raw(`</form>`)
	}
	h.raw(`</div>`)
	h.render(Loading("quiz-loading", h.t("Loading")))
	h.raw(`</div>`)
}

func quizResults(h *html, a *quiz.Attempt) {
	score := a.Score()
	variant := "danger"
	switch {
	case score >= 80:
		variant = "success"
	case score >= 50:
		variant = "warning"
	}
	h.raw(`<div class="card mb-6 rounded-xl bg-white p-8 text-center shadow"><h2 class="mb-2 text-2xl font-bold text-gray-800">`)
	h.text(h.t("QuizResults"))
	h.raw(`</h2><p class="text-gray-600">`)
	h.text(h.t("YourScore"))
	h.rawf(`</p><p class="score my-4 text-6xl font-bold" data-score="%d">%d%%</p>`, score, score)
	h.render(Badge(variant, h.td("CorrectOfTotal", map[string]any{"Correct": a.CorrectCount(), "Total": a.Total()})))
	h.raw(`</div><div class="space-y-4">`)
	for _, r := range a.Results() {
		border := "border-red-400"
		if r.Correct {
			border = "border-green-500"
		}
		h.rawf(`<div class="result rounded-xl border-l-4 %s bg-white p-5 shadow"><p class="mb-2 font-semibold text-gray-800">%d. `, border, r.Index)
		h.text(r.Question.Question)
		h.raw(`</p><p class="text-sm">`)
		h.text(h.t("YourAnswer") + ": ")
		h.raw(`<span class="font-medium">`)
		h.text(answerText(r.Question, r.Answer))
		h.raw(`</span></p>`)
		if !r.Correct {
			h.raw(`<p class="text-sm text-green-700">`)
			h.text(h.t("CorrectAnswer") + ": " + answerText(r.Question, r.Question.CorrectAnswer))
			h.raw(`</p>`)
		}
		if r.Question.Explanation != "" {
			h.raw(`<p class="mt-2 rounded bg-gray-50 p-2 text-sm text-gray-700">💡 `)
			h.text(r.Question.Explanation)
			h.raw(`</p>`)
		}
		h.raw(`</div>`)
	}
	h.raw(`</div><div class="mt-6 text-center">`)
	quizAction(h, "/student/quiz/reset", "")
	h.render(Button(ButtonProps{Size: "lg"}, h.t("TryAnotherQuiz")))
	h.raw(`</form></div>`)
}

// answerText returns the full option text for a letter when one matches.
func answerText(q model.QuizQuestion, letter string) string {
	for _, opt := range q.Options {
		if quiz.OptionLetter(opt) == letter {
			return opt
		}
	}
	return letter
}
