package views

import (
	"strconv"
	"time"

	"github.com/a-h/templ"

	"github.com/pavelanni/cbcassist/internal/explore"
	"github.com/pavelanni/cbcassist/internal/form"
	"github.com/pavelanni/cbcassist/internal/model"
)

// Status is the state of a page's result area.
type Status struct {
	State model.ViewState
	Error string
}

// Failed returns an error status carrying msg.
func Failed(msg string) Status {
	return Status{State: model.StateError, Error: msg}
}

// Succeeded is the status after a successful request.
var Succeeded = Status{State: model.StateSuccess}

func gradeSelect(h *html, value string) {
	h.render(Select(SelectProps{Label: h.t("Grade"), Name: "grade", Value: value, Options: model.Grades, Placeholder: h.t("SelectGrade"), Required: true}))
}

func subjectSelect(h *html, value string) {
	h.render(Select(SelectProps{Label: h.t("Subject"), Name: "subject", Value: value, Options: model.Subjects, Placeholder: h.t("SelectSubject"), Required: true}))
}

// ChatView is the chat page state.
type ChatView struct {
	Form     form.Chat
	Messages []model.ChatMessage
	Status   Status
}

// ChatPage renders the chat page.
func ChatPage(v ChatView) templ.Component {
	return Layout("Feature_chat", component(func(h *html) {
		h.render(PageHeader("💬", h.t("Feature_chat"), h.t("FeatureDesc_chat"), "/student/dashboard"))
		h.render(ChatPanel(v))
	}))
}

// ChatPanel is the transcript plus the send form; htmx swaps it whole.
func ChatPanel(v ChatView) templ.Component {
	return component(func(h *html) {
		h.raw(`<div id="chat-panel" class="grid gap-6 lg:grid-cols-4">`)
		h.rawf(`<form id="chat-form" method="post" action="%s" hx-post="%s" hx-target="#chat-panel" hx-swap="outerHTML" hx-indicator="#chat-loading" hx-disabled-elt="find button[type=submit]" data-ready-check class="contents">`,
			h.path("/student/chat"), h.path("/student/chat"))
		h.csrfField()

		h.raw(`<aside class="lg:col-span-1">`)
		h.render(Card(h.t("Settings"), component(func(h *html) {
			gradeSelect(h, v.Form.Grade)
			subjectSelect(h, v.Form.Subject)
			h.render(Select(SelectProps{Label: h.t("Language"), Name: "language", Value: v.Form.Language, Options: model.Languages}))
		})))
		h.raw(`</aside>`)

		h.raw(`<section class="lg:col-span-3"><div class="card rounded-xl bg-white p-6 shadow">`)
		h.raw(`<div id="chat-transcript" class="mb-4 max-h-[60vh] space-y-4 overflow-y-auto">`)
		if len(v.Messages) == 0 {
			h.raw(`<p class="py-10 text-center text-gray-500">`)
			h.text(h.t("ChatEmpty"))
			h.raw(`</p>`)
		}
		for _, m := range v.Messages {
			chatMessage(h, m)
		}
		h.raw(`</div>`)
		h.render(Loading("chat-loading", h.t("Thinking")))
		h.render(Alert(AlertError, v.Status.Error, true))
		h.render(Textarea(TextareaProps{Name: "message", Value: v.Form.Message, Rows: 3, Placeholder: h.t("ChatPlaceholder"), Required: true}))
		h.raw(`<div class="flex gap-3">`)
		h.render(Button(ButtonProps{Disabled: !form.Ready(v.Form), Attrs: templ.Attributes{"data-ready": true}}, h.t("Send")))
		h.raw(`</div></div></section></form>`)

		if len(v.Messages) > 0 {
			h.rawf(`<form method="post" action="%s" hx-post="%s" hx-target="#chat-panel" hx-swap="outerHTML" class="lg:col-start-4">`,
				h.path("/student/chat/clear"), h.path("/student/chat/clear"))
			h.csrfField()
			h.render(Button(ButtonProps{Variant: "secondary", Size: "sm"}, h.t("ClearChat")))
			h.raw(`</form>`)
		}
		h.raw(`</div>`)
	})
}

func chatMessage(h *html, m model.ChatMessage) {
	if m.Role == model.ChatRoleUser {
		h.raw(`<div class="chat-message user flex justify-end"><div class="max-w-[80%] rounded-lg bg-indigo-600 px-4 py-2 text-white">`)
		h.lines(m.Content)
		h.raw(`</div></div>`)
		return
	}
	h.raw(`<div class="chat-message assistant flex justify-start"><div class="max-w-[80%] rounded-lg bg-gray-100 px-4 py-2 text-gray-800">`)
	h.lines(m.Content)
	if len(m.Sources) > 0 {
		h.raw(`<div class="mt-2 border-t border-gray-200 pt-2 text-xs text-gray-500"><span class="font-semibold">`)
		h.text(h.t("Sources"))
		h.raw(`:</span><ul class="list-disc pl-4">`)
		for _, s := range m.Sources {
			h.raw(`<li>`)
			h.text(s.Name())
			h.raw(`</li>`)
		}
		h.raw(`</ul></div>`)
	}
	h.raw(`</div></div>`)
}

// HomeworkView is the homework help page state.
type HomeworkView struct {
	Form   form.Homework
	Result *model.HomeworkResponse
	Status Status
}

func HomeworkPage(v HomeworkView) templ.Component {
	return Layout("Feature_homework", component(func(h *html) {
		h.render(PageHeader("📚", h.t("Feature_homework"), h.t("FeatureDesc_homework"), "/student/dashboard"))
		h.raw(`<div class="grid gap-6 lg:grid-cols-2"><div>`)
		h.render(Card("", component(func(h *html) {
			formOpen(h, "post", "/student/homework")
			h.render(Textarea(TextareaProps{
				Label: h.t("YourQuestion"), Name: "question", Value: v.Form.Question, Rows: 5,
				Placeholder: h.t("HomeworkPlaceholder"), Required: true, MaxLength: form.HomeworkMaxLen,
			}))
			h.raw(`<p class="-mt-3 mb-4 text-right text-xs text-gray-500">`)
			h.text(strconv.Itoa(len([]rune(v.Form.Question))) + "/" + strconv.Itoa(form.HomeworkMaxLen))
			h.raw(`</p>`)
			gradeSelect(h, v.Form.Grade)
			subjectSelect(h, v.Form.Subject)
			h.render(Select(SelectProps{Label: h.t("HintLevel"), Name: "hint_level", Value: v.Form.HintLevel, Options: model.HintLevels}))
			h.render(submitButton(h.t("GetHint"), form.Ready(v.Form)))
			h.raw(`</form>`)
		})))
		h.raw(`</div><div>`)
		h.render(AlertArea(v.Status.Error))
		resultArea(h, h.t("Thinking"), HomeworkResult(v.Result))
		h.raw(`</div></div>`)
	}))
}

// HomeworkResult shows the hint. A nil response renders nothing.
func HomeworkResult(res *model.HomeworkResponse) templ.Component {
	return component(func(h *html) {
		if res == nil {
			return
		}
		h.render(Card(h.t("YourHint"), component(func(h *html) {
			h.render(Badge("primary", model.Label(model.HintLevels, res.HintLevel)))
			h.raw(`<div class="hint mt-4 text-gray-800">`)
			h.lines(res.Hint)
			h.raw(`</div>`)
			if res.Reminder != "" {
				h.raw(`<div class="mt-4">`)
				h.render(Alert(AlertInfo, res.Reminder, false))
				h.raw(`</div>`)
			}
		})))
	})
}

// SolveView is the step-by-step solver page state.
type SolveView struct {
	Form   form.Solve
	Result *model.SolveResponse
	Status Status
}

func SolvePage(v SolveView) templ.Component {
	return Layout("Feature_solve", component(func(h *html) {
		h.render(PageHeader("🔍", h.t("Feature_solve"), h.t("FeatureDesc_solve"), "/student/dashboard"))
		h.render(Card("", component(func(h *html) {
			formOpen(h, "post", "/student/solve")
			h.render(Textarea(TextareaProps{Label: h.t("Problem"), Name: "problem", Value: v.Form.Problem, Rows: 4, Placeholder: h.t("ProblemPlaceholder"), Required: true}))
			h.raw(`<div class="grid gap-4 md:grid-cols-2">`)
			gradeSelect(h, v.Form.Grade)
			subjectSelect(h, v.Form.Subject)
			h.raw(`</div>`)
			h.render(submitButton(h.t("SolveStepByStep"), form.Ready(v.Form)))
			h.raw(`</form>`)
		})))
		h.render(AlertArea(v.Status.Error))
		resultArea(h, h.t("Solving"), SolveResult(v.Result))
	}))
}

func SolveResult(res *model.SolveResponse) templ.Component {
	return component(func(h *html) {
		if res == nil {
			return
		}
		h.render(Card(h.t("Solution"), component(func(h *html) {
			h.raw(`<div class="mb-4 rounded-lg bg-gray-50 p-4"><p class="text-sm font-semibold text-gray-600">`)
			h.text(h.t("Problem"))
			h.raw(`</p><p class="text-gray-800">`)
			h.lines(res.Problem)
			h.raw(`</p></div><div class="solution space-y-2 text-gray-800">`)
			h.lines(res.Solution)
			h.raw(`</div><div class="mt-4 flex gap-2">`)
			h.render(Badge("primary", model.Label(model.Grades, res.Grade.String())))
			h.render(Badge("success", model.Label(model.Subjects, res.Subject)))
			h.raw(`</div>`)
		})))
	})
}

// ExploreView is the topic exploration page state.
type ExploreView struct {
	Form   form.Explore
	Result *model.Exploration
	Status Status
}

var sectionEmoji = map[string]string{
	explore.IconBook:      "📖",
	explore.IconLightbulb: "💡",
	explore.IconTrending:  "📈",
	explore.IconZap:       "⚡",
	explore.IconAlert:     "⚠️",
	explore.IconCompass:   "🧭",
}

func ExplorePage(v ExploreView) templ.Component {
	return Layout("Feature_explore", component(func(h *html) {
		h.render(PageHeader("🌟", h.t("Feature_explore"), h.t("FeatureDesc_explore"), "/student/dashboard"))
		h.raw(`<div class="grid gap-6 lg:grid-cols-3"><div class="lg:col-span-1">`)
		h.render(Card("", component(func(h *html) {
			formOpen(h, "post", "/student/explore")
			h.render(Input(InputProps{Label: h.t("Topic"), Name: "topic", Value: v.Form.Topic, Placeholder: h.t("TopicPlaceholder"), Required: true}))
			gradeSelect(h, v.Form.Grade)
			subjectSelect(h, v.Form.Subject)
			h.render(submitButton(h.t("Explore"), form.Ready(v.Form)))
			h.raw(`</form>`)
		})))
		h.render(Card(h.t("PopularTopics"), component(func(h *html) {
			for _, group := range model.PopularTopics {
				h.raw(`<div class="mb-3"><p class="mb-1 text-sm font-semibold text-gray-600">`)
				h.text(model.Label(model.Subjects, group.Subject))
				h.raw(`</p><div class="flex flex-wrap gap-2">`)
				for _, topic := range group.Topics {
					href := h.path("/student/explore") + "?topic=" + queryEscape(topic) + "&subject=" + queryEscape(group.Subject)
					h.rawf(`<a href="%s" class="rounded-full bg-indigo-50 px-3 py-1 text-sm text-indigo-700 hover:bg-indigo-100">`, href)
					h.text(topic)
					h.raw(`</a>`)
				}
				h.raw(`</div></div>`)
			}
		})))
		h.raw(`</div><div class="lg:col-span-2">`)
		h.render(AlertArea(v.Status.Error))
		resultArea(h, h.t("Exploring"), ExploreResult(v.Result))
		h.raw(`</div></div>`)
	}))
}

func ExploreResult(res *model.Exploration) templ.Component {
	return component(func(h *html) {
		if res == nil {
			return
		}
		h.raw(`<div class="card rounded-xl bg-white p-6 shadow"><div class="mb-4 flex items-center justify-between"><h2 class="text-2xl font-bold text-gray-800">`)
		h.text(res.Topic)
		h.raw(`</h2>`)
		if res.HasCurriculumContent {
			h.render(Badge("success", h.t("CurriculumContent")))
		}
		h.raw(`</div><div class="space-y-4">`)
		for _, s := range explore.Parse(res.Exploration) {
			if !s.Numbered {
				h.raw(`<p class="text-gray-700">`)
				h.lines(s.Body)
				h.raw(`</p>`)
				continue
			}
			h.rawf(`<div class="explore-section rounded-lg border-l-4 border-indigo-400 bg-indigo-50 p-4" data-icon="%s">`, s.Icon)
			h.rawf(`<h3 class="mb-1 font-semibold text-indigo-800">%s `, sectionEmoji[s.Icon])
			h.text(s.Title)
			h.raw(`</h3><p class="text-gray-700">`)
			h.lines(s.Body)
			h.raw(`</p></div>`)
		}
		h.raw(`</div></div>`)
	})
}

// DailyTipView is the daily tip page state.
type DailyTipView struct {
	Form      form.DailyTip
	Tip       *model.DailyTip
	FetchedAt time.Time
	Status    Status
}

func DailyTipPage(v DailyTipView) templ.Component {
	return Layout("Feature_daily-tip", component(func(h *html) {
		h.render(PageHeader("💡", h.t("Feature_daily-tip"), h.t("FeatureDesc_daily-tip"), "/student/dashboard"))
		h.render(Card("", component(func(h *html) {
			action := h.path("/student/daily-tip")
			h.rawf(`<form method="get" action="%s" hx-get="%s" hx-trigger="change" hx-target="#result" hx-swap="innerHTML" hx-indicator="#loading" hx-push-url="true" class="grid gap-4 md:grid-cols-2">`,
				action, action)
			gradeSelect(h, v.Form.Grade)
			subjectSelect(h, v.Form.Subject)
			h.raw(`<noscript>`)
			h.render(Button(ButtonProps{}, h.t("GetTip")))
			h.raw(`</noscript></form>`)
		})))
		h.render(AlertArea(v.Status.Error))
		resultArea(h, h.t("Loading"), DailyTipResult(v))
	}))
}

// DailyTipResult shows the tip with its date and a refresh link.
func DailyTipResult(v DailyTipView) templ.Component {
	return component(func(h *html) {
		if v.Tip == nil {
			if !form.Ready(v.Form) {
				h.render(Alert(AlertInfo, h.t("SelectGradeSubjectForTip"), false))
			}
			return
		}
		h.raw(`<div class="card rounded-xl bg-gradient-to-br from-yellow-50 to-orange-50 p-8 shadow">`)
		h.raw(`<p class="tip-date mb-2 text-sm font-semibold uppercase tracking-wide text-orange-700">`)
		h.text(FormatTipDate(v.Tip.Date))
		h.raw(`</p><p class="tip text-xl text-gray-800">`)
		h.lines(v.Tip.Tip)
		h.raw(`</p><div class="mt-4 flex items-center gap-2">`)
		h.render(Badge("primary", model.Label(model.Grades, v.Tip.Grade.String())))
		h.render(Badge("success", model.Label(model.Subjects, v.Tip.Subject)))
		h.raw(`</div><div class="mt-6 flex items-center justify-between text-sm text-gray-500"><span class="fetched-at">`)
		h.text(h.td("FetchedAt", map[string]any{"Time": v.FetchedAt.Format("15:04")}))
		h.raw(`</span>`)
		href := h.path("/student/daily-tip") + "?grade=" + queryEscape(v.Form.Grade) + "&subject=" + queryEscape(v.Form.Subject)
		h.rawf(`<a href="%s" hx-get="%s" hx-target="#result" hx-indicator="#loading" class="text-indigo-600 hover:underline">🔄 `, href, href)
		h.text(h.t("Refresh"))
		h.raw(`</a></div></div>`)
	})
}

// FormatTipDate renders an ISO date as "January 02, 2006". Unparseable
// input is returned unchanged.
func FormatTipDate(s string) string {
	for _, layout := range []string{"2006-01-02", time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("January 02, 2006")
		}
	}
	return s
}
