package views

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/a-h/templ"
	"github.com/dustin/go-humanize"

	"github.com/pavelanni/cbcassist/internal/form"
	"github.com/pavelanni/cbcassist/internal/model"
)

// DocumentLinks renders the download button of a stored document.
func DocumentLinks(doc *model.Document) templ.Component {
	return component(func(h *html) {
		if doc == nil {
			return
		}
		href := h.path(fmt.Sprintf("/teacher/documents/%d/download", doc.ID))
		h.rawf(`<a href="%s" download="%s" class="download inline-flex items-center gap-2 rounded-lg bg-green-600 px-4 py-2 font-medium text-white hover:bg-green-700">⬇ `, href, doc.Filename)
		h.text(h.t("Download"))
		h.raw(`</a>`)
	})
}

// RecentDocuments lists the visitor's earlier documents of one kind.
func RecentDocuments(docs []model.Document) templ.Component {
	return component(func(h *html) {
		if len(docs) == 0 {
			return
		}
		h.render(Card(h.t("RecentDocuments"), component(func(h *html) {
			h.raw(`<ul class="divide-y">`)
			for _, d := range docs {
				h.rawf(`<li class="flex items-center justify-between py-2"><a class="text-indigo-600 hover:underline" href="%s">`,
					h.path(fmt.Sprintf("/teacher/documents/%d/download", d.ID)))
				h.text(d.Title)
				h.raw(`</a><span class="text-xs text-gray-500">`)
				h.text(humanize.Time(d.CreatedAt))
				h.raw(`</span></li>`)
			}
			h.raw(`</ul>`)
		})))
	})
}

func teacherPage(titleID, icon, featureID string, formBody, result, recent templ.Component, status Status) templ.Component {
	return Layout(titleID, component(func(h *html) {
		h.render(PageHeader(icon, h.t(titleID), h.t("FeatureDesc_"+featureID), "/teacher/dashboard"))
		h.raw(`<div class="grid gap-6 lg:grid-cols-3"><div class="lg:col-span-1">`)
		h.render(Card("", formBody))
		h.render(recent)
		h.raw(`</div><div class="lg:col-span-2">`)
		h.render(AlertArea(status.Error))
		resultArea(h, h.t("Generating"), result)
		h.raw(`</div></div>`)
	}))
}

func documentCard(h *html, title string, doc *model.Document, meta func(h *html), content string) {
	h.raw(`<div class="card rounded-xl bg-white p-6 shadow"><div class="mb-4 flex items-start justify-between gap-4"><h2 class="text-2xl font-bold text-gray-800">`)
	h.text(title)
	h.raw(`</h2>`)
	h.render(DocumentLinks(doc))
	h.raw(`</div><div class="mb-4 flex flex-wrap gap-2">`)
	meta(h)
	h.raw(`</div><div class="document-content whitespace-pre-wrap text-gray-800">`)
	h.text(content)
	h.raw(`</div></div>`)
}

// LessonPlanView is the lesson plan page state.
type LessonPlanView struct {
	Form     form.LessonPlan
	Result   *model.LessonPlanResponse
	Document *model.Document
	Recent   []model.Document
	Status   Status
}

func LessonPlanPage(v LessonPlanView) templ.Component {
	body := component(func(h *html) {
		formOpen(h, "post", "/teacher/lesson-plan")
		subjectSelect(h, v.Form.Subject)
		gradeSelect(h, v.Form.Grade)
		h.render(Input(InputProps{Label: h.t("Topic"), Name: "topic", Value: v.Form.Topic, Placeholder: h.t("LessonTopicPlaceholder"), Required: true}))
		h.render(Input(InputProps{Label: h.t("DurationMinutes"), Name: "duration_minutes", Type: "number", Value: strconv.Itoa(v.Form.DurationMinutes), Min: "20", Max: "120"}))
		h.render(Select(SelectProps{Label: h.t("Language"), Name: "language", Value: v.Form.Language, Options: model.Languages}))
		h.render(submitButton(h.t("GenerateLessonPlan"), form.Ready(v.Form)))
		h.raw(`</form>`)
	})
	return teacherPage("Feature_lesson-plan", "📋", "lesson-plan", body, LessonPlanResult(v.Result, v.Document), RecentDocuments(v.Recent), v.Status)
}

func LessonPlanResult(res *model.LessonPlanResponse, doc *model.Document) templ.Component {
	return component(func(h *html) {
		if res == nil {
			return
		}
		lp := res.LessonPlan
		documentCard(h, lp.Topic, doc, func(h *html) {
			h.render(Badge("primary", model.Label(model.Subjects, lp.Subject)))
			h.render(Badge("default", model.Label(model.Grades, lp.Grade.String())))
			h.render(Badge("success", h.td("MinutesN", map[string]any{"N": lp.DurationMinutes})))
		}, lp.Content)
	})
}

// AssessmentView is the assessment page state.
type AssessmentView struct {
	Form     form.Assessment
	Result   *model.AssessmentResponse
	Document *model.Document
	Recent   []model.Document
	Status   Status
}

func AssessmentPage(v AssessmentView) templ.Component {
	body := component(func(h *html) {
		formOpen(h, "post", "/teacher/assessment")
		subjectSelect(h, v.Form.Subject)
		gradeSelect(h, v.Form.Grade)
		h.render(Textarea(TextareaProps{Label: h.t("TopicsOnePerLine"), Name: "topics", Value: strings.Join(v.Form.Topics, "\n"), Rows: 4, Placeholder: h.t("TopicsPlaceholder"), Required: true}))
		h.render(Input(InputProps{Label: h.t("NumQuestions"), Name: "num_questions", Type: "number", Value: strconv.Itoa(v.Form.NumQuestions), Min: "5", Max: "30"}))
		h.render(Select(SelectProps{Label: h.t("AssessmentType"), Name: "assessment_type", Value: v.Form.AssessmentType, Options: model.AssessmentTypes}))
		h.render(Checkbox(h.t("IncludeMarkingScheme"), "include_marking_scheme", v.Form.IncludeMarkingScheme))
		h.render(submitButton(h.t("GenerateAssessment"), form.Ready(v.Form)))
		h.raw(`</form>`)
	})
	return teacherPage("Feature_assessment", "📊", "assessment", body, AssessmentResult(v.Result, v.Document), RecentDocuments(v.Recent), v.Status)
}

func AssessmentResult(res *model.AssessmentResponse, doc *model.Document) templ.Component {
	return component(func(h *html) {
		if res == nil {
			return
		}
		title := model.Label(model.Subjects, res.Subject) + " · " + model.Label(model.Grades, res.Grade.String())
		documentCard(h, title, doc, func(h *html) {
			for _, t := range res.Topics {
				h.render(Badge("primary", t))
			}
			h.render(Badge("default", h.tp("QuestionsN", res.TotalQuestions)))
			h.render(Badge("default", model.Label(model.AssessmentTypes, res.Type)))
			if res.HasMarkingScheme {
				h.render(Badge("success", h.t("IncludeMarkingScheme")))
			}
		}, res.Assessment)
	})
}

// SchemeOfWorkView is the scheme of work page state.
type SchemeOfWorkView struct {
	Form     form.SchemeOfWork
	Result   *model.SchemeOfWorkResponse
	Document *model.Document
	Recent   []model.Document
	Status   Status
}

func SchemeOfWorkPage(v SchemeOfWorkView) templ.Component {
	body := component(func(h *html) {
		formOpen(h, "post", "/teacher/scheme")
		subjectSelect(h, v.Form.Subject)
		gradeSelect(h, v.Form.Grade)
		h.render(Select(SelectProps{Label: h.t("Term"), Name: "term", Value: strconv.Itoa(v.Form.Term), Options: model.Terms}))
		h.render(Input(InputProps{Label: h.t("NumWeeks"), Name: "num_weeks", Type: "number", Value: strconv.Itoa(v.Form.NumWeeks), Min: "8", Max: "14"}))
		h.render(submitButton(h.t("GenerateScheme"), form.Ready(v.Form)))
		h.raw(`</form>`)
	})
	return teacherPage("Feature_scheme", "📅", "scheme", body, SchemeOfWorkResult(v.Result, v.Document), RecentDocuments(v.Recent), v.Status)
}

func SchemeOfWorkResult(res *model.SchemeOfWorkResponse, doc *model.Document) templ.Component {
	return component(func(h *html) {
		if res == nil {
			return
		}
		title := model.Label(model.Subjects, res.Subject) + " · " + model.Label(model.Terms, res.Term.String())
		documentCard(h, title, doc, func(h *html) {
			h.render(Badge("default", model.Label(model.Grades, res.Grade.String())))
			h.render(Badge("success", h.tp("WeeksN", res.Weeks)))
		}, res.SchemeOfWork)
	})
}

// ProgressReportView is the progress report page state.
type ProgressReportView struct {
	Form     form.ProgressReport
	Result   *model.ProgressReportResponse
	Document *model.Document
	Recent   []model.Document
	Status   Status
}

func ProgressReportPage(v ProgressReportView) templ.Component {
	body := component(func(h *html) {
		formOpen(h, "post", "/teacher/progress")
		h.render(Input(InputProps{Label: h.t("StudentName"), Name: "student_name", Value: v.Form.StudentName, Required: true}))
		gradeSelect(h, v.Form.Grade)
		subjectSelect(h, v.Form.Subject)
		h.render(Input(InputProps{Label: h.t("QuizScores"), Name: "quiz_scores", Value: formatScores(v.Form.QuizScores), Placeholder: "75, 82, 90"}))
		h.render(Textarea(TextareaProps{Label: h.t("TopicsCovered"), Name: "topics_covered", Value: strings.Join(v.Form.TopicsCovered, "\n"), Rows: 3}))
		h.render(Textarea(TextareaProps{Label: h.t("Strengths"), Name: "strengths", Value: strings.Join(v.Form.Strengths, "\n"), Rows: 3}))
		h.render(Textarea(TextareaProps{Label: h.t("AreasToImprove"), Name: "areas_to_improve", Value: strings.Join(v.Form.AreasToImprove, "\n"), Rows: 3}))
		h.render(submitButton(h.t("GenerateReport"), form.Ready(v.Form)))
		h.raw(`</form>`)
	})
	return teacherPage("Feature_progress", "📈", "progress", body, ProgressReportResult(v.Result, v.Document), RecentDocuments(v.Recent), v.Status)
}

func ProgressReportResult(res *model.ProgressReportResponse, doc *model.Document) templ.Component {
	return component(func(h *html) {
		if res == nil {
			return
		}
		documentCard(h, res.Student, doc, func(h *html) {
			h.render(Badge("primary", h.t("AverageScore")+": "+FormatAverage(res.AverageScore)))
		}, res.Report)
	})
}

// FormatAverage renders a percentage with one decimal.
func FormatAverage(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64) + "%"
}

func formatScores(scores []float64) string {
	parts := make([]string, len(scores))
	for i, s := range scores {
		parts[i] = strconv.FormatFloat(s, 'f', -1, 64)
	}
	return strings.Join(parts, ", ")
}
