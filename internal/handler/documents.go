package handler

import (
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pavelanni/cbcassist/internal/model"
)

const generatedLayout = "1/2/2006, 3:04:05 PM"

// timestampLayouts are the forms backends use for created_at and generated_at.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05",
}

var whitespace = regexp.MustCompile(`\s+`)

func dashed(s string) string {
	return whitespace.ReplaceAllString(strings.TrimSpace(s), "-")
}

// generatedAt parses a backend timestamp, falling back to now.
func generatedAt(s string, now time.Time) time.Time {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return now
}

// textDocument lays out a downloadable plain-text document.
func textDocument(heading []string, meta []string, content string, generated time.Time) string {
	var b strings.Builder
	for _, line := range heading {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	if len(meta) > 0 {
		b.WriteString(strings.Join(meta, "\n"))
		b.WriteString("\n\n")
	}
	b.WriteString(content)
	b.WriteString("\n\nGenerated: ")
	b.WriteString(generated.Format(generatedLayout))
	return strings.TrimSpace(b.String())
}

func underline(s string) string {
	return strings.Repeat("=", len(s))
}

func lessonPlanDocument(res *model.LessonPlanResponse, now time.Time) model.Document {
	lp := res.LessonPlan
	return model.Document{
		Kind:     model.DocLessonPlan,
		Title:    lp.Topic,
		Filename: "lesson-plan-" + dashed(lp.Topic) + ".txt",
		Body: textDocument(
			[]string{"LESSON PLAN", underline("LESSON PLAN")},
			[]string{
				"Subject: " + lp.Subject,
				"Grade: " + lp.Grade.String(),
				"Topic: " + lp.Topic,
				"Duration: " + strconv.Itoa(lp.DurationMinutes) + " minutes",
			},
			lp.Content,
			generatedAt(res.CreatedAt, now),
		),
	}
}

func assessmentDocument(res *model.AssessmentResponse, now time.Time) model.Document {
	return model.Document{
		Kind:     model.DocAssessment,
		Title:    strings.Join(res.Topics, ", "),
		Filename: fmt.Sprintf("assessment-%s-grade-%s.txt", res.Subject, res.Grade),
		Body: textDocument(
			[]string{
				strings.ToUpper(res.Subject) + " ASSESSMENT",
				"Grade " + res.Grade.String(),
				strings.Repeat("=", 59),
			},
			[]string{
				"Topics: " + strings.Join(res.Topics, ", "),
				"Total Questions: " + strconv.Itoa(res.TotalQuestions),
				"Type: " + res.Type,
			},
			res.Assessment,
			generatedAt(res.GeneratedAt, now),
		),
	}
}

func schemeOfWorkDocument(res *model.SchemeOfWorkResponse, now time.Time) model.Document {
	return model.Document{
		Kind:     model.DocSchemeOfWork,
		Title:    fmt.Sprintf("%s Grade %s Term %s", model.Label(model.Subjects, res.Subject), res.Grade, res.Term),
		Filename: fmt.Sprintf("scheme-of-work-%s-grade-%s-term-%s.txt", res.Subject, res.Grade, res.Term),
		Body: textDocument(
			[]string{"SCHEME OF WORK", underline("SCHEME OF WORK")},
			[]string{
				"Subject: " + res.Subject,
				"Grade: " + res.Grade.String(),
				"Term: " + res.Term.String(),
				"Duration: " + strconv.Itoa(res.Weeks) + " weeks",
			},
			res.SchemeOfWork,
			generatedAt(res.GeneratedAt, now),
		),
	}
}

func progressReportDocument(res *model.ProgressReportResponse, now time.Time) model.Document {
	return model.Document{
		Kind:     model.DocProgressReport,
		Title:    res.Student,
		Filename: "progress-report-" + dashed(res.Student) + ".txt",
		Body: textDocument(
			[]string{"STUDENT PROGRESS REPORT", underline("STUDENT PROGRESS REPORT")},
			[]string{
				"Student: " + res.Student,
				"Average Score: " + strconv.FormatFloat(res.AverageScore, 'f', 1, 64) + "%",
			},
			res.Report,
			now,
		),
	}
}

// saveDocument stores doc for the current visitor. A storage failure only
// costs the download link.
func (h *Handler) saveDocument(r *http.Request, doc model.Document) *model.Document {
	doc.VisitorID = visitorID(r)
	id, err := h.store.CreateDocument(doc)
	if err != nil {
		slog.Error("failed to store document", "kind", doc.Kind, "error", err)
		return nil
	}
	doc.ID = id
	return &doc
}

func (h *Handler) recent(r *http.Request, kind model.DocumentKind) []model.Document {
	docs, err := h.store.ListDocuments(visitorID(r), kind, recentDocuments)
	if err != nil {
		slog.Error("failed to list documents", "kind", kind, "error", err)
	}
	return docs
}

// handleDownload serves a stored document as a plain-text attachment.
// Documents belong to the visitor that generated them.
func (h *Handler) handleDownload(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	doc, err := h.store.GetDocument(visitorID(r), id)
	if err != nil {
		slog.Error("failed to get document", "id", id, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if doc == nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	disposition := mime.FormatMediaType("attachment", map[string]string{"filename": doc.Filename})
	if disposition == "" {
		disposition = "attachment"
	}
	w.Header().Set("Content-Disposition", disposition)
	_, _ = w.Write([]byte(doc.Body))
}
