package form

import (
	"net/http"

	"github.com/pavelanni/cbcassist/internal/model"
)

// LessonPlan is the lesson plan form.
type LessonPlan struct {
	Subject         string `validate:"required"`
	Grade           string `validate:"required"`
	Topic           string `validate:"required"`
	DurationMinutes int
	Language        string
}

func (LessonPlan) message() string { return MsgRequired }

func ParseLessonPlan(r *http.Request) LessonPlan {
	return LessonPlan{
		Subject:         value(r, "subject"),
		Grade:           value(r, "grade"),
		Topic:           value(r, "topic"),
		DurationMinutes: intInRange(r, "duration_minutes", 20, 120, 40),
		Language:        oneOf(value(r, "language"), model.Languages, "en"),
	}
}

func DefaultLessonPlan() LessonPlan {
	return LessonPlan{DurationMinutes: 40, Language: "en"}
}

func (f LessonPlan) Request() model.LessonPlanRequest {
	return model.LessonPlanRequest{
		Subject: f.Subject, Grade: f.Grade, Topic: f.Topic,
		DurationMinutes: f.DurationMinutes, Language: f.Language,
	}
}

// Assessment is the assessment generator form.
type Assessment struct {
	Subject              string   `validate:"required"`
	Grade                string   `validate:"required"`
	Topics               []string `validate:"required,min=1"`
	NumQuestions         int
	IncludeMarkingScheme bool
	AssessmentType       string
}

func (Assessment) message() string { return MsgAssessment }

func ParseAssessment(r *http.Request) Assessment {
	return Assessment{
		Subject:              value(r, "subject"),
		Grade:                value(r, "grade"),
		Topics:               list(r, "topics"),
		NumQuestions:         intInRange(r, "num_questions", 5, 30, 10),
		IncludeMarkingScheme: boolOr(r, "include_marking_scheme", true),
		AssessmentType:       oneOf(value(r, "assessment_type"), model.AssessmentTypes, "mixed"),
	}
}

func DefaultAssessment() Assessment {
	return Assessment{NumQuestions: 10, IncludeMarkingScheme: true, AssessmentType: "mixed"}
}

func (f Assessment) Request() model.AssessmentRequest {
	return model.AssessmentRequest{
		Subject: f.Subject, Grade: f.Grade, Topics: f.Topics,
		NumQuestions: f.NumQuestions, IncludeMarkingScheme: f.IncludeMarkingScheme,
		AssessmentType: f.AssessmentType,
	}
}

// SchemeOfWork is the scheme of work form.
type SchemeOfWork struct {
	Subject  string `validate:"required"`
	Grade    string `validate:"required"`
	Term     int
	NumWeeks int
}

func (SchemeOfWork) message() string { return MsgRequired }

func ParseSchemeOfWork(r *http.Request) SchemeOfWork {
	return SchemeOfWork{
		Subject:  value(r, "subject"),
		Grade:    value(r, "grade"),
		Term:     intInRange(r, "term", 1, 3, 1),
		NumWeeks: intInRange(r, "num_weeks", 8, 14, 12),
	}
}

func DefaultSchemeOfWork() SchemeOfWork {
	return SchemeOfWork{Term: 1, NumWeeks: 12}
}

func (f SchemeOfWork) Request() model.SchemeOfWorkRequest {
	return model.SchemeOfWorkRequest{Subject: f.Subject, Grade: f.Grade, Term: f.Term, NumWeeks: f.NumWeeks}
}

// ProgressReport is the student progress report form.
type ProgressReport struct {
	StudentName    string `validate:"required"`
	Grade          string `validate:"required"`
	Subject        string `validate:"required"`
	QuizScores     []float64
	TopicsCovered  []string
	Strengths      []string
	AreasToImprove []string
}

func (ProgressReport) message() string { return MsgRequired }

func ParseProgressReport(r *http.Request) ProgressReport {
	return ProgressReport{
		StudentName:    value(r, "student_name"),
		Grade:          value(r, "grade"),
		Subject:        value(r, "subject"),
		QuizScores:     scores(r, "quiz_scores"),
		TopicsCovered:  list(r, "topics_covered"),
		Strengths:      list(r, "strengths"),
		AreasToImprove: list(r, "areas_to_improve"),
	}
}

func (f ProgressReport) Request() model.ProgressReportRequest {
	return model.ProgressReportRequest{
		StudentName:    f.StudentName,
		Grade:          f.Grade,
		Subject:        f.Subject,
		QuizScores:     nonNil(f.QuizScores),
		TopicsCovered:  nonNil(f.TopicsCovered),
		Strengths:      nonNil(f.Strengths),
		AreasToImprove: nonNil(f.AreasToImprove),
	}
}

// nonNil makes empty lists encode as [] rather than null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
