package model

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// FlexString decodes from either a JSON string or a JSON number.
// Backends are inconsistent about grades and terms.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}

func (f FlexString) String() string { return string(f) }

// Int returns the numeric value, or 0 when it is not a number.
func (f FlexString) Int() int {
	n, _ := strconv.Atoi(string(f))
	return n
}

// HealthStatus is the GET /health response.
type HealthStatus struct {
	Status string `json:"status"`
}

// SubjectList is the GET /api/subjects response.
type SubjectList struct {
	Subjects []SubjectInfo `json:"subjects"`
}

// SubjectInfo describes one subject offered by the backend.
type SubjectInfo struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

func (s *SubjectList) UnmarshalJSON(data []byte) error {
	// Accept both {"subjects": [...]} and a bare array.
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		return json.Unmarshal(trimmed, &s.Subjects)
	}
	type alias SubjectList
	var a alias
	if err := json.Unmarshal(trimmed, &a); err != nil {
		return err
	}
	*s = SubjectList(a)
	return nil
}

func (s *SubjectInfo) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var name string
		if err := json.Unmarshal(trimmed, &name); err != nil {
			return err
		}
		s.Value, s.Label = name, name
		return nil
	}
	type alias SubjectInfo
	var a alias
	if err := json.Unmarshal(trimmed, &a); err != nil {
		return err
	}
	*s = SubjectInfo(a)
	return nil
}

// ChatRequest is the POST /api/chat body.
type ChatRequest struct {
	Message  string `json:"message" validate:"required"`
	Grade    string `json:"grade" validate:"required"`
	Subject  string `json:"subject" validate:"required"`
	Language string `json:"language"`
}

// ChatResponse is the POST /api/chat response.
type ChatResponse struct {
	Response string       `json:"response"`
	Sources  []ChatSource `json:"sources"`
}

// ChatSource is a curriculum reference cited by a chat answer.
type ChatSource struct {
	Title  string `json:"title,omitempty"`
	Source string `json:"source,omitempty"`
}

func (s *ChatSource) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		return json.Unmarshal(trimmed, &s.Source)
	}
	type alias ChatSource
	var a alias
	if err := json.Unmarshal(trimmed, &a); err != nil {
		return err
	}
	*s = ChatSource(a)
	return nil
}

// Name is the display name of the source: title when present, else source.
func (s ChatSource) Name() string {
	if s.Title != "" {
		return s.Title
	}
	return s.Source
}

// QuizRequest is the POST /api/quiz/generate body.
type QuizRequest struct {
	Topic        string `json:"topic" validate:"required"`
	Grade        string `json:"grade" validate:"required"`
	Subject      string `json:"subject" validate:"required"`
	NumQuestions int    `json:"num_questions" validate:"min=1,max=20"`
	Difficulty   string `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
}

// QuizResponse is the POST /api/quiz/generate response.
type QuizResponse struct {
	Quiz Quiz `json:"quiz"`
}

// Quiz is a generated set of multiple-choice questions.
type Quiz struct {
	Topic     string         `json:"topic,omitempty"`
	Questions []QuizQuestion `json:"questions"`
}

// QuizQuestion is one multiple-choice question. Options start with their letter
// ("A. ...") and CorrectAnswer holds that letter.
type QuizQuestion struct {
	ID            FlexString `json:"id"`
	Question      string     `json:"question"`
	Options       []string   `json:"options"`
	CorrectAnswer string     `json:"correct_answer"`
	Explanation   string     `json:"explanation,omitempty"`
}

// HomeworkRequest is the POST /api/homework-help body.
type HomeworkRequest struct {
	Question  string `json:"question" validate:"required,max=500"`
	Grade     string `json:"grade" validate:"required"`
	Subject   string `json:"subject" validate:"required"`
	HintLevel string `json:"hint_level" validate:"omitempty,oneof=light medium detailed"`
}

// HomeworkResponse is the POST /api/homework-help response.
type HomeworkResponse struct {
	Hint      string `json:"hint"`
	HintLevel string `json:"hint_level"`
	Reminder  string `json:"reminder"`
}

// DailyTip is the GET /api/daily-tip response.
type DailyTip struct {
	Date    string     `json:"date"`
	Tip     string     `json:"tip"`
	Grade   FlexString `json:"grade"`
	Subject string     `json:"subject"`
}

// SolveRequest is the POST /api/solve-problem body.
type SolveRequest struct {
	Problem string `json:"problem" validate:"required"`
	Grade   string `json:"grade" validate:"required"`
	Subject string `json:"subject" validate:"required"`
}

// SolveResponse is the POST /api/solve-problem response.
type SolveResponse struct {
	Problem  string     `json:"problem"`
	Solution string     `json:"solution"`
	Grade    FlexString `json:"grade"`
	Subject  string     `json:"subject"`
}

// Exploration is the GET /api/explore-topic/{topic} response.
type Exploration struct {
	Topic                string `json:"topic"`
	Exploration          string `json:"exploration"`
	HasCurriculumContent bool   `json:"has_curriculum_content"`
}

// LessonPlanRequest is the POST /api/teacher/lesson-plan body.
type LessonPlanRequest struct {
	Subject         string `json:"subject" validate:"required"`
	Grade           string `json:"grade" validate:"required"`
	Topic           string `json:"topic" validate:"required"`
	DurationMinutes int    `json:"duration_minutes" validate:"min=1"`
	Language        string `json:"language"`
}

// LessonPlanResponse is the POST /api/teacher/lesson-plan response.
type LessonPlanResponse struct {
	LessonPlan LessonPlan `json:"lesson_plan"`
	CreatedAt  string     `json:"created_at"`
}

// LessonPlan is the generated plan with the parameters it was built for.
type LessonPlan struct {
	Subject         string     `json:"subject"`
	Grade           FlexString `json:"grade"`
	Topic           string     `json:"topic"`
	DurationMinutes int        `json:"duration_minutes"`
	Content         string     `json:"content"`
}

// AssessmentRequest is the POST /api/teacher/assessment body.
type AssessmentRequest struct {
	Subject              string   `json:"subject" validate:"required"`
	Grade                string   `json:"grade" validate:"required"`
	Topics               []string `json:"topics" validate:"required,min=1,dive,required"`
	NumQuestions         int      `json:"num_questions" validate:"min=1"`
	IncludeMarkingScheme bool     `json:"include_marking_scheme"`
	AssessmentType       string   `json:"assessment_type" validate:"omitempty,oneof=mcq short_answer essay mixed"`
}

// AssessmentResponse is the POST /api/teacher/assessment response.
type AssessmentResponse struct {
	Subject          string     `json:"subject"`
	Grade            FlexString `json:"grade"`
	Topics           []string   `json:"topics"`
	TotalQuestions   int        `json:"total_questions"`
	Type             string     `json:"type"`
	HasMarkingScheme bool       `json:"has_marking_scheme"`
	Assessment       string     `json:"assessment"`
	GeneratedAt      string     `json:"generated_at"`
}

// SchemeOfWorkRequest is the POST /api/teacher/scheme-of-work body.
type SchemeOfWorkRequest struct {
	Subject  string `json:"subject" validate:"required"`
	Grade    string `json:"grade" validate:"required"`
	Term     int    `json:"term" validate:"min=1,max=3"`
	NumWeeks int    `json:"num_weeks" validate:"min=1"`
}

// SchemeOfWorkResponse is the POST /api/teacher/scheme-of-work response.
type SchemeOfWorkResponse struct {
	Subject      string     `json:"subject"`
	Grade        FlexString `json:"grade"`
	Term         FlexString `json:"term"`
	Weeks        int        `json:"weeks"`
	SchemeOfWork string     `json:"scheme_of_work"`
	GeneratedAt  string     `json:"generated_at"`
}

// ProgressReportRequest is the POST /api/teacher/progress-report body.
type ProgressReportRequest struct {
	StudentName    string    `json:"student_name" validate:"required"`
	Grade          string    `json:"grade" validate:"required"`
	Subject        string    `json:"subject" validate:"required"`
	QuizScores     []float64 `json:"quiz_scores"`
	TopicsCovered  []string  `json:"topics_covered"`
	Strengths      []string  `json:"strengths"`
	AreasToImprove []string  `json:"areas_to_improve"`
}

// ProgressReportResponse is the POST /api/teacher/progress-report response.
type ProgressReportResponse struct {
	Student      string  `json:"student"`
	AverageScore float64 `json:"average_score"`
	Report       string  `json:"report"`
}

// SimilarQuestionsRequest is the POST /api/similar-questions body.
type SimilarQuestionsRequest struct {
	Question string `json:"question" validate:"required"`
	Grade    string `json:"grade" validate:"required"`
	Subject  string `json:"subject" validate:"required"`
	Count    int    `json:"count" validate:"min=0,max=10"`
}

// SimilarQuestionsResponse is the POST /api/similar-questions response.
type SimilarQuestionsResponse struct {
	Questions []string `json:"questions"`
}

// LearningPathRequest is the POST /api/learning-path body.
type LearningPathRequest struct {
	Subject      string `json:"subject" validate:"required"`
	Grade        string `json:"grade" validate:"required"`
	MasteryLevel string `json:"mastery_level" validate:"omitempty,oneof=beginner intermediate advanced"`
	Goal         string `json:"goal"`
}

// LearningPathResponse is the POST /api/learning-path response.
type LearningPathResponse struct {
	Path         string `json:"path"`
	MasteryLevel string `json:"mastery_level"`
}

// SimplifyRequest is the POST /api/simplify body.
type SimplifyRequest struct {
	Text         string `json:"text" validate:"required"`
	Grade        string `json:"grade"`
	ReadingLevel string `json:"reading_level" validate:"omitempty,oneof=easy medium advanced"`
}

// SimplifyResponse is the POST /api/simplify response.
type SimplifyResponse struct {
	Original     string `json:"original"`
	Simplified   string `json:"simplified"`
	ReadingLevel string `json:"reading_level"`
}

// VisualizeRequest is the POST /api/visualize-concept body.
type VisualizeRequest struct {
	Concept string `json:"concept" validate:"required"`
	Grade   string `json:"grade" validate:"required"`
	Subject string `json:"subject" validate:"required"`
}

// VisualizeResponse is the POST /api/visualize-concept response.
type VisualizeResponse struct {
	Concept       string `json:"concept"`
	Visualization string `json:"visualization"`
}
