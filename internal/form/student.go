package form

import (
	"net/http"

	"github.com/pavelanni/cbcassist/internal/model"
)

// Chat is the chat configuration plus the message being sent.
type Chat struct {
	Message  string `validate:"required"`
	Grade    string `validate:"required"`
	Subject  string `validate:"required"`
	Language string
}

func (Chat) message() string { return MsgChat }

// ParseChat reads the chat form.
func ParseChat(r *http.Request) Chat {
	return Chat{
		Message:  value(r, "message"),
		Grade:    value(r, "grade"),
		Subject:  value(r, "subject"),
		Language: valueOr(r, "language", "en"),
	}
}

// Request builds the API request.
func (f Chat) Request() model.ChatRequest {
	return model.ChatRequest{Message: f.Message, Grade: f.Grade, Subject: f.Subject, Language: f.Language}
}

// Quiz is the quiz configuration form.
type Quiz struct {
	Topic        string `validate:"required"`
	Grade        string `validate:"required"`
	Subject      string `validate:"required"`
	NumQuestions int
	Difficulty   string
}

func (Quiz) message() string { return MsgRequired }

// ParseQuiz reads the quiz configuration form.
func ParseQuiz(r *http.Request) Quiz {
	return Quiz{
		Topic:        value(r, "topic"),
		Grade:        value(r, "grade"),
		Subject:      value(r, "subject"),
		NumQuestions: intInRange(r, "num_questions", 3, 10, 5),
		Difficulty:   oneOf(value(r, "difficulty"), model.DifficultyLevels, "medium"),
	}
}

// DefaultQuiz is the empty configuration shown first.
func DefaultQuiz() Quiz {
	return Quiz{NumQuestions: 5, Difficulty: "medium"}
}

func (f Quiz) Request() model.QuizRequest {
	return model.QuizRequest{
		Topic: f.Topic, Grade: f.Grade, Subject: f.Subject,
		NumQuestions: f.NumQuestions, Difficulty: f.Difficulty,
	}
}

// Homework is the homework help form.
type Homework struct {
	Question  string `validate:"required,max=500"`
	Grade     string `validate:"required"`
	Subject   string `validate:"required"`
	HintLevel string
}

func (Homework) message() string { return MsgRequired }

// ParseHomework reads the homework form. The question is cut to HomeworkMaxLen runes.
func ParseHomework(r *http.Request) Homework {
	q := []rune(value(r, "question"))
	if len(q) > HomeworkMaxLen {
		q = q[:HomeworkMaxLen]
	}
	return Homework{
		Question:  string(q),
		Grade:     value(r, "grade"),
		Subject:   value(r, "subject"),
		HintLevel: oneOf(value(r, "hint_level"), model.HintLevels, "medium"),
	}
}

func (f Homework) Request() model.HomeworkRequest {
	return model.HomeworkRequest{Question: f.Question, Grade: f.Grade, Subject: f.Subject, HintLevel: f.HintLevel}
}

// DailyTip selects the tip's grade and subject.
type DailyTip struct {
	Grade   string `validate:"required"`
	Subject string `validate:"required"`
}

func (DailyTip) message() string { return MsgDailyTip }

// ParseDailyTip reads grade and subject from the query string or form.
func ParseDailyTip(r *http.Request) DailyTip {
	return DailyTip{Grade: value(r, "grade"), Subject: value(r, "subject")}
}

// Solve is the step-by-step solver form.
type Solve struct {
	Problem string `validate:"required"`
	Grade   string `validate:"required"`
	Subject string `validate:"required"`
}

func (Solve) message() string { return MsgRequired }

func ParseSolve(r *http.Request) Solve {
	return Solve{Problem: value(r, "problem"), Grade: value(r, "grade"), Subject: value(r, "subject")}
}

func (f Solve) Request() model.SolveRequest {
	return model.SolveRequest{Problem: f.Problem, Grade: f.Grade, Subject: f.Subject}
}

// Explore is the topic exploration form.
type Explore struct {
	Topic   string `validate:"required"`
	Grade   string `validate:"required"`
	Subject string `validate:"required"`
}

func (Explore) message() string { return MsgRequired }

func ParseExplore(r *http.Request) Explore {
	return Explore{Topic: value(r, "topic"), Grade: value(r, "grade"), Subject: value(r, "subject")}
}

// oneOf returns v when it is a value of opts, else def.
func oneOf(v string, opts []model.Option, def string) string {
	if model.HasValue(opts, v) {
		return v
	}
	return def
}
