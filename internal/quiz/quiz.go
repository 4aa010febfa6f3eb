// Package quiz holds the navigation and scoring rules of a practice quiz attempt.
package quiz

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/pavelanni/cbcassist/internal/model"
)

// ErrIncomplete is returned by Submit while some questions are unanswered.
var ErrIncomplete = errors.New("quiz: not every question has an answer")

// Step is the stage of the quiz page.
type Step string

const (
	StepConfig  Step = "config"
	StepQuiz    Step = "quiz"
	StepResults Step = "results"
)

// Attempt is one pass through a generated quiz.
type Attempt struct {
	Topic     string               `json:"topic"`
	Questions []model.QuizQuestion `json:"questions"`
	Current   int                  `json:"current"`
	Answers   map[string]string    `json:"answers"`
	Submitted bool                 `json:"submitted"`
}

// Result is the outcome for one question after submission.
type Result struct {
	Index    int
	Question model.QuizQuestion
	Answer   string
	Correct  bool
}

// New starts an attempt. Questions without an id, or with a duplicate id,
// get their 1-based position as id so answers never collide.
func New(topic string, questions []model.QuizQuestion) *Attempt {
	qs := make([]model.QuizQuestion, len(questions))
	seen := make(map[model.FlexString]bool, len(questions))
	for i, q := range questions {
		if q.ID == "" || seen[q.ID] {
			q.ID = model.FlexString(strconv.Itoa(i + 1))
		}
		seen[q.ID] = true
		qs[i] = q
	}
	return &Attempt{
		Topic:     topic,
		Questions: qs,
		Answers:   make(map[string]string),
	}
}

// Step reports which stage the attempt is in.
func (a *Attempt) Step() Step {
	switch {
	case a == nil || len(a.Questions) == 0:
		return StepConfig
	case a.Submitted:
		return StepResults
	default:
		return StepQuiz
	}
}

// Total is the number of questions.
func (a *Attempt) Total() int { return len(a.Questions) }

// CurrentQuestion returns the question under the cursor.
func (a *Attempt) CurrentQuestion() model.QuizQuestion {
	if len(a.Questions) == 0 {
		return model.QuizQuestion{}
	}
	return a.Questions[a.clamp(a.Current)]
}

// Select records letter as the answer for questionID. Unknown ids are ignored.
func (a *Attempt) Select(questionID, letter string) bool {
	if a.Submitted || letter == "" {
		return false
	}
	for _, q := range a.Questions {
		if string(q.ID) == questionID {
			if a.Answers == nil {
				a.Answers = make(map[string]string)
			}
			a.Answers[questionID] = letter
			return true
		}
	}
	return false
}

// Selected returns the stored answer for questionID.
func (a *Attempt) Selected(questionID string) string {
	return a.Answers[questionID]
}

// Next moves the cursor forward, stopping at the last question.
func (a *Attempt) Next() { a.Current = a.clamp(a.Current + 1) }

// Prev moves the cursor back, stopping at the first question.
func (a *Attempt) Prev() { a.Current = a.clamp(a.Current - 1) }

// IsFirst reports whether the cursor is on the first question.
func (a *Attempt) IsFirst() bool { return a.Current <= 0 }

// IsLast reports whether the cursor is on the last question.
func (a *Attempt) IsLast() bool { return a.Current >= len(a.Questions)-1 }

// AnsweredCount is the number of questions with a stored answer.
func (a *Attempt) AnsweredCount() int { return len(a.Answers) }

// CanSubmit reports whether every question has been answered.
func (a *Attempt) CanSubmit() bool {
	return len(a.Questions) > 0 && len(a.Answers) == len(a.Questions)
}

// Submit finishes the attempt.
func (a *Attempt) Submit() error {
	if !a.CanSubmit() {
		return ErrIncomplete
	}
	a.Submitted = true
	return nil
}

// CorrectCount counts answers equal to the question's answer key.
func (a *Attempt) CorrectCount() int {
	correct := 0
	for _, q := range a.Questions {
		if isCorrect(a.Answers[string(q.ID)], q.CorrectAnswer) {
			correct++
		}
	}
	return correct
}

// Score is the rounded percentage of correct answers.
func (a *Attempt) Score() int {
	if len(a.Questions) == 0 {
		return 0
	}
	return int(math.Round(100 * float64(a.CorrectCount()) / float64(len(a.Questions))))
}

// Progress is the percentage position of the cursor, counting the current question.
func (a *Attempt) Progress() int {
	if len(a.Questions) == 0 {
		return 0
	}
	return int(math.Round(100 * float64(a.clamp(a.Current)+1) / float64(len(a.Questions))))
}

// Results lists every question with the visitor's answer.
func (a *Attempt) Results() []Result {
	out := make([]Result, len(a.Questions))
	for i, q := range a.Questions {
		ans := a.Answers[string(q.ID)]
		out[i] = Result{
			Index:    i + 1,
			Question: q,
			Answer:   ans,
			Correct:  isCorrect(ans, q.CorrectAnswer),
		}
	}
	return out
}

func (a *Attempt) clamp(i int) int {
	if i < 0 || len(a.Questions) == 0 {
		return 0
	}
	if i > len(a.Questions)-1 {
		return len(a.Questions) - 1
	}
	return i
}

// OptionLetter returns the letter an option is selected by: its first character.
func OptionLetter(option string) string {
	option = strings.TrimSpace(option)
	if option == "" {
		return ""
	}
	r := []rune(option)
	return string(r[0])
}

func isCorrect(answer, key string) bool {
	return answer != "" && answer == strings.TrimSpace(key)
}
