// Package prompts renders the system and user prompts sent to the model.
package prompts

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"text/template"
	"unicode/utf8"

	"github.com/pavelanni/cbcassist/internal/model"
)

// Name identifies a prompt template.
type Name string

const (
	Chat             Name = "chat"
	Quiz             Name = "quiz"
	Homework         Name = "homework"
	DailyTip         Name = "daily_tip"
	Solve            Name = "solve"
	Explore          Name = "explore"
	LessonPlan       Name = "lesson_plan"
	Assessment       Name = "assessment"
	SchemeOfWork     Name = "scheme_of_work"
	ProgressReport   Name = "progress_report"
	SimilarQuestions Name = "similar_questions"
	LearningPath     Name = "learning_path"
	Simplify         Name = "simplify"
	Visualize        Name = "visualize"
)

// All lists every prompt Load expects to find.
var All = []Name{
	Chat, Quiz, Homework, DailyTip, Solve, Explore,
	LessonPlan, Assessment, SchemeOfWork, ProgressReport,
	SimilarQuestions, LearningPath, Simplify, Visualize,
}

// MaxInputRunes bounds each piece of user text placed in a prompt.
const MaxInputRunes = 4000

//go:embed templates/*.tmpl
var Embedded embed.FS

var inputTagRegex = regexp.MustCompile(`(?i)</?\s*learner-input\b[^>]*>`)

var (
	loadOnce  sync.Once
	loadErr   error
	templates map[Name]*template.Template
)

// ClassData identifies a grade and subject. It feeds the daily tip prompt.
type ClassData struct {
	Grade   string
	Subject string
}

// TopicData feeds the explore prompt.
type TopicData struct {
	Topic   string
	Grade   string
	Subject string
}

// ProgressReportData adds the computed average to a progress report request.
type ProgressReportData struct {
	model.ProgressReportRequest
	AverageScore float64
}

// Prompt is a rendered prompt pair.
type Prompt struct {
	System string
	User   string
}

var funcs = template.FuncMap{
	"input":   input,
	"inputs":  inputs,
	"grade":   func(g string) string { return model.Label(model.Grades, g) },
	"subject": func(s string) string { return model.Label(model.Subjects, s) },
	"lang":    language,
	"scores":  scoreList,
}

// Load parses the templates found under templates/ in fsys. Only the
// first call has any effect.
func Load(fsys fs.FS) error {
	loadOnce.Do(func() {
		loaded := make(map[Name]*template.Template, len(All))
		for _, name := range All {
			file := "templates/" + string(name) + ".tmpl"
			content, err := fs.ReadFile(fsys, file)
			if err != nil {
				loadErr = fmt.Errorf("read prompt file %s: %w", file, err)
				return
			}
			tmpl, err := template.New(string(name)).Funcs(funcs).Parse(string(content))
			if err != nil {
				loadErr = fmt.Errorf("parse prompt template %s: %w", file, err)
				return
			}
			for _, part := range []string{"system", "user"} {
				if tmpl.Lookup(part) == nil {
					loadErr = fmt.Errorf("prompt template %s: missing %q block", file, part)
					return
				}
			}
			loaded[name] = tmpl
		}
		templates = loaded
	})
	return loadErr
}

// Build renders the named prompt with data.
func Build(name Name, data any) (Prompt, error) {
	if templates == nil {
		if loadErr != nil {
			return Prompt{}, fmt.Errorf("templates load failed: %w", loadErr)
		}
		return Prompt{}, errors.New("templates not initialized: call Load first")
	}
	tmpl, ok := templates[name]
	if !ok {
		return Prompt{}, fmt.Errorf("unknown prompt %q", name)
	}

	var p Prompt
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "system", data); err != nil {
		return Prompt{}, fmt.Errorf("render %s system prompt: %w", name, err)
	}
	p.System = strings.TrimSpace(buf.String())
	buf.Reset()
	if err := tmpl.ExecuteTemplate(&buf, "user", data); err != nil {
		return Prompt{}, fmt.Errorf("render %s user prompt: %w", name, err)
	}
	p.User = strings.TrimSpace(buf.String())
	return p, nil
}

// Sanitize strips prompt delimiter tags from user text and truncates it.
func Sanitize(s string) string {
	s = strings.TrimSpace(inputTagRegex.ReplaceAllString(s, ""))
	if utf8.RuneCountInString(s) > MaxInputRunes {
		s = string([]rune(s)[:MaxInputRunes]) + " [truncated]"
	}
	return s
}

func input(s string) string {
	return "<learner-input>" + Sanitize(s) + "</learner-input>"
}

func inputs(list []string) string {
	out := make([]string, len(list))
	for i, s := range list {
		out[i] = input(s)
	}
	return strings.Join(out, ", ")
}

func language(code string) string {
	if code == "sw" {
		return "Kiswahili"
	}
	return "English"
}

func scoreList(scores []float64) string {
	out := make([]string, len(scores))
	for i, s := range scores {
		out[i] = strconv.FormatFloat(s, 'f', -1, 64) + "%"
	}
	return strings.Join(out, ", ")
}
