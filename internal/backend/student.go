package backend

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pavelanni/cbcassist/internal/llm/prompts"
	"github.com/pavelanni/cbcassist/internal/model"
)

var optionLetters = []string{"A", "B", "C", "D"}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req model.ChatRequest
	if err := bind(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.Language == "" {
		req.Language = "en"
	}

	var out struct {
		Response string   `json:"response"`
		Sources  []string `json:"sources"`
	}
	if err := s.structured(r.Context(), prompts.Chat, req, chatSchema, &out); err != nil {
		writeError(w, r, err)
		return
	}
	resp := model.ChatResponse{Response: out.Response, Sources: []model.ChatSource{}}
	for _, src := range out.Sources {
		if src = strings.TrimSpace(src); src != "" {
			resp.Sources = append(resp.Sources, model.ChatSource{Source: src})
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleQuiz(w http.ResponseWriter, r *http.Request) {
	var req model.QuizRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.NumQuestions == 0 {
		req.NumQuestions = 5
	}
	if req.Difficulty == "" {
		req.Difficulty = "medium"
	}
	if err := check(req); err != nil {
		writeError(w, r, err)
		return
	}

	var quiz model.Quiz
	if err := s.structured(r.Context(), prompts.Quiz, req, quizSchema, &quiz); err != nil {
		writeError(w, r, err)
		return
	}
	quiz.Topic = req.Topic
	seen := make(map[model.FlexString]bool, len(quiz.Questions))
	for i := range quiz.Questions {
		q := &quiz.Questions[i]
		if q.ID == "" || q.ID == "0" || seen[q.ID] {
			q.ID = model.FlexString(uuid.NewString())
		}
		seen[q.ID] = true
		q.CorrectAnswer = strings.ToUpper(strings.TrimSpace(q.CorrectAnswer))
		for j := range q.Options {
			q.Options[j] = letterOption(optionLetters[j%len(optionLetters)], q.Options[j])
		}
	}
	writeJSON(w, http.StatusOK, model.QuizResponse{Quiz: quiz})
}

// letterOption makes sure option text starts with "<letter>. ".
func letterOption(letter, option string) string {
	option = strings.TrimSpace(option)
	if rest, ok := strings.CutPrefix(option, letter); ok {
		if rest == "" || strings.ContainsRune(".):", rune(rest[0])) {
			return option
		}
	}
	return letter + ". " + option
}

func (s *Server) handleHomework(w http.ResponseWriter, r *http.Request) {
	var req model.HomeworkRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.HintLevel == "" {
		req.HintLevel = "light"
	}
	if err := check(req); err != nil {
		writeError(w, r, err)
		return
	}

	var out model.HomeworkResponse
	if err := s.structured(r.Context(), prompts.Homework, req, homeworkSchema, &out); err != nil {
		writeError(w, r, err)
		return
	}
	out.HintLevel = req.HintLevel
	writeJSON(w, http.StatusOK, out)
}

type dailyTipQuery struct {
	Grade   string `json:"grade" validate:"required"`
	Subject string `json:"subject" validate:"required"`
}

func (s *Server) handleDailyTip(w http.ResponseWriter, r *http.Request) {
	q := dailyTipQuery{
		Grade:   strings.TrimSpace(r.URL.Query().Get("grade")),
		Subject: strings.TrimSpace(r.URL.Query().Get("subject")),
	}
	if err := check(q); err != nil {
		writeError(w, r, err)
		return
	}

	date := s.now().Format(dateLayout)
	tip, err := s.tips.GetDailyTip(date, q.Grade, q.Subject)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if tip == "" {
		generated, err := s.text(r.Context(), prompts.DailyTip, prompts.ClassData(q))
		if err != nil {
			writeError(w, r, err)
			return
		}
		if tip, err = s.tips.SaveDailyTip(date, q.Grade, q.Subject, generated); err != nil {
			writeError(w, r, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, model.DailyTip{
		Date:    date,
		Tip:     tip,
		Grade:   model.FlexString(q.Grade),
		Subject: q.Subject,
	})
}

func (s *Server) handleSolve(w http.ResponseWriter, r *http.Request) {
	var req model.SolveRequest
	if err := bind(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	solution, err := s.text(r.Context(), prompts.Solve, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, model.SolveResponse{
		Problem:  req.Problem,
		Solution: solution,
		Grade:    model.FlexString(req.Grade),
		Subject:  req.Subject,
	})
}

type exploreQuery struct {
	Topic   string `json:"topic" validate:"required"`
	Grade   string `json:"grade"`
	Subject string `json:"subject"`
}

func (s *Server) handleExplore(w http.ResponseWriter, r *http.Request) {
	topic := chi.URLParam(r, "topic")
	// chi matches on the raw path when the topic holds escaped slashes.
	if r.URL.RawPath != "" {
		unescaped, err := url.PathUnescape(topic)
		if err != nil {
			writeError(w, r, badRequest("Invalid topic"))
			return
		}
		topic = unescaped
	}
	q := exploreQuery{
		Topic:   strings.TrimSpace(topic),
		Grade:   strings.TrimSpace(r.URL.Query().Get("grade")),
		Subject: strings.TrimSpace(r.URL.Query().Get("subject")),
	}
	if err := check(q); err != nil {
		writeError(w, r, err)
		return
	}
	text, err := s.text(r.Context(), prompts.Explore, prompts.TopicData(q))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, model.Exploration{
		Topic:                q.Topic,
		Exploration:          text,
		HasCurriculumContent: model.HasValue(model.Subjects, q.Subject),
	})
}

func (s *Server) handleSimilarQuestions(w http.ResponseWriter, r *http.Request) {
	var req model.SimilarQuestionsRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.Count == 0 {
		req.Count = 3
	}
	if err := check(req); err != nil {
		writeError(w, r, err)
		return
	}
	var out model.SimilarQuestionsResponse
	if err := s.structured(r.Context(), prompts.SimilarQuestions, req, similarQuestionsSchema, &out); err != nil {
		writeError(w, r, err)
		return
	}
	if len(out.Questions) > req.Count {
		out.Questions = out.Questions[:req.Count]
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleLearningPath(w http.ResponseWriter, r *http.Request) {
	var req model.LearningPathRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.MasteryLevel == "" {
		req.MasteryLevel = "beginner"
	}
	if err := check(req); err != nil {
		writeError(w, r, err)
		return
	}
	path, err := s.text(r.Context(), prompts.LearningPath, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, model.LearningPathResponse{Path: path, MasteryLevel: req.MasteryLevel})
}

func (s *Server) handleSimplify(w http.ResponseWriter, r *http.Request) {
	var req model.SimplifyRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.ReadingLevel == "" {
		req.ReadingLevel = "easy"
	}
	if err := check(req); err != nil {
		writeError(w, r, err)
		return
	}
	simplified, err := s.text(r.Context(), prompts.Simplify, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, model.SimplifyResponse{
		Original:     req.Text,
		Simplified:   simplified,
		ReadingLevel: req.ReadingLevel,
	})
}

func (s *Server) handleVisualize(w http.ResponseWriter, r *http.Request) {
	var req model.VisualizeRequest
	if err := bind(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	text, err := s.text(r.Context(), prompts.Visualize, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, model.VisualizeResponse{Concept: req.Concept, Visualization: text})
}
