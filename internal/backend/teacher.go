package backend

import (
	"net/http"
	"strconv"

	"github.com/pavelanni/cbcassist/internal/llm/prompts"
	"github.com/pavelanni/cbcassist/internal/model"
)

func (s *Server) handleLessonPlan(w http.ResponseWriter, r *http.Request) {
	var req model.LessonPlanRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.DurationMinutes == 0 {
		req.DurationMinutes = 40
	}
	if req.Language == "" {
		req.Language = "en"
	}
	if err := check(req); err != nil {
		writeError(w, r, err)
		return
	}
	content, err := s.text(r.Context(), prompts.LessonPlan, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, model.LessonPlanResponse{
		LessonPlan: model.LessonPlan{
			Subject:         req.Subject,
			Grade:           model.FlexString(req.Grade),
			Topic:           req.Topic,
			DurationMinutes: req.DurationMinutes,
			Content:         content,
		},
		CreatedAt: s.timestamp(),
	})
}

func (s *Server) handleAssessment(w http.ResponseWriter, r *http.Request) {
	var req model.AssessmentRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.NumQuestions == 0 {
		req.NumQuestions = 10
	}
	if req.AssessmentType == "" {
		req.AssessmentType = "mixed"
	}
	if err := check(req); err != nil {
		writeError(w, r, err)
		return
	}
	text, err := s.text(r.Context(), prompts.Assessment, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, model.AssessmentResponse{
		Subject:          req.Subject,
		Grade:            model.FlexString(req.Grade),
		Topics:           req.Topics,
		TotalQuestions:   req.NumQuestions,
		Type:             req.AssessmentType,
		HasMarkingScheme: req.IncludeMarkingScheme,
		Assessment:       text,
		GeneratedAt:      s.timestamp(),
	})
}

func (s *Server) handleSchemeOfWork(w http.ResponseWriter, r *http.Request) {
	var req model.SchemeOfWorkRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.Term == 0 {
		req.Term = 1
	}
	if req.NumWeeks == 0 {
		req.NumWeeks = 10
	}
	if err := check(req); err != nil {
		writeError(w, r, err)
		return
	}
	text, err := s.text(r.Context(), prompts.SchemeOfWork, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, model.SchemeOfWorkResponse{
		Subject:      req.Subject,
		Grade:        model.FlexString(req.Grade),
		Term:         model.FlexString(strconv.Itoa(req.Term)),
		Weeks:        req.NumWeeks,
		SchemeOfWork: text,
		GeneratedAt:  s.timestamp(),
	})
}

func (s *Server) handleProgressReport(w http.ResponseWriter, r *http.Request) {
	var req model.ProgressReportRequest
	if err := bind(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	data := prompts.ProgressReportData{ProgressReportRequest: req, AverageScore: average(req.QuizScores)}
	report, err := s.text(r.Context(), prompts.ProgressReport, data)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, model.ProgressReportResponse{
		Student:      req.StudentName,
		AverageScore: data.AverageScore,
		Report:       report,
	})
}

// average is the mean of scores, 0 for none.
func average(scores []float64) float64 {
	if len(scores) == 0 {
		return 0
	}
	var sum float64
	for _, s := range scores {
		sum += s
	}
	return sum / float64(len(scores))
}
