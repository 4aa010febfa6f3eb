package handler

import (
	"net/http"

	"github.com/pavelanni/cbcassist/internal/api"
	"github.com/pavelanni/cbcassist/internal/form"
	"github.com/pavelanni/cbcassist/internal/handler/views"
	"github.com/pavelanni/cbcassist/internal/model"
)

func (h *Handler) handleLessonPlanPage(w http.ResponseWriter, r *http.Request) {
	v := views.LessonPlanView{Form: form.DefaultLessonPlan(), Recent: h.recent(r, model.DocLessonPlan)}
	h.render(w, r, views.LessonPlanPage(v))
}

func (h *Handler) handleLessonPlan(w http.ResponseWriter, r *http.Request) {
	v := views.LessonPlanView{Form: form.ParseLessonPlan(r), Recent: h.recent(r, model.DocLessonPlan)}
	if err := form.Validate(v.Form); err != nil {
		v.Status = views.Failed(validationMessage(err))
		h.fail(w, r, v.Status.Error, views.LessonPlanPage(v))
		return
	}
	res, err := h.api.LessonPlan(h.apiContext(r), v.Form.Request())
	if err != nil {
		v.Status = views.Failed(api.Message(err, msgLessonPlanFailed))
		h.fail(w, r, v.Status.Error, views.LessonPlanPage(v))
		return
	}
	v.Result, v.Status = res, views.Succeeded
	v.Document = h.saveDocument(r, lessonPlanDocument(res, h.now()))
	h.succeed(w, r, views.LessonPlanResult(res, v.Document), views.LessonPlanPage(v))
}

func (h *Handler) handleAssessmentPage(w http.ResponseWriter, r *http.Request) {
	v := views.AssessmentView{Form: form.DefaultAssessment(), Recent: h.recent(r, model.DocAssessment)}
	h.render(w, r, views.AssessmentPage(v))
}

func (h *Handler) handleAssessment(w http.ResponseWriter, r *http.Request) {
	v := views.AssessmentView{Form: form.ParseAssessment(r), Recent: h.recent(r, model.DocAssessment)}
	if err := form.Validate(v.Form); err != nil {
		v.Status = views.Failed(validationMessage(err))
		h.fail(w, r, v.Status.Error, views.AssessmentPage(v))
		return
	}
	res, err := h.api.Assessment(h.apiContext(r), v.Form.Request())
	if err != nil {
		v.Status = views.Failed(api.Message(err, msgAssessmentFailed))
		h.fail(w, r, v.Status.Error, views.AssessmentPage(v))
		return
	}
	v.Result, v.Status = res, views.Succeeded
	v.Document = h.saveDocument(r, assessmentDocument(res, h.now()))
	h.succeed(w, r, views.AssessmentResult(res, v.Document), views.AssessmentPage(v))
}

func (h *Handler) handleSchemeOfWorkPage(w http.ResponseWriter, r *http.Request) {
	v := views.SchemeOfWorkView{Form: form.DefaultSchemeOfWork(), Recent: h.recent(r, model.DocSchemeOfWork)}
	h.render(w, r, views.SchemeOfWorkPage(v))
}

func (h *Handler) handleSchemeOfWork(w http.ResponseWriter, r *http.Request) {
	v := views.SchemeOfWorkView{Form: form.ParseSchemeOfWork(r), Recent: h.recent(r, model.DocSchemeOfWork)}
	if err := form.Validate(v.Form); err != nil {
		v.Status = views.Failed(validationMessage(err))
		h.fail(w, r, v.Status.Error, views.SchemeOfWorkPage(v))
		return
	}
	res, err := h.api.SchemeOfWork(h.apiContext(r), v.Form.Request())
	if err != nil {
		v.Status = views.Failed(api.Message(err, msgSchemeFailed))
		h.fail(w, r, v.Status.Error, views.SchemeOfWorkPage(v))
		return
	}
	v.Result, v.Status = res, views.Succeeded
	v.Document = h.saveDocument(r, schemeOfWorkDocument(res, h.now()))
	h.succeed(w, r, views.SchemeOfWorkResult(res, v.Document), views.SchemeOfWorkPage(v))
}

func (h *Handler) handleProgressReportPage(w http.ResponseWriter, r *http.Request) {
	v := views.ProgressReportView{Recent: h.recent(r, model.DocProgressReport)}
	h.render(w, r, views.ProgressReportPage(v))
}

func (h *Handler) handleProgressReport(w http.ResponseWriter, r *http.Request) {
	v := views.ProgressReportView{Form: form.ParseProgressReport(r), Recent: h.recent(r, model.DocProgressReport)}
	if err := form.Validate(v.Form); err != nil {
		v.Status = views.Failed(validationMessage(err))
		h.fail(w, r, v.Status.Error, views.ProgressReportPage(v))
		return
	}
	res, err := h.api.ProgressReport(h.apiContext(r), v.Form.Request())
	if err != nil {
		v.Status = views.Failed(api.Message(err, msgProgressFailed))
		h.fail(w, r, v.Status.Error, views.ProgressReportPage(v))
		return
	}
	v.Result, v.Status = res, views.Succeeded
	v.Document = h.saveDocument(r, progressReportDocument(res, h.now()))
	h.succeed(w, r, views.ProgressReportResult(res, v.Document), views.ProgressReportPage(v))
}
