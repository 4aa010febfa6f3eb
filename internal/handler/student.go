package handler

import (
	"log/slog"
	"net/http"

	"github.com/pavelanni/cbcassist/internal/api"
	"github.com/pavelanni/cbcassist/internal/form"
	"github.com/pavelanni/cbcassist/internal/handler/views"
	"github.com/pavelanni/cbcassist/internal/model"
)

func (h *Handler) chatView(r *http.Request, f form.Chat) views.ChatView {
	msgs, err := h.store.ListChatMessages(visitorID(r))
	if err != nil {
		slog.Error("failed to list chat messages", "error", err)
	}
	return views.ChatView{Form: f, Messages: msgs}
}

func (h *Handler) handleChatPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, views.ChatPage(h.chatView(r, form.Chat{Language: "en"})))
}

// handleChatSend appends the user's message, asks the API and appends the
// answer. A failed call removes the user's message again.
func (h *Handler) handleChatSend(w http.ResponseWriter, r *http.Request) {
	f := form.ParseChat(r)
	if err := form.Validate(f); err != nil {
		v := h.chatView(r, f)
		v.Status = views.Failed(validationMessage(err))
		h.renderChat(w, r, v)
		return
	}

	id := visitorID(r)
	userMsgID, err := h.store.AddChatMessage(model.ChatMessage{VisitorID: id, Role: model.ChatRoleUser, Content: f.Message})
	if err != nil {
		slog.Error("failed to store chat message", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	res, err := h.api.Chat(h.apiContext(r), f.Request())
	if err != nil {
		slog.Warn("chat request failed", "visitor", id, "error", err)
		if derr := h.store.DeleteChatMessage(id, userMsgID); derr != nil {
			slog.Error("failed to roll back chat message", "error", derr)
		}
		v := h.chatView(r, f)
		v.Status = views.Failed(api.Message(err, msgChatFailed))
		h.renderChat(w, r, v)
		return
	}

	if _, err := h.store.AddChatMessage(model.ChatMessage{
		VisitorID: id,
		Role:      model.ChatRoleAssistant,
		Content:   res.Response,
		Sources:   res.Sources,
	}); err != nil {
		slog.Error("failed to store chat answer", "error", err)
	}

	f.Message = ""
	v := h.chatView(r, f)
	v.Status = views.Succeeded
	h.renderChat(w, r, v)
}

func (h *Handler) handleChatClear(w http.ResponseWriter, r *http.Request) {
	if err := h.store.ClearChat(visitorID(r)); err != nil {
		slog.Error("failed to clear chat", "error", err)
	}
	h.renderChat(w, r, h.chatView(r, form.ParseChat(r)))
}

func (h *Handler) renderChat(w http.ResponseWriter, r *http.Request, v views.ChatView) {
	if isHTMX(r) {
		h.render(w, r, views.ChatPanel(v))
		return
	}
	h.render(w, r, views.ChatPage(v))
}

func (h *Handler) handleHomeworkPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, views.HomeworkPage(views.HomeworkView{Form: form.Homework{HintLevel: "medium"}}))
}

func (h *Handler) handleHomework(w http.ResponseWriter, r *http.Request) {
	v := views.HomeworkView{Form: form.ParseHomework(r)}
	if err := form.Validate(v.Form); err != nil {
		v.Status = views.Failed(validationMessage(err))
		h.fail(w, r, v.Status.Error, views.HomeworkPage(v))
		return
	}
	res, err := h.api.HomeworkHelp(h.apiContext(r), v.Form.Request())
	if err != nil {
		v.Status = views.Failed(api.Message(err, msgHomeworkFailed))
		h.fail(w, r, v.Status.Error, views.HomeworkPage(v))
		return
	}
	v.Result, v.Status = res, views.Succeeded
	h.succeed(w, r, views.HomeworkResult(res), views.HomeworkPage(v))
}

func (h *Handler) handleSolvePage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, views.SolvePage(views.SolveView{}))
}

func (h *Handler) handleSolve(w http.ResponseWriter, r *http.Request) {
	v := views.SolveView{Form: form.ParseSolve(r)}
	if err := form.Validate(v.Form); err != nil {
		v.Status = views.Failed(validationMessage(err))
		h.fail(w, r, v.Status.Error, views.SolvePage(v))
		return
	}
	res, err := h.api.SolveProblem(h.apiContext(r), v.Form.Request())
	if err != nil {
		v.Status = views.Failed(api.Message(err, msgSolveFailed))
		h.fail(w, r, v.Status.Error, views.SolvePage(v))
		return
	}
	v.Result, v.Status = res, views.Succeeded
	h.succeed(w, r, views.SolveResult(res), views.SolvePage(v))
}

// handleExplorePage prefills topic and subject from popular topic links.
func (h *Handler) handleExplorePage(w http.ResponseWriter, r *http.Request) {
	f := form.ParseExplore(r)
	f.Grade = ""
	h.render(w, r, views.ExplorePage(views.ExploreView{Form: f}))
}

func (h *Handler) handleExplore(w http.ResponseWriter, r *http.Request) {
	v := views.ExploreView{Form: form.ParseExplore(r)}
	if err := form.Validate(v.Form); err != nil {
		v.Status = views.Failed(validationMessage(err))
		h.fail(w, r, v.Status.Error, views.ExplorePage(v))
		return
	}
	res, err := h.api.ExploreTopic(h.apiContext(r), v.Form.Topic, v.Form.Grade, v.Form.Subject)
	if err != nil {
		v.Status = views.Failed(api.Message(err, msgExploreFailed))
		h.fail(w, r, v.Status.Error, views.ExplorePage(v))
		return
	}
	v.Result, v.Status = res, views.Succeeded
	h.succeed(w, r, views.ExploreResult(res), views.ExplorePage(v))
}

// handleDailyTip fetches the tip once both grade and subject are chosen.
// Changing either selector re-requests this page through htmx.
func (h *Handler) handleDailyTip(w http.ResponseWriter, r *http.Request) {
	v := views.DailyTipView{Form: form.ParseDailyTip(r)}
	if err := form.Validate(v.Form); err != nil {
		// htmx only shows the selection hint; a plain submit with one
		// selector set reports the error.
		if !isHTMX(r) && (v.Form.Grade != "" || v.Form.Subject != "") {
			v.Status = views.Failed(validationMessage(err))
		}
		h.renderDailyTip(w, r, v)
		return
	}

	tip, err := h.api.DailyTip(h.apiContext(r), v.Form.Grade, v.Form.Subject)
	if err != nil {
		v.Status = views.Failed(api.Message(err, msgDailyTipFailed))
		h.fail(w, r, v.Status.Error, views.DailyTipPage(v))
		return
	}
	v.Tip, v.FetchedAt, v.Status = tip, h.now(), views.Succeeded
	h.renderDailyTip(w, r, v)
}

func (h *Handler) renderDailyTip(w http.ResponseWriter, r *http.Request, v views.DailyTipView) {
	h.succeed(w, r, views.DailyTipResult(v), views.DailyTipPage(v))
}
