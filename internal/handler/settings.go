package handler

import (
	"net/http"

	"github.com/pavelanni/cbcassist/internal/handler/views"
	appI18n "github.com/pavelanni/cbcassist/internal/i18n"
	"github.com/pavelanni/cbcassist/internal/model"
)

func (h *Handler) handleSettings(w http.ResponseWriter, r *http.Request) {
	v := views.SettingsView{}
	if vis := model.VisitorFromContext(r.Context()); vis != nil {
		v.HasToken = vis.Token != ""
	}
	switch r.URL.Query().Get("notice") {
	case "saved":
		v.Notice = appI18n.T(r.Context(), "TokenSaved")
	case "cleared":
		v.Notice = appI18n.T(r.Context(), "TokenCleared")
	}
	h.render(w, r, views.SettingsPage(v))
}

// handleStatus checks backend reachability. Both calls are made so a
// failing health check still shows whether subjects load.
func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	ctx := h.apiContext(r)
	v := views.StatusView{APIURL: h.config.APIURL}
	var err error
	if v.Health, err = h.api.Health(ctx); err != nil {
		v.HealthErr = err.Error()
	}
	if v.Subjects, err = h.api.Subjects(ctx); err != nil {
		v.SubjectsErr = err.Error()
	}
	if v.Visitors, err = h.store.VisitorCount(); err != nil {
		v.Visitors = -1
	}
	h.render(w, r, views.StatusPage(v))
}
