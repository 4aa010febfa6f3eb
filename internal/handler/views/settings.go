package views

import (
	"strconv"

	"github.com/a-h/templ"

	appI18n "github.com/pavelanni/cbcassist/internal/i18n"
	"github.com/pavelanni/cbcassist/internal/model"
)

// SettingsView is the settings page state.
type SettingsView struct {
	HasToken bool
	Notice   string
}

func SettingsPage(v SettingsView) templ.Component {
	return Layout("Settings", component(func(h *html) {
		h.render(PageHeader("⚙️", h.t("Settings"), "", ""))
		h.raw(`<div class="mx-auto max-w-2xl">`)
		if v.Notice != "" {
			h.render(Alert(AlertSuccess, v.Notice, true))
		}
		h.render(Card(h.t("APIToken"), component(func(h *html) {
			h.raw(`<p class="token-status mb-4 text-gray-600">`)
			if v.HasToken {
				h.text(h.t("TokenSet"))
			} else {
				h.text(h.t("TokenNotSet"))
			}
			h.raw(`</p>`)
			h.rawf(`<form method="post" action="%s">`, h.path("/settings/token"))
			h.csrfField()
			h.render(Input(InputProps{Label: h.t("APIToken"), Name: "token", Type: "password", Required: true}))
			h.render(Button(ButtonProps{}, h.t("SaveToken")))
			h.raw(`</form>`)
			if v.HasToken {
				h.rawf(`<form method="post" action="%s" class="mt-3">`, h.path("/settings/token/clear"))
				h.csrfField()
				h.render(Button(ButtonProps{Variant: "danger", Size: "sm"}, h.t("ClearToken")))
				h.raw(`</form>`)
			}
		})))
		h.render(Card(h.t("InterfaceLanguage"), component(func(h *html) {
			h.rawf(`<form method="post" action="%s" class="flex items-end gap-3">`, h.path("/lang"))
			h.csrfField()
			h.raw(`<div class="flex-1">`)
			h.render(Select(SelectProps{Name: "lang", Value: appI18n.Lang(h.ctx), Options: model.Languages}))
			h.raw(`</div><div class="mb-4">`)
			h.render(Button(ButtonProps{Variant: "outline"}, h.t("Save")))
			h.raw(`</div></form>`)
		})))
		h.raw(`</div>`)
	}))
}

// StatusView reports backend reachability.
type StatusView struct {
	APIURL      string
	Health      *model.HealthStatus
	HealthErr   string
	Subjects    *model.SubjectList
	SubjectsErr string
	Visitors    int
}

func StatusPage(v StatusView) templ.Component {
	return Layout("NavStatus", component(func(h *html) {
		h.render(PageHeader("📡", h.t("StatusTitle"), v.APIURL, ""))
		h.raw(`<div class="mx-auto grid max-w-3xl gap-6 md:grid-cols-2">`)
		h.render(Card(h.t("Health"), component(func(h *html) {
			if v.HealthErr != "" {
				h.render(Badge("danger", h.t("Unreachable")))
				h.raw(`<p class="mt-2 text-sm text-gray-600">`)
				h.text(v.HealthErr)
				h.raw(`</p>`)
				return
			}
			variant := "warning"
			if v.Health.Status == "healthy" || v.Health.Status == "ok" {
				variant = "success"
			}
			h.render(Badge(variant, v.Health.Status))
		})))
		h.render(Card(h.t("AvailableSubjects"), component(func(h *html) {
			if v.SubjectsErr != "" {
				h.render(Alert(AlertWarning, v.SubjectsErr, false))
				return
			}
			h.raw(`<ul class="subjects list-disc pl-5">`)
			for _, s := range v.Subjects.Subjects {
				h.raw(`<li>`)
				h.text(s.Label)
				h.raw(`</li>`)
			}
			h.raw(`</ul>`)
		})))
		h.raw(`</div>`)
		if v.Visitors >= 0 {
			h.raw(`<p class="mt-6 text-center text-sm text-gray-500">`)
			h.text(h.td("VisitorsN", map[string]any{"N": strconv.Itoa(v.Visitors)}))
			h.raw(`</p>`)
		}
	}))
}
