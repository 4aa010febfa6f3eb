package views

import (
	"github.com/a-h/templ"

	"github.com/pavelanni/cbcassist/internal/model"
)

// HomePage offers the student/teacher role choice.
func HomePage() templ.Component {
	return Layout("", component(func(h *html) {
		h.raw(`<div class="mx-auto max-w-3xl text-center">`)
		h.raw(`<h1 class="mb-4 text-4xl font-bold text-gray-800">`)
		h.text(h.t("HomeWelcome"))
		h.raw(`</h1><p class="mb-10 text-lg text-gray-600">`)
		h.text(h.t("AppTagline"))
		h.raw(`</p><h2 class="mb-6 text-xl font-semibold text-gray-700">`)
		h.text(h.t("HomeChooseRole"))
		h.raw(`</h2><div class="grid gap-6 md:grid-cols-2">`)
		for _, ut := range model.UserTypes {
			h.rawf(`<form method="post" action="%s">`, h.path("/role"))
			h.csrfField()
			h.rawf(`<button type="submit" name="user_type" value="%s" class="w-full rounded-xl bg-white p-8 shadow transition hover:shadow-lg">`, ut.Value)
			h.rawf(`<div class="mb-3 text-5xl">%s</div><div class="text-2xl font-semibold text-gray-800">`, ut.Icon)
			h.text(h.t("Role_" + ut.Value))
			h.raw(`</div><p class="mt-2 text-gray-600">`)
			h.text(h.t("RoleDesc_" + ut.Value))
			h.raw(`</p></button></form>`)
		}
		h.raw(`</div></div>`)
	}))
}

// DashboardPage lists the feature cards of one role.
func DashboardPage(userType model.UserType) templ.Component {
	features := model.StudentFeatures
	if userType == model.UserTypeTeacher {
		features = model.TeacherFeatures
	}
	title := "DashboardTitle_" + string(userType)
	return Layout(title, component(func(h *html) {
		h.render(PageHeader("", h.t(title), h.t("DashboardSubtitle_"+string(userType)), ""))
		h.raw(`<div class="grid gap-6 sm:grid-cols-2 lg:grid-cols-3">`)
		for _, f := range features {
			h.rawf(`<a href="%s" class="feature-card block rounded-xl bg-white p-6 shadow transition hover:-translate-y-1 hover:shadow-lg">`, h.path(f.Path))
			h.rawf(`<div class="mb-3 text-4xl">%s</div><h3 class="text-lg font-semibold text-gray-800">`, f.Icon)
			h.text(h.t("Feature_" + f.ID))
			h.raw(`</h3><p class="mt-1 text-gray-600">`)
			h.text(h.t("FeatureDesc_" + f.ID))
			h.raw(`</p></a>`)
		}
		h.raw(`</div>`)
	}))
}
