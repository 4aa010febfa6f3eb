package views

import (
	"github.com/a-h/templ"

	appI18n "github.com/pavelanni/cbcassist/internal/i18n"
	"github.com/pavelanni/cbcassist/internal/model"
)

const readyScript = `<script>
document.addEventListener("input", function (e) {
  var f = e.target.form;
  if (!f || !f.hasAttribute("data-ready-check") || f.classList.contains("htmx-request")) return;
  f.querySelectorAll("[data-ready]").forEach(function (b) { b.disabled = !f.checkValidity(); });
});
document.addEventListener("change", function (e) {
  var f = e.target.form;
  if (!f || !f.hasAttribute("data-ready-check")) return;
  f.querySelectorAll("[data-ready]").forEach(function (b) { b.disabled = !f.checkValidity(); });
});
</script>`

// Layout wraps a page body with the persistent header and footer. titleID is
// the message id of the page title; empty shows the app title only.
func Layout(titleID string, body templ.Component) templ.Component {
	return component(func(h *html) {
		h.rawf(`<!DOCTYPE html><html lang="%s"><head><meta charset="utf-8">`, appI18n.Lang(h.ctx))
		h.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.raw(`<title>`)
		if titleID != "" {
			h.text(h.t(titleID) + " · ")
		}
		h.text(h.t("AppTitle"))
		h.raw(`</title>`)
		h.raw(`<script src="https://cdn.tailwindcss.com"></script>`)
		h.raw(`<script src="https://unpkg.com/htmx.org@1.9.12"></script>`)
		h.raw(`<style>.htmx-indicator{display:none}.htmx-request .htmx-indicator,.htmx-request.htmx-indicator{display:flex}</style>`)
		h.raw(`</head>`)
		h.rawf(`<body class="flex min-h-screen flex-col bg-gradient-to-br from-indigo-50 to-blue-50" hx-headers='{"X-CSRF-Token": "%s"}'>`, model.CSRFTokenFromContext(h.ctx))
		h.render(Navbar())
		h.raw(`<main class="container mx-auto flex-1 px-4 py-8">`)
		h.render(body)
		h.raw(`</main>`)
		h.render(Footer())
		h.raw(readyScript)
		h.raw(`</body></html>`)
	})
}

// Navbar shows the brand, the dashboard link for the chosen role and logout.
func Navbar() templ.Component {
	return component(func(h *html) {
		var userType model.UserType
		if v := model.VisitorFromContext(h.ctx); v != nil {
			userType = v.UserType
		}
		h.raw(`<nav class="bg-white shadow"><div class="container mx-auto flex items-center justify-between px-4 py-3">`)
		h.rawf(`<a href="%s" class="flex items-center gap-2 text-xl font-bold text-indigo-700"><span>🎓</span>`, h.path("/"))
		h.text(h.t("AppTitle"))
		h.raw(`</a><div class="flex items-center gap-4 text-gray-700">`)
		if userType.Valid() {
			navLink(h, "/"+string(userType)+"/dashboard", h.t("NavDashboard"))
		}
		navLink(h, "/settings", h.t("NavSettings"))
		navLink(h, "/status", h.t("NavStatus"))
		if userType.Valid() {
			h.rawf(`<form method="post" action="%s" class="inline">`, h.path("/logout"))
			h.csrfField()
			h.render(Button(ButtonProps{Variant: "outline", Size: "sm"}, h.t("Logout")))
			h.raw(`</form>`)
		}
		h.raw(`</div></div></nav>`)
	})
}

// navLink highlights the link of the current page.
func navLink(h *html, p, label string) {
	class := "hover:text-indigo-600"
	if model.PathFromContext(h.ctx) == p {
		class = "font-semibold text-indigo-700"
	}
	h.rawf(`<a href="%s" class="%s">`, h.path(p), class)
	h.text(label)
	h.raw(`</a>`)
}

// Footer is the persistent page footer.
func Footer() templ.Component {
	return component(func(h *html) {
		h.raw(`<footer class="border-t bg-white py-4 text-center text-sm text-gray-500">`)
		h.text(h.t("FooterText"))
		h.raw(`</footer>`)
	})
}

// PageHeader renders a page heading with a back link.
func PageHeader(icon, title, subtitle, back string) templ.Component {
	return component(func(h *html) {
		h.raw(`<div class="mb-6">`)
		if back != "" {
			h.rawf(`<a href="%s" class="text-sm text-indigo-600 hover:underline">← `, h.path(back))
			h.text(h.t("Back"))
			h.raw(`</a>`)
		}
		h.raw(`<h1 class="mt-2 text-3xl font-bold text-gray-800">`)
		if icon != "" {
			h.text(icon + " ")
		}
		h.text(title)
		h.raw(`</h1>`)
		if subtitle != "" {
			h.raw(`<p class="mt-1 text-gray-600">`)
			h.text(subtitle)
			h.raw(`</p>`)
		}
		h.raw(`</div>`)
	})
}

// AlertArea is the swap target for request errors. An htmx error response
// replaces only this element, leaving the previous result untouched.
func AlertArea(msg string) templ.Component {
	return component(func(h *html) {
		h.raw(`<div id="alert-area">`)
		h.render(Alert(AlertError, msg, true))
		h.raw(`</div>`)
	})
}

// ClearAlertOOB empties the alert area out of band after a successful request.
func ClearAlertOOB() templ.Component {
	return component(func(h *html) {
		h.raw(`<div id="alert-area" hx-swap-oob="true"></div>`)
	})
}

// formOpen starts an htmx-enhanced form that posts to action and swaps the
// response into #result. Plain posts still work without JavaScript.
func formOpen(h *html, method, action string) {
	verb := "hx-post"
	if method == "get" {
		verb = "hx-get"
	}
	h.rawf(`<form method="%s" action="%s" %s="%s" hx-target="#result" hx-swap="innerHTML" hx-indicator="#loading" hx-disabled-elt="find button[type=submit]" data-ready-check>`,
		method, h.path(action), verb, h.path(action))
	if method != "get" {
		h.csrfField()
	}
}

// submitButton is the form's primary action, disabled until ready.
func submitButton(label string, ready bool) templ.Component {
	return Button(ButtonProps{
		FullWidth: true,
		Disabled:  !ready,
		Attrs:     templ.Attributes{"data-ready": true},
	}, label)
}

// resultArea renders the loading indicator and the result container.
func resultArea(h *html, loadingText string, result templ.Component) {
	h.render(Loading("loading", loadingText))
	h.raw(`<div id="result">`)
	h.render(result)
	h.raw(`</div>`)
}
