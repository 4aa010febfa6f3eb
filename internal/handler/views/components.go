package views

import (
	"strconv"

	"github.com/a-h/templ"

	"github.com/pavelanni/cbcassist/internal/model"
)

// ButtonProps configures Button.
type ButtonProps struct {
	Type      string // submit (default), button
	Variant   string // primary (default), secondary, outline, danger
	Size      string // sm, md (default), lg
	Disabled  bool
	FullWidth bool
	Name      string
	Value     string
	Attrs     templ.Attributes
}

var buttonVariants = map[string]string{
	"primary":   "bg-indigo-600 text-white hover:bg-indigo-700",
	"secondary": "bg-gray-200 text-gray-800 hover:bg-gray-300",
	"outline":   "border border-indigo-600 text-indigo-600 hover:bg-indigo-50",
	"danger":    "bg-red-600 text-white hover:bg-red-700",
}

var buttonSizes = map[string]string{
	"sm": "px-3 py-1.5 text-sm",
	"md": "px-4 py-2",
	"lg": "px-6 py-3 text-lg",
}

// Button renders a button element.
func Button(p ButtonProps, label string) templ.Component {
	return component(func(h *html) {
		typ := p.Type
		if typ == "" {
			typ = "submit"
		}
		variant, ok := buttonVariants[p.Variant]
		if !ok {
			variant = buttonVariants["primary"]
		}
		size, ok := buttonSizes[p.Size]
		if !ok {
			size = buttonSizes["md"]
		}
		class := "btn rounded-lg font-medium transition disabled:opacity-50 disabled:cursor-not-allowed " + variant + " " + size
		if p.FullWidth {
			class += " w-full"
		}
		h.rawf(`<button type="%s" class="%s"`, typ, class)
		if p.Name != "" {
			h.rawf(` name="%s" value="%s"`, p.Name, p.Value)
		}
		h.raw(string(boolAttr("disabled", p.Disabled)))
		h.raw(attrs(p.Attrs))
		h.raw(">")
		h.text(label)
		h.raw("</button>")
	})
}

// LinkButton renders an anchor styled as a button.
func LinkButton(href, variant, label string) templ.Component {
	return component(func(h *html) {
		v, ok := buttonVariants[variant]
		if !ok {
			v = buttonVariants["primary"]
		}
		h.rawf(`<a href="%s" class="inline-block rounded-lg font-medium px-4 py-2 %s">`, href, v)
		h.text(label)
		h.raw("</a>")
	})
}

// InputProps configures Input.
type InputProps struct {
	Label       string
	Name        string
	Type        string
	Value       string
	Placeholder string
	Required    bool
	Min, Max    string
	MaxLength   int
	Error       string
	Attrs       templ.Attributes
}

// Input renders a labelled input field.
func Input(p InputProps) templ.Component {
	return component(func(h *html) {
		typ := p.Type
		if typ == "" {
			typ = "text"
		}
		h.raw(`<div class="mb-4">`)
		fieldLabel(h, p.Label, p.Name, p.Required)
		h.rawf(`<input id="%s" name="%s" type="%s" value="%s" class="w-full rounded-lg border border-gray-300 px-3 py-2 focus:border-indigo-500 focus:outline-none"`,
			p.Name, p.Name, typ, p.Value)
		if p.Placeholder != "" {
			h.rawf(` placeholder="%s"`, p.Placeholder)
		}
		if p.Min != "" {
			h.rawf(` min="%s"`, p.Min)
		}
		if p.Max != "" {
			h.rawf(` max="%s"`, p.Max)
		}
		if p.MaxLength > 0 {
			h.rawf(` maxlength="%d"`, p.MaxLength)
		}
		h.raw(string(boolAttr("required", p.Required)))
		h.raw(attrs(p.Attrs))
		h.raw(">")
		fieldError(h, p.Error)
		h.raw("</div>")
	})
}

// SelectProps configures Select.
type SelectProps struct {
	Label       string
	Name        string
	Value       string
	Options     []model.Option
	Placeholder string
	Required    bool
	Attrs       templ.Attributes
}

// Select renders a labelled select with an optional empty placeholder option.
func Select(p SelectProps) templ.Component {
	return component(func(h *html) {
		h.raw(`<div class="mb-4">`)
		fieldLabel(h, p.Label, p.Name, p.Required)
		h.rawf(`<select id="%s" name="%s" class="w-full rounded-lg border border-gray-300 px-3 py-2 focus:border-indigo-500 focus:outline-none"`, p.Name, p.Name)
		h.raw(string(boolAttr("required", p.Required)))
		h.raw(attrs(p.Attrs))
		h.raw(">")
		if p.Placeholder != "" {
			h.raw(`<option value="">`)
			h.text(p.Placeholder)
			h.raw("</option>")
		}
		for _, o := range p.Options {
			h.rawf(`<option value="%s"%s>`, o.Value, boolAttr("selected", o.Value == p.Value))
			if o.Icon != "" {
				h.text(o.Icon + " ")
			}
			h.text(o.Label)
			h.raw("</option>")
		}
		h.raw("</select></div>")
	})
}

// TextareaProps configures Textarea.
type TextareaProps struct {
	Label       string
	Name        string
	Value       string
	Rows        int
	Placeholder string
	Required    bool
	MaxLength   int
	Attrs       templ.Attributes
}

// Textarea renders a labelled multi-line field.
func Textarea(p TextareaProps) templ.Component {
	return component(func(h *html) {
		rows := p.Rows
		if rows == 0 {
			rows = 4
		}
		h.raw(`<div class="mb-4">`)
		fieldLabel(h, p.Label, p.Name, p.Required)
		h.rawf(`<textarea id="%s" name="%s" rows="%d" class="w-full rounded-lg border border-gray-300 px-3 py-2 focus:border-indigo-500 focus:outline-none"`,
			p.Name, p.Name, rows)
		if p.Placeholder != "" {
			h.rawf(` placeholder="%s"`, p.Placeholder)
		}
		if p.MaxLength > 0 {
			h.rawf(` maxlength="%d"`, p.MaxLength)
		}
		h.raw(string(boolAttr("required", p.Required)))
		h.raw(attrs(p.Attrs))
		h.raw(">")
		h.text(p.Value)
		h.raw("</textarea></div>")
	})
}

// Checkbox renders a checkbox plus the hidden marker that lets the server
// tell "unchecked" from "not submitted".
func Checkbox(label, name string, checked bool) templ.Component {
	return component(func(h *html) {
		h.rawf(`<div class="mb-4"><input type="hidden" name="%s_present" value="1">`, name)
		h.rawf(`<label class="inline-flex items-center gap-2"><input type="checkbox" name="%s" value="on"%s> `, name, boolAttr("checked", checked))
		h.text(label)
		h.raw("</label></div>")
	})
}

func fieldLabel(h *html, label, name string, required bool) {
	if label == "" {
		return
	}
	h.rawf(`<label for="%s" class="block text-sm font-medium text-gray-700 mb-1">`, name)
	h.text(label)
	if required {
		h.raw(` <span class="text-red-500">*</span>`)
	}
	h.raw("</label>")
}

func fieldError(h *html, msg string) {
	if msg != "" {
		h.raw(`<p class="mt-1 text-sm text-red-600">`)
		h.text(msg)
		h.raw("</p>")
	}
}

// AlertKind selects the alert colour.
type AlertKind string

const (
	AlertError   AlertKind = "error"
	AlertSuccess AlertKind = "success"
	AlertInfo    AlertKind = "info"
	AlertWarning AlertKind = "warning"
)

var alertClasses = map[AlertKind]string{
	AlertError:   "bg-red-50 border-red-300 text-red-800",
	AlertSuccess: "bg-green-50 border-green-300 text-green-800",
	AlertInfo:    "bg-blue-50 border-blue-300 text-blue-800",
	AlertWarning: "bg-yellow-50 border-yellow-300 text-yellow-800",
}

// Alert renders a message box. Dismissible alerts get a close button.
func Alert(kind AlertKind, msg string, dismissible bool) templ.Component {
	return component(func(h *html) {
		if msg == "" {
			return
		}
		h.rawf(`<div role="alert" class="alert alert-%s mb-4 flex items-start justify-between rounded-lg border p-4 %s">`, kind, alertClasses[kind])
		h.raw(`<p>`)
		h.text(msg)
		h.raw(`</p>`)
		if dismissible {
			h.raw(`<button type="button" class="ml-4 font-bold" aria-label="Dismiss" onclick="this.parentElement.remove()">&times;</button>`)
		}
		h.raw("</div>")
	})
}

// Card wraps body in a white panel with an optional title.
func Card(title string, body templ.Component) templ.Component {
	return component(func(h *html) {
		h.raw(`<div class="card mb-6 rounded-xl bg-white p-6 shadow">`)
		if title != "" {
			h.raw(`<h2 class="mb-4 text-xl font-semibold text-gray-800">`)
			h.text(title)
			h.raw(`</h2>`)
		}
		h.render(body)
		h.raw("</div>")
	})
}

// Loading renders a spinner. With an id it doubles as an htmx indicator.
func Loading(id, text string) templ.Component {
	return component(func(h *html) {
		class := "flex items-center justify-center gap-3 py-6 text-gray-600"
		if id != "" {
			h.rawf(`<div id="%s" class="htmx-indicator %s">`, id, class)
		} else {
			h.rawf(`<div class="%s">`, class)
		}
		h.raw(`<span class="h-6 w-6 animate-spin rounded-full border-4 border-indigo-200 border-t-indigo-600"></span><span>`)
		h.text(text)
		h.raw("</span></div>")
	})
}

var badgeClasses = map[string]string{
	"default": "bg-gray-100 text-gray-800",
	"primary": "bg-indigo-100 text-indigo-800",
	"success": "bg-green-100 text-green-800",
	"warning": "bg-yellow-100 text-yellow-800",
	"danger":  "bg-red-100 text-red-800",
}

// Badge renders a small pill label.
func Badge(variant, text string) templ.Component {
	return component(func(h *html) {
		c, ok := badgeClasses[variant]
		if !ok {
			c = badgeClasses["default"]
		}
		h.rawf(`<span class="badge inline-block rounded-full px-2.5 py-0.5 text-xs font-medium %s">`, c)
		h.text(text)
		h.raw("</span>")
	})
}

// ProgressBar renders a horizontal bar filled to pct percent.
func ProgressBar(pct int) templ.Component {
	return component(func(h *html) {
		pct = min(max(pct, 0), 100)
		h.rawf(`<div class="h-2 w-full rounded-full bg-gray-200"><div class="h-2 rounded-full bg-indigo-600" style="width: %s%%"></div></div>`, strconv.Itoa(pct))
	})
}
