// Package views renders the HTML pages as templ components.
package views

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"sort"
	"strings"

	"github.com/a-h/templ"

	appI18n "github.com/pavelanni/cbcassist/internal/i18n"
	"github.com/pavelanni/cbcassist/internal/model"
)

// html accumulates the first write error so components read top to bottom.
type html struct {
	ctx context.Context
	w   io.Writer
	err error
}

func component(fn func(h *html)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{ctx: ctx, w: w}
		fn(h)
		return h.err
	})
}

func (h *html) raw(s string) {
	if h.err == nil {
		_, h.err = io.WriteString(h.w, s)
	}
}

// trusted is markup built by this package that rawf writes unescaped.
type trusted string

// rawf writes a formatted string. String and fmt.Stringer arguments are
// HTML-escaped unless they are trusted; numbers are written as is.
func (h *html) rawf(format string, args ...any) {
	for i, a := range args {
		switch v := a.(type) {
		case trusted:
			args[i] = string(v)
		case string:
			args[i] = templ.EscapeString(v)
		case fmt.Stringer:
			args[i] = templ.EscapeString(v.String())
		}
	}
	h.raw(fmt.Sprintf(format, args...))
}

func (h *html) text(s string) {
	h.raw(templ.EscapeString(s))
}

// lines writes s escaped with newlines turned into <br>.
func (h *html) lines(s string) {
	for i, line := range strings.Split(s, "\n") {
		if i > 0 {
			h.raw("<br>")
		}
		h.text(line)
	}
}

func (h *html) render(c templ.Component) {
	if h.err == nil && c != nil {
		h.err = c.Render(h.ctx, h.w)
	}
}

func (h *html) t(id string) string {
	return appI18n.T(h.ctx, id)
}

func (h *html) td(id string, data map[string]any) string {
	return appI18n.Td(h.ctx, id, data)
}

func (h *html) tp(id string, count int) string {
	return appI18n.Tp(h.ctx, id, count)
}

// path prefixes p with the deployment base path.
func (h *html) path(p string) string {
	return model.BasePathFromContext(h.ctx) + p
}

func (h *html) csrfField() {
	h.rawf(`<input type="hidden" name="csrf_token" value="%s">`, model.CSRFTokenFromContext(h.ctx))
}

func queryEscape(s string) string {
	return url.QueryEscape(s)
}

func esc(s string) string {
	return templ.EscapeString(s)
}

// attrs renders extra attributes in a stable order. Boolean true renders the
// bare attribute name, false omits it.
func attrs(a templ.Attributes) string {
	if len(a) == 0 {
		return ""
	}
	keys := make([]string, 0, len(a))
	for k := range a {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var sb strings.Builder
	for _, k := range keys {
		switch v := a[k].(type) {
		case bool:
			if v {
				sb.WriteString(" " + esc(k))
			}
		default:
			fmt.Fprintf(&sb, ` %s="%s"`, esc(k), esc(fmt.Sprint(v)))
		}
	}
	return sb.String()
}

func boolAttr(name string, on bool) trusted {
	if on {
		return trusted(" " + name)
	}
	return ""
}
