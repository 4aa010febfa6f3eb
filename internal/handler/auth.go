package handler

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	appI18n "github.com/pavelanni/cbcassist/internal/i18n"
	"github.com/pavelanni/cbcassist/internal/model"
)

const (
	visitorCookieName  = "sid"
	userTypeCookieName = "userType"
	tokenCookieName    = "token"
	csrfCookieName     = "csrf_token"
	csrfHeaderName     = "X-CSRF-Token"

	cookieMaxAge = 365 * 24 * 60 * 60
	// touchInterval limits how often a visitor's last-seen time is written.
	touchInterval = time.Minute
)

func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

func (h *Handler) setCookie(w http.ResponseWriter, name, value string, httpOnly bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     h.cookiePath(),
		MaxAge:   cookieMaxAge,
		HttpOnly: httpOnly,
		Secure:   h.config.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) clearCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     h.cookiePath(),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.config.SecureCookies,
	})
}

// csrfMiddleware issues one token per browser and checks it on unsafe
// methods. The token is kept across requests so that pages updated in
// place by htmx keep a valid token.
func (h *Handler) csrfMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var token string
		if c, err := r.Cookie(csrfCookieName); err == nil {
			token = c.Value
		}

		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			if token == "" {
				slog.Warn("CSRF cookie missing", "path", r.URL.Path)
				http.Error(w, "csrf token missing", http.StatusForbidden)
				return
			}
			sent := r.Header.Get(csrfHeaderName)
			if sent == "" {
				sent = r.FormValue("csrf_token")
			}
			if sent == "" {
				slog.Warn("CSRF form token missing", "path", r.URL.Path)
				http.Error(w, "csrf token missing", http.StatusForbidden)
				return
			}
			if len(sent) != len(token) || subtle.ConstantTimeCompare([]byte(sent), []byte(token)) != 1 {
				slog.Warn("CSRF token mismatch", "path", r.URL.Path)
				http.Error(w, "invalid csrf token", http.StatusForbidden)
				return
			}
		}

		if token == "" {
			var err error
			if token, err = generateToken(); err != nil {
				slog.Error("failed to generate CSRF token", "error", err)
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			}
			h.setCookie(w, csrfCookieName, token, false)
		}

		ctx := model.ContextWithCSRFToken(r.Context(), token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// visitorMiddleware identifies the browser by its sid cookie, creating a
// visitor on first contact. The role and API token live in cookies and are
// copied onto the visitor for the rest of the request.
func (h *Handler) visitorMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var v *model.Visitor
		if c, err := r.Cookie(visitorCookieName); err == nil && c.Value != "" {
			found, err := h.store.GetVisitor(c.Value)
			if err != nil {
				slog.Error("failed to get visitor", "error", err)
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			}
			v = found
		}
		if v == nil {
			created, err := h.store.CreateVisitor()
			if err != nil {
				slog.Error("failed to create visitor", "error", err)
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			}
			v = created
			h.setCookie(w, visitorCookieName, v.ID, true)
		}

		userType := model.UserType(cookieValue(r, userTypeCookieName))
		if !userType.Valid() {
			userType = ""
		}
		if userType != v.UserType || h.now().Sub(v.LastSeen) > touchInterval {
			if err := h.store.TouchVisitor(v.ID, userType); err != nil {
				slog.Error("failed to touch visitor", "visitor", v.ID, "error", err)
			}
		}
		v.UserType = userType
		v.Token = cookieValue(r, tokenCookieName)

		ctx := model.ContextWithVisitor(r.Context(), v)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func cookieValue(r *http.Request, name string) string {
	c, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return c.Value
}

func visitorID(r *http.Request) string {
	if v := model.VisitorFromContext(r.Context()); v != nil {
		return v.ID
	}
	return ""
}

// handleRole records the role chosen on the home page.
func (h *Handler) handleRole(w http.ResponseWriter, r *http.Request) {
	userType := model.UserType(r.FormValue("user_type"))
	if !userType.Valid() {
		http.Redirect(w, r, h.path("/"), http.StatusSeeOther)
		return
	}
	h.setCookie(w, userTypeCookieName, string(userType), true)
	if err := h.store.TouchVisitor(visitorID(r), userType); err != nil {
		slog.Error("failed to store user type", "error", err)
	}
	slog.Info("role selected", "visitor", visitorID(r), "user_type", userType)
	http.Redirect(w, r, h.path("/"+string(userType)+"/dashboard"), http.StatusSeeOther)
}

// handleLogout forgets the role. The API token and transcripts are kept.
func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	h.clearCookie(w, userTypeCookieName)
	if err := h.store.TouchVisitor(visitorID(r), ""); err != nil {
		slog.Error("failed to clear user type", "error", err)
	}
	http.Redirect(w, r, h.path("/"), http.StatusSeeOther)
}

// localPath reports whether p stays on this host when used as a Location.
// Browsers read "//" and "/\" as the start of a network path.
func localPath(p string) bool {
	return strings.HasPrefix(p, "/") && !strings.HasPrefix(p, "//") && !strings.HasPrefix(p, "/\\")
}

func (h *Handler) handleLang(w http.ResponseWriter, r *http.Request) {
	lang := r.FormValue("lang")
	if appI18n.IsSupported(lang) {
		h.setCookie(w, appI18n.CookieName, lang, false)
	}
	back := h.path("/settings")
	if u, err := url.Parse(r.Referer()); err == nil && localPath(u.Path) && strings.HasPrefix(u.Path, h.cookiePath()) {
		back = u.RequestURI()
	}
	http.Redirect(w, r, back, http.StatusSeeOther)
}

func (h *Handler) handleSetToken(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimSpace(r.FormValue("token"))
	if token == "" {
		http.Redirect(w, r, h.path("/settings"), http.StatusSeeOther)
		return
	}
	h.setCookie(w, tokenCookieName, token, true)
	http.Redirect(w, r, h.path("/settings?notice=saved"), http.StatusSeeOther)
}

func (h *Handler) handleClearToken(w http.ResponseWriter, r *http.Request) {
	h.clearCookie(w, tokenCookieName)
	http.Redirect(w, r, h.path("/settings?notice=cleared"), http.StatusSeeOther)
}
