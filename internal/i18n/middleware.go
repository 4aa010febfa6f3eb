package i18n

import (
	"net/http"

	"github.com/nicksnyder/go-i18n/v2/i18n"
)

// CookieName holds the visitor's UI language choice.
const CookieName = "lang"

// Middleware injects a localizer into every request context. The language
// comes from the lang cookie when it names a supported locale, else defaultLang.
func Middleware(defaultLang string) func(http.Handler) http.Handler {
	localizers := make(map[string]*i18n.Localizer, len(Supported))
	for _, l := range Supported {
		localizers[l] = NewLocalizer(l)
	}
	if _, ok := localizers[defaultLang]; !ok {
		localizers[defaultLang] = NewLocalizer(defaultLang)
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			lang := defaultLang
			if c, err := r.Cookie(CookieName); err == nil && IsSupported(c.Value) {
				lang = c.Value
			}
			ctx := WithLocalizer(r.Context(), localizers[lang])
			ctx = WithLang(ctx, lang)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
