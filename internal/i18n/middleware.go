package i18n

import (
	"net/http"
	"time"
)

// langCookie remembers an explicit ?lang= choice.
const langCookie = "scanner_lang"

// Middleware resolves the request language and injects its localizer. The
// order of preference is the ?lang= query parameter, the language cookie, the
// Accept-Language header, then fallback.
func Middleware(fallback string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			query := r.URL.Query().Get("lang")
			var cookie string
			if c, err := r.Cookie(langCookie); err == nil {
				cookie = c.Value
			}
			lang := Match(query, cookie, r.Header.Get("Accept-Language"), fallback)
			if query != "" {
				http.SetCookie(w, &http.Cookie{
					Name:     langCookie,
					Value:    lang,
					Path:     "/",
					MaxAge:   int((30 * 24 * time.Hour).Seconds()),
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}
			ctx := WithLocalizer(r.Context(), NewLocalizer(lang))
			ctx = WithLang(ctx, lang)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
