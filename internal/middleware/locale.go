package middleware

import (
	"context"
	"net/http"

	"github.com/soaringjerry/SurveyFlow/internal/utils"
)

type ctxKey int

const localeKey ctxKey = 1

const defaultLocale = "en"

// LocaleMiddleware resolves the response locale from ?lang= or Accept-Language against
// utils.SupportedLocales, echoes it in Content-Language and stores it on the request context.
func LocaleMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		locale := utils.DetermineLocale(r.URL.Query().Get("lang"), r.Header.Get("Accept-Language"), utils.SupportedLocales, defaultLocale)
		h := w.Header()
		h.Set("Content-Language", locale)
		h.Add("Vary", "Accept-Language")
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), localeKey, locale)))
	})
}

func LocaleFromContext(ctx context.Context) string {
	if s, ok := ctx.Value(localeKey).(string); ok && s != "" {
		return s
	}
	return defaultLocale
}
