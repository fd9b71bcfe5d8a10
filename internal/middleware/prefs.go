// Package middleware carries request-scoped HTTP concerns shared by every
// handler: panic recovery, request logging, and display-language resolution.
package middleware

import (
	"context"
	"log"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/JoelBonito/gestion-chs-sub001/auth"
	"github.com/JoelBonito/gestion-chs-sub001/i18n"
	"github.com/JoelBonito/gestion-chs-sub001/internal/policy"
)

type ctxKey int

const langKey ctxKey = iota

// LangCookie overrides language detection when present.
const LangCookie = "lang"

// Lang returns the display language resolved for the request, pt by default.
func Lang(ctx context.Context) string {
	if l, ok := ctx.Value(langKey).(string); ok && l != "" {
		return l
	}
	return i18n.LangPT
}

// ResolveLang picks the display language, strongest signal first: the
// account's policy language, then the lang cookie, then ?lang=, then
// Accept-Language.
func ResolveLang(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lang := ""
		if email := auth.EmailFromContext(r.Context()); email != "" {
			if caps := policy.Lookup(email); caps.Lang != "" && len(caps.Nav) > 0 {
				lang = caps.Lang
			}
		}
		if lang == "" {
			if c, err := r.Cookie(LangCookie); err == nil && i18n.IsValidLang(c.Value) {
				lang = c.Value
			}
		}
		if lang == "" {
			if q := r.URL.Query().Get("lang"); i18n.IsValidLang(q) {
				lang = q
			}
		}
		if lang == "" {
			lang = i18n.DetectLanguage(r.Header.Get("Accept-Language"))
		}
		ctx := context.WithValue(r.Context(), langKey, lang)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Recover turns handler panics into plain 500s instead of dropped
// connections.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("panic: %v\n%s", rec, debug.Stack())
				http.Error(w, "internal server error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Logging writes one line per request with method, path, status and latency.
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Printf("%s %s %d %s", r.Method, r.URL.Path, rec.status, time.Since(start).Round(time.Millisecond))
	})
}
