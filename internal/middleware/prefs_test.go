package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/JoelBonito/gestion-chs-sub001/auth"
	"github.com/JoelBonito/gestion-chs-sub001/i18n"
)

func langProbe(t *testing.T, build func(*http.Request) *http.Request) string {
	t.Helper()
	var got string
	h := ResolveLang(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		got = Lang(r.Context())
	}))
	req := build(httptest.NewRequest(http.MethodGet, "/", nil))
	h.ServeHTTP(httptest.NewRecorder(), req)
	return got
}

func TestResolveLangDefaultsToPT(t *testing.T) {
	if got := langProbe(t, func(r *http.Request) *http.Request { return r }); got != i18n.LangPT {
		t.Fatalf("lang = %q", got)
	}
}

func TestResolveLangAcceptHeader(t *testing.T) {
	got := langProbe(t, func(r *http.Request) *http.Request {
		r.Header.Set("Accept-Language", "fr-FR,fr;q=0.9")
		return r
	})
	if got != i18n.LangFR {
		t.Fatalf("lang = %q", got)
	}
}

func TestResolveLangCookieBeatsHeader(t *testing.T) {
	got := langProbe(t, func(r *http.Request) *http.Request {
		r.Header.Set("Accept-Language", "fr")
		r.AddCookie(&http.Cookie{Name: LangCookie, Value: i18n.LangPT})
		return r
	})
	if got != i18n.LangPT {
		t.Fatalf("lang = %q", got)
	}
}

func TestResolveLangPolicyAccountBeatsAll(t *testing.T) {
	got := langProbe(t, func(r *http.Request) *http.Request {
		r.Header.Set("Accept-Language", "pt")
		r.AddCookie(&http.Cookie{Name: LangCookie, Value: i18n.LangPT})
		ctx := auth.WithIdentity(r.Context(), uuid.New(), "laurent@gestion-chs.com")
		return r.WithContext(ctx)
	})
	if got != i18n.LangFR {
		t.Fatalf("lang = %q", got)
	}
}
