// Package auth implements the signed session cookie and the request
// context identity used by the policy layer. The cookie carries the user id;
// the e-mail behind it is resolved once per request through a pluggable
// resolver so the rest of the application can key authorization decisions on
// the identity string alone.
package auth

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/JoelBonito/gestion-chs-sub001/httpx"
)

type ctxKey string

const (
	sessionCookieName = "session"
	userIDCtxKey      = ctxKey("userID")
	emailCtxKey       = ctxKey("userEmail")
)

// IdentityResolver maps a session's user id to the account e-mail.
// It also doubles as an existence check: ok=false invalidates the session.
type IdentityResolver func(ctx context.Context, uid uuid.UUID) (email string, ok bool)

var resolver IdentityResolver

// SetIdentityResolver configures the global resolver used by Middleware and
// RequireAuth. Set it during bootstrap, before the server starts serving.
func SetIdentityResolver(r IdentityResolver) { resolver = r }

// Secret returns SESSION_SECRET or a default dev value.
func Secret() string {
	if s := os.Getenv("SESSION_SECRET"); s != "" {
		return s
	}
	return "devsessionsecret"
}

func sign(payload string) string {
	mac := hmac.New(sha256.New, []byte(Secret()))
	mac.Write([]byte(payload))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// CreateSession sets a signed cookie with the user id.
func CreateSession(w http.ResponseWriter, userID uuid.UUID) {
	uidStr := userID.String()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    uidStr + "." + sign(uidStr),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(14 * 24 * time.Hour),
	})
}

// ClearSession deletes the session cookie.
func ClearSession(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{Name: sessionCookieName, Value: "", Path: "/", Expires: time.Unix(0, 0), HttpOnly: true, SameSite: http.SameSiteLaxMode})
}

// ParseSession validates the cookie signature and returns the user id.
func ParseSession(r *http.Request) (uuid.UUID, bool) {
	c, err := r.Cookie(sessionCookieName)
	if err != nil || c.Value == "" {
		return uuid.Nil, false
	}
	parts := strings.Split(c.Value, ".")
	if len(parts) != 2 {
		return uuid.Nil, false
	}
	uidStr, sig := parts[0], parts[1]
	if !hmac.Equal([]byte(sig), []byte(sign(uidStr))) {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(uidStr)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// WithIdentity stores user id and e-mail in the context.
func WithIdentity(ctx context.Context, userID uuid.UUID, email string) context.Context {
	ctx = context.WithValue(ctx, userIDCtxKey, userID)
	return context.WithValue(ctx, emailCtxKey, email)
}

// UserIDFromContext extracts the user id.
func UserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(userIDCtxKey).(uuid.UUID)
	return id, ok && id != uuid.Nil
}

// EmailFromContext extracts the authenticated e-mail. Empty means anonymous;
// the policy layer treats that as the most restrictive identity.
func EmailFromContext(ctx context.Context) string {
	email, _ := ctx.Value(emailCtxKey).(string)
	return email
}

// Middleware attaches the session identity to the request context if present.
// Requests without a valid session pass through anonymous.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if uid, ok := ParseSession(r); ok {
			email := ""
			if resolver != nil {
				var found bool
				if email, found = resolver(r.Context(), uid); !found {
					// Session refers to a removed account: clear and continue anonymous.
					ClearSession(w)
					next.ServeHTTP(w, r)
					return
				}
			}
			r = r.WithContext(WithIdentity(r.Context(), uid, email))
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAuth rejects unauthenticated requests with 401 JSON.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := UserIDFromContext(r.Context()); !ok {
			httpx.JSONError(w, http.StatusUnauthorized, "unauthorized", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}
