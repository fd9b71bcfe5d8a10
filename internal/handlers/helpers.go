// Package handlers contains the HTTP layer: thin JSON endpoints that bind
// the persistence layer, the aggregation service and the policy layer per
// screen. Each handler owns its gorm queries; cross-cutting concerns live in
// middleware.
package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/JoelBonito/gestion-chs-sub001/httpx"
)

const (
	defaultLimit = 50
	maxLimit     = 200
)

// pageParams reads limit/offset query parameters with sane bounds.
func pageParams(r *http.Request) (limit, offset int) {
	limit = defaultLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= maxLimit {
			limit = n
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}
	return limit, offset
}

// pathUUID parses the {id} path segment, writing a 400 on failure.
func pathUUID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return uuid.Nil, false
	}
	return id, true
}

// likePattern builds a case-insensitive LIKE pattern from a search query,
// stripping characters that have no business in one.
func likePattern(q string) string {
	var b strings.Builder
	for _, c := range strings.ToLower(strings.TrimSpace(q)) {
		switch c {
		case '%', '_', '\\':
			continue
		default:
			b.WriteRune(c)
		}
	}
	return "%" + b.String() + "%"
}

// archivedFilter reads the archived toggle: default shows active rows only.
func archivedFilter(r *http.Request) bool {
	return r.URL.Query().Get("archived") == "1" || r.URL.Query().Get("archived") == "true"
}
