package handlers

import (
	"net/http"
	"strings"

	"gorm.io/gorm"

	"github.com/JoelBonito/gestion-chs-sub001/auth"
	"github.com/JoelBonito/gestion-chs-sub001/httpx"
	"github.com/JoelBonito/gestion-chs-sub001/internal/policy"
)

// AssistantHandler executes ad hoc read-only reports. Admin only, and the
// statement must be a single SELECT; anything else is rejected before it
// reaches the database.
type AssistantHandler struct {
	DB *gorm.DB
}

func NewAssistantHandler(db *gorm.DB) *AssistantHandler { return &AssistantHandler{DB: db} }

// IsReadOnlyQuery reports whether q is a lone SELECT statement. Statement
// chaining via semicolons is refused outright.
func IsReadOnlyQuery(q string) bool {
	s := strings.TrimSpace(q)
	if s == "" {
		return false
	}
	if i := strings.IndexByte(s, ';'); i >= 0 && strings.TrimSpace(s[i+1:]) != "" {
		return false
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), ";")
	first := strings.ToUpper(strings.Fields(s)[0])
	return first == "SELECT"
}

func (h *AssistantHandler) Query(w http.ResponseWriter, r *http.Request) {
	email := auth.EmailFromContext(r.Context())
	if !policy.Lookup(email).Admin {
		httpx.JSONError(w, http.StatusForbidden, "no_permission", nil)
		return
	}
	var input struct {
		Query string `json:"query"`
	}
	if err := httpx.DecodeJSON(w, r, &input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if !IsReadOnlyQuery(input.Query) {
		httpx.JSONError(w, http.StatusBadRequest, "query_not_allowed", nil)
		return
	}
	var rows []map[string]any
	if err := h.DB.WithContext(r.Context()).Raw(input.Query).Scan(&rows).Error; err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "query_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"rows": rows, "count": len(rows)})
}
