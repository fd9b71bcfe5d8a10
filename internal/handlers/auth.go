package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/JoelBonito/gestion-chs-sub001/auth"
	"github.com/JoelBonito/gestion-chs-sub001/httpx"
	"github.com/JoelBonito/gestion-chs-sub001/internal/middleware"
	"github.com/JoelBonito/gestion-chs-sub001/internal/models"
	"github.com/JoelBonito/gestion-chs-sub001/internal/policy"
	"github.com/JoelBonito/gestion-chs-sub001/validation"
)

type AuthHandler struct {
	DB *gorm.DB
}

func NewAuthHandler(db *gorm.DB) *AuthHandler { return &AuthHandler{DB: db} }

// ResolveIdentity is plugged into the auth middleware so sessions carry the
// account e-mail the policy layer keys on.
func (h *AuthHandler) ResolveIdentity() auth.IdentityResolver {
	return func(ctx context.Context, uid uuid.UUID) (string, bool) {
		var u models.User
		if err := h.DB.WithContext(ctx).Select("email").First(&u, "id = ?", uid).Error; err != nil {
			return "", false
		}
		return u.Email, true
	}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := httpx.DecodeJSON(w, r, &input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))

	v := validation.Violations{}
	validation.Required("email", input.Email, v)
	validation.Required("password", input.Password, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}

	var user models.User
	err := h.DB.WithContext(r.Context()).First(&user, "email = ?", input.Email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		httpx.JSONError(w, http.StatusUnauthorized, "invalid_credentials", nil)
		return
	}
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "login_failed", nil)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)) != nil {
		httpx.JSONError(w, http.StatusUnauthorized, "invalid_credentials", nil)
		return
	}

	auth.CreateSession(w, user.ID)
	httpx.JSON(w, http.StatusOK, map[string]any{
		"user":         user,
		"capabilities": policy.Lookup(user.Email),
	})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	auth.ClearSession(w)
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "logged_out"})
}

// Me returns the current identity plus its capability set and resolved
// language, so a client can build its navigation without guessing.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	email := auth.EmailFromContext(r.Context())
	if email == "" {
		httpx.JSONError(w, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"email":        email,
		"capabilities": policy.Lookup(email),
		"lang":         middleware.Lang(r.Context()),
	})
}
