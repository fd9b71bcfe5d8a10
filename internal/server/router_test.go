package server_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/JoelBonito/gestion-chs-sub001/internal/models"
	srv "github.com/JoelBonito/gestion-chs-sub001/internal/server"
)

func setupRouter(t *testing.T) (http.Handler, *gorm.DB) {
	t.Helper()
	dbi, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := dbi.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return srv.New(dbi, srv.Deps{}), dbi
}

func createUser(t *testing.T, dbi *gorm.DB, email, password string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		t.Fatal(err)
	}
	u := models.User{Email: email, Password: string(hash)}
	if err := dbi.Create(&u).Error; err != nil {
		t.Fatal(err)
	}
}

func login(t *testing.T, h http.Handler, email, password string) *http.Cookie {
	t.Helper()
	body := `{"email":"` + email + `","password":"` + password + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(body))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", rr.Code, rr.Body.String())
	}
	for _, c := range rr.Result().Cookies() {
		if c.Name == "session" {
			return c
		}
	}
	t.Fatal("no session cookie")
	return nil
}

func TestHealth(t *testing.T) {
	h, _ := setupRouter(t)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("healthz = %d", rr.Code)
	}
}

func TestUnauthenticatedRejected(t *testing.T) {
	h, _ := setupRouter(t)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/encomendas", nil))
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rr.Code)
	}
}

func TestLoginBadPassword(t *testing.T) {
	h, dbi := setupRouter(t)
	createUser(t, dbi, "jbento1@gmail.com", "correct horse")

	body := `{"email":"jbento1@gmail.com","password":"wrong"}`
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(body)))
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rr.Code)
	}
}

func TestAdminFullFlow(t *testing.T) {
	h, dbi := setupRouter(t)
	createUser(t, dbi, "jbento1@gmail.com", "s3cret")
	cookie := login(t, h, "jbento1@gmail.com", "s3cret")

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.AddCookie(cookie)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("me = %d %s", rr.Code, rr.Body.String())
	}
	var me struct {
		Email        string `json:"email"`
		Capabilities struct {
			Admin bool     `json:"admin"`
			Nav   []string `json:"nav"`
		} `json:"capabilities"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &me); err != nil {
		t.Fatal(err)
	}
	if !me.Capabilities.Admin || len(me.Capabilities.Nav) == 0 {
		t.Fatalf("capabilities = %+v", me.Capabilities)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/encomendas", nil)
	req.AddCookie(cookie)
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("encomendas = %d %s", rr.Code, rr.Body.String())
	}
}

func TestGateBlocksForeignScreen(t *testing.T) {
	h, dbi := setupRouter(t)
	createUser(t, dbi, "felipe@colaborador.com", "s3cret")
	cookie := login(t, h, "felipe@colaborador.com", "s3cret")

	// Felipe's screens are orders and production; the receivable ledger is
	// not among them.
	req := httptest.NewRequest(http.MethodGet, "/api/financeiro/receber", nil)
	req.AddCookie(cookie)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rr.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/producao", nil)
	req.AddCookie(cookie)
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("producao = %d %s", rr.Code, rr.Body.String())
	}
}

func TestUnknownIdentityFailsClosed(t *testing.T) {
	h, dbi := setupRouter(t)
	createUser(t, dbi, "stranger@example.com", "s3cret")
	cookie := login(t, h, "stranger@example.com", "s3cret")

	// Authenticated but absent from the access table: every screen is out.
	req := httptest.NewRequest(http.MethodGet, "/api/encomendas", nil)
	req.AddCookie(cookie)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rr.Code)
	}
}
