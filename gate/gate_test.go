package gate_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/JoelBonito/gestion-chs-sub001/gate"
)

func TestAuthorize_AnonymousDenied(t *testing.T) {
	g := gate.New(gate.NewStaticResolver())
	if err := g.Authorize(context.Background(), "", gate.ActionView, "encomenda"); err != gate.ErrUnauthorized {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
}

func TestAuthorize_UnknownIdentityDenied(t *testing.T) {
	g := gate.New(gate.NewStaticResolver())
	if g.Can(context.Background(), "nobody@example.com", gate.ActionView, "encomenda") {
		t.Error("unknown identity must fail closed")
	}
}

func TestAuthorize_ExactPermission(t *testing.T) {
	r := gate.NewStaticResolver()
	r.Set("ops@example.com", gate.NewStaticProfile("ops", gate.NewPermission("encomenda", gate.ActionView)))
	g := gate.New(r)

	if !g.Can(context.Background(), "ops@example.com", gate.ActionView, "encomenda") {
		t.Error("expected encomenda:view to be allowed")
	}
	if g.Can(context.Background(), "ops@example.com", gate.ActionDelete, "encomenda") {
		t.Error("encomenda:delete must be denied")
	}
}

func TestRequirePermission_DeniesWithJSONEnvelope(t *testing.T) {
	g := gate.New(gate.NewStaticResolver())
	identity := func(*http.Request) string { return "nobody@example.com" }
	h := g.RequirePermission(identity, "encomendas", gate.ActionView)(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			t.Error("handler must not run")
		}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/encomendas", nil))
	if rr.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("content type = %q", ct)
	}
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Error != "no_permission" {
		t.Fatalf("error code = %q, want no_permission", body.Error)
	}
}

func TestPermission_Wildcards(t *testing.T) {
	cases := []struct {
		have, want gate.Permission
		matches    bool
	}{
		{"*:*", "encomenda:delete", true},
		{"encomenda:*", "encomenda:update", true},
		{"encomenda:*", "produto:update", false},
		{"encomenda:view", "encomenda:view", true},
		{"encomenda:view", "encomenda:update", false},
	}
	for _, c := range cases {
		if got := c.have.Matches(c.want); got != c.matches {
			t.Errorf("%s.Matches(%s) = %v, want %v", c.have, c.want, got, c.matches)
		}
	}
}

func TestStaticProfile_SuperAdmin(t *testing.T) {
	p := gate.NewStaticProfile("admin", gate.PermissionSuperAdmin)
	if !p.HasPermission(gate.NewPermission("qualquer", gate.ActionDelete)) {
		t.Error("superadmin must match any permission")
	}
}

type countingResolver struct {
	calls int
	inner gate.ProfileResolver
}

func (c *countingResolver) Resolve(ctx context.Context, identity string) (gate.Profile, error) {
	c.calls++
	return c.inner.Resolve(ctx, identity)
}

func TestCachedResolver_AvoidsRepeatLookups(t *testing.T) {
	static := gate.NewStaticResolver()
	static.Set("a@b", gate.NewStaticProfile("p", gate.PermissionSuperAdmin))
	counting := &countingResolver{inner: static}
	cached := gate.NewCachedResolver(counting, time.Minute)

	for i := 0; i < 3; i++ {
		if _, err := cached.Resolve(context.Background(), "a@b"); err != nil {
			t.Fatalf("resolve: %v", err)
		}
	}
	if counting.calls != 1 {
		t.Errorf("expected 1 inner lookup, got %d", counting.calls)
	}

	cached.Invalidate("a@b")
	if _, err := cached.Resolve(context.Background(), "a@b"); err != nil {
		t.Fatalf("resolve after invalidate: %v", err)
	}
	if counting.calls != 2 {
		t.Errorf("expected 2 inner lookups after invalidate, got %d", counting.calls)
	}
}
