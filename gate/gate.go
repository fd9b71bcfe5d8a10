// Package gate is a small permission checkpoint keyed on the authenticated
// e-mail. Profiles hold "resource:action" permissions with wildcard support;
// a resolver maps an identity to its profile and can be wrapped with a TTL
// cache. An unknown identity resolves to no profile and every check fails
// closed.
package gate

import (
	"context"
	"net/http"

	"github.com/JoelBonito/gestion-chs-sub001/httpx"
)

// Gate checks profile permissions for an identity.
type Gate struct {
	resolver ProfileResolver
}

// New creates a gate backed by the given resolver.
func New(resolver ProfileResolver) *Gate {
	return &Gate{resolver: resolver}
}

// Authorize returns ErrUnauthorized unless the identity's profile grants
// resource:action. An empty identity is always denied.
func (g *Gate) Authorize(ctx context.Context, identity string, action Action, resourceType string) error {
	if identity == "" {
		return ErrUnauthorized
	}
	profile, err := g.resolver.Resolve(ctx, identity)
	if err != nil || profile == nil {
		return ErrUnauthorized
	}
	if !profile.HasPermission(NewPermission(resourceType, action)) {
		return ErrUnauthorized
	}
	return nil
}

// Can is a convenience wrapper returning bool instead of error.
func (g *Gate) Can(ctx context.Context, identity string, action Action, resourceType string) bool {
	return g.Authorize(ctx, identity, action, resourceType) == nil
}

// IdentityFunc extracts the subject identity from a request.
type IdentityFunc func(r *http.Request) string

// RequirePermission returns middleware enforcing resource:action.
func (g *Gate) RequirePermission(identityOf IdentityFunc, resourceType string, action Action) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !g.Can(r.Context(), identityOf(r), action, resourceType) {
				httpx.JSONError(w, http.StatusForbidden, "no_permission", nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
