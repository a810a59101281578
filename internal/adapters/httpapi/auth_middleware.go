package httpapi

import (
	"net/http"
	"strings"

	"github.com/kcesar/training-api/internal/platform/auth/jwtverifier"
)

// NewAuthMiddleware enforces Authorization: Bearer <JWT> and stores the
// verified claims in request context. Anonymous routes are wired outside
// the authenticated router group, so no path exemptions live here.
func NewAuthMiddleware(v *jwtverifier.Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authz := r.Header.Get("Authorization")
			if authz == "" {
				writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing Authorization header")
				return
			}
			const prefix = "Bearer "
			if !strings.HasPrefix(authz, prefix) {
				writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "malformed Authorization header")
				return
			}
			raw := strings.TrimSpace(strings.TrimPrefix(authz, prefix))
			if raw == "" {
				writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing bearer token")
				return
			}

			claims, err := v.Verify(raw)
			if err != nil {
				writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "invalid token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

// NewDevAuthMiddleware is a local/dev-only auth shim.
//
// It accepts an explicit member id via X-Debug-Member plus a comma-separated
// X-Debug-Roles header. If the member header is absent, it falls back to
// defaultMemberID (if provided).
//
// This is intended for local Docker workflows where standing up an identity
// provider is overkill. Do NOT use this in production deployments.
func NewDevAuthMiddleware(defaultMemberID string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			memberID := strings.TrimSpace(r.Header.Get("X-Debug-Member"))
			if memberID == "" {
				memberID = strings.TrimSpace(defaultMemberID)
			}
			if memberID == "" {
				writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing member (set X-Debug-Member)")
				return
			}

			var roles []string
			for _, role := range strings.Split(r.Header.Get("X-Debug-Roles"), ",") {
				if role = strings.TrimSpace(role); role != "" {
					roles = append(roles, role)
				}
			}

			claims := jwtverifier.Claims{
				Subject:  "dev|" + memberID,
				MemberID: memberID,
				Roles:    roles,
			}
			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}
