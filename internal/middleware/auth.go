package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"parishcms/internal/auth"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

const identityKey contextKey = "identity"

// routePolicy marks a set of routes as public. An empty method matches
// any method.
type routePolicy struct {
	method string
	match  func(path string) bool
}

func exact(p string) func(string) bool {
	return func(path string) bool { return path == p }
}

func prefix(p string) func(string) bool {
	return func(path string) bool { return strings.HasPrefix(path, p) }
}

// publicRoutes is the allow-list consulted before any token work. Routes
// not matched here and living under /api or /admin require a valid access
// token.
var publicRoutes = []routePolicy{
	{http.MethodPost, exact("/api/auth/login")},
	{http.MethodPost, exact("/api/auth/refresh")},
	{http.MethodPost, exact("/api/auth/accept-invite")},
	{http.MethodGet, exact("/api/auth/accept-invite")},
	{"", exact("/admin/login")},
	{http.MethodGet, exact("/admin/accept-invite")},
	{http.MethodGet, exact("/api/blog")},
	{http.MethodGet, prefix("/api/blog/")},
	{http.MethodGet, exact("/api/events")},
	{http.MethodGet, prefix("/api/events/")},
	{http.MethodGet, prefix("/api/images/")},
}

func isPublic(method, path string) bool {
	// Everything outside the admin and API surfaces is public.
	if !strings.HasPrefix(path, "/api") && !strings.HasPrefix(path, "/admin") {
		return true
	}
	for _, p := range publicRoutes {
		if (p.method == "" || p.method == method) && p.match(path) {
			return true
		}
	}
	return false
}

// AuthGate enforces the route policy table above. Protected requests must
// carry a valid access token, either as an Authorization bearer (checked
// first) or in the auth_token cookie. On success the verified identity is
// attached to the request context for IdentityFromCtx.
func AuthGate(issuer *auth.Issuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isPublic(r.Method, r.URL.Path) {
				// Public routes still resolve a valid token when one is
				// sent: listings show drafts to staff but never fail for
				// anonymous visitors.
				if token := bearerToken(r); token != "" {
					if identity, err := issuer.VerifyAccess(token); err == nil {
						r = r.WithContext(context.WithValue(r.Context(), identityKey, identity))
					}
				}
				next.ServeHTTP(w, r)
				return
			}

			token := bearerToken(r)
			if token == "" {
				deny(w, r, "UNAUTHORIZED", "Authentication required")
				return
			}

			identity, err := issuer.VerifyAccess(token)
			if err != nil {
				// A dead cookie would otherwise fail every request until
				// it expires client-side.
				clearAuthCookie(w)
				deny(w, r, "INVALID_TOKEN", "Invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bearerToken extracts the access token from the Authorization header,
// falling back to the auth_token cookie.
func bearerToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if strings.HasPrefix(h, "Bearer ") {
			return strings.TrimSpace(h[len("Bearer "):])
		}
		return ""
	}
	if c, err := r.Cookie("auth_token"); err == nil {
		return c.Value
	}
	return ""
}

// deny rejects an unauthenticated request: admin pages get a redirect to
// the login page, API routes get a 401 envelope.
func deny(w http.ResponseWriter, r *http.Request, code, message string) {
	if strings.HasPrefix(r.URL.Path, "/admin") {
		http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"error":   map[string]string{"code": code, "message": message},
	})
}

func clearAuthCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     "auth_token",
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}

// RequireAdmin returns 403 if the authenticated user is not an admin.
// Must be applied after AuthGate.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity := IdentityFromCtx(r.Context())
		if identity == nil || identity.Role != "admin" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			json.NewEncoder(w).Encode(map[string]any{
				"success": false,
				"error":   map[string]string{"code": "FORBIDDEN", "message": "Admin access required"},
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// IdentityFromCtx extracts the verified identity from the request context.
// Returns nil on public routes.
func IdentityFromCtx(ctx context.Context) *auth.Identity {
	identity, _ := ctx.Value(identityKey).(*auth.Identity)
	return identity
}
