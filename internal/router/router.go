// Package router wires all HTTP routes and middleware chains for the
// parish CMS API. Routes fall into three groups: the /api JSON surface,
// the embedded /admin SPA shell, and image serving.
package router

import (
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"

	"parishcms/internal/auth"
	"parishcms/internal/handlers"
	"parishcms/internal/middleware"
	"parishcms/web"
)

// New returns the configured Chi router. loginLimiter may be nil when
// Redis is not available; the login route then runs unthrottled.
func New(
	issuer *auth.Issuer,
	loginLimiter *middleware.LoginLimiter,
	authH *handlers.Auth,
	blog *handlers.Blog,
	events *handlers.Events,
	members *handlers.Members,
	testimonials *handlers.Testimonials,
	pages *handlers.Pages,
	upload *handlers.Upload,
) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.AuthGate(issuer))

	// Health check: no auth, no envelope.
	r.Get("/health", healthHandler)

	r.Route("/api/auth", func(r chi.Router) {
		if loginLimiter != nil {
			r.With(loginLimiter.Middleware).Post("/login", authH.Login)
		} else {
			r.Post("/login", authH.Login)
		}
		r.Post("/refresh", authH.Refresh)
		r.Post("/logout", authH.Logout)
		r.Get("/me", authH.Me)
		r.Get("/accept-invite", authH.ValidateInvite)
		r.Post("/accept-invite", authH.AcceptInvite)
		r.With(middleware.RequireAdmin).Post("/invite", authH.Invite)
		r.With(middleware.RequireAdmin).Get("/invite", authH.ListUsers)
	})

	r.Route("/api/blog", func(r chi.Router) {
		r.Get("/", blog.List)
		r.Post("/", blog.Create)
		r.Get("/{idOrSlug}", blog.Get)
		r.Put("/{id}", blog.Update)
		r.Delete("/{id}", blog.Delete)
	})

	r.Route("/api/events", func(r chi.Router) {
		r.Get("/", events.List)
		r.Post("/", events.Create)
		r.Get("/{idOrSlug}", events.Get)
		r.Put("/{id}", events.Update)
		r.Delete("/{id}", events.Delete)
	})

	r.Route("/api/members", func(r chi.Router) {
		r.Get("/", members.List)
		r.Post("/", members.Create)
		r.Get("/{id}", members.Get)
		r.Put("/{id}", members.Update)
		r.Delete("/{id}", members.Delete)
	})

	r.Route("/api/testimonials", func(r chi.Router) {
		r.Get("/", testimonials.List)
		r.Post("/", testimonials.Create)
		r.Get("/{id}", testimonials.Get)
		r.Put("/{id}", testimonials.Update)
		r.Delete("/{id}", testimonials.Delete)
	})

	r.Route("/api/pages", func(r chi.Router) {
		r.Get("/", pages.List)
		r.Get("/{key}", pages.Get)
		r.Put("/{key}", pages.Upsert)
	})

	r.Post("/api/upload/image", upload.Image)
	r.Get("/api/images/{filename}", upload.Serve)
	r.Delete("/api/images/{filename}", upload.Delete)

	// Admin SPA: every /admin path serves the embedded shell; the client
	// router takes over from there. Static assets live under /static/.
	mountAdminShell(r)

	return r
}

// mountAdminShell serves the embedded admin interface. Assets are served
// from /static/; any GET under /admin falls through to index.html.
func mountAdminShell(r chi.Router) {
	staticFS, err := fs.Sub(web.StaticFS, "static")
	if err != nil {
		// The embed directive guarantees static/ exists.
		panic(err)
	}

	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	shell := func(w http.ResponseWriter, req *http.Request) {
		index, err := fs.ReadFile(staticFS, "index.html")
		if err != nil {
			http.Error(w, "admin interface unavailable", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(index)
	}
	r.Get("/admin", shell)
	r.Get("/admin/*", shell)
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
