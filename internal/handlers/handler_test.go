// handler_test.go provides shared test infrastructure for handler
// integration tests. Tests are skipped when PostgreSQL is unavailable.
package handlers

import (
	"database/sql"
	"net/http"
	"os"
	"testing"

	"github.com/go-chi/chi/v5"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"parishcms/internal/auth"
	"parishcms/internal/database"
	"parishcms/internal/middleware"
	"parishcms/internal/store"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test PostgreSQL and runs migrations.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "parishcms")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "parishcms")
	dsn := "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("migrate: %v", err)
	}
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// testApp is a fully wired API surface backed by the test database.
type testApp struct {
	db       *sql.DB
	issuer   *auth.Issuer
	users    *store.UserStore
	sessions *store.SessionStore
	posts    *store.BlogStore
	router   http.Handler
}

// newTestApp wires stores, handlers, and the auth gate the way main does.
func newTestApp(t *testing.T) *testApp {
	t.Helper()
	db := testDB(t)

	app := &testApp{
		db:       db,
		issuer:   auth.NewIssuer("handler-test-secret"),
		users:    store.NewUserStore(db),
		sessions: store.NewSessionStore(db),
		posts:    store.NewBlogStore(db),
	}

	authHandlers := NewAuth(app.users, app.sessions, app.issuer, "http://localhost:8080", false)
	blogHandlers := NewBlog(app.posts)

	r := chi.NewRouter()
	r.Use(middleware.AuthGate(app.issuer))
	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/login", authHandlers.Login)
		r.Post("/refresh", authHandlers.Refresh)
		r.Post("/logout", authHandlers.Logout)
		r.Get("/me", authHandlers.Me)
		r.Get("/accept-invite", authHandlers.ValidateInvite)
		r.Post("/accept-invite", authHandlers.AcceptInvite)
		r.With(middleware.RequireAdmin).Post("/invite", authHandlers.Invite)
		r.With(middleware.RequireAdmin).Get("/invite", authHandlers.ListUsers)
	})
	r.Route("/api/blog", func(r chi.Router) {
		r.Get("/", blogHandlers.List)
		r.Post("/", blogHandlers.Create)
		r.Get("/{idOrSlug}", blogHandlers.Get)
		r.Put("/{id}", blogHandlers.Update)
		r.Delete("/{id}", blogHandlers.Delete)
	})
	app.router = r
	return app
}

// cleanupUsers removes test users by email when the test finishes.
func (app *testApp) cleanupUsers(t *testing.T, emails ...string) {
	t.Helper()
	t.Cleanup(func() {
		for _, email := range emails {
			app.db.Exec("DELETE FROM users WHERE email = $1", email)
		}
	})
}

// cleanupPosts removes test posts whose slug starts with the given prefix.
func (app *testApp) cleanupPosts(t *testing.T, slugPrefix string) {
	t.Helper()
	t.Cleanup(func() {
		app.db.Exec("DELETE FROM blog_posts WHERE slug LIKE $1", slugPrefix+"%")
	})
}
