package handlers

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"parishcms/internal/auth"
	"parishcms/internal/middleware"
	"parishcms/internal/models"
	"parishcms/internal/store"
)

// Auth groups the authentication and user-management handlers.
type Auth struct {
	users    *store.UserStore
	sessions *store.SessionStore
	issuer   *auth.Issuer
	siteURL  string
	secure   bool // Secure flag on cookies; off in development
}

// NewAuth creates a new Auth handler group.
func NewAuth(users *store.UserStore, sessions *store.SessionStore, issuer *auth.Issuer, siteURL string, secure bool) *Auth {
	return &Auth{
		users:    users,
		sessions: sessions,
		issuer:   issuer,
		siteURL:  strings.TrimRight(siteURL, "/"),
		secure:   secure,
	}
}

func (a *Auth) setTokenCookies(w http.ResponseWriter, accessToken, refreshToken string) {
	http.SetCookie(w, &http.Cookie{
		Name:     "auth_token",
		Value:    accessToken,
		Path:     "/",
		HttpOnly: true,
		Secure:   a.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(auth.AccessTokenTTL.Seconds()),
	})
	http.SetCookie(w, &http.Cookie{
		Name:     "refresh_token",
		Value:    refreshToken,
		Path:     "/",
		HttpOnly: true,
		Secure:   a.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(auth.RefreshTokenTTL.Seconds()),
	})
}

func (a *Auth) clearTokenCookies(w http.ResponseWriter) {
	for _, name := range []string{"auth_token", "refresh_token"} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			HttpOnly: true,
			Secure:   a.secure,
			SameSite: http.SameSiteLaxMode,
			MaxAge:   -1,
		})
	}
}

// Login authenticates email+password and establishes a token pair.
// POST /api/auth/login
func (a *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "MISSING_FIELDS", "Email and password are required")
		return
	}

	user, err := a.users.FindActiveByEmail(req.Email)
	if err != nil {
		serverError(w, "login lookup failed", err)
		return
	}
	// Same answer for unknown email and wrong password.
	if user == nil || user.PasswordHash == nil || !auth.VerifyPassword(req.Password, *user.PasswordHash) {
		writeError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password")
		return
	}

	accessToken, err := a.issuer.AccessToken(user.ID, user.Email, user.Name, user.Role)
	if err != nil {
		serverError(w, "sign access token failed", err)
		return
	}
	refreshToken, err := a.issuer.RefreshToken(user.ID)
	if err != nil {
		serverError(w, "sign refresh token failed", err)
		return
	}

	if _, err := a.sessions.Create(user.ID, refreshToken, time.Now().Add(auth.RefreshTokenTTL)); err != nil {
		serverError(w, "create session failed", err)
		return
	}

	a.setTokenCookies(w, accessToken, refreshToken)
	slog.Info("user logged in", "user_id", user.ID, "email", user.Email)
	writeJSON(w, http.StatusOK, map[string]any{
		"user":  user.Summary(),
		"token": accessToken,
	})
}

// Refresh rotates the refresh token and mints a fresh access token. The
// presented token must both verify cryptographically and match a live
// session row, so revoked sessions stay dead.
// POST /api/auth/refresh
func (a *Auth) Refresh(w http.ResponseWriter, r *http.Request) {
	token := refreshTokenFromRequest(r)
	if token == "" {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Refresh token required")
		return
	}

	userID, err := a.issuer.VerifyRefresh(token)
	if err != nil {
		a.clearTokenCookies(w)
		writeError(w, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired refresh token")
		return
	}

	session, err := a.sessions.FindByToken(token)
	if err != nil {
		serverError(w, "session lookup failed", err)
		return
	}
	if session == nil || session.UserID != userID {
		a.clearTokenCookies(w)
		writeError(w, http.StatusUnauthorized, "INVALID_TOKEN", "Session revoked")
		return
	}

	user, err := a.users.FindActiveByID(userID)
	if err != nil {
		serverError(w, "refresh user lookup failed", err)
		return
	}
	if user == nil {
		a.clearTokenCookies(w)
		writeError(w, http.StatusUnauthorized, "INVALID_TOKEN", "Account no longer active")
		return
	}

	accessToken, err := a.issuer.AccessToken(user.ID, user.Email, user.Name, user.Role)
	if err != nil {
		serverError(w, "sign access token failed", err)
		return
	}
	newRefresh, err := a.issuer.RefreshToken(user.ID)
	if err != nil {
		serverError(w, "sign refresh token failed", err)
		return
	}
	if err := a.sessions.Rotate(session.ID, newRefresh, time.Now().Add(auth.RefreshTokenTTL)); err != nil {
		serverError(w, "rotate session failed", err)
		return
	}

	a.setTokenCookies(w, accessToken, newRefresh)
	writeJSON(w, http.StatusOK, map[string]any{
		"user":  user.Summary(),
		"token": accessToken,
	})
}

// Logout revokes the session and clears cookies. Always succeeds, even
// with no or an unknown refresh token.
// POST /api/auth/logout
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	if token := refreshTokenFromRequest(r); token != "" {
		if err := a.sessions.DeleteByToken(token); err != nil {
			slog.Warn("session delete failed", "error", err)
		}
	}
	a.clearTokenCookies(w)
	writeJSON(w, http.StatusOK, map[string]any{"message": "Logged out"})
}

// Me returns the authenticated user's profile.
// GET /api/auth/me
func (a *Auth) Me(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromCtx(r.Context())
	if identity == nil {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	user, err := a.users.FindActiveByID(identity.ID)
	if err != nil {
		serverError(w, "me lookup failed", err)
		return
	}
	if user == nil {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Account no longer active")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": user.Summary()})
}

// Invite creates (or re-invites) a user and returns the invite link.
// Admin only.
// POST /api/auth/invite
func (a *Auth) Invite(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string      `json:"email"`
		Name  string      `json:"name"`
		Role  models.Role `json:"role"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if !validEmail(req.Email) {
		writeError(w, http.StatusBadRequest, "INVALID_EMAIL", "A valid email is required")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "MISSING_FIELDS", "Name is required")
		return
	}
	if req.Role == "" {
		req.Role = models.RoleEditor
	}
	if !models.ValidRole(req.Role) {
		writeError(w, http.StatusBadRequest, "INVALID_ROLE", "Role must be admin or editor")
		return
	}

	token, err := auth.NewInviteToken()
	if err != nil {
		serverError(w, "generate invite token failed", err)
		return
	}
	expiresAt := time.Now().Add(auth.InviteTokenTTL)

	existing, err := a.users.FindByEmail(req.Email)
	if err != nil {
		serverError(w, "invite lookup failed", err)
		return
	}

	var user *models.User
	switch {
	case existing != nil && existing.IsActive:
		writeError(w, http.StatusConflict, "USER_EXISTS", "A user with this email already exists")
		return
	case existing != nil:
		// Pending invite: regenerate the token instead of erroring.
		if err := a.users.Reinvite(existing.ID, req.Name, req.Role, token, expiresAt); err != nil {
			serverError(w, "reinvite failed", err)
			return
		}
		user, err = a.users.FindByID(existing.ID)
		if err != nil {
			serverError(w, "reinvite lookup failed", err)
			return
		}
	default:
		user, err = a.users.CreateInvited(req.Email, req.Name, req.Role, token, expiresAt)
		if err != nil {
			serverError(w, "create invited user failed", err)
			return
		}
	}

	slog.Info("user invited", "email", user.Email, "role", user.Role)
	writeJSON(w, http.StatusCreated, map[string]any{
		"user":        user.Summary(),
		"invite_link": a.siteURL + "/admin/accept-invite?token=" + url.QueryEscape(token),
		"expires_at":  expiresAt,
	})
}

// ListUsers returns every user without credential material. Admin only.
// GET /api/auth/invite
func (a *Auth) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := a.users.List()
	if err != nil {
		serverError(w, "list users failed", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"users": users})
}

// ValidateInvite checks an invite token and returns the invitee, so the
// accept page can greet them before they pick a password.
// GET /api/auth/accept-invite?token=
func (a *Auth) ValidateInvite(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		writeError(w, http.StatusBadRequest, "MISSING_FIELDS", "Invite token is required")
		return
	}

	user, err := a.users.FindByInviteToken(token)
	if err != nil {
		serverError(w, "invite token lookup failed", err)
		return
	}
	if user == nil {
		writeError(w, http.StatusNotFound, "INVALID_TOKEN", "Invite token is invalid or expired")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"email": user.Email,
		"name":  user.Name,
	})
}

// AcceptInvite redeems an invite token, setting the password, activating
// the account, and logging the new user in immediately.
// POST /api/auth/accept-invite
func (a *Auth) AcceptInvite(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token    string `json:"token"`
		Password string `json:"password"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Token == "" {
		writeError(w, http.StatusBadRequest, "MISSING_FIELDS", "Invite token is required")
		return
	}
	if ok, reason := auth.ValidatePassword(req.Password); !ok {
		writeError(w, http.StatusBadRequest, "WEAK_PASSWORD", reason)
		return
	}

	user, err := a.users.FindByInviteToken(req.Token)
	if err != nil {
		serverError(w, "invite token lookup failed", err)
		return
	}
	if user == nil {
		writeError(w, http.StatusNotFound, "INVALID_TOKEN", "Invite token is invalid or expired")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		serverError(w, "hash password failed", err)
		return
	}
	if err := a.users.Activate(user.ID, hash); err != nil {
		serverError(w, "activate user failed", err)
		return
	}

	// Activation doubles as the first login: the accept page lands the new
	// user in the admin without a second credential prompt.
	accessToken, err := a.issuer.AccessToken(user.ID, user.Email, user.Name, user.Role)
	if err != nil {
		serverError(w, "sign access token failed", err)
		return
	}
	refreshToken, err := a.issuer.RefreshToken(user.ID)
	if err != nil {
		serverError(w, "sign refresh token failed", err)
		return
	}
	if _, err := a.sessions.Create(user.ID, refreshToken, time.Now().Add(auth.RefreshTokenTTL)); err != nil {
		serverError(w, "create session failed", err)
		return
	}

	a.setTokenCookies(w, accessToken, refreshToken)
	slog.Info("invite accepted", "user_id", user.ID, "email", user.Email)
	writeJSON(w, http.StatusOK, map[string]any{
		"user":  user.Summary(),
		"token": accessToken,
	})
}

// refreshTokenFromRequest reads the refresh token from the cookie, falling
// back to a JSON body for non-browser clients.
func refreshTokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie("refresh_token"); err == nil && c.Value != "" {
		return c.Value
	}
	var body struct {
		RefreshToken string `json:"refresh_token"`
	}
	if r.Body != nil {
		// Best effort; an empty or non-JSON body just yields "".
		_ = decodeBody(r, &body)
	}
	return body.RefreshToken
}
