package webui

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	fiber "github.com/gofiber/fiber/v2"
	"github.com/mudler/xlog"

	models "github.com/productivity-engines/website/dbmodels"
	"github.com/productivity-engines/website/pkg/gotrue"
)

const (
	accessCookie   = "sb-access-token"
	refreshCookie  = "sb-refresh-token"
	verifierCookie = "sb-pkce-verifier"

	authLocal = "auth"
)

// AuthState mirrors the signed-in user for the current request.
type AuthState struct {
	User         *models.User
	Session      *gotrue.Session
	Error        string
	IsConfigured bool
	IsAdmin      bool
}

func (s *AuthState) SignedIn() bool {
	return s != nil && s.User != nil
}

func authState(c *fiber.Ctx) *AuthState {
	if s, ok := c.Locals(authLocal).(*AuthState); ok {
		return s
	}
	return &AuthState{}
}

// mirrorSession keeps the users table in step with sessions handed out by
// the auth client.
func (a *App) mirrorSession(event gotrue.Event, s *gotrue.Session) {
	if s == nil || s.User.ID == "" {
		return
	}
	xlog.Debug("Auth state changed", "event", event, "user", s.User.ID)
	if err := a.config.Store.UpsertUser(context.Background(), &models.User{ID: s.User.ID, Email: s.User.Email}); err != nil {
		xlog.Error("Failed to mirror user", "user", s.User.ID, "error", err)
	}
}

// LoadSession resolves the session cookies into an AuthState. Expired access
// tokens are refreshed with the refresh cookie. Every authenticated user is
// mirrored into the users table.
func (a *App) LoadSession() func(c *fiber.Ctx) error {
	return func(c *fiber.Ctx) error {
		state := &AuthState{IsConfigured: a.config.Auth.Configured()}
		c.Locals(authLocal, state)
		if !state.IsConfigured {
			return c.Next()
		}

		token := c.Cookies(accessCookie)
		refresh := c.Cookies(refreshCookie)
		if token == "" && refresh == "" {
			return c.Next()
		}

		ctx := c.UserContext()
		user, err := a.config.Auth.VerifyToken(ctx, token)
		if errors.Is(err, gotrue.ErrInvalidToken) && refresh != "" {
			session, rerr := a.config.Auth.Refresh(ctx, refresh)
			if rerr == nil {
				a.setSessionCookies(c, session)
				state.Session = session
			}
			user, err = refreshedUser(session), rerr
		}
		if err != nil {
			// the cookies survive an auth service outage
			if gotrue.Rejected(err) {
				a.clearSessionCookies(c)
			} else {
				xlog.Warn("Auth service unavailable", "error", err)
				state.Error = err.Error()
			}
			return c.Next()
		}

		mirror := &models.User{ID: user.ID, Email: user.Email}
		if err := a.config.Store.UpsertUser(ctx, mirror); err != nil {
			xlog.Error("Failed to mirror user", "user", user.ID, "error", err)
		}
		state.User = mirror

		isAdmin, err := a.roles.IsAdmin(ctx, *mirror)
		if err != nil {
			xlog.Error("Error checking admin status", "user", user.ID, "error", err)
		}
		state.IsAdmin = isAdmin
		return c.Next()
	}
}

func refreshedUser(s *gotrue.Session) *gotrue.User {
	if s == nil {
		return nil
	}
	return &s.User
}

// RequireSession redirects anonymous visitors to the login page.
func (a *App) RequireSession() func(c *fiber.Ctx) error {
	return func(c *fiber.Ctx) error {
		state := authState(c)
		if !state.IsConfigured {
			return a.render(c, fiber.StatusServiceUnavailable, "not_configured", fiber.Map{
				"Title": "Dashboard - Productivity Engines",
			})
		}
		if !state.SignedIn() {
			return c.Redirect("/login?next=" + url.QueryEscape(c.OriginalURL()))
		}
		return c.Next()
	}
}

func (a *App) RequireAdmin() func(c *fiber.Ctx) error {
	return func(c *fiber.Ctx) error {
		if !authState(c).IsAdmin {
			return a.render(c, fiber.StatusForbidden, "error", fiber.Map{
				"Code":    fiber.StatusForbidden,
				"Message": "You do not have permission to access this page.",
			})
		}
		return c.Next()
	}
}

func (a *App) setSessionCookies(c *fiber.Ctx, s *gotrue.Session) {
	expires := time.Now().Add(time.Duration(s.ExpiresIn) * time.Second)
	if s.ExpiresAt > 0 {
		expires = time.Unix(s.ExpiresAt, 0)
	}
	c.Cookie(&fiber.Cookie{
		Name:     accessCookie,
		Value:    s.AccessToken,
		Path:     "/",
		Expires:  expires,
		HTTPOnly: true,
		Secure:   a.config.SecureCookies,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	c.Cookie(&fiber.Cookie{
		Name:     refreshCookie,
		Value:    s.RefreshToken,
		Path:     "/",
		Expires:  time.Now().Add(30 * 24 * time.Hour),
		HTTPOnly: true,
		Secure:   a.config.SecureCookies,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func (a *App) clearSessionCookies(c *fiber.Ctx) {
	for _, name := range []string{accessCookie, refreshCookie} {
		c.Cookie(&fiber.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			Expires:  time.Unix(0, 0),
			HTTPOnly: true,
			Secure:   a.config.SecureCookies,
		})
	}
}

// safeNext keeps post-login redirects on this site.
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return "/dashboard"
	}
	return next
}

func (a *App) LoginPage() func(c *fiber.Ctx) error {
	return func(c *fiber.Ctx) error {
		if authState(c).SignedIn() {
			return c.Redirect(safeNext(c.Query("next")))
		}
		return a.renderLogin(c, fiber.StatusOK, c.Query("mode"), "", "")
	}
}

func (a *App) renderLogin(c *fiber.Ctx, status int, mode, errMsg, message string) error {
	if mode != "signup" {
		mode = "signin"
	}
	return a.render(c, status, "login", fiber.Map{
		"Title":   "Login - Productivity Engines",
		"Mode":    mode,
		"Fields":  loginFields,
		"Values":  map[string]string{"email": c.FormValue("email")},
		"Next":    c.Query("next", c.FormValue("next")),
		"Error":   errMsg,
		"Message": message,
	})
}

// Login handles the email/password form for both sign-in and sign-up.
func (a *App) Login() func(c *fiber.Ctx) error {
	return func(c *fiber.Ctx) error {
		mode := c.FormValue("mode")
		if !a.config.Auth.Configured() {
			return a.renderLogin(c, fiber.StatusServiceUnavailable, mode, "Authentication is not configured.", "")
		}

		email := strings.TrimSpace(c.FormValue("email"))
		password := c.FormValue("password")
		if email == "" || password == "" {
			return a.renderLogin(c, fiber.StatusBadRequest, mode, "Email and password are required", "")
		}

		ctx := c.UserContext()
		var session *gotrue.Session
		var err error
		if mode == "signup" {
			_, session, err = a.config.Auth.SignUp(ctx, email, password)
			if err == nil && session == nil {
				return a.renderLogin(c, fiber.StatusOK, "signin", "", "Check your email for the confirmation link.")
			}
		} else {
			session, err = a.config.Auth.SignInWithPassword(ctx, email, password)
		}
		if err != nil {
			xlog.Info("Login failed", "email", email, "mode", mode, "error", err)
			return a.renderLogin(c, fiber.StatusUnauthorized, mode, authErrorMessage(err), "")
		}

		a.setSessionCookies(c, session)
		return c.Redirect(safeNext(c.FormValue("next")))
	}
}

func authErrorMessage(err error) string {
	var apiErr *gotrue.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return "Unable to sign in. Please try again."
}

// OAuthStart redirects to the provider with a PKCE challenge.
func (a *App) OAuthStart() func(c *fiber.Ctx) error {
	return func(c *fiber.Ctx) error {
		if !a.config.Auth.Configured() {
			return a.renderLogin(c, fiber.StatusServiceUnavailable, "", "Authentication is not configured.", "")
		}
		verifier, challenge, err := gotrue.NewPKCE()
		if err != nil {
			return err
		}
		c.Cookie(&fiber.Cookie{
			Name:     verifierCookie,
			Value:    verifier,
			Path:     "/auth",
			Expires:  time.Now().Add(10 * time.Minute),
			HTTPOnly: true,
			Secure:   a.config.SecureCookies,
			SameSite: fiber.CookieSameSiteLaxMode,
		})
		redirect := strings.TrimRight(a.config.SiteURL, "/") + "/auth/callback"
		return c.Redirect(a.config.Auth.AuthorizeURL(c.Params("provider"), redirect, challenge))
	}
}

func (a *App) OAuthCallback() func(c *fiber.Ctx) error {
	return func(c *fiber.Ctx) error {
		if desc := c.Query("error_description"); desc != "" {
			return a.renderLogin(c, fiber.StatusUnauthorized, "", desc, "")
		}
		code := c.Query("code")
		verifier := c.Cookies(verifierCookie)
		if code == "" || verifier == "" {
			return a.renderLogin(c, fiber.StatusBadRequest, "", "Invalid sign-in callback. Please try again.", "")
		}
		c.ClearCookie(verifierCookie)

		session, err := a.config.Auth.ExchangeCode(c.UserContext(), code, verifier)
		if err != nil {
			xlog.Info("Code exchange failed", "error", err)
			return a.renderLogin(c, fiber.StatusUnauthorized, "", authErrorMessage(err), "")
		}
		a.setSessionCookies(c, session)
		return c.Redirect("/dashboard")
	}
}

func (a *App) Logout() func(c *fiber.Ctx) error {
	return func(c *fiber.Ctx) error {
		if token := c.Cookies(accessCookie); token != "" && a.config.Auth.Configured() {
			if err := a.config.Auth.SignOut(c.UserContext(), token); err != nil {
				xlog.Warn("Sign out failed", "error", err)
			}
		}
		a.clearSessionCookies(c)
		return c.Redirect("/")
	}
}
