package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/MouazMsh/Bookfliy/internal/middleware"
	"github.com/MouazMsh/Bookfliy/internal/repository"
	"github.com/MouazMsh/Bookfliy/internal/service"
	"github.com/MouazMsh/Bookfliy/pkg/respond"
)

// AuthHandler serves the entry pages and the register/login/forgot flows.
type AuthHandler struct {
	auth     *service.AuthService
	sessions service.SessionStore
	cookies  *middleware.SessionManager
}

// NewAuthHandler creates an auth handler.
func NewAuthHandler(auth *service.AuthService, sessions service.SessionStore, cookies *middleware.SessionManager) *AuthHandler {
	return &AuthHandler{auth: auth, sessions: sessions, cookies: cookies}
}

// Landing renders the public landing page.
// GET /
func (h *AuthHandler) Landing(c *gin.Context) {
	respond.Page(c, "landing.html", gin.H{})
}

// LoginPage renders the login form with any pending flash.
// GET /login
func (h *AuthHandler) LoginPage(c *gin.Context) {
	message, _ := consumeFlash(c, h.sessions)
	respond.Page(c, "login.html", gin.H{"Message": message})
}

// RegisterPage renders the registration form.
// GET /register
func (h *AuthHandler) RegisterPage(c *gin.Context) {
	message, _ := consumeFlash(c, h.sessions)
	respond.Page(c, "register.html", gin.H{"Message": message})
}

// ForgotPage renders the forgot-password form.
// GET /forgot
func (h *AuthHandler) ForgotPage(c *gin.Context) {
	message, _ := consumeFlash(c, h.sessions)
	respond.Page(c, "forgotpass.html", gin.H{"Message": message})
}

// Login authenticates the form credentials. On success the session is
// rotated and bound to the user; on a bad email or password the specific
// message travels back to /login as flash.
// POST /login (emailLogin, passwordLogin)
func (h *AuthHandler) Login(c *gin.Context) {
	email := c.PostForm("emailLogin")
	password := c.PostForm("passwordLogin")

	user, err := h.auth.Login(c.Request.Context(), email, password)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			setFlash(c, h.sessions, "User not found", false)
			respond.Redirect(c, "/login")
			return
		}
		if errors.Is(err, service.ErrIncorrectPassword) {
			setFlash(c, h.sessions, "Incorrect Password", false)
			respond.Redirect(c, "/login")
			return
		}
		respond.ServerError(c, err)
		return
	}

	// Rotate the session id on login; the anonymous session is discarded.
	sess, err := h.sessions.Create(c.Request.Context())
	if err != nil {
		respond.ServerError(c, err)
		return
	}
	sess.UserID = user.ID
	if err := h.sessions.Save(c.Request.Context(), sess); err != nil {
		respond.ServerError(c, err)
		return
	}
	if old := middleware.GetSession(c); old != nil {
		_ = h.sessions.Delete(c.Request.Context(), old.ID)
	}
	h.cookies.SetCookie(c, sess.ID)

	respond.Redirect(c, "/homepage")
}

// Register creates an account. Duplicate email or username reports the
// specific message without touching the users table.
// POST /register (name, email, password, username)
func (h *AuthHandler) Register(c *gin.Context) {
	req := &service.RegisterRequest{
		Name:     c.PostForm("name"),
		Email:    c.PostForm("email"),
		Password: c.PostForm("password"),
		Username: c.PostForm("username"),
	}

	if _, err := h.auth.Register(c.Request.Context(), req); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			setFlash(c, h.sessions, "Email already exists. Try logging in.", false)
			respond.Redirect(c, "/register")
			return
		}
		if errors.Is(err, repository.ErrUsernameExists) {
			setFlash(c, h.sessions, "Username already exists. Try logging in.", false)
			respond.Redirect(c, "/register")
			return
		}
		respond.ServerError(c, err)
		return
	}

	respond.Redirect(c, "/login")
}

// Forgot resets the password of an existing account.
// POST /forgotpass (emailForgot, newPass)
func (h *AuthHandler) Forgot(c *gin.Context) {
	email := c.PostForm("emailForgot")
	newPass := c.PostForm("newPass")

	if err := h.auth.ResetPassword(c.Request.Context(), email, newPass); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			setFlash(c, h.sessions, "User is not existed, try Register", false)
			respond.Redirect(c, "/forgot")
			return
		}
		respond.ServerError(c, err)
		return
	}

	respond.Redirect(c, "/login")
}

// Logout destroys the session and drops the cookie.
// GET /logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if sess := middleware.GetSession(c); sess != nil {
		if err := h.sessions.Delete(c.Request.Context(), sess.ID); err != nil {
			respond.ServerError(c, err)
			return
		}
	}
	h.cookies.ClearCookie(c)
	respond.Redirect(c, "/")
}
