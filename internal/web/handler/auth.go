package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/evhartley/fiction-passport/internal/services/auth"
	"github.com/evhartley/fiction-passport/internal/web/middleware"
	"github.com/evhartley/fiction-passport/internal/web/request"
	"github.com/evhartley/fiction-passport/internal/web/templates"
)

// AuthHandler handles login, registration and logout
type AuthHandler struct {
	authService *auth.Service
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *auth.Service) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// LoginPage renders the login page
func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	if middleware.GetUser(r.Context()) != nil {
		http.Redirect(w, r, "/passport", http.StatusSeeOther)
		return
	}

	render(w, r, "login", templates.LoginData{
		PageData: pageData(r, "Log in"),
		Next:     r.URL.Query().Get("next"),
	})
}

// Login handles the login form submission
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	form, err := request.ParseLogin(r)
	if err != nil {
		flashError(w, err)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	sess, err := h.authService.Login(r.Context(), form.Username, form.Password)
	if err != nil {
		flashError(w, err)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	h.setSessionCookie(w, sess.Token)

	if form.Next != "" && strings.HasPrefix(form.Next, "/") {
		http.Redirect(w, r, form.Next, http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/passport", http.StatusSeeOther)
}

// RegisterPage renders the registration page
func (h *AuthHandler) RegisterPage(w http.ResponseWriter, r *http.Request) {
	if middleware.GetUser(r.Context()) != nil {
		http.Redirect(w, r, "/passport", http.StatusSeeOther)
		return
	}

	render(w, r, "register", templates.RegisterData{
		PageData: pageData(r, "Register"),
	})
}

// Register handles the registration form submission
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	form, err := request.ParseRegister(r)
	if err != nil {
		flashError(w, err)
		http.Redirect(w, r, "/register", http.StatusSeeOther)
		return
	}

	sess, err := h.authService.Register(r.Context(), form.Username, form.Password)
	if err != nil {
		flashError(w, err)
		http.Redirect(w, r, "/register", http.StatusSeeOther)
		return
	}

	h.setSessionCookie(w, sess.Token)
	middleware.SetFlash(w, "success", "Successfully registered!")
	http.Redirect(w, r, "/passport", http.StatusSeeOther)
}

// Logout clears the session and sends the user home
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.SessionCookieName); err == nil {
		h.authService.Logout(r.Context(), cookie.Value)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   86400 * 7,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
