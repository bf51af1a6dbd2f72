package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/evhartley/fiction-passport/internal/model"
	"github.com/evhartley/fiction-passport/internal/web/middleware"
	"github.com/evhartley/fiction-passport/internal/web/templates"
)

// render writes a page template with the standard headers
func render(w http.ResponseWriter, r *http.Request, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	// Pages show per-user state and flash messages; never cache them
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	if err := templates.Render(w, name, data); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// pageData assembles the layout payload from the request context
func pageData(r *http.Request, title string) templates.PageData {
	return templates.PageData{
		Title: title,
		User:  middleware.GetUser(r.Context()),
		Flash: middleware.GetFlash(r.Context()),
	}
}

// flashError sets a danger flash with a user-facing message for err
func flashError(w http.ResponseWriter, err error) {
	middleware.SetFlash(w, "danger", userMessage(err))
}

// userMessage maps an error to the text shown to the user. Validation
// errors carry their own message; anything unexpected gets a generic
// apology so internals never leak into a page.
func userMessage(err error) string {
	switch {
	case errors.Is(err, model.ErrMissingCredentials):
		return "Must provide username and password."
	case errors.Is(err, model.ErrPasswordTooShort):
		return "Password must be at least 8 characters."
	case errors.Is(err, model.ErrInvalidCredentials):
		return "Invalid username and/or password."
	case errors.Is(err, model.ErrUsernameExists):
		return "Username already exists."
	case errors.Is(err, model.ErrStampNotFound):
		return "Could not find or delete that stamp."
	case errors.Is(err, model.ErrValidation):
		msg := err.Error()
		if i := strings.Index(msg, ": "); i >= 0 {
			msg = msg[i+2:]
		}
		return capitalize(msg) + "."
	default:
		return "An unexpected error occurred. Please try again."
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
