package handler

import (
	"net/http"

	"github.com/evhartley/fiction-passport/internal/web/middleware"
	"github.com/evhartley/fiction-passport/internal/web/templates"
)

// HomeHandler handles the landing page
type HomeHandler struct{}

// NewHomeHandler creates a new HomeHandler
func NewHomeHandler() *HomeHandler {
	return &HomeHandler{}
}

// Home shows the welcome page, or the passport for logged-in users
func (h *HomeHandler) Home(w http.ResponseWriter, r *http.Request) {
	if middleware.GetUser(r.Context()) != nil {
		http.Redirect(w, r, "/passport", http.StatusSeeOther)
		return
	}

	render(w, r, "home", templates.HomeData{
		PageData: pageData(r, "Welcome"),
	})
}
