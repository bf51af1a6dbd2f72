package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/evhartley/fiction-passport/internal/services/plan"
	"github.com/evhartley/fiction-passport/internal/web/middleware"
	"github.com/evhartley/fiction-passport/internal/web/request"
	"github.com/evhartley/fiction-passport/internal/web/templates"
)

// PlanHandler handles the adventure planner page. All Gemini traffic is
// server-side; the page never sees the API key.
type PlanHandler struct {
	planService *plan.Service
	logger      *slog.Logger
}

// NewPlanHandler creates a new PlanHandler
func NewPlanHandler(planService *plan.Service, logger *slog.Logger) *PlanHandler {
	return &PlanHandler{
		planService: planService,
		logger:      logger,
	}
}

// PlanPage renders the planner form
func (h *PlanHandler) PlanPage(w http.ResponseWriter, r *http.Request) {
	render(w, r, "plan", templates.PlanData{
		PageData:   pageData(r, "Plan"),
		Configured: h.planService.Configured(),
	})
}

// Plan runs the prompt through the planner and renders the itinerary
func (h *PlanHandler) Plan(w http.ResponseWriter, r *http.Request) {
	prompt, err := request.ParsePlan(r)
	if err != nil {
		flashError(w, err)
		http.Redirect(w, r, "/plan", http.StatusSeeOther)
		return
	}

	itinerary, err := h.planService.Plan(r.Context(), prompt)
	if err != nil {
		switch {
		case errors.Is(err, plan.ErrEmptyPrompt):
			middleware.SetFlash(w, "danger", "Tell the planner what you are in the mood for.")
		case errors.Is(err, plan.ErrNotConfigured):
			middleware.SetFlash(w, "danger", "The planner is not configured on this server.")
		default:
			user := middleware.GetUser(r.Context())
			h.logger.Error("planner request failed",
				slog.Int64("user_id", user.ID),
				slog.String("error", err.Error()),
			)
			middleware.SetFlash(w, "danger", "The planner is unavailable right now. Please try again later.")
		}
		http.Redirect(w, r, "/plan", http.StatusSeeOther)
		return
	}

	render(w, r, "plan", templates.PlanData{
		PageData:   pageData(r, "Plan"),
		Configured: true,
		Prompt:     prompt,
		Itinerary:  itinerary,
	})
}
