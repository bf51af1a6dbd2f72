package handler

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/evhartley/fiction-passport/internal/services/stamp"
	"github.com/evhartley/fiction-passport/internal/web/middleware"
	"github.com/evhartley/fiction-passport/internal/web/request"
	"github.com/evhartley/fiction-passport/internal/web/templates"
)

// StampHandler handles stamp creation, deletion and the history page
type StampHandler struct {
	stampService *stamp.Service
	logger       *slog.Logger
}

// NewStampHandler creates a new StampHandler
func NewStampHandler(stampService *stamp.Service, logger *slog.Logger) *StampHandler {
	return &StampHandler{
		stampService: stampService,
		logger:       logger,
	}
}

// Pin handles the stamp form submitted from the map page
func (h *StampHandler) Pin(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())

	input, err := request.ParsePin(r)
	if err != nil {
		flashError(w, err)
		http.Redirect(w, r, "/map", http.StatusSeeOther)
		return
	}

	created, err := h.stampService.Pin(r.Context(), user.ID, *input)
	if err != nil {
		h.logError(r, user.ID, "pinning stamp", err)
		flashError(w, err)
		http.Redirect(w, r, "/map", http.StatusSeeOther)
		return
	}

	middleware.SetFlash(w, "success",
		fmt.Sprintf("Passport stamped for %s (from %s)!", created.LocationName, created.Source))
	http.Redirect(w, r, "/passport", http.StatusSeeOther)
}

// History shows the paginated stamp history with aggregates
func (h *StampHandler) History(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())

	page, err := h.stampService.History(r.Context(), user.ID, request.ParseHistoryOffset(r))
	if err != nil {
		h.logError(r, user.ID, "loading history", err)
		flashError(w, err)
		http.Redirect(w, r, "/passport", http.StatusSeeOther)
		return
	}

	render(w, r, "history", templates.HistoryData{
		PageData: pageData(r, "History"),
		Page:     page,
	})
}

// Delete removes one of the user's stamps
func (h *StampHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())

	stampID, err := request.ParseDeleteStamp(r)
	if err != nil {
		flashError(w, err)
		http.Redirect(w, r, "/history", http.StatusSeeOther)
		return
	}

	if err := h.stampService.Delete(r.Context(), user.ID, stampID); err != nil {
		flashError(w, err)
		http.Redirect(w, r, "/history", http.StatusSeeOther)
		return
	}

	middleware.SetFlash(w, "success", "Stamp successfully deleted from your passport!")
	http.Redirect(w, r, "/history", http.StatusSeeOther)
}

func (h *StampHandler) logError(r *http.Request, userID int64, msg string, err error) {
	h.logger.Error(msg,
		slog.Int64("user_id", userID),
		slog.String("path", r.URL.Path),
		slog.String("error", err.Error()),
	)
}
