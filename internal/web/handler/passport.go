package handler

import (
	"log/slog"
	"net/http"

	"github.com/evhartley/fiction-passport/internal/services/stamp"
	"github.com/evhartley/fiction-passport/internal/web/middleware"
	"github.com/evhartley/fiction-passport/internal/web/templates"
)

// PassportHandler handles the passport summary page
type PassportHandler struct {
	stampService *stamp.Service
	logger       *slog.Logger
}

// NewPassportHandler creates a new PassportHandler
func NewPassportHandler(stampService *stamp.Service, logger *slog.Logger) *PassportHandler {
	return &PassportHandler{
		stampService: stampService,
		logger:       logger,
	}
}

// Passport shows the user's summary: greeting and stamp count
func (h *PassportHandler) Passport(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())

	count, err := h.stampService.Count(r.Context(), user.ID)
	if err != nil {
		h.logger.Error("counting stamps", slog.Int64("user_id", user.ID), slog.String("error", err.Error()))
		count = 0
	}

	render(w, r, "passport", templates.PassportData{
		PageData:    pageData(r, "Passport"),
		DisplayName: user.DisplayName(),
		StampCount:  count,
	})
}
