package handler

import (
	"html/template"
	"log/slog"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/evhartley/fiction-passport/internal/services/stamp"
	"github.com/evhartley/fiction-passport/internal/web/middleware"
	"github.com/evhartley/fiction-passport/internal/web/templates"
)

// MapHandler handles the map page
type MapHandler struct {
	stampService *stamp.Service
	logger       *slog.Logger
}

// NewMapHandler creates a new MapHandler
func NewMapHandler(stampService *stamp.Service, logger *slog.Logger) *MapHandler {
	return &MapHandler{
		stampService: stampService,
		logger:       logger,
	}
}

// mapStamp is the JSON shape the Leaflet bootstrap script consumes
type mapStamp struct {
	LocationType string  `json:"location_type"`
	LocationName string  `json:"location_name"`
	Source       string  `json:"source"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
}

// Map shows every stamp on a map, centered on the last pinned place
func (h *MapHandler) Map(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())

	data, err := h.stampService.Map(r.Context(), user.ID)
	if err != nil {
		h.logger.Error("loading map data",
			slog.Int64("user_id", user.ID),
			slog.String("error", err.Error()),
		)
		flashError(w, err)
		http.Redirect(w, r, "/passport", http.StatusSeeOther)
		return
	}

	points := make([]mapStamp, 0, len(data.Stamps))
	for _, s := range data.Stamps {
		points = append(points, mapStamp{
			LocationType: s.LocationType,
			LocationName: s.LocationName,
			Source:       s.Source,
			Latitude:     s.Latitude,
			Longitude:    s.Longitude,
		})
	}

	encoded, err := json.Marshal(points)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	render(w, r, "map", templates.MapViewData{
		PageData:   pageData(r, "Map"),
		StampsJSON: template.JS(encoded),
		CenterLat:  data.CenterLat,
		CenterLon:  data.CenterLon,
	})
}
