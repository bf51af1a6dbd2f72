// Package templates renders the server-side HTML pages from templates
// embedded at build time.
package templates

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/evhartley/fiction-passport/internal/model"
	"github.com/evhartley/fiction-passport/internal/services/stamp"
)

//go:embed *.gohtml
var files embed.FS

var pages = template.Must(template.ParseFS(files, "*.gohtml"))

// FlashMessage is a one-shot notification shown at the top of the next page
type FlashMessage struct {
	Type    string // "success", "danger", "info"
	Message string
}

// PageData carries what the shared layout needs on every page
type PageData struct {
	Title string
	User  *model.User
	Flash *FlashMessage
}

// HomeData is the welcome page payload
type HomeData struct {
	PageData
}

// LoginData is the login page payload
type LoginData struct {
	PageData
	Next string
}

// RegisterData is the registration page payload
type RegisterData struct {
	PageData
}

// PassportData is the summary page payload
type PassportData struct {
	PageData
	DisplayName string
	StampCount  int64
}

// HistoryData is the history page payload
type HistoryData struct {
	PageData
	Page *stamp.HistoryPage
}

// MapViewData is the map page payload. StampsJSON is pre-marshaled for
// the Leaflet bootstrap script.
type MapViewData struct {
	PageData
	StampsJSON template.JS
	CenterLat  float64
	CenterLon  float64
}

// PlanData is the adventure planner page payload. It never carries the
// API key; the server makes the upstream call itself.
type PlanData struct {
	PageData
	Configured bool
	Prompt     string
	Itinerary  string
}

// Render writes the named page template
func Render(w io.Writer, name string, data any) error {
	if err := pages.ExecuteTemplate(w, name, data); err != nil {
		return fmt.Errorf("rendering %s: %w", name, err)
	}
	return nil
}
