// Package request defines the typed form schema for each endpoint.
// Handlers parse into these before any business logic runs; untyped form
// values never travel further than this package.
package request

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/evhartley/fiction-passport/internal/model"
	"github.com/evhartley/fiction-passport/internal/services/stamp"
)

// LoginForm is the POST /login payload
type LoginForm struct {
	Username string
	Password string
	Next     string
}

// ParseLogin extracts the login form
func ParseLogin(r *http.Request) (*LoginForm, error) {
	if err := r.ParseForm(); err != nil {
		return nil, fmt.Errorf("%w: invalid form data", model.ErrValidation)
	}
	return &LoginForm{
		Username: r.FormValue("username"),
		Password: r.FormValue("password"),
		Next:     r.FormValue("next"),
	}, nil
}

// RegisterForm is the POST /register payload
type RegisterForm struct {
	Username     string
	Password     string
	Confirmation string
}

// ParseRegister extracts and validates the registration form. Password
// presence and length are the auth service's business; the
// confirmation match is purely a form concern and is checked here.
func ParseRegister(r *http.Request) (*RegisterForm, error) {
	if err := r.ParseForm(); err != nil {
		return nil, fmt.Errorf("%w: invalid form data", model.ErrValidation)
	}

	form := &RegisterForm{
		Username:     r.FormValue("username"),
		Password:     r.FormValue("password"),
		Confirmation: r.FormValue("confirmation"),
	}

	if form.Confirmation == "" || form.Password != form.Confirmation {
		return nil, fmt.Errorf("%w: passwords do not match", model.ErrValidation)
	}

	return form, nil
}

// ParsePin extracts the POST /pin payload into a typed PinInput.
// Coordinates arrive as strings from the map form; anything that does
// not parse as a number is a validation failure.
func ParsePin(r *http.Request) (*stamp.PinInput, error) {
	if err := r.ParseForm(); err != nil {
		return nil, fmt.Errorf("%w: invalid form data", model.ErrValidation)
	}

	lat, latErr := strconv.ParseFloat(strings.TrimSpace(r.FormValue("latitude")), 64)
	lon, lonErr := strconv.ParseFloat(strings.TrimSpace(r.FormValue("longitude")), 64)
	if latErr != nil || lonErr != nil {
		return nil, fmt.Errorf("%w: invalid coordinates received, please click on the map", model.ErrValidation)
	}

	return &stamp.PinInput{
		LocationType: strings.TrimSpace(r.FormValue("location_type")),
		LocationName: strings.TrimSpace(r.FormValue("location_name")),
		Source:       strings.TrimSpace(r.FormValue("source")),
		Means:        strings.TrimSpace(r.FormValue("means")),
		Latitude:     lat,
		Longitude:    lon,
	}, nil
}

// ParseDeleteStamp extracts the POST /delete_stamp payload
func ParseDeleteStamp(r *http.Request) (int64, error) {
	if err := r.ParseForm(); err != nil {
		return 0, fmt.Errorf("%w: invalid form data", model.ErrValidation)
	}

	raw := r.FormValue("stamp_id")
	if raw == "" {
		return 0, fmt.Errorf("%w: no stamp ID provided for deletion", model.ErrValidation)
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid stamp ID format", model.ErrValidation)
	}

	return id, nil
}

// ParseHistoryOffset reads the requested history count. Garbage and
// missing values come back as zero; the stamp service applies the
// default silently, as the UI expects.
func ParseHistoryOffset(r *http.Request) int {
	n, err := strconv.Atoi(r.URL.Query().Get("offset"))
	if err != nil {
		return 0
	}
	return n
}

// ParsePlan extracts the POST /plan payload
func ParsePlan(r *http.Request) (string, error) {
	if err := r.ParseForm(); err != nil {
		return "", fmt.Errorf("%w: invalid form data", model.ErrValidation)
	}
	return r.FormValue("prompt"), nil
}
