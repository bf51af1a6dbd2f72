package request

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evhartley/fiction-passport/internal/model"
)

func formRequest(form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestParseRegisterConfirmationMismatch(t *testing.T) {
	_, err := ParseRegister(formRequest(url.Values{
		"username":     {"alice"},
		"password":     {"secret123"},
		"confirmation": {"secret124"},
	}))
	require.ErrorIs(t, err, model.ErrValidation)
	assert.Contains(t, err.Error(), "passwords do not match")

	_, err = ParseRegister(formRequest(url.Values{
		"username": {"alice"},
		"password": {"secret123"},
	}))
	require.ErrorIs(t, err, model.ErrValidation)
}

func TestParsePin(t *testing.T) {
	input, err := ParsePin(formRequest(url.Values{
		"location_type": {" real "},
		"location_name": {" King's Cross "},
		"source":        {"Harry Potter"},
		"means":         {"book"},
		"latitude":      {" 51.5322 "},
		"longitude":     {"-0.1239"},
	}))
	require.NoError(t, err)

	assert.Equal(t, "real", input.LocationType)
	assert.Equal(t, "King's Cross", input.LocationName)
	assert.Equal(t, 51.5322, input.Latitude)
	assert.Equal(t, -0.1239, input.Longitude)
}

func TestParsePinBadCoordinates(t *testing.T) {
	for _, lat := range []string{"", "abc", "51,5"} {
		_, err := ParsePin(formRequest(url.Values{
			"location_type": {"real"},
			"location_name": {"Somewhere"},
			"source":        {"Some Book"},
			"latitude":      {lat},
			"longitude":     {"0"},
		}))
		require.ErrorIs(t, err, model.ErrValidation, "latitude %q", lat)
		assert.Contains(t, err.Error(), "click on the map")
	}
}

func TestParseDeleteStamp(t *testing.T) {
	id, err := ParseDeleteStamp(formRequest(url.Values{"stamp_id": {"42"}}))
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	_, err = ParseDeleteStamp(formRequest(url.Values{}))
	require.ErrorIs(t, err, model.ErrValidation)
	assert.Contains(t, err.Error(), "no stamp ID")

	_, err = ParseDeleteStamp(formRequest(url.Values{"stamp_id": {"abc"}}))
	require.ErrorIs(t, err, model.ErrValidation)
	assert.Contains(t, err.Error(), "invalid stamp ID")
}

func TestParseHistoryOffset(t *testing.T) {
	cases := map[string]int{
		"":       0,
		"abc":    0,
		"10":     10,
		"-5":     -5,
		"2.5":    0,
		"999999": 999999,
	}
	for raw, want := range cases {
		req := httptest.NewRequest(http.MethodGet, "/history?offset="+raw, nil)
		assert.Equal(t, want, ParseHistoryOffset(req), "offset %q", raw)
	}
}
