package web_test

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestFullJourney walks the whole flow a traveler would: sign up, come
// back later, stamp a place, review it and remove it again.
func TestFullJourney(t *testing.T) {
	ts := newWebTestServer(t)

	// Sign up and land on the passport page
	ts.register("wanderer", "longenough")
	doc := parseHTML(ts.get("/passport").Body)
	assertContainsText(t, doc, "h1", "Welcome, Wanderer!")
	assertContainsText(t, doc, ".stamp-count", "0 stamps")

	// Leave and come back
	ts.get("/logout")
	rr := ts.login("wanderer", "longenough")
	require.Equal(t, http.StatusSeeOther, rr.Code)
	require.True(t, ts.cookies.hasSession())

	// Stamp a real place
	rr = ts.pin("real", "Devils Tower", "Close Encounters of the Third Kind", "film", "44.5902", "-104.7146")
	require.Equal(t, http.StatusSeeOther, rr.Code)
	doc = parseHTML(ts.followRedirect(rr).Body)
	assertFlash(t, doc, "Passport stamped for Devils Tower (from Close Encounters of the Third Kind)!")
	assertContainsText(t, doc, ".stamp-count", "1 stamp")

	// The stamp shows up in history, dated but without a time of day
	doc = parseHTML(ts.get("/history").Body)
	assert.Equal(t, 1, doc.Find("table.stamps tbody tr").Length())
	assertContainsText(t, doc, "table.stamps", "Devils Tower")
	assert.Equal(t, "2024-01-01", doc.Find("table.stamps tbody tr td").First().Text())

	// And on the map
	body := ts.get("/map").Body.String()
	assert.Contains(t, body, `"location_name":"Devils Tower"`)

	// Remove it again
	stampID := firstStampID(t, doc)
	rr = ts.post("/delete_stamp", url.Values{"stamp_id": {stampID}})
	doc = parseHTML(ts.followRedirect(rr).Body)
	assertFlash(t, doc, "Stamp successfully deleted from your passport!")
	assertContainsText(t, doc, "main", "No stamps yet")

	doc = parseHTML(ts.get("/passport").Body)
	assertContainsText(t, doc, ".stamp-count", "0 stamps")
}

// TestHomeRedirectsWhenAuthenticated covers the landing page both ways
func TestHomeRedirectsWhenAuthenticated(t *testing.T) {
	ts := newWebTestServer(t)

	rr := ts.get("/")
	assert.Equal(t, http.StatusOK, rr.Code)
	doc := parseHTML(rr.Body)
	assertContainsText(t, doc, "nav", "Log in")

	ts.register("alice", "secret123")
	rr = ts.get("/")
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/passport", rr.Header().Get("Location"))
}

// TestPlanPageNotConfigured covers the planner page when no API key is set
func TestPlanPageNotConfigured(t *testing.T) {
	ts := newWebTestServer(t)
	ts.register("alice", "secret123")

	rr := ts.get("/plan")
	assert.Equal(t, http.StatusOK, rr.Code)
	doc := parseHTML(rr.Body)
	assertContainsText(t, doc, "main", "not configured")

	rr = ts.post("/plan", url.Values{"prompt": {"a weekend of gothic novels"}})
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	doc = parseHTML(ts.followRedirect(rr).Body)
	assertFlash(t, doc, "The planner is not configured on this server.")
}
