package web_test

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"

	"github.com/evhartley/fiction-passport/internal/factory"
	"github.com/evhartley/fiction-passport/internal/web"
)

// webTestServer provides a test server for web interface testing
type webTestServer struct {
	t       *testing.T
	handler http.Handler
	app     *factory.TestApp
	cookies *cookieJar
}

// newWebTestServer creates a new test server with all dependencies wired
func newWebTestServer(t *testing.T) *webTestServer {
	return newWebTestServerWithRate(t, 0)
}

// newWebTestServerWithRate creates a test server with auth rate limiting
func newWebTestServerWithRate(t *testing.T, authRatePerMinute int) *webTestServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	app, err := factory.NewTestApp()
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })

	router := web.NewRouter(web.RouterConfig{
		Logger:            logger,
		AuthService:       app.AuthService,
		StampService:      app.StampService,
		PlanService:       app.PlanService,
		StaticDir:         "", // No static files in tests
		AuthRatePerMinute: authRatePerMinute,
	})

	return &webTestServer{
		t:       t,
		handler: router,
		app:     app,
		cookies: newCookieJar(),
	}
}

// request makes an HTTP request and returns the response
func (ts *webTestServer) request(method, path string, form url.Values) *httptest.ResponseRecorder {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	// Add cookies from jar
	ts.cookies.addTo(req)

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)

	// Extract Set-Cookie headers into jar
	ts.cookies.extract(rr)

	return rr
}

// get makes a GET request
func (ts *webTestServer) get(path string) *httptest.ResponseRecorder {
	return ts.request(http.MethodGet, path, nil)
}

// post makes a POST request with form data
func (ts *webTestServer) post(path string, form url.Values) *httptest.ResponseRecorder {
	return ts.request(http.MethodPost, path, form)
}

// followRedirect follows a redirect and returns the response
func (ts *webTestServer) followRedirect(rr *httptest.ResponseRecorder) *httptest.ResponseRecorder {
	ts.t.Helper()
	location := rr.Header().Get("Location")
	require.NotEmpty(ts.t, location, "Expected Location header for redirect")
	return ts.get(location)
}

// parseHTML parses the response body as HTML
func parseHTML(r io.Reader) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		panic(err)
	}
	return doc
}

// cookieJar maintains cookies across requests (like a browser would)
type cookieJar struct {
	cookies map[string]*http.Cookie
}

func newCookieJar() *cookieJar {
	return &cookieJar{
		cookies: make(map[string]*http.Cookie),
	}
}

// addTo adds all cookies to the request
func (j *cookieJar) addTo(req *http.Request) {
	for _, cookie := range j.cookies {
		req.AddCookie(cookie)
	}
}

// extract extracts Set-Cookie headers from response
func (j *cookieJar) extract(rr *httptest.ResponseRecorder) {
	for _, cookie := range rr.Result().Cookies() {
		if cookie.MaxAge < 0 {
			// Cookie being deleted
			delete(j.cookies, cookie.Name)
		} else {
			j.cookies[cookie.Name] = cookie
		}
	}
}

// hasSession returns true if the session cookie is set
func (j *cookieJar) hasSession() bool {
	_, ok := j.cookies["session"]
	return ok
}

// Helper functions for common test operations

// register signs up a new user and leaves the session cookie in the jar
func (ts *webTestServer) register(username, password string) {
	ts.t.Helper()
	form := url.Values{
		"username":     {username},
		"password":     {password},
		"confirmation": {password},
	}
	rr := ts.post("/register", form)
	require.Equal(ts.t, http.StatusSeeOther, rr.Code, "Expected redirect after registration")
	require.True(ts.t, ts.cookies.hasSession(), "Expected session cookie to be set")
}

// login submits the login form
func (ts *webTestServer) login(username, password string) *httptest.ResponseRecorder {
	ts.t.Helper()
	form := url.Values{
		"username": {username},
		"password": {password},
	}
	return ts.post("/login", form)
}

// pin submits the stamp form from the map page
func (ts *webTestServer) pin(locationType, locationName, source, means, lat, lon string) *httptest.ResponseRecorder {
	ts.t.Helper()
	form := url.Values{
		"location_type": {locationType},
		"location_name": {locationName},
		"source":        {source},
		"means":         {means},
		"latitude":      {lat},
		"longitude":     {lon},
	}
	return ts.post("/pin", form)
}

// mustPin pins a stamp and requires success
func (ts *webTestServer) mustPin(locationType, locationName, source, means, lat, lon string) {
	ts.t.Helper()
	rr := ts.pin(locationType, locationName, source, means, lat, lon)
	require.Equal(ts.t, http.StatusSeeOther, rr.Code, "Expected redirect after pinning")
	require.Equal(ts.t, "/passport", rr.Header().Get("Location"))
}

// firstStampID reads the first delete form's stamp ID off a history page
func firstStampID(t *testing.T, doc *goquery.Document) string {
	t.Helper()
	id, ok := doc.Find("input[name='stamp_id']").First().Attr("value")
	require.True(t, ok, "Expected a stamp_id input on the history page")
	return id
}

// Assertion helpers

// assertContainsElement asserts that the document contains an element matching the selector
func assertContainsElement(t *testing.T, doc *goquery.Document, selector string) {
	t.Helper()
	if doc.Find(selector).Length() == 0 {
		t.Errorf("Expected to find element matching %q, but none found", selector)
	}
}

// assertNotContainsElement asserts that the document does not contain an element matching the selector
func assertNotContainsElement(t *testing.T, doc *goquery.Document, selector string) {
	t.Helper()
	if doc.Find(selector).Length() > 0 {
		t.Errorf("Expected NOT to find element matching %q, but found %d", selector, doc.Find(selector).Length())
	}
}

// assertContainsText asserts that the element matching the selector contains the text
func assertContainsText(t *testing.T, doc *goquery.Document, selector, text string) {
	t.Helper()
	el := doc.Find(selector)
	if el.Length() == 0 {
		t.Errorf("Expected to find element matching %q, but none found", selector)
		return
	}
	if !strings.Contains(el.Text(), text) {
		t.Errorf("Expected element %q to contain %q, but got %q", selector, text, el.Text())
	}
}

// assertFlash asserts that the page shows a flash message containing the text
func assertFlash(t *testing.T, doc *goquery.Document, text string) {
	t.Helper()
	assertContainsText(t, doc, ".flash", text)
}
