package integration

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/feastline/prelaunch/config"
	"github.com/feastline/prelaunch/config/router"
	"github.com/feastline/prelaunch/domain"
	"github.com/feastline/prelaunch/internal/log"
)

// fakeBackend stands in for the remote waitlist service. The email address in
// a submission selects the scripted outcome.
type fakeBackend struct {
	mu       sync.Mutex
	requests [][]byte
	paths    []string
}

func (f *fakeBackend) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)

		f.mu.Lock()
		f.requests = append(f.requests, body)
		f.paths = append(f.paths, r.URL.Path)
		f.mu.Unlock()

		var entry struct {
			Email string `json:"email"`
		}
		_ = json.Unmarshal(body, &entry)

		w.Header().Set("Content-Type", "application/json")

		switch {
		case strings.HasPrefix(entry.Email, "dup@"):
			w.WriteHeader(http.StatusConflict)
			_, _ = w.Write([]byte(`{"message":"Email already registered"}`))
		case strings.HasPrefix(entry.Email, "boom@"):
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte("upstream exploded"))
		default:
			_, _ = w.Write([]byte(`{"message":"Thanks for joining!"}`))
		}
	}
}

func (f *fakeBackend) lastRequest() ([]byte, string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.requests) == 0 {
		return nil, ""
	}
	return f.requests[len(f.requests)-1], f.paths[len(f.paths)-1]
}

type SiteTestSuite struct {
	suite.Suite
	backend       *fakeBackend
	backendServer *httptest.Server
	server        *httptest.Server
	baseURL       string
	launchAt      time.Time
	appConfig     *config.ApplicationConfig
}

func (suite *SiteTestSuite) SetupSuite() {
	suite.backend = &fakeBackend{}
	suite.backendServer = httptest.NewServer(suite.backend.handler())

	logger := log.NewLoggerWithJSONOutput()
	suite.launchAt = time.Now().Add(72 * time.Hour).Truncate(time.Second)

	suite.appConfig = &config.ApplicationConfig{
		Logger: logger,
		Config: &config.AppConfig{
			RateLimitRequests: 1000,
			RateLimitWindow:   time.Minute,
			RequestTimeout:    30 * time.Second,
			LaunchAt:          suite.launchAt,
			BackendBaseURL:    suite.backendServer.URL,
			UpstreamTimeout:   5 * time.Second,
		},
	}

	suite.appConfig.RouterService = router.CreateRouterService(logger, nil, &router.RouterConfig{
		RateLimitRequests: 1000,
		RateLimitWindow:   time.Minute,
		RequestTimeout:    30 * time.Second,
	})

	domain.SetupCoreDomain(suite.appConfig)

	suite.server = httptest.NewServer(suite.appConfig.RouterService.GetEngine())
	suite.baseURL = suite.server.URL
}

func (suite *SiteTestSuite) TearDownSuite() {
	if suite.server != nil {
		suite.server.Close()
	}
	if suite.backendServer != nil {
		suite.backendServer.Close()
	}
}

func (suite *SiteTestSuite) postJSON(path string, payload any) (*http.Response, map[string]interface{}) {
	jsonBody, err := json.Marshal(payload)
	suite.Require().NoError(err)

	resp, err := http.Post(suite.baseURL+path, "application/json", bytes.NewReader(jsonBody))
	suite.Require().NoError(err)

	var body map[string]interface{}
	err = json.NewDecoder(resp.Body).Decode(&body)
	resp.Body.Close()
	suite.Require().NoError(err)

	return resp, body
}

func (suite *SiteTestSuite) TestHealthCheck() {
	resp, err := http.Get(suite.baseURL + "/health")
	suite.Require().NoError(err)
	defer resp.Body.Close()

	suite.Equal(http.StatusOK, resp.StatusCode)

	var response map[string]interface{}
	err = json.NewDecoder(resp.Body).Decode(&response)
	suite.Require().NoError(err)

	suite.Equal(float64(200), response["code"])
	suite.Contains(response["message"], "health check completed")

	data := response["data"].(map[string]interface{})
	suite.Contains(data, "uptime")
	suite.Equal(float64(1), data["backend"])
}

func (suite *SiteTestSuite) TestLandingPageRenders() {
	resp, err := http.Get(suite.baseURL + "/")
	suite.Require().NoError(err)
	defer resp.Body.Close()

	suite.Equal(http.StatusOK, resp.StatusCode)
	suite.Contains(resp.Header.Get("Content-Type"), "text/html")

	html, err := io.ReadAll(resp.Body)
	suite.Require().NoError(err)

	page := string(html)
	suite.Contains(page, `data-section="hero"`)
	suite.Contains(page, `data-section="how-it-works"`)
	suite.Contains(page, `id="waitlist-form"`)
	suite.Contains(page, `id="cd-days"`)

	// First visit mints the visitor cookie.
	foundCookie := false
	for _, c := range resp.Cookies() {
		if c.Name == "fl_visitor" && c.Value != "" {
			foundCookie = true
		}
	}
	suite.True(foundCookie, "expected a visitor cookie on first page load")
}

func (suite *SiteTestSuite) TestCountdownSnapshot() {
	before := time.Now()
	resp, err := http.Get(suite.baseURL + "/v1/countdown")
	suite.Require().NoError(err)
	defer resp.Body.Close()

	suite.Equal(http.StatusOK, resp.StatusCode)

	var response struct {
		Code int `json:"code"`
		Data struct {
			Days     int    `json:"days"`
			Hours    int    `json:"hours"`
			Minutes  int    `json:"minutes"`
			Seconds  int    `json:"seconds"`
			Expired  bool   `json:"expired"`
			LaunchAt string `json:"launch_at"`
		} `json:"data"`
	}
	err = json.NewDecoder(resp.Body).Decode(&response)
	suite.Require().NoError(err)

	suite.False(response.Data.Expired)
	suite.GreaterOrEqual(response.Data.Hours, 0)
	suite.Less(response.Data.Hours, 24)
	suite.GreaterOrEqual(response.Data.Minutes, 0)
	suite.Less(response.Data.Minutes, 60)
	suite.GreaterOrEqual(response.Data.Seconds, 0)
	suite.Less(response.Data.Seconds, 60)

	// The breakdown must reconstruct to the true remaining time within one tick.
	reconstructed := time.Duration(response.Data.Days)*24*time.Hour +
		time.Duration(response.Data.Hours)*time.Hour +
		time.Duration(response.Data.Minutes)*time.Minute +
		time.Duration(response.Data.Seconds)*time.Second
	actual := suite.launchAt.Sub(before)
	suite.InDelta(actual.Milliseconds(), reconstructed.Milliseconds(), 1500)
}

func (suite *SiteTestSuite) TestWaitlistForwardsExactPayload() {
	resp, body := suite.postJSON("/v1/waitlist", map[string]string{
		"email": "jane@example.com",
		"name":  "Jane Doe",
	})

	suite.Equal(http.StatusOK, resp.StatusCode)
	suite.Equal(float64(200), body["code"])

	data := body["data"].(map[string]interface{})
	suite.Equal("Thanks for joining!", data["message"])

	raw, path := suite.backend.lastRequest()
	suite.Equal("/auth/wait-list", path)
	suite.Equal(`{"email":"jane@example.com","name":"Jane Doe","restaurantName":""}`, string(raw))
}

func (suite *SiteTestSuite) TestWaitlistSurfacesBackendMessage() {
	resp, body := suite.postJSON("/v1/waitlist", map[string]string{
		"email": "dup@example.com",
		"name":  "Jane Doe",
	})

	suite.Equal(http.StatusBadGateway, resp.StatusCode)
	suite.Equal("Email already registered", body["message"])
}

func (suite *SiteTestSuite) TestWaitlistGenericMessageOnOpaqueFailure() {
	resp, body := suite.postJSON("/v1/waitlist", map[string]string{
		"email": "boom@example.com",
		"name":  "Jane Doe",
	})

	suite.Equal(http.StatusBadGateway, resp.StatusCode)
	suite.Equal("Something went wrong. Please try again later.", body["message"])
}

func (suite *SiteTestSuite) TestWaitlistValidation() {
	resp, body := suite.postJSON("/v1/waitlist", map[string]string{
		"email": "not-an-email",
		"name":  "",
	})

	suite.Equal(http.StatusBadRequest, resp.StatusCode)
	suite.Contains(body["message"], "Invalid request payload")

	data := body["data"].([]interface{})
	suite.True(len(data) > 0)
}

func (suite *SiteTestSuite) TestSectionRevealHappensOncePerVisitor() {
	jar, err := cookiejar.New(nil)
	suite.Require().NoError(err)
	client := &http.Client{Jar: jar}

	// Load the page first so the client holds a visitor cookie.
	pageResp, err := client.Get(suite.baseURL + "/")
	suite.Require().NoError(err)
	pageResp.Body.Close()

	post := func() map[string]interface{} {
		jsonBody, _ := json.Marshal(map[string]string{"section": "solution"})
		resp, err := client.Post(suite.baseURL+"/v1/page/seen", "application/json", bytes.NewReader(jsonBody))
		suite.Require().NoError(err)
		defer resp.Body.Close()
		suite.Equal(http.StatusOK, resp.StatusCode)

		var body map[string]interface{}
		suite.Require().NoError(json.NewDecoder(resp.Body).Decode(&body))
		return body["data"].(map[string]interface{})
	}

	first := post()
	suite.Equal(true, first["first_view"])

	second := post()
	suite.Equal(false, second["first_view"])

	// The next render arrives pre-revealed so the animation never replays.
	resp, err := client.Get(suite.baseURL + "/")
	suite.Require().NoError(err)
	defer resp.Body.Close()

	html, err := io.ReadAll(resp.Body)
	suite.Require().NoError(err)
	suite.Contains(string(html), `data-section="solution" aria-label="Solution" class="section revealed"`)
}

func (suite *SiteTestSuite) TestSectionRevealRejectsUnknownSection() {
	resp, body := suite.postJSON("/v1/page/seen", map[string]string{"section": "sidebar"})

	suite.Equal(http.StatusBadRequest, resp.StatusCode)
	suite.Contains(body["message"], "unknown section")
}

func (suite *SiteTestSuite) TestStaticAssetsServed() {
	resp, err := http.Get(suite.baseURL + "/static/site.js")
	suite.Require().NoError(err)
	defer resp.Body.Close()

	suite.Equal(http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	suite.Require().NoError(err)
	suite.Contains(string(body), "IntersectionObserver")
}

func (suite *SiteTestSuite) TestMetricsExposed() {
	resp, err := http.Get(suite.baseURL + "/metrics")
	suite.Require().NoError(err)
	defer resp.Body.Close()

	suite.Equal(http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	suite.Require().NoError(err)
	suite.Contains(string(body), "http_requests_total")
}

func TestSiteSuite(t *testing.T) {
	suite.Run(t, new(SiteTestSuite))
}
