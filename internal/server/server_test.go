package server

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/discord-lookup/internal/config"
)

// fakeDiscord answers /users/{id} for one known user and 404 otherwise.
func fakeDiscord(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/users/175928847299117063" {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"message":"Unknown User","code":10013}`))
			return
		}
		w.Write([]byte(`{"id":"175928847299117063","username":"nelly","global_name":"Nelly","discriminator":"0","avatar":null,"public_flags":128}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(discordURL string) *config.Config {
	return &config.Config{
		Server:    config.ServerConfig{Host: "127.0.0.1", Port: 0, BaseURL: "http://127.0.0.1:1"},
		Discord:   config.DiscordConfig{Token: "tok", APIBase: discordURL, Timeout: 5 * time.Second},
		Database:  config.DatabaseConfig{Path: ":memory:"},
		RateLimit: config.RateLimitConfig{Requests: 100, Window: time.Minute},
		Widget:    config.WidgetConfig{LookupBaseURL: "http://127.0.0.1:1"},
	}
}

func newTestServer(t *testing.T, cfg *config.Config) *Server {
	t.Helper()
	s, err := New(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func get(s *Server, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t, testConfig(fakeDiscord(t).URL))

	rec := get(s, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestLookupEndToEnd(t *testing.T) {
	s := newTestServer(t, testConfig(fakeDiscord(t).URL))

	rec := get(s, "/lookup?id=175928847299117063")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "175928847299117063", body["id"])
	assert.Equal(t, "Nelly", body["display_name"])
	assert.Equal(t, "https://cdn.discordapp.com/embed/avatars/3.png", body["avatar"])
	assert.Equal(t, []any{"House Brilliance"}, body["badges"])
	assert.Equal(t, "128", body["flags"])
	assert.Equal(t, "2016-04-30T11:18:25Z", body["created_at"])
	assert.Contains(t, body, "searched_at")

	rec = get(s, "/lookup?id=1")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"message":"user not found"}`, rec.Body.String())

	rec = get(s, "/lookup?id=nope")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"invalid id"}`, rec.Body.String())

	// Every outcome above is in the history.
	rec = get(s, "/api/lookups")
	require.Equal(t, http.StatusOK, rec.Code)
	var history []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &history))
	require.Len(t, history, 3)
	outcomes := []any{history[0]["outcome"], history[1]["outcome"], history[2]["outcome"]}
	assert.ElementsMatch(t, []any{"found", "not_found", "invalid"}, outcomes)
}

func TestLookupMissingToken(t *testing.T) {
	cfg := testConfig(fakeDiscord(t).URL)
	cfg.Discord.Token = ""
	s := newTestServer(t, cfg)

	rec := get(s, "/lookup?id=175928847299117063")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.JSONEq(t, `{"error":"missing bot token"}`, rec.Body.String())
}

func TestLookupPreflight(t *testing.T) {
	s := newTestServer(t, testConfig(fakeDiscord(t).URL))

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/lookup", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestLookupRateLimited(t *testing.T) {
	cfg := testConfig(fakeDiscord(t).URL)
	cfg.RateLimit = config.RateLimitConfig{Requests: 2, Window: time.Minute}
	s := newTestServer(t, cfg)

	for i := 0; i < 2; i++ {
		assert.Equal(t, http.StatusBadRequest, get(s, "/lookup?id=x").Code)
	}
	rec := get(s, "/lookup?id=x")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.JSONEq(t, `{"error":"too many requests"}`, rec.Body.String())

	// Other routes are not limited.
	assert.Equal(t, http.StatusOK, get(s, "/healthz").Code)
}

func TestStaticAndMetrics(t *testing.T) {
	s := newTestServer(t, testConfig(fakeDiscord(t).URL))

	rec := get(s, "/static/img/bravery.svg")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<svg")

	get(s, "/lookup?id=")
	rec = get(s, "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "discord_lookup_lookups_total")
}

// TestWidgetPageUsesLookupAPI runs the page against a live listener so the
// widget client can call back into /lookup.
func TestWidgetPageUsesLookupAPI(t *testing.T) {
	ts := httptest.NewUnstartedServer(nil)
	base := "http://" + ts.Listener.Addr().String()

	cfg := testConfig(fakeDiscord(t).URL)
	cfg.Server.BaseURL = base
	cfg.Widget.LookupBaseURL = base
	s := newTestServer(t, cfg)

	ts.Config.Handler = s.Handler()
	ts.Start()
	t.Cleanup(ts.Close)

	res, err := http.Get(base + "/?id=175928847299117063")
	require.NoError(t, err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)

	page := string(body)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, page, `id="card"`)
	assert.Contains(t, page, "Nelly")
	assert.Contains(t, page, "@nelly")
	assert.Contains(t, page, "/static/img/brilliance.svg")
	assert.Contains(t, page, "Apr 30, 2016")

	res2, err := http.Get(base + "/?id=1")
	require.NoError(t, err)
	defer res2.Body.Close()
	body2, _ := io.ReadAll(res2.Body)
	assert.True(t, strings.Contains(string(body2), ">not found</div>"))
}
