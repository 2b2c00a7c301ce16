package widget

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/discord-lookup/internal/apperror"
	"github.com/sakif/discord-lookup/internal/model"
)

func newLookupServer(t *testing.T, status int, body string) (*Client, *int) {
	t.Helper()
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, LookupPath, r.URL.Path)
		assert.Equal(t, http.MethodGet, r.Method)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	c, err := NewClient(srv.URL, srv.Client())
	require.NoError(t, err)
	return c, &calls
}

func TestClientSendsID(t *testing.T) {
	var gotID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = r.URL.Query().Get("id")
		w.Write([]byte(`{"id":"42"}`))
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL+"/", nil)
	require.NoError(t, err)

	resp, err := c.Lookup(context.Background(), "42")
	require.NoError(t, err)
	assert.Equal(t, "42", gotID)
	assert.True(t, resp.Found())
}

func TestClientShapes(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		wantFound bool
		wantError string
	}{
		{name: "profile", status: 200, body: `{"id":"1","username":"a"}`, wantFound: true},
		{name: "structured error on 502", status: 502, body: `{"error":"invalid snowflake"}`, wantError: "invalid snowflake"},
		{name: "error wins over id", status: 200, body: `{"id":"1","error":"nope"}`, wantError: "nope"},
		{name: "numeric error", status: 400, body: `{"error":404}`, wantError: "404"},
		{name: "not found shape", status: 404, body: `{"message":"user not found"}`},
		{name: "empty id", status: 200, body: `{"id":""}`},
		{name: "falsy error ignored", status: 200, body: `{"error":"","id":"9"}`, wantFound: true},
		{name: "false error ignored", status: 200, body: `{"error":false}`},
		{name: "numeric id", status: 200, body: `{"id":42}`, wantFound: true},
		{name: "zero id", status: 200, body: `{"id":0}`},
		{name: "false id", status: 200, body: `{"id":false}`},
		{name: "null id", status: 200, body: `{"id":null}`},
		{name: "array body", status: 200, body: `[{"id":"1"}]`},
		{name: "number body", status: 200, body: `42`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, calls := newLookupServer(t, tt.status, tt.body)

			resp, err := c.Lookup(context.Background(), "1")
			require.NoError(t, err)
			assert.Equal(t, 1, *calls)
			assert.Equal(t, tt.wantFound, resp.Found())
			assert.Equal(t, tt.wantError != "", resp.HasError)
			assert.Equal(t, tt.wantError, resp.ErrorMessage)
		})
	}
}

func TestClientParseFailureIsTransport(t *testing.T) {
	c, _ := newLookupServer(t, http.StatusInternalServerError, "missing bot token\n")

	_, err := c.Lookup(context.Background(), "1")

	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrTransport))
	assert.Equal(t, MsgRequestFailed, apperror.Message(err))
}

func TestClientNullBodyIsTransport(t *testing.T) {
	c, _ := newLookupServer(t, http.StatusOK, "null")

	_, err := c.Lookup(context.Background(), "1")

	assert.True(t, errors.Is(err, apperror.ErrTransport))
}

// One unreadable field must not cost the rest of the record.
func TestClientToleratesBadFields(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		check func(t *testing.T, rec model.ProfileRecord)
	}{
		{"float accent", `{"id":"42","username":"bob","accent_color":1.5}`, func(t *testing.T, rec model.ProfileRecord) {
			require.NotNil(t, rec.AccentColor)
			assert.Equal(t, int64(1), *rec.AccentColor)
		}},
		{"string accent", `{"id":"42","username":"bob","accent_color":"ff0000"}`, func(t *testing.T, rec model.ProfileRecord) {
			assert.Nil(t, rec.AccentColor)
		}},
		{"string bot", `{"id":"42","username":"bob","bot":"true"}`, func(t *testing.T, rec model.ProfileRecord) {
			assert.True(t, rec.Bot)
		}},
		{"numeric created_at", `{"id":"42","username":"bob","created_at":1420070400000}`, func(t *testing.T, rec model.ProfileRecord) {
			assert.Equal(t, "2015-01-01T00:00:00Z", rec.CreatedAt)
		}},
		{"string badges", `{"id":"42","username":"bob","badges":"House Bravery"}`, func(t *testing.T, rec model.ProfileRecord) {
			assert.Nil(t, rec.Badges)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newLookupServer(t, http.StatusOK, tt.body)

			resp, err := c.Lookup(context.Background(), "42")
			require.NoError(t, err)
			require.True(t, resp.Found())
			assert.False(t, resp.HasError)
			assert.Equal(t, "bob", resp.Record.Username)
			tt.check(t, resp.Record)
		})
	}
}

func TestClientNetworkFailureIsTransport(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := NewClient(url, nil)
	require.NoError(t, err)

	_, err = c.Lookup(context.Background(), "1")
	assert.True(t, errors.Is(err, apperror.ErrTransport))
}

func TestNewClientRejectsRelativeURL(t *testing.T) {
	_, err := NewClient("/lookup", nil)
	assert.Error(t, err)
}
