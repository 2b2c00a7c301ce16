package widget

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sakif/discord-lookup/internal/apperror"
	"github.com/sakif/discord-lookup/internal/model"
)

const (
	LookupPath = "/lookup"

	maxResponseBytes = 1 << 20 // 1 MiB
)

// Response is a decoded /lookup body.
//
// The three shapes of the endpoint map onto it as:
//
//	{"error": "..."}        HasError, ErrorMessage
//	{"id": "...", ...}      Found()
//	anything else           neither: not found
type Response struct {
	HasError     bool
	ErrorMessage string
	Record       model.ProfileRecord
}

// Found reports whether the body carried a truthy id. 0, false and "" decode
// to an empty ID, so they read as not found.
func (r *Response) Found() bool {
	return r.Record.ID != ""
}

// Lookuper resolves a validated identifier. Implementations perform exactly
// one request per call.
type Lookuper interface {
	Lookup(ctx context.Context, id string) (*Response, error)
}

// Client calls GET {base}/lookup?id={id}.
type Client struct {
	base *url.URL
	http *http.Client
}

var _ Lookuper = (*Client)(nil)

// NewClient builds a Client for the backend at baseURL. A nil httpClient
// means http.DefaultClient; no timeout is added here.
func NewClient(baseURL string, httpClient *http.Client) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("widget: parsing lookup base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("widget: lookup base url %q must be absolute", baseURL)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{base: base, http: httpClient}, nil
}

// Lookup issues the request and decodes the body whatever the status code;
// the body alone decides the outcome. Network and JSON faults come back as
// apperror.ErrTransport.
func (c *Client) Lookup(ctx context.Context, id string) (*Response, error) {
	u := c.base.JoinPath(LookupPath)
	u.RawQuery = url.Values{"id": {id}}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, apperror.Transport(err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	res, err := c.http.Do(req)
	if err != nil {
		return nil, apperror.Transport(err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, maxResponseBytes))
	if err != nil {
		return nil, apperror.Transport(err)
	}

	resp, err := decodeResponse(body)
	if err != nil {
		return nil, apperror.Transport(fmt.Errorf("decoding %s response (status %d, %s): %w",
			LookupPath, res.StatusCode, time.Since(start).Round(time.Millisecond), err))
	}
	return resp, nil
}

var errNullBody = errors.New("response body is null")

// decodeResponse treats a null body as a fault and any other non-object as
// not found. Object fields are read leniently so one bad field never hides
// the rest.
func decodeResponse(body []byte) (*Response, error) {
	var top any
	if err := json.Unmarshal(body, &top); err != nil {
		return nil, err
	}
	if top == nil {
		return nil, errNullBody
	}
	if _, ok := top.(map[string]any); !ok {
		return &Response{}, nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, err
	}

	resp := &Response{}
	if msg, ok := truthyMessage(fields["error"]); ok {
		resp.HasError = true
		resp.ErrorMessage = msg
		return resp, nil
	}

	if err := json.Unmarshal(body, &resp.Record); err != nil {
		return nil, err
	}
	return resp, nil
}

// truthyMessage reports whether an "error" value counts as set. null, false,
// "" and 0 do not. A string is used as the message; any other value is shown
// as its JSON text.
func truthyMessage(raw json.RawMessage) (string, bool) {
	raw = bytes.TrimSpace(raw)
	if !model.Truthy(raw) {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, true
	}
	return string(raw), true
}
