// Package discord talks to the Discord REST API on behalf of the lookup
// backend and turns a raw user object into the pieces the widget shows.
//
// AUTHENTICATION:
// Discord bot requests carry "Authorization: Bot <token>". That is the same
// header shape OAuth2 uses for bearer tokens, just with a different type, so
// the client reuses golang.org/x/oauth2's Transport with a static token whose
// TokenType is "Bot". The token never appears in logs or error messages.
package discord

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/sakif/discord-lookup/internal/apperror"
)

const (
	DefaultAPIBase = "https://discord.com/api/v10"
	DefaultTimeout = 10 * time.Second
	UserAgent      = "discord-lookup (https://github.com/sakif/discord-lookup, 1.0)"

	maxBody = 1 << 20 // 1 MiB
)

// Messages surfaced to callers as apperror.Upstream.
const (
	MsgMissingToken     = "missing bot token"
	MsgRateLimited      = "rate limited by discord"
	MsgInvalidSnowflake = "invalid snowflake"
)

// RawUser is the subset of Discord's user object the lookup uses.
//
// Discord docs: https://discord.com/developers/docs/resources/user#user-object
type RawUser struct {
	ID            string `json:"id"`
	Username      string `json:"username"`
	GlobalName    string `json:"global_name"`
	Discriminator string `json:"discriminator"`
	Avatar        string `json:"avatar"`
	Banner        string `json:"banner"`
	AccentColor   *int64 `json:"accent_color"`
	Bot           bool   `json:"bot"`
	System        bool   `json:"system"`
	PublicFlags   int64  `json:"public_flags"`
}

type Config struct {
	Token   string
	APIBase string        // defaults to DefaultAPIBase
	Timeout time.Duration // defaults to DefaultTimeout
	// Base is the underlying transport; nil means http.DefaultTransport.
	Base http.RoundTripper
}

type Client struct {
	http    *http.Client
	apiBase string
	hasAuth bool
}

func New(cfg Config) *Client {
	if cfg.APIBase == "" {
		cfg.APIBase = DefaultAPIBase
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Base == nil {
		cfg.Base = http.DefaultTransport
	}

	transport := cfg.Base
	if cfg.Token != "" {
		transport = &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{
				AccessToken: cfg.Token,
				TokenType:   "Bot",
			}),
			Base: cfg.Base,
		}
	}

	return &Client{
		http:    &http.Client{Timeout: cfg.Timeout, Transport: transport},
		apiBase: strings.TrimRight(cfg.APIBase, "/"),
		hasAuth: cfg.Token != "",
	}
}

// FetchUser calls GET /users/{id}.
//
// Errors:
//   - apperror.ErrUpstream  no token configured, rate limited, or any other non-200
//   - apperror.ErrNotFound  Discord answered 404
//   - apperror.ErrTransport the request could not be made or the body was unreadable
func (c *Client) FetchUser(ctx context.Context, id string) (RawUser, error) {
	if !c.hasAuth {
		return RawUser{}, apperror.Upstream(MsgMissingToken)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiBase+"/users/"+id, nil)
	if err != nil {
		return RawUser{}, apperror.Transport(err)
	}
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Accept", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return RawUser{}, apperror.Transport(err)
	}
	defer res.Body.Close()

	switch res.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return RawUser{}, apperror.NotFound("user", id)
	case http.StatusTooManyRequests:
		return RawUser{}, apperror.Upstream(MsgRateLimited)
	default:
		// Drain so the connection can be reused.
		io.Copy(io.Discard, io.LimitReader(res.Body, maxBody))
		return RawUser{}, apperror.Upstream(MsgInvalidSnowflake)
	}

	var u RawUser
	if err := json.NewDecoder(io.LimitReader(res.Body, maxBody)).Decode(&u); err != nil {
		if errors.Is(err, io.EOF) {
			err = fmt.Errorf("empty response body: %w", err)
		}
		return RawUser{}, apperror.Transport(err)
	}
	return u, nil
}
