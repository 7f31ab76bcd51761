// Package api is the HTTP client for the board server. It keeps the bearer
// session token across calls and maps HTTP statuses back onto the shared
// sentinel errors.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"anonboard/internal/common"
	"anonboard/internal/messages"
)

const requestTimeout = 10 * time.Second

// Client talks to one board server. Not safe for concurrent use; the CLI
// drives it from a single loop.
type Client struct {
	baseURL string
	token   string
	hc      *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		hc:      &http.Client{Timeout: requestTimeout},
	}
}

// Session carries the result of a successful login.
type Session struct {
	Token   string `json:"token"`
	User    string `json:"user"`
	IsAdmin bool   `json:"is_admin"`
}

// Feed mirrors the server's feed response.
type Feed struct {
	Messages        []messages.Message `json:"messages"`
	Total           int                `json:"total"`
	RefreshInterval int                `json:"refresh_interval"`
	Empty           bool               `json:"empty"`
}

func errorFor(status int, body []byte) error {
	var payload struct {
		Error string `json:"error"`
	}
	_ = json.Unmarshal(body, &payload)

	var sentinel error
	switch status {
	case http.StatusUnauthorized:
		sentinel = common.ErrorAuthRejected
	case http.StatusForbidden:
		sentinel = common.ErrorBanned
	case http.StatusConflict:
		sentinel = common.ErrorUserExists
	case http.StatusNotFound:
		sentinel = common.ErrorNotFound
	case http.StatusBadRequest:
		sentinel = common.ErrorMissingFields
	default:
		sentinel = common.ErrorInternal
	}

	if payload.Error != "" {
		return fmt.Errorf("%w: %s", sentinel, payload.Error)
	}
	return fmt.Errorf("%w: status %d", sentinel, status)
}

func (c *Client) do(ctx context.Context, method, path string, reqBody, respBody any) error {
	var buf io.Reader
	if reqBody != nil {
		data, err := json.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		buf = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, buf)
	if err != nil {
		return err
	}
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set(common.SessionTokenHeaderName, "Bearer "+c.token)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrorBackendUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode >= 400 {
		return errorFor(resp.StatusCode, data)
	}

	if respBody != nil && len(data) > 0 {
		if err := json.Unmarshal(data, respBody); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// Login authenticates with email (or username on a local-only server) and
// password, and stores the session token for subsequent calls.
func (c *Client) Login(ctx context.Context, email, password string) (Session, error) {
	var s Session
	err := c.do(ctx, http.MethodPost, "/api/login",
		map[string]string{"email": email, "password": password}, &s)
	if err != nil {
		return Session{}, err
	}
	c.token = s.Token
	return s, nil
}

// Signup creates an account and stores the session token.
func (c *Client) Signup(ctx context.Context, name, email, username, password string) (Session, error) {
	var s Session
	err := c.do(ctx, http.MethodPost, "/api/signup", map[string]string{
		"name": name, "email": email, "username": username, "password": password,
	}, &s)
	if err != nil {
		return Session{}, err
	}
	c.token = s.Token
	return s, nil
}

// AdminLogin authenticates with the bootstrap admin credentials.
func (c *Client) AdminLogin(ctx context.Context, username, password string) (Session, error) {
	var s Session
	err := c.do(ctx, http.MethodPost, "/api/admin/login",
		map[string]string{"username": username, "password": password}, &s)
	if err != nil {
		return Session{}, err
	}
	c.token = s.Token
	return s, nil
}

// Logout ends the session on the server. The token is kept so a later
// restore attempt exercises the server-side one-shot suppression.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/logout", nil, nil)
}

// Post appends a message to the global log.
func (c *Client) Post(ctx context.Context, content string) error {
	return c.do(ctx, http.MethodPost, "/api/messages", map[string]string{"content": content}, nil)
}

// Feed fetches the recent message window.
func (c *Client) Feed(ctx context.Context) (Feed, error) {
	var f Feed
	if err := c.do(ctx, http.MethodGet, "/api/feed", nil, &f); err != nil {
		return Feed{}, err
	}
	return f, nil
}

// Healthy probes the server's health endpoint.
func (c *Client) Healthy(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/healthz", nil, nil)
}
