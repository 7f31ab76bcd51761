package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"anonboard/internal/common"
)

const defaultIdentityBaseURL = "https://identitytoolkit.googleapis.com/v1"

// IdentityClient talks to the hosted identity endpoint that backs email and
// password authentication. When no API key is configured the whole flow
// degrades to the local credential path instead of failing.
type IdentityClient struct {
	apiKey  string
	baseURL string
	hc      *http.Client
}

// NewIdentityClient builds a client for the identity endpoint. baseURL is
// overridable for tests; empty means the hosted default.
func NewIdentityClient(apiKey, baseURL string) *IdentityClient {
	if baseURL == "" {
		baseURL = defaultIdentityBaseURL
	}
	return &IdentityClient{
		apiKey:  apiKey,
		baseURL: baseURL,
		hc:      &http.Client{Timeout: 10 * time.Second},
	}
}

// Configured reports whether remote identity authentication is available.
func (c *IdentityClient) Configured() bool {
	return c != nil && c.apiKey != ""
}

// IdentityResult is the resolved outcome of a successful exchange.
type IdentityResult struct {
	Subject string
	Email   string
}

// SignIn exchanges email/password for an authenticated subject.
func (c *IdentityClient) SignIn(ctx context.Context, email, password string) (*IdentityResult, error) {
	return c.call(ctx, "accounts:signInWithPassword", email, password)
}

// SignUp registers a new email/password identity.
func (c *IdentityClient) SignUp(ctx context.Context, email, password string) (*IdentityResult, error) {
	return c.call(ctx, "accounts:signUp", email, password)
}

func (c *IdentityClient) call(ctx context.Context, op, email, password string) (*IdentityResult, error) {
	if !c.Configured() {
		return nil, common.ErrorConfigMissing
	}

	payload, err := json.Marshal(map[string]any{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}

	endpoint := fmt.Sprintf("%s/%s?key=%s", c.baseURL, op, url.QueryEscape(c.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorBackendUnavailable, err)
	}
	defer resp.Body.Close()

	var body struct {
		LocalID string `json:"localId"`
		Email   string `json:"email"`
		Error   struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: malformed identity response: %v", common.ErrorBackendUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK {
		msg := body.Error.Message
		if msg == "" {
			msg = resp.Status
		}
		return nil, fmt.Errorf("%w: %s", common.ErrorAuthRejected, msg)
	}

	return &IdentityResult{Subject: body.LocalID, Email: body.Email}, nil
}
