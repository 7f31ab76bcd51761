package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"

	"anonboard/internal/common"
)

const defaultRequestTimeout = 5 * time.Second

// Remote is a thin client for an HTTP document store in the Firebase
// Realtime Database style: every collection is a JSON document at
// <base>/<collection>.json, GET reads it, PUT replaces it, POST appends a
// child under a generated key and DELETE removes it.
type Remote struct {
	baseURL    string
	authKey    string
	hc         *http.Client
	maxRetries uint64
}

// NewRemote builds a client for the document store at baseURL. authKey, when
// non-empty, is sent as the "auth" query parameter on every request. A
// trailing slash on baseURL is tolerated.
func NewRemote(baseURL, authKey string) *Remote {
	return &Remote{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		authKey:    authKey,
		hc:         &http.Client{Timeout: defaultRequestTimeout},
		maxRetries: 2,
	}
}

func (r *Remote) endpoint(key string) string {
	u := r.baseURL + "/" + key + ".json"
	if r.authKey != "" {
		u += "?auth=" + url.QueryEscape(r.authKey)
	}
	return u
}

func (r *Remote) do(ctx context.Context, method, key string, body []byte) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, r.endpoint(key), reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := r.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorBackendUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", common.ErrorBackendUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s %s: %s", common.ErrorBackendUnavailable, method, key, resp.Status)
	}

	return data, nil
}

// Get fetches the document stored under key. A reachable backend holding no
// data returns (nil, nil): absence and emptiness are the same thing to
// callers. Transient failures are retried with exponential backoff before
// the error is reported.
func (r *Remote) Get(ctx context.Context, key string) ([]byte, error) {
	var data []byte

	backoff := retry.WithMaxRetries(r.maxRetries, retry.NewExponential(100*time.Millisecond))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		var err error
		data, err = r.do(ctx, http.MethodGet, key, nil)
		if err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if isNullDocument(data) {
		return nil, nil
	}
	return data, nil
}

// Put replaces the whole document under key.
func (r *Remote) Put(ctx context.Context, key string, doc []byte) error {
	_, err := r.do(ctx, http.MethodPut, key, doc)
	return err
}

// Push appends item as a child of the collection under key and returns the
// server-generated child key. The append is atomic on the backend side, so
// remote ordering is authoritative.
func (r *Remote) Push(ctx context.Context, key string, item []byte) (string, error) {
	data, err := r.do(ctx, http.MethodPost, key, item)
	if err != nil {
		return "", err
	}

	var resp struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return "", fmt.Errorf("%w: malformed push response: %v", common.ErrorBackendUnavailable, err)
	}
	return resp.Name, nil
}

// Delete removes the document under key.
func (r *Remote) Delete(ctx context.Context, key string) error {
	_, err := r.do(ctx, http.MethodDelete, key, nil)
	return err
}

func isNullDocument(data []byte) bool {
	s := strings.TrimSpace(string(data))
	return s == "" || s == "null"
}
