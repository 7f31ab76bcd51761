package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"anonboard/internal/common"
)

func TestClient_LoginStoresToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/login":
			var req map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			require.Equal(t, "alice", req["email"])
			json.NewEncoder(w).Encode(map[string]any{"token": "tok-1", "user": "alice"})
		case "/api/feed":
			require.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
			json.NewEncoder(w).Encode(map[string]any{
				"messages": []map[string]any{{"message_id": "1", "user_id": "alice", "content": "hi"}},
				"total":    1, "refresh_interval": 2, "empty": false,
			})
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL + "/")
	ctx := context.Background()

	s, err := c.Login(ctx, "alice", "pw")
	require.NoError(t, err)
	require.Equal(t, "alice", s.User)

	feed, err := c.Feed(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, feed.Total)
	require.Equal(t, 2, feed.RefreshInterval)
	require.Equal(t, "hi", feed.Messages[0].Content)
}

func TestClient_ErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		sentinel error
	}{
		{"unauthorized", http.StatusUnauthorized, common.ErrorAuthRejected},
		{"banned", http.StatusForbidden, common.ErrorBanned},
		{"conflict", http.StatusConflict, common.ErrorUserExists},
		{"not found", http.StatusNotFound, common.ErrorNotFound},
		{"bad request", http.StatusBadRequest, common.ErrorMissingFields},
		{"server error", http.StatusInternalServerError, common.ErrorInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				json.NewEncoder(w).Encode(map[string]string{"error": "nope"})
			}))
			defer srv.Close()

			c := NewClient(srv.URL)
			err := c.Post(context.Background(), "hello")
			require.True(t, errors.Is(err, tt.sentinel))
			require.Contains(t, err.Error(), "nope")
		})
	}
}

func TestClient_ServerUnreachable(t *testing.T) {
	c := NewClient("http://127.0.0.1:1")
	err := c.Healthy(context.Background())
	require.True(t, errors.Is(err, common.ErrorBackendUnavailable))
}

func TestClient_SignupAndAdminLogin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/signup":
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(map[string]any{"token": "tok-s", "user": "bob"})
		case "/api/admin/login":
			json.NewEncoder(w).Encode(map[string]any{"token": "tok-a", "user": "Admin", "is_admin": true})
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	ctx := context.Background()

	s, err := c.Signup(ctx, "Bob", "bob@example.com", "bob", "pw")
	require.NoError(t, err)
	require.Equal(t, "bob", s.User)

	s, err = c.AdminLogin(ctx, "Admin", "pw")
	require.NoError(t, err)
	require.True(t, s.IsAdmin)
}
