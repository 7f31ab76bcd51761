package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"anonboard/internal/common"
	"anonboard/internal/messages"
	"anonboard/internal/server/auth"
	"anonboard/internal/session"
	"anonboard/internal/settings"
	"anonboard/internal/store"
	"anonboard/internal/users"
)

type boardFixture struct {
	board     *Board
	directory *users.Directory
	clock     *time.Time
}

func newFixture(t *testing.T, identity *auth.IdentityClient) *boardFixture {
	t.Helper()

	d := store.NewDual(nil, store.NewFile(filepath.Join(t.TempDir(), "database")), nil)
	directory := users.NewDirectory(d, nil)
	log := messages.NewLog(d, nil)
	cfg := settings.NewStore(d, nil)
	admin := auth.Bootstrap{Username: "Admin", Password: "hunter2"}

	b := NewBoard(directory, log, cfg, identity, admin, nil)

	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	fix := &boardFixture{board: b, directory: directory, clock: &now}
	b.now = func() time.Time { return *fix.clock }

	var seq int
	b.newID = func() string {
		seq++
		return fmt.Sprintf("id-%04d", seq)
	}

	return fix
}

func (f *boardFixture) advance(d time.Duration) {
	*f.clock = f.clock.Add(d)
}

func (f *boardFixture) signupAndLogin(t *testing.T, username string) *session.State {
	t.Helper()
	st := session.NewState(*f.clock)
	err := f.board.Signup(context.Background(), st, SignupRequest{
		Name: username, Email: username + "@example.com", Username: username, Password: "pw-" + username,
	})
	require.NoError(t, err)
	return st
}

func TestSignupThenLocalLogin(t *testing.T) {
	fix := newFixture(t, nil)
	ctx := context.Background()

	st := fix.signupAndLogin(t, "alice")
	require.True(t, st.Authenticated())
	require.Equal(t, "alice", st.User())

	// On the local path the email field carries the username.
	st2 := session.NewState(*fix.clock)
	require.NoError(t, fix.board.Authenticate(ctx, st2, Credentials{Email: "alice", Password: "pw-alice"}))
	require.True(t, st2.Authenticated())

	st3 := session.NewState(*fix.clock)
	err := fix.board.Authenticate(ctx, st3, Credentials{Email: "alice", Password: "wrong"})
	require.True(t, errors.Is(err, common.ErrorAuthRejected))
	require.False(t, st3.Authenticated())
}

func TestSignup_Validation(t *testing.T) {
	fix := newFixture(t, nil)
	st := session.NewState(*fix.clock)

	err := fix.board.Signup(context.Background(), st, SignupRequest{Name: "x"})
	require.True(t, errors.Is(err, common.ErrorMissingFields))
}

func TestSignup_DuplicateUsername(t *testing.T) {
	fix := newFixture(t, nil)
	fix.signupAndLogin(t, "alice")

	st := session.NewState(*fix.clock)
	err := fix.board.Signup(context.Background(), st, SignupRequest{
		Name: "Other", Email: "other@example.com", Username: "alice", Password: "pw",
	})
	require.True(t, errors.Is(err, common.ErrorUserExists))
}

func TestBannedUserCannotLogin(t *testing.T) {
	fix := newFixture(t, nil)
	ctx := context.Background()

	fix.signupAndLogin(t, "alice")
	require.NoError(t, fix.directory.SetStatus(ctx, "alice", users.StatusBanned))

	st := session.NewState(*fix.clock)
	err := fix.board.Authenticate(ctx, st, Credentials{Email: "alice", Password: "pw-alice"})
	require.True(t, errors.Is(err, common.ErrorBanned))
	require.False(t, st.Authenticated())
}

func TestBanTakesEffectOnNextPost(t *testing.T) {
	fix := newFixture(t, nil)
	ctx := context.Background()

	st := fix.signupAndLogin(t, "alice")
	require.NoError(t, fix.board.Post(ctx, st, "first"))

	// Ban lands mid-session: the open session survives, posting stops,
	// viewing continues.
	require.NoError(t, fix.directory.SetStatus(ctx, "alice", users.StatusBanned))

	err := fix.board.Post(ctx, st, "second")
	require.True(t, errors.Is(err, common.ErrorBanned))

	feed, err := fix.board.Feed(ctx, st)
	require.NoError(t, err)
	require.Len(t, feed.Messages, 1)
}

func TestPost_RequiresAuthentication(t *testing.T) {
	fix := newFixture(t, nil)
	st := session.NewState(*fix.clock)

	err := fix.board.Post(context.Background(), st, "hello")
	require.True(t, errors.Is(err, common.ErrorUnauthorized))
}

func TestPost_RejectsEmptyText(t *testing.T) {
	fix := newFixture(t, nil)
	st := fix.signupAndLogin(t, "alice")

	err := fix.board.Post(context.Background(), st, "   \n")
	require.True(t, errors.Is(err, common.ErrorEmptyMessage))
}

func TestPostAndFeed_InsertionOrder(t *testing.T) {
	fix := newFixture(t, nil)
	ctx := context.Background()
	st := fix.signupAndLogin(t, "alice")

	for _, text := range []string{"A", "B", "C"} {
		require.NoError(t, fix.board.Post(ctx, st, text))
	}

	feed, err := fix.board.Feed(ctx, st)
	require.NoError(t, err)
	require.Equal(t, 3, feed.Total)
	require.False(t, feed.Empty)

	var got []string
	for _, m := range feed.Messages {
		got = append(got, m.Content)
	}
	require.Equal(t, []string{"A", "B", "C"}, got)
}

func TestFeed_EmptyState(t *testing.T) {
	fix := newFixture(t, nil)
	st := fix.signupAndLogin(t, "alice")

	feed, err := fix.board.Feed(context.Background(), st)
	require.NoError(t, err)
	require.True(t, feed.Empty)
	require.Empty(t, feed.Messages)
	require.Equal(t, settings.DefaultRefreshInterval, feed.RefreshInterval)
}

func TestFeed_WindowSizes(t *testing.T) {
	fix := newFixture(t, nil)
	ctx := context.Background()
	st := fix.signupAndLogin(t, "alice")

	for i := 0; i < 60; i++ {
		require.NoError(t, fix.board.Post(ctx, st, fmt.Sprintf("m%d", i)))
	}

	feed, err := fix.board.Feed(ctx, st)
	require.NoError(t, err)
	require.Len(t, feed.Messages, messages.UserWindow)
	require.Equal(t, "m10", feed.Messages[0].Content)

	adminSt := session.NewState(*fix.clock)
	require.NoError(t, fix.board.AdminLogin(ctx, adminSt, "Admin", "hunter2"))

	adminFeed, err := fix.board.Feed(ctx, adminSt)
	require.NoError(t, err)
	require.Len(t, adminFeed.Messages, messages.AdminWindow)
}

func TestShouldReload_CadenceAndPostReset(t *testing.T) {
	fix := newFixture(t, nil)
	ctx := context.Background()
	st := fix.signupAndLogin(t, "alice")

	// Default cadence is 2 seconds.
	require.False(t, fix.board.ShouldReload(ctx, st, fix.clock.Add(1*time.Second)))
	require.True(t, fix.board.ShouldReload(ctx, st, fix.clock.Add(2*time.Second)))

	// A post resets the clock, so the next check reloads immediately only
	// after another full interval.
	fix.advance(10 * time.Second)
	require.NoError(t, fix.board.Post(ctx, st, "hi"))
	require.False(t, fix.board.ShouldReload(ctx, st, fix.clock.Add(1*time.Second)))
	require.True(t, fix.board.ShouldReload(ctx, st, fix.clock.Add(2*time.Second)))
}

func TestAdminLogin(t *testing.T) {
	fix := newFixture(t, nil)
	ctx := context.Background()

	st := session.NewState(*fix.clock)
	require.NoError(t, fix.board.AdminLogin(ctx, st, "Admin", "hunter2"))
	require.True(t, st.IsAdmin())

	st2 := session.NewState(*fix.clock)
	err := fix.board.AdminLogin(ctx, st2, "Admin", "nope")
	require.True(t, errors.Is(err, common.ErrorAuthRejected))
}

func TestLogoutSuppressesOneExternalRestore(t *testing.T) {
	fix := newFixture(t, nil)
	ctx := context.Background()

	token := externalToken(t, "sam@example.com", "Sam")

	st := session.NewState(*fix.clock)
	require.NoError(t, fix.board.ExternalLogin(ctx, st, token))
	require.Equal(t, "sam", st.User())

	fix.board.Logout(st)
	require.False(t, st.Authenticated())

	// The pending auto-restore right after logout is suppressed once.
	err := fix.board.RestoreExternal(ctx, st, token)
	require.True(t, errors.Is(err, common.ErrorInvalidSession))
	require.False(t, st.Authenticated())

	// The next one goes through normally.
	require.NoError(t, fix.board.RestoreExternal(ctx, st, token))
	require.True(t, st.Authenticated())
}

func TestExternalLogin_ProvisionsOnFirstLogin(t *testing.T) {
	fix := newFixture(t, nil)
	ctx := context.Background()

	st := session.NewState(*fix.clock)
	require.NoError(t, fix.board.ExternalLogin(ctx, st, externalToken(t, "newbie@example.com", "New B")))

	u, ok := fix.directory.Get(ctx, "newbie")
	require.True(t, ok)
	require.Equal(t, "New B", u.DisplayName)
	require.Empty(t, u.PasswordHash)

	// Second login reuses the same profile.
	st2 := session.NewState(*fix.clock)
	require.NoError(t, fix.board.ExternalLogin(ctx, st2, externalToken(t, "newbie@example.com", "New B")))
	require.Len(t, fix.directory.LoadAll(ctx), 1)
}

func TestAuthenticate_RemoteIdentityPath(t *testing.T) {
	identitySrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.Password != "good" {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]any{"error": map[string]any{"message": "INVALID_PASSWORD"}})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"localId": "uid1", "email": req.Email})
	}))
	defer identitySrv.Close()

	fix := newFixture(t, auth.NewIdentityClient("k", identitySrv.URL))
	ctx := context.Background()

	st := session.NewState(*fix.clock)
	require.NoError(t, fix.board.Authenticate(ctx, st, Credentials{Email: "remote@example.com", Password: "good"}))
	require.Equal(t, "remote", st.User(), "profile provisioned from email local-part")

	st2 := session.NewState(*fix.clock)
	err := fix.board.Authenticate(ctx, st2, Credentials{Email: "remote@example.com", Password: "bad"})
	require.True(t, errors.Is(err, common.ErrorAuthRejected))
}

func externalToken(t *testing.T, email, name string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"email": email, "name": name})
	s, err := token.SignedString([]byte("test"))
	require.NoError(t, err)
	return s
}
