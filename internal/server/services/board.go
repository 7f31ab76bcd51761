// Package services implements the board core: authentication transitions,
// the posting gate, feed assembly and the admin operations. All shared state
// flows through the dual-backend store wrappers; per-connection state lives
// in the session.State handed in by the caller.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"anonboard/internal/common"
	"anonboard/internal/logging"
	"anonboard/internal/messages"
	"anonboard/internal/poll"
	"anonboard/internal/server/auth"
	"anonboard/internal/session"
	"anonboard/internal/settings"
	"anonboard/internal/users"
)

// Board wires the typed store wrappers and the collaborator auth flows into
// the operations the facade exposes.
type Board struct {
	directory *users.Directory
	log       *messages.Log
	settings  *settings.Store
	identity  *auth.IdentityClient
	admin     auth.Bootstrap
	logger    logging.Logger

	now   func() time.Time
	newID func() string
}

func NewBoard(directory *users.Directory, log *messages.Log, cfg *settings.Store,
	identity *auth.IdentityClient, admin auth.Bootstrap, logger logging.Logger,
) *Board {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Board{
		directory: directory,
		log:       log,
		settings:  cfg,
		identity:  identity,
		admin:     admin,
		logger:    logger,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// Credentials is an email/password pair. On the local fallback path the
// email field is treated as the username.
type Credentials struct {
	Email    string
	Password string
}

// SignupRequest carries the fields of a new account.
type SignupRequest struct {
	Name     string
	Email    string
	Username string
	Password string
}

// Authenticate performs a credentialed login. With a configured identity
// backend the credentials are verified remotely and the directory profile is
// looked up (or provisioned) by email; without one, the local
// username/password-hash path is used. A banned account is rejected and the
// session stays anonymous.
func (b *Board) Authenticate(ctx context.Context, st *session.State, creds Credentials) error {
	if b.identity.Configured() {
		err := b.authenticateRemote(ctx, st, creds)
		if !errors.Is(err, common.ErrorConfigMissing) {
			return err
		}
		// Identity backend misconfigured after all: degrade to local.
		b.logger.Warn(ctx, "identity backend unusable, using local credentials")
	}
	return b.authenticateLocal(ctx, st, creds)
}

func (b *Board) authenticateRemote(ctx context.Context, st *session.State, creds Credentials) error {
	res, err := b.identity.SignIn(ctx, creds.Email, creds.Password)
	if err != nil {
		return err
	}

	username, found := b.directory.FindByEmail(ctx, res.Email)
	if !found {
		// First login with this email and no local profile yet.
		username, err = b.directory.Provision(ctx, "", res.Email)
		if err != nil {
			return err
		}
		b.logger.Info(ctx, "provisioned profile on first login", "user", username)
	}

	return b.bindUser(ctx, st, username)
}

func (b *Board) authenticateLocal(ctx context.Context, st *session.State, creds Credentials) error {
	username := creds.Email
	u, ok := b.directory.Get(ctx, username)
	if !ok || u.PasswordHash == "" || !auth.CheckPassword(u.PasswordHash, creds.Password) {
		return common.ErrorAuthRejected
	}
	return b.bindUser(ctx, st, username)
}

// Signup creates an account and logs the new user in. With a configured
// identity backend the secret lives remotely; otherwise a local password
// hash is stored on the profile.
func (b *Board) Signup(ctx context.Context, st *session.State, req SignupRequest) error {
	if req.Name == "" || req.Email == "" || req.Username == "" || req.Password == "" {
		return common.ErrorMissingFields
	}

	u := users.User{DisplayName: req.Name, Email: req.Email}

	if b.identity.Configured() {
		if _, err := b.identity.SignUp(ctx, req.Email, req.Password); err != nil && !errors.Is(err, common.ErrorConfigMissing) {
			return err
		}
	} else {
		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		u.PasswordHash = hash
	}

	if err := b.directory.Create(ctx, req.Username, u); err != nil {
		return err
	}

	st.LoginUser(req.Username)
	st.ResetPoll(b.now())
	return nil
}

// ExternalLogin resolves an external-identity ID token into a directory
// profile, provisioning one on first login, and binds the session to it.
func (b *Board) ExternalLogin(ctx context.Context, st *session.State, rawIDToken string) error {
	claims, err := auth.ParseIDToken(rawIDToken)
	if err != nil {
		return err
	}

	username, found := b.directory.FindByEmail(ctx, claims.Email)
	if !found {
		username, err = b.directory.Provision(ctx, claims.Name, claims.Email)
		if err != nil {
			return err
		}
		b.logger.Info(ctx, "provisioned profile on first external login", "user", username)
	}

	return b.bindUser(ctx, st, username)
}

// RestoreExternal is the auto-restore variant of ExternalLogin used when a
// provider session is still live at connection start. An explicit logout
// suppresses exactly one restore attempt; the marker is consumed here.
func (b *Board) RestoreExternal(ctx context.Context, st *session.State, rawIDToken string) error {
	if st.ConsumeLogoutMarker() {
		return common.ErrorInvalidSession
	}
	return b.ExternalLogin(ctx, st, rawIDToken)
}

// AdminLogin checks the bootstrap credentials and binds the session to the
// administrator identity.
func (b *Board) AdminLogin(ctx context.Context, st *session.State, username, password string) error {
	if !b.admin.Match(username, password) {
		return common.ErrorAuthRejected
	}
	st.LoginAdmin(b.admin.Username)
	st.ResetPoll(b.now())
	return nil
}

// Logout ends the session and arms the one-shot restore suppression.
func (b *Board) Logout(st *session.State) {
	st.Logout()
}

func (b *Board) bindUser(ctx context.Context, st *session.State, username string) error {
	if u, ok := b.directory.Get(ctx, username); ok && u.Banned() {
		return common.ErrorBanned
	}

	b.directory.Touch(ctx, username)
	st.LoginUser(username)
	st.ResetPoll(b.now())
	return nil
}

// Post appends a message to the global log. The ban gate re-reads the
// directory on every call: banning takes effect on the next post attempt,
// never retroactively on the open session. A successful post resets the
// poll clock so the poster sees their own message immediately.
func (b *Board) Post(ctx context.Context, st *session.State, text string) error {
	if !st.Authenticated() {
		return common.ErrorUnauthorized
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return common.ErrorEmptyMessage
	}

	if u, ok := b.directory.Get(ctx, st.User()); ok && u.Banned() {
		return common.ErrorBanned
	}

	now := b.now()
	m := messages.Message{
		ID:        b.newID(),
		Author:    st.User(),
		Content:   text,
		Timestamp: messages.ClockTime(now),
		Role:      messages.RoleUser,
	}

	b.log.Append(ctx, m)
	st.ResetPoll(now)
	return nil
}

// Feed is what a reload hands back to the client: the recent window, the
// full log size and the cadence the client should poll at. Empty marks the
// dedicated empty-state path.
type Feed struct {
	Messages        []messages.Message
	Total           int
	RefreshInterval int
	Empty           bool
}

// Feed loads shared state for rendering. Viewing stays allowed for banned
// users; only posting is gated.
func (b *Board) Feed(ctx context.Context, st *session.State) (Feed, error) {
	if !st.Authenticated() {
		return Feed{}, common.ErrorUnauthorized
	}

	window := messages.UserWindow
	if st.IsAdmin() {
		window = messages.AdminWindow
	}

	all := b.log.LoadAll(ctx)
	cfg := b.settings.Load(ctx)
	st.ResetPoll(b.now())

	return Feed{
		Messages:        messages.Recent(all, window),
		Total:           len(all),
		RefreshInterval: cfg.RefreshInterval,
		Empty:           len(all) == 0,
	}, nil
}

// ShouldReload applies the poll policy against the shared cadence setting.
func (b *Board) ShouldReload(ctx context.Context, st *session.State, now time.Time) bool {
	cfg := b.settings.Load(ctx)
	return poll.ShouldReload(now, st.LastPoll(), time.Duration(cfg.RefreshInterval)*time.Second)
}
