package services

import (
	"context"

	"anonboard/internal/common"
	"anonboard/internal/session"
	"anonboard/internal/settings"
	"anonboard/internal/users"
)

// Stats is the system overview shown on the admin settings tab.
type Stats struct {
	Users           int
	Messages        int
	RefreshInterval int
}

func (b *Board) requireAdmin(st *session.State) error {
	if !st.Authenticated() || !st.IsAdmin() {
		return common.ErrorUnauthorized
	}
	return nil
}

// Users returns the whole directory for the user-management panel.
func (b *Board) Users(ctx context.Context, st *session.State) (map[string]users.User, error) {
	if err := b.requireAdmin(st); err != nil {
		return nil, err
	}
	return b.directory.LoadAll(ctx), nil
}

// SetUserStatus bans or unbans an account. The change is enforced on the
// target's next action, not pushed into their open session.
func (b *Board) SetUserStatus(ctx context.Context, st *session.State, username string, status users.Status) error {
	if err := b.requireAdmin(st); err != nil {
		return err
	}
	if status != users.StatusActive && status != users.StatusBanned {
		return common.ErrorMissingFields
	}
	return b.directory.SetStatus(ctx, username, status)
}

// DeleteUser removes an account from the directory.
func (b *Board) DeleteUser(ctx context.Context, st *session.State, username string) error {
	if err := b.requireAdmin(st); err != nil {
		return err
	}
	return b.directory.Delete(ctx, username)
}

// ClearMessages wipes the whole global log on both backends.
func (b *Board) ClearMessages(ctx context.Context, st *session.State) error {
	if err := b.requireAdmin(st); err != nil {
		return err
	}
	b.log.Clear(ctx)
	return nil
}

// RefreshInterval returns the current shared cadence in seconds.
func (b *Board) RefreshInterval(ctx context.Context, st *session.State) (int, error) {
	if err := b.requireAdmin(st); err != nil {
		return 0, err
	}
	return b.settings.Load(ctx).RefreshInterval, nil
}

// SetRefreshInterval updates the shared cadence. Every connection picks the
// new value up on its own next cycle; there is no push notification.
func (b *Board) SetRefreshInterval(ctx context.Context, st *session.State, seconds int) error {
	if err := b.requireAdmin(st); err != nil {
		return err
	}
	b.settings.Save(ctx, settings.Settings{RefreshInterval: seconds})
	return nil
}

// Stats summarizes the system for the admin panel.
func (b *Board) Stats(ctx context.Context, st *session.State) (Stats, error) {
	if err := b.requireAdmin(st); err != nil {
		return Stats{}, err
	}
	return Stats{
		Users:           len(b.directory.LoadAll(ctx)),
		Messages:        len(b.log.LoadAll(ctx)),
		RefreshInterval: b.settings.Load(ctx).RefreshInterval,
	}, nil
}
