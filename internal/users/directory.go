package users

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"anonboard/internal/common"
	"anonboard/internal/logging"
	"anonboard/internal/store"
)

// Directory is the typed wrapper over the dual store for account records.
// The whole directory is one document; every mutation is a read-modify-write
// of that document. Lookup by email is a linear scan, acceptable at this
// population size.
type Directory struct {
	store  *store.Dual
	logger logging.Logger
	now    func() time.Time
}

func NewDirectory(d *store.Dual, logger logging.Logger) *Directory {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Directory{store: d, logger: logger, now: time.Now}
}

// LoadAll returns every account keyed by username. Absence of data and
// backend failure both yield an empty map.
func (d *Directory) LoadAll(ctx context.Context) map[string]User {
	data, _ := d.store.Get(ctx, common.CollectionUsers)
	if len(data) == 0 {
		return map[string]User{}
	}

	var all map[string]User
	if err := json.Unmarshal(data, &all); err != nil {
		d.logger.Warn(ctx, "malformed user directory, starting empty", "err", err)
		return map[string]User{}
	}
	if all == nil {
		all = map[string]User{}
	}
	return all
}

// SaveAll replaces the whole directory on both backends.
func (d *Directory) SaveAll(ctx context.Context, all map[string]User) store.Outcome {
	data, err := json.MarshalIndent(all, "", "  ")
	if err != nil {
		d.logger.Error(ctx, "marshal user directory", "err", err)
		return store.Outcome{}
	}
	return d.store.Put(ctx, common.CollectionUsers, data)
}

// FindByEmail returns the username owning the given email, if any.
func (d *Directory) FindByEmail(ctx context.Context, email string) (string, bool) {
	for username, u := range d.LoadAll(ctx) {
		if u.Email == email {
			return username, true
		}
	}
	return "", false
}

// Get returns a single account.
func (d *Directory) Get(ctx context.Context, username string) (User, bool) {
	u, ok := d.LoadAll(ctx)[username]
	return u, ok
}

// Create adds a new account under username. The username must be free.
func (d *Directory) Create(ctx context.Context, username string, u User) error {
	all := d.LoadAll(ctx)
	if _, taken := all[username]; taken {
		return common.ErrorUserExists
	}

	now := timestamp(d.now())
	if u.CreatedAt == "" {
		u.CreatedAt = now
	}
	if u.LastLogin == "" {
		u.LastLogin = now
	}
	if u.Status == "" {
		u.Status = StatusActive
	}

	all[username] = u
	d.SaveAll(ctx, all)
	return nil
}

// SetStatus flips an account between active and banned. Banning does not
// terminate an open session; the ban gate catches the user on their next
// action.
func (d *Directory) SetStatus(ctx context.Context, username string, status Status) error {
	all := d.LoadAll(ctx)
	u, ok := all[username]
	if !ok {
		return fmt.Errorf("%w: %s", common.ErrorNotFound, username)
	}

	u.Status = status
	all[username] = u
	d.SaveAll(ctx, all)
	return nil
}

// Delete removes an account.
func (d *Directory) Delete(ctx context.Context, username string) error {
	all := d.LoadAll(ctx)
	if _, ok := all[username]; !ok {
		return fmt.Errorf("%w: %s", common.ErrorNotFound, username)
	}

	delete(all, username)
	d.SaveAll(ctx, all)
	return nil
}

// Touch records a successful login.
func (d *Directory) Touch(ctx context.Context, username string) {
	all := d.LoadAll(ctx)
	u, ok := all[username]
	if !ok {
		return
	}

	u.LastLogin = timestamp(d.now())
	all[username] = u
	d.SaveAll(ctx, all)
}

// Provision creates a profile for a first-time externally authenticated
// login. The username is derived from the email local-part; when that name
// is already owned by a different email, a numeric suffix is appended until
// a free name is found.
func (d *Directory) Provision(ctx context.Context, displayName, email string) (string, error) {
	all := d.LoadAll(ctx)

	base, _, _ := strings.Cut(email, "@")
	if base == "" {
		return "", common.ErrorMissingFields
	}

	username := base
	for i := 2; ; i++ {
		existing, taken := all[username]
		if !taken {
			break
		}
		if existing.Email == email {
			return username, nil
		}
		username = fmt.Sprintf("%s-%d", base, i)
	}

	if displayName == "" {
		displayName = username
	}

	now := timestamp(d.now())
	all[username] = User{
		DisplayName: displayName,
		Email:       email,
		Status:      StatusActive,
		CreatedAt:   now,
		LastLogin:   now,
	}
	d.SaveAll(ctx, all)
	return username, nil
}
