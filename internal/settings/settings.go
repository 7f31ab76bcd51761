// Package settings holds the global admin settings record, a singleton
// document shared by every connection.
package settings

import (
	"context"
	"encoding/json"

	"anonboard/internal/common"
	"anonboard/internal/logging"
	"anonboard/internal/store"
)

const (
	MinRefreshInterval     = 1
	MaxRefreshInterval     = 10
	DefaultRefreshInterval = 2
)

// Settings is the global configuration record. RefreshInterval is the poll
// cadence in seconds, clamped to [MinRefreshInterval, MaxRefreshInterval].
type Settings struct {
	RefreshInterval int `json:"auto_refresh_interval"`
}

// Clamped returns a copy with every field forced into its valid range.
// A zero interval (absent field) becomes the default.
func (s Settings) Clamped() Settings {
	if s.RefreshInterval == 0 {
		s.RefreshInterval = DefaultRefreshInterval
	}
	if s.RefreshInterval < MinRefreshInterval {
		s.RefreshInterval = MinRefreshInterval
	}
	if s.RefreshInterval > MaxRefreshInterval {
		s.RefreshInterval = MaxRefreshInterval
	}
	return s
}

// Store is the typed wrapper over the dual store for the settings record.
type Store struct {
	store  *store.Dual
	logger logging.Logger
}

func NewStore(d *store.Dual, logger logging.Logger) *Store {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Store{store: d, logger: logger}
}

// Load returns the current settings, defaulted and clamped. Backend failure
// and absence both yield the defaults.
func (s *Store) Load(ctx context.Context) Settings {
	data, _ := s.store.Get(ctx, common.CollectionSettings)
	if len(data) == 0 {
		return Settings{}.Clamped()
	}

	var cfg Settings
	if err := json.Unmarshal(data, &cfg); err != nil {
		s.logger.Warn(ctx, "malformed admin settings, using defaults", "err", err)
		return Settings{}.Clamped()
	}
	return cfg.Clamped()
}

// Save persists the settings on both backends, clamping first so an invalid
// record never reaches storage.
func (s *Store) Save(ctx context.Context, cfg Settings) store.Outcome {
	cfg = cfg.Clamped()
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		s.logger.Error(ctx, "marshal admin settings", "err", err)
		return store.Outcome{}
	}
	return s.store.Put(ctx, common.CollectionSettings, data)
}
