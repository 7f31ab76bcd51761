package settings

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"anonboard/internal/store"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	d := store.NewDual(nil, store.NewFile(filepath.Join(t.TempDir(), "database")), nil)
	return NewStore(d, nil)
}

func TestClamped(t *testing.T) {
	tests := []struct {
		name string
		in   int
		want int
	}{
		{"absent defaults", 0, DefaultRefreshInterval},
		{"below minimum", -5, MinRefreshInterval},
		{"minimum", 1, 1},
		{"in range", 7, 7},
		{"maximum", 10, 10},
		{"above maximum", 60, MaxRefreshInterval},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Settings{RefreshInterval: tt.in}.Clamped()
			require.Equal(t, tt.want, got.RefreshInterval)
		})
	}
}

func TestStore_LoadDefaultsWhenAbsent(t *testing.T) {
	s := newStore(t)
	cfg := s.Load(context.Background())
	require.Equal(t, DefaultRefreshInterval, cfg.RefreshInterval)
}

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	out := s.Save(ctx, Settings{RefreshInterval: 2})
	require.Equal(t, store.StatusApplied, out.Status())
	require.Equal(t, 2, s.Load(ctx).RefreshInterval)
}

func TestStore_SaveClampsBeforePersisting(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	s.Save(ctx, Settings{RefreshInterval: 99})
	require.Equal(t, MaxRefreshInterval, s.Load(ctx).RefreshInterval)
}
