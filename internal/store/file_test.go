package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"anonboard/internal/common"
)

func TestFile_PutGetRoundTrip(t *testing.T) {
	f := NewFile(filepath.Join(t.TempDir(), "database"))
	ctx := context.Background()

	doc := []byte(`{"alice":{"email":"a@b.c"}}`)
	require.NoError(t, f.Put(ctx, common.CollectionUsers, doc))

	got, err := f.Get(ctx, common.CollectionUsers)
	require.NoError(t, err)
	require.Equal(t, doc, got)
}

func TestFile_LayoutMatchesLegacyFileNames(t *testing.T) {
	root := filepath.Join(t.TempDir(), "database")
	f := NewFile(root)
	ctx := context.Background()

	require.NoError(t, f.Put(ctx, common.CollectionUsers, []byte(`{}`)))
	require.NoError(t, f.Put(ctx, common.CollectionMessages, []byte(`{"messages":[]}`)))
	require.NoError(t, f.Put(ctx, common.CollectionSettings, []byte(`{"auto_refresh_interval":2}`)))

	for _, name := range []string{"users.json", "global_chat.json", "admin_settings.json"} {
		_, err := os.Stat(filepath.Join(root, name))
		require.NoError(t, err, name)
	}
}

func TestFile_GetMissingIsNotFound(t *testing.T) {
	f := NewFile(filepath.Join(t.TempDir(), "database"))

	_, err := f.Get(context.Background(), common.CollectionUsers)
	require.True(t, errors.Is(err, common.ErrorNotFound))
}

func TestFile_LazilyCreatesRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "database")
	f := NewFile(root)

	require.False(t, fileExists(root))
	_, _ = f.Get(context.Background(), common.CollectionUsers)
	require.True(t, fileExists(root))
}

func TestFile_DeleteIsIdempotent(t *testing.T) {
	f := NewFile(filepath.Join(t.TempDir(), "database"))
	ctx := context.Background()

	require.NoError(t, f.Put(ctx, common.CollectionMessages, []byte(`{"messages":[]}`)))
	require.NoError(t, f.Delete(ctx, common.CollectionMessages))
	require.NoError(t, f.Delete(ctx, common.CollectionMessages))

	_, err := f.Get(ctx, common.CollectionMessages)
	require.True(t, errors.Is(err, common.ErrorNotFound))
}

func TestFile_UnknownKeyGetsDefaultName(t *testing.T) {
	root := filepath.Join(t.TempDir(), "database")
	f := NewFile(root)

	require.NoError(t, f.Put(context.Background(), "audit", []byte(`[]`)))
	_, err := os.Stat(filepath.Join(root, "audit.json"))
	require.NoError(t, err)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
