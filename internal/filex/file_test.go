package filex

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEnsureDir_CreatesNestedDirectory(t *testing.T) {
	tmp := t.TempDir()
	dir := filepath.Join(tmp, "database", "nested")

	require.NoError(t, EnsureDir(dir))

	fi, err := os.Stat(dir)
	require.NoError(t, err)
	require.True(t, fi.IsDir())
}

func TestEnsureDir_Idempotent(t *testing.T) {
	tmp := t.TempDir()
	dir := filepath.Join(tmp, "database")

	require.NoError(t, EnsureDir(dir))
	require.NoError(t, EnsureDir(dir))
}

func TestEnsureDir_FailsIfFileWithSameNameExists(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "database")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o660))

	require.Error(t, EnsureDir(path))
}

func TestExists(t *testing.T) {
	tmp := t.TempDir()
	require.True(t, Exists(tmp))
	require.False(t, Exists(filepath.Join(tmp, "missing.json")))
}
